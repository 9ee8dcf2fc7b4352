// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/workcosts/pkg/httpx"
	"github.com/ghuser/workcosts/pkg/logger"
	"github.com/ghuser/workcosts/pkg/telemetry"
	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	settingsdomain "github.com/ghuser/workcosts/services/settings/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors; their
// message is not echoed to the client but goes to Sentry and the request log.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		logger.Annotate(r, "error", err.Error())
		telemetry.CaptureError(r.Context(), err)
	}
	httpx.JSONError(w, status, httpx.SafeError(err, status))
}

func mapErrorToStatus(err error) int {
	switch {
	// Costs that do not apply look exactly like a missing resource.
	case errors.Is(err, costsdomain.ErrWorkItemNotFound),
		errors.Is(err, costsdomain.ErrProjectNotFound),
		errors.Is(err, costsdomain.ErrCostTypeNotFound),
		errors.Is(err, costsdomain.ErrCostEntryNotFound),
		errors.Is(err, costsdomain.ErrNotApplicable),
		errors.Is(err, settingsdomain.ErrPluginNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, costsdomain.ErrForbidden):
		return http.StatusForbidden // 403
	case errors.Is(err, costsdomain.ErrUserNotFound):
		return http.StatusUnauthorized // 401
	case errors.Is(err, settingsdomain.ErrInvalidSettings):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}
