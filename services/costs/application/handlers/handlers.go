// Package handlers exposes the costs application service over HTTP.
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/workcosts/pkg/auth"
	"github.com/ghuser/workcosts/pkg/errhttp"
	"github.com/ghuser/workcosts/pkg/httpx"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	domainsvcs "github.com/ghuser/workcosts/services/costs/domain/services"
)

// CostsReader is the part of the costs application service the handlers use.
// *services.CostsService implements it.
type CostsReader interface {
	CurrentUser(ctx context.Context, id uuid.UUID) (models.User, error)
	WorkItemCosts(ctx context.Context, user models.User, workItemID uuid.UUID) (*domainsvcs.Representation, error)
	SummarizedCostsByType(ctx context.Context, user models.User, workItemID uuid.UUID) (domainsvcs.FieldValue, error)
	CostEntries(ctx context.Context, user models.User, workItemID uuid.UUID) ([]domainsvcs.VisibleCostEntry, error)
	TimeEntries(ctx context.Context, user models.User, workItemID uuid.UUID) ([]domainsvcs.VisibleTimeEntry, error)
	CostEntry(ctx context.Context, user models.User, id uuid.UUID) (*domainsvcs.VisibleCostEntry, error)
	CostTypes(ctx context.Context) ([]models.CostType, error)
	CostType(ctx context.Context, id uuid.UUID) (*models.CostType, error)
	Sums(ctx context.Context, user models.User, projectID uuid.UUID) ([]domainsvcs.FieldValue, error)
	Schema(ctx context.Context, projectID uuid.UUID) (fields, sums []domainsvcs.SchemaField, err error)
	ProjectReport(ctx context.Context, user models.User, projectID uuid.UUID) (*domainsvcs.ProjectReport, error)
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"work item not found"`
} // @name ErrorResponse

// pathID parses the {id} URL parameter, writing 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// currentUser resolves the session user; requests without one are anonymous.
func currentUser(w http.ResponseWriter, r *http.Request, svc CostsReader) (models.User, bool) {
	user, err := svc.CurrentUser(r.Context(), auth.UserIDOrNil(r.Context()))
	if err != nil {
		errhttp.WriteError(w, r, err)
		return models.User{}, false
	}
	return user, true
}
