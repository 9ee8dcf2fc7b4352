package auth

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/workcosts/pkg/httpx"
	"github.com/ghuser/workcosts/pkg/logger"
)

const sessionName = "workcosts_session"
const sessionUserIDKey = "user_id"

var (
	errNoSession      = errors.New("no session user")
	errInvalidSession = errors.New("invalid session data")
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the user ID, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a valid user_id.
//
// After this middleware, handlers can safely call auth.UserIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessionUser(store, r, log)
			if err != nil {
				msg := "authentication required"
				if errors.Is(err, errInvalidSession) {
					msg = "invalid session data"
				}
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": msg})
				return
			}
			next.ServeHTTP(w, withUser(r, userID))
		})
	}
}

// OptionalAuth is RequireAuth for endpoints that also serve anonymous users.
// Requests without a session user pass through with no user ID; a session
// holding a malformed user_id is still rejected.
func OptionalAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessionUser(store, r, log)
			switch {
			case errors.Is(err, errInvalidSession):
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			case err != nil:
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, withUser(r, userID))
		})
	}
}

// Login stores userID in the session and writes the session cookie.
func Login(store sessions.Store, w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Values[sessionUserIDKey] = userID.String()
	return session.Save(r, w)
}

// withUser attaches userID to the request context and its log records.
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	r = logger.Annotate(r, "user_id", userID.String())
	return r.WithContext(WithUserID(r.Context(), userID))
}

func sessionUser(store sessions.Store, r *http.Request, log logger.Logger) (uuid.UUID, error) {
	session, err := store.Get(r, sessionName)
	if err != nil {
		log.WarnContext(r.Context(), "invalid session cookie", "error", err)
		return uuid.Nil, errNoSession
	}

	userIDStr, ok := session.Values[sessionUserIDKey].(string)
	if !ok || userIDStr == "" {
		return uuid.Nil, errNoSession
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		log.WarnContext(r.Context(), "invalid user_id in session", "user_id", userIDStr, "error", err)
		return uuid.Nil, errInvalidSession
	}
	return userID, nil
}
