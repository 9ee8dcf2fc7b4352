package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/workcosts/pkg/app"
	"github.com/ghuser/workcosts/pkg/auth"
	"github.com/ghuser/workcosts/services/settings/application/handlers"
)

// SettingsRoutes registers settings endpoints on the provided chi router.
// Reads are public; updates need an administrator session.
func SettingsRoutes(r chi.Router, a *app.Application, svc handlers.SettingsManager, admins handlers.AdminChecker) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", handlers.RedirectSettingsHandler{}.Execute)
		r.Get("/general", handlers.NewGetGeneralSettingsHandler(svc).Execute)
		r.Get("/plugin/{id}", handlers.NewGetPluginSettingsHandler(svc).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			r.Post("/plugin/{id}", handlers.NewPostPluginSettingsHandler(svc, admins).Execute)
		})
	})
}
