package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/workcosts/pkg/app"
	"github.com/ghuser/workcosts/pkg/auth"
	"github.com/ghuser/workcosts/services/costs/application/handlers"
	appsvcs "github.com/ghuser/workcosts/services/costs/application/services"
	"github.com/ghuser/workcosts/services/costs/application/workflows"
)

// CostsRoutes registers costs endpoints on the provided chi router. Requests
// without a session are evaluated as the anonymous user.
func CostsRoutes(r chi.Router, a *app.Application, svc *appsvcs.CostsService) {
	var runner handlers.ReportRunner
	if a.TemporalClient != nil {
		runner = workflows.NewStarter(a.TemporalClient.Client, a.Config.CostsTaskQueue)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(a.SessionStore, a.Logger))

		r.Route("/work_packages/{id}", func(r chi.Router) {
			r.Get("/costs", handlers.NewGetWorkItemCostsHandler(svc).Execute)
			r.Get("/summarized_costs_by_type", handlers.NewGetCostsByTypeHandler(svc).Execute)
			r.Get("/cost_entries", handlers.NewListCostEntriesHandler(svc).Execute)
			r.Get("/time_entries", handlers.NewListTimeEntriesHandler(svc).Execute)
		})
		r.Get("/cost_entries/{id}", handlers.NewGetCostEntryHandler(svc).Execute)
		r.Route("/cost_types", func(r chi.Router) {
			r.Get("/", handlers.NewListCostTypesHandler(svc).Execute)
			r.Get("/{id}", handlers.NewGetCostTypeHandler(svc).Execute)
		})
		r.Route("/projects/{id}", func(r chi.Router) {
			r.Get("/work_packages/sums", handlers.NewGetSumsHandler(svc).Execute)
			r.Get("/costs_schema", handlers.NewGetSchemaHandler(svc).Execute)
			r.Get("/cost_report", handlers.NewGetProjectReportHandler(svc).Execute)
			r.Post("/cost_reports", handlers.NewSubmitReportHandler(svc, runner).Execute)
		})
		r.Get("/cost_reports/{workflowID}", handlers.NewGetReportHandler(runner).Execute)
	})
}
