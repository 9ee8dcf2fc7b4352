package handlers

import (
	"net/http"

	"github.com/ghuser/workcosts/pkg/errhttp"
	"github.com/ghuser/workcosts/pkg/httpx"
	"github.com/ghuser/workcosts/services/costs/application/workflows"
)

// GetSumsHandler handles GET /projects/{id}/work_packages/sums.
type GetSumsHandler struct {
	svc CostsReader
}

// NewGetSumsHandler returns a GetSumsHandler backed by svc.
func NewGetSumsHandler(svc CostsReader) *GetSumsHandler {
	return &GetSumsHandler{svc: svc}
}

// Execute sums the summable cost columns over the project's work packages.
//
//	@Summary		Work package cost sums
//	@Description	Only columns listed in the work_package_list_summable_columns setting are returned.
//	@Tags			projects
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	SumsResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/projects/{id}/work_packages/sums [get]
func (h *GetSumsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.svc)
	if !ok {
		return
	}

	sums, err := h.svc.Sums(r.Context(), user, id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	out := SumsResponse{ProjectID: id, Sums: make([]SumResponse, 0, len(sums))}
	for _, fv := range sums {
		f := toField(fv)
		out.Sums = append(out.Sums, SumResponse{Name: f.Name, Own: f.Own, Value: f.Value})
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GetSchemaHandler handles GET /projects/{id}/costs_schema.
type GetSchemaHandler struct {
	svc CostsReader
}

// NewGetSchemaHandler returns a GetSchemaHandler backed by svc.
func NewGetSchemaHandler(svc CostsReader) *GetSchemaHandler {
	return &GetSchemaHandler{svc: svc}
}

// Execute describes the cost fields of the project's work package schema.
//
//	@Summary	Cost schema
//	@Tags		projects
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	SchemaResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/projects/{id}/costs_schema [get]
func (h *GetSchemaHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	fields, sums, err := h.svc.Schema(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, SchemaResponse{
		ProjectID: id,
		Fields:    toSchemaFields(fields),
		Sums:      toSchemaFields(sums),
	})
}

// GetProjectReportHandler handles GET /projects/{id}/cost_report.
type GetProjectReportHandler struct {
	svc CostsReader
}

// NewGetProjectReportHandler returns a GetProjectReportHandler backed by svc.
func NewGetProjectReportHandler(svc CostsReader) *GetProjectReportHandler {
	return &GetProjectReportHandler{svc: svc}
}

// Execute builds the project cost report synchronously.
//
//	@Summary	Project cost report
//	@Tags		projects
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	workflows.ReportSummary
//	@Failure	400	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/projects/{id}/cost_report [get]
func (h *GetProjectReportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.svc)
	if !ok {
		return
	}

	report, err := h.svc.ProjectReport(r.Context(), user, id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, workflows.Summarize(report, nowUTC()))
}
