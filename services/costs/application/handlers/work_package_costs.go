package handlers

import (
	"net/http"

	"github.com/ghuser/workcosts/pkg/errhttp"
	"github.com/ghuser/workcosts/pkg/httpx"
)

// GetWorkItemCostsHandler handles GET /work_packages/{id}/costs.
type GetWorkItemCostsHandler struct {
	svc CostsReader
}

// NewGetWorkItemCostsHandler returns a GetWorkItemCostsHandler backed by svc.
func NewGetWorkItemCostsHandler(svc CostsReader) *GetWorkItemCostsHandler {
	return &GetWorkItemCostsHandler{svc: svc}
}

// Execute returns the cost fields and links of a work package visible to the session user.
//
//	@Summary		Work package costs
//	@Description	Labor, material and overall costs plus the costs-by-type breakdown, each shown only with the matching permission. Fields aggregate the user's own entries when only the own permission is held.
//	@Tags			costs
//	@Produce		json
//	@Param			id	path		string	true	"Work package ID"	format(uuid)
//	@Success		200	{object}	WorkItemCostsResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/work_packages/{id}/costs [get]
func (h *GetWorkItemCostsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.svc)
	if !ok {
		return
	}

	rep, err := h.svc.WorkItemCosts(r.Context(), user, id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toWorkItemCosts(rep))
}

// GetCostsByTypeHandler handles GET /work_packages/{id}/summarized_costs_by_type.
type GetCostsByTypeHandler struct {
	svc CostsReader
}

// NewGetCostsByTypeHandler returns a GetCostsByTypeHandler backed by svc.
func NewGetCostsByTypeHandler(svc CostsReader) *GetCostsByTypeHandler {
	return &GetCostsByTypeHandler{svc: svc}
}

// Execute returns the material costs of a work package grouped by cost type.
//
//	@Summary		Costs by type
//	@Tags			costs
//	@Produce		json
//	@Param			id	path		string	true	"Work package ID"	format(uuid)
//	@Success		200	{object}	CostsByTypeResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/work_packages/{id}/summarized_costs_by_type [get]
func (h *GetCostsByTypeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.svc)
	if !ok {
		return
	}

	fv, err := h.svc.SummarizedCostsByType(r.Context(), user, id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, CostsByTypeResponse{
		WorkPackageID: id,
		Own:           fv.Own,
		Elements:      toBreakdown(fv.Breakdown),
	})
}
