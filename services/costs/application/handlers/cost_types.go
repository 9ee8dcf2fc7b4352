package handlers

import (
	"net/http"

	"github.com/ghuser/workcosts/pkg/errhttp"
	"github.com/ghuser/workcosts/pkg/httpx"
)

// ListCostTypesHandler handles GET /cost_types.
type ListCostTypesHandler struct {
	svc CostsReader
}

// NewListCostTypesHandler returns a ListCostTypesHandler backed by svc.
func NewListCostTypesHandler(svc CostsReader) *ListCostTypesHandler {
	return &ListCostTypesHandler{svc: svc}
}

// Execute lists all cost types.
//
//	@Summary	Cost types
//	@Tags		cost_types
//	@Produce	json
//	@Success	200	{array}	CostTypeResponse
//	@Router		/cost_types [get]
func (h *ListCostTypesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.CostTypes(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	out := make([]CostTypeResponse, 0, len(types))
	for _, ct := range types {
		out = append(out, toCostType(ct))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GetCostTypeHandler handles GET /cost_types/{id}.
type GetCostTypeHandler struct {
	svc CostsReader
}

// NewGetCostTypeHandler returns a GetCostTypeHandler backed by svc.
func NewGetCostTypeHandler(svc CostsReader) *GetCostTypeHandler {
	return &GetCostTypeHandler{svc: svc}
}

// Execute returns one cost type.
//
//	@Summary	Cost type
//	@Tags		cost_types
//	@Produce	json
//	@Param		id	path		string	true	"Cost type ID"	format(uuid)
//	@Success	200	{object}	CostTypeResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/cost_types/{id} [get]
func (h *GetCostTypeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ct, err := h.svc.CostType(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCostType(*ct))
}
