package handlers

import (
	"net/http"

	"github.com/ghuser/workcosts/pkg/errhttp"
	"github.com/ghuser/workcosts/pkg/httpx"
)

// ListCostEntriesHandler handles GET /work_packages/{id}/cost_entries.
type ListCostEntriesHandler struct {
	svc CostsReader
}

// NewListCostEntriesHandler returns a ListCostEntriesHandler backed by svc.
func NewListCostEntriesHandler(svc CostsReader) *ListCostEntriesHandler {
	return &ListCostEntriesHandler{svc: svc}
}

// Execute lists the cost entries of a work package visible to the session user.
//
//	@Summary		Cost entries of a work package
//	@Description	Amounts are shown only with the view cost rates permission.
//	@Tags			cost_entries
//	@Produce		json
//	@Param			id	path		string	true	"Work package ID"	format(uuid)
//	@Success		200	{array}		CostEntryResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/work_packages/{id}/cost_entries [get]
func (h *ListCostEntriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.svc)
	if !ok {
		return
	}

	entries, err := h.svc.CostEntries(r.Context(), user, id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	out := make([]CostEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toCostEntry(e))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// ListTimeEntriesHandler handles GET /work_packages/{id}/time_entries.
type ListTimeEntriesHandler struct {
	svc CostsReader
}

// NewListTimeEntriesHandler returns a ListTimeEntriesHandler backed by svc.
func NewListTimeEntriesHandler(svc CostsReader) *ListTimeEntriesHandler {
	return &ListTimeEntriesHandler{svc: svc}
}

// Execute lists the time entries of a work package visible to the session user.
//
//	@Summary		Time entries of a work package
//	@Description	Hourly rates are shown only with the view hourly rates permission, or the own variant for the user's entries.
//	@Tags			time_entries
//	@Produce		json
//	@Param			id	path		string	true	"Work package ID"	format(uuid)
//	@Success		200	{array}		TimeEntryResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/work_packages/{id}/time_entries [get]
func (h *ListTimeEntriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.svc)
	if !ok {
		return
	}

	entries, err := h.svc.TimeEntries(r.Context(), user, id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	out := make([]TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toTimeEntry(e))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GetCostEntryHandler handles GET /cost_entries/{id}.
type GetCostEntryHandler struct {
	svc CostsReader
}

// NewGetCostEntryHandler returns a GetCostEntryHandler backed by svc.
func NewGetCostEntryHandler(svc CostsReader) *GetCostEntryHandler {
	return &GetCostEntryHandler{svc: svc}
}

// Execute returns one cost entry. Entries the user may not see are 404.
//
//	@Summary		Cost entry
//	@Tags			cost_entries
//	@Produce		json
//	@Param			id	path		string	true	"Cost entry ID"	format(uuid)
//	@Success		200	{object}	CostEntryResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/cost_entries/{id} [get]
func (h *GetCostEntryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.svc)
	if !ok {
		return
	}

	entry, err := h.svc.CostEntry(r.Context(), user, id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCostEntry(*entry))
}
