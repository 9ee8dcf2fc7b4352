package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.temporal.io/sdk/temporal"

	"github.com/ghuser/workcosts/pkg/errhttp"
	"github.com/ghuser/workcosts/pkg/httpx"
	"github.com/ghuser/workcosts/services/costs/application/workflows"
)

// resultWait bounds how long a status request blocks on a running report.
const resultWait = 2 * time.Second

// ReportRunner starts report workflows and fetches their results.
// *workflows.Starter implements it.
type ReportRunner interface {
	Start(ctx context.Context, req workflows.ReportRequest) (string, error)
	Result(ctx context.Context, workflowID string) (*workflows.ReportSummary, error)
}

// ReportAcceptedResponse is returned when a report run was queued or is still running.
type ReportAcceptedResponse struct {
	WorkflowID string `json:"workflow_id" example:"project-cost-report-123e4567-e89b-12d3-a456-426614174000-1"`
	Status     string `json:"status"      example:"running"`
	StatusURL  string `json:"status_url"  example:"/api/cost_reports/project-cost-report-123e4567-e89b-12d3-a456-426614174000-1"`
} // @name ReportAccepted

// SubmitReportHandler handles POST /projects/{id}/cost_reports.
type SubmitReportHandler struct {
	svc    CostsReader
	runner ReportRunner
}

// NewSubmitReportHandler returns a SubmitReportHandler. A nil runner means
// background reports are disabled.
func NewSubmitReportHandler(svc CostsReader, runner ReportRunner) *SubmitReportHandler {
	return &SubmitReportHandler{svc: svc, runner: runner}
}

// Execute queues a project cost report as a workflow.
//
//	@Summary		Queue a project cost report
//	@Description	The report is built in the background with the requesting user's permissions.
//	@Tags			projects
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"	format(uuid)
//	@Success		202	{object}	ReportAcceptedResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/projects/{id}/cost_reports [post]
func (h *SubmitReportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		httpx.JSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "background reports are disabled"})
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.svc)
	if !ok {
		return
	}

	wfID, err := h.runner.Start(r.Context(), workflows.ReportRequest{ProjectID: id, RequestedBy: user.ID})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, accepted(wfID))
}

// GetReportHandler handles GET /cost_reports/{workflowID}.
type GetReportHandler struct {
	runner ReportRunner
	wait   time.Duration
}

// NewGetReportHandler returns a GetReportHandler. A nil runner means
// background reports are disabled.
func NewGetReportHandler(runner ReportRunner) *GetReportHandler {
	return &GetReportHandler{runner: runner, wait: resultWait}
}

// Execute returns a finished report, or 202 while the run is in progress.
//
//	@Summary	Project cost report result
//	@Tags		projects
//	@Produce	json
//	@Param		workflowID	path		string	true	"Workflow ID"
//	@Success	200			{object}	workflows.ReportSummary
//	@Success	202			{object}	ReportAcceptedResponse
//	@Failure	422			{object}	ErrorResponse
//	@Failure	503			{object}	ErrorResponse
//	@Router		/cost_reports/{workflowID} [get]
func (h *GetReportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		httpx.JSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "background reports are disabled"})
		return
	}
	wfID := chi.URLParam(r, "workflowID")

	ctx, cancel := context.WithTimeout(r.Context(), h.wait)
	defer cancel()

	summary, err := h.runner.Result(ctx, wfID)
	var (
		execErr *temporal.WorkflowExecutionError
		appErr  *temporal.ApplicationError
	)
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, summary)
	case errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil:
		httpx.JSON(w, http.StatusAccepted, accepted(wfID))
	case errors.As(err, &execErr), errors.As(err, &appErr):
		httpx.JSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "report failed"})
	default:
		errhttp.WriteError(w, r, err)
	}
}

func accepted(wfID string) ReportAcceptedResponse {
	return ReportAcceptedResponse{
		WorkflowID: wfID,
		Status:     "running",
		StatusURL:  "/api/cost_reports/" + wfID,
	}
}
