// Package workflows holds the Temporal workflow that renders a project cost
// report in the background, plus the client-side starter used by the API.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	domainsvcs "github.com/ghuser/workcosts/services/costs/domain/services"
)

// ProjectReportWorkflowName is the registered name of ProjectReportWorkflow.
const ProjectReportWorkflowName = "ProjectCostReport"

// ReportRequest identifies one project cost report run.
type ReportRequest struct {
	ProjectID   uuid.UUID `json:"project_id"`
	RequestedBy uuid.UUID `json:"requested_by"` // uuid.Nil for anonymous
}

// ReportLine is one work item row of a rendered report.
type ReportLine struct {
	WorkItemID uuid.UUID `json:"work_item_id"`
	Subject    string    `json:"subject"`
	Labor      string    `json:"labor_costs"`
	Material   string    `json:"material_costs"`
	Overall    string    `json:"overall_costs"`
}

// ReportSummary is the workflow result: every amount already formatted with
// the project currency.
type ReportSummary struct {
	ProjectID   uuid.UUID    `json:"project_id"`
	Own         bool         `json:"own"`
	Lines       []ReportLine `json:"lines"`
	Labor       string       `json:"labor_costs"`
	Material    string       `json:"material_costs"`
	Overall     string       `json:"overall_costs"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Summarize formats a domain report for transport.
func Summarize(r *domainsvcs.ProjectReport, at time.Time) *ReportSummary {
	format := func(m models.Money) string { return models.FormatCurrency(m, r.Currency) }
	out := &ReportSummary{
		ProjectID:   r.ProjectID,
		Own:         r.Own,
		Lines:       make([]ReportLine, 0, len(r.Lines)),
		Labor:       format(r.Labor),
		Material:    format(r.Material),
		Overall:     format(r.Overall),
		GeneratedAt: at,
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, ReportLine{
			WorkItemID: l.WorkItemID,
			Subject:    l.Subject,
			Labor:      format(l.Labor),
			Material:   format(l.Material),
			Overall:    format(l.Overall),
		})
	}
	return out
}

// ReportSource is the part of the costs application service the activity needs.
type ReportSource interface {
	CurrentUser(ctx context.Context, id uuid.UUID) (models.User, error)
	ProjectReport(ctx context.Context, user models.User, projectID uuid.UUID) (*domainsvcs.ProjectReport, error)
}

// ReportActivities are registered on the worker as a struct so they share the source.
type ReportActivities struct {
	Source ReportSource
}

// BuildProjectReport loads and aggregates the report. Permission and
// applicability failures are not retried.
func (a *ReportActivities) BuildProjectReport(ctx context.Context, req ReportRequest) (*ReportSummary, error) {
	log := activity.GetLogger(ctx)

	user, err := a.Source.CurrentUser(ctx, req.RequestedBy)
	if err != nil {
		if errors.Is(err, costsdomain.ErrUserNotFound) {
			return nil, temporal.NewNonRetryableApplicationError("requesting user not found", "UserNotFound", err)
		}
		return nil, err
	}

	report, err := a.Source.ProjectReport(ctx, user, req.ProjectID)
	switch {
	case errors.Is(err, costsdomain.ErrForbidden),
		errors.Is(err, costsdomain.ErrNotApplicable),
		errors.Is(err, costsdomain.ErrProjectNotFound),
		errors.Is(err, costsdomain.ErrInconsistentData):
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "ReportRejected", err)
	case err != nil:
		return nil, err
	}

	log.Info("project cost report built", "project_id", req.ProjectID, "lines", len(report.Lines))
	return Summarize(report, time.Now().UTC()), nil
}

// ProjectReportWorkflow runs BuildProjectReport with bounded retries.
func ProjectReportWorkflow(ctx workflow.Context, req ReportRequest) (*ReportSummary, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	var a *ReportActivities
	var summary ReportSummary
	if err := workflow.ExecuteActivity(ctx, a.BuildProjectReport, req).Get(ctx, &summary); err != nil {
		return nil, fmt.Errorf("build project report: %w", err)
	}
	return &summary, nil
}

// Starter launches report workflows and collects their results.
type Starter struct {
	client    client.Client
	taskQueue string
}

// NewStarter returns a Starter submitting to taskQueue.
func NewStarter(c client.Client, taskQueue string) *Starter {
	return &Starter{client: c, taskQueue: taskQueue}
}

// Start submits a report run and returns its workflow ID.
func (s *Starter) Start(ctx context.Context, req ReportRequest) (string, error) {
	run, err := s.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("project-cost-report-%s-%s", req.ProjectID, uuid.NewString()),
		TaskQueue: s.taskQueue,
	}, ProjectReportWorkflowName, req)
	if err != nil {
		return "", fmt.Errorf("start report workflow: %w", err)
	}
	return run.GetID(), nil
}

// Result waits for a run until ctx expires. Callers treat a deadline error as
// "still running".
func (s *Starter) Result(ctx context.Context, workflowID string) (*ReportSummary, error) {
	var summary ReportSummary
	if err := s.client.GetWorkflow(ctx, workflowID, "").Get(ctx, &summary); err != nil {
		return nil, fmt.Errorf("report workflow %s: %w", workflowID, err)
	}
	return &summary, nil
}

// Register adds the report workflow and its activities to a worker.
func Register(r worker.Registry, src ReportSource) {
	r.RegisterWorkflowWithOptions(ProjectReportWorkflow, workflow.RegisterOptions{Name: ProjectReportWorkflowName})
	r.RegisterActivity(&ReportActivities{Source: src})
}
