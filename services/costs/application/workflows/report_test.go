package workflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	domainsvcs "github.com/ghuser/workcosts/services/costs/domain/services"
)

type fakeSource struct {
	user      models.User
	userErr   error
	report    *domainsvcs.ProjectReport
	reportErr error
}

func (f fakeSource) CurrentUser(context.Context, uuid.UUID) (models.User, error) {
	return f.user, f.userErr
}

func (f fakeSource) ProjectReport(context.Context, models.User, uuid.UUID) (*domainsvcs.ProjectReport, error) {
	return f.report, f.reportErr
}

func sampleReport() *domainsvcs.ProjectReport {
	return &domainsvcs.ProjectReport{
		ProjectID: uuid.New(),
		Currency:  models.CurrencyConfig{Code: "USD", Format: "%u%n"},
		Lines: []domainsvcs.ReportLine{{
			WorkItemID: uuid.New(),
			Subject:    "Build bridge",
			Labor:      models.MustParseMoney("100"),
			Material:   models.MustParseMoney("30"),
			Overall:    models.MustParseMoney("130"),
		}},
		Labor:    models.MustParseMoney("100"),
		Material: models.MustParseMoney("30"),
		Overall:  models.MustParseMoney("130"),
	}
}

func TestSummarize(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := Summarize(sampleReport(), at)

	assert.Equal(t, "USD130.00", s.Overall)
	assert.Equal(t, "USD100.00", s.Labor)
	require.Len(t, s.Lines, 1)
	assert.Equal(t, "Build bridge", s.Lines[0].Subject)
	assert.Equal(t, "USD30.00", s.Lines[0].Material)
	assert.Equal(t, at, s.GeneratedAt)
}

func TestProjectReportWorkflow(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	var a *ReportActivities
	env.RegisterWorkflow(ProjectReportWorkflow)
	env.RegisterActivity(&ReportActivities{})
	want := Summarize(sampleReport(), time.Time{})
	env.OnActivity(a.BuildProjectReport, mock.Anything, mock.Anything).Return(want, nil)

	env.ExecuteWorkflow(ProjectReportWorkflow, ReportRequest{ProjectID: want.ProjectID})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var got ReportSummary
	require.NoError(t, env.GetWorkflowResult(&got))
	assert.Equal(t, want.Overall, got.Overall)
	assert.Equal(t, want.ProjectID, got.ProjectID)
}

func TestBuildProjectReport_Activity(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	var a *ReportActivities

	t.Run("success", func(t *testing.T) {
		env := suite.NewTestActivityEnvironment()
		env.RegisterActivity(&ReportActivities{Source: fakeSource{report: sampleReport()}})

		val, err := env.ExecuteActivity(a.BuildProjectReport, ReportRequest{ProjectID: uuid.New()})
		require.NoError(t, err)
		var got ReportSummary
		require.NoError(t, val.Get(&got))
		assert.Equal(t, "USD130.00", got.Overall)
	})

	t.Run("forbidden is not retryable", func(t *testing.T) {
		env := suite.NewTestActivityEnvironment()
		env.RegisterActivity(&ReportActivities{Source: fakeSource{reportErr: costsdomain.ErrForbidden}})

		_, err := env.ExecuteActivity(a.BuildProjectReport, ReportRequest{ProjectID: uuid.New()})
		require.Error(t, err)
		var appErr *temporal.ApplicationError
		require.True(t, errors.As(err, &appErr))
		assert.True(t, appErr.NonRetryable())
	})

	t.Run("unknown user is not retryable", func(t *testing.T) {
		env := suite.NewTestActivityEnvironment()
		env.RegisterActivity(&ReportActivities{Source: fakeSource{userErr: costsdomain.ErrUserNotFound}})

		_, err := env.ExecuteActivity(a.BuildProjectReport, ReportRequest{RequestedBy: uuid.New()})
		var appErr *temporal.ApplicationError
		require.True(t, errors.As(err, &appErr))
		assert.True(t, appErr.NonRetryable())
	})
}
