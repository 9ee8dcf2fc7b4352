package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/ghuser/workcosts/services/costs/application/workflows"
	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	domainsvcs "github.com/ghuser/workcosts/services/costs/domain/services"
)

// stubReader answers every CostsReader call from its fields.
type stubReader struct {
	user    models.User
	userErr error

	rep      *domainsvcs.Representation
	byType   domainsvcs.FieldValue
	costs    []domainsvcs.VisibleCostEntry
	times    []domainsvcs.VisibleTimeEntry
	types    []models.CostType
	sums     []domainsvcs.FieldValue
	fields   []domainsvcs.SchemaField
	report   *domainsvcs.ProjectReport
	err      error
	lastItem uuid.UUID
}

func (s *stubReader) CurrentUser(context.Context, uuid.UUID) (models.User, error) {
	return s.user, s.userErr
}

func (s *stubReader) WorkItemCosts(_ context.Context, _ models.User, id uuid.UUID) (*domainsvcs.Representation, error) {
	s.lastItem = id
	return s.rep, s.err
}

func (s *stubReader) SummarizedCostsByType(context.Context, models.User, uuid.UUID) (domainsvcs.FieldValue, error) {
	return s.byType, s.err
}

func (s *stubReader) CostEntries(context.Context, models.User, uuid.UUID) ([]domainsvcs.VisibleCostEntry, error) {
	return s.costs, s.err
}

func (s *stubReader) TimeEntries(context.Context, models.User, uuid.UUID) ([]domainsvcs.VisibleTimeEntry, error) {
	return s.times, s.err
}

func (s *stubReader) CostEntry(_ context.Context, _ models.User, id uuid.UUID) (*domainsvcs.VisibleCostEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.costs {
		if s.costs[i].Entry.ID == id {
			return &s.costs[i], nil
		}
	}
	return nil, costsdomain.ErrCostEntryNotFound
}

func (s *stubReader) CostTypes(context.Context) ([]models.CostType, error) {
	return s.types, s.err
}

func (s *stubReader) CostType(_ context.Context, id uuid.UUID) (*models.CostType, error) {
	for i := range s.types {
		if s.types[i].ID == id {
			return &s.types[i], nil
		}
	}
	return nil, costsdomain.ErrCostTypeNotFound
}

func (s *stubReader) Sums(context.Context, models.User, uuid.UUID) ([]domainsvcs.FieldValue, error) {
	return s.sums, s.err
}

func (s *stubReader) Schema(context.Context, uuid.UUID) ([]domainsvcs.SchemaField, []domainsvcs.SchemaField, error) {
	return s.fields, s.fields, s.err
}

func (s *stubReader) ProjectReport(context.Context, models.User, uuid.UUID) (*domainsvcs.ProjectReport, error) {
	return s.report, s.err
}

func serve(t *testing.T, pattern, method, target string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

var travel = models.CostType{ID: uuid.New(), Name: "Travel", UnitName: "trip", UnitPluralName: "trips"}

func TestGetWorkItemCosts(t *testing.T) {
	itemID, projectID := uuid.New(), uuid.New()
	svc := &stubReader{rep: &domainsvcs.Representation{
		WorkItemID:   itemID,
		ProjectID:    projectID,
		Subject:      "Build bridge",
		CostsEnabled: true,
		Fields: []domainsvcs.FieldValue{
			{Field: domainsvcs.FieldLaborCosts, Formatted: "250.00 EUR"},
			{Field: domainsvcs.FieldMaterialCosts, Null: true},
			{Field: domainsvcs.FieldCostsByType, Own: true, Breakdown: []domainsvcs.FormattedTypeCost{
				{CostType: travel, Units: decimal.NewFromInt(2), SpentUnits: "2 trips", Formatted: "13.00 EUR"},
			}},
		},
		Links: []domainsvcs.Link{domainsvcs.LinkLogCosts, domainsvcs.LinkShowCosts},
	}}

	rec := serve(t, "/work_packages/{id}/costs", http.MethodGet, "/work_packages/"+itemID.String()+"/costs",
		NewGetWorkItemCostsHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, itemID, svc.lastItem)

	var body WorkItemCostsResponse
	decode(t, rec, &body)
	require.Len(t, body.Fields, 3)

	labor := body.Fields[0]
	require.NotNil(t, labor.Value)
	assert.Equal(t, "250.00 EUR", *labor.Value)

	assert.Nil(t, body.Fields[1].Value, "hidden field renders as null")

	byType := body.Fields[2]
	assert.True(t, byType.Own)
	assert.Nil(t, byType.Value)
	require.NotNil(t, byType.Breakdown)
	require.Len(t, *byType.Breakdown, 1)
	assert.Equal(t, "2 trips", (*byType.Breakdown)[0].SpentUnits)

	assert.Contains(t, body.Links, "costsByType")
	assert.Equal(t, "Log costs on Build bridge", body.Links["logCosts"].Title)
	assert.Contains(t, body.Links["showCosts"].Href, "/projects/"+projectID.String()+"/cost_reports?")
	assert.Contains(t, body.Links["showCosts"].Href, itemID.String())
}

func TestGetWorkItemCosts_BreakdownVisibility(t *testing.T) {
	tests := []struct {
		name  string
		field domainsvcs.FieldValue
		want  string
	}{
		{"visible without entries", domainsvcs.FieldValue{Field: domainsvcs.FieldCostsByType},
			`{"name":"costsByType","own":false,"value":null,"breakdown":[]}`},
		{"hidden", domainsvcs.FieldValue{Field: domainsvcs.FieldCostsByType, Null: true},
			`{"name":"costsByType","own":false,"value":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			itemID := uuid.New()
			svc := &stubReader{rep: &domainsvcs.Representation{
				WorkItemID:   itemID,
				CostsEnabled: true,
				Fields:       []domainsvcs.FieldValue{tt.field},
			}}
			rec := serve(t, "/work_packages/{id}/costs", http.MethodGet, "/work_packages/"+itemID.String()+"/costs",
				NewGetWorkItemCostsHandler(svc).Execute)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Fields []json.RawMessage `json:"fields"`
			}
			decode(t, rec, &body)
			require.Len(t, body.Fields, 1)
			assert.JSONEq(t, tt.want, string(body.Fields[0]))
		})
	}
}

func TestGetWorkItemCosts_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		svc    *stubReader
		want   int
	}{
		{"malformed id", "/work_packages/nope/costs", &stubReader{}, http.StatusBadRequest},
		{"missing work item", "/work_packages/" + uuid.NewString() + "/costs",
			&stubReader{err: costsdomain.ErrWorkItemNotFound}, http.StatusNotFound},
		{"unknown session user", "/work_packages/" + uuid.NewString() + "/costs",
			&stubReader{userErr: costsdomain.ErrUserNotFound}, http.StatusUnauthorized},
		{"store failure", "/work_packages/" + uuid.NewString() + "/costs",
			&stubReader{err: errors.New("connection reset")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "/work_packages/{id}/costs", http.MethodGet, tt.target,
				NewGetWorkItemCostsHandler(tt.svc).Execute)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestGetWorkItemCosts_CostsDisabled(t *testing.T) {
	itemID := uuid.New()
	svc := &stubReader{rep: &domainsvcs.Representation{WorkItemID: itemID}}

	rec := serve(t, "/work_packages/{id}/costs", http.MethodGet, "/work_packages/"+itemID.String()+"/costs",
		NewGetWorkItemCostsHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)

	var body WorkItemCostsResponse
	decode(t, rec, &body)
	assert.Empty(t, body.Fields)
	assert.Empty(t, body.Links)
}

func TestGetCostsByType(t *testing.T) {
	itemID := uuid.New()
	svc := &stubReader{byType: domainsvcs.FieldValue{
		Field: domainsvcs.FieldCostsByType,
		Breakdown: []domainsvcs.FormattedTypeCost{
			{CostType: travel, SpentUnits: "1 trip", Formatted: "6.50 EUR"},
		},
	}}
	rec := serve(t, "/work_packages/{id}/summarized_costs_by_type", http.MethodGet,
		"/work_packages/"+itemID.String()+"/summarized_costs_by_type", NewGetCostsByTypeHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)

	var body CostsByTypeResponse
	decode(t, rec, &body)
	assert.Equal(t, itemID, body.WorkPackageID)
	require.Len(t, body.Elements, 1)
	assert.Equal(t, "Travel", body.Elements[0].CostType.Name)
	assert.Equal(t, "6.50 EUR", body.Elements[0].Costs)

	forbidden := &stubReader{err: costsdomain.ErrForbidden}
	rec = serve(t, "/work_packages/{id}/summarized_costs_by_type", http.MethodGet,
		"/work_packages/"+itemID.String()+"/summarized_costs_by_type", NewGetCostsByTypeHandler(forbidden).Execute)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCostEntries(t *testing.T) {
	itemID := uuid.New()
	visible := domainsvcs.VisibleCostEntry{
		Entry: models.CostLogEntry{
			ID: uuid.New(), WorkItemID: itemID, CostTypeID: travel.ID,
			Units: decimal.NewFromInt(2), SpentOn: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		CostType:      travel,
		AmountVisible: true,
		Formatted:     "13.00 EUR",
	}
	hidden := visible
	hidden.Entry.ID = uuid.New()
	hidden.AmountVisible = false
	hidden.Formatted = ""
	svc := &stubReader{costs: []domainsvcs.VisibleCostEntry{visible, hidden}}

	rec := serve(t, "/work_packages/{id}/cost_entries", http.MethodGet,
		"/work_packages/"+itemID.String()+"/cost_entries", NewListCostEntriesHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []CostEntryResponse
	decode(t, rec, &list)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Costs)
	assert.Equal(t, "13.00 EUR", *list[0].Costs)
	assert.Equal(t, "2 trips", list[0].SpentUnits)
	assert.Equal(t, "2026-01-15", list[0].SpentOn)
	assert.Nil(t, list[1].Costs)

	rec = serve(t, "/cost_entries/{id}", http.MethodGet, "/cost_entries/"+visible.Entry.ID.String(),
		NewGetCostEntryHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, "/cost_entries/{id}", http.MethodGet, "/cost_entries/"+uuid.NewString(),
		NewGetCostEntryHandler(svc).Execute)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimeEntries(t *testing.T) {
	itemID := uuid.New()
	svc := &stubReader{times: []domainsvcs.VisibleTimeEntry{
		{
			Entry:         models.TimeLogEntry{ID: uuid.New(), WorkItemID: itemID, Hours: decimal.RequireFromString("2.5")},
			RateVisible:   true,
			FormattedRate: "50.00 EUR",
			FormattedCost: "125.00 EUR",
		},
		{Entry: models.TimeLogEntry{ID: uuid.New(), WorkItemID: itemID, Hours: decimal.NewFromInt(1)}},
	}}

	rec := serve(t, "/work_packages/{id}/time_entries", http.MethodGet,
		"/work_packages/"+itemID.String()+"/time_entries", NewListTimeEntriesHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []TimeEntryResponse
	decode(t, rec, &list)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].HourlyRate)
	assert.Equal(t, "50.00 EUR", *list[0].HourlyRate)
	assert.Equal(t, "2.5", list[0].Hours)
	assert.Nil(t, list[1].HourlyRate)
	assert.Nil(t, list[1].Costs)
}

func TestCostTypes(t *testing.T) {
	svc := &stubReader{types: []models.CostType{travel}}

	rec := serve(t, "/cost_types", http.MethodGet, "/cost_types", NewListCostTypesHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []CostTypeResponse
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "trips", list[0].UnitPlural)

	rec = serve(t, "/cost_types/{id}", http.MethodGet, "/cost_types/"+travel.ID.String(), NewGetCostTypeHandler(svc).Execute)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, "/cost_types/{id}", http.MethodGet, "/cost_types/"+uuid.NewString(), NewGetCostTypeHandler(svc).Execute)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSumsAndSchema(t *testing.T) {
	projectID := uuid.New()
	svc := &stubReader{
		sums: []domainsvcs.FieldValue{{Field: domainsvcs.FieldOverallCosts, Formatted: "1268.00 EUR"}},
		fields: []domainsvcs.SchemaField{
			{Field: domainsvcs.FieldCostsByType, Type: "Collection", NameSource: "spent_units"},
		},
	}

	rec := serve(t, "/projects/{id}/work_packages/sums", http.MethodGet,
		"/projects/"+projectID.String()+"/work_packages/sums", NewGetSumsHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)
	var sums SumsResponse
	decode(t, rec, &sums)
	require.Len(t, sums.Sums, 1)
	assert.Equal(t, "overallCosts", sums.Sums[0].Name)
	require.NotNil(t, sums.Sums[0].Value)
	assert.Equal(t, "1268.00 EUR", *sums.Sums[0].Value)

	rec = serve(t, "/projects/{id}/costs_schema", http.MethodGet,
		"/projects/"+projectID.String()+"/costs_schema", NewGetSchemaHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)
	var schema SchemaResponse
	decode(t, rec, &schema)
	require.Len(t, schema.Fields, 1)
	assert.Equal(t, "spent_units", schema.Fields[0].NameSource)
}

func TestGetProjectReport(t *testing.T) {
	at := time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)
	restore := nowUTC
	nowUTC = func() time.Time { return at }
	t.Cleanup(func() { nowUTC = restore })

	projectID := uuid.New()
	eur := models.CurrencyConfig{Code: "EUR", Format: "%n %u"}
	svc := &stubReader{report: &domainsvcs.ProjectReport{
		ProjectID: projectID,
		Currency:  eur,
		Labor:     models.MustParseMoney("10"),
		Material:  models.MustParseMoney("5"),
		Overall:   models.MustParseMoney("15"),
	}}

	rec := serve(t, "/projects/{id}/cost_report", http.MethodGet,
		"/projects/"+projectID.String()+"/cost_report", NewGetProjectReportHandler(svc).Execute)
	require.Equal(t, http.StatusOK, rec.Code)

	var body workflows.ReportSummary
	decode(t, rec, &body)
	assert.Equal(t, projectID, body.ProjectID)
	assert.Equal(t, models.FormatCurrency(models.MustParseMoney("15"), eur), body.Overall)
	assert.True(t, at.Equal(body.GeneratedAt), "generated_at = %s", body.GeneratedAt)
}

type stubRunner struct {
	started workflows.ReportRequest
	summary *workflows.ReportSummary
	err     error
	block   bool
}

func (s *stubRunner) Start(_ context.Context, req workflows.ReportRequest) (string, error) {
	s.started = req
	return "wf-1", s.err
}

func (s *stubRunner) Result(ctx context.Context, _ string) (*workflows.ReportSummary, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.summary, s.err
}

func TestSubmitReport(t *testing.T) {
	projectID := uuid.New()
	user := models.User{ID: uuid.New(), Login: "alice"}
	runner := &stubRunner{}

	rec := serve(t, "/projects/{id}/cost_reports", http.MethodPost,
		"/projects/"+projectID.String()+"/cost_reports", NewSubmitReportHandler(&stubReader{user: user}, runner).Execute)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body ReportAcceptedResponse
	decode(t, rec, &body)
	assert.Equal(t, "wf-1", body.WorkflowID)
	assert.Equal(t, "/api/cost_reports/wf-1", body.StatusURL)
	assert.Equal(t, projectID, runner.started.ProjectID)
	assert.Equal(t, user.ID, runner.started.RequestedBy)

	rec = serve(t, "/projects/{id}/cost_reports", http.MethodPost,
		"/projects/"+projectID.String()+"/cost_reports", NewSubmitReportHandler(&stubReader{}, nil).Execute)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetReport(t *testing.T) {
	done := &workflows.ReportSummary{ProjectID: uuid.New(), Overall: "15.00 EUR"}
	tests := []struct {
		name   string
		runner ReportRunner
		want   int
	}{
		{"finished", &stubRunner{summary: done}, http.StatusOK},
		{"still running", &stubRunner{block: true}, http.StatusAccepted},
		{"failed", &stubRunner{err: temporal.NewApplicationError("forbidden", "Forbidden")}, http.StatusUnprocessableEntity},
		{"disabled", nil, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewGetReportHandler(tt.runner)
			h.wait = 10 * time.Millisecond
			rec := serve(t, "/cost_reports/{workflowID}", http.MethodGet, "/cost_reports/wf-1", h.Execute)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
