package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/workcosts/pkg/logger"
	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	"github.com/ghuser/workcosts/services/costs/domain/permissions"
	"github.com/ghuser/workcosts/services/costs/domain/repositories"
	domainsvcs "github.com/ghuser/workcosts/services/costs/domain/services"
)

const instrumentationName = "github.com/ghuser/workcosts/services/costs"

// reportPageSize bounds each work item page read while building project-wide figures.
const reportPageSize = 500

// Deps are the collaborators of CostsService.
type Deps struct {
	WorkItems repositories.WorkItemRepository
	Projects  repositories.ProjectRepository
	Entries   repositories.EntryRepository
	CostTypes repositories.CostTypeRepository
	Users     repositories.UserRepository
	Resolver  permissions.Resolver
	Currency  CurrencySource
	Columns   SummableColumnsSource
	Log       logger.Logger

	// PolicyOptions customize the field pipeline, e.g. WithExplicitNulls.
	PolicyOptions []domainsvcs.PolicyOption
}

// CostsService loads work items and their log entries and runs them through
// the visibility policy for the requesting user. Aggregated figures are never
// cached; they always reflect the entries at read time.
type CostsService struct {
	workItems repositories.WorkItemRepository
	projects  repositories.ProjectRepository
	entries   repositories.EntryRepository
	costTypes repositories.CostTypeRepository
	users     repositories.UserRepository
	currency  CurrencySource
	columns   SummableColumnsSource
	log       logger.Logger

	policy *domainsvcs.Policy
	lister *domainsvcs.EntryLister

	tracer    trace.Tracer
	evaluated metric.Int64Counter
}

// NewCostsService wires a CostsService from deps.
func NewCostsService(deps Deps) *CostsService {
	meter := otel.Meter(instrumentationName)
	evaluated, err := meter.Int64Counter("costs.representations.evaluated",
		metric.WithDescription("Work item cost representations built, by number of visible fields"),
	)
	if err != nil {
		deps.Log.Warn("costs: counter unavailable", "error", err)
		evaluated = noop.Int64Counter{}
	}

	return &CostsService{
		workItems: deps.WorkItems,
		projects:  deps.Projects,
		entries:   deps.Entries,
		costTypes: deps.CostTypes,
		users:     deps.Users,
		currency:  deps.Currency,
		columns:   deps.Columns,
		log:       deps.Log,
		policy:    domainsvcs.NewPolicy(deps.Resolver, deps.PolicyOptions...),
		lister:    domainsvcs.NewEntryLister(deps.Resolver),
		tracer:    otel.Tracer(instrumentationName),
		evaluated: evaluated,
	}
}

// CurrentUser resolves the session user. uuid.Nil is the anonymous user.
func (s *CostsService) CurrentUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	if id == uuid.Nil {
		return models.AnonymousUser(), nil
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return *u, nil
}

// IsAdmin reports whether the user may administer installation settings.
func (s *CostsService) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := s.CurrentUser(ctx, id)
	if err != nil {
		return false, err
	}
	return u.Admin, nil
}

// WorkItemCosts returns the cost representation of a work item as user sees it.
func (s *CostsService) WorkItemCosts(ctx context.Context, user models.User, workItemID uuid.UUID) (*domainsvcs.Representation, error) {
	ctx, span := s.tracer.Start(ctx, "costs.WorkItemCosts",
		trace.WithAttributes(attribute.String("work_item.id", workItemID.String())))
	defer span.End()

	item, entries, err := s.load(ctx, workItemID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	rep, err := s.policy.Evaluate(ctx, user, item, entries, s.currencyFor(ctx, item.Project))
	if err != nil {
		return nil, s.fail(ctx, span, fmt.Errorf("evaluate work item %s: %w", workItemID, err))
	}

	span.SetAttributes(attribute.Int("costs.fields", len(rep.Fields)))
	s.evaluated.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("costs_enabled", item.CostsEnabled()),
		attribute.Int("fields", len(rep.Fields)),
	))
	return rep, nil
}

// SummarizedCostsByType returns the costs-by-type breakdown of a work item.
// It fails with ErrNotApplicable when the project does not track costs and
// with ErrForbidden when the breakdown is hidden from user.
func (s *CostsService) SummarizedCostsByType(ctx context.Context, user models.User, workItemID uuid.UUID) (domainsvcs.FieldValue, error) {
	rep, err := s.WorkItemCosts(ctx, user, workItemID)
	if err != nil {
		return domainsvcs.FieldValue{}, err
	}
	if !rep.CostsEnabled {
		return domainsvcs.FieldValue{}, costsdomain.ErrNotApplicable
	}
	fv, ok := rep.Field(domainsvcs.FieldCostsByType)
	if !ok || fv.Null {
		return domainsvcs.FieldValue{}, costsdomain.ErrForbidden
	}
	return fv, nil
}

// CostEntries lists the cost entries of a work item visible to user.
func (s *CostsService) CostEntries(ctx context.Context, user models.User, workItemID uuid.UUID) ([]domainsvcs.VisibleCostEntry, error) {
	ctx, span := s.tracer.Start(ctx, "costs.CostEntries")
	defer span.End()

	item, entries, err := s.load(ctx, workItemID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	if !item.CostsEnabled() {
		return nil, costsdomain.ErrNotApplicable
	}
	out, err := s.lister.CostEntries(ctx, user, item, entries, s.currencyFor(ctx, item.Project))
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	return out, nil
}

// TimeEntries lists the time entries of a work item visible to user.
func (s *CostsService) TimeEntries(ctx context.Context, user models.User, workItemID uuid.UUID) ([]domainsvcs.VisibleTimeEntry, error) {
	ctx, span := s.tracer.Start(ctx, "costs.TimeEntries")
	defer span.End()

	item, entries, err := s.load(ctx, workItemID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	if !item.CostsEnabled() {
		return nil, costsdomain.ErrNotApplicable
	}
	out, err := s.lister.TimeEntries(ctx, user, item, entries, s.currencyFor(ctx, item.Project))
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	return out, nil
}

// CostEntry returns one cost entry. Entries the user may not see are reported
// as not found.
func (s *CostsService) CostEntry(ctx context.Context, user models.User, id uuid.UUID) (*domainsvcs.VisibleCostEntry, error) {
	entry, err := s.entries.CostEntryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cost entry: %w", err)
	}
	item, err := s.workItems.GetByID(ctx, entry.WorkItemID)
	if err != nil {
		if errors.Is(err, costsdomain.ErrWorkItemNotFound) {
			return nil, fmt.Errorf("%w: cost entry %s references unknown work item %s",
				costsdomain.ErrInconsistentData, id, entry.WorkItemID)
		}
		return nil, fmt.Errorf("get work item of cost entry %s: %w", id, err)
	}
	ct, err := s.costTypes.GetByID(ctx, entry.CostTypeID)
	if err != nil {
		if errors.Is(err, costsdomain.ErrCostTypeNotFound) {
			return nil, fmt.Errorf("%w: cost entry %s references unknown cost type %s",
				costsdomain.ErrInconsistentData, id, entry.CostTypeID)
		}
		return nil, fmt.Errorf("get cost type: %w", err)
	}

	set := models.EntrySet{
		CostEntries: []models.CostLogEntry{*entry},
		CostTypes:   map[uuid.UUID]models.CostType{ct.ID: *ct},
	}
	visible, err := s.lister.CostEntries(ctx, user, item, set, s.currencyFor(ctx, item.Project))
	if errors.Is(err, costsdomain.ErrForbidden) || (err == nil && len(visible) == 0) {
		return nil, costsdomain.ErrCostEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &visible[0], nil
}

// CostTypes returns the cost type catalog.
func (s *CostsService) CostTypes(ctx context.Context) ([]models.CostType, error) {
	types, err := s.costTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cost types: %w", err)
	}
	return types, nil
}

// CostType returns one cost type.
func (s *CostsService) CostType(ctx context.Context, id uuid.UUID) (*models.CostType, error) {
	ct, err := s.costTypes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cost type: %w", err)
	}
	return ct, nil
}

// Sums totals the summable cost columns over every work item of a project,
// restricted to the user's own entries when they only hold the own permission.
func (s *CostsService) Sums(ctx context.Context, user models.User, projectID uuid.UUID) ([]domainsvcs.FieldValue, error) {
	ctx, span := s.tracer.Start(ctx, "costs.Sums",
		trace.WithAttributes(attribute.String("project.id", projectID.String())))
	defer span.End()

	project, scope, err := s.projectScope(ctx, user, projectID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	columns, err := s.summableColumns(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	items, entries, err := s.loadProject(ctx, project)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	sums, err := domainsvcs.SumWorkItems(items, entries, columns, scope, s.currencyFor(ctx, project))
	if err != nil {
		return nil, s.fail(ctx, span, fmt.Errorf("sum project %s: %w", projectID, err))
	}
	return sums, nil
}

// Schema describes the cost fields of a project's work items and of its sums.
func (s *CostsService) Schema(ctx context.Context, projectID uuid.UUID) (fields, sums []domainsvcs.SchemaField, err error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("get project: %w", err)
	}
	columns, err := s.summableColumns(ctx)
	if err != nil {
		return nil, nil, err
	}
	return domainsvcs.CostSchema(project), domainsvcs.SumsSchema(columns), nil
}

// ProjectReport builds the per work item cost report of a project for user.
func (s *CostsService) ProjectReport(ctx context.Context, user models.User, projectID uuid.UUID) (*domainsvcs.ProjectReport, error) {
	ctx, span := s.tracer.Start(ctx, "costs.ProjectReport",
		trace.WithAttributes(attribute.String("project.id", projectID.String())))
	defer span.End()

	project, scope, err := s.projectScope(ctx, user, projectID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	items, entries, err := s.loadProject(ctx, project)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	report, ok, err := domainsvcs.BuildProjectReport(project, items, entries, scope)
	if err != nil {
		return nil, s.fail(ctx, span, fmt.Errorf("report project %s: %w", projectID, err))
	}
	if !ok {
		return nil, costsdomain.ErrNotApplicable
	}
	report.Currency = s.currencyFor(ctx, project)
	span.SetAttributes(attribute.Int("costs.report_lines", len(report.Lines)))
	return report, nil
}

// projectScope loads a project and decides which entries user may aggregate there.
func (s *CostsService) projectScope(ctx context.Context, user models.User, projectID uuid.UUID) (*models.Project, domainsvcs.EntryScope, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, domainsvcs.EntryScope{}, fmt.Errorf("get project: %w", err)
	}
	if !project.CostsEnabled {
		return nil, domainsvcs.EntryScope{}, costsdomain.ErrNotApplicable
	}
	scope, ok := s.policy.ScopeFor(ctx, user, project, domainsvcs.DefaultFieldProviders()[0])
	if !ok {
		return nil, domainsvcs.EntryScope{}, costsdomain.ErrForbidden
	}
	return project, scope, nil
}

func (s *CostsService) load(ctx context.Context, workItemID uuid.UUID) (*models.WorkItem, models.EntrySet, error) {
	item, err := s.workItems.GetByID(ctx, workItemID)
	if err != nil {
		return nil, models.EntrySet{}, fmt.Errorf("get work item: %w", err)
	}
	if !item.CostsEnabled() {
		return item, models.EntrySet{}, nil
	}
	entries, err := s.entries.ForWorkItem(ctx, workItemID)
	if err != nil {
		return nil, models.EntrySet{}, fmt.Errorf("load entries of work item %s: %w", workItemID, err)
	}
	return item, entries, nil
}

func (s *CostsService) loadProject(ctx context.Context, project *models.Project) ([]*models.WorkItem, map[uuid.UUID]models.EntrySet, error) {
	var items []*models.WorkItem
	for offset := 0; ; offset += reportPageSize {
		page, err := s.workItems.ListByProject(ctx, project, repositories.QueryOpts{Limit: reportPageSize, Offset: offset})
		if err != nil {
			return nil, nil, fmt.Errorf("list work items: %w", err)
		}
		items = append(items, page...)
		if len(page) < reportPageSize {
			break
		}
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	entries, err := s.entries.ForWorkItems(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load entries: %w", err)
	}
	return items, entries, nil
}

// currencyFor merges the project's currency over the global setting. A failing
// settings source degrades to the built-in default.
func (s *CostsService) currencyFor(ctx context.Context, project *models.Project) models.CurrencyConfig {
	global := models.DefaultCurrency()
	if s.currency != nil {
		cfg, err := s.currency.Currency(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "currency settings unavailable, using default", "error", err)
		} else {
			global = cfg.Or(global)
		}
	}
	if project == nil {
		return global
	}
	return project.Currency.Or(global)
}

func (s *CostsService) summableColumns(ctx context.Context) ([]string, error) {
	if s.columns == nil {
		return nil, nil
	}
	columns, err := s.columns.SummableColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("summable columns: %w", err)
	}
	return columns, nil
}

// fail records err on the span. Inconsistent data is a defect and logged as such.
func (s *CostsService) fail(ctx context.Context, span trace.Span, err error) error {
	if errors.Is(err, costsdomain.ErrInconsistentData) {
		s.log.ErrorContext(ctx, "inconsistent cost data", "error", err)
	}
	if !errors.Is(err, costsdomain.ErrForbidden) && !errors.Is(err, costsdomain.ErrNotApplicable) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
