package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/workcosts/services/costs/domain/models"
	"github.com/ghuser/workcosts/services/costs/domain/permissions"
)

// Field names an exposable cost figure on a work item representation.
type Field string

const (
	FieldLaborCosts    Field = "laborCosts"
	FieldMaterialCosts Field = "materialCosts"
	FieldOverallCosts  Field = "overallCosts"
	FieldCostsByType   Field = "costsByType"
)

// Link names a navigation affordance advertised alongside the figures.
type Link string

const (
	LinkLogCosts  Link = "logCosts"
	LinkShowCosts Link = "showCosts"
)

// FormattedTypeCost is one line of a rendered costs-by-type breakdown.
type FormattedTypeCost struct {
	CostType   models.CostType
	Units      decimal.Decimal
	SpentUnits string // "3 hours"
	Amount     models.Money
	Formatted  string // "150.00 EUR"
}

// FieldValue is a rendered field. When Null is set the field is hidden but
// kept as an explicit absent marker; all other members are then zero.
type FieldValue struct {
	Field     Field
	Own       bool // aggregated over the current user's entries only
	Amount    models.NullMoney
	Formatted string
	Breakdown []FormattedTypeCost
	Null      bool
}

// FieldProvider declares one field: the permissions that expose it and how it
// is computed and formatted once exposed.
type FieldProvider struct {
	Field  Field
	Full   permissions.Permission
	Own    permissions.Permission
	Render func(agg *Aggregator, scope EntryScope, currency models.CurrencyConfig) (FieldValue, error)
}

// LinkProvider declares a link advertised when any of its permissions holds.
type LinkProvider struct {
	Link        Link
	Permissions []permissions.Permission
}

// Representation is the cost extension of a work item as seen by one user.
// Fields keep provider order; hidden fields are omitted unless the policy
// renders explicit nulls.
type Representation struct {
	WorkItemID   uuid.UUID
	ProjectID    uuid.UUID
	Subject      string
	CostsEnabled bool
	Fields       []FieldValue
	Links        []Link
}

// Field returns the rendered value of f, if present.
func (r *Representation) Field(f Field) (FieldValue, bool) {
	for _, fv := range r.Fields {
		if fv.Field == f {
			return fv, true
		}
	}
	return FieldValue{}, false
}

// HasLink reports whether l is advertised.
func (r *Representation) HasLink(l Link) bool {
	for _, have := range r.Links {
		if have == l {
			return true
		}
	}
	return false
}

// Policy decides, per field, whether a user may see a cost figure and renders
// the visible ones. It holds no per-request state and is safe for concurrent use.
type Policy struct {
	resolver      permissions.Resolver
	fields        []FieldProvider
	links         []LinkProvider
	explicitNulls bool
}

// PolicyOption customizes a Policy.
type PolicyOption func(*Policy)

// WithFieldProviders replaces the default field pipeline.
func WithFieldProviders(providers ...FieldProvider) PolicyOption {
	return func(p *Policy) { p.fields = providers }
}

// WithLinkProviders replaces the default link set.
func WithLinkProviders(providers ...LinkProvider) PolicyOption {
	return func(p *Policy) { p.links = providers }
}

// WithExplicitNulls keeps permission-hidden fields as null markers, for hosts
// whose schema requires every declared field to be present.
func WithExplicitNulls() PolicyOption {
	return func(p *Policy) { p.explicitNulls = true }
}

// NewPolicy returns a Policy using resolver for permission checks.
func NewPolicy(resolver permissions.Resolver, opts ...PolicyOption) *Policy {
	p := &Policy{
		resolver: resolver,
		fields:   DefaultFieldProviders(),
		links:    DefaultLinkProviders(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultFieldProviders is the standard pipeline: labor, material, overall,
// costs by type. All four are exposed by view_cost_entries, or scoped to the
// user's own entries by view_own_cost_entries.
func DefaultFieldProviders() []FieldProvider {
	return []FieldProvider{
		moneyField(FieldLaborCosts, (*Aggregator).LaborCost),
		moneyField(FieldMaterialCosts, (*Aggregator).MaterialCost),
		moneyField(FieldOverallCosts, (*Aggregator).OverallCost),
		{
			Field:  FieldCostsByType,
			Full:   permissions.ViewCostEntries,
			Own:    permissions.ViewOwnCostEntries,
			Render: renderCostsByType,
		},
	}
}

// DefaultLinkProviders advertises logCosts and showCosts.
func DefaultLinkProviders() []LinkProvider {
	return []LinkProvider{
		{Link: LinkLogCosts, Permissions: []permissions.Permission{permissions.LogCosts, permissions.LogOwnCosts}},
		{Link: LinkShowCosts, Permissions: []permissions.Permission{permissions.ViewCostEntries, permissions.ViewOwnCostEntries}},
	}
}

func moneyField(f Field, compute func(*Aggregator, EntryScope) (models.NullMoney, error)) FieldProvider {
	return FieldProvider{
		Field: f,
		Full:  permissions.ViewCostEntries,
		Own:   permissions.ViewOwnCostEntries,
		Render: func(agg *Aggregator, scope EntryScope, currency models.CurrencyConfig) (FieldValue, error) {
			amount, err := compute(agg, scope)
			if err != nil {
				return FieldValue{}, err
			}
			fv := FieldValue{Field: f, Own: scope.IsOwn(), Amount: amount}
			if amount.Valid {
				fv.Formatted = models.FormatCurrency(amount.Money, currency)
			}
			return fv, nil
		},
	}
}

func renderCostsByType(agg *Aggregator, scope EntryScope, currency models.CurrencyConfig) (FieldValue, error) {
	breakdown, err := agg.CostsByType(scope)
	if err != nil {
		return FieldValue{}, err
	}
	fv := FieldValue{Field: FieldCostsByType, Own: scope.IsOwn()}
	for _, tc := range breakdown.Types {
		fv.Breakdown = append(fv.Breakdown, FormattedTypeCost{
			CostType:   tc.CostType,
			Units:      tc.Units,
			SpentUnits: tc.CostType.SpentUnits(tc.Units),
			Amount:     tc.Amount,
			Formatted:  models.FormatCurrency(tc.Amount, currency),
		})
	}
	return fv, nil
}

// ScopeFor resolves which entries fp may aggregate for user: all entries with
// the full permission, the user's own with only the own permission. ok is
// false when the field must be hidden.
func (p *Policy) ScopeFor(ctx context.Context, user models.User, project *models.Project, fp FieldProvider) (scope EntryScope, ok bool) {
	if project == nil || !project.CostsEnabled {
		return EntryScope{}, false
	}
	if p.resolver.IsAllowed(ctx, user, fp.Full, project) {
		return AllEntries(), true
	}
	if fp.Own != "" && !user.IsAnonymous() && p.resolver.IsAllowed(ctx, user, fp.Own, project) {
		return OwnEntries(user.ID), true
	}
	return EntryScope{}, false
}

// Evaluate builds the cost representation of item for user. The aggregator is
// consulted only for fields the user may see. Work items whose project has
// costs disabled get no fields and no links.
func (p *Policy) Evaluate(ctx context.Context, user models.User, item *models.WorkItem, entries models.EntrySet, currency models.CurrencyConfig) (*Representation, error) {
	rep := &Representation{
		WorkItemID:   item.ID,
		ProjectID:    item.ProjectID,
		Subject:      item.Subject,
		CostsEnabled: item.CostsEnabled(),
	}
	if !item.CostsEnabled() {
		return rep, nil
	}

	agg := NewAggregator(item, entries)
	for _, fp := range p.fields {
		scope, ok := p.ScopeFor(ctx, user, item.Project, fp)
		if !ok {
			if p.explicitNulls {
				rep.Fields = append(rep.Fields, FieldValue{Field: fp.Field, Null: true})
			}
			continue
		}
		fv, err := fp.Render(agg, scope, currency)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", fp.Field, err)
		}
		rep.Fields = append(rep.Fields, fv)
	}

	if item.IsPersisted() {
		for _, lp := range p.links {
			if permissions.AnyAllowed(ctx, p.resolver, user, item.Project, lp.Permissions...) {
				rep.Links = append(rep.Links, lp.Link)
			}
		}
	}
	return rep, nil
}
