// Package services contains stateless domain services for the costs bounded context.
// Every function here is a pure computation over already-fetched domain values;
// nothing touches storage, and nothing mutates its inputs.
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
)

// EntryScope restricts an aggregation to a subset of log entries.
type EntryScope struct {
	authorID uuid.UUID
}

// AllEntries aggregates every entry of the work item.
func AllEntries() EntryScope {
	return EntryScope{}
}

// OwnEntries aggregates only the entries logged by userID.
func OwnEntries(userID uuid.UUID) EntryScope {
	return EntryScope{authorID: userID}
}

// IsOwn reports whether the scope is restricted to one author.
func (s EntryScope) IsOwn() bool {
	return s.authorID != uuid.Nil
}

// Includes reports whether an entry authored by userID is in scope.
func (s EntryScope) Includes(userID uuid.UUID) bool {
	return !s.IsOwn() || s.authorID == userID
}

// Aggregator computes cost figures for one work item from a snapshot of its
// log entries.
type Aggregator struct {
	item    *models.WorkItem
	entries models.EntrySet
}

// NewAggregator returns an Aggregator over entries belonging to item.
func NewAggregator(item *models.WorkItem, entries models.EntrySet) *Aggregator {
	return &Aggregator{item: item, entries: entries}
}

// LaborCost sums hours × rate over the in-scope time entries. It returns a
// valid zero when costs are enabled and nothing has been logged.
func (a *Aggregator) LaborCost(scope EntryScope) (models.NullMoney, error) {
	if !a.item.CostsEnabled() {
		return models.NullMoney{}, nil
	}
	total := models.ZeroMoney()
	for _, e := range a.entries.TimeEntries {
		if e.WorkItemID != a.item.ID {
			return models.NullMoney{}, fmt.Errorf("%w: time entry %s belongs to work item %s, not %s",
				costsdomain.ErrInconsistentData, e.ID, e.WorkItemID, a.item.ID)
		}
		if !scope.Includes(e.UserID) {
			continue
		}
		total = total.Add(e.Cost())
	}
	return models.SomeMoney(total), nil
}

// MaterialCost sums the amounts of the in-scope cost entries.
func (a *Aggregator) MaterialCost(scope EntryScope) (models.NullMoney, error) {
	breakdown, err := a.CostsByType(scope)
	if err != nil || !breakdown.Valid {
		return models.NullMoney{}, err
	}
	total := models.ZeroMoney()
	for _, tc := range breakdown.Types {
		total = total.Add(tc.Amount)
	}
	return models.SomeMoney(total), nil
}

// OverallCost is LaborCost + MaterialCost.
func (a *Aggregator) OverallCost(scope EntryScope) (models.NullMoney, error) {
	labor, err := a.LaborCost(scope)
	if err != nil || !labor.Valid {
		return models.NullMoney{}, err
	}
	material, err := a.MaterialCost(scope)
	if err != nil || !material.Valid {
		return models.NullMoney{}, err
	}
	return models.SomeMoney(labor.Money.Add(material.Money)), nil
}

// CostsByType groups in-scope cost entry amounts and units by cost type,
// ordered by cost type ID. Every entry must reference a known cost type.
func (a *Aggregator) CostsByType(scope EntryScope) (models.CostBreakdown, error) {
	if !a.item.CostsEnabled() {
		return models.CostBreakdown{}, nil
	}

	byType := make(map[uuid.UUID]*models.TypeCost)
	for _, e := range a.entries.CostEntries {
		if e.WorkItemID != a.item.ID {
			return models.CostBreakdown{}, fmt.Errorf("%w: cost entry %s belongs to work item %s, not %s",
				costsdomain.ErrInconsistentData, e.ID, e.WorkItemID, a.item.ID)
		}
		ct, ok := a.entries.CostTypes[e.CostTypeID]
		if !ok {
			return models.CostBreakdown{}, fmt.Errorf("%w: cost entry %s references unknown cost type %s",
				costsdomain.ErrInconsistentData, e.ID, e.CostTypeID)
		}
		if !scope.Includes(e.UserID) {
			continue
		}
		tc, ok := byType[ct.ID]
		if !ok {
			tc = &models.TypeCost{CostType: ct, Units: decimal.Zero, Amount: models.ZeroMoney()}
			byType[ct.ID] = tc
		}
		tc.Units = tc.Units.Add(e.Units)
		tc.Amount = tc.Amount.Add(e.Amount)
	}

	types := make([]models.TypeCost, 0, len(byType))
	for _, tc := range byType {
		types = append(types, *tc)
	}
	models.SortTypeCosts(types)
	return models.CostBreakdown{Types: types, Valid: true}, nil
}
