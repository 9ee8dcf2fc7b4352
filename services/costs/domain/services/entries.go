package services

import (
	"context"
	"fmt"

	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	"github.com/ghuser/workcosts/services/costs/domain/permissions"
)

// VisibleCostEntry is a cost entry as listed to one user. Formatted is empty
// when the user may see the entry but not its amount.
type VisibleCostEntry struct {
	Entry         models.CostLogEntry
	CostType      models.CostType
	AmountVisible bool
	Formatted     string
}

// VisibleTimeEntry is a time entry as listed to one user. Rate and cost are
// only rendered when the user may see hourly rates.
type VisibleTimeEntry struct {
	Entry         models.TimeLogEntry
	RateVisible   bool
	FormattedRate string
	FormattedCost string
}

// EntryLister filters a work item's log entries down to what a user may see.
type EntryLister struct {
	resolver permissions.Resolver
}

// NewEntryLister returns an EntryLister using resolver.
func NewEntryLister(resolver permissions.Resolver) *EntryLister {
	return &EntryLister{resolver: resolver}
}

func (l *EntryLister) scope(ctx context.Context, user models.User, project *models.Project, full, own permissions.Permission) (EntryScope, error) {
	if l.resolver.IsAllowed(ctx, user, full, project) {
		return AllEntries(), nil
	}
	if !user.IsAnonymous() && l.resolver.IsAllowed(ctx, user, own, project) {
		return OwnEntries(user.ID), nil
	}
	return EntryScope{}, costsdomain.ErrForbidden
}

// CostEntries lists the cost entries user may see: all of them with
// view_cost_entries, their own with view_own_cost_entries. Amounts of other
// users' entries need view_cost_rates.
func (l *EntryLister) CostEntries(ctx context.Context, user models.User, item *models.WorkItem, entries models.EntrySet, currency models.CurrencyConfig) ([]VisibleCostEntry, error) {
	if !item.CostsEnabled() {
		return nil, nil
	}
	scope, err := l.scope(ctx, user, item.Project, permissions.ViewCostEntries, permissions.ViewOwnCostEntries)
	if err != nil {
		return nil, err
	}
	ratesVisible := l.resolver.IsAllowed(ctx, user, permissions.ViewCostRates, item.Project)

	out := make([]VisibleCostEntry, 0, len(entries.CostEntries))
	for _, e := range entries.CostEntries {
		if e.WorkItemID != item.ID {
			return nil, fmt.Errorf("%w: cost entry %s belongs to work item %s, not %s",
				costsdomain.ErrInconsistentData, e.ID, e.WorkItemID, item.ID)
		}
		ct, ok := entries.CostTypes[e.CostTypeID]
		if !ok {
			return nil, fmt.Errorf("%w: cost entry %s references unknown cost type %s",
				costsdomain.ErrInconsistentData, e.ID, e.CostTypeID)
		}
		if !scope.Includes(e.UserID) {
			continue
		}
		ve := VisibleCostEntry{Entry: e, CostType: ct}
		if ratesVisible || (!user.IsAnonymous() && e.UserID == user.ID) {
			ve.AmountVisible = true
			ve.Formatted = models.FormatCurrency(e.Amount, currency)
		}
		out = append(out, ve)
	}
	return out, nil
}

// TimeEntries lists the time entries user may see: all of them with
// view_time_entries, their own with view_own_time_entries. Rates need
// view_hourly_rates, or view_own_hourly_rate for the user's own entries.
func (l *EntryLister) TimeEntries(ctx context.Context, user models.User, item *models.WorkItem, entries models.EntrySet, currency models.CurrencyConfig) ([]VisibleTimeEntry, error) {
	if !item.CostsEnabled() {
		return nil, nil
	}
	scope, err := l.scope(ctx, user, item.Project, permissions.ViewTimeEntries, permissions.ViewOwnTimeEntries)
	if err != nil {
		return nil, err
	}
	allRates := l.resolver.IsAllowed(ctx, user, permissions.ViewHourlyRates, item.Project)
	ownRate := !user.IsAnonymous() && l.resolver.IsAllowed(ctx, user, permissions.ViewOwnHourlyRate, item.Project)

	out := make([]VisibleTimeEntry, 0, len(entries.TimeEntries))
	for _, e := range entries.TimeEntries {
		if e.WorkItemID != item.ID {
			return nil, fmt.Errorf("%w: time entry %s belongs to work item %s, not %s",
				costsdomain.ErrInconsistentData, e.ID, e.WorkItemID, item.ID)
		}
		if !scope.Includes(e.UserID) {
			continue
		}
		vt := VisibleTimeEntry{Entry: e}
		if allRates || (ownRate && e.UserID == user.ID) {
			vt.RateVisible = true
			vt.FormattedRate = models.FormatCurrency(e.Rate, currency)
			vt.FormattedCost = models.FormatCurrency(e.Cost(), currency)
		}
		out = append(out, vt)
	}
	return out, nil
}
