// Package permissions declares the permissions of the costs module as a plain
// lookup table and the resolver contract used to check them.
package permissions

import (
	"context"
	"sort"

	"github.com/ghuser/workcosts/services/costs/domain/models"
)

// Permission names a capability a role can grant within a project.
type Permission string

const (
	ViewTimeEntries         Permission = "view_time_entries"
	LogTime                 Permission = "log_time"
	EditTimeEntries         Permission = "edit_time_entries"
	ViewOwnTimeEntries      Permission = "view_own_time_entries"
	EditOwnTimeEntries      Permission = "edit_own_time_entries"
	ManageProjectActivities Permission = "manage_project_activities"
	ViewOwnHourlyRate       Permission = "view_own_hourly_rate"
	ViewHourlyRates         Permission = "view_hourly_rates"
	EditOwnHourlyRate       Permission = "edit_own_hourly_rate"
	EditHourlyRates         Permission = "edit_hourly_rates"
	ViewCostRates           Permission = "view_cost_rates"
	LogOwnCosts             Permission = "log_own_costs"
	LogCosts                Permission = "log_costs"
	EditOwnCostEntries      Permission = "edit_own_cost_entries"
	EditCostEntries         Permission = "edit_cost_entries"
	ViewCostEntries         Permission = "view_cost_entries"
	ViewOwnCostEntries      Permission = "view_own_cost_entries"
)

// Scope is the minimum standing a user needs before a role grant counts.
type Scope int

const (
	// ScopeAnyone lets any role grant the permission, including anonymous.
	ScopeAnyone Scope = iota
	// ScopeLoggedIn requires an authenticated user.
	ScopeLoggedIn
	// ScopeProjectMember requires membership in the project.
	ScopeProjectMember
)

func (s Scope) String() string {
	switch s {
	case ScopeLoggedIn:
		return "logged_in"
	case ScopeProjectMember:
		return "project_member"
	default:
		return "anyone"
	}
}

// Definition describes one permission: its scope and the actions it unlocks.
type Definition struct {
	Name    Permission
	Scope   Scope
	Actions []string
}

var table = map[Permission]Definition{
	ViewTimeEntries:         {ViewTimeEntries, ScopeAnyone, []string{"timelog#index", "timelog#show", "time_entry_reports#report"}},
	LogTime:                 {LogTime, ScopeLoggedIn, []string{"timelog#new", "timelog#create", "timelog#edit", "timelog#update"}},
	EditTimeEntries:         {EditTimeEntries, ScopeProjectMember, []string{"timelog#new", "timelog#create", "timelog#edit", "timelog#update", "timelog#destroy"}},
	ViewOwnTimeEntries:      {ViewOwnTimeEntries, ScopeAnyone, []string{"timelog#index", "timelog#report"}},
	EditOwnTimeEntries:      {EditOwnTimeEntries, ScopeLoggedIn, []string{"timelog#new", "timelog#create", "timelog#edit", "timelog#update", "timelog#destroy"}},
	ManageProjectActivities: {ManageProjectActivities, ScopeProjectMember, []string{"projects/time_entry_activities#update"}},
	ViewOwnHourlyRate:       {ViewOwnHourlyRate, ScopeAnyone, nil},
	ViewHourlyRates:         {ViewHourlyRates, ScopeAnyone, nil},
	EditOwnHourlyRate:       {EditOwnHourlyRate, ScopeProjectMember, []string{"hourly_rates#set_rate", "hourly_rates#edit", "hourly_rates#update"}},
	EditHourlyRates:         {EditHourlyRates, ScopeProjectMember, []string{"hourly_rates#set_rate", "hourly_rates#edit", "hourly_rates#update"}},
	ViewCostRates:           {ViewCostRates, ScopeAnyone, nil},
	LogOwnCosts:             {LogOwnCosts, ScopeLoggedIn, []string{"costlog#new", "costlog#create"}},
	LogCosts:                {LogCosts, ScopeProjectMember, []string{"costlog#new", "costlog#create"}},
	EditOwnCostEntries:      {EditOwnCostEntries, ScopeLoggedIn, []string{"costlog#edit", "costlog#update", "costlog#destroy"}},
	EditCostEntries:         {EditCostEntries, ScopeProjectMember, []string{"costlog#edit", "costlog#update", "costlog#destroy"}},
	ViewCostEntries:         {ViewCostEntries, ScopeAnyone, []string{"budgets#index", "budgets#show", "costlog#index"}},
	ViewOwnCostEntries:      {ViewOwnCostEntries, ScopeAnyone, []string{"budgets#index", "budgets#show", "costlog#index"}},
}

// Lookup returns the definition of p.
func Lookup(p Permission) (Definition, bool) {
	d, ok := table[p]
	return d, ok
}

// All returns every definition ordered by name.
func All() []Definition {
	out := make([]Definition, 0, len(table))
	for _, d := range table {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolver answers whether a user holds a permission within a project.
// A nil project or an unknown permission yields false; implementations never
// return errors and never mutate permission state.
type Resolver interface {
	IsAllowed(ctx context.Context, user models.User, p Permission, project *models.Project) bool
}

// AllowedOnWorkItem checks p against the work item's project.
func AllowedOnWorkItem(ctx context.Context, r Resolver, user models.User, p Permission, item *models.WorkItem) bool {
	if item == nil {
		return false
	}
	return r.IsAllowed(ctx, user, p, item.Project)
}

// AnyAllowed reports whether at least one of ps is allowed.
func AnyAllowed(ctx context.Context, r Resolver, user models.User, project *models.Project, ps ...Permission) bool {
	for _, p := range ps {
		if r.IsAllowed(ctx, user, p, project) {
			return true
		}
	}
	return false
}

// StaticResolver grants a fixed permission set on every non-nil project.
// Useful for service accounts and tests.
type StaticResolver map[Permission]bool

// IsAllowed implements Resolver.
func (s StaticResolver) IsAllowed(_ context.Context, _ models.User, p Permission, project *models.Project) bool {
	if project == nil {
		return false
	}
	return s[p]
}
