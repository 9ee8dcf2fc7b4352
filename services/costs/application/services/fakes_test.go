package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	"github.com/ghuser/workcosts/services/costs/domain/permissions"
	"github.com/ghuser/workcosts/services/costs/domain/repositories"
)

// store is an in-memory implementation of every costs repository.
type store struct {
	projects  map[uuid.UUID]*models.Project
	items     []*models.WorkItem
	users     map[uuid.UUID]*models.User
	timeLog   []models.TimeLogEntry
	costLog   []models.CostLogEntry
	costTypes map[uuid.UUID]models.CostType

	memberships map[uuid.UUID]map[uuid.UUID][]permissions.Role // project → user → roles
	builtin     map[string]permissions.Role
	failRoles   error
}

func newStore() *store {
	s := &store{
		projects:    map[uuid.UUID]*models.Project{},
		users:       map[uuid.UUID]*models.User{},
		costTypes:   map[uuid.UUID]models.CostType{},
		memberships: map[uuid.UUID]map[uuid.UUID][]permissions.Role{},
		builtin:     map[string]permissions.Role{},
	}
	for _, r := range permissions.DefaultRoles() {
		if r.Builtin {
			s.builtin[r.Name] = r
		}
	}
	return s
}

func (s *store) addProject(enabled bool) *models.Project {
	p := &models.Project{ID: uuid.New(), Identifier: "p", Name: "P", CostsEnabled: enabled}
	s.projects[p.ID] = p
	return p
}

func (s *store) addItem(p *models.Project) *models.WorkItem {
	w := &models.WorkItem{ID: uuid.New(), ProjectID: p.ID, Subject: "item", Project: p}
	s.items = append(s.items, w)
	return w
}

func (s *store) addUser(login string, admin bool) models.User {
	u := &models.User{ID: uuid.New(), Login: login, Admin: admin}
	s.users[u.ID] = u
	return *u
}

func (s *store) addMember(p *models.Project, u models.User, roleNames ...string) {
	byName := map[string]permissions.Role{}
	for _, r := range permissions.DefaultRoles() {
		byName[r.Name] = r
	}
	if s.memberships[p.ID] == nil {
		s.memberships[p.ID] = map[uuid.UUID][]permissions.Role{}
	}
	for _, n := range roleNames {
		s.memberships[p.ID][u.ID] = append(s.memberships[p.ID][u.ID], byName[n])
	}
}

func (s *store) logTime(w *models.WorkItem, u models.User, hours, rate string) {
	s.timeLog = append(s.timeLog, models.TimeLogEntry{
		ID: uuid.New(), WorkItemID: w.ID, UserID: u.ID,
		Hours: decimal.RequireFromString(hours), Rate: models.MustParseMoney(rate),
	})
}

func (s *store) logCost(w *models.WorkItem, u models.User, ct models.CostType, units, amount string) uuid.UUID {
	s.costTypes[ct.ID] = ct
	e := models.CostLogEntry{
		ID: uuid.New(), WorkItemID: w.ID, UserID: u.ID, CostTypeID: ct.ID,
		Units: decimal.RequireFromString(units), Amount: models.MustParseMoney(amount),
	}
	s.costLog = append(s.costLog, e)
	return e.ID
}

// WorkItemRepository

func (s *store) GetByID(_ context.Context, id uuid.UUID) (*models.WorkItem, error) {
	for _, w := range s.items {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, costsdomain.ErrWorkItemNotFound
}

func (s *store) ListByProject(_ context.Context, p *models.Project, opts repositories.QueryOpts) ([]*models.WorkItem, error) {
	var all []*models.WorkItem
	for _, w := range s.items {
		if w.ProjectID == p.ID {
			all = append(all, w)
		}
	}
	if opts.Offset >= len(all) {
		return nil, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[opts.Offset:end], nil
}

// EntryRepository

func (s *store) ForWorkItem(ctx context.Context, id uuid.UUID) (models.EntrySet, error) {
	sets, err := s.ForWorkItems(ctx, []uuid.UUID{id})
	return sets[id], err
}

func (s *store) ForWorkItems(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.EntrySet, error) {
	out := make(map[uuid.UUID]models.EntrySet, len(ids))
	for _, id := range ids {
		set := models.EntrySet{CostTypes: map[uuid.UUID]models.CostType{}}
		for _, e := range s.timeLog {
			if e.WorkItemID == id {
				set.TimeEntries = append(set.TimeEntries, e)
			}
		}
		for _, e := range s.costLog {
			if e.WorkItemID == id {
				set.CostEntries = append(set.CostEntries, e)
				if ct, ok := s.costTypes[e.CostTypeID]; ok {
					set.CostTypes[ct.ID] = ct
				}
			}
		}
		out[id] = set
	}
	return out, nil
}

func (s *store) CostEntryByID(_ context.Context, id uuid.UUID) (*models.CostLogEntry, error) {
	for _, e := range s.costLog {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, costsdomain.ErrCostEntryNotFound
}

// MembershipRepository

func (s *store) RolesFor(_ context.Context, userID, projectID uuid.UUID) ([]permissions.Role, bool, error) {
	if s.failRoles != nil {
		return nil, false, s.failRoles
	}
	roles, ok := s.memberships[projectID][userID]
	return roles, ok, nil
}

func (s *store) BuiltinRole(_ context.Context, name string) (permissions.Role, error) {
	r, ok := s.builtin[name]
	if !ok {
		return permissions.Role{}, errors.New("builtin role missing")
	}
	return r, nil
}

// The remaining repositories share method names with the ones above, so they
// are exposed through thin views.

type projectView struct{ *store }

func (v projectView) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	p, ok := v.projects[id]
	if !ok {
		return nil, costsdomain.ErrProjectNotFound
	}
	return p, nil
}

type userView struct{ *store }

func (v userView) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := v.users[id]
	if !ok {
		return nil, costsdomain.ErrUserNotFound
	}
	return u, nil
}

type costTypeView struct{ *store }

func (v costTypeView) List(_ context.Context) ([]models.CostType, error) {
	out := make([]models.CostType, 0, len(v.costTypes))
	for _, ct := range v.costTypes {
		out = append(out, ct)
	}
	return out, nil
}

func (v costTypeView) GetByID(_ context.Context, id uuid.UUID) (*models.CostType, error) {
	ct, ok := v.costTypes[id]
	if !ok {
		return nil, costsdomain.ErrCostTypeNotFound
	}
	return &ct, nil
}

type staticSettings struct {
	currency models.CurrencyConfig
	columns  []string
	err      error
}

func (s staticSettings) Currency(context.Context) (models.CurrencyConfig, error) {
	return s.currency, s.err
}

func (s staticSettings) SummableColumns(context.Context) ([]string, error) {
	return s.columns, s.err
}
