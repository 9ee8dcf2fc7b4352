package db

import (
	"context"

	"github.com/google/uuid"
)

const getProjectByID = `
SELECT id, identifier, name, costs_enabled, currency_code, currency_format
FROM costs.projects
WHERE id = $1
`

func (q *Queries) GetProjectByID(ctx context.Context, id uuid.UUID) (CostsProject, error) {
	row := q.db.QueryRowContext(ctx, getProjectByID, id)
	var p CostsProject
	err := row.Scan(&p.ID, &p.Identifier, &p.Name, &p.CostsEnabled, &p.CurrencyCode, &p.CurrencyFormat)
	return p, err
}

const getWorkItemByID = `
SELECT w.id, w.project_id, w.subject, w.created_at,
       p.id, p.identifier, p.name, p.costs_enabled, p.currency_code, p.currency_format
FROM costs.work_items w
JOIN costs.projects p ON p.id = w.project_id
WHERE w.id = $1
`

func (q *Queries) GetWorkItemByID(ctx context.Context, id uuid.UUID) (WorkItemWithProject, error) {
	row := q.db.QueryRowContext(ctx, getWorkItemByID, id)
	var i WorkItemWithProject
	err := row.Scan(
		&i.ID, &i.ProjectID, &i.Subject, &i.CreatedAt,
		&i.Project.ID, &i.Project.Identifier, &i.Project.Name, &i.Project.CostsEnabled,
		&i.Project.CurrencyCode, &i.Project.CurrencyFormat,
	)
	return i, err
}

const listWorkItemsByProject = `
SELECT id, project_id, subject, created_at
FROM costs.work_items
WHERE project_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

type ListWorkItemsByProjectParams struct {
	ProjectID uuid.UUID
	Limit     int32
	Offset    int32
}

func (q *Queries) ListWorkItemsByProject(ctx context.Context, arg ListWorkItemsByProjectParams) ([]CostsWorkItem, error) {
	rows, err := q.db.QueryContext(ctx, listWorkItemsByProject, arg.ProjectID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CostsWorkItem
	for rows.Next() {
		var i CostsWorkItem
		if err := rows.Scan(&i.ID, &i.ProjectID, &i.Subject, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTimeEntriesByWorkItems = `
SELECT id, work_item_id, user_id, hours, rate, activity, spent_on
FROM costs.time_entries
WHERE work_item_id = ANY($1::uuid[])
ORDER BY spent_on, id
`

func (q *Queries) ListTimeEntriesByWorkItems(ctx context.Context, workItemIDs []uuid.UUID) ([]CostsTimeEntry, error) {
	rows, err := q.db.QueryContext(ctx, listTimeEntriesByWorkItems, workItemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CostsTimeEntry
	for rows.Next() {
		var i CostsTimeEntry
		if err := rows.Scan(&i.ID, &i.WorkItemID, &i.UserID, &i.Hours, &i.Rate, &i.Activity, &i.SpentOn); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const costEntryColumns = `id, work_item_id, user_id, cost_type_id, units, amount, comments, spent_on`

const listCostEntriesByWorkItems = `
SELECT ` + costEntryColumns + `
FROM costs.cost_entries
WHERE work_item_id = ANY($1::uuid[])
ORDER BY spent_on, id
`

func (q *Queries) ListCostEntriesByWorkItems(ctx context.Context, workItemIDs []uuid.UUID) ([]CostsCostEntry, error) {
	rows, err := q.db.QueryContext(ctx, listCostEntriesByWorkItems, workItemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CostsCostEntry
	for rows.Next() {
		i, err := scanCostEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCostEntryByID = `
SELECT ` + costEntryColumns + `
FROM costs.cost_entries
WHERE id = $1
`

func (q *Queries) GetCostEntryByID(ctx context.Context, id uuid.UUID) (CostsCostEntry, error) {
	return scanCostEntry(q.db.QueryRowContext(ctx, getCostEntryByID, id))
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCostEntry(s scanner) (CostsCostEntry, error) {
	var i CostsCostEntry
	err := s.Scan(&i.ID, &i.WorkItemID, &i.UserID, &i.CostTypeID, &i.Units, &i.Amount, &i.Comments, &i.SpentOn)
	return i, err
}

const costTypeColumns = `id, name, unit_name, unit_plural_name`

const listCostTypes = `
SELECT ` + costTypeColumns + `
FROM costs.cost_types
ORDER BY id
`

func (q *Queries) ListCostTypes(ctx context.Context) ([]CostsCostType, error) {
	return q.queryCostTypes(ctx, listCostTypes)
}

const listCostTypesByIDs = `
SELECT ` + costTypeColumns + `
FROM costs.cost_types
WHERE id = ANY($1::uuid[])
ORDER BY id
`

func (q *Queries) ListCostTypesByIDs(ctx context.Context, ids []uuid.UUID) ([]CostsCostType, error) {
	return q.queryCostTypes(ctx, listCostTypesByIDs, ids)
}

func (q *Queries) queryCostTypes(ctx context.Context, query string, args ...interface{}) ([]CostsCostType, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CostsCostType
	for rows.Next() {
		var i CostsCostType
		if err := rows.Scan(&i.ID, &i.Name, &i.UnitName, &i.UnitPluralName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCostTypeByID = `
SELECT ` + costTypeColumns + `
FROM costs.cost_types
WHERE id = $1
`

func (q *Queries) GetCostTypeByID(ctx context.Context, id uuid.UUID) (CostsCostType, error) {
	row := q.db.QueryRowContext(ctx, getCostTypeByID, id)
	var i CostsCostType
	err := row.Scan(&i.ID, &i.Name, &i.UnitName, &i.UnitPluralName)
	return i, err
}

const getUserByID = `
SELECT id, login, admin
FROM costs.users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (CostsUser, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var u CostsUser
	err := row.Scan(&u.ID, &u.Login, &u.Admin)
	return u, err
}

const countMemberships = `
SELECT count(*)
FROM costs.members
WHERE user_id = $1 AND project_id = $2
`

type MembershipParams struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
}

func (q *Queries) CountMemberships(ctx context.Context, arg MembershipParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMemberships, arg.UserID, arg.ProjectID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listMemberRolePermissions = `
SELECT r.name, r.builtin, rp.permission
FROM costs.members m
JOIN costs.roles r ON r.id = m.role_id
LEFT JOIN costs.role_permissions rp ON rp.role_id = r.id
WHERE m.user_id = $1 AND m.project_id = $2
ORDER BY r.name, rp.permission
`

func (q *Queries) ListMemberRolePermissions(ctx context.Context, arg MembershipParams) ([]RolePermission, error) {
	return q.queryRolePermissions(ctx, listMemberRolePermissions, arg.UserID, arg.ProjectID)
}

const listBuiltinRolePermissions = `
SELECT r.name, r.builtin, rp.permission
FROM costs.roles r
LEFT JOIN costs.role_permissions rp ON rp.role_id = r.id
WHERE r.builtin AND r.name = $1
ORDER BY rp.permission
`

func (q *Queries) ListBuiltinRolePermissions(ctx context.Context, name string) ([]RolePermission, error) {
	return q.queryRolePermissions(ctx, listBuiltinRolePermissions, name)
}

func (q *Queries) queryRolePermissions(ctx context.Context, query string, args ...interface{}) ([]RolePermission, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RolePermission
	for rows.Next() {
		var i RolePermission
		if err := rows.Scan(&i.RoleName, &i.Builtin, &i.Permission); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
