package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/workcosts/pkg/database"
	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	"github.com/ghuser/workcosts/services/costs/domain/repositories"
	"github.com/ghuser/workcosts/services/costs/infrastructure/persistence/postgres/db"
)

var (
	_ repositories.EntryRepository    = (*EntryRepository)(nil)
	_ repositories.CostTypeRepository = (*CostTypeRepository)(nil)
)

// EntryRepository implements repositories.EntryRepository against PostgreSQL.
// Multi-query reads run in one snapshot so an aggregation never mixes states.
type EntryRepository struct {
	db *database.Database
}

// NewEntryRepository returns an EntryRepository backed by the given pool.
func NewEntryRepository(database *database.Database) *EntryRepository {
	return &EntryRepository{db: database}
}

// ForWorkItem returns the entries of a single work item.
func (r *EntryRepository) ForWorkItem(ctx context.Context, workItemID uuid.UUID) (models.EntrySet, error) {
	sets, err := r.ForWorkItems(ctx, []uuid.UUID{workItemID})
	if err != nil {
		return models.EntrySet{}, err
	}
	return sets[workItemID], nil
}

// ForWorkItems loads time entries, cost entries and the referenced cost types.
// Cost types that no longer exist are left out; the aggregator reports them.
func (r *EntryRepository) ForWorkItems(ctx context.Context, workItemIDs []uuid.UUID) (map[uuid.UUID]models.EntrySet, error) {
	sets := make(map[uuid.UUID]models.EntrySet, len(workItemIDs))
	for _, id := range workItemIDs {
		sets[id] = models.EntrySet{CostTypes: map[uuid.UUID]models.CostType{}}
	}
	if len(workItemIDs) == 0 {
		return sets, nil
	}

	err := r.db.ReadSnapshot(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)

		timeRows, err := q.ListTimeEntriesByWorkItems(ctx, workItemIDs)
		if err != nil {
			return fmt.Errorf("list time entries: %w", err)
		}
		for _, row := range timeRows {
			set := sets[row.WorkItemID]
			set.TimeEntries = append(set.TimeEntries, rowToTimeEntry(row))
			sets[row.WorkItemID] = set
		}

		costRows, err := q.ListCostEntriesByWorkItems(ctx, workItemIDs)
		if err != nil {
			return fmt.Errorf("list cost entries: %w", err)
		}
		var typeIDs []uuid.UUID
		seen := map[uuid.UUID]bool{}
		for _, row := range costRows {
			set := sets[row.WorkItemID]
			set.CostEntries = append(set.CostEntries, rowToCostEntry(row))
			sets[row.WorkItemID] = set
			if !seen[row.CostTypeID] {
				seen[row.CostTypeID] = true
				typeIDs = append(typeIDs, row.CostTypeID)
			}
		}
		if len(typeIDs) == 0 {
			return nil
		}

		typeRows, err := q.ListCostTypesByIDs(ctx, typeIDs)
		if err != nil {
			return fmt.Errorf("list cost types: %w", err)
		}
		types := make(map[uuid.UUID]models.CostType, len(typeRows))
		for _, row := range typeRows {
			types[row.ID] = rowToCostType(row)
		}
		for id, set := range sets {
			for _, e := range set.CostEntries {
				if ct, ok := types[e.CostTypeID]; ok {
					set.CostTypes[ct.ID] = ct
				}
			}
			sets[id] = set
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// CostEntryByID returns ErrCostEntryNotFound if the entry does not exist.
func (r *EntryRepository) CostEntryByID(ctx context.Context, id uuid.UUID) (*models.CostLogEntry, error) {
	row, err := db.New(r.db.DB()).GetCostEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, costsdomain.ErrCostEntryNotFound
		}
		return nil, fmt.Errorf("query cost entry: %w", err)
	}
	e := rowToCostEntry(row)
	return &e, nil
}

// CostTypeRepository implements repositories.CostTypeRepository against PostgreSQL.
type CostTypeRepository struct {
	db *database.Database
}

// NewCostTypeRepository returns a CostTypeRepository backed by the given pool.
func NewCostTypeRepository(database *database.Database) *CostTypeRepository {
	return &CostTypeRepository{db: database}
}

func (r *CostTypeRepository) List(ctx context.Context) ([]models.CostType, error) {
	rows, err := db.New(r.db.DB()).ListCostTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cost types: %w", err)
	}
	types := make([]models.CostType, len(rows))
	for i, row := range rows {
		types[i] = rowToCostType(row)
	}
	return types, nil
}

// GetByID returns ErrCostTypeNotFound if the cost type does not exist.
func (r *CostTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CostType, error) {
	row, err := db.New(r.db.DB()).GetCostTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, costsdomain.ErrCostTypeNotFound
		}
		return nil, fmt.Errorf("query cost type: %w", err)
	}
	ct := rowToCostType(row)
	return &ct, nil
}

func rowToTimeEntry(row db.CostsTimeEntry) models.TimeLogEntry {
	return models.TimeLogEntry{
		ID:         row.ID,
		WorkItemID: row.WorkItemID,
		UserID:     row.UserID,
		Hours:      row.Hours,
		Rate:       models.NewMoney(row.Rate),
		Activity:   row.Activity,
		SpentOn:    row.SpentOn,
	}
}

func rowToCostEntry(row db.CostsCostEntry) models.CostLogEntry {
	return models.CostLogEntry{
		ID:         row.ID,
		WorkItemID: row.WorkItemID,
		UserID:     row.UserID,
		CostTypeID: row.CostTypeID,
		Units:      row.Units,
		Amount:     models.NewMoney(row.Amount),
		Comments:   row.Comments,
		SpentOn:    row.SpentOn,
	}
}

func rowToCostType(row db.CostsCostType) models.CostType {
	return models.CostType{
		ID:             row.ID,
		Name:           row.Name,
		UnitName:       row.UnitName,
		UnitPluralName: row.UnitPluralName,
	}
}
