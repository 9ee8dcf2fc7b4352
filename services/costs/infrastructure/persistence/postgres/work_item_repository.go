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
	_ repositories.WorkItemRepository = (*WorkItemRepository)(nil)
	_ repositories.ProjectRepository  = (*ProjectRepository)(nil)
)

// WorkItemRepository implements repositories.WorkItemRepository against PostgreSQL.
type WorkItemRepository struct {
	db *database.Database
}

// NewWorkItemRepository returns a WorkItemRepository backed by the given pool.
func NewWorkItemRepository(database *database.Database) *WorkItemRepository {
	return &WorkItemRepository{db: database}
}

// GetByID loads a work item joined with its project. Returns ErrWorkItemNotFound if not found.
func (r *WorkItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkItem, error) {
	row, err := db.New(r.db.DB()).GetWorkItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, costsdomain.ErrWorkItemNotFound
		}
		return nil, fmt.Errorf("query work item: %w", err)
	}
	item := rowToWorkItem(row.CostsWorkItem)
	item.Project = rowToProject(row.Project)
	return item, nil
}

// ListByProject returns one page of a project's work items, each pointing at project.
func (r *WorkItemRepository) ListByProject(ctx context.Context, project *models.Project, opts repositories.QueryOpts) ([]*models.WorkItem, error) {
	rows, err := db.New(r.db.DB()).ListWorkItemsByProject(ctx, db.ListWorkItemsByProjectParams{
		ProjectID: project.ID,
		Limit:     int32(opts.Limit),
		Offset:    int32(opts.Offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	items := make([]*models.WorkItem, len(rows))
	for i, row := range rows {
		items[i] = rowToWorkItem(row)
		items[i].Project = project
	}
	return items, nil
}

// ProjectRepository implements repositories.ProjectRepository against PostgreSQL.
type ProjectRepository struct {
	db *database.Database
}

// NewProjectRepository returns a ProjectRepository backed by the given pool.
func NewProjectRepository(database *database.Database) *ProjectRepository {
	return &ProjectRepository{db: database}
}

// GetByID returns ErrProjectNotFound if the project does not exist.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row, err := db.New(r.db.DB()).GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, costsdomain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("query project: %w", err)
	}
	return rowToProject(row), nil
}

func rowToWorkItem(row db.CostsWorkItem) *models.WorkItem {
	return &models.WorkItem{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		Subject:   row.Subject,
	}
}

// rowToProject leaves currency fields blank when the project does not
// override them.
func rowToProject(row db.CostsProject) *models.Project {
	return &models.Project{
		ID:           row.ID,
		Identifier:   row.Identifier,
		Name:         row.Name,
		CostsEnabled: row.CostsEnabled,
		Currency: models.CurrencyConfig{
			Code:   row.CurrencyCode.String,
			Format: row.CurrencyFormat.String,
		},
	}
}
