package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/workcosts/services/costs/domain/models"
	"github.com/ghuser/workcosts/services/costs/domain/permissions"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// WorkItemRepository reads work items together with their project.
// The domain layer owns this interface; infrastructure implements it.
type WorkItemRepository interface {
	// GetByID returns the work item with Project resolved, or ErrWorkItemNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkItem, error)

	// ListByProject returns the work items of a project ordered by creation, each
	// with Project set to the same *Project value.
	ListByProject(ctx context.Context, project *models.Project, opts QueryOpts) ([]*models.WorkItem, error)
}

// ProjectRepository reads projects and their cost settings.
type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// EntryRepository reads time-log and cost-log entries.
type EntryRepository interface {
	// ForWorkItem returns all entries of one work item plus every cost type they reference.
	ForWorkItem(ctx context.Context, workItemID uuid.UUID) (models.EntrySet, error)

	// ForWorkItems is ForWorkItem for many work items in one round trip, keyed by work item ID.
	// Work items without entries map to an empty EntrySet.
	ForWorkItems(ctx context.Context, workItemIDs []uuid.UUID) (map[uuid.UUID]models.EntrySet, error)

	// CostEntryByID returns a single cost entry, or ErrCostEntryNotFound.
	CostEntryByID(ctx context.Context, id uuid.UUID) (*models.CostLogEntry, error)
}

// CostTypeRepository reads the cost type catalog.
type CostTypeRepository interface {
	List(ctx context.Context) ([]models.CostType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CostType, error)
}

// MembershipRepository reads the roles a user holds in a project.
type MembershipRepository interface {
	// RolesFor returns the roles of userID in projectID. member is false when the
	// user has no membership; the caller then falls back to a builtin role.
	RolesFor(ctx context.Context, userID, projectID uuid.UUID) (roles []permissions.Role, member bool, err error)

	// BuiltinRole returns the builtin role with the given name (non member, anonymous).
	BuiltinRole(ctx context.Context, name string) (permissions.Role, error)
}

// UserRepository reads user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
