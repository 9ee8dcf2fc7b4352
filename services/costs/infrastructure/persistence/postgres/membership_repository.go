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
	"github.com/ghuser/workcosts/services/costs/domain/permissions"
	"github.com/ghuser/workcosts/services/costs/domain/repositories"
	"github.com/ghuser/workcosts/services/costs/infrastructure/persistence/postgres/db"
)

var (
	_ repositories.MembershipRepository = (*MembershipRepository)(nil)
	_ repositories.UserRepository       = (*UserRepository)(nil)
)

// MembershipRepository implements repositories.MembershipRepository against PostgreSQL.
type MembershipRepository struct {
	db *database.Database
}

// NewMembershipRepository returns a MembershipRepository backed by the given pool.
func NewMembershipRepository(database *database.Database) *MembershipRepository {
	return &MembershipRepository{db: database}
}

// RolesFor returns the membership roles of a user in a project.
func (r *MembershipRepository) RolesFor(ctx context.Context, userID, projectID uuid.UUID) ([]permissions.Role, bool, error) {
	q := db.New(r.db.DB())
	arg := db.MembershipParams{UserID: userID, ProjectID: projectID}

	n, err := q.CountMemberships(ctx, arg)
	if err != nil {
		return nil, false, fmt.Errorf("count memberships: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}
	rows, err := q.ListMemberRolePermissions(ctx, arg)
	if err != nil {
		return nil, false, fmt.Errorf("list member roles: %w", err)
	}
	return groupRoles(rows), true, nil
}

// BuiltinRole returns the named builtin role. An unseeded role is an error:
// without it no user without membership can be evaluated.
func (r *MembershipRepository) BuiltinRole(ctx context.Context, name string) (permissions.Role, error) {
	rows, err := db.New(r.db.DB()).ListBuiltinRolePermissions(ctx, name)
	if err != nil {
		return permissions.Role{}, fmt.Errorf("list builtin role %q: %w", name, err)
	}
	roles := groupRoles(rows)
	if len(roles) == 0 {
		return permissions.Role{}, fmt.Errorf("builtin role %q is not seeded", name)
	}
	return roles[0], nil
}

// groupRoles folds (role, permission) rows ordered by role name into roles.
func groupRoles(rows []db.RolePermission) []permissions.Role {
	var roles []permissions.Role
	for _, row := range rows {
		if len(roles) == 0 || roles[len(roles)-1].Name != row.RoleName {
			roles = append(roles, permissions.Role{Name: row.RoleName, Builtin: row.Builtin})
		}
		if row.Permission.Valid {
			last := &roles[len(roles)-1]
			last.Permissions = append(last.Permissions, permissions.Permission(row.Permission.String))
		}
	}
	return roles
}

// UserRepository implements repositories.UserRepository against PostgreSQL.
type UserRepository struct {
	db *database.Database
}

// NewUserRepository returns a UserRepository backed by the given pool.
func NewUserRepository(database *database.Database) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := db.New(r.db.DB()).GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, costsdomain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &models.User{ID: row.ID, Login: row.Login, Admin: row.Admin}, nil
}
