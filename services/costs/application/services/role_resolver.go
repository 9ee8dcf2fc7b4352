package services

import (
	"context"

	"github.com/ghuser/workcosts/pkg/logger"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	"github.com/ghuser/workcosts/services/costs/domain/permissions"
	"github.com/ghuser/workcosts/services/costs/domain/repositories"
)

// RoleResolver answers permission questions from project memberships.
// Users without a membership are judged by the builtin non-member role, or the
// anonymous role when not logged in. Every costs permission is denied on
// projects that do not track costs, for admins too.
type RoleResolver struct {
	memberships repositories.MembershipRepository
	log         logger.Logger
}

var _ permissions.Resolver = (*RoleResolver)(nil)

// NewRoleResolver returns a RoleResolver over the given membership source.
func NewRoleResolver(memberships repositories.MembershipRepository, log logger.Logger) *RoleResolver {
	return &RoleResolver{memberships: memberships, log: log}
}

// IsAllowed implements permissions.Resolver. Lookup failures are logged and
// answered with false.
func (r *RoleResolver) IsAllowed(ctx context.Context, user models.User, p permissions.Permission, project *models.Project) bool {
	if project == nil || !project.CostsEnabled {
		return false
	}
	standing, err := r.standing(ctx, user, project)
	if err != nil {
		r.log.ErrorContext(ctx, "permission lookup failed",
			"permission", string(p),
			"project_id", project.ID,
			"user_id", user.ID,
			"error", err,
		)
		return false
	}
	return permissions.Check(p, standing)
}

func (r *RoleResolver) standing(ctx context.Context, user models.User, project *models.Project) (permissions.Standing, error) {
	if user.IsAnonymous() {
		role, err := r.memberships.BuiltinRole(ctx, permissions.RoleAnonymous)
		if err != nil {
			return permissions.Standing{}, err
		}
		return permissions.Standing{Roles: []permissions.Role{role}}, nil
	}

	s := permissions.Standing{Admin: user.Admin, Authenticated: true}
	if s.Admin {
		return s, nil
	}

	roles, member, err := r.memberships.RolesFor(ctx, user.ID, project.ID)
	if err != nil {
		return permissions.Standing{}, err
	}
	if member {
		s.Member = true
		s.Roles = roles
		return s, nil
	}

	role, err := r.memberships.BuiltinRole(ctx, permissions.RoleNonMember)
	if err != nil {
		return permissions.Standing{}, err
	}
	s.Roles = []permissions.Role{role}
	return s, nil
}
