package permissions

// Builtin roles apply to users without a project membership.
const (
	RoleNonMember = "Non member"
	RoleAnonymous = "Anonymous"
)

// Role is a named set of granted permissions.
type Role struct {
	Name        string
	Builtin     bool
	Permissions []Permission
}

// Grants reports whether the role grants p.
func (r Role) Grants(p Permission) bool {
	for _, granted := range r.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}

// Standing is what is known about a user within one project.
type Standing struct {
	Admin         bool
	Authenticated bool
	Member        bool
	// Roles are the membership roles for members, or the builtin
	// non-member/anonymous role otherwise.
	Roles []Role
}

// Check decides p for the given standing using the permission table.
// Unknown permissions are never granted.
func Check(p Permission, s Standing) bool {
	def, ok := Lookup(p)
	if !ok {
		return false
	}
	if s.Admin {
		return true
	}
	switch def.Scope {
	case ScopeLoggedIn:
		if !s.Authenticated {
			return false
		}
	case ScopeProjectMember:
		if !s.Member {
			return false
		}
	}
	for _, r := range s.Roles {
		if r.Grants(p) {
			return true
		}
	}
	return false
}

// DefaultRoles returns the role grants seeded for a fresh installation.
func DefaultRoles() []Role {
	return []Role{
		{
			Name: "Project admin",
			Permissions: []Permission{
				ViewTimeEntries, LogTime, EditTimeEntries, ManageProjectActivities,
				ViewHourlyRates, EditHourlyRates, ViewCostRates,
				LogCosts, EditCostEntries, ViewCostEntries,
			},
		},
		{
			Name: "Member",
			Permissions: []Permission{
				ViewOwnTimeEntries, LogTime, EditOwnTimeEntries,
				ViewOwnHourlyRate, LogOwnCosts, EditOwnCostEntries, ViewOwnCostEntries,
			},
		},
		{
			Name:        "Reader",
			Permissions: []Permission{ViewOwnTimeEntries, ViewOwnCostEntries},
		},
		{
			Name:        RoleNonMember,
			Builtin:     true,
			Permissions: []Permission{ViewOwnCostEntries},
		},
		{
			Name:    RoleAnonymous,
			Builtin: true,
		},
	}
}
