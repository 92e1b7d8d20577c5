// Package role defines the closed set of roles a subject can hold
// within a tenant.
package role

// Role represents a subject's role within a tenant.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleManager Role = "manager"
)

// AllRoles lists every valid role, highest priority first.
var AllRoles = []Role{RoleOwner, RoleAdmin, RoleAnalyst, RoleManager}

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleAnalyst, RoleManager:
		return true
	}
	return false
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Priority returns the hierarchy position of the role (higher = more
// senior). Used only for coarse "does this role outrank that role"
// comparisons, e.g. in user management. It is never a substitute for an
// explicit permission check: each role's permission set is declared
// independently, not derived from rank.
func (r Role) Priority() int {
	switch r {
	case RoleOwner:
		return 4
	case RoleAdmin:
		return 3
	case RoleAnalyst:
		return 2
	case RoleManager:
		return 1
	default:
		return 0
	}
}

// Outranks reports whether r is strictly senior to other.
func (r Role) Outranks(other Role) bool {
	return r.Priority() > other.Priority()
}

// IsAreaScoped reports whether the role's data access is restricted to a
// single area. Only managers are area-scoped; all other roles see every
// area of their tenant.
func (r Role) IsAreaScoped() bool {
	return r == RoleManager
}

// ParseRole parses a string to a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}
