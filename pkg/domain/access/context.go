// Package access implements the authorization decision procedures:
// per-operation authorization, the four-level validation suite, and the
// static route-protection table.
//
// Everything in this package is pure and exception-free. Denials are
// returned as data (Result with Valid=false), never as Go errors; the
// calling boundary maps them to transport-level rejections. All
// functions are safe for concurrent use: each Context, Result and Suite
// is constructed fresh per call and shares no mutable state.
package access

import "github.com/alignhq/api/pkg/domain/role"

// Context is the ephemeral request descriptor consumed by the decision
// procedures. It is populated from an already-authenticated subject at
// request entry and discarded at request exit; it must never be cached
// across requests.
type Context struct {
	UserID   string
	Role     role.Role
	TenantID string

	// AreaID is the subject's assigned area, empty for subjects without
	// an assignment. Mandatory for managers on area-scoped operations.
	AreaID string

	// RequestPath and RequestMethod are optional; when set, the
	// route-level check group applies.
	RequestPath   string
	RequestMethod string
}

// IsManager reports whether the subject's role is area-scoped.
func (c Context) IsManager() bool {
	return c.Role == role.RoleManager
}
