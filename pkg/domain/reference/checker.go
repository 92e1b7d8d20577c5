// Package reference validates that foreign-key values both exist and
// belong to the expected tenant and area before a write is accepted.
package reference

import (
	"context"

	"github.com/alignhq/api/pkg/domain/role"
)

// ExistsQuery describes an existence lookup: does a record whose Key
// column equals Value exist in Table, constrained to the tenant and,
// when AreaID is set, the area.
type ExistsQuery struct {
	Table    string
	Key      string
	Value    string
	TenantID string
	AreaID   string
}

// SubjectState is the slice of a user record the validator needs for
// assignment checks.
type SubjectState struct {
	ID       string
	Role     role.Role
	TenantID string
	AreaID   string
	IsActive bool
}

// Checker is the read-only storage collaborator. Implementations
// perform blocking I/O; any timeout policy belongs to them, not to the
// validator. Errors returned here are infrastructure errors ("could not
// determine"), never denials.
type Checker interface {
	Exists(ctx context.Context, q ExistsQuery) (bool, error)
	SubjectByID(ctx context.Context, userID, tenantID string) (*SubjectState, error)
}
