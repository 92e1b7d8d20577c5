// Package area defines the area entity: a sub-tenant partition
// (department or division) owned by exactly one tenant.
package area

import (
	"time"

	"github.com/alignhq/api/pkg/domain/shared"
)

// Area represents a department within a tenant.
type Area struct {
	id        shared.ID
	tenantID  shared.ID
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// NewArea creates a new Area owned by the given tenant.
func NewArea(tenantID shared.ID, name string) (*Area, error) {
	if tenantID.IsZero() {
		return nil, shared.Validationf("tenant id is required")
	}
	if name == "" {
		return nil, shared.Validationf("name is required")
	}

	now := time.Now().UTC()
	return &Area{
		id:        shared.NewID(),
		tenantID:  tenantID,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates an Area from persistence.
func Reconstitute(id, tenantID shared.ID, name string, createdAt, updatedAt time.Time) *Area {
	return &Area{
		id:        id,
		tenantID:  tenantID,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (a *Area) ID() shared.ID        { return a.id }
func (a *Area) TenantID() shared.ID  { return a.tenantID }
func (a *Area) Name() string         { return a.name }
func (a *Area) CreatedAt() time.Time { return a.createdAt }
func (a *Area) UpdatedAt() time.Time { return a.updatedAt }

// BelongsTo reports whether the area is owned by the tenant. Any record
// referencing an area must satisfy this for its own tenant.
func (a *Area) BelongsTo(tenantID shared.ID) bool {
	return a.tenantID.Equals(tenantID)
}
