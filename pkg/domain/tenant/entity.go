// Package tenant defines the tenant entity: the top-level isolation
// boundary of the platform. Every persisted record carries a tenant id,
// and no operation may read or write across tenant boundaries.
package tenant

import (
	"regexp"
	"strings"
	"time"

	"github.com/alignhq/api/pkg/domain/shared"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Tenant represents an organization.
type Tenant struct {
	id        shared.ID
	name      string
	slug      string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

// NewTenant creates a new Tenant entity.
func NewTenant(name, slug string) (*Tenant, error) {
	if name == "" {
		return nil, shared.Validationf("name is required")
	}
	if !IsValidSlug(slug) {
		return nil, shared.Validationf("invalid slug %q (use lowercase letters, numbers, hyphens)", slug)
	}

	now := time.Now().UTC()
	return &Tenant{
		id:        shared.NewID(),
		name:      name,
		slug:      strings.ToLower(slug),
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a Tenant from persistence.
func Reconstitute(id shared.ID, name, slug string, isActive bool, createdAt, updatedAt time.Time) *Tenant {
	return &Tenant{
		id:        id,
		name:      name,
		slug:      slug,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (t *Tenant) ID() shared.ID        { return t.id }
func (t *Tenant) Name() string         { return t.name }
func (t *Tenant) Slug() string         { return t.slug }
func (t *Tenant) IsActive() bool       { return t.isActive }
func (t *Tenant) CreatedAt() time.Time { return t.createdAt }
func (t *Tenant) UpdatedAt() time.Time { return t.updatedAt }

// Deactivate marks the tenant inactive. Records are retained; access is
// denied at the boundary.
func (t *Tenant) Deactivate() {
	t.isActive = false
	t.updatedAt = time.Now().UTC()
}

// IsValidSlug checks slug format.
func IsValidSlug(slug string) bool {
	return slug != "" && slugRegex.MatchString(slug)
}
