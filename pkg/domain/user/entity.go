// Package user defines the user entity: an authenticated subject with a
// role, a tenant, and, for managers, an area assignment.
package user

import (
	"strings"
	"time"

	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/domain/shared"
)

// User represents a platform user.
type User struct {
	id           shared.ID
	tenantID     shared.ID
	email        string
	name         string
	role         role.Role
	areaID       *shared.ID // nil for users without an area assignment
	passwordHash string
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new User. Managers must be created with an area
// assignment: a manager without an area has no data scope at all, so
// admitting one would only create a subject that every authorization
// path denies.
func NewUser(tenantID shared.ID, email, name string, r role.Role, areaID *shared.ID) (*User, error) {
	if tenantID.IsZero() {
		return nil, shared.Validationf("tenant id is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.Validationf("valid email is required")
	}
	if !r.IsValid() {
		return nil, shared.Validationf("unknown role %q", r)
	}
	if r.IsAreaScoped() && (areaID == nil || areaID.IsZero()) {
		return nil, shared.Validationf("role %s requires an area assignment", r)
	}

	now := time.Now().UTC()
	return &User{
		id:        shared.NewID(),
		tenantID:  tenantID,
		email:     email,
		name:      name,
		role:      r,
		areaID:    areaID,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a User from persistence.
func Reconstitute(
	id, tenantID shared.ID,
	email, name string,
	r role.Role,
	areaID *shared.ID,
	passwordHash string,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		tenantID:     tenantID,
		email:        email,
		name:         name,
		role:         r,
		areaID:       areaID,
		passwordHash: passwordHash,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() shared.ID        { return u.id }
func (u *User) TenantID() shared.ID  { return u.tenantID }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) Role() role.Role      { return u.role }
func (u *User) AreaID() *shared.ID   { return u.areaID }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// AreaIDString returns the area assignment as a string, empty when
// unassigned.
func (u *User) AreaIDString() string {
	if u.areaID == nil {
		return ""
	}
	return u.areaID.String()
}

// SetPasswordHash stores an already-hashed password.
func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
}

// Deactivate marks the user inactive. Inactive users fail reference
// validation and authentication.
func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = time.Now().UTC()
}

// AssignArea moves the user to a different area.
func (u *User) AssignArea(areaID shared.ID) error {
	if areaID.IsZero() {
		return shared.Validationf("area id is required")
	}
	u.areaID = &areaID
	u.updatedAt = time.Now().UTC()
	return nil
}
