package user

import (
	"context"

	"github.com/alignhq/api/pkg/domain/shared"
)

// Repository defines the interface for user persistence. All lookups
// are tenant-constrained; there is no cross-tenant user query.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, tenantID, id shared.ID) (*User, error)
	GetByEmail(ctx context.Context, tenantID shared.ID, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	ListByTenant(ctx context.Context, tenantID shared.ID) ([]*User, error)
}
