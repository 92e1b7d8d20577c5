package tenant

import (
	"context"

	"github.com/alignhq/api/pkg/domain/shared"
)

// Repository defines the interface for tenant persistence.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id shared.ID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	ListActive(ctx context.Context) ([]*Tenant, error)
}
