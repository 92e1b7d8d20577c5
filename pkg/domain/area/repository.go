package area

import (
	"context"

	"github.com/alignhq/api/pkg/domain/shared"
)

// Repository defines the interface for area persistence.
type Repository interface {
	Create(ctx context.Context, a *Area) error
	GetByID(ctx context.Context, tenantID, id shared.ID) (*Area, error)
	ListByTenant(ctx context.Context, tenantID shared.ID) ([]*Area, error)
}
