package initiative

import (
	"context"

	"github.com/alignhq/api/pkg/domain/shared"
)

// Repository defines the interface for initiative persistence.
//
// ListScoped is the only list operation: it takes the filter map derived
// by scope.Resolve, so every read is constrained by tenant (and area,
// for managers) at the query level. The storage layer supports equality
// filtering on tenant_id and area_id; nothing else is assumed.
type Repository interface {
	Create(ctx context.Context, i *Initiative) error
	GetByID(ctx context.Context, tenantID, id shared.ID) (*Initiative, error)
	Update(ctx context.Context, i *Initiative) error
	Delete(ctx context.Context, tenantID, id shared.ID) error
	ListScoped(ctx context.Context, filters map[string]string) ([]*Initiative, error)
}
