package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alignhq/api/pkg/domain/area"
	"github.com/alignhq/api/pkg/domain/shared"
)

// AreaRepository implements area.Repository using PostgreSQL.
type AreaRepository struct {
	db *DB
}

// NewAreaRepository creates a new AreaRepository.
func NewAreaRepository(db *DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// Create persists a new area.
func (r *AreaRepository) Create(ctx context.Context, a *area.Area) error {
	query := `
		INSERT INTO areas (id, tenant_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID().String(), a.TenantID().String(), a.Name(), a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("%w: creating area: %v", shared.ErrStorage, err)
	}
	return nil
}

// GetByID retrieves an area within a tenant. The tenant filter is part
// of the query; an area of another tenant is simply not found.
func (r *AreaRepository) GetByID(ctx context.Context, tenantID, id shared.ID) (*area.Area, error) {
	query := `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM areas
		WHERE tenant_id = $1 AND id = $2
	`
	return scanArea(r.db.QueryRowContext(ctx, query, tenantID.String(), id.String()))
}

// ListByTenant returns all areas of a tenant.
func (r *AreaRepository) ListByTenant(ctx context.Context, tenantID shared.ID) ([]*area.Area, error) {
	query := `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM areas
		WHERE tenant_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: listing areas: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	var areas []*area.Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating areas: %v", shared.ErrStorage, err)
	}
	return areas, nil
}

func scanArea(row rowScanner) (*area.Area, error) {
	var (
		id, tenantID         shared.ID
		name                 string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &tenantID, &name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundf("area")
		}
		return nil, fmt.Errorf("%w: scanning area: %v", shared.ErrStorage, err)
	}
	return area.Reconstitute(id, tenantID, name, createdAt, updatedAt), nil
}
