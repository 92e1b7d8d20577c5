package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alignhq/api/pkg/domain/shared"
	"github.com/alignhq/api/pkg/domain/tenant"
)

// TenantRepository implements tenant.Repository using PostgreSQL.
type TenantRepository struct {
	db *DB
}

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(db *DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create persists a new tenant.
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID().String(), t.Name(), t.Slug(), t.IsActive(), t.CreatedAt(), t.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("%w: creating tenant: %v", shared.ErrStorage, err)
	}
	return nil
}

// GetByID retrieves a tenant by ID.
func (r *TenantRepository) GetByID(ctx context.Context, id shared.ID) (*tenant.Tenant, error) {
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, id.String()))
}

// GetBySlug retrieves a tenant by slug.
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM tenants
		WHERE slug = $1
	`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, slug))
}

// ListActive returns all active tenants. Used by the isolation audit,
// which iterates tenants to probe their boundaries.
func (r *TenantRepository) ListActive(ctx context.Context) ([]*tenant.Tenant, error) {
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM tenants
		WHERE is_active = TRUE
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: listing tenants: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenantRow(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tenants: %v", shared.ErrStorage, err)
	}
	return tenants, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TenantRepository) scanTenant(row rowScanner) (*tenant.Tenant, error) {
	t, err := scanTenantRow(row)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func scanTenantRow(row rowScanner) (*tenant.Tenant, error) {
	var (
		id                   shared.ID
		name, slug           string
		isActive             bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &slug, &isActive, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundf("tenant")
		}
		return nil, fmt.Errorf("%w: scanning tenant: %v", shared.ErrStorage, err)
	}
	return tenant.Reconstitute(id, name, slug, isActive, createdAt, updatedAt), nil
}
