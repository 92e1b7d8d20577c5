package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alignhq/api/pkg/domain/initiative"
	"github.com/alignhq/api/pkg/domain/scope"
	"github.com/alignhq/api/pkg/domain/shared"
)

// InitiativeRepository implements initiative.Repository using
// PostgreSQL.
type InitiativeRepository struct {
	db *DB
}

// NewInitiativeRepository creates a new InitiativeRepository.
func NewInitiativeRepository(db *DB) *InitiativeRepository {
	return &InitiativeRepository{db: db}
}

const initiativeColumns = `id, tenant_id, area_id, title, summary, status, progress, created_by, owner_id, parent_id, created_at, updated_at`

// scopeFilterColumns are the filter keys ListScoped accepts. Anything
// else in the map is a programming error and is rejected, never
// interpolated.
var scopeFilterColumns = map[string]bool{
	scope.FilterTenantID: true,
	scope.FilterAreaID:   true,
}

// Create persists a new initiative.
func (r *InitiativeRepository) Create(ctx context.Context, i *initiative.Initiative) error {
	query := `
		INSERT INTO initiatives (` + initiativeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		i.ID().String(),
		i.TenantID().String(),
		i.AreaID().String(),
		i.Title(),
		nullString(i.Summary()),
		string(i.Status()),
		i.Progress(),
		i.CreatedBy().String(),
		nullID(i.OwnerID()),
		nullID(i.ParentID()),
		i.CreatedAt(),
		i.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("%w: creating initiative: %v", shared.ErrStorage, err)
	}
	return nil
}

// GetByID retrieves an initiative within a tenant.
func (r *InitiativeRepository) GetByID(ctx context.Context, tenantID, id shared.ID) (*initiative.Initiative, error) {
	query := `
		SELECT ` + initiativeColumns + `
		FROM initiatives
		WHERE tenant_id = $1 AND id = $2
	`
	return scanInitiative(r.db.QueryRowContext(ctx, query, tenantID.String(), id.String()))
}

// Update updates an existing initiative.
func (r *InitiativeRepository) Update(ctx context.Context, i *initiative.Initiative) error {
	query := `
		UPDATE initiatives
		SET title = $3, summary = $4, status = $5, progress = $6,
		    owner_id = $7, parent_id = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		i.TenantID().String(),
		i.ID().String(),
		i.Title(),
		nullString(i.Summary()),
		string(i.Status()),
		i.Progress(),
		nullID(i.OwnerID()),
		nullID(i.ParentID()),
		i.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("%w: updating initiative: %v", shared.ErrStorage, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating initiative: %v", shared.ErrStorage, err)
	}
	if affected == 0 {
		return shared.NotFoundf("initiative")
	}
	return nil
}

// Delete removes an initiative within a tenant.
func (r *InitiativeRepository) Delete(ctx context.Context, tenantID, id shared.ID) error {
	query := `DELETE FROM initiatives WHERE tenant_id = $1 AND id = $2`
	result, err := r.db.ExecContext(ctx, query, tenantID.String(), id.String())
	if err != nil {
		return fmt.Errorf("%w: deleting initiative: %v", shared.ErrStorage, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting initiative: %v", shared.ErrStorage, err)
	}
	if affected == 0 {
		return shared.NotFoundf("initiative")
	}
	return nil
}

// ListScoped lists initiatives constrained by a scope filter map. Only
// the tenant_id and area_id equality filters are supported; tenant_id is
// mandatory (reads without a tenant scope are refused outright).
func (r *InitiativeRepository) ListScoped(ctx context.Context, filters map[string]string) ([]*initiative.Initiative, error) {
	if filters[scope.FilterTenantID] == "" {
		return nil, shared.Validationf("scope filters must include %s", scope.FilterTenantID)
	}
	for col := range filters {
		if !scopeFilterColumns[col] {
			return nil, shared.Validationf("unsupported scope filter %q", col)
		}
	}

	query := `
		SELECT ` + initiativeColumns + `
		FROM initiatives
		WHERE tenant_id = $1
	`
	args := []any{filters[scope.FilterTenantID]}
	if areaID := filters[scope.FilterAreaID]; areaID != "" {
		query += ` AND area_id = $2`
		args = append(args, areaID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing initiatives: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	var initiatives []*initiative.Initiative
	for rows.Next() {
		i, err := scanInitiative(rows)
		if err != nil {
			return nil, err
		}
		initiatives = append(initiatives, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating initiatives: %v", shared.ErrStorage, err)
	}
	return initiatives, nil
}

func scanInitiative(row rowScanner) (*initiative.Initiative, error) {
	var (
		id, tenantID, areaID, createdBy shared.ID
		title                           string
		summary                         sql.NullString
		status                          string
		progress                        int
		ownerID, parentID               sql.NullString
		createdAt, updatedAt            time.Time
	)
	err := row.Scan(&id, &tenantID, &areaID, &title, &summary, &status, &progress, &createdBy, &ownerID, &parentID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundf("initiative")
		}
		return nil, fmt.Errorf("%w: scanning initiative: %v", shared.ErrStorage, err)
	}

	ownerRef, err := scanNullID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: scanning initiative owner: %v", shared.ErrStorage, err)
	}
	parentRef, err := scanNullID(parentID)
	if err != nil {
		return nil, fmt.Errorf("%w: scanning initiative parent: %v", shared.ErrStorage, err)
	}

	return initiative.Reconstitute(
		id, tenantID, areaID,
		title, nullStringValue(summary),
		initiative.Status(status),
		progress,
		createdBy,
		ownerRef, parentRef,
		createdAt, updatedAt,
	), nil
}
