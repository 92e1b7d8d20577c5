package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alignhq/api/internal/metrics"
	"github.com/alignhq/api/pkg/domain/reference"
	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/domain/shared"
)

// ReferenceRepository implements reference.Checker using PostgreSQL.
type ReferenceRepository struct {
	db *DB
}

// NewReferenceRepository creates a new ReferenceRepository.
func NewReferenceRepository(db *DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// referenceTargets whitelists the tables and key columns existence
// checks may touch. Table and column names come from code, never from
// request input, but the whitelist keeps that property enforced in one
// place.
var referenceTargets = map[string]map[string]bool{
	"tenants":     {"id": true},
	"areas":       {"id": true},
	"users":       {"id": true, "email": true},
	"initiatives": {"id": true},
}

// Exists checks whether a record with Key = Value exists in Table,
// constrained to the tenant and, when set, the area.
func (r *ReferenceRepository) Exists(ctx context.Context, q reference.ExistsQuery) (bool, error) {
	keys, ok := referenceTargets[q.Table]
	if !ok || !keys[q.Key] {
		return false, shared.Validationf("reference target %s.%s is not queryable", q.Table, q.Key)
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1`, q.Table, q.Key)
	args := []any{q.Value}

	// Tenants are the isolation boundary itself and have no tenant_id
	// column; every other table is tenant-filtered.
	if q.Table != "tenants" {
		query += fmt.Sprintf(` AND tenant_id = $%d`, len(args)+1)
		args = append(args, q.TenantID)
	}
	if q.AreaID != "" {
		query += fmt.Sprintf(` AND area_id = $%d`, len(args)+1)
		args = append(args, q.AreaID)
	}
	query += `)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		metrics.ReferenceChecksTotal.WithLabelValues(q.Table, "error").Inc()
		return false, fmt.Errorf("%w: reference check on %s: %v", shared.ErrStorage, q.Table, err)
	}

	result := "miss"
	if exists {
		result = "hit"
	}
	metrics.ReferenceChecksTotal.WithLabelValues(q.Table, result).Inc()
	return exists, nil
}

// SubjectByID loads the subject state used by assignment validation.
// Returns (nil, nil) when the user does not exist in the tenant; errors
// are infrastructure failures only.
func (r *ReferenceRepository) SubjectByID(ctx context.Context, userID, tenantID string) (*reference.SubjectState, error) {
	query := `
		SELECT id, role, tenant_id, area_id, is_active
		FROM users
		WHERE tenant_id = $1 AND id = $2
	`
	var (
		id, roleStr, tenant string
		areaID              sql.NullString
		isActive            bool
	)
	err := r.db.QueryRowContext(ctx, query, tenantID, userID).Scan(&id, &roleStr, &tenant, &areaID, &isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: loading subject %s: %v", shared.ErrStorage, userID, err)
	}

	return &reference.SubjectState{
		ID:       id,
		Role:     role.Role(roleStr),
		TenantID: tenant,
		AreaID:   nullStringValue(areaID),
		IsActive: isActive,
	}, nil
}
