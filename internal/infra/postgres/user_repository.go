package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/domain/shared"
	"github.com/alignhq/api/pkg/domain/user"
)

// UserRepository implements user.Repository using PostgreSQL.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, tenant_id, email, name, role, area_id, password_hash, is_active, created_at, updated_at`

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID().String(),
		u.TenantID().String(),
		u.Email(),
		u.Name(),
		u.Role().String(),
		nullID(u.AreaID()),
		nullString(u.PasswordHash()),
		u.IsActive(),
		u.CreatedAt(),
		u.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("%w: creating user: %v", shared.ErrStorage, err)
	}
	return nil
}

// GetByID retrieves a user within a tenant.
func (r *UserRepository) GetByID(ctx context.Context, tenantID, id shared.ID) (*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE tenant_id = $1 AND id = $2
	`
	return scanUser(r.db.QueryRowContext(ctx, query, tenantID.String(), id.String()))
}

// GetByEmail retrieves a user by email within a tenant.
func (r *UserRepository) GetByEmail(ctx context.Context, tenantID shared.ID, email string) (*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE tenant_id = $1 AND email = $2
	`
	return scanUser(r.db.QueryRowContext(ctx, query, tenantID.String(), strings.ToLower(email)))
}

// Update updates an existing user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET email = $3, name = $4, role = $5, area_id = $6, password_hash = $7,
		    is_active = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		u.TenantID().String(),
		u.ID().String(),
		u.Email(),
		u.Name(),
		u.Role().String(),
		nullID(u.AreaID()),
		nullString(u.PasswordHash()),
		u.IsActive(),
		u.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("%w: updating user: %v", shared.ErrStorage, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating user: %v", shared.ErrStorage, err)
	}
	if affected == 0 {
		return shared.NotFoundf("user")
	}
	return nil
}

// ListByTenant returns all users of a tenant.
func (r *UserRepository) ListByTenant(ctx context.Context, tenantID shared.ID) ([]*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE tenant_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: listing users: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating users: %v", shared.ErrStorage, err)
	}
	return users, nil
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		id, tenantID         shared.ID
		email, name, roleStr string
		areaID, passwordHash sql.NullString
		isActive             bool
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &tenantID, &email, &name, &roleStr, &areaID, &passwordHash, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundf("user")
		}
		return nil, fmt.Errorf("%w: scanning user: %v", shared.ErrStorage, err)
	}

	areaRef, err := scanNullID(areaID)
	if err != nil {
		return nil, fmt.Errorf("%w: scanning user area: %v", shared.ErrStorage, err)
	}

	return user.Reconstitute(
		id, tenantID,
		email, name,
		role.Role(roleStr),
		areaRef,
		nullStringValue(passwordHash),
		isActive,
		createdAt, updatedAt,
	), nil
}
