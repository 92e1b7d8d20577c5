package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alignhq/api/pkg/domain/reference"
	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/domain/shared"
)

func newMockRepo(t *testing.T) (*ReferenceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReferenceRepository(&DB{DB: db}), mock
}

func TestReferenceRepository_Exists(t *testing.T) {
	t.Run("tenant-filtered lookup", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM areas WHERE id = \$1 AND tenant_id = \$2\)`).
			WithArgs("area-1", "tenant-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.Exists(context.Background(), reference.ExistsQuery{
			Table:    "areas",
			Key:      "id",
			Value:    "area-1",
			TenantID: "tenant-1",
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("tenants table takes no tenant filter", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM tenants WHERE id = \$1\)`).
			WithArgs("tenant-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.Exists(context.Background(), reference.ExistsQuery{
			Table:    "tenants",
			Key:      "id",
			Value:    "tenant-1",
			TenantID: "tenant-1",
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("area constraint adds a predicate", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE id = \$1 AND tenant_id = \$2 AND area_id = \$3\)`).
			WithArgs("user-1", "tenant-1", "area-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		ok, err := repo.Exists(context.Background(), reference.ExistsQuery{
			Table:    "users",
			Key:      "id",
			Value:    "user-1",
			TenantID: "tenant-1",
			AreaID:   "area-1",
		})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unlisted table is rejected without a query", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		_, err := repo.Exists(context.Background(), reference.ExistsQuery{
			Table:    "pg_catalog",
			Key:      "id",
			Value:    "x",
			TenantID: "tenant-1",
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unlisted key column is rejected", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		_, err := repo.Exists(context.Background(), reference.ExistsQuery{
			Table:    "areas",
			Key:      "name",
			Value:    "engineering",
			TenantID: "tenant-1",
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure wraps the storage error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.Exists(context.Background(), reference.ExistsQuery{
			Table:    "areas",
			Key:      "id",
			Value:    "area-1",
			TenantID: "tenant-1",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrStorage)
	})
}

func TestReferenceRepository_SubjectByID(t *testing.T) {
	t.Run("loads subject state", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rows := sqlmock.NewRows([]string{"id", "role", "tenant_id", "area_id", "is_active"}).
			AddRow("user-1", "manager", "tenant-1", "area-1", true)
		mock.ExpectQuery(`SELECT id, role, tenant_id, area_id, is_active`).
			WithArgs("tenant-1", "user-1").
			WillReturnRows(rows)

		subject, err := repo.SubjectByID(context.Background(), "user-1", "tenant-1")
		require.NoError(t, err)
		require.NotNil(t, subject)
		assert.Equal(t, role.RoleManager, subject.Role)
		assert.Equal(t, "area-1", subject.AreaID)
		assert.True(t, subject.IsActive)
	})

	t.Run("null area comes back empty", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rows := sqlmock.NewRows([]string{"id", "role", "tenant_id", "area_id", "is_active"}).
			AddRow("user-1", "admin", "tenant-1", nil, true)
		mock.ExpectQuery(`SELECT id, role, tenant_id, area_id, is_active`).
			WillReturnRows(rows)

		subject, err := repo.SubjectByID(context.Background(), "user-1", "tenant-1")
		require.NoError(t, err)
		require.NotNil(t, subject)
		assert.Empty(t, subject.AreaID)
	})

	t.Run("missing user is nil, not an error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT id, role, tenant_id, area_id, is_active`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "role", "tenant_id", "area_id", "is_active"}))

		subject, err := repo.SubjectByID(context.Background(), "ghost", "tenant-1")
		require.NoError(t, err)
		assert.Nil(t, subject)
	})

	t.Run("query failure wraps the storage error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT id, role, tenant_id, area_id, is_active`).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.SubjectByID(context.Background(), "user-1", "tenant-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrStorage)
	})
}
