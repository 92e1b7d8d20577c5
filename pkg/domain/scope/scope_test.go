package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/domain/scope"
)

func TestResolve_TenantWideRoles(t *testing.T) {
	for _, r := range []role.Role{role.RoleOwner, role.RoleAdmin, role.RoleAnalyst} {
		t.Run(string(r), func(t *testing.T) {
			sc := scope.Resolve(r, "t1", "")
			require.NotNil(t, sc)
			assert.Equal(t, "t1", sc.TenantID)
			assert.Empty(t, sc.AreaID)
			assert.True(t, sc.CanViewAllAreas)

			filters := sc.Filters()
			assert.Equal(t, "t1", filters[scope.FilterTenantID])
			assert.NotContains(t, filters, scope.FilterAreaID)
		})
	}
}

func TestResolve_Analyst(t *testing.T) {
	sc := scope.Resolve(role.RoleAnalyst, "t1", "")
	require.NotNil(t, sc)
	assert.Equal(t, "t1", sc.TenantID)
	assert.Empty(t, sc.AreaID)
	assert.True(t, sc.CanViewAllAreas)
	assert.Equal(t, map[string]string{"tenant_id": "t1"}, sc.Filters())
}

func TestResolve_Manager(t *testing.T) {
	t.Run("with area", func(t *testing.T) {
		sc := scope.Resolve(role.RoleManager, "t1", "a1")
		require.NotNil(t, sc)
		assert.Equal(t, "t1", sc.TenantID)
		assert.Equal(t, "a1", sc.AreaID)
		assert.False(t, sc.CanViewAllAreas)
		assert.Equal(t, map[string]string{
			"tenant_id": "t1",
			"area_id":   "a1",
		}, sc.Filters())
	})

	t.Run("without area fails closed", func(t *testing.T) {
		assert.Nil(t, scope.Resolve(role.RoleManager, "t1", ""))
	})
}

func TestResolve_Invalid(t *testing.T) {
	t.Run("missing tenant", func(t *testing.T) {
		assert.Nil(t, scope.Resolve(role.RoleOwner, "", ""))
		assert.Nil(t, scope.Resolve(role.RoleManager, "", "a1"))
	})

	t.Run("unknown role", func(t *testing.T) {
		assert.Nil(t, scope.Resolve(role.Role("superuser"), "t1", "a1"))
	})
}

func TestFilters_ReturnsCopy(t *testing.T) {
	sc := scope.Resolve(role.RoleManager, "t1", "a1")
	require.NotNil(t, sc)

	filters := sc.Filters()
	delete(filters, scope.FilterAreaID)
	filters[scope.FilterTenantID] = "t2"

	fresh := sc.Filters()
	assert.Equal(t, "t1", fresh[scope.FilterTenantID])
	assert.Equal(t, "a1", fresh[scope.FilterAreaID], "mutating one copy must not widen the scope")
}

func TestCoversArea(t *testing.T) {
	manager := scope.Resolve(role.RoleManager, "t1", "a1")
	require.NotNil(t, manager)
	assert.True(t, manager.CoversArea("a1"))
	assert.False(t, manager.CoversArea("a2"))
	assert.False(t, manager.CoversArea(""))

	admin := scope.Resolve(role.RoleAdmin, "t1", "")
	require.NotNil(t, admin)
	assert.True(t, admin.CoversArea("a1"))
	assert.True(t, admin.CoversArea("a2"))
}
