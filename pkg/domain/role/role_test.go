package role_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alignhq/api/pkg/domain/role"
)

func TestIsValid(t *testing.T) {
	for _, r := range role.AllRoles {
		assert.True(t, r.IsValid(), "role %s", r)
	}
	assert.False(t, role.Role("superuser").IsValid())
	assert.False(t, role.Role("").IsValid())
}

func TestOutranks(t *testing.T) {
	assert.True(t, role.RoleOwner.Outranks(role.RoleAdmin))
	assert.True(t, role.RoleAdmin.Outranks(role.RoleAnalyst))
	assert.True(t, role.RoleAnalyst.Outranks(role.RoleManager))
	assert.False(t, role.RoleManager.Outranks(role.RoleOwner))
	assert.False(t, role.RoleAdmin.Outranks(role.RoleAdmin))
}

func TestIsAreaScoped(t *testing.T) {
	assert.True(t, role.RoleManager.IsAreaScoped())
	assert.False(t, role.RoleOwner.IsAreaScoped())
	assert.False(t, role.RoleAdmin.IsAreaScoped())
	assert.False(t, role.RoleAnalyst.IsAreaScoped())
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in    string
		want  role.Role
		known bool
	}{
		{"owner", role.RoleOwner, true},
		{"admin", role.RoleAdmin, true},
		{"analyst", role.RoleAnalyst, true},
		{"manager", role.RoleManager, true},
		{"root", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, known := role.ParseRole(tt.in)
		assert.Equal(t, tt.known, known, "input %q", tt.in)
		if tt.known {
			assert.Equal(t, tt.want, got)
		}
	}
}
