package reference_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alignhq/api/pkg/domain/reference"
	"github.com/alignhq/api/pkg/domain/role"
)

// fakeChecker serves existence lookups from an in-memory record set
// keyed by "table/tenant/value", with an optional area per record so
// area-constrained queries behave like the real store.
type fakeChecker struct {
	mu       sync.Mutex
	records  map[string]bool
	areaOf   map[string]string
	subjects map[string]*reference.SubjectState
	failWith error
	calls    int
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{
		records:  make(map[string]bool),
		areaOf:   make(map[string]string),
		subjects: make(map[string]*reference.SubjectState),
	}
}

func (f *fakeChecker) add(table, tenantID, value string) {
	f.records[table+"/"+tenantID+"/"+value] = true
}

func (f *fakeChecker) addInArea(table, tenantID, areaID, value string) {
	key := table + "/" + tenantID + "/" + value
	f.records[key] = true
	f.areaOf[key] = areaID
}

func (f *fakeChecker) Exists(_ context.Context, q reference.ExistsQuery) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWith != nil {
		return false, f.failWith
	}
	key := q.Table + "/" + q.TenantID + "/" + q.Value
	if !f.records[key] {
		return false, nil
	}
	if q.AreaID != "" && f.areaOf[key] != q.AreaID {
		return false, nil
	}
	return true, nil
}

func (f *fakeChecker) SubjectByID(_ context.Context, userID, tenantID string) (*reference.SubjectState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	s, ok := f.subjects[tenantID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func TestValidateReference(t *testing.T) {
	checker := newFakeChecker()
	checker.add("areas", "t1", "a1")
	v := reference.NewValidator(checker)

	t.Run("resolves", func(t *testing.T) {
		out, err := v.ValidateReference(context.Background(), "initiatives", "area_id", "areas", "id", "a1", "t1", "")
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.Empty(t, out.Errors)
	})

	t.Run("missing record", func(t *testing.T) {
		out, err := v.ValidateReference(context.Background(), "initiatives", "area_id", "areas", "id", "a9", "t1", "")
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], "a9")
		assert.Contains(t, out.Errors[0], "areas")
	})

	t.Run("wrong tenant", func(t *testing.T) {
		out, err := v.ValidateReference(context.Background(), "initiatives", "area_id", "areas", "id", "a1", "t2", "")
		require.NoError(t, err)
		assert.False(t, out.Valid)
	})

	t.Run("empty value", func(t *testing.T) {
		out, err := v.ValidateReference(context.Background(), "initiatives", "area_id", "areas", "id", "", "t1", "")
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], "empty")
	})
}

func TestValidateReference_InfrastructureError(t *testing.T) {
	checker := newFakeChecker()
	checker.failWith = errors.New("connection refused")
	v := reference.NewValidator(checker)

	_, err := v.ValidateReference(context.Background(), "initiatives", "area_id", "areas", "id", "a1", "t1", "")
	require.Error(t, err, "an unreachable store is not a denial")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidateInitiativeReferences(t *testing.T) {
	newValidator := func() (*fakeChecker, *reference.Validator) {
		checker := newFakeChecker()
		checker.add("areas", "t1", "a1")
		checker.add("users", "t1", "creator")
		checker.add("users", "t1", "owner")
		return checker, reference.NewValidator(checker)
	}

	t.Run("all resolve", func(t *testing.T) {
		_, v := newValidator()
		out, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "a1", CreatedBy: "creator", OwnerID: "owner",
		})
		require.NoError(t, err)
		assert.True(t, out.Valid)
	})

	t.Run("owner is optional", func(t *testing.T) {
		checker, v := newValidator()
		out, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "a1", CreatedBy: "creator",
		})
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.Equal(t, 2, checker.calls)
	})

	t.Run("missing area reported alone", func(t *testing.T) {
		_, v := newValidator()
		out, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "a9", CreatedBy: "creator",
		})
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], "area_id")
	})

	t.Run("collects every defect", func(t *testing.T) {
		_, v := newValidator()
		out, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "foreign-area", CreatedBy: "foreign-user", OwnerID: "owner",
		})
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 2, "one call must report every defect, not just the first")

		joined := fmt.Sprint(out.Errors)
		assert.Contains(t, joined, "area_id")
		assert.Contains(t, joined, "created_by")
	})

	t.Run("parent resolves within the area", func(t *testing.T) {
		checker, v := newValidator()
		checker.addInArea("initiatives", "t1", "a1", "parent")
		out, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "a1", CreatedBy: "creator", ParentID: "parent",
		})
		require.NoError(t, err)
		assert.True(t, out.Valid)
	})

	t.Run("parent is optional", func(t *testing.T) {
		checker, v := newValidator()
		out, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "a1", CreatedBy: "creator",
		})
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.Equal(t, 2, checker.calls)
	})

	t.Run("missing parent is a defect", func(t *testing.T) {
		_, v := newValidator()
		out, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "a1", CreatedBy: "creator", ParentID: "ghost",
		})
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], "parent_id")
	})

	t.Run("parent in another area does not resolve", func(t *testing.T) {
		checker, v := newValidator()
		checker.addInArea("initiatives", "t1", "a2", "parent")
		out, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "a1", CreatedBy: "creator", ParentID: "parent",
		})
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], "parent_id")
	})

	t.Run("infrastructure error aborts", func(t *testing.T) {
		checker, v := newValidator()
		checker.failWith = errors.New("connection refused")
		_, err := v.ValidateInitiativeReferences(context.Background(), reference.InitiativeRefs{
			TenantID: "t1", AreaID: "a1", CreatedBy: "creator",
		})
		require.Error(t, err)
	})
}

func TestValidateUserAreaAssignment(t *testing.T) {
	checker := newFakeChecker()
	checker.subjects["t1/active-manager"] = &reference.SubjectState{
		ID: "active-manager", Role: role.RoleManager, TenantID: "t1", AreaID: "a1", IsActive: true,
	}
	checker.subjects["t1/inactive-elsewhere"] = &reference.SubjectState{
		ID: "inactive-elsewhere", Role: role.RoleAnalyst, TenantID: "t1", AreaID: "a2", IsActive: false,
	}
	v := reference.NewValidator(checker)

	t.Run("valid assignment", func(t *testing.T) {
		out, err := v.ValidateUserAreaAssignment(context.Background(), "active-manager", "a1", "t1", role.RoleManager)
		require.NoError(t, err)
		assert.True(t, out.Valid)
	})

	t.Run("not found", func(t *testing.T) {
		out, err := v.ValidateUserAreaAssignment(context.Background(), "ghost", "a1", "t1", "")
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], "not found")
	})

	t.Run("independent failures concatenated", func(t *testing.T) {
		out, err := v.ValidateUserAreaAssignment(context.Background(), "inactive-elsewhere", "a1", "t1", role.RoleManager)
		require.NoError(t, err)
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 3, "inactive, wrong area and wrong role are independent checks")
	})

	t.Run("role check optional", func(t *testing.T) {
		out, err := v.ValidateUserAreaAssignment(context.Background(), "active-manager", "a1", "t1", "")
		require.NoError(t, err)
		assert.True(t, out.Valid)
	})
}
