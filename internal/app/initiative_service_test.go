package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/pkg/domain/access"
	"github.com/alignhq/api/pkg/domain/initiative"
	"github.com/alignhq/api/pkg/domain/reference"
	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/domain/shared"
	"github.com/alignhq/api/pkg/logger"
)

// fakeInitiativeRepo is an in-memory initiative.Repository.
type fakeInitiativeRepo struct {
	mu          sync.Mutex
	items       map[string]*initiative.Initiative
	lastFilters map[string]string
	failWith    error
}

func newFakeInitiativeRepo() *fakeInitiativeRepo {
	return &fakeInitiativeRepo{items: make(map[string]*initiative.Initiative)}
}

func (f *fakeInitiativeRepo) Create(_ context.Context, i *initiative.Initiative) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.items[i.ID().String()] = i
	return nil
}

func (f *fakeInitiativeRepo) GetByID(_ context.Context, tenantID, id shared.ID) (*initiative.Initiative, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	i, ok := f.items[id.String()]
	if !ok || !i.TenantID().Equals(tenantID) {
		return nil, shared.NotFoundf("initiative")
	}
	return i, nil
}

func (f *fakeInitiativeRepo) Update(_ context.Context, i *initiative.Initiative) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[i.ID().String()] = i
	return nil
}

func (f *fakeInitiativeRepo) Delete(_ context.Context, _, id shared.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id.String())
	return nil
}

func (f *fakeInitiativeRepo) ListScoped(_ context.Context, filters map[string]string) ([]*initiative.Initiative, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilters = filters
	var out []*initiative.Initiative
	for _, i := range f.items {
		if i.TenantID().String() != filters["tenant_id"] {
			continue
		}
		if area, ok := filters["area_id"]; ok && i.AreaID().String() != area {
			continue
		}
		out = append(out, i)
	}
	return out, nil
}

// allowAllChecker resolves every reference.
type allowAllChecker struct{}

func (allowAllChecker) Exists(context.Context, reference.ExistsQuery) (bool, error) {
	return true, nil
}

func (allowAllChecker) SubjectByID(context.Context, string, string) (*reference.SubjectState, error) {
	return &reference.SubjectState{IsActive: true}, nil
}

// denyChecker reports every reference as missing.
type denyChecker struct{}

func (denyChecker) Exists(context.Context, reference.ExistsQuery) (bool, error) {
	return false, nil
}

func (denyChecker) SubjectByID(context.Context, string, string) (*reference.SubjectState, error) {
	return nil, nil
}

// noParentChecker resolves every reference except initiatives.
type noParentChecker struct{}

func (noParentChecker) Exists(_ context.Context, q reference.ExistsQuery) (bool, error) {
	return q.Table != "initiatives", nil
}

func (noParentChecker) SubjectByID(context.Context, string, string) (*reference.SubjectState, error) {
	return &reference.SubjectState{IsActive: true}, nil
}

// downChecker simulates an unreachable store.
type downChecker struct{}

func (downChecker) Exists(context.Context, reference.ExistsQuery) (bool, error) {
	return false, errors.New("connection refused")
}

func (downChecker) SubjectByID(context.Context, string, string) (*reference.SubjectState, error) {
	return nil, errors.New("connection refused")
}

func newInitiativeService(repo initiative.Repository, checker reference.Checker) *app.InitiativeService {
	log := logger.NewNop()
	authz := app.NewAuthorizationService(nil, log)
	return app.NewInitiativeService(repo, reference.NewValidator(checker), authz, log)
}

var (
	testTenant = shared.NewID()
	testArea   = shared.NewID()
	otherArea  = shared.NewID()
	testUser   = shared.NewID()
)

func managerCtx(areaID string) access.Context {
	return access.Context{
		UserID:   testUser.String(),
		Role:     role.RoleManager,
		TenantID: testTenant.String(),
		AreaID:   areaID,
	}
}

func TestInitiativeService_Create(t *testing.T) {
	t.Run("manager creates in own area", func(t *testing.T) {
		repo := newFakeInitiativeRepo()
		svc := newInitiativeService(repo, allowAllChecker{})

		init, err := svc.Create(context.Background(), managerCtx(testArea.String()), app.CreateInitiativeInput{
			AreaID: testArea.String(),
			Title:  "Quarterly goals",
		})
		require.NoError(t, err)
		assert.Equal(t, testTenant.String(), init.TenantID().String())
		assert.Equal(t, testArea.String(), init.AreaID().String())
		assert.Len(t, repo.items, 1)
	})

	t.Run("manager denied for foreign area", func(t *testing.T) {
		repo := newFakeInitiativeRepo()
		svc := newInitiativeService(repo, allowAllChecker{})

		_, err := svc.Create(context.Background(), managerCtx(testArea.String()), app.CreateInitiativeInput{
			AreaID: otherArea.String(),
			Title:  "Quarterly goals",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Empty(t, repo.items, "a denied write must not reach storage")
	})

	t.Run("unassigned manager denied", func(t *testing.T) {
		svc := newInitiativeService(newFakeInitiativeRepo(), allowAllChecker{})

		_, err := svc.Create(context.Background(), managerCtx(""), app.CreateInitiativeInput{
			AreaID: testArea.String(),
			Title:  "Quarterly goals",
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("unresolved references rejected", func(t *testing.T) {
		repo := newFakeInitiativeRepo()
		svc := newInitiativeService(repo, denyChecker{})

		_, err := svc.Create(context.Background(), managerCtx(testArea.String()), app.CreateInitiativeInput{
			AreaID: testArea.String(),
			Title:  "Quarterly goals",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, repo.items)
	})

	t.Run("storage outage is not a denial", func(t *testing.T) {
		svc := newInitiativeService(newFakeInitiativeRepo(), downChecker{})

		_, err := svc.Create(context.Background(), managerCtx(testArea.String()), app.CreateInitiativeInput{
			AreaID: testArea.String(),
			Title:  "Quarterly goals",
		})
		require.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrForbidden)
		assert.NotErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("parent is linked on create", func(t *testing.T) {
		repo := newFakeInitiativeRepo()
		svc := newInitiativeService(repo, allowAllChecker{})
		parentID := shared.NewID()

		init, err := svc.Create(context.Background(), managerCtx(testArea.String()), app.CreateInitiativeInput{
			AreaID:   testArea.String(),
			Title:    "Key result",
			ParentID: parentID.String(),
		})
		require.NoError(t, err)
		require.NotNil(t, init.ParentID())
		assert.Equal(t, parentID, *init.ParentID())
	})

	t.Run("unresolved parent rejected", func(t *testing.T) {
		repo := newFakeInitiativeRepo()
		svc := newInitiativeService(repo, noParentChecker{})

		_, err := svc.Create(context.Background(), managerCtx(testArea.String()), app.CreateInitiativeInput{
			AreaID:   testArea.String(),
			Title:    "Key result",
			ParentID: shared.NewID().String(),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Contains(t, err.Error(), "parent_id")
		assert.Empty(t, repo.items)
	})
}

func TestInitiativeService_List(t *testing.T) {
	repo := newFakeInitiativeRepo()
	svc := newInitiativeService(repo, allowAllChecker{})

	seed := func(areaID shared.ID) {
		init, err := initiative.NewInitiative(testTenant, areaID, "seeded", testUser)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), init))
	}
	seed(testArea)
	seed(otherArea)

	t.Run("admin sees the whole tenant", func(t *testing.T) {
		actx := access.Context{UserID: "u", Role: role.RoleAdmin, TenantID: testTenant.String()}
		items, err := svc.List(context.Background(), actx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.NotContains(t, repo.lastFilters, "area_id")
	})

	t.Run("manager sees only own area", func(t *testing.T) {
		items, err := svc.List(context.Background(), managerCtx(testArea.String()))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, testArea.String(), items[0].AreaID().String())
		assert.Equal(t, testArea.String(), repo.lastFilters["area_id"])
	})

	t.Run("unassigned manager has no scope", func(t *testing.T) {
		_, err := svc.List(context.Background(), managerCtx(""))
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestInitiativeService_Get(t *testing.T) {
	repo := newFakeInitiativeRepo()
	svc := newInitiativeService(repo, allowAllChecker{})

	init, err := initiative.NewInitiative(testTenant, otherArea, "foreign", testUser)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), init))

	t.Run("outside scope reads as not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), managerCtx(testArea.String()), init.ID().String())
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err),
			"a manager must not learn that records exist outside their area")
	})

	t.Run("admin reads any area", func(t *testing.T) {
		actx := access.Context{UserID: "u", Role: role.RoleAdmin, TenantID: testTenant.String()}
		got, err := svc.Get(context.Background(), actx, init.ID().String())
		require.NoError(t, err)
		assert.Equal(t, init.ID(), got.ID())
	})
}

func TestInitiativeService_UpdateProgress(t *testing.T) {
	repo := newFakeInitiativeRepo()
	svc := newInitiativeService(repo, allowAllChecker{})

	init, err := initiative.NewInitiative(testTenant, testArea, "tracked", testUser)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), init))

	t.Run("manager updates own area", func(t *testing.T) {
		got, err := svc.UpdateProgress(context.Background(), managerCtx(testArea.String()), init.ID().String(), 40)
		require.NoError(t, err)
		assert.Equal(t, 40, got.Progress())
	})

	t.Run("out of range rejected", func(t *testing.T) {
		_, err := svc.UpdateProgress(context.Background(), managerCtx(testArea.String()), init.ID().String(), 101)
		assert.Error(t, err)
	})
}

func TestInitiativeService_Update(t *testing.T) {
	seed := func(t *testing.T, repo *fakeInitiativeRepo) *initiative.Initiative {
		t.Helper()
		init, err := initiative.NewInitiative(testTenant, testArea, "child", testUser)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), init))
		return init
	}

	t.Run("reparent with a resolving reference", func(t *testing.T) {
		repo := newFakeInitiativeRepo()
		svc := newInitiativeService(repo, allowAllChecker{})
		init := seed(t, repo)
		parentID := shared.NewID().String()

		got, err := svc.Update(context.Background(), managerCtx(testArea.String()), init.ID().String(), app.UpdateInitiativeInput{
			ParentID: &parentID,
		})
		require.NoError(t, err)
		require.NotNil(t, got.ParentID())
		assert.Equal(t, parentID, got.ParentID().String())
	})

	t.Run("reparent to an unresolved initiative rejected", func(t *testing.T) {
		repo := newFakeInitiativeRepo()
		svc := newInitiativeService(repo, noParentChecker{})
		init := seed(t, repo)
		parentID := shared.NewID().String()

		_, err := svc.Update(context.Background(), managerCtx(testArea.String()), init.ID().String(), app.UpdateInitiativeInput{
			ParentID: &parentID,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
