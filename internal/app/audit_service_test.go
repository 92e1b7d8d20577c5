package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/pkg/domain/area"
	"github.com/alignhq/api/pkg/domain/initiative"
	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/domain/shared"
	"github.com/alignhq/api/pkg/domain/tenant"
	"github.com/alignhq/api/pkg/domain/user"
	"github.com/alignhq/api/pkg/logger"
)

type fakeTenantRepo struct {
	tenants  []*tenant.Tenant
	failWith error
}

func (f *fakeTenantRepo) Create(context.Context, *tenant.Tenant) error { return nil }

func (f *fakeTenantRepo) GetByID(context.Context, shared.ID) (*tenant.Tenant, error) {
	return nil, shared.NotFoundf("tenant")
}

func (f *fakeTenantRepo) GetBySlug(context.Context, string) (*tenant.Tenant, error) {
	return nil, shared.NotFoundf("tenant")
}

func (f *fakeTenantRepo) ListActive(context.Context) ([]*tenant.Tenant, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.tenants, nil
}

type fakeAreaRepo struct {
	areas []*area.Area
}

func (f *fakeAreaRepo) Create(context.Context, *area.Area) error { return nil }

func (f *fakeAreaRepo) GetByID(context.Context, shared.ID, shared.ID) (*area.Area, error) {
	return nil, shared.NotFoundf("area")
}

func (f *fakeAreaRepo) ListByTenant(_ context.Context, tenantID shared.ID) ([]*area.Area, error) {
	var out []*area.Area
	for _, a := range f.areas {
		if a.TenantID().Equals(tenantID) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users []*user.User
}

func (f *fakeUserRepo) Create(context.Context, *user.User) error { return nil }
func (f *fakeUserRepo) Update(context.Context, *user.User) error { return nil }

func (f *fakeUserRepo) GetByID(context.Context, shared.ID, shared.ID) (*user.User, error) {
	return nil, shared.NotFoundf("user")
}

func (f *fakeUserRepo) GetByEmail(context.Context, shared.ID, string) (*user.User, error) {
	return nil, shared.NotFoundf("user")
}

func (f *fakeUserRepo) ListByTenant(_ context.Context, tenantID shared.ID) ([]*user.User, error) {
	var out []*user.User
	for _, u := range f.users {
		if u.TenantID().Equals(tenantID) {
			out = append(out, u)
		}
	}
	return out, nil
}

// leakyInitiativeRepo ignores the area_id filter, imitating a query
// that forgot its area predicate.
type leakyInitiativeRepo struct {
	*fakeInitiativeRepo
}

func (l *leakyInitiativeRepo) ListScoped(ctx context.Context, filters map[string]string) ([]*initiative.Initiative, error) {
	stripped := make(map[string]string, len(filters))
	for k, v := range filters {
		if k == "area_id" {
			continue
		}
		stripped[k] = v
	}
	return l.fakeInitiativeRepo.ListScoped(ctx, stripped)
}

// auditFixture is a two-tenant world with one manager per area and one
// initiative per area.
type auditFixture struct {
	tenants     *fakeTenantRepo
	areas       *fakeAreaRepo
	users       *fakeUserRepo
	initiatives *fakeInitiativeRepo
}

func newAuditFixture(t *testing.T) *auditFixture {
	t.Helper()
	now := time.Now()
	fx := &auditFixture{
		tenants:     &fakeTenantRepo{},
		areas:       &fakeAreaRepo{},
		users:       &fakeUserRepo{},
		initiatives: newFakeInitiativeRepo(),
	}
	for _, name := range []string{"northwind", "fabrikam"} {
		tenantID := shared.NewID()
		fx.tenants.tenants = append(fx.tenants.tenants,
			tenant.Reconstitute(tenantID, name, name, true, now, now))
		for _, areaName := range []string{"engineering", "sales"} {
			areaID := shared.NewID()
			fx.areas.areas = append(fx.areas.areas,
				area.Reconstitute(areaID, tenantID, areaName, now, now))
			managerID := shared.NewID()
			fx.users.users = append(fx.users.users, user.Reconstitute(
				managerID, tenantID,
				areaName+"@"+name+".test", areaName+" manager",
				role.RoleManager, &areaID,
				"x", true, now, now,
			))
			fx.initiatives.items[areaID.String()] = initiative.Reconstitute(
				shared.NewID(), tenantID, areaID,
				areaName+" roadmap", "",
				initiative.StatusActive, 0,
				managerID, nil, nil,
				now, now,
			)
		}
	}
	return fx
}

func (fx *auditFixture) service(t *testing.T, initiatives initiative.Repository) *app.AuditService {
	t.Helper()
	log := logger.NewNop()
	return app.NewAuditService(fx.tenants, fx.areas, fx.users, initiatives,
		app.NewAuthorizationService(nil, log), log)
}

func countFailed(report *app.AuditReport, name string) int {
	n := 0
	for _, c := range report.Checks {
		if c.Name == name && !c.Passed {
			n++
		}
	}
	return n
}

func TestAuditService_Run(t *testing.T) {
	t.Run("clean data passes every check", func(t *testing.T) {
		fx := newAuditFixture(t)
		svc := fx.service(t, fx.initiatives)

		report, err := svc.Run(context.Background())
		require.NoError(t, err)

		assert.True(t, report.Passed)
		assert.Zero(t, report.FailedChecks)
		assert.Zero(t, report.CriticalFailures)
		assert.Equal(t, len(report.Checks), report.TotalChecks)

		// 2 tenants x (1 cross-tenant + 2 managers x (isolation + home
		// allow + 1 foreign-area deny)).
		assert.Equal(t, 14, report.TotalChecks)
	})

	t.Run("area filter loss is a critical isolation failure", func(t *testing.T) {
		fx := newAuditFixture(t)
		svc := fx.service(t, &leakyInitiativeRepo{fx.initiatives})

		report, err := svc.Run(context.Background())
		require.NoError(t, err)

		assert.False(t, report.Passed)
		// Each of the 4 managers sees the sibling area's record.
		assert.Equal(t, 4, countFailed(report, "crossAreaIsolation"))
		assert.Equal(t, 4, report.CriticalFailures)
		// Tenant scope never carried an area filter, so it is unaffected.
		assert.Zero(t, countFailed(report, "crossTenantIsolation"))
	})

	t.Run("unassigned manager fails its scope check", func(t *testing.T) {
		fx := newAuditFixture(t)
		tenantID := fx.tenants.tenants[0].ID()
		now := time.Now()
		fx.users.users = append(fx.users.users, user.Reconstitute(
			shared.NewID(), tenantID,
			"floating@northwind.test", "floating manager",
			role.RoleManager, nil,
			"x", true, now, now,
		))
		svc := fx.service(t, fx.initiatives)

		report, err := svc.Run(context.Background())
		require.NoError(t, err)

		assert.False(t, report.Passed)
		assert.Equal(t, 1, countFailed(report, "managerAreaAssignment"))
		assert.Equal(t, 1, report.CriticalFailures)
	})

	t.Run("non-manager users add no checks", func(t *testing.T) {
		fx := newAuditFixture(t)
		before := len(fx.users.users)
		now := time.Now()
		fx.users.users = append(fx.users.users, user.Reconstitute(
			shared.NewID(), fx.tenants.tenants[0].ID(),
			"admin@northwind.test", "admin",
			role.RoleAdmin, nil,
			"x", true, now, now,
		))
		require.Len(t, fx.users.users, before+1)
		svc := fx.service(t, fx.initiatives)

		report, err := svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 14, report.TotalChecks)
	})

	t.Run("tenant listing failure aborts the run", func(t *testing.T) {
		fx := newAuditFixture(t)
		fx.tenants.failWith = errors.New("connection refused")
		svc := fx.service(t, fx.initiatives)

		report, err := svc.Run(context.Background())
		require.Error(t, err)
		assert.Nil(t, report)
	})
}

func TestAuditService_RunWithMatrix(t *testing.T) {
	t.Run("met expectations pass", func(t *testing.T) {
		fx := newAuditFixture(t)
		svc := fx.service(t, fx.initiatives)
		tenantID := fx.tenants.tenants[0].ID().String()
		areaID := fx.areas.areas[0].ID().String()
		otherAreaID := fx.areas.areas[1].ID().String()

		matrix := []app.AuthzExpectation{
			{
				Name:         "managerOwnArea",
				Role:         role.RoleManager,
				TenantID:     tenantID,
				AreaID:       areaID,
				Operation:    "createInitiative",
				TargetAreaID: areaID,
				ExpectAllow:  true,
			},
			{
				Name:         "managerForeignArea",
				Role:         role.RoleManager,
				TenantID:     tenantID,
				AreaID:       areaID,
				Operation:    "createInitiative",
				TargetAreaID: otherAreaID,
				ExpectAllow:  false,
			},
		}

		report, err := svc.RunWithMatrix(context.Background(), matrix)
		require.NoError(t, err)
		assert.True(t, report.Passed)
		assert.Equal(t, 16, report.TotalChecks)
	})

	t.Run("unexpected allow escalates to critical", func(t *testing.T) {
		fx := newAuditFixture(t)
		svc := fx.service(t, fx.initiatives)
		tenantID := fx.tenants.tenants[0].ID().String()
		areaID := fx.areas.areas[0].ID().String()

		matrix := []app.AuthzExpectation{{
			Name:         "adminShouldSomehowBeDenied",
			Role:         role.RoleAdmin,
			TenantID:     tenantID,
			Operation:    "createInitiative",
			TargetAreaID: areaID,
			ExpectAllow:  false,
		}}

		report, err := svc.RunWithMatrix(context.Background(), matrix)
		require.NoError(t, err)

		assert.False(t, report.Passed)
		assert.Equal(t, 1, report.CriticalFailures)
		failed := report.Checks[len(report.Checks)-1]
		assert.Equal(t, "adminShouldSomehowBeDenied", failed.Name)
		assert.False(t, failed.Passed)
		assert.Equal(t, app.SeverityCritical, failed.Severity)
	})

	t.Run("unexpected deny stays a warning", func(t *testing.T) {
		fx := newAuditFixture(t)
		svc := fx.service(t, fx.initiatives)
		tenantID := fx.tenants.tenants[0].ID().String()
		areaID := fx.areas.areas[0].ID().String()

		matrix := []app.AuthzExpectation{{
			Role:         role.RoleAnalyst,
			TenantID:     tenantID,
			Operation:    "createInitiative",
			TargetAreaID: areaID,
			ExpectAllow:  true,
		}}

		report, err := svc.RunWithMatrix(context.Background(), matrix)
		require.NoError(t, err)

		assert.False(t, report.Passed)
		assert.Zero(t, report.CriticalFailures)
		failed := report.Checks[len(report.Checks)-1]
		assert.Equal(t, "authzExpectation", failed.Name)
		assert.Equal(t, app.SeverityWarning, failed.Severity)
	})
}
