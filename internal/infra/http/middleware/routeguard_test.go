package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/internal/infra/http/middleware"
	"github.com/alignhq/api/pkg/domain/access"
	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/logger"
)

func guardedHandler(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewNop()
	authz := app.NewAuthorizationService(nil, log)
	guard := middleware.RouteGuard(authz, log)
	return guard(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func accessContextFor(r role.Role, path string) access.Context {
	return access.Context{
		UserID:      "user-1",
		Role:        r,
		TenantID:    "tenant-1",
		AreaID:      "area-1",
		RequestPath: path,
	}
}

func requestAs(t *testing.T, r role.Role, path string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	actx := accessContextFor(r, path)
	return req.WithContext(context.WithValue(req.Context(), middleware.AccessContextKey, actx))
}

func TestRouteGuard(t *testing.T) {
	t.Run("missing access context is unauthorized", func(t *testing.T) {
		handler := guardedHandler(t)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/initiatives", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("manager is denied analytics routes", func(t *testing.T) {
		handler := guardedHandler(t)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, requestAs(t, role.RoleManager, "/analytics/summary"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("analyst is denied manager routes", func(t *testing.T) {
		handler := guardedHandler(t)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, requestAs(t, role.RoleAnalyst, "/manager/overview"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes admin routes", func(t *testing.T) {
		handler := guardedHandler(t)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, requestAs(t, role.RoleAdmin, "/admin/audit/isolation"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("manager is denied admin routes", func(t *testing.T) {
		handler := guardedHandler(t)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, requestAs(t, role.RoleManager, "/admin/audit/isolation"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unlisted routes pass any role", func(t *testing.T) {
		handler := guardedHandler(t)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, requestAs(t, role.RoleAnalyst, "/initiatives"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// The guard and the suite's route group read the same path from the
// access context, so a protected route denied at the guard must also
// show up as a route-level suite failure.
func TestRouteGuard_AgreesWithSuite(t *testing.T) {
	log := logger.NewNop()
	authz := app.NewAuthorizationService(nil, log)
	handler := guardedHandler(t)

	cases := []struct {
		name string
		role role.Role
		path string
		deny bool
	}{
		{name: "manager on analytics", role: role.RoleManager, path: "/analytics/summary", deny: true},
		{name: "manager on manager surface", role: role.RoleManager, path: "/manager/overview", deny: false},
		{name: "analyst on manager surface", role: role.RoleAnalyst, path: "/manager/overview", deny: true},
		{name: "admin on admin surface", role: role.RoleAdmin, path: "/admin/audit", deny: false},
		{name: "analyst on unlisted path", role: role.RoleAnalyst, path: "/initiatives", deny: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestAs(t, tc.role, tc.path))

			suite := authz.RunSuite(accessContextFor(tc.role, tc.path))
			routeFailures := suite.FailuresAt(access.LevelRoute)

			if tc.deny {
				require.Equal(t, http.StatusForbidden, rec.Code)
				assert.NotEmpty(t, routeFailures)
			} else {
				require.Equal(t, http.StatusOK, rec.Code)
				assert.Empty(t, routeFailures)
			}
		})
	}
}
