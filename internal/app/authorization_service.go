package app

import (
	"github.com/alignhq/api/internal/metrics"
	"github.com/alignhq/api/pkg/domain/access"
	"github.com/alignhq/api/pkg/logger"
)

// AuthorizationService wraps the pure authorization decision procedures
// with logging and metrics. The decisions themselves stay in
// pkg/domain/access; this layer only observes them.
type AuthorizationService struct {
	routes []access.RouteRule
	suite  *access.SuiteRunner
	logger *logger.Logger
}

// NewAuthorizationService creates a new AuthorizationService. A nil
// route table uses the default.
func NewAuthorizationService(routes []access.RouteRule, log *logger.Logger) *AuthorizationService {
	if routes == nil {
		routes = access.DefaultRouteTable()
	}
	return &AuthorizationService{
		routes: routes,
		suite:  access.NewSuiteRunner(routes),
		logger: log.With("service", "authorization"),
	}
}

// Authorize decides an operation for a subject and records the outcome.
func (s *AuthorizationService) Authorize(actx access.Context, operation, targetAreaID string) access.Result {
	result := access.Authorize(actx, operation, targetAreaID)

	outcome := "allow"
	if !result.Valid {
		outcome = "deny"
		metrics.AuthzDenialsTotal.WithLabelValues(result.Permission).Inc()
		s.logger.Warn("operation denied",
			"user_id", actx.UserID,
			"tenant_id", actx.TenantID,
			"operation", operation,
			"target_area_id", targetAreaID,
			"permission", result.Permission,
			"reason", result.Error,
		)
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(operation, outcome).Inc()
	return result
}

// RunSuite executes the four-level validation suite for a subject and
// records the outcome.
func (s *AuthorizationService) RunSuite(actx access.Context) access.Suite {
	suite := s.suite.Run(actx)

	outcome := "pass"
	if !suite.Overall.Valid {
		outcome = "fail"
	}
	metrics.SuiteRunsTotal.WithLabelValues(outcome).Inc()

	for _, r := range suite.Results {
		if r.Valid {
			continue
		}
		severity := "warning"
		if r.IsCritical() {
			severity = "critical"
		}
		metrics.SuiteFailuresTotal.WithLabelValues(string(r.Level), severity).Inc()
		s.logger.Warn("validation check failed",
			"user_id", actx.UserID,
			"tenant_id", actx.TenantID,
			"level", r.Level,
			"permission", r.Permission,
			"severity", severity,
			"reason", r.Error,
		)
	}
	return suite
}

// CheckRoute evaluates the route-protection table for a path and role.
func (s *AuthorizationService) CheckRoute(actx access.Context, path string) access.Result {
	return access.CheckRoute(s.routes, path, actx.Role)
}
