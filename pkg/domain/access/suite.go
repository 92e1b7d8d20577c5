package access

import (
	"fmt"

	"github.com/alignhq/api/pkg/domain/permission"
	"github.com/alignhq/api/pkg/domain/scope"
)

// Summary aggregates a suite run.
type Summary struct {
	Valid            bool `json:"isValid"`
	FailedChecks     int  `json:"failedChecks"`
	TotalChecks      int  `json:"totalChecks"`
	CriticalFailures int  `json:"criticalFailures"`
}

// Suite is the ordered aggregation of results across the four check
// levels plus the computed overall summary.
type Suite struct {
	Results []Result `json:"results"`
	Overall Summary  `json:"overall"`
}

// FailuresAt returns the failed results for a level.
func (s *Suite) FailuresAt(level Level) []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Level == level && !r.Valid {
			out = append(out, r)
		}
	}
	return out
}

// SuiteRunner runs the four-level validation suite against a request
// context. It is stateless apart from its static route table and safe
// for concurrent use.
type SuiteRunner struct {
	routes []RouteRule
}

// NewSuiteRunner creates a SuiteRunner with the given route table. A nil
// table uses DefaultRouteTable.
func NewSuiteRunner(routes []RouteRule) *SuiteRunner {
	if routes == nil {
		routes = DefaultRouteTable()
	}
	return &SuiteRunner{routes: routes}
}

// Run executes the UI, API, Database and Route check groups for the
// context and aggregates the results. Running the suite twice with an
// unchanged context yields an identical summary.
func (sr *SuiteRunner) Run(ctx Context) Suite {
	var results []Result
	results = append(results, uiChecks(ctx)...)
	results = append(results, apiChecks(ctx)...)
	results = append(results, databaseChecks(ctx)...)
	results = append(results, sr.routeChecks(ctx)...)

	summary := Summary{TotalChecks: len(results)}
	for _, r := range results {
		if !r.Valid {
			summary.FailedChecks++
			if IsCriticalTag(r.Permission) {
				summary.CriticalFailures++
			}
		}
	}
	summary.Valid = summary.FailedChecks == 0

	return Suite{Results: results, Overall: summary}
}

// uiChecks validates the permission gates the UI relies on.
func uiChecks(ctx Context) []Result {
	var results []Result

	if permission.HasPermission(ctx.Role, permission.ViewDashboards) {
		results = append(results, allow(LevelUI, string(permission.ViewDashboards)))
	} else {
		results = append(results, deny(LevelUI, string(permission.ViewDashboards),
			fmt.Sprintf("role %s cannot view dashboards", ctx.Role)))
	}

	if ctx.IsManager() {
		if ctx.AreaID != "" {
			results = append(results, allow(LevelUI, TagManagerAreaAssignment))
		} else {
			results = append(results, deny(LevelUI, TagManagerAreaAssignment,
				"manager has no area assigned; manager UI requires an area"))
		}

		if permission.HasPermission(ctx.Role, permission.UploadData) {
			results = append(results, allow(LevelUI, string(permission.UploadData)))
		} else {
			results = append(results, deny(LevelUI, string(permission.UploadData),
				"manager role must hold upload capability"))
		}

		// Managers must not hold analytics access. This is a documented
		// business rule: analytics aggregates across areas, while
		// manager access is area-scoped.
		if permission.HasPermission(ctx.Role, permission.AccessAnalytics) {
			results = append(results, deny(LevelUI, TagAnalyticsExclusion,
				"manager role must not hold analytics access"))
		} else {
			results = append(results, allow(LevelUI, TagAnalyticsExclusion))
		}
	}

	return results
}

// apiChecks validates the preconditions the API boundary enforces.
func apiChecks(ctx Context) []Result {
	var results []Result

	if ctx.TenantID != "" {
		results = append(results, allow(LevelAPI, TagTenantIsolation))
	} else {
		results = append(results, deny(LevelAPI, TagTenantIsolation,
			"request context carries no tenant"))
	}

	if ctx.IsManager() {
		if ctx.AreaID != "" {
			results = append(results, allow(LevelAPI, TagManagerAreaAssignment))
		} else {
			results = append(results, deny(LevelAPI, TagManagerAreaAssignment,
				"manager has no area assigned"))
		}

		// Endpoint eligibility: the upload and initiative-creation
		// endpoints must be open to managers per the permission table.
		results = append(results, Authorize(ctx, OpCreateInitiative, ctx.AreaID))
		results = append(results, Authorize(ctx, OpUpdateProgress, ctx.AreaID))

		// Analytics exclusion mirrored at the API boundary.
		if permission.HasPermission(ctx.Role, permission.AccessAnalytics) {
			results = append(results, deny(LevelAPI, TagAnalyticsExclusion,
				"analytics endpoints must reject manager role"))
		} else {
			results = append(results, allow(LevelAPI, TagAnalyticsExclusion))
		}
	}

	return results
}

// syntheticOtherArea is an area id guaranteed to differ from any real
// assignment; used to probe cross-area access prevention.
const syntheticOtherArea = "00000000-0000-0000-0000-00000000beef"

// databaseChecks re-derives the data scope and asserts the isolation
// invariants the storage filters depend on.
func databaseChecks(ctx Context) []Result {
	var results []Result

	sc := scope.Resolve(ctx.Role, ctx.TenantID, ctx.AreaID)

	if !ctx.IsManager() {
		if sc == nil {
			results = append(results, deny(LevelDatabase, TagTenantIsolation,
				"no data scope could be derived"))
			return results
		}
		if sc.CanViewAllAreas && sc.Filters()[scope.FilterAreaID] == "" {
			results = append(results, allow(LevelDatabase, TagTenantIsolation))
		} else {
			results = append(results, deny(LevelDatabase, TagTenantIsolation,
				"tenant-wide role derived an area-restricted scope"))
		}
		return results
	}

	// A manager without an area fails the entire database group: no
	// scope means no data access at all.
	if sc == nil {
		results = append(results,
			deny(LevelDatabase, TagManagerAreaAssignment,
				"manager without area assignment cannot access any data"),
			deny(LevelDatabase, TagAreaIsolation,
				"no scope derived; area isolation cannot be established"),
			deny(LevelDatabase, TagCrossAreaAccess,
				"no scope derived; cross-area prevention cannot be established"),
		)
		return results
	}

	if sc.AreaID == ctx.AreaID && !sc.CanViewAllAreas {
		results = append(results, allow(LevelDatabase, TagAreaIsolation))
	} else {
		results = append(results, deny(LevelDatabase, TagAreaIsolation,
			fmt.Sprintf("manager scope area %q does not match assignment %q", sc.AreaID, ctx.AreaID)))
	}

	otherArea := syntheticOtherArea
	if ctx.AreaID == otherArea {
		otherArea = syntheticOtherArea + "2"
	}
	if !sc.CoversArea(otherArea) {
		results = append(results, allow(LevelDatabase, TagCrossAreaAccess))
	} else {
		results = append(results, deny(LevelDatabase, TagCrossAreaAccess,
			"manager scope covers an unrelated area"))
	}

	return results
}

// routeChecks applies the route table when the context carries a
// request path.
func (sr *SuiteRunner) routeChecks(ctx Context) []Result {
	if ctx.RequestPath == "" {
		return nil
	}
	return []Result{CheckRoute(sr.routes, ctx.RequestPath, ctx.Role)}
}
