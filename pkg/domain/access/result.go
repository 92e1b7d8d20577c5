package access

import "strings"

// Level identifies which validation layer produced a result.
type Level string

const (
	LevelUI       Level = "ui"
	LevelAPI      Level = "api"
	LevelDatabase Level = "database"
	LevelRoute    Level = "route"
)

// Permission tags attached to results. Tags matching a critical pattern
// (see IsCriticalTag) mark checks whose failure implies actual data
// leakage across tenants or areas, as opposed to a feature gap.
const (
	TagTenantIsolation       = "tenantIsolation"
	TagAreaIsolation         = "areaIsolation"
	TagManagerAreaAssignment = "managerAreaAssignment"
	TagCrossAreaAccess       = "crossAreaAccess"
	TagAnalyticsExclusion    = "analyticsExclusion"
	TagUnknownOperation      = "unknownOperation"
)

// criticalTagPatterns are the substrings that classify a failed check as
// critical. Downstream callers block the request on any critical
// failure while treating other failures as warnings, so this convention
// must stay stable.
var criticalTagPatterns = []string{"tenant", "area", "managerArea", "crossArea"}

// IsCriticalTag reports whether a permission tag marks an isolation
// check.
func IsCriticalTag(tag string) bool {
	for _, p := range criticalTagPatterns {
		if strings.Contains(tag, p) {
			return true
		}
	}
	return false
}

// Result is a single validation outcome. Immutable once produced.
type Result struct {
	Valid bool `json:"isValid"`

	// Error is the operator-facing diagnostic message, present only on
	// failure. It is for server-side logging and audit; the transport
	// boundary returns a generic message to the denied subject.
	Error string `json:"error,omitempty"`

	Level Level `json:"level"`

	// Permission tags the check for severity classification and
	// metrics.
	Permission string `json:"permission,omitempty"`
}

// IsCritical reports whether this result, if failed, indicates an
// isolation leak.
func (r Result) IsCritical() bool {
	return !r.Valid && IsCriticalTag(r.Permission)
}

// allow builds a passing result.
func allow(level Level, tag string) Result {
	return Result{Valid: true, Level: level, Permission: tag}
}

// deny builds a failing result with a diagnostic message.
func deny(level Level, tag, msg string) Result {
	return Result{Valid: false, Level: level, Permission: tag, Error: msg}
}
