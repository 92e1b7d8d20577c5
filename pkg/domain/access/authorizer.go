package access

import (
	"fmt"

	"github.com/alignhq/api/pkg/domain/permission"
)

// Operation names with dedicated decision procedures. Any other
// operation name falls back to the role permission table.
const (
	OpCreateInitiative = "createInitiative"
	OpEditInitiative   = "editInitiative"
	OpManageActivities = "manageActivities"
	OpUpdateProgress   = "updateProgress"
)

// areaScopedOps maps the explicitly modeled operations to the
// permission the non-manager path requires.
var areaScopedOps = map[string]permission.Permission{
	OpCreateInitiative: permission.CreateInitiatives,
	OpEditInitiative:   permission.CreateInitiatives,
	OpManageActivities: permission.CreateInitiatives,
	OpUpdateProgress:   permission.UploadData,
}

// Authorize decides whether the subject may perform the named operation,
// optionally against a target area. It is a pure, state-free decision
// procedure: it never panics and never returns a Go error; every outcome
// is a Result.
//
// For the area-scoped operations (createInitiative, editInitiative,
// manageActivities, updateProgress) a manager must have an assigned
// area, and when a target area is given it must equal the manager's
// area. The two failure modes carry distinct messages: "no area
// assigned" and "area mismatch" are different operator-facing
// conditions.
//
// Unknown operation names are denied with a distinct message; they are
// never an implicit allow.
func Authorize(ctx Context, operation string, targetAreaID string) Result {
	if ctx.TenantID == "" {
		return deny(LevelAPI, TagTenantIsolation, "tenant is required for any operation")
	}
	if !ctx.Role.IsValid() {
		return deny(LevelAPI, operation, fmt.Sprintf("unknown role %q", ctx.Role))
	}

	if perm, modeled := areaScopedOps[operation]; modeled {
		return authorizeAreaScoped(ctx, operation, perm, targetAreaID)
	}

	// Fallback: the operation name must match a known permission.
	p, known := permission.ParsePermission(operation)
	if !known {
		return deny(LevelAPI, TagUnknownOperation, fmt.Sprintf("unknown operation %q", operation))
	}
	if !permission.HasPermission(ctx.Role, p) {
		return deny(LevelAPI, operation, fmt.Sprintf("role %s lacks permission %s", ctx.Role, p))
	}
	return allow(LevelAPI, operation)
}

// authorizeAreaScoped applies the manager area constraints, then the
// permission table.
func authorizeAreaScoped(ctx Context, operation string, perm permission.Permission, targetAreaID string) Result {
	if ctx.IsManager() {
		if ctx.AreaID == "" {
			return deny(LevelAPI, TagManagerAreaAssignment,
				"manager has no area assigned")
		}
		if targetAreaID != "" && targetAreaID != ctx.AreaID {
			return deny(LevelAPI, TagCrossAreaAccess,
				"manager's area does not match target area")
		}
	}
	if !permission.HasPermission(ctx.Role, perm) {
		return deny(LevelAPI, operation, fmt.Sprintf("role %s lacks permission %s", ctx.Role, perm))
	}
	return allow(LevelAPI, operation)
}
