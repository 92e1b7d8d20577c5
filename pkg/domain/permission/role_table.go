package permission

import "github.com/alignhq/api/pkg/domain/role"

// roleTable is the canonical role-to-permission table.
//
// Every role carries an explicit boolean for every known permission; a
// missing entry is a configuration defect, not an implicit false. The
// table is intentionally flat: no role inherits from another, and rank
// (role.Priority) plays no part in permission resolution.
//
// Policy notes:
//   - Managers do not hold accessAnalytics. Analytics aggregates data
//     across areas and managers are area-scoped; this is a documented
//     business rule, not an oversight.
//   - Analysts are a read/analyze role: no user management, no
//     initiative creation, no uploads.
var roleTable = map[role.Role]map[Permission]bool{
	role.RoleOwner: {
		ViewDashboards:    true,
		ManageUsers:       true,
		CreateInitiatives: true,
		AccessAnalytics:   true,
		ExportData:        true,
		UploadData:        true,
	},
	role.RoleAdmin: {
		ViewDashboards:    true,
		ManageUsers:       true,
		CreateInitiatives: true,
		AccessAnalytics:   true,
		ExportData:        true,
		UploadData:        true,
	},
	role.RoleAnalyst: {
		ViewDashboards:    true,
		ManageUsers:       false,
		CreateInitiatives: false,
		AccessAnalytics:   true,
		ExportData:        true,
		UploadData:        false,
	},
	role.RoleManager: {
		ViewDashboards:    true,
		ManageUsers:       false,
		CreateInitiatives: true,
		AccessAnalytics:   false,
		ExportData:        false,
		UploadData:        true,
	},
}

// HasPermission reports whether the role holds the permission. Unknown
// roles and unknown permission names resolve to false (fail closed); the
// lookup never panics.
func HasPermission(r role.Role, p Permission) bool {
	perms, ok := roleTable[r]
	if !ok {
		return false
	}
	return perms[p]
}

// PermissionsForRole returns the permissions granted to a role, in
// AllPermissions order. Returns an empty slice for unknown roles.
func PermissionsForRole(r role.Role) []Permission {
	perms, ok := roleTable[r]
	if !ok {
		return []Permission{}
	}
	granted := make([]Permission, 0, len(perms))
	for _, p := range AllPermissions() {
		if perms[p] {
			granted = append(granted, p)
		}
	}
	return granted
}

// TableIsTotal verifies the invariant that every role has an explicit
// entry for every known permission. Called from tests and at service
// start.
func TableIsTotal() bool {
	for _, r := range role.AllRoles {
		perms, ok := roleTable[r]
		if !ok {
			return false
		}
		for _, p := range AllPermissions() {
			if _, ok := perms[p]; !ok {
				return false
			}
		}
	}
	return true
}
