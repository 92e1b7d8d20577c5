// Package permission defines the named permissions of the platform and
// the static role-to-permission table.
//
// Permissions are feature capabilities checked by the UI, the API layer
// and the operation authorizer. The table is static configuration loaded
// once at process start; there is no runtime mutation.
package permission

import "slices"

// Permission represents a named capability.
type Permission string

const (
	// ViewDashboards grants access to the dashboard screens.
	ViewDashboards Permission = "viewDashboards"

	// ManageUsers grants member management (invite, deactivate, role
	// changes).
	ManageUsers Permission = "manageUsers"

	// CreateInitiatives grants creation of initiatives. For managers
	// this is always constrained to their assigned area by the
	// operation authorizer.
	CreateInitiatives Permission = "createInitiatives"

	// AccessAnalytics grants the analytics views. Managers deliberately
	// do not hold this: analytics aggregates across areas, and manager
	// access is area-scoped by policy.
	AccessAnalytics Permission = "accessAnalytics"

	// ExportData grants bulk data export.
	ExportData Permission = "exportData"

	// UploadData grants spreadsheet/progress uploads.
	UploadData Permission = "uploadData"
)

// AllPermissions returns every defined permission.
func AllPermissions() []Permission {
	return []Permission{
		ViewDashboards,
		ManageUsers,
		CreateInitiatives,
		AccessAnalytics,
		ExportData,
		UploadData,
	}
}

// String returns the string representation of the permission.
func (p Permission) String() string {
	return string(p)
}

// IsValid checks if the permission is a known permission.
func (p Permission) IsValid() bool {
	return slices.Contains(AllPermissions(), p)
}

// ParsePermission parses a string to a Permission.
func ParsePermission(s string) (Permission, bool) {
	p := Permission(s)
	return p, p.IsValid()
}
