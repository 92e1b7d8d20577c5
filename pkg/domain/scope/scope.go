// Package scope derives per-request data scopes from a subject's role,
// tenant and area.
//
// A DataScope is ephemeral: it is built fresh for each request, consumed
// immediately by query construction, and discarded. It is never cached
// or persisted.
package scope

import "github.com/alignhq/api/pkg/domain/role"

// Storage filter column names. The filter map produced here is the sole
// handle downstream components use to build storage predicates.
const (
	FilterTenantID = "tenant_id"
	FilterAreaID   = "area_id"
)

// DataScope describes which records a subject may read or write.
type DataScope struct {
	TenantID string

	// AreaID is set only for area-restricted scopes (managers).
	AreaID string

	// CanViewAllAreas is true for tenant-wide scopes.
	CanViewAllAreas bool

	filters map[string]string
}

// Filters returns a copy of the storage filter map. A copy is returned
// so callers cannot widen the scope by mutating it.
func (s *DataScope) Filters() map[string]string {
	out := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		out[k] = v
	}
	return out
}

// CoversArea reports whether the scope permits access to records in the
// given area.
func (s *DataScope) CoversArea(areaID string) bool {
	if s.CanViewAllAreas {
		return true
	}
	return areaID != "" && s.AreaID == areaID
}

// Resolve derives the data scope for a subject.
//
// Returns nil when no scope can be granted:
//   - tenantID is empty (tenant is the outermost, mandatory filter), or
//   - the role is not a known role, or
//   - the role is Manager and areaID is empty. A manager with no area
//     has no scope at all, never a tenant-wide one.
//
// Owner, Admin and Analyst receive a tenant-wide scope; Manager receives
// a scope restricted to their assigned area.
func Resolve(r role.Role, tenantID, areaID string) *DataScope {
	if tenantID == "" || !r.IsValid() {
		return nil
	}

	if r.IsAreaScoped() {
		if areaID == "" {
			return nil
		}
		return &DataScope{
			TenantID:        tenantID,
			AreaID:          areaID,
			CanViewAllAreas: false,
			filters: map[string]string{
				FilterTenantID: tenantID,
				FilterAreaID:   areaID,
			},
		}
	}

	return &DataScope{
		TenantID:        tenantID,
		CanViewAllAreas: true,
		filters: map[string]string{
			FilterTenantID: tenantID,
		},
	}
}
