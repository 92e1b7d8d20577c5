package access

import (
	"fmt"
	"strings"

	"github.com/alignhq/api/pkg/domain/role"
)

// RouteRule protects a path prefix. Rules are static configuration
// loaded once at process start; runtime reload is out of scope.
//
// AllowedRoles, when non-empty, restricts the route to those roles.
// DeniedRoles always rejects, regardless of the role's permissions:
// the route guard deliberately does not trust permission flags alone
// (defense in depth for the analytics exclusion).
type RouteRule struct {
	Prefix       string
	AllowedRoles []role.Role
	DeniedRoles  []role.Role
	Tag          string
}

// DefaultRouteTable is the route-protection table for the platform's
// protected path prefixes.
func DefaultRouteTable() []RouteRule {
	return []RouteRule{
		{
			Prefix:       "/manager",
			AllowedRoles: []role.Role{role.RoleManager},
			Tag:          "routeManagerOnly",
		},
		{
			Prefix:       "/admin",
			AllowedRoles: []role.Role{role.RoleOwner, role.RoleAdmin},
			Tag:          "adminRoute",
		},
		{
			Prefix:      "/analytics",
			DeniedRoles: []role.Role{role.RoleManager},
			Tag:         TagAnalyticsExclusion,
		},
	}
}

// CheckRoute evaluates the route table for a path and role. Paths that
// match no rule are allowed at the route level (other levels still
// apply).
func CheckRoute(table []RouteRule, path string, r role.Role) Result {
	for _, rule := range table {
		if !strings.HasPrefix(path, rule.Prefix) {
			continue
		}
		if res := rule.check(path, r); !res.Valid {
			return res
		}
	}
	return allow(LevelRoute, "routeAccess")
}

func (rule RouteRule) check(path string, r role.Role) Result {
	for _, denied := range rule.DeniedRoles {
		if r == denied {
			return deny(LevelRoute, rule.Tag,
				fmt.Sprintf("role %s is barred from %s routes", r, rule.Prefix))
		}
	}
	if len(rule.AllowedRoles) > 0 {
		for _, a := range rule.AllowedRoles {
			if r == a {
				return allow(LevelRoute, rule.Tag)
			}
		}
		return deny(LevelRoute, rule.Tag,
			fmt.Sprintf("route %s requires one of %v", path, rule.AllowedRoles))
	}
	return allow(LevelRoute, rule.Tag)
}
