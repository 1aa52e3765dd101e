// Package role maps raw backend role strings onto canonical roles and
// their landing routes. Unknown input always resolves to the login route.
package role

import (
	"strings"

	"github.com/go-feeding-dashboard/internal/domain"
)

// namespacePrefix is stripped from raw roles before matching.
const namespacePrefix = "ROLE_"

var synonyms = map[string]domain.Role{
	"ADMIN":         domain.RoleAdmin,
	"ADMINISTRATOR": domain.RoleAdmin,
	"GOV":           domain.RoleGovernment,
	"GOVERNMENT":    domain.RoleGovernment,
	"DISTRICT":      domain.RoleDistrict,
	"SCHOOL":        domain.RoleSchool,
	"SUPPLIER":      domain.RoleSupplier,
	"STOCK_KEEPER":  domain.RoleStock,
	"STOCKKEEPER":   domain.RoleStock,
}

var dashboards = map[domain.Role]string{
	domain.RoleAdmin:      domain.RouteAdminDashboard,
	domain.RoleGovernment: domain.RouteGovDashboard,
	domain.RoleDistrict:   domain.RouteDistrictDashboard,
	domain.RoleSchool:     domain.RouteSchoolDashboard,
	domain.RoleSupplier:   domain.RouteSupplierDashboard,
	domain.RoleStock:      domain.RouteStockDashboard,
}

// Normalize trims, uppercases and strips the role namespace prefix.
func Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return strings.TrimPrefix(s, namespacePrefix)
}

// Canonical returns the canonical role for raw, or false when raw is empty
// or not in the synonym table.
func Canonical(raw string) (domain.Role, bool) {
	r, ok := synonyms[Normalize(raw)]
	return r, ok
}

// ResolveDashboard returns the landing route for raw. Anything that is not
// a known role goes back to the login route.
func ResolveDashboard(raw string) string {
	r, ok := Canonical(raw)
	if !ok {
		return domain.RouteLogin
	}
	return DashboardFor(r)
}

// DashboardFor returns the dashboard route of a canonical role, or the
// login route for a value outside the enumeration.
func DashboardFor(r domain.Role) string {
	if route, ok := dashboards[r]; ok {
		return route
	}
	return domain.RouteLogin
}
