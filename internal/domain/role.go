package domain

// Role is a canonical role category. It is always derived from the raw
// backend role string and never persisted on its own.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleGovernment Role = "government"
	RoleDistrict   Role = "district"
	RoleSchool     Role = "school"
	RoleSupplier   Role = "supplier"
	RoleStock      Role = "stock"
)

// Roles lists every canonical role in display order.
var Roles = []Role{RoleAdmin, RoleGovernment, RoleDistrict, RoleSchool, RoleSupplier, RoleStock}

// Dashboard and fallback routes.
const (
	RouteLogin             = "/login"
	RouteProfile           = "/profile"
	RouteAdminDashboard    = "/admin-dashboard"
	RouteGovDashboard      = "/gov-dashboard"
	RouteDistrictDashboard = "/district-dashboard"
	RouteSchoolDashboard   = "/school-dashboard"
	RouteSupplierDashboard = "/supplier-dashboard"
	RouteStockDashboard    = "/stock-dashboard"
)

// MenuEntry is one static navigation item.
type MenuEntry struct {
	Title string `json:"title"`
	Route string `json:"route"`
	Icon  string `json:"icon"`
}
