// Package menu holds the static per-role navigation tables.
package menu

import "github.com/go-feeding-dashboard/internal/domain"

const profileTitle = "Profile"

var tables = map[domain.Role][]domain.MenuEntry{
	domain.RoleAdmin: {
		{Title: "Dashboard", Route: domain.RouteAdminDashboard, Icon: "dashboard"},
		{Title: "Users", Route: "/admin/users", Icon: "people"},
		{Title: "Districts", Route: "/admin/districts", Icon: "map"},
		{Title: "Schools", Route: "/admin/schools", Icon: "school"},
		{Title: "Suppliers", Route: "/admin/suppliers", Icon: "local_shipping"},
		{Title: "Reports", Route: "/admin/reports", Icon: "assessment"},
		{Title: "Profile", Route: "/admin/profile", Icon: "person"},
	},
	domain.RoleGovernment: {
		{Title: "Dashboard", Route: domain.RouteGovDashboard, Icon: "dashboard"},
		{Title: "Districts", Route: "/gov/districts", Icon: "map"},
		{Title: "Budget", Route: "/gov/budget", Icon: "account_balance"},
		{Title: "Reports", Route: "/gov/reports", Icon: "assessment"},
	},
	domain.RoleDistrict: {
		{Title: "Dashboard", Route: domain.RouteDistrictDashboard, Icon: "dashboard"},
		{Title: "Schools", Route: "/district/schools", Icon: "school"},
		{Title: "Requests", Route: "/district/requests", Icon: "assignment"},
		{Title: "Deliveries", Route: "/district/deliveries", Icon: "local_shipping"},
		{Title: "Reports", Route: "/district/reports", Icon: "assessment"},
		{Title: "Profile", Route: "/district/profile", Icon: "person"},
	},
	domain.RoleSchool: {
		{Title: "Dashboard", Route: domain.RouteSchoolDashboard, Icon: "dashboard"},
		{Title: "Inventory", Route: "/school/inventory", Icon: "inventory"},
		{Title: "Requests", Route: "/school/requests", Icon: "assignment"},
		{Title: "Deliveries", Route: "/school/deliveries", Icon: "local_shipping"},
		{Title: "Meals", Route: "/school/meals", Icon: "restaurant"},
		{Title: "Profile", Route: "/school/profile", Icon: "person"},
	},
	domain.RoleSupplier: {
		{Title: "Dashboard", Route: domain.RouteSupplierDashboard, Icon: "dashboard"},
		{Title: "Orders", Route: "/supplier/orders", Icon: "receipt"},
		{Title: "Deliveries", Route: "/supplier/deliveries", Icon: "local_shipping"},
		{Title: "Profile", Route: "/supplier/profile", Icon: "person"},
	},
	domain.RoleStock: {
		{Title: "Dashboard", Route: domain.RouteStockDashboard, Icon: "dashboard"},
		{Title: "Stock", Route: "/stock/items", Icon: "inventory"},
		{Title: "Receipts", Route: "/stock/receipts", Icon: "move_to_inbox"},
		{Title: "Issues", Route: "/stock/issues", Icon: "outbox"},
		{Title: "Profile", Route: "/stock/profile", Icon: "person"},
	},
}

// Entries returns a copy of the ordered menu for r. Unknown roles get nil.
func Entries(r domain.Role) []domain.MenuEntry {
	t := tables[r]
	if t == nil {
		return nil
	}
	out := make([]domain.MenuEntry, len(t))
	copy(out, t)
	return out
}

// ProfileRoute returns the route of r's Profile entry, or the generic
// profile route when r has none.
func ProfileRoute(r domain.Role) string {
	for _, e := range tables[r] {
		if e.Title == profileTitle {
			return e.Route
		}
	}
	return domain.RouteProfile
}
