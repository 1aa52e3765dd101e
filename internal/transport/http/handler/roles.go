package handler

import (
	"net/http"

	"github.com/go-feeding-dashboard/internal/application/role"
	"github.com/go-feeding-dashboard/internal/domain"
)

// ListRoles returns every canonical role with its landing route.
func ListRoles(w http.ResponseWriter, _ *http.Request) {
	out := make([]RoleEnvelope, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		out = append(out, RoleEnvelope{Role: r, Dashboard: role.DashboardFor(r)})
	}
	writeJSON(w, http.StatusOK, out)
}
