package handler

import (
	"net/http"

	"github.com/go-feeding-dashboard/internal/application/menu"
	"github.com/go-feeding-dashboard/internal/application/role"
	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/transport/http/middleware"
)

// Menu returns the navigation entries of the stored role. Requires
// middleware.RequireSession.
func Menu(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	canonical, _ := role.Canonical(sess.Role)
	entries := menu.Entries(canonical)
	if entries == nil {
		entries = []domain.MenuEntry{}
	}
	writeJSON(w, http.StatusOK, MenuEnvelope{
		Role:         canonical,
		ProfileRoute: menu.ProfileRoute(canonical),
		Entries:      entries,
	})
}
