package middleware

import (
	"net/http"

	"github.com/go-feeding-dashboard/internal/application/role"
	"github.com/go-feeding-dashboard/internal/domain"
)

// RequireRole returns middleware that allows access only to callers whose
// JWT role resolves to one of allowed. Raw role spellings such as
// "ROLE_SCHOOL" or "stock_keeper" are canonicalized first.
func RequireRole(allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if got, ok := role.Canonical(claims.Role); ok {
				for _, want := range allowed {
					if got == want {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}
