package devbackend

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-feeding-dashboard/internal/config"
	"github.com/go-feeding-dashboard/internal/domain"
	jwtinfra "github.com/go-feeding-dashboard/internal/infrastructure/jwt"
	"github.com/go-feeding-dashboard/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds the fixtures and signer the dev backend serves from.
type Deps struct {
	Directory *Directory
	Feeds     *Feeds
	Signer    *jwtinfra.Provider
	Logger    *slog.Logger
}

// NewRouter builds the dev backend API.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	verifier := newRevocableVerifier(deps.Signer)
	h := &apiHandler{
		dir:      deps.Directory,
		feeds:    deps.Feeds,
		signer:   deps.Signer,
		verifier: verifier,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	loginRL := middleware.NewRateLimiter(rate.Limit(cfg.LoginRateLimit), cfg.LoginBurst)
	authMw := middleware.Auth(verifier)
	only := middleware.RequireRole

	r.Route("/api", func(r chi.Router) {
		r.With(loginRL.Limit).Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", h.logout)

			r.Route("/notifications", func(r chi.Router) {
				r.With(only(domain.RoleAdmin)).Get("/admin", h.feed(domain.RoleAdmin))
				r.With(only(domain.RoleGovernment, domain.RoleAdmin)).Get("/government", h.feed(domain.RoleGovernment))
				r.With(only(domain.RoleDistrict, domain.RoleGovernment, domain.RoleAdmin)).Get("/district/{id}", h.scopedFeed(domain.RoleDistrict))
				r.With(only(domain.RoleSchool, domain.RoleDistrict, domain.RoleAdmin)).Get("/school/{id}", h.scopedFeed(domain.RoleSchool))
				r.With(only(domain.RoleSupplier, domain.RoleAdmin)).Get("/supplier/{id}", h.scopedFeed(domain.RoleSupplier))
				r.With(only(domain.RoleStock, domain.RoleAdmin)).Get("/stock/{id}", h.scopedFeed(domain.RoleStock))
			})

			r.Group(func(r chi.Router) {
				r.Use(only(domain.RoleAdmin))

				r.Post("/dev/notifications", h.publish)
				r.Post("/dev/notifications/read", h.markRead)
			})
		})
	})

	return r
}
