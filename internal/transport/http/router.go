package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-feeding-dashboard/internal/config"
	"github.com/go-feeding-dashboard/internal/transport/http/handler"
	appmiddleware "github.com/go-feeding-dashboard/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds the agent API consumed by the dashboard UI.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	loginRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.LoginRateLimit), cfg.LoginBurst)
	requireSession := appmiddleware.RequireSession(deps.Store)

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(deps.Auth, deps.Store, deps.Poller, deps.History)
	notifH := handler.NewNotificationHandler(deps.Poller)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/roles", handler.ListRoles)
		r.With(loginRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/logout", sessionH.Logout)
		r.Get("/notifications", notifH.List)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Get("/menu", handler.Menu)
		})
	})

	return r
}
