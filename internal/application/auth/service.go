// Package auth drives the login and logout lifecycle of the single client
// session held by this agent.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-feeding-dashboard/internal/application/role"
	"github.com/go-feeding-dashboard/internal/application/session"
	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/infrastructure/backend"
)

// Backend is the subset of the backend client the lifecycle needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

type Service interface {
	// Login authenticates against the backend. On success the session is
	// stored, the navigator is sent to the landing route, and that route is
	// returned. Failures return a *LoginError and write nothing. A role that
	// resolves to no dashboard is not stored; any previous session is
	// cleared and the login route is returned.
	Login(ctx context.Context, email, password string) (string, error)
	// Logout notifies the backend when a token is stored, clears the
	// session and navigates to the login route through nav. A nil nav
	// falls back to the configured Redirect. Logout never fails.
	Logout(ctx context.Context, nav Navigator)
	State() State
}

// ServiceDeps wires a Service.
type ServiceDeps struct {
	Backend Backend
	Store   session.Store
	// Navigator receives the landing route after a successful login.
	Navigator Navigator
	// Redirect is the full-page fallback used by Logout without a navigator.
	Redirect func(route string)
	Logger   *slog.Logger
}

type service struct {
	backend   Backend
	store     session.Store
	navigator Navigator
	redirect  func(route string)
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

func NewService(deps ServiceDeps) Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		backend:   deps.Backend,
		store:     deps.Store,
		navigator: deps.Navigator,
		redirect:  deps.Redirect,
		logger:    logger,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	s.setState(StateSubmitting)

	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login request failed", "err", err)
		s.setState(StateFailed)
		return "", &LoginError{Message: genericLoginMessage, Transport: true, cause: err}
	}

	p := res.Payload
	if !res.OK() || p == nil || p.Error.Present() || p.Token == "" || p.Role == "" {
		s.setState(StateFailed)
		msg := failureMessage(res)
		s.logger.Info("login rejected", "status", res.StatusCode, "message", msg)
		return "", &LoginError{Message: msg, StatusCode: res.StatusCode}
	}

	sess := &domain.Session{
		Token:      p.Token,
		Role:       p.Role,
		DistrictID: string(p.District),
		SchoolID:   string(p.School),
		UserID:     string(p.ID),
		Profile: &domain.Profile{
			ID:       string(p.ID),
			Names:    p.Names,
			Email:    p.Email,
			Phone:    string(p.Phone),
			District: string(p.District),
			School:   string(p.School),
		},
	}

	route := role.ResolveDashboard(p.Role)
	if route == domain.RouteLogin {
		s.logger.Warn("login succeeded with unrecognized role, not storing session", "role", p.Role)
		s.store.Clear(ctx)
		s.setState(StateIdle)
		s.navigate(route)
		return route, nil
	}

	if err := s.store.Save(ctx, sess); err != nil {
		// Save rejects only partial sessions, which the checks above exclude.
		s.setState(StateFailed)
		return "", &LoginError{Message: genericLoginMessage, StatusCode: res.StatusCode}
	}
	s.setState(StateAuthenticated)
	s.navigate(route)
	return route, nil
}

func (s *service) Logout(ctx context.Context, nav Navigator) {
	if sess, ok := s.store.Load(ctx); ok {
		if err := s.backend.Logout(ctx, sess.Token); err != nil {
			s.logger.Warn("logout notification failed", "err", err)
		}
	}
	s.store.Clear(ctx)
	s.setState(StateIdle)

	switch {
	case nav != nil:
		nav.Replace(domain.RouteLogin)
	case s.redirect != nil:
		s.redirect(domain.RouteLogin)
	default:
		s.logger.Debug("logout without navigator or redirect")
	}
}

func (s *service) navigate(route string) {
	if s.navigator != nil {
		s.navigator.Replace(route)
	}
}

func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *service) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

// failureMessage picks the payload message, then the payload error, then
// the HTTP status text of a non-2xx response, then the generic message.
func failureMessage(res *backend.LoginResult) string {
	if p := res.Payload; p != nil {
		if p.Message != "" {
			return string(p.Message)
		}
		if text := p.Error.Text(); text != "" {
			return text
		}
	}
	if !res.OK() && res.Status != "" {
		return res.Status
	}
	return genericLoginMessage
}
