package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-feeding-dashboard/internal/application/auth"
	"github.com/go-feeding-dashboard/internal/application/notification"
	"github.com/go-feeding-dashboard/internal/application/role"
	"github.com/go-feeding-dashboard/internal/application/session"
	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/pkg/validate"
	"github.com/go-feeding-dashboard/internal/transport/http/middleware"
)

// LoginRequest is the login form posted by the UI.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionHandler handles session endpoints.
type SessionHandler struct {
	auth    auth.Service
	store   session.Store
	poller  notification.Poller
	history *auth.History

	// mu serializes login and logout so one submission is in flight at a time.
	mu sync.Mutex
}

func NewSessionHandler(svc auth.Service, store session.Store, poller notification.Poller, history *auth.History) *SessionHandler {
	return &SessionHandler{auth: svc, store: store, poller: poller, history: history}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	route, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var le *auth.LoginError
		if errors.As(err, &le) && le.Transport {
			writeJSON(w, http.StatusBadGateway, LoginEnvelope{Route: domain.RouteLogin, Error: le.Message})
			return
		}
		writeJSON(w, http.StatusUnauthorized, LoginEnvelope{Route: domain.RouteLogin, Error: err.Error()})
		return
	}

	var raw string
	if sess, ok := h.store.Load(r.Context()); ok {
		raw = sess.Role
	}
	if canonical, ok := role.Canonical(raw); ok {
		h.poller.Bind(canonical)
	} else {
		h.poller.Unbind()
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{Route: route, Role: raw})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.poller.Unbind()
	// Without a history the service falls back to its full redirect.
	var nav auth.Navigator
	if h.history != nil {
		nav = h.history
	}
	h.auth.Logout(r.Context(), nav)
	writeJSON(w, http.StatusOK, LoginEnvelope{Route: domain.RouteLogin})
}

// GetCurrent returns the stored session. Requires middleware.RequireSession.
func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	canonical, _ := role.Canonical(sess.Role)
	route := role.DashboardFor(canonical)
	if h.history != nil {
		route = h.history.Current()
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{
		Session: sess,
		Role:    canonical,
		Route:   route,
	})
}
