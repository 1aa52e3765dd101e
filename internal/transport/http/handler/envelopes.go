package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-feeding-dashboard/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LoginEnvelope wraps login and logout responses.
type LoginEnvelope struct {
	Route string `json:"route"`
	Role  string `json:"role,omitempty"`
	Error string `json:"error,omitempty"`
}

// SessionEnvelope wraps current-session responses. The token never leaves
// the agent.
type SessionEnvelope struct {
	Session *domain.Session `json:"session"`
	Role    domain.Role     `json:"role,omitempty"`
	Route   string          `json:"route"`
}

// MenuEnvelope wraps the navigation menu of the current role.
type MenuEnvelope struct {
	Role         domain.Role        `json:"role,omitempty"`
	ProfileRoute string             `json:"profileRoute"`
	Entries      []domain.MenuEntry `json:"entries"`
}

// NotificationsEnvelope wraps the polled feed.
type NotificationsEnvelope struct {
	Role   domain.Role           `json:"role,omitempty"`
	Unread int                   `json:"unread"`
	Items  []domain.Notification `json:"items"`
}

// RoleEnvelope describes one canonical role.
type RoleEnvelope struct {
	Role      domain.Role `json:"role"`
	Dashboard string      `json:"dashboard"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain errors onto status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrTransport):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
