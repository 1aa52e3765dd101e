package devbackend

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-feeding-dashboard/internal/application/role"
	"github.com/go-feeding-dashboard/internal/domain"
	jwtinfra "github.com/go-feeding-dashboard/internal/infrastructure/jwt"
	"github.com/go-feeding-dashboard/internal/pkg/id"
	"github.com/go-feeding-dashboard/internal/pkg/validate"
	"github.com/go-feeding-dashboard/internal/transport/http/middleware"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ref struct {
	ID string `json:"id"`
}

// loginResponse mirrors the production payload, including its mix of
// plain and object-valued references.
type loginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	ID       string `json:"id"`
	Names    string `json:"names,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	District *ref   `json:"district,omitempty"`
	School   string `json:"school,omitempty"`
}

type publishRequest struct {
	Feed    string `json:"feed" validate:"required"`
	Message string `json:"message" validate:"required"`
	Link    string `json:"link"`
}

type markReadRequest struct {
	Feed string `json:"feed" validate:"required"`
	ID   string `json:"id" validate:"required"`
}

type apiHandler struct {
	dir      *Directory
	feeds    *Feeds
	signer   *jwtinfra.Provider
	verifier *revocableVerifier
	logger   *slog.Logger
}

func (h *apiHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}
	a, err := h.dir.Authenticate(req.Email, req.Password)
	if err != nil {
		h.logger.Info("login rejected", "email", req.Email)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		return
	}
	token, err := h.signer.Sign(a.ID, a.Role)
	if err != nil {
		h.logger.Error("sign token", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not issue token"})
		return
	}
	resp := loginResponse{
		Token:  token,
		Role:   a.Role,
		ID:     a.ID,
		Names:  a.Names,
		Email:  a.Email,
		Phone:  a.Phone,
		School: a.SchoolID,
	}
	if a.DistrictID != "" {
		resp.District = &ref{ID: a.DistrictID}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *apiHandler) logout(w http.ResponseWriter, r *http.Request) {
	if tok, ok := middleware.BearerToken(r); ok {
		h.verifier.Revoke(tok)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// feed serves the unscoped feed named kind.
func (h *apiHandler) feed(kind domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.feeds.List(string(kind)))
	}
}

// scopedFeed serves kind/{id}. A caller holding kind itself may only read
// its own scope.
func (h *apiHandler) scopedFeed(kind domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scopeID := chi.URLParam(r, "id")
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		if caller, _ := role.Canonical(claims.Role); caller == kind {
			a, err := h.dir.Get(claims.UserID)
			if err != nil || ownScope(kind, a) != scopeID {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
				return
			}
		}
		writeJSON(w, http.StatusOK, h.feeds.List(string(kind)+"/"+scopeID))
	}
}

func (h *apiHandler) publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, h.feeds.Publish(req.Feed, req.Message, req.Link))
}

func (h *apiHandler) markRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	if !id.Valid(req.ID) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed notification id"})
		return
	}
	if !h.feeds.MarkRead(req.Feed, req.ID) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": domain.ErrNotFound.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ownScope(kind domain.Role, a *Account) string {
	switch kind {
	case domain.RoleDistrict:
		return a.DistrictID
	case domain.RoleSchool:
		return a.SchoolID
	default:
		return a.ID
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
