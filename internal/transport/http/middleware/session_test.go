package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-feeding-dashboard/internal/application/session"
	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/infrastructure/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireSession_Empty(t *testing.T) {
	st := session.NewStore(kv.NewMemory(), nil)
	rr := httptest.NewRecorder()
	RequireSession(st)(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireSession_InjectsSession(t *testing.T) {
	st := session.NewStore(kv.NewMemory(), nil)
	require.NoError(t, st.Save(context.Background(), &domain.Session{Token: "t", Role: "SCHOOL", SchoolID: "s1"}))

	var got *domain.Session
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	RequireSession(st)(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.SchoolID)
}
