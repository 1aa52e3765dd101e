package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-feeding-dashboard/internal/application/auth"
	"github.com/go-feeding-dashboard/internal/application/notification"
	"github.com/go-feeding-dashboard/internal/application/session"
	"github.com/go-feeding-dashboard/internal/config"
	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/infrastructure/backend"
	"github.com/go-feeding-dashboard/internal/infrastructure/kv"
	"github.com/go-feeding-dashboard/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStorage_FileSurvivesReopen(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.StorageFile, StoragePath: filepath.Join(t.TempDir(), "session.json")}

	first, closeFirst, err := openStorage(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFirst()
	require.NoError(t, first.SetMany(context.Background(), map[string]string{domain.KeyToken: "t1"}))

	second, closeSecond, err := openStorage(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeSecond()
	v, ok, err := second.Get(context.Background(), domain.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)
}

func TestOpenStorage_Memory(t *testing.T) {
	s, closeFn, err := openStorage(context.Background(), &config.Config{StorageDriver: config.StorageMemory}, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &kv.Memory{}, s)
}

func TestOpenStorage_Unknown(t *testing.T) {
	_, _, err := openStorage(context.Background(), &config.Config{StorageDriver: "tape"}, nil)
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestResume_RebindsStoredRole(t *testing.T) {
	store := session.NewStore(kv.NewMemory(), nil)
	require.NoError(t, store.Save(context.Background(), &domain.Session{Token: "t", Role: "ROLE_ADMIN"}))
	poller := notification.NewPoller(notification.PollerDeps{Fetcher: nopFetcher{}, Store: store, Clock: clock.Fake(time.Unix(0, 0))})
	defer poller.Unbind()
	history := auth.NewHistory(domain.RouteLogin)

	resume(context.Background(), store, poller, history)

	r, ok := poller.Role()
	assert.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, r)
	assert.Equal(t, domain.RouteAdminDashboard, history.Current())
}

func TestResume_NoSession(t *testing.T) {
	store := session.NewStore(kv.NewMemory(), nil)
	poller := notification.NewPoller(notification.PollerDeps{Fetcher: nopFetcher{}, Store: store, Clock: clock.Fake(time.Unix(0, 0))})
	history := auth.NewHistory(domain.RouteLogin)

	resume(context.Background(), store, poller, history)

	_, ok := poller.Role()
	assert.False(t, ok)
	assert.Equal(t, domain.RouteLogin, history.Current())
}

func TestFullRedirect_LogoutWithoutNavigatorResetsHistory(t *testing.T) {
	store := session.NewStore(kv.NewMemory(), nil)
	history := auth.NewHistory(domain.RouteLogin)
	history.Replace(domain.RouteStockDashboard)
	history.Push("/stock/inventory")
	svc := auth.NewService(auth.ServiceDeps{
		Backend:  nopBackend{},
		Store:    store,
		Redirect: fullRedirect(history, slog.Default()),
	})

	svc.Logout(context.Background(), nil)

	assert.Equal(t, []string{domain.RouteLogin}, history.Entries())
}

type nopBackend struct{}

func (nopBackend) Login(context.Context, string, string) (*backend.LoginResult, error) {
	return nil, nil
}

func (nopBackend) Logout(context.Context, string) error { return nil }

type nopFetcher struct{}

func (nopFetcher) Notifications(context.Context, string, string) ([]domain.Notification, error) {
	return nil, nil
}
