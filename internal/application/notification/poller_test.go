package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-feeding-dashboard/internal/application/session"
	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/infrastructure/kv"
	"github.com/go-feeding-dashboard/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const interval = 30 * time.Second

// --- mocks ---

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Notifications(ctx context.Context, token, path string) ([]domain.Notification, error) {
	args := m.Called(ctx, token, path)
	items, _ := args.Get(0).([]domain.Notification)
	return items, args.Error(1)
}

// --- helpers ---

type fixture struct {
	poller  Poller
	fetcher *mockFetcher
	clock   *clock.FakeClock
	updates <-chan struct{}
}

func newFixture(t *testing.T, sess *domain.Session) *fixture {
	t.Helper()
	st := session.NewStore(kv.NewMemory(), nil)
	if sess != nil {
		require.NoError(t, st.Save(context.Background(), sess))
	}
	f := &fixture{fetcher: &mockFetcher{}, clock: clock.Fake(time.Unix(0, 0))}
	f.poller = NewPoller(PollerDeps{Fetcher: f.fetcher, Store: st, Clock: f.clock, Interval: interval})
	updates, cancel := f.poller.Subscribe()
	t.Cleanup(cancel)
	t.Cleanup(f.poller.Unbind)
	f.updates = updates
	return f
}

func (f *fixture) waitUpdate(t *testing.T) {
	t.Helper()
	select {
	case <-f.updates:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed update")
	}
}

// tick advances one interval and waits for the resulting fetch to apply.
func (f *fixture) tick(t *testing.T) {
	t.Helper()
	f.clock.Advance(interval)
	f.waitUpdate(t)
}

func items(n, unread int) []domain.Notification {
	out := make([]domain.Notification, n)
	for i := range out {
		out[i] = domain.Notification{ID: string(rune('a' + i)), Message: "m", Read: i >= unread}
	}
	return out
}

// --- tests ---

func TestPoller_DistrictWithoutDistrictIDNeverFetches(t *testing.T) {
	f := newFixture(t, &domain.Session{Token: "t", Role: "DISTRICT"})

	f.poller.Bind(domain.RoleDistrict)
	f.waitUpdate(t)
	f.tick(t)
	f.tick(t)

	f.fetcher.AssertNotCalled(t, "Notifications", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.poller.Feed())
	assert.Equal(t, 0, f.poller.UnreadCount())
}

func TestPoller_SchoolFeedReplacedOnEachTick(t *testing.T) {
	f := newFixture(t, &domain.Session{Token: "t", Role: "SCHOOL", SchoolID: "s1"})
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/school/s1").Return(items(3, 0), nil).Once()
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/school/s1").Return(items(5, 2), nil).Once()

	f.poller.Bind(domain.RoleSchool)
	f.waitUpdate(t)
	assert.Len(t, f.poller.Feed(), 3)
	assert.Equal(t, 0, f.poller.UnreadCount())

	f.tick(t)
	assert.Len(t, f.poller.Feed(), 5)
	assert.Equal(t, 2, f.poller.UnreadCount())
	f.fetcher.AssertExpectations(t)
}

func TestPoller_RebindStopsPreviousRole(t *testing.T) {
	f := newFixture(t, &domain.Session{Token: "t", Role: "SCHOOL", SchoolID: "s1", UserID: "u1"})
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/school/s1").Return(items(1, 1), nil)
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/supplier/u1").Return(items(2, 0), nil)

	f.poller.Bind(domain.RoleSchool)
	f.waitUpdate(t)
	f.poller.Bind(domain.RoleSupplier)
	f.waitUpdate(t)
	assert.Equal(t, 1, f.clock.ActiveTickers())

	f.tick(t)

	f.fetcher.AssertNumberOfCalls(t, "Notifications", 3)
	f.fetcher.AssertCalled(t, "Notifications", mock.Anything, "t", "/api/notifications/supplier/u1")
	role, ok := f.poller.Role()
	assert.True(t, ok)
	assert.Equal(t, domain.RoleSupplier, role)
	assert.Len(t, f.poller.Feed(), 2)
}

func TestPoller_StaleResponseDiscarded(t *testing.T) {
	f := newFixture(t, &domain.Session{Token: "t", Role: "SCHOOL", SchoolID: "s1"})
	started := make(chan struct{})
	// The school response only arrives once the request is cancelled.
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/school/s1").
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).Return(items(4, 4), nil).Once()
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/admin").Return(items(1, 0), nil)

	f.poller.Bind(domain.RoleSchool)
	<-started
	f.poller.Bind(domain.RoleAdmin)
	f.waitUpdate(t)

	assert.Never(t, func() bool { return len(f.poller.Feed()) != 1 }, 200*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 0, f.poller.UnreadCount())
	f.fetcher.AssertExpectations(t)
}

// recordingFetcher notes which phase of the test each request was made in.
type recordingFetcher struct {
	mu    sync.Mutex
	phase string
	calls map[string][]string
}

func (r *recordingFetcher) setPhase(phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = phase
}

func (r *recordingFetcher) Notifications(_ context.Context, _, path string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[r.phase] = append(r.calls[r.phase], path)
	return nil, nil
}

func TestPoller_NoRequestsForPreviousBinding(t *testing.T) {
	st := session.NewStore(kv.NewMemory(), nil)
	require.NoError(t, st.Save(context.Background(), &domain.Session{Token: "t", Role: "SCHOOL", SchoolID: "s1", UserID: "u1"}))
	fc := clock.Fake(time.Unix(0, 0))
	rec := &recordingFetcher{calls: make(map[string][]string)}
	p := NewPoller(PollerDeps{Fetcher: rec, Store: st, Clock: fc, Interval: interval})

	const schoolPath = "/api/notifications/school/s1"
	for i := 0; i < 200; i++ {
		rec.setPhase("school")
		p.Bind(domain.RoleSchool)
		fc.Advance(interval)
		p.Bind(domain.RoleSupplier)
		rec.setPhase("supplier")
		fc.Advance(interval)
		p.Unbind()
		rec.setPhase("unbound")
		fc.Advance(interval)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.NotContains(t, rec.calls["supplier"], schoolPath)
	assert.Empty(t, rec.calls["unbound"])
}

func TestPoller_FetchErrorEmptiesFeedAndKeepsPolling(t *testing.T) {
	f := newFixture(t, &domain.Session{Token: "t", Role: "ADMIN"})
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/admin").Return(items(2, 2), nil).Once()
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/admin").Return(nil, errors.New("502")).Once()
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/admin").Return(items(1, 1), nil).Once()

	f.poller.Bind(domain.RoleAdmin)
	f.waitUpdate(t)
	assert.Equal(t, 2, f.poller.UnreadCount())

	f.tick(t)
	assert.Empty(t, f.poller.Feed())

	f.tick(t)
	assert.Equal(t, 1, f.poller.UnreadCount())
	f.fetcher.AssertExpectations(t)
}

func TestPoller_UnbindStopsTicker(t *testing.T) {
	f := newFixture(t, &domain.Session{Token: "t", Role: "GOV"})
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/government").Return(items(1, 1), nil)

	f.poller.Bind(domain.RoleGovernment)
	f.waitUpdate(t)
	f.poller.Unbind()
	f.waitUpdate(t)

	assert.Equal(t, 0, f.clock.ActiveTickers())
	f.clock.Advance(3 * interval)
	f.fetcher.AssertNumberOfCalls(t, "Notifications", 1)
	assert.Empty(t, f.poller.Feed())
	_, ok := f.poller.Role()
	assert.False(t, ok)
}

func TestPoller_NoSessionYieldsEmptyFeed(t *testing.T) {
	f := newFixture(t, nil)

	f.poller.Bind(domain.RoleAdmin)
	f.waitUpdate(t)

	f.fetcher.AssertNotCalled(t, "Notifications", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.poller.Feed())
}

func TestPoller_FeedIsACopy(t *testing.T) {
	f := newFixture(t, &domain.Session{Token: "t", Role: "ADMIN"})
	f.fetcher.On("Notifications", mock.Anything, "t", "/api/notifications/admin").Return(items(1, 1), nil)

	f.poller.Bind(domain.RoleAdmin)
	f.waitUpdate(t)
	feed := f.poller.Feed()
	feed[0].Read = true

	assert.Equal(t, 1, f.poller.UnreadCount())
}

func TestFeedPath(t *testing.T) {
	sess := &domain.Session{DistrictID: "d 1", SchoolID: "s1", UserID: "u/1"}
	cases := []struct {
		role domain.Role
		want string
		ok   bool
	}{
		{domain.RoleAdmin, "/api/notifications/admin", true},
		{domain.RoleGovernment, "/api/notifications/government", true},
		{domain.RoleDistrict, "/api/notifications/district/d%201", true},
		{domain.RoleSchool, "/api/notifications/school/s1", true},
		{domain.RoleSupplier, "/api/notifications/supplier/u%2F1", true},
		{domain.RoleStock, "/api/notifications/stock/u%2F1", true},
		{domain.Role("janitor"), "", false},
	}
	for _, c := range cases {
		t.Run(string(c.role), func(t *testing.T) {
			got, ok := FeedPath(c.role, sess)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}

	_, ok := FeedPath(domain.RoleSchool, &domain.Session{})
	assert.False(t, ok)
}
