// Package notification keeps the role-scoped notification feed of the
// current session fresh by polling the backend.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-feeding-dashboard/internal/application/session"
	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/pkg/clock"
)

// DefaultInterval is the refresh period used when none is configured.
const DefaultInterval = 30 * time.Second

// Fetcher retrieves one feed from the backend.
type Fetcher interface {
	Notifications(ctx context.Context, token, path string) ([]domain.Notification, error)
}

type Poller interface {
	// Bind stops any previous binding and starts polling r's feed: one
	// fetch right away, then one per interval. It returns once no request
	// for the previous binding is in flight.
	Bind(r domain.Role)
	// Unbind stops polling and empties the feed. Like Bind, it waits for
	// in-flight requests to return; their responses are discarded.
	Unbind()
	// Role returns the bound role, or false when nothing is bound.
	Role() (domain.Role, bool)
	// Feed returns a copy of the latest feed.
	Feed() []domain.Notification
	UnreadCount() int
	// Subscribe returns a channel signalled after every applied fetch and
	// on Unbind. Signals coalesce. Call the returned func to stop.
	Subscribe() (<-chan struct{}, func())
}

type PollerDeps struct {
	Fetcher  Fetcher
	Store    session.Store
	Clock    clock.Clock
	Interval time.Duration
	Logger   *slog.Logger
}

type binding struct {
	gen    uint64
	role   domain.Role
	ticker *clock.Ticker
	cancel context.CancelFunc
}

type poller struct {
	fetcher  Fetcher
	store    session.Store
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	// gate is held shared for the duration of each backend request and
	// exclusively while a binding is torn down.
	gate sync.RWMutex

	mu      sync.Mutex
	gen     uint64
	current *binding
	feed    []domain.Notification
	subs    map[chan struct{}]struct{}
}

func NewPoller(deps PollerDeps) Poller {
	p := &poller{
		fetcher:  deps.Fetcher,
		store:    deps.Store,
		clock:    deps.Clock,
		interval: deps.Interval,
		logger:   deps.Logger,
		subs:     make(map[chan struct{}]struct{}),
	}
	if p.clock == nil {
		p.clock = clock.Real()
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

func (p *poller) Bind(r domain.Role) {
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()

	p.gate.Lock()
	p.mu.Lock()
	// A concurrent Bind may have installed a binding while we waited.
	p.stopLocked()
	p.gen++
	b := &binding{
		gen:    p.gen,
		role:   r,
		ticker: p.clock.NewTicker(p.interval),
		cancel: cancel,
	}
	p.current = b
	p.feed = nil
	p.mu.Unlock()
	p.gate.Unlock()

	p.logger.Debug("notification poller bound", "role", r, "generation", b.gen)
	go p.fetch(ctx, b)
	go p.loop(ctx, b)
}

func (p *poller) Unbind() {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.gen++
	p.feed = nil
	p.notifyLocked()
	p.mu.Unlock()

	p.drain()
}

func (p *poller) Role() (domain.Role, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.role, true
}

func (p *poller) Feed() []domain.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Notification(nil), p.feed...)
}

func (p *poller) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return domain.CountUnread(p.feed)
}

func (p *poller) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, ch)
			p.mu.Unlock()
		})
	}
}

func (p *poller) loop(ctx context.Context, b *binding) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.ticker.C:
			if ctx.Err() != nil {
				return
			}
			go p.fetch(ctx, b)
		}
	}
}

// fetch runs one poll for b and applies the result if b is still current.
func (p *poller) fetch(ctx context.Context, b *binding) {
	if ctx.Err() != nil {
		return
	}
	sess, ok := p.store.Load(ctx)
	if !ok {
		p.logger.Debug("no stored session, skipping notification fetch", "role", b.role)
		p.apply(b, nil)
		return
	}
	path, ok := FeedPath(b.role, sess)
	if !ok {
		p.logger.Debug("scoping id missing, skipping notification fetch", "role", b.role)
		p.apply(b, nil)
		return
	}
	items, sent, err := p.request(ctx, b, sess.Token, path)
	if !sent {
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("notification fetch failed", "role", b.role, "path", path, "err", err)
		}
		items = nil
	}
	p.apply(b, items)
}

// request calls the fetcher only while b is current. sent is false when b
// was superseded before the request could go out.
func (p *poller) request(ctx context.Context, b *binding, token, path string) (items []domain.Notification, sent bool, err error) {
	p.gate.RLock()
	defer p.gate.RUnlock()

	p.mu.Lock()
	current := p.current == b
	p.mu.Unlock()
	if !current || ctx.Err() != nil {
		return nil, false, nil
	}
	items, err = p.fetcher.Notifications(ctx, token, path)
	return items, true, err
}

func (p *poller) apply(b *binding, items []domain.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != b {
		p.logger.Debug("discarding stale notification response", "generation", b.gen)
		return
	}
	p.feed = items
	p.notifyLocked()
}

// stopLocked tears down the current binding. Caller holds mu.
func (p *poller) stopLocked() {
	if p.current == nil {
		return
	}
	p.current.ticker.Stop()
	p.current.cancel()
	p.current = nil
}

// drain waits until every request started under a torn-down binding has
// returned. Must be called without mu held.
func (p *poller) drain() {
	p.gate.Lock()
	p.gate.Unlock()
}

// notifyLocked signals subscribers without blocking. Caller holds mu.
func (p *poller) notifyLocked() {
	for ch := range p.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
