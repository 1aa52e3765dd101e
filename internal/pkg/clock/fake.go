package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a deterministic Clock. Time stands still until Advance is
// called. Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	tickers []*fakeTicker
	changed *sync.Cond
}

type fakeTicker struct {
	deadline time.Time
	interval time.Duration
	channel  chan time.Time
	stopped  bool
}

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NewTicker registers a ticker that fires each time Advance moves the clock
// past its next deadline.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ft := &fakeTicker{
		deadline: c.current.Add(d),
		interval: d,
		channel:  make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, ft)
	c.changed.Broadcast()

	return &Ticker{
		C: ft.channel,
		stopFunc: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			ft.stopped = true
			c.changed.Broadcast()
		},
	}
}

// Advance moves the clock forward by d and delivers every tick whose
// deadline falls inside the window, in deadline order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.current.Add(d)
	for {
		live := c.live()
		sort.Slice(live, func(i, j int) bool { return live[i].deadline.Before(live[j].deadline) })
		if len(live) == 0 || live[0].deadline.After(target) {
			break
		}
		next := live[0]
		c.current = next.deadline
		select {
		case next.channel <- next.deadline:
		default:
		}
		next.deadline = next.deadline.Add(next.interval)
	}
	c.current = target
}

// WaitForTickers blocks until at least n unstopped tickers are registered.
// Call it before Advance so the goroutine under test has armed its ticker.
func (c *FakeClock) WaitForTickers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.live()) < n {
		c.changed.Wait()
	}
}

// ActiveTickers returns the number of unstopped tickers.
func (c *FakeClock) ActiveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live())
}

// live drops stopped tickers and returns the rest. Caller holds mu.
func (c *FakeClock) live() []*fakeTicker {
	kept := c.tickers[:0]
	for _, t := range c.tickers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	c.tickers = kept
	return append([]*fakeTicker(nil), kept...)
}
