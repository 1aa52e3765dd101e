package auth

import "sync"

// State is the login flow state of one lifecycle instance.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Navigator moves the UI to route, replacing the current history entry.
type Navigator interface {
	Replace(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Replace(route string) { f(route) }

// History is an in-memory navigation stack. The agent keeps one per
// client so the UI can ask where it is and whether back-navigation is
// possible.
type History struct {
	mu      sync.Mutex
	entries []string
}

// NewHistory returns a History positioned at initial.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

// Push appends route as a new entry.
func (h *History) Push(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, route)
}

// Replace overwrites the current entry with route.
func (h *History) Replace(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		h.entries = []string{route}
		return
	}
	h.entries[len(h.entries)-1] = route
}

// Back pops the current entry and returns the new current route. It
// returns false when there is nothing to go back to.
func (h *History) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return "", false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

// Reset drops every entry and starts over at route, as a full-page load
// would.
func (h *History) Reset(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = []string{route}
}

// Current returns the current route.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
