package devbackend

import (
	"sort"
	"sync"
	"time"

	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/pkg/id"
)

// Feeds holds the notifications of every feed, keyed by the feed path
// below /api/notifications/ (e.g. "admin", "school/s1").
type Feeds struct {
	mu    sync.RWMutex
	feeds map[string][]domain.Notification
	now   func() time.Time
}

func NewFeeds() *Feeds {
	return &Feeds{feeds: make(map[string][]domain.Notification), now: time.Now}
}

// Publish appends a notification to feed and returns it.
func (f *Feeds) Publish(feed, message, link string) domain.Notification {
	return f.PublishAt(feed, message, link, f.now())
}

// PublishAt appends a notification stamped at. The id is a ULID of at.
func (f *Feeds) PublishAt(feed, message, link string, at time.Time) domain.Notification {
	ts := at.UTC()
	n := domain.Notification{ID: id.At(ts), Message: message, Link: link, Timestamp: &ts}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeds[feed] = append(f.feeds[feed], n)
	return n
}

// List returns feed newest first. Unknown feeds are empty, never nil.
func (f *Feeds) List(feed string) []domain.Notification {
	f.mu.RLock()
	out := append(make([]domain.Notification, 0, len(f.feeds[feed])), f.feeds[feed]...)
	f.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// MarkRead flags notificationID in feed as read. It reports whether the
// notification exists.
func (f *Feeds) MarkRead(feed, notificationID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.feeds[feed]
	for i := range items {
		if items[i].ID == notificationID {
			items[i].Read = true
			return true
		}
	}
	return false
}
