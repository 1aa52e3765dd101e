package domain

import "time"

// Notification is one entry of a role-scoped feed. Entries are never
// mutated client-side; every poll replaces the whole feed.
type Notification struct {
	ID        string     `json:"id"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Read      bool       `json:"read"`
}

// CountUnread returns the number of entries whose Read flag is false.
func CountUnread(feed []Notification) int {
	n := 0
	for _, item := range feed {
		if !item.Read {
			n++
		}
	}
	return n
}
