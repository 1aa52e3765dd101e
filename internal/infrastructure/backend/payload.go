package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-feeding-dashboard/internal/domain"
)

// LoginPayload is the JSON body of a login response. Any of the fields may
// be missing; success is decided by the auth lifecycle, not here.
type LoginPayload struct {
	Token    string     `json:"token"`
	Role     string     `json:"role"`
	ID       FlexString `json:"id"`
	Names    string     `json:"names"`
	Email    string     `json:"email"`
	Phone    FlexString `json:"phone"`
	District Ref        `json:"district"`
	School   Ref        `json:"school"`
	Message  FlexString `json:"message"`
	Error    ErrorField `json:"error"`
}

// FlexString decodes a JSON string or number. Any other JSON value
// decodes to "".
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

// Ref is a reference to a district or school. The backend sends either
// the bare id or an embedded object carrying "id" or "_id".
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			ID      FlexString `json:"id"`
			MongoID FlexString `json:"_id"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		if obj.ID != "" {
			*r = Ref(obj.ID)
		} else {
			*r = Ref(obj.MongoID)
		}
		return nil
	}
	var f FlexString
	if err := f.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	*r = Ref(f)
	return nil
}

// ErrorField keeps the raw "error" member so both presence and text can
// be inspected. The backend uses strings, objects and booleans here.
type ErrorField struct {
	raw json.RawMessage
}

func (e *ErrorField) UnmarshalJSON(b []byte) error {
	e.raw = append(e.raw[:0], b...)
	return nil
}

// Present reports whether the payload carried a truthy error indicator.
func (e ErrorField) Present() bool {
	switch strings.TrimSpace(string(e.raw)) {
	case "", "null", "false", `""`:
		return false
	}
	return true
}

// Text returns a human-readable message from the error member, or "".
func (e ErrorField) Text() string {
	if !e.Present() {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}

// FlexBool decodes true/false, 0/1 and their string forms.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseBool(s)
	if err != nil {
		*f = false
		return nil
	}
	*f = FlexBool(v)
	return nil
}

type wireNotification struct {
	ID        FlexString      `json:"id"`
	Message   string          `json:"message"`
	Link      string          `json:"link"`
	Timestamp json.RawMessage `json:"timestamp"`
	Read      FlexBool        `json:"read"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts RFC 3339, zone-less ISO strings (read as UTC) and
// Unix milliseconds. Anything else yields nil.
func parseTimestamp(raw json.RawMessage) *time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t
			}
		}
		return nil
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}

// decodeFeed accepts a bare array or an object wrapping it under "data"
// or "notifications". Duplicate ids keep their first occurrence.
func decodeFeed(data []byte) ([]domain.Notification, error) {
	trimmed := bytes.TrimSpace(data)
	var items []wireNotification
	switch {
	case len(trimmed) == 0 || string(trimmed) == "null":
		return []domain.Notification{}, nil
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("backend: decode feed: %w", err)
		}
	case trimmed[0] == '{':
		var env struct {
			Data          []wireNotification `json:"data"`
			Notifications []wireNotification `json:"notifications"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("backend: decode feed: %w", err)
		}
		items = env.Data
		if items == nil {
			items = env.Notifications
		}
	default:
		return nil, fmt.Errorf("backend: feed is neither array nor object")
	}

	feed := make([]domain.Notification, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, w := range items {
		id := string(w.ID)
		if id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		feed = append(feed, domain.Notification{
			ID:        id,
			Message:   w.Message,
			Link:      w.Link,
			Timestamp: parseTimestamp(w.Timestamp),
			Read:      bool(w.Read),
		})
	}
	return feed, nil
}
