package handler

import (
	"net/http"
	"time"

	"github.com/go-feeding-dashboard/internal/application/notification"
	"github.com/go-feeding-dashboard/internal/domain"
)

// maxWait caps the long-poll duration accepted in ?wait=.
const maxWait = 60 * time.Second

// NotificationHandler serves the feed kept by the poller.
type NotificationHandler struct {
	poller notification.Poller
}

func NewNotificationHandler(poller notification.Poller) *NotificationHandler {
	return &NotificationHandler{poller: poller}
}

// List returns the current feed. With ?wait=<duration> it holds the
// request until the feed changes or the duration elapses.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "invalid wait duration")
			return
		}
		if d > maxWait {
			d = maxWait
		}
		h.wait(r, d)
	}

	resp := NotificationsEnvelope{Items: h.poller.Feed()}
	if resp.Items == nil {
		resp.Items = []domain.Notification{}
	}
	resp.Unread = domain.CountUnread(resp.Items)
	if bound, ok := h.poller.Role(); ok {
		resp.Role = bound
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *NotificationHandler) wait(r *http.Request, d time.Duration) {
	if d == 0 {
		return
	}
	updates, cancel := h.poller.Subscribe()
	defer cancel()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-updates:
	case <-timer.C:
	case <-r.Context().Done():
	}
}
