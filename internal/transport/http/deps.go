package http

import (
	"github.com/go-feeding-dashboard/internal/application/auth"
	"github.com/go-feeding-dashboard/internal/application/notification"
	"github.com/go-feeding-dashboard/internal/application/session"
)

// Deps holds the application services the router serves.
type Deps struct {
	Auth    auth.Service
	Store   session.Store
	Poller  notification.Poller
	History *auth.History
}
