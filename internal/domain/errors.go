package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Components wrap these so the agent API can map them to HTTP status codes
// without leaking transport or storage details.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTransport          = errors.New("backend unreachable")
)
