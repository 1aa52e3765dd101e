package auth

import "github.com/go-feeding-dashboard/internal/domain"

// genericLoginMessage is shown when neither the payload nor the HTTP
// status offers anything better.
const genericLoginMessage = "invalid credentials"

// LoginError is the user-visible outcome of a failed login. Error()
// returns the message meant for display.
type LoginError struct {
	Message string
	// StatusCode is 0 when no HTTP response was received.
	StatusCode int
	// Transport is set when the backend could not be reached at all.
	Transport bool
	cause     error
}

func (e *LoginError) Error() string { return e.Message }

// Unwrap exposes domain.ErrTransport or domain.ErrInvalidCredentials, and
// the underlying transport error when there is one.
func (e *LoginError) Unwrap() []error {
	if e.Transport {
		if e.cause != nil {
			return []error{domain.ErrTransport, e.cause}
		}
		return []error{domain.ErrTransport}
	}
	return []error{domain.ErrInvalidCredentials}
}
