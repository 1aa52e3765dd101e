package devbackend

import (
	"errors"
	"sync"

	jwtinfra "github.com/go-feeding-dashboard/internal/infrastructure/jwt"
)

var errRevoked = errors.New("token revoked")

// revocableVerifier rejects tokens that were logged out.
type revocableVerifier struct {
	provider *jwtinfra.Provider

	mu      sync.RWMutex
	revoked map[string]struct{}
}

func newRevocableVerifier(p *jwtinfra.Provider) *revocableVerifier {
	return &revocableVerifier{provider: p, revoked: make(map[string]struct{})}
}

func (v *revocableVerifier) Verify(token string) (*jwtinfra.Claims, error) {
	v.mu.RLock()
	_, gone := v.revoked[token]
	v.mu.RUnlock()
	if gone {
		return nil, errRevoked
	}
	return v.provider.Verify(token)
}

func (v *revocableVerifier) Revoke(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.revoked[token] = struct{}{}
}
