package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-feeding-dashboard/internal/domain"
)

// Storage is the durable key-value store the session lives in. SetMany
// must apply all values in one write so no partial key set is observable.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store persists the authenticated session.
type Store interface {
	// Save writes every session key in one operation. It returns an error
	// only for a partial session; storage failures are logged and dropped.
	Save(ctx context.Context, s *domain.Session) error
	// Load returns the stored session, or false when no token is stored.
	// Unreadable fields degrade individually and never fail the call.
	Load(ctx context.Context) (*domain.Session, bool)
	// Clear removes every session key. Safe to call on an empty store.
	Clear(ctx context.Context)
}

type store struct {
	storage Storage
	logger  *slog.Logger
}

// NewStore returns a Store over storage. A nil logger uses slog.Default().
func NewStore(storage Storage, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &store{storage: storage, logger: logger}
}

func (s *store) Save(ctx context.Context, sess *domain.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("session requires token and role: %w", domain.ErrBadRequest)
	}
	profile, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	values := map[string]string{
		domain.KeyToken:      sess.Token,
		domain.KeyUser:       string(profile),
		domain.KeyRole:       sess.Role,
		domain.KeyDistrictID: sess.DistrictID,
		domain.KeySchoolID:   sess.SchoolID,
		domain.KeyUserID:     sess.UserID,
	}
	if err := s.storage.SetMany(ctx, values); err != nil {
		s.logger.Warn("session write failed", "err", err)
		// A failed batch may still have landed partially on some backends.
		if derr := s.storage.Delete(ctx, domain.SessionKeys...); derr != nil {
			s.logger.Warn("session rollback failed", "err", derr)
		}
	}
	return nil
}

func (s *store) Load(ctx context.Context) (*domain.Session, bool) {
	token := s.get(ctx, domain.KeyToken)
	if token == "" {
		return nil, false
	}
	sess := &domain.Session{
		Token:      token,
		Role:       s.get(ctx, domain.KeyRole),
		DistrictID: s.get(ctx, domain.KeyDistrictID),
		SchoolID:   s.get(ctx, domain.KeySchoolID),
		UserID:     s.get(ctx, domain.KeyUserID),
	}
	if raw := s.get(ctx, domain.KeyUser); raw != "" {
		var p *domain.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.logger.Warn("stored profile is not valid JSON, ignoring", "err", err)
		} else {
			sess.Profile = p
		}
	}
	return sess, true
}

func (s *store) Clear(ctx context.Context) {
	if err := s.storage.Delete(ctx, domain.SessionKeys...); err != nil {
		s.logger.Warn("session clear failed", "err", err)
	}
}

// get reads one key; errors and missing keys both read as "".
func (s *store) get(ctx context.Context, key string) string {
	v, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logger.Warn("session read failed", "key", key, "err", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}
