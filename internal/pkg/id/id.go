package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. Used for agent instance ids, which also
// serve as the partition key of shared session storage.
func New() string {
	return At(time.Now())
}

// At generates a ULID whose time component is t, so ids minted for
// backdated fixtures still sort by their timestamp.
func At(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

// Valid reports whether s parses as a ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
