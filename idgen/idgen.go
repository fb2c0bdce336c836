// Package idgen generates the identifiers carried by recordings: session
// ids shared by every event of one recording session, and record ids.
//
// Constructors that need ids accept a Generator so tests can pin them.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv4 returns a Generator of random RFC 9562 version 4 UUIDs in the
// canonical 8-4-4-4-12 lowercase hex form.
func UUIDv4() Generator {
	return func() string {
		return uuid.Must(uuid.NewRandom()).String()
	}
}

// UUIDv7 returns a Generator of time-sortable RFC 9562 version 7 UUIDs.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends a fixed prefix to every id of gen ("rec_", "tab_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Session generates session ids. A recorder draws one at start and stamps
// it on every record of the session.
var Session Generator = UUIDv4()

// Default generates record ids.
var Default Generator = UUIDv7()

// NewSession returns a fresh session id.
func NewSession() string {
	return Session()
}

// New produces an id using the Default generator.
func New() string {
	return Default()
}

// Parse validates a UUID string and returns its canonical form.
func Parse(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("idgen: invalid UUID: %w", err)
	}
	return u.String(), nil
}

// IsSession reports whether s is a canonical version 4 session id.
func IsSession(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && u.Version() == 4 && u.String() == s
}
