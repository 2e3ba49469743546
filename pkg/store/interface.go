package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrSessionIDHash  = errors.New("session id hash must be 64 hex characters")
	ErrSessionEmail   = errors.New("session email must not be empty")
	ErrSessionToken   = errors.New("session sealed token must not be empty")
	ErrSessionExpiry  = errors.New("session must expire after it was created")
	ErrSessionExists  = errors.New("session already exists")
	ErrUnknownBackend = errors.New("store: unknown database backend")
)

var idHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// SessionRecord is the persisted form of a signed-in session. The raw
// session id never reaches storage: rows are keyed by its SHA-256 hash and
// the bearer token is stored sealed.
type SessionRecord struct {
	IDHash      string
	UserID      string
	Email       string
	Name        string
	SealedToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Validate checks a record before it is written.
func (r *SessionRecord) Validate() error {
	switch {
	case !idHashPattern.MatchString(r.IDHash):
		return ErrSessionIDHash
	case strings.TrimSpace(r.Email) == "":
		return ErrSessionEmail
	case r.SealedToken == "":
		return ErrSessionToken
	case !r.ExpiresAt.After(r.CreatedAt):
		return ErrSessionExpiry
	}
	return nil
}

// SessionStore persists sessions. Implementations: the SQLite Store, the
// PostgreSQL PGStore and MemoryStore for tests.
type SessionStore interface {
	// Close closes the underlying storage connection.
	Close() error

	// CreateSession inserts a new session. Returns ErrSessionExists on a
	// duplicate id hash.
	CreateSession(ctx context.Context, rec *SessionRecord) error

	// GetSession retrieves a session by id hash. Returns (nil, nil) if not found.
	GetSession(ctx context.Context, idHash string) (*SessionRecord, error)

	// DeleteSession removes a session. Deleting a missing session is not an error.
	DeleteSession(ctx context.Context, idHash string) error

	// DeleteExpired removes every session whose expiry is at or before now
	// and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// CountSessions returns the number of sessions still valid at now.
	CountSessions(ctx context.Context, now time.Time) (int64, error)
}

// Compile-time checks.
var (
	_ SessionStore = (*Store)(nil)
	_ SessionStore = (*PGStore)(nil)
	_ SessionStore = (*MemoryStore)(nil)
)
