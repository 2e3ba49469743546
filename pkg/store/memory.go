package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory SessionStore for tests and ":memory:" runs.
// It mirrors the SQL stores' validation and error behaviour.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]SessionRecord
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]SessionRecord)}
}

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() error {
	return nil
}

// CreateSession stores a copy of rec.
func (s *MemoryStore) CreateSession(_ context.Context, rec *SessionRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[rec.IDHash]; exists {
		return fmt.Errorf("store: create session: %w", ErrSessionExists)
	}
	// same one-second precision as the SQL stores
	stored := *rec
	stored.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Second)
	stored.ExpiresAt = rec.ExpiresAt.UTC().Truncate(time.Second)
	s.sessions[rec.IDHash] = stored
	return nil
}

// GetSession returns a copy of the stored session, or (nil, nil).
func (s *MemoryStore) GetSession(_ context.Context, idHash string) (*SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[idHash]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// DeleteSession removes a session.
func (s *MemoryStore) DeleteSession(_ context.Context, idHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, idHash)
	return nil
}

// DeleteExpired removes sessions expiring at or before now.
func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, rec := range s.sessions {
		if !rec.ExpiresAt.After(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// CountSessions counts sessions still valid at now.
func (s *MemoryStore) CountSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, rec := range s.sessions {
		if rec.ExpiresAt.After(now) {
			n++
		}
	}
	return n, nil
}
