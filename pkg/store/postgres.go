package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PGStore is the PostgreSQL SessionStore. Several front-end instances behind
// a load balancer can share it.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and runs migrations.
func NewPostgres(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGStore) migrate(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialise concurrent starts of several instances.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(7316524)"); err != nil {
		return fmt.Errorf("store: lock migrations: %w", err)
	}
	if _, err := tx.Exec(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("store: create schema_migrations: %w", err)
	}

	var version int
	err = tx.QueryRow(ctx, "SELECT version FROM schema_migrations LIMIT 1").Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES (0)"); err != nil {
			return fmt.Errorf("store: init schema_migrations: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("store: read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		for _, stmt := range m.statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("store: migrate v%d: %w", m.version, err)
			}
		}
		if _, err := tx.Exec(ctx, "UPDATE schema_migrations SET version = $1", m.version); err != nil {
			return fmt.Errorf("store: update schema version: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// CreateSession inserts a new session row.
func (s *PGStore) CreateSession(ctx context.Context, rec *SessionRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO sessions (id_hash, user_id, email, name, sealed_token, created_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		rec.IDHash, rec.UserID, rec.Email, rec.Name, rec.SealedToken, formatDBTime(rec.CreatedAt), formatDBTime(rec.ExpiresAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("store: create session: %w", ErrSessionExists)
		}
		return fmt.Errorf("store: create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id hash.
func (s *PGStore) GetSession(ctx context.Context, idHash string) (*SessionRecord, error) {
	rec := &SessionRecord{}
	var createdAt, expiresAt string
	err := s.pool.QueryRow(ctx,
		"SELECT id_hash, user_id, email, name, sealed_token, created_at, expires_at FROM sessions WHERE id_hash = $1", idHash).
		Scan(&rec.IDHash, &rec.UserID, &rec.Email, &rec.Name, &rec.SealedToken, &createdAt, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	if rec.CreatedAt, err = parseDBTime(createdAt); err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	if rec.ExpiresAt, err = parseDBTime(expiresAt); err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	return rec, nil
}

// DeleteSession removes a session by id hash.
func (s *PGStore) DeleteSession(ctx context.Context, idHash string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE id_hash = $1", idHash); err != nil {
		return fmt.Errorf("store: delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions expiring at or before now.
func (s *PGStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= $1", formatDBTime(now))
	if err != nil {
		return 0, fmt.Errorf("store: delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountSessions counts sessions still valid at now.
func (s *PGStore) CountSessions(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sessions WHERE expires_at > $1", formatDBTime(now)).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count sessions: %w", err)
	}
	return n, nil
}
