package store

import (
	"context"
	"fmt"
	"strings"
)

// Open picks a backend from dsn: "postgres://" or "postgresql://" URLs use
// PGStore, ":memory:" uses MemoryStore, anything else is a SQLite file path
// (an optional "sqlite://" prefix is stripped).
func Open(ctx context.Context, dsn string) (SessionStore, error) {
	switch {
	case dsn == "":
		return nil, fmt.Errorf("%w: empty dsn", ErrUnknownBackend)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgres(ctx, dsn)
	case dsn == ":memory:":
		return NewMemory(), nil
	case strings.Contains(dsn, "://") && !strings.HasPrefix(dsn, "sqlite://"):
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, dsn[:strings.Index(dsn, "://")])
	default:
		return New(strings.TrimPrefix(dsn, "sqlite://"))
	}
}
