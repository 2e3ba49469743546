package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeevanra/jeevanra/pkg/crypto"
	"github.com/jeevanra/jeevanra/pkg/store"

	"github.com/google/go-cmp/cmp"
)

func NewTestSqlConn(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return st
}

// withStores runs fn against every backend available in this environment.
// PostgreSQL runs only when JEEVANRA_TEST_PG_DSN points at a scratch database.
func withStores(t *testing.T, fn func(t *testing.T, st store.SessionStore)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) {
		fn(t, NewTestSqlConn(t))
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, store.NewMemory())
	})
	if dsn := os.Getenv("JEEVANRA_TEST_PG_DSN"); dsn != "" {
		t.Run("postgres", func(t *testing.T) {
			ctx := context.Background()
			st, err := store.NewPostgres(ctx, dsn)
			if err != nil {
				t.Fatalf("NewPostgres: %v", err)
			}
			t.Cleanup(func() {
				_, _ = st.DeleteExpired(ctx, time.Now().Add(100*365*24*time.Hour))
				_ = st.Close()
			})
			fn(t, st)
		})
	}
}

var baseTime = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func newRecord(t *testing.T, email string, ttl time.Duration) *store.SessionRecord {
	t.Helper()
	raw, err := crypto.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return &store.SessionRecord{
		IDHash:      crypto.HashToken(raw),
		UserID:      "u-1",
		Email:       email,
		Name:        "Asha",
		SealedToken: "sealed-value",
		CreatedAt:   baseTime,
		ExpiresAt:   baseTime.Add(ttl),
	}
}

func TestSessionLifecycle(t *testing.T) {
	withStores(t, func(t *testing.T, st store.SessionStore) {
		ctx := context.Background()
		rec := newRecord(t, "asha@example.com", 30*24*time.Hour)

		if err := st.CreateSession(ctx, rec); err != nil {
			t.Fatalf("CreateSession: unexpected error: %v", err)
		}

		got, err := st.GetSession(ctx, rec.IDHash)
		if err != nil {
			t.Fatalf("GetSession: unexpected error: %v", err)
		}
		if diff := cmp.Diff(rec, got); diff != "" {
			t.Fatalf("GetSession mismatch (-want +got):\n%s", diff)
		}

		if err := st.CreateSession(ctx, rec); !errors.Is(err, store.ErrSessionExists) {
			t.Fatalf("CreateSession duplicate: err = %v, want ErrSessionExists", err)
		}

		if err := st.DeleteSession(ctx, rec.IDHash); err != nil {
			t.Fatalf("DeleteSession: unexpected error: %v", err)
		}
		got, err = st.GetSession(ctx, rec.IDHash)
		if err != nil || got != nil {
			t.Fatalf("GetSession after delete = %v, %v; want nil, nil", got, err)
		}
		if err := st.DeleteSession(ctx, rec.IDHash); err != nil {
			t.Fatalf("DeleteSession missing: unexpected error: %v", err)
		}
	})
}

func TestDeleteExpired(t *testing.T) {
	withStores(t, func(t *testing.T, st store.SessionStore) {
		ctx := context.Background()
		short := newRecord(t, "short@example.com", time.Hour)
		long := newRecord(t, "long@example.com", 48*time.Hour)
		for _, rec := range []*store.SessionRecord{short, long} {
			if err := st.CreateSession(ctx, rec); err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
		}

		n, err := st.CountSessions(ctx, baseTime)
		if err != nil || n != 2 {
			t.Fatalf("CountSessions = %d, %v; want 2", n, err)
		}

		removed, err := st.DeleteExpired(ctx, baseTime.Add(time.Hour))
		if err != nil {
			t.Fatalf("DeleteExpired: %v", err)
		}
		if removed != 1 {
			t.Fatalf("DeleteExpired removed %d, want 1", removed)
		}

		if got, _ := st.GetSession(ctx, short.IDHash); got != nil {
			t.Errorf("expired session still present")
		}
		if got, _ := st.GetSession(ctx, long.IDHash); got == nil {
			t.Errorf("live session removed")
		}
		n, err = st.CountSessions(ctx, baseTime.Add(time.Hour))
		if err != nil || n != 1 {
			t.Errorf("CountSessions = %d, %v; want 1", n, err)
		}
	})
}

func TestCreateSessionValidation(t *testing.T) {
	type tcase struct {
		mutate  func(r *store.SessionRecord)
		wantErr error
	}

	tcases := map[string]tcase{
		"short_hash": {
			mutate:  func(r *store.SessionRecord) { r.IDHash = "abc" },
			wantErr: store.ErrSessionIDHash,
		},
		"injection_hash": {
			mutate:  func(r *store.SessionRecord) { r.IDHash = "' OR '1'='1" },
			wantErr: store.ErrSessionIDHash,
		},
		"empty_email": {
			mutate:  func(r *store.SessionRecord) { r.Email = " " },
			wantErr: store.ErrSessionEmail,
		},
		"no_token": {
			mutate:  func(r *store.SessionRecord) { r.SealedToken = "" },
			wantErr: store.ErrSessionToken,
		},
		"expires_before_created": {
			mutate:  func(r *store.SessionRecord) { r.ExpiresAt = r.CreatedAt.Add(-time.Second) },
			wantErr: store.ErrSessionExpiry,
		},
	}

	withStores(t, func(t *testing.T, st store.SessionStore) {
		for name, tc := range tcases {
			t.Run(name, func(t *testing.T) {
				rec := newRecord(t, "x@example.com", time.Hour)
				tc.mutate(rec)
				if err := st.CreateSession(context.Background(), rec); !errors.Is(err, tc.wantErr) {
					t.Fatalf("CreateSession err = %v, want %v", err, tc.wantErr)
				}
			})
		}
	})
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	st, err := store.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := newRecord(t, "keep@example.com", time.Hour)
	if err := st.CreateSession(context.Background(), rec); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := store.New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, err := reopened.GetSession(context.Background(), rec.IDHash)
	if err != nil || got == nil {
		t.Fatalf("GetSession after reopen = %v, %v", got, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	st, err := store.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:): %v", err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("Open(:memory:) = %T, want *store.MemoryStore", st)
	}

	path := "sqlite://" + filepath.Join(t.TempDir(), "open.db")
	st, err = store.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	if _, ok := st.(*store.Store); !ok {
		t.Errorf("Open(sqlite) = %T, want *store.Store", st)
	}
	_ = st.Close()

	for _, dsn := range []string{"", "mysql://localhost/db"} {
		if _, err := store.Open(ctx, dsn); !errors.Is(err, store.ErrUnknownBackend) {
			t.Errorf("Open(%q) err = %v, want ErrUnknownBackend", dsn, err)
		}
	}
}
