package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/jeevanra/jeevanra/pkg/apiclient"
	"github.com/jeevanra/jeevanra/pkg/crypto"
	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/store"
)

type fakeAPI struct {
	token      string
	loginErr   error
	registerFn func(model.Credentials) error
	logins     int
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (*apiclient.LoginResponse, error) {
	f.logins++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &apiclient.LoginResponse{Token: f.token}, nil
}

func (f *fakeAPI) Register(_ context.Context, creds model.Credentials) error {
	if f.registerFn != nil {
		return f.registerFn(creds)
	}
	return nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func newTestSealer(t *testing.T, secret string) *crypto.Sealer {
	t.Helper()
	keys, err := crypto.DeriveKeys([]byte(secret))
	if err != nil {
		t.Fatalf("DeriveKeys: %v", err)
	}
	s, err := crypto.NewSealer(keys.TokenSeal)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	return s
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthenticator(t *testing.T, api API) (*Authenticator, *store.MemoryStore, *time.Time) {
	t.Helper()
	st := store.NewMemory()
	now := testNow
	a := New(api, st, newTestSealer(t, strings.Repeat("s", 32)), WithClock(func() time.Time { return now }))
	return a, st, &now
}

func TestDecodeClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		login  string
		want   Identity
	}{
		{
			name:   "all claims",
			claims: jwt.MapClaims{"sub": "u-1", "email": "asha@example.com", "name": "Asha"},
			login:  "other@example.com",
			want:   Identity{ID: "u-1", Email: "asha@example.com", Name: "Asha"},
		},
		{
			name:   "numeric userId and login email",
			claims: jwt.MapClaims{"userId": 42},
			login:  " ravi@example.com ",
			want:   Identity{ID: "42", Email: "ravi@example.com", Name: "ravi@example.com"},
		},
		{
			name:   "id fallback",
			claims: jwt.MapClaims{"id": "7", "email": "mei@example.com"},
			want:   Identity{ID: "7", Email: "mei@example.com", Name: "mei@example.com"},
		},
		{
			name:   "sub wins over userId",
			claims: jwt.MapClaims{"sub": "a", "userId": "b", "name": "N"},
			login:  "n@example.com",
			want:   Identity{ID: "a", Email: "n@example.com", Name: "N"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClaims(signToken(t, tt.claims), tt.login)
			if err != nil {
				t.Fatalf("DecodeClaims: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("identity mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := DecodeClaims("not-a-jwt", "a@b.c"); !errors.Is(err, ErrTokenUndecodable) {
		t.Errorf("garbage token: err = %v", err)
	}
}

func TestSignInLifecycle(t *testing.T) {
	api := &fakeAPI{token: signToken(t, jwt.MapClaims{"sub": "u-1", "email": "asha@example.com", "name": "Asha"})}
	a, st, now := newTestAuthenticator(t, api)

	var states []string
	a.OnTransition = func(_ string, from, to State) { states = append(states, from.String()+">"+to.String()) }

	sess, err := a.SignIn(context.Background(), "asha@example.com", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	wantStates := []string{"signed-out>authenticating", "authenticating>signed-in"}
	if diff := cmp.Diff(wantStates, states); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}
	if StateOf(sess, *now) != StateSignedIn {
		t.Fatalf("state = %v, want signed-in", StateOf(sess, *now))
	}
	if !sess.ExpiresAt.Equal(testNow.Add(DefaultTTL)) {
		t.Errorf("ExpiresAt = %v", sess.ExpiresAt)
	}

	rec, err := st.GetSession(context.Background(), crypto.HashToken(sess.ID))
	if err != nil || rec == nil {
		t.Fatalf("stored session: %v, %v", rec, err)
	}
	if strings.Contains(rec.SealedToken, api.token) {
		t.Errorf("bearer token stored in the clear")
	}

	got, err := a.Lookup(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if diff := cmp.Diff(sess, got); diff != "" {
		t.Errorf("Lookup mismatch (-want +got):\n%s", diff)
	}

	if err := a.SignOut(context.Background(), sess.ID); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if got, _ := a.Lookup(context.Background(), sess.ID); got != nil {
		t.Errorf("session still resolves after sign-out")
	}
}

func TestSignInFailuresAreGeneric(t *testing.T) {
	tests := []struct {
		name       string
		api        *fakeAPI
		email      string
		password   string
		wantLogins int
	}{
		{"missing password", &fakeAPI{token: "x"}, "a@b.c", "", 0},
		{"invalid credentials", &fakeAPI{loginErr: &apiclient.APIError{Resource: "account", Op: "sign in to", Status: http.StatusUnauthorized, Detail: "Invalid credentials"}}, "a@b.c", "pw", 1},
		{"network failure", &fakeAPI{loginErr: &apiclient.APIError{Resource: "account", Op: "sign in to", Err: errors.New("connection refused")}}, "a@b.c", "pw", 1},
		{"missing token", &fakeAPI{}, "a@b.c", "pw", 1},
		{"undecodable token", &fakeAPI{token: "opaque"}, "a@b.c", "pw", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, st, now := newTestAuthenticator(t, tt.api)
			sess, err := a.SignIn(context.Background(), tt.email, tt.password)
			if !errors.Is(err, ErrAuthFailed) || err.Error() != ErrAuthFailed.Error() {
				t.Fatalf("err = %v, want bare ErrAuthFailed", err)
			}
			if sess != nil {
				t.Errorf("session returned on failure")
			}
			if tt.api.logins != tt.wantLogins {
				t.Errorf("logins = %d, want %d", tt.api.logins, tt.wantLogins)
			}
			if n, _ := st.CountSessions(context.Background(), *now); n != 0 {
				t.Errorf("sessions stored = %d", n)
			}
		})
	}
}

func TestLookupExpiredAndForeignSessions(t *testing.T) {
	api := &fakeAPI{token: signToken(t, jwt.MapClaims{"sub": "u-1", "email": "a@b.c"})}
	a, st, now := newTestAuthenticator(t, api)

	sess, err := a.SignIn(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	*now = testNow.Add(DefaultTTL)
	if got, err := a.Lookup(context.Background(), sess.ID); got != nil || err != nil {
		t.Fatalf("expired Lookup = %v, %v", got, err)
	}
	if rec, _ := st.GetSession(context.Background(), crypto.HashToken(sess.ID)); rec != nil {
		t.Errorf("expired session not deleted")
	}

	// A session sealed under a different secret no longer opens.
	*now = testNow
	sess, err = a.SignIn(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	rotated := New(api, st, newTestSealer(t, strings.Repeat("r", 32)), WithClock(func() time.Time { return *now }))
	if got, err := rotated.Lookup(context.Background(), sess.ID); got != nil || err != nil {
		t.Errorf("foreign Lookup = %v, %v", got, err)
	}

	if got, err := a.Lookup(context.Background(), "unknown"); got != nil || err != nil {
		t.Errorf("unknown Lookup = %v, %v", got, err)
	}
}

func TestRegister(t *testing.T) {
	var sent model.Credentials
	api := &fakeAPI{registerFn: func(c model.Credentials) error { sent = c; return nil }}
	a, _, _ := newTestAuthenticator(t, api)

	if err := a.Register(context.Background(), model.Credentials{Email: "a@b.c", Password: "pw"}); !errors.Is(err, model.ErrNameMissing) {
		t.Errorf("missing name: err = %v", err)
	}
	if err := a.Register(context.Background(), model.Credentials{Email: " a@b.c ", Password: "pw", Name: "A"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if diff := cmp.Diff(model.Credentials{Email: "a@b.c", Password: "pw", Name: "A"}, sent); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
}

func TestSweep(t *testing.T) {
	api := &fakeAPI{token: signToken(t, jwt.MapClaims{"sub": "u"})}
	a, _, now := newTestAuthenticator(t, api)
	if _, err := a.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	*now = testNow.Add(DefaultTTL + time.Hour)
	n, err := a.Sweep(context.Background())
	if err != nil || n != 1 {
		t.Errorf("Sweep = %d, %v; want 1", n, err)
	}
}
