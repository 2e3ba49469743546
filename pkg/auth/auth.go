// Package auth runs the sign-in lifecycle: credentials go to the remote
// API, the returned bearer token is decoded for display and kept in a
// server-side session that the browser references by a random id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeevanra/jeevanra/pkg/apiclient"
	"github.com/jeevanra/jeevanra/pkg/crypto"
	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/store"
)

// DefaultTTL is how long a session stays signed in.
const DefaultTTL = 30 * 24 * time.Hour

// User-facing texts of the auth flow.
const (
	MsgAuthFailed      = "Authentication failed. Please try again."
	MsgSignedIn        = "Login successful!"
	MsgSignedOut       = "Successfully signed out"
	MsgRegistered      = "Registration successful! Please login."
	MsgRegisterFailed  = "Registration failed"
	MsgInvalidPassword = "Invalid email or password"
)

var (
	// ErrAuthFailed is the only error SignIn returns for a failed sign-in.
	ErrAuthFailed = errors.New("auth: authentication failed")
	ErrNoToken    = errors.New("auth: login response carried no token")
)

// State of a browser's session.
type State int

const (
	StateSignedOut State = iota
	StateAuthenticating
	StateSignedIn
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateSignedIn:
		return "signed-in"
	default:
		return "signed-out"
	}
}

// StateOf reports the state of sess at now. A nil or expired session is
// signed out.
func StateOf(sess *model.Session, now time.Time) State {
	if sess == nil || sess.Token == "" || sess.Expired(now) {
		return StateSignedOut
	}
	return StateSignedIn
}

// API is the subset of the REST client used for authentication.
type API interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, creds model.Credentials) error
}

// Authenticator creates, resolves and ends sessions.
type Authenticator struct {
	api    API
	store  store.SessionStore
	sealer *crypto.Sealer
	ttl    time.Duration
	now    func() time.Time

	// OnTransition, when set, observes every state change of a sign-in.
	OnTransition func(email string, from, to State)
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(a *Authenticator) { a.ttl = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// New creates an Authenticator.
func New(api API, st store.SessionStore, sealer *crypto.Sealer, opts ...Option) *Authenticator {
	a := &Authenticator{
		api:    api,
		store:  st,
		sealer: sealer,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Authenticator) transition(email string, from, to State) {
	slog.Debug("auth state", "email", email, "from", from, "to", to)
	if a.OnTransition != nil {
		a.OnTransition(email, from, to)
	}
}

// SignIn exchanges credentials for a session. Every failure, including
// missing credentials, is reported as ErrAuthFailed; the cause is logged.
// The returned session's ID is the raw id for the browser cookie.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	a.transition(email, StateSignedOut, StateAuthenticating)

	sess, err := a.signIn(ctx, email, password)
	if err != nil {
		slog.Warn("sign in failed", "email", email, "err", err)
		a.transition(email, StateAuthenticating, StateSignedOut)
		return nil, ErrAuthFailed
	}

	a.transition(email, StateAuthenticating, StateSignedIn)
	slog.Info("signed in", "email", sess.Email, "user_id", sess.UserID)
	return sess, nil
}

func (a *Authenticator) signIn(ctx context.Context, email, password string) (*model.Session, error) {
	creds := model.Credentials{Email: email, Password: password}
	if err := creds.Validate(false); err != nil {
		return nil, err
	}

	resp, err := a.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrNoToken
	}
	ident, err := DecodeClaims(resp.Token, creds.Email)
	if err != nil {
		return nil, err
	}

	rawID, err := crypto.GenerateToken()
	if err != nil {
		return nil, err
	}
	idHash := crypto.HashToken(rawID)
	sealed, err := a.sealer.Seal(resp.Token, idHash)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC().Truncate(time.Second)
	rec := &store.SessionRecord{
		IDHash:      idHash,
		UserID:      ident.ID,
		Email:       ident.Email,
		Name:        ident.Name,
		SealedToken: sealed,
		CreatedAt:   now,
		ExpiresAt:   now.Add(a.ttl),
	}
	if err := a.store.CreateSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("auth: store session: %w", err)
	}

	return &model.Session{
		ID:        rawID,
		UserID:    ident.ID,
		Email:     ident.Email,
		Name:      ident.Name,
		Token:     resp.Token,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// Register creates an account. Validation errors are returned as is;
// API failures are wrapped in *apiclient.APIError.
func (a *Authenticator) Register(ctx context.Context, creds model.Credentials) error {
	if err := creds.Validate(true); err != nil {
		return err
	}
	if err := a.api.Register(ctx, creds); err != nil {
		slog.Warn("register failed", "email", creds.Email, "err", err)
		return err
	}
	slog.Info("registered", "email", creds.Email)
	return nil
}

// Lookup resolves the raw session id from a cookie. It returns (nil, nil)
// for unknown or expired sessions; expired rows are removed.
func (a *Authenticator) Lookup(ctx context.Context, rawID string) (*model.Session, error) {
	if rawID == "" {
		return nil, nil
	}
	idHash := crypto.HashToken(rawID)
	rec, err := a.store.GetSession(ctx, idHash)
	if err != nil {
		return nil, fmt.Errorf("auth: load session: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	sess := &model.Session{
		ID:        rawID,
		UserID:    rec.UserID,
		Email:     rec.Email,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	if sess.Expired(a.now()) {
		if err := a.store.DeleteSession(ctx, idHash); err != nil {
			slog.Warn("delete expired session", "err", err)
		}
		return nil, nil
	}

	token, err := a.sealer.Open(rec.SealedToken, idHash)
	if err != nil {
		// Sealed under another secret: treat as signed out.
		slog.Warn("open session token", "email", rec.Email, "err", err)
		_ = a.store.DeleteSession(ctx, idHash)
		return nil, nil
	}
	sess.Token = token
	return sess, nil
}

// SignOut ends the session with the given raw id.
func (a *Authenticator) SignOut(ctx context.Context, rawID string) error {
	if rawID == "" {
		return nil
	}
	if err := a.store.DeleteSession(ctx, crypto.HashToken(rawID)); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}

// Sweep removes expired sessions and returns how many were removed.
func (a *Authenticator) Sweep(ctx context.Context) (int64, error) {
	return a.store.DeleteExpired(ctx, a.now())
}
