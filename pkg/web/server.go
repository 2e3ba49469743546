// Package web serves the Jeevanra pages. It keeps sessions server side,
// calls the remote API and the weather API for the signed-in user and
// relays toasts between the user's open tabs.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"github.com/jeevanra/jeevanra/pkg/apiclient"
	"github.com/jeevanra/jeevanra/pkg/auth"
	"github.com/jeevanra/jeevanra/pkg/catalog"
	"github.com/jeevanra/jeevanra/pkg/crypto"
	"github.com/jeevanra/jeevanra/pkg/notify"
	"github.com/jeevanra/jeevanra/pkg/store"
	"github.com/jeevanra/jeevanra/pkg/version"
	"github.com/jeevanra/jeevanra/pkg/weather"
)

// Dependencies holds external dependencies for the server.
// Server assumes ownership of Store and Redis and closes them on shutdown.
// API and Weather are built from Config when nil; Catalog defaults to the
// embedded table.
type Dependencies struct {
	Store   store.SessionStore
	API     *apiclient.Client
	Weather *weather.Client
	Catalog *catalog.Catalog
	Redis   *redis.Client
}

// Server is the Jeevanra front end.
type Server struct {
	cfg     Config
	store   store.SessionStore
	api     *apiclient.Client
	weather *weather.Client
	catalog *catalog.Catalog
	auth    *auth.Authenticator
	hub     *notify.Hub
	relay   *notify.RedisRelay
	cookies *sessions.CookieStore
	pages   *renderer
	metrics *Metrics
	handler http.Handler
	httpSrv *http.Server
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a new Server instance.
func New(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("web: missing store dependency")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		store:   deps.Store,
		api:     deps.API,
		weather: deps.Weather,
		catalog: deps.Catalog,
		hub:     notify.NewHub(),
		metrics: NewMetrics(),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}

	if s.api == nil {
		api, err := apiclient.New(cfg.APIURL,
			apiclient.WithUserAgent(version.UserAgent()),
			apiclient.WithObserver(s.metrics.ObserveAPI),
		)
		if err != nil {
			cancel()
			return nil, err
		}
		s.api = api
	}
	if s.weather == nil {
		s.weather = weather.NewClient(cfg.WeatherURL, cfg.WeatherKey)
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		slog.Warn("no session secret configured, sessions will not survive a restart")
		generated, err := crypto.GenerateSecret()
		if err != nil {
			cancel()
			return nil, err
		}
		secret = generated
	}
	keys, err := crypto.DeriveKeys(secret)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("web: session secret: %w", err)
	}
	sealer, err := crypto.NewSealer(keys.TokenSeal)
	if err != nil {
		cancel()
		return nil, err
	}
	s.cookies = newCookieStore(keys, cfg.CookieSecure)
	s.auth = auth.New(s.api, s.store, sealer, auth.WithClock(func() time.Time { return s.now() }))

	s.hub.OnDeliver(func(n int) { s.metrics.ToastsReceived.Add(int64(n)) })
	if deps.Redis != nil {
		s.relay = notify.NewRedisRelay(deps.Redis, s.hub)
	}

	pages, err := newRenderer(s.catalog)
	if err != nil {
		cancel()
		return nil, err
	}
	s.pages = pages
	s.handler = s.routes()
	s.httpSrv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Handler returns the page handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Hub returns the toast hub.
func (s *Server) Hub() *notify.Hub {
	return s.hub
}

func (s *Server) activeSessions() int64 {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	n, err := s.store.CountSessions(ctx, s.now())
	if err != nil {
		slog.Debug("count sessions", "err", err)
		return 0
	}
	return n
}
