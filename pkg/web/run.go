package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	sweepInterval   = time.Hour
	shutdownTimeout = 10 * time.Second
)

// Run starts the server and blocks until shutdown signal.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", s.cfg.ListenAddr, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	slog.Info("Jeevanra listening",
		"addr", ln.Addr().String(),
		"api", s.api.BaseURL(),
		"weather", s.weather.Configured(),
		"relay", s.relay != nil,
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down...")
	case err := <-errCh:
		s.Shutdown()
		return err
	}
	s.Shutdown()
	return nil
}

// Serve serves pages on ln and starts the background workers. It returns
// when the listener fails or Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.StartMetricsHTTP()
	s.metrics.StartPeriodicLog(60*time.Second, s.ctx.Done())
	go s.sweepSessions(sweepInterval)
	if s.relay != nil {
		go func() {
			if err := s.relay.Run(s.ctx); err != nil {
				slog.Error("toast relay stopped", "err", err)
			}
		}()
	}

	if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web: serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server and closes its store.
func (s *Server) Shutdown() {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		slog.Warn("http shutdown", "err", err)
	}
	if s.relay != nil {
		_ = s.relay.Close()
	}
	if err := s.store.Close(); err != nil {
		slog.Warn("close store", "err", err)
	}
}

// sweepSessions removes expired sessions every interval.
func (s *Server) sweepSessions(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			n, err := s.auth.Sweep(s.ctx)
			if err != nil {
				slog.Warn("sweep sessions", "err", err)
				continue
			}
			if n > 0 {
				s.metrics.SessionsSwept.Add(n)
				slog.Info("swept expired sessions", "count", n)
			}
		}
	}
}
