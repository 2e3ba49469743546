package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// StartMetricsHTTP starts a lightweight HTTP server that exposes /metrics
// in Prometheus text exposition format and /healthz. It runs in the
// background and shuts down when the server context is cancelled.
func (s *Server) StartMetricsHTTP() {
	addr := s.cfg.MetricsAddr
	if addr == "" {
		return // metrics endpoint disabled
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/metrics.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s.metrics.JSON()))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("metrics HTTP listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics HTTP error", "err", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		_ = srv.Close()
	}()
}

// handleMetrics writes all metrics in Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.metrics
	uptime := time.Since(m.startTime).Seconds()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	write := func(name, help, mtype string, value int64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
	}

	_, _ = fmt.Fprintf(w, "# HELP jeevanra_uptime_seconds Process uptime in seconds.\n")
	_, _ = fmt.Fprintf(w, "# TYPE jeevanra_uptime_seconds gauge\n")
	_, _ = fmt.Fprintf(w, "jeevanra_uptime_seconds %f\n", uptime)

	write("jeevanra_http_requests_total", "Page and action requests served.", "counter",
		m.Requests.Load())

	write("jeevanra_api_calls_total", "Requests sent to the remote API.", "counter",
		m.APICalls.Load())
	write("jeevanra_api_errors_total", "Failed remote API requests.", "counter",
		m.APIErrors.Load())
	write("jeevanra_weather_lookups_total", "Weather API lookups.", "counter",
		m.WeatherLookups.Load())

	write("jeevanra_sign_ins_total", "Successful sign-ins.", "counter",
		m.SignIns.Load())
	write("jeevanra_sign_ins_failed_total", "Failed sign-ins.", "counter",
		m.FailedSignIns.Load())
	write("jeevanra_sign_outs_total", "Sign-outs.", "counter",
		m.SignOuts.Load())
	write("jeevanra_sessions_swept_total", "Expired sessions removed.", "counter",
		m.SessionsSwept.Load())
	write("jeevanra_sessions_active", "Sessions still valid.", "gauge",
		s.activeSessions())

	write("jeevanra_tabs_connected", "Open toast sockets.", "gauge",
		m.TabsConnected.Load())
	write("jeevanra_toasts_published_total", "Toasts published.", "counter",
		m.ToastsSent.Load())
	write("jeevanra_toasts_delivered_total", "Toast deliveries to other tabs.", "counter",
		m.ToastsReceived.Load())

	write("jeevanra_activities_tracked_total", "Activities tracked.", "counter",
		m.ActivitiesTracked.Load())
	write("jeevanra_challenges_joined_total", "Challenges joined.", "counter",
		m.ChallengesJoined.Load())
	write("jeevanra_challenges_left_total", "Challenges left.", "counter",
		m.ChallengesLeft.Load())
	write("jeevanra_challenges_created_total", "Challenges created.", "counter",
		m.ChallengesCreated.Load())
}
