package web

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"
)

// Metrics tracks front-end runtime statistics.
// All counters use atomic operations for lock-free concurrent access.
type Metrics struct {
	startTime time.Time

	// HTTP counters
	Requests atomic.Int64 // page and action requests served

	// Upstream counters
	APICalls       atomic.Int64 // requests sent to the remote API
	APIErrors      atomic.Int64 // failed remote API requests (transport or non-2xx)
	WeatherLookups atomic.Int64 // weather API lookups

	// Session counters
	SignIns        atomic.Int64 // successful sign-ins
	FailedSignIns  atomic.Int64 // failed sign-ins
	SignOuts       atomic.Int64 // sign-outs
	SessionsSwept  atomic.Int64 // expired sessions removed by the sweeper
	TabsConnected  atomic.Int64 // current toast sockets
	ToastsSent     atomic.Int64 // toasts published by a tab or handler
	ToastsReceived atomic.Int64 // toast deliveries to other tabs

	// Domain counters
	ActivitiesTracked atomic.Int64
	ChallengesJoined  atomic.Int64
	ChallengesLeft    atomic.Int64
	ChallengesCreated atomic.Int64
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`

	Requests int64 `json:"requests"`

	APICalls       int64 `json:"api_calls"`
	APIErrors      int64 `json:"api_errors"`
	WeatherLookups int64 `json:"weather_lookups"`

	SignIns        int64 `json:"sign_ins"`
	FailedSignIns  int64 `json:"failed_sign_ins"`
	SignOuts       int64 `json:"sign_outs"`
	SessionsSwept  int64 `json:"sessions_swept"`
	TabsConnected  int64 `json:"tabs_connected"`
	ToastsSent     int64 `json:"toasts_sent"`
	ToastsReceived int64 `json:"toasts_received"`

	ActivitiesTracked int64 `json:"activities_tracked"`
	ChallengesJoined  int64 `json:"challenges_joined"`
	ChallengesLeft    int64 `json:"challenges_left"`
	ChallengesCreated int64 `json:"challenges_created"`
}

// Snapshot returns a read-consistent snapshot of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime)
	return MetricsSnapshot{
		Uptime:            uptime.Truncate(time.Second).String(),
		UptimeSeconds:     int64(uptime.Seconds()),
		Requests:          m.Requests.Load(),
		APICalls:          m.APICalls.Load(),
		APIErrors:         m.APIErrors.Load(),
		WeatherLookups:    m.WeatherLookups.Load(),
		SignIns:           m.SignIns.Load(),
		FailedSignIns:     m.FailedSignIns.Load(),
		SignOuts:          m.SignOuts.Load(),
		SessionsSwept:     m.SessionsSwept.Load(),
		TabsConnected:     m.TabsConnected.Load(),
		ToastsSent:        m.ToastsSent.Load(),
		ToastsReceived:    m.ToastsReceived.Load(),
		ActivitiesTracked: m.ActivitiesTracked.Load(),
		ChallengesJoined:  m.ChallengesJoined.Load(),
		ChallengesLeft:    m.ChallengesLeft.Load(),
		ChallengesCreated: m.ChallengesCreated.Load(),
	}
}

// JSON returns the metrics snapshot as a JSON string.
func (m *Metrics) JSON() string {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ObserveAPI is the apiclient observer.
func (m *Metrics) ObserveAPI(_ string, _ int, err error) {
	m.APICalls.Add(1)
	if err != nil {
		m.APIErrors.Add(1)
	}
}

// LogSummary writes a periodic metrics summary to the logger.
func (m *Metrics) LogSummary() {
	s := m.Snapshot()
	slog.Info("metrics",
		"uptime", s.Uptime,
		"requests", s.Requests,
		"api_calls", s.APICalls,
		"api_errors", s.APIErrors,
		"tabs", s.TabsConnected,
		"toasts", s.ToastsSent,
		"sign_ins", s.SignIns,
	)
}

// StartPeriodicLog starts a goroutine that logs metrics every interval.
// It stops when the done channel is closed.
func (m *Metrics) StartPeriodicLog(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.LogSummary()
			}
		}
	}()
}
