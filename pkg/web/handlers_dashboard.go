package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jeevanra/jeevanra/pkg/apiclient"
	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/weather"
)

const recentLimit = 5

// Weekday labels of the dashboard chart, Monday first.
var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type bar struct {
	Label  string
	Value  float64
	Height int // percent of the tallest bar
}

type dashboardData struct {
	Report      model.Report
	Bars        []bar
	Placeholder bool
	ReportError string

	Recent      []model.Activity
	RecentError string

	Weather weather.Suggestion
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	ctx := r.Context()
	var data dashboardData

	// Panels load independently; a failing one never cancels the others.
	var g errgroup.Group
	g.Go(func() error {
		rep, err := s.api.Reports(ctx, sess.Token)
		if err != nil {
			slog.Warn("load reports", "email", sess.Email, "err", err)
			data.ReportError = apiclient.UserMessage(err, "Failed to fetch reports")
			rep = &model.Report{}
		}
		data.Placeholder = rep.Total == 0 && len(rep.Weekly) == 0
		data.Report = rep.WithDefaults()
		data.Bars = bars(data.Report.Weekly)
		return nil
	})
	g.Go(func() error {
		acts, err := s.api.RecentActivities(ctx, recentLimit, sess.Token)
		if err != nil {
			slog.Warn("load recent activities", "email", sess.Email, "err", err)
			data.RecentError = apiclient.UserMessage(err, "Failed to fetch recent activities")
			return nil
		}
		data.Recent = acts
		return nil
	})
	g.Go(func() error {
		data.Weather = s.weatherPanel(ctx, sess)
		return nil
	})
	_ = g.Wait()

	s.render(w, r, http.StatusOK, "dashboard", "Dashboard", sess, data, nil)
}

// weatherPanel loads the profile, then the weather at its location.
func (s *Server) weatherPanel(ctx context.Context, sess *model.Session) weather.Suggestion {
	prof, err := s.api.Profile(ctx, sess.Email, sess.Token)
	if err != nil {
		slog.Warn("load profile for weather", "email", sess.Email, "err", err)
		return weather.Failed("Failed to load profile")
	}
	if strings.TrimSpace(prof.Location) != "" {
		s.metrics.WeatherLookups.Add(1)
	}
	return s.weather.Suggestion(ctx, prof.Location)
}

func bars(values []float64) []bar {
	top := 0.0
	for _, v := range values {
		if v > top {
			top = v
		}
	}
	out := make([]bar, len(values))
	for i, v := range values {
		label := ""
		if i < len(weekdays) {
			label = weekdays[i]
		}
		out[i] = bar{Label: label, Value: v, Height: percentOf(v, top)}
	}
	return out
}

type activitiesData struct {
	Activities []model.Activity
	Error      string
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	var data activitiesData
	acts, err := s.api.AllActivities(r.Context(), sess.Token)
	if err != nil {
		slog.Warn("load activities", "email", sess.Email, "err", err)
		data.Error = apiclient.UserMessage(err, "Failed to fetch activities")
	}
	data.Activities = acts
	s.render(w, r, http.StatusOK, "activities", "Activities", sess, data, nil)
}
