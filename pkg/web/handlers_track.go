package web

import (
	"log/slog"
	"net/http"

	"github.com/jeevanra/jeevanra/pkg/apiclient"
	"github.com/jeevanra/jeevanra/pkg/catalog"
	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/notify"
)

const (
	defaultActivityType = "commute_car"
	msgTracked          = "Activity tracked successfully!"
	trackedDuration     = 3000
)

type trackData struct {
	Groups []catalog.Group
	Type   string
	Units  string
	Error  string
}

func (s *Server) handleTrackForm(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	data := trackData{Groups: s.catalog.Groups(), Type: defaultActivityType}
	if t := r.URL.Query().Get("type"); t != "" {
		if _, ok := s.catalog.Lookup(t); ok {
			data.Type = t
		}
	}
	s.render(w, r, http.StatusOK, "track", "Track activity", sess, data, nil)
}

// handleTrack submits the form. The page is rendered directly rather than
// redirected so the typed units survive a failure.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	data := trackData{
		Groups: s.catalog.Groups(),
		Type:   r.FormValue("type"),
		Units:  r.FormValue("units"),
	}
	var (
		req model.TrackRequest
		err error
	)
	if _, ok := s.catalog.Lookup(data.Type); ok {
		req, err = model.NewTrackRequest(data.Type, data.Units, sess.Email)
	} else {
		err = model.ErrActivityTypeUnknown
	}
	if err != nil {
		data.Error = model.UserMessage(err, "Please enter a valid positive number for units")
		s.render(w, r, http.StatusUnprocessableEntity, "track", "Track activity", sess, data, nil)
		return
	}

	b, sink := s.toaster(r, sess)
	if err := s.api.Track(r.Context(), req, sess.Token); err != nil {
		slog.Warn("track activity", "email", sess.Email, "type", req.Type, "err", err)
		msg := apiclient.UserMessage(err, "Failed to track activity")
		data.Error = msg
		b.Error(msg)
		s.render(w, r, http.StatusBadGateway, "track", "Track activity", sess, data, sink.msgs)
		return
	}

	s.metrics.ActivitiesTracked.Add(1)
	slog.Info("activity tracked", "email", sess.Email, "type", req.Type, "units", req.Units)
	b.Notify(notify.KindSuccess, msgTracked, notify.Options{Duration: trackedDuration})
	data.Units = ""
	s.render(w, r, http.StatusOK, "track", "Track activity", sess, data, sink.msgs)
}
