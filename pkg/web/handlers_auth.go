package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jeevanra/jeevanra/pkg/apiclient"
	"github.com/jeevanra/jeevanra/pkg/auth"
	"github.com/jeevanra/jeevanra/pkg/model"
)

const defaultCallback = "/dashboard"

type landingData struct {
	CallbackURL string
	Register    bool
	Email       string
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	callback := safeCallback(r.URL.Query().Get("callbackUrl"), defaultCallback)
	if sess := s.currentSession(r); sess != nil {
		http.Redirect(w, r, callback, http.StatusSeeOther)
		return
	}
	data := landingData{
		CallbackURL: callback,
		Register:    r.URL.Query().Get("mode") == "signup",
		Email:       r.URL.Query().Get("email"),
	}
	s.render(w, r, http.StatusOK, "landing", "Jeevanra", nil, data, nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	callback := safeCallback(r.FormValue("callbackUrl"), defaultCallback)

	sess, err := s.auth.SignIn(r.Context(), email, r.FormValue("password"))
	if err != nil {
		s.metrics.FailedSignIns.Add(1)
		b, sink := s.toaster(r, nil)
		b.Error(auth.MsgAuthFailed)
		target := "/?callbackUrl=" + url.QueryEscape(callback) + "&email=" + url.QueryEscape(email)
		s.redirectWithToasts(w, r, target, sink.msgs)
		return
	}
	s.metrics.SignIns.Add(1)

	if err := s.startSession(w, r, sess); err != nil {
		slog.Error("save session cookie", "err", err)
		s.revoke(r.Context(), sess)
		b, sink := s.toaster(r, nil)
		b.Error(auth.MsgAuthFailed)
		s.redirectWithToasts(w, r, "/", sink.msgs)
		return
	}

	b, sink := s.toaster(r, sess)
	b.Success(auth.MsgSignedIn)
	s.redirectWithToasts(w, r, callback, sink.msgs)
}

func (s *Server) revoke(ctx context.Context, sess *model.Session) {
	if err := s.auth.SignOut(ctx, sess.ID); err != nil {
		slog.Error("revoke session", "err", err)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	creds := model.Credentials{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Name:     r.FormValue("name"),
	}
	b, sink := s.toaster(r, nil)

	err := s.auth.Register(r.Context(), creds)
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		b.Success(auth.MsgRegistered)
		s.redirectWithToasts(w, r, "/?email="+url.QueryEscape(creds.Email), sink.msgs)
		return
	case errors.As(err, &apiErr):
		b.Error(auth.MsgRegisterFailed)
	default:
		b.Error(model.UserMessage(err, auth.MsgRegisterFailed))
	}
	s.redirectWithToasts(w, r, "/?mode=signup&email="+url.QueryEscape(creds.Email), sink.msgs)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if sess == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	b, sink := s.toaster(r, sess)
	b.Success(auth.MsgSignedOut)
	s.hub.Drop(scopeOf(sess))

	s.revoke(r.Context(), sess)
	s.metrics.SignOuts.Add(1)
	slog.Info("signed out", "email", sess.Email)

	s.endSession(w, r)
	s.redirectWithToasts(w, r, "/", sink.msgs)
}

type article struct {
	Title    string
	Summary  string
	Icon     string
	ReadTime string
	Date     string
	Author   string
	Category string
}

var articles = []article{
	{"Reducing Your Carbon Footprint", "Learn how tracking daily activities can significantly lower your CO2 emissions.", "🌿", "8 min", "Aug 24, 2023", "Sarah Johnson", "Lifestyle"},
	{"Eco-Friendly Commuting", "Explore sustainable transportation options for a greener commute.", "🚲", "6 min", "Aug 18, 2023", "Michael Chen", "Transportation"},
	{"The Power of Plant-Based Diets", "Discover how plant-based meals can cut your carbon emissions.", "🥗", "10 min", "Aug 10, 2023", "Emma Rodriguez", "Food"},
	{"Sustainable Living at Home", "Learn how to reduce household energy use and lower your bills.", "⚡", "7 min", "Aug 2, 2023", "David Kim", "Home"},
}

func (s *Server) handleLearnMore(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "learnmore", "Learn more", s.currentSession(r), articles, nil)
}
