package web

import (
	"log/slog"
	"net/http"

	"github.com/jeevanra/jeevanra/pkg/model"
)

const (
	msgProfileUpdated      = "Profile updated successfully!"
	msgProfileUpdateFailed = "Failed to update profile"
	msgProfileLoadFailed   = "Failed to load profile"
)

type profileData struct {
	Profile *model.Profile
	Form    model.ProfileUpdate
	Editing bool
	Error   string
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	var data profileData
	prof, err := s.api.Profile(r.Context(), sess.Email, sess.Token)
	if err != nil {
		slog.Warn("load profile", "email", sess.Email, "err", err)
		b, sink := s.toaster(r, sess)
		b.Error(msgProfileLoadFailed)
		data.Error = msgProfileLoadFailed
		s.render(w, r, http.StatusBadGateway, "profile", "Profile", sess, data, sink.msgs)
		return
	}
	data.Profile = prof
	data.Form = model.ProfileUpdate{Name: prof.Name, Avatar: prof.Avatar, Location: prof.Location, Bio: prof.Bio}
	data.Editing = r.URL.Query().Get("edit") == "1"
	s.render(w, r, http.StatusOK, "profile", "Profile", sess, data, nil)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	upd := model.ProfileUpdate{
		Name:     r.FormValue("name"),
		Avatar:   r.FormValue("avatar"),
		Location: r.FormValue("location"),
		Bio:      r.FormValue("bio"),
	}
	b, sink := s.toaster(r, sess)

	err := upd.Validate()
	if err == nil {
		err = s.api.UpdateProfile(r.Context(), sess.Email, upd, sess.Token)
		if err == nil {
			slog.Info("profile updated", "email", sess.Email)
			b.Success(msgProfileUpdated)
			s.redirectWithToasts(w, r, "/profile", sink.msgs)
			return
		}
		slog.Warn("update profile", "email", sess.Email, "err", err)
	}

	msg := model.UserMessage(err, msgProfileUpdateFailed)
	b.Error(msg)
	data := profileData{Form: upd, Editing: true, Error: msg}
	if prof, perr := s.api.Profile(r.Context(), sess.Email, sess.Token); perr == nil {
		data.Profile = prof
	}
	s.render(w, r, http.StatusUnprocessableEntity, "profile", "Profile", sess, data, sink.msgs)
}
