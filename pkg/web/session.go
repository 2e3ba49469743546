package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/jeevanra/jeevanra/pkg/auth"
	"github.com/jeevanra/jeevanra/pkg/crypto"
	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/notify"
)

const (
	cookieName   = "jeevanra_session"
	cookieMaxAge = int(auth.DefaultTTL / time.Second)

	keySessionID = "sid"
	keyToasts    = "toasts"

	tabField  = "tab"
	tabHeader = "X-Jeevanra-Tab"
)

func newCookieStore(keys crypto.Keys, secure bool) *sessions.CookieStore {
	cs := sessions.NewCookieStore(keys.CookieHash, keys.CookieBlock)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

// cookie returns the browser's cookie session. A cookie that fails to
// decode (rotated keys, tampering) yields a fresh session.
func (s *Server) cookie(r *http.Request) *sessions.Session {
	cs, err := s.cookies.Get(r, cookieName)
	if err != nil {
		slog.Debug("discarding session cookie", "err", err)
	}
	return cs
}

// currentSession resolves the signed-in session of r, or nil.
func (s *Server) currentSession(r *http.Request) *model.Session {
	rawID, _ := s.cookie(r).Values[keySessionID].(string)
	if rawID == "" {
		return nil
	}
	sess, err := s.auth.Lookup(r.Context(), rawID)
	if err != nil {
		slog.Error("look up session", "err", err)
		return nil
	}
	return sess
}

// sessionHandler is a handler for signed-in users. The session is passed
// explicitly instead of being looked up by the handler.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *model.Session)

// protected runs h for signed-in users and sends everyone else to the
// landing page with a callbackUrl back to the requested page.
func (s *Server) protected(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)
		if auth.StateOf(sess, s.now()) != auth.StateSignedIn {
			if wantsJSON(r) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please sign in"})
				return
			}
			callback := r.URL.Path
			if r.Method == http.MethodGet && r.URL.RawQuery != "" {
				callback = r.URL.RequestURI()
			}
			http.Redirect(w, r, "/?callbackUrl="+url.QueryEscape(callback), http.StatusSeeOther)
			return
		}
		h(w, r, sess)
	}
}

// safeCallback returns target when it is a local path, else fallback.
func safeCallback(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

// scopeOf is the toast scope of a session: all tabs of one sign-in.
func scopeOf(sess *model.Session) string {
	return crypto.HashToken(sess.ID)
}

// tabOf returns the tab id a request came from.
func tabOf(r *http.Request) string {
	if tab := r.Header.Get(tabHeader); tab != "" {
		return tab
	}
	return r.FormValue(tabField)
}

// pageToasts collects the toasts displayed by the tab a request came from.
type pageToasts struct {
	msgs []notify.Message
}

func (p *pageToasts) Display(m notify.Message) { p.msgs = append(p.msgs, m) }

// meteredChannel counts published toasts.
type meteredChannel struct {
	notify.Channel
	m *Metrics
}

func (c meteredChannel) Publish(msg notify.Message) error {
	c.m.ToastsSent.Add(1)
	return c.Channel.Publish(msg)
}

// toaster returns the broadcaster of the tab that sent r. Toasts it shows
// end up in the returned sink for this response and reach the session's
// other tabs through the hub. Without a session it only shows locally.
func (s *Server) toaster(r *http.Request, sess *model.Session) (*notify.Broadcaster, *pageToasts) {
	tab := tabOf(r)
	if tab == "" {
		tab = uuid.NewString()
	}
	sink := &pageToasts{}
	if sess == nil {
		return notify.NewBroadcaster(tab, sink, nil), sink
	}
	ch := meteredChannel{Channel: s.hub.Channel(scopeOf(sess)), m: s.metrics}
	return notify.NewBroadcaster(tab, sink, ch), sink
}

// redirectWithToasts stores toasts in the cookie for the next page and
// redirects there.
func (s *Server) redirectWithToasts(w http.ResponseWriter, r *http.Request, target string, toasts []notify.Message) {
	if len(toasts) > 0 {
		cs := s.cookie(r)
		for _, t := range toasts {
			data, err := json.Marshal(t)
			if err != nil {
				continue
			}
			cs.AddFlash(string(data), keyToasts)
		}
		if err := cs.Save(r, w); err != nil {
			slog.Error("save session cookie", "err", err)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// takeToasts removes the stored toasts from the cookie. It must run before
// the response body is written.
func (s *Server) takeToasts(w http.ResponseWriter, r *http.Request) []notify.Message {
	cs := s.cookie(r)
	flashes := cs.Flashes(keyToasts)
	if len(flashes) == 0 {
		return nil
	}
	if err := cs.Save(r, w); err != nil {
		slog.Error("save session cookie", "err", err)
	}
	out := make([]notify.Message, 0, len(flashes))
	for _, f := range flashes {
		str, ok := f.(string)
		if !ok {
			continue
		}
		var m notify.Message
		if err := json.Unmarshal([]byte(str), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// startSession points the cookie at a new signed-in session.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, sess *model.Session) error {
	cs := s.cookie(r)
	cs.Values[keySessionID] = sess.ID
	return cs.Save(r, w)
}

// endSession removes the session id from the cookie; pending toasts stay.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	cs := s.cookie(r)
	delete(cs.Values, keySessionID)
	if err := cs.Save(r, w); err != nil {
		slog.Error("save session cookie", "err", err)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write json", "err", err)
	}
}
