package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jeevanra/jeevanra/pkg/notify"
)

const (
	tabSendBuffer   = 16
	tabPingInterval = 25 * time.Second
	tabWriteWait    = 10 * time.Second
	tabReadLimit    = 4096
	maxToastLength  = 500
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// tabConn is the socket of one open tab. Display never blocks: toasts are
// dropped when the tab falls behind. Dropped closes the socket, e.g. after
// the session signed out.
type tabConn struct {
	send    chan notify.Message
	dropped chan struct{}
	once    sync.Once
}

func newTabConn() *tabConn {
	return &tabConn{
		send:    make(chan notify.Message, tabSendBuffer),
		dropped: make(chan struct{}),
	}
}

func (t *tabConn) Dropped() {
	t.once.Do(func() { close(t.dropped) })
}

func (t *tabConn) Display(m notify.Message) {
	select {
	case t.send <- m:
	default:
		slog.Debug("tab send buffer full, dropping toast", "id", m.ID)
	}
}

// handleTabSocket joins a tab to its session's toast scope. Toasts published
// by other tabs are pushed to it; toast frames it sends are published to
// the other tabs and never echoed back.
func (s *Server) handleTabSocket(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if sess == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	tab := r.URL.Query().Get(tabField)
	if _, err := uuid.Parse(tab); err != nil {
		http.Error(w, "invalid tab id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("tab socket upgrade", "err", err)
		return
	}

	scope := scopeOf(sess)
	tc := newTabConn()
	b := s.hub.Join(scope, tab, tc)
	s.metrics.TabsConnected.Add(1)
	slog.Debug("tab connected", "email", sess.Email, "tab", tab)

	done := make(chan struct{})
	go s.writeTab(conn, tc, done)

	s.readTab(conn, scope, tab)

	close(done)
	s.hub.Leave(scope, b)
	s.metrics.TabsConnected.Add(-1)
	_ = conn.Close()
	slog.Debug("tab disconnected", "email", sess.Email, "tab", tab)
}

func (s *Server) writeTab(conn *websocket.Conn, tc *tabConn, done <-chan struct{}) {
	ping := time.NewTicker(tabPingInterval)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case <-tc.dropped:
			_ = conn.SetWriteDeadline(time.Now().Add(tabWriteWait))
			flushTab(conn, tc)
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"))
			_ = conn.Close()
			return
		case m := <-tc.send:
			_ = conn.SetWriteDeadline(time.Now().Add(tabWriteWait))
			if err := conn.WriteJSON(m); err != nil {
				_ = conn.Close()
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(tabWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

// flushTab writes the toasts already queued for tc, such as the sign-out
// toast published just before the scope was dropped.
func flushTab(conn *websocket.Conn, tc *tabConn) {
	for {
		select {
		case m := <-tc.send:
			if err := conn.WriteJSON(m); err != nil {
				return
			}
		default:
			return
		}
	}
}

// readTab publishes toast frames until the socket closes.
func (s *Server) readTab(conn *websocket.Conn, scope, tab string) {
	conn.SetReadLimit(tabReadLimit)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("tab read", "tab", tab, "err", err)
			}
			return
		}

		var frame notify.Message
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.Debug("tab frame rejected", "tab", tab, "err", err)
			continue
		}
		msg, ok := tabToast(frame, tab)
		if !ok {
			continue
		}
		s.metrics.ToastsSent.Add(1)
		if _, err := s.hub.Publish(scope, msg); err != nil {
			slog.Debug("publish tab toast", "tab", tab, "err", err)
		}
	}
}

// tabToast turns a frame sent by tab into a toast for the other tabs.
func tabToast(frame notify.Message, tab string) (notify.Message, bool) {
	text := sanitizeText(strings.TrimSpace(frame.Text))
	if text == "" || utf8.RuneCountInString(text) > maxToastLength || !frame.Kind.Valid() {
		return notify.Message{}, false
	}
	msg := notify.NewMessage(frame.Kind, text, frame.Options)
	msg.Origin = tab
	return msg, true
}

// sanitizeText collapses newlines to spaces and strips other control
// characters from tab-supplied text.
func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
