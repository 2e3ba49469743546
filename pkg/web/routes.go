package web

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jeevanra/jeevanra/pkg/logging"
)

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic("web: embedded static dir: " + err.Error())
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// public
	r.HandleFunc("/", s.handleLanding).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/learn-more", s.handleLearnMore).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleTabSocket).Methods(http.MethodGet)

	// signed in
	r.HandleFunc("/dashboard", s.protected(s.handleDashboard)).Methods(http.MethodGet)
	r.HandleFunc("/track", s.protected(s.handleTrackForm)).Methods(http.MethodGet)
	r.HandleFunc("/track", s.protected(s.handleTrack)).Methods(http.MethodPost)
	r.HandleFunc("/activities", s.protected(s.handleActivities)).Methods(http.MethodGet)
	r.HandleFunc("/challenges", s.protected(s.handleChallenges)).Methods(http.MethodGet)
	r.HandleFunc("/challenges", s.protected(s.handleCreateChallenge)).Methods(http.MethodPost)
	r.HandleFunc("/challenges/{id}/join", s.protected(s.handleMembership(opJoin))).Methods(http.MethodPost)
	r.HandleFunc("/challenges/{id}/leave", s.protected(s.handleMembership(opLeave))).Methods(http.MethodPost)
	r.HandleFunc("/challenges/{id}/leaderboard", s.protected(s.handleLeaderboard)).Methods(http.MethodGet)
	r.HandleFunc("/profile", s.protected(s.handleProfile)).Methods(http.MethodGet)
	r.HandleFunc("/profile", s.protected(s.handleUpdateProfile)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	return logging.Middleware(s.countRequests(r))
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.Requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", "Not found", s.currentSession(r), nil, nil)
}
