package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/jeevanra/jeevanra/pkg/apiclient"
	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/notify"
)

const (
	previewSize = 3
	podiumSize  = 3

	msgInvalidChallengeID = "Invalid challenge ID"
	msgChallengeCreated   = "Challenge created successfully!"
)

// challengeCard is a challenge as rendered for the signed-in user.
type challengeCard struct {
	model.Challenge
	Participating bool                `json:"participating"`
	Preview       []model.Participant `json:"preview"`
	More          int                 `json:"more"`
}

func newCard(c model.Challenge, email string) challengeCard {
	preview, more := c.Preview(previewSize)
	return challengeCard{
		Challenge:     c,
		Participating: c.HasParticipant(email),
		Preview:       preview,
		More:          more,
	}
}

type createForm struct {
	Name  string
	Goal  string
	Error string
	Open  bool
}

type challengesData struct {
	Query  string
	Cards  []challengeCard
	Error  string
	Create createForm
}

func (s *Server) loadChallenges(r *http.Request, sess *model.Session, query string) ([]challengeCard, string) {
	var (
		list []model.Challenge
		err  error
	)
	if query != "" {
		list, err = s.api.SearchChallenges(r.Context(), query, sess.Token)
	} else {
		list, err = s.api.Challenges(r.Context(), sess.Token)
	}
	if err != nil {
		slog.Warn("load challenges", "email", sess.Email, "query", query, "err", err)
		return nil, apiclient.UserMessage(err, "Failed to fetch challenges")
	}
	cards := make([]challengeCard, len(list))
	for i, c := range list {
		cards[i] = newCard(c, sess.Email)
	}
	return cards, ""
}

func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	cards, errMsg := s.loadChallenges(r, sess, query)
	data := challengesData{Query: query, Cards: cards, Error: errMsg}
	s.render(w, r, http.StatusOK, "challenges", "Challenges", sess, data, nil)
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	form := createForm{Name: r.FormValue("name"), Goal: r.FormValue("goal"), Open: true}
	b, sink := s.toaster(r, sess)

	nc, err := model.ParseNewChallenge(form.Name, form.Goal)
	if err == nil {
		_, err = s.api.CreateChallenge(r.Context(), nc, sess.Token)
		if err == nil {
			s.metrics.ChallengesCreated.Add(1)
			slog.Info("challenge created", "email", sess.Email, "name", nc.Name, "goal", nc.Goal)
			b.Success(msgChallengeCreated)
			s.redirectWithToasts(w, r, "/challenges", sink.msgs)
			return
		}
		slog.Warn("create challenge", "email", sess.Email, "err", err)
		form.Error = apiclient.UserMessage(err, "Failed to create challenge")
	} else {
		form.Error = model.UserMessage(err, "Please fill in all fields")
	}
	b.Error(form.Error)

	cards, errMsg := s.loadChallenges(r, sess, "")
	data := challengesData{Cards: cards, Error: errMsg, Create: form}
	s.render(w, r, http.StatusUnprocessableEntity, "challenges", "Challenges", sess, data, sink.msgs)
}

type membershipOp string

const (
	opJoin  membershipOp = "join"
	opLeave membershipOp = "leave"
)

// membershipResponse answers JSON join/leave requests so the page can
// update the card in place.
type membershipResponse struct {
	Challenge *challengeCard   `json:"challenge,omitempty"`
	Toasts    []notify.Message `json:"toasts"`
	Error     string           `json:"error,omitempty"`
}

func parseChallengeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

// handleMembership joins or leaves a challenge with a single API call.
func (s *Server) handleMembership(op membershipOp) sessionHandler {
	return func(w http.ResponseWriter, r *http.Request, sess *model.Session) {
		back := "/challenges"
		if q := strings.TrimSpace(r.FormValue("q")); q != "" {
			back += "?q=" + url.QueryEscape(q)
		}
		b, sink := s.toaster(r, sess)

		id, ok := parseChallengeID(r)
		if !ok {
			b.Error(msgInvalidChallengeID)
			if wantsJSON(r) {
				writeJSON(w, http.StatusBadRequest, membershipResponse{Toasts: sink.msgs, Error: msgInvalidChallengeID})
				return
			}
			s.redirectWithToasts(w, r, back, sink.msgs)
			return
		}

		var (
			updated *model.Challenge
			err     error
		)
		if op == opJoin {
			updated, err = s.api.JoinChallenge(r.Context(), id, sess.Email, sess.Token)
		} else {
			updated, err = s.api.LeaveChallenge(r.Context(), id, sess.Email, sess.Token)
		}
		if err != nil {
			slog.Warn("challenge membership", "op", op, "id", id, "email", sess.Email, "err", err)
			msg := apiclient.UserMessage(err, "Failed to "+string(op)+" challenge")
			b.Error(msg)
			if wantsJSON(r) {
				writeJSON(w, http.StatusBadGateway, membershipResponse{Toasts: sink.msgs, Error: msg})
				return
			}
			s.redirectWithToasts(w, r, back, sink.msgs)
			return
		}

		if op == opJoin {
			s.metrics.ChallengesJoined.Add(1)
			b.Success("Joined challenge!")
		} else {
			s.metrics.ChallengesLeft.Add(1)
			b.Success("Left challenge.")
		}
		if wantsJSON(r) {
			card := newCard(*updated, sess.Email)
			writeJSON(w, http.StatusOK, membershipResponse{Challenge: &card, Toasts: sink.msgs})
			return
		}
		s.redirectWithToasts(w, r, back, sink.msgs)
	}
}

type leaderboardData struct {
	ChallengeID int64
	Entries     []model.LeaderboardEntry
	Podium      []model.LeaderboardEntry
	Rank        int
	Error       string
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	id, ok := parseChallengeID(r)
	if !ok {
		s.render(w, r, http.StatusBadRequest, "leaderboard", "Leaderboard", sess, leaderboardData{Error: msgInvalidChallengeID}, nil)
		return
	}

	data := leaderboardData{ChallengeID: id}
	ctx := r.Context()
	var g errgroup.Group
	g.Go(func() error {
		entries, err := s.api.Leaderboard(ctx, id, sess.Token)
		if err != nil {
			return err
		}
		data.Entries = entries
		return nil
	})
	g.Go(func() error {
		rank, err := s.api.Ranking(ctx, id, sess.Email, sess.Token)
		if err != nil {
			slog.Debug("load ranking", "id", id, "err", err)
			return nil
		}
		data.Rank = rank
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.Warn("load leaderboard", "id", id, "err", err)
		data.Error = apiclient.UserMessage(err, "Failed to fetch leaderboard")
		s.render(w, r, http.StatusBadGateway, "leaderboard", "Leaderboard", sess, data, nil)
		return
	}

	n := min(podiumSize, len(data.Entries))
	data.Podium = data.Entries[:n]
	s.render(w, r, http.StatusOK, "leaderboard", "Leaderboard", sess, data, nil)
}
