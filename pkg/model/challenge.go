package model

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

const MaxChallengeNameLength = 100

var ErrChallengeFieldsMissing = errors.New("challenge name and goal must not be empty")
var ErrChallengeNameTooLong = errors.New("challenge name too long")
var ErrChallengeGoalInvalid = errors.New("challenge goal must be a non-negative number")

// Participant is a member of a challenge.
type Participant struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email,omitempty"`
	Avatar   string  `json:"avatar,omitempty"`
	CO2Saved float64 `json:"co2Saved"`
}

// Label is the name shown for a participant, falling back to the email.
func (p Participant) Label() string {
	if !blank(p.Name) {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return "Anonymous"
}

// Initial is the avatar fallback letter.
func (p Participant) Initial() string {
	r, _ := utf8.DecodeRuneInString(p.Label())
	if r == utf8.RuneError {
		return "U"
	}
	return strings.ToUpper(string(r))
}

// Challenge is a group sustainability goal.
type Challenge struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Goal         float64       `json:"goal"`
	Participants []Participant `json:"participants"`
}

// Validate checks a challenge decoded from the API.
func (c *Challenge) Validate() error {
	switch {
	case c.ID <= 0:
		return invalid("challenge id missing")
	case blank(c.Name):
		return invalid("challenge name missing")
	case !finite(c.Goal) || c.Goal < 0:
		return invalid("challenge goal out of range")
	}
	for _, p := range c.Participants {
		if !finite(p.CO2Saved) {
			return invalid("participant co2Saved not a number")
		}
	}
	return nil
}

// HasParticipant reports whether the user with the given email takes part.
func (c *Challenge) HasParticipant(email string) bool {
	if email == "" {
		return false
	}
	for _, p := range c.Participants {
		if strings.EqualFold(p.Email, email) {
			return true
		}
	}
	return false
}

// Preview returns at most n participants and how many were left out.
func (c *Challenge) Preview(n int) ([]Participant, int) {
	if len(c.Participants) <= n {
		return c.Participants, 0
	}
	return c.Participants[:n], len(c.Participants) - n
}

// NewChallenge is the input of the create-challenge form.
type NewChallenge struct {
	Name string
	Goal float64
}

// ParseNewChallenge validates the create-challenge form.
func ParseNewChallenge(name, goal string) (NewChallenge, error) {
	name = strings.TrimSpace(name)
	goal = strings.TrimSpace(goal)
	if name == "" || goal == "" {
		return NewChallenge{}, ErrChallengeFieldsMissing
	}
	if utf8.RuneCountInString(name) > MaxChallengeNameLength {
		return NewChallenge{}, ErrChallengeNameTooLong
	}
	g, err := strconv.ParseFloat(goal, 64)
	if err != nil || !finite(g) || g < 0 {
		return NewChallenge{}, ErrChallengeGoalInvalid
	}
	return NewChallenge{Name: name, Goal: g}, nil
}

// LeaderboardEntry is one row of a challenge leaderboard.
type LeaderboardEntry struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar,omitempty"`
	CO2Saved float64 `json:"co2Saved"`
	Rank     int     `json:"rank"`
}

// Validate checks a leaderboard row decoded from the API.
func (e *LeaderboardEntry) Validate() error {
	if !finite(e.CO2Saved) {
		return invalid("leaderboard co2Saved not a number")
	}
	if e.Rank < 0 {
		return invalid("leaderboard rank negative")
	}
	return nil
}

// Label is the display name of a leaderboard row.
func (e LeaderboardEntry) Label() string {
	if blank(e.Name) {
		return "Anonymous"
	}
	return e.Name
}

// Initial is the avatar fallback letter of a leaderboard row.
func (e LeaderboardEntry) Initial() string {
	r, _ := utf8.DecodeRuneInString(e.Label())
	return strings.ToUpper(string(r))
}

// Ranking is the body of GET /api/challenges/{id}/ranking.
type Ranking struct {
	Rank int `json:"rank"`
}
