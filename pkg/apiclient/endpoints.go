package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jeevanra/jeevanra/pkg/model"
)

// LoginResponse is the body of a successful POST /api/auth/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, call{
		resource: "account",
		op:       "sign in to",
		method:   http.MethodPost,
		path:     "/api/auth/login",
		public:   true,
		body:     model.Credentials{Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The response body is ignored.
func (c *Client) Register(ctx context.Context, creds model.Credentials) error {
	return c.do(ctx, call{
		resource: "account",
		op:       "register",
		method:   http.MethodPost,
		path:     "/api/auth/register",
		public:   true,
		body:     creds,
	}, nil)
}

// Profile fetches the profile of email.
func (c *Client) Profile(ctx context.Context, email, token string) (*model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, call{
		resource: "profile",
		op:       "load",
		method:   http.MethodGet,
		path:     "/api/profile",
		query:    url.Values{"email": {email}},
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateOne("profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replaces the editable profile fields of email.
func (c *Client) UpdateProfile(ctx context.Context, email string, upd model.ProfileUpdate, token string) error {
	return c.do(ctx, call{
		resource: "profile",
		op:       "update",
		method:   http.MethodPut,
		path:     "/api/profile",
		query:    url.Values{"email": {email}},
		token:    token,
		body:     upd,
	}, nil)
}

// Track records an activity. The response body is ignored.
func (c *Client) Track(ctx context.Context, req model.TrackRequest, token string) error {
	return c.do(ctx, call{
		resource: "activity",
		op:       "track",
		method:   http.MethodPost,
		path:     "/api/track",
		token:    token,
		body:     req,
	}, nil)
}

// RecentActivities returns the latest limit activities.
func (c *Client) RecentActivities(ctx context.Context, limit int, token string) ([]model.Activity, error) {
	var out []model.Activity
	err := c.do(ctx, call{
		resource: "recent activities",
		op:       "fetch",
		method:   http.MethodGet,
		path:     "/api/track/recent",
		query:    url.Values{"limit": {strconv.Itoa(limit)}},
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateAll("recent activities", out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllActivities returns every activity of the signed-in user.
func (c *Client) AllActivities(ctx context.Context, token string) ([]model.Activity, error) {
	var out []model.Activity
	err := c.do(ctx, call{
		resource: "activities",
		op:       "fetch",
		method:   http.MethodGet,
		path:     "/api/track/all",
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateAll("activities", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reports returns the dashboard summary.
func (c *Client) Reports(ctx context.Context, token string) (*model.Report, error) {
	var out model.Report
	err := c.do(ctx, call{
		resource: "reports",
		op:       "fetch",
		method:   http.MethodGet,
		path:     "/api/reports",
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateOne("reports", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Challenges lists all challenges.
func (c *Client) Challenges(ctx context.Context, token string) ([]model.Challenge, error) {
	var out []model.Challenge
	err := c.do(ctx, call{
		resource: "challenges",
		op:       "fetch",
		method:   http.MethodGet,
		path:     "/api/challenges",
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateAll("challenges", out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchChallenges lists challenges matching query.
func (c *Client) SearchChallenges(ctx context.Context, query, token string) ([]model.Challenge, error) {
	var out []model.Challenge
	err := c.do(ctx, call{
		resource: "challenges",
		op:       "search",
		method:   http.MethodGet,
		path:     "/api/challenges/search",
		query:    url.Values{"query": {query}},
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateAll("challenges", out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateChallenge creates a challenge. Name and goal travel as query
// parameters.
func (c *Client) CreateChallenge(ctx context.Context, nc model.NewChallenge, token string) (*model.Challenge, error) {
	var out model.Challenge
	err := c.do(ctx, call{
		resource: "challenge",
		op:       "create",
		method:   http.MethodPost,
		path:     "/api/challenges",
		query: url.Values{
			"name": {nc.Name},
			"goal": {strconv.FormatFloat(nc.Goal, 'f', -1, 64)},
		},
		token: token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateOne("challenge", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinChallenge adds email to a challenge and returns the updated challenge.
func (c *Client) JoinChallenge(ctx context.Context, id int64, email, token string) (*model.Challenge, error) {
	return c.membership(ctx, "join", id, email, token)
}

// LeaveChallenge removes email from a challenge and returns the updated
// challenge.
func (c *Client) LeaveChallenge(ctx context.Context, id int64, email, token string) (*model.Challenge, error) {
	return c.membership(ctx, "leave", id, email, token)
}

func (c *Client) membership(ctx context.Context, op string, id int64, email, token string) (*model.Challenge, error) {
	var out model.Challenge
	err := c.do(ctx, call{
		resource: "challenge",
		op:       op,
		method:   http.MethodPost,
		path:     fmt.Sprintf("/api/challenges/%d/%s", id, op),
		query:    url.Values{"email": {email}},
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateOne("challenge", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard returns the ranked participants of a challenge.
func (c *Client) Leaderboard(ctx context.Context, id int64, token string) ([]model.LeaderboardEntry, error) {
	var out []model.LeaderboardEntry
	err := c.do(ctx, call{
		resource: "leaderboard",
		op:       "fetch",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/challenges/%d/leaderboard", id),
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validateAll("leaderboard", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ranking returns the rank of email within a challenge.
func (c *Client) Ranking(ctx context.Context, id int64, email, token string) (int, error) {
	var out model.Ranking
	err := c.do(ctx, call{
		resource: "user ranking",
		op:       "get",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/challenges/%d/ranking", id),
		query:    url.Values{"email": {email}},
		token:    token,
	}, &out)
	if err != nil {
		return 0, err
	}
	if out.Rank < 0 {
		return 0, fmt.Errorf("%w: user ranking: negative rank %d", ErrInvalidResponse, out.Rank)
	}
	return out.Rank, nil
}
