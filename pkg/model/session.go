package model

import "time"

// Session is a signed-in user as seen by the front end. It lives server side;
// the browser cookie only carries ID.
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"-"` // bearer token for the remote API
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// DisplayName is the name shown in the navigation bar: the name claim, or
// the local part of the email address.
func (s *Session) DisplayName() string {
	if !blank(s.Name) && s.Name != s.Email {
		return s.Name
	}
	for i := 0; i < len(s.Email); i++ {
		if s.Email[i] == '@' {
			return s.Email[:i]
		}
	}
	return s.Email
}
