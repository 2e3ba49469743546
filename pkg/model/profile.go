package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxBioLength = 500

var ErrCredentialsMissing = errors.New("email and password are required")
var ErrNameMissing = errors.New("name is required")
var ErrBioTooLong = errors.New("bio too long")

// Profile is the user profile served by /api/profile.
type Profile struct {
	ID       ID      `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	Location string  `json:"location"`
	Bio      string  `json:"bio"`
	Points   float64 `json:"points"`
	CO2Saved float64 `json:"co2Saved"`
}

// Validate checks a profile decoded from the API.
func (p *Profile) Validate() error {
	if !finite(p.Points) || !finite(p.CO2Saved) {
		return invalid("profile totals not a number")
	}
	return nil
}

// Initial is the avatar fallback letter: the name, else the email.
func (p *Profile) Initial() string {
	src := p.Name
	if blank(src) {
		src = p.Email
	}
	r, _ := utf8.DecodeRuneInString(src)
	if r == utf8.RuneError {
		return "U"
	}
	return strings.ToUpper(string(r))
}

// ProfileUpdate is the body of PUT /api/profile.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// Validate trims the fields and checks length limits.
func (u *ProfileUpdate) Validate() error {
	u.Name = strings.TrimSpace(u.Name)
	u.Avatar = strings.TrimSpace(u.Avatar)
	u.Location = strings.TrimSpace(u.Location)
	u.Bio = strings.TrimSpace(u.Bio)
	if utf8.RuneCountInString(u.Bio) > MaxBioLength {
		return ErrBioTooLong
	}
	return nil
}

// Credentials is the body of the login and register calls.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Validate checks the sign-in form; register additionally needs a name.
func (c *Credentials) Validate(register bool) error {
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" || c.Password == "" {
		return ErrCredentialsMissing
	}
	if register && blank(c.Name) {
		return ErrNameMissing
	}
	return nil
}
