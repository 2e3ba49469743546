package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenUndecodable = errors.New("auth: bearer token is not a decodable jwt")

// Identity is what the front end learns about a user from the login token.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// DecodeClaims reads the identity claims of a bearer token. The signature
// is not checked; the remote API verifies the token on every call and the
// claims are only used for display.
//
// id comes from sub, userId or id; email from the email claim or
// loginEmail; name from the name claim or the email.
func DecodeClaims(token, loginEmail string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenUndecodable, err)
	}

	id := Identity{
		ID:    firstClaim(claims, "sub", "userId", "id"),
		Email: firstClaim(claims, "email"),
		Name:  firstClaim(claims, "name"),
	}
	if id.Email == "" {
		id.Email = strings.TrimSpace(loginEmail)
	}
	if id.Name == "" {
		id.Name = id.Email
	}
	return id, nil
}

// firstClaim returns the first non-empty claim among keys, formatting
// numeric ids without a fraction.
func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := claims[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
