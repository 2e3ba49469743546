package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a failed call to the remote API: a non-2xx status, or a
// transport failure when Status is 0.
type APIError struct {
	Resource string // e.g. "challenges", "leaderboard"
	Op       string // e.g. "fetch", "join"
	Status   int
	Detail   string // error text from the response body, if any
	Err      error  // transport error, if any
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message(), e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s (status %d): %s", e.Message(), e.Status, e.Detail)
	default:
		return fmt.Sprintf("%s (status %d)", e.Message(), e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Message is the user-facing text, e.g. "Failed to join challenge".
func (e *APIError) Message() string {
	op := e.Op
	if op == "" {
		op = "fetch"
	}
	return "Failed to " + op + " " + e.Resource
}

// Unauthorized reports whether the API rejected the bearer token.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || errors.Is(e.Err, ErrNoToken)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// UserMessage returns the user-facing text for any error returned by this
// package, or fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return fallback
}
