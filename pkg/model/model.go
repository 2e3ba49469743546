// Package model defines the records exchanged with the Jeevanra API.
//
// The remote API is the source of truth for every record here. Values are
// decoded from JSON at the client boundary and checked with Validate before
// any page renders them.
package model

import (
	"errors"
	"math"
	"strings"
)

// ErrInvalidRecord wraps every structural validation failure of an API payload.
var ErrInvalidRecord = errors.New("invalid record")

func invalid(msg string) error {
	return &recordError{msg: msg}
}

type recordError struct {
	msg string
}

func (e *recordError) Error() string { return "invalid record: " + e.msg }

func (e *recordError) Is(target error) bool { return target == ErrInvalidRecord }

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
