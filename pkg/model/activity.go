package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

var ErrUnitsInvalid = errors.New("units must be a positive number")
var ErrActivityTypeEmpty = errors.New("activity type must not be empty")
var ErrActivityTypeUnknown = errors.New("activity type not in the catalog")

// ID is an identifier the API may send either as a string or as a number.
type ID string

// UnmarshalJSON accepts "abc", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// ActivityDetails is the opaque payload stored with an activity. Only Units is
// interpreted; every other key is kept in Extra.
type ActivityDetails struct {
	Units float64
	Extra map[string]any
}

// UnmarshalJSON accepts the details either as an object or as a JSON-encoded
// string holding that object. An undecodable string yields zero units.
func (d *ActivityDetails) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if err := d.decodeObject([]byte(raw)); err != nil {
			slog.Warn("parse activity details", "err", err)
			*d = ActivityDetails{}
		}
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*d = ActivityDetails{}
		return nil
	}
	return d.decodeObject(data)
}

func (d *ActivityDetails) decodeObject(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := ActivityDetails{}
	for k, v := range m {
		if k == "units" {
			switch u := v.(type) {
			case float64:
				out.Units = u
			case string:
				f, err := strconv.ParseFloat(strings.TrimSpace(u), 64)
				if err != nil {
					slog.Warn("parse activity units", "units", u, "err", err)
					continue
				}
				out.Units = f
			}
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[k] = v
	}
	*d = out
	return nil
}

// MarshalJSON writes the details back as a flat object.
func (d ActivityDetails) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+1)
	for k, v := range d.Extra {
		m[k] = v
	}
	m["units"] = d.Units
	return json.Marshal(m)
}

// Activity is one logged carbon-emitting or carbon-saving action.
type Activity struct {
	ID          ID              `json:"id"`
	Type        string          `json:"type"`
	Details     ActivityDetails `json:"details"`
	EmissionsKg float64         `json:"emissionsKg"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Validate checks the fields every activity list relies on.
func (a *Activity) Validate() error {
	switch {
	case a.ID == "":
		return invalid("activity id missing")
	case blank(a.Type):
		return invalid("activity type missing")
	case !finite(a.EmissionsKg) || a.EmissionsKg < 0:
		return invalid("activity emissions out of range")
	case !finite(a.Details.Units):
		return invalid("activity units not a number")
	}
	return nil
}

// TrackRequest is the body of POST /api/track.
type TrackRequest struct {
	Type  string  `json:"type"`
	Units float64 `json:"units"`
	Email string  `json:"email"`
}

// ParseUnits validates the quantity typed into the track form.
func ParseUnits(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrUnitsInvalid
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) || f <= 0 {
		return 0, ErrUnitsInvalid
	}
	return f, nil
}

// NewTrackRequest validates form input and builds the request body.
func NewTrackRequest(activityType, units, email string) (TrackRequest, error) {
	if blank(activityType) {
		return TrackRequest{}, ErrActivityTypeEmpty
	}
	u, err := ParseUnits(units)
	if err != nil {
		return TrackRequest{}, err
	}
	return TrackRequest{Type: activityType, Units: u, Email: email}, nil
}
