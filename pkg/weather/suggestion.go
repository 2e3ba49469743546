package weather

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/jeevanra/jeevanra/pkg/model"
)

// State of the dashboard weather panel.
type State int

const (
	StateNoLocation State = iota
	StateFailed
	StateLoaded
)

// Panel messages.
const (
	MsgNoLocation = "No location set in your profile"
	MsgLoadFailed = "Failed to load weather data"
)

// Suggestion is the view model of the weather panel.
type Suggestion struct {
	State       State
	Message     string
	Place       string // "City, Country"
	Temperature int    // rounded °C
	Condition   string
	Advice      Advice
}

// Failed returns a panel showing msg.
func Failed(msg string) Suggestion {
	return Suggestion{State: StateFailed, Message: msg}
}

// Suggestion loads the conditions at location and builds the panel. It
// never returns an error: failures become StateFailed and are logged.
func (c *Client) Suggestion(ctx context.Context, location string) Suggestion {
	if strings.TrimSpace(location) == "" {
		return Suggestion{State: StateNoLocation, Message: MsgNoLocation}
	}
	snap, err := c.Current(ctx, location)
	if err != nil {
		slog.Warn("load weather", "location", location, "err", err)
		return Failed(MsgLoadFailed)
	}
	return FromSnapshot(snap)
}

// FromSnapshot builds a loaded panel.
func FromSnapshot(snap *model.WeatherSnapshot) Suggestion {
	cond := snap.Current.Condition.Text
	return Suggestion{
		State:       StateLoaded,
		Place:       snap.Location.Name + ", " + snap.Location.Country,
		Temperature: int(math.Round(snap.Current.TempC)),
		Condition:   cond,
		Advice:      Advise(cond),
	}
}

func (s Suggestion) Loaded() bool     { return s.State == StateLoaded }
func (s Suggestion) NoLocation() bool { return s.State == StateNoLocation }
