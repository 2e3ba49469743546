// Package weather turns the current weather at a user's location into a
// transport recommendation for the dashboard.
package weather

import "strings"

// Transport is a recommended way to travel.
type Transport string

const (
	TransportCar        Transport = "car"
	TransportPublic     Transport = "public transport"
	TransportBikeOrWalk Transport = "bike or walking"
)

// DefaultIcon is shown for conditions no icon group matches.
const DefaultIcon = "🌡️"

type rule[T any] struct {
	keywords []string
	value    T
}

// First matching group wins.
var transportRules = []rule[Transport]{
	{[]string{"rain", "drizzle", "thunder", "storm"}, TransportCar},
	{[]string{"snow", "sleet", "blizzard"}, TransportPublic},
	{[]string{"clear", "sunny", "fair"}, TransportBikeOrWalk},
}

var iconRules = []rule[string]{
	{[]string{"thunder"}, "⛈️"},
	{[]string{"rain", "drizzle"}, "🌧️"},
	{[]string{"snow", "sleet"}, "❄️"},
	{[]string{"clear", "sunny"}, "☀️"},
	{[]string{"cloud", "overcast"}, "☁️"},
	{[]string{"fog", "mist"}, "🌫️"},
}

func match[T any](condition string, rules []rule[T], fallback T) T {
	lower := strings.ToLower(condition)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.value
			}
		}
	}
	return fallback
}

// Suggest maps a free-text condition such as "Patchy light drizzle" to a
// transport recommendation. Unrecognized or empty text yields
// TransportPublic.
func Suggest(condition string) Transport {
	return match(condition, transportRules, TransportPublic)
}

// Icon returns a glyph for the condition text.
func Icon(condition string) string {
	return match(condition, iconRules, DefaultIcon)
}

// Headline is the short label shown for a recommendation.
func (t Transport) Headline() string {
	switch t {
	case TransportCar:
		return "Car"
	case TransportBikeOrWalk:
		return "Bike or Walk"
	default:
		return "Public Transport"
	}
}

// Tagline is the sentence under the headline.
func (t Transport) Tagline() string {
	switch t {
	case TransportCar:
		return "Best option for this weather"
	case TransportBikeOrWalk:
		return "Great day for a ride!"
	default:
		return "Eco-friendly choice for today"
	}
}

// Advice pairs a recommendation with the condition icon.
type Advice struct {
	Transport Transport
	Icon      string
}

// Advise computes both Suggest and Icon for condition.
func Advise(condition string) Advice {
	return Advice{Transport: Suggest(condition), Icon: Icon(condition)}
}
