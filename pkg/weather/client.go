package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jeevanra/jeevanra/pkg/apiclient"
	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/version"
)

// DefaultBaseURL is the weatherapi.com root.
const DefaultBaseURL = "https://api.weatherapi.com"

const resource = "weather data"

var (
	ErrNoAPIKey   = errors.New("weather: no api key configured")
	ErrNoLocation = errors.New("weather: no location")
)

// Client fetches current conditions. Like the REST client it makes a single
// attempt per call with no timeout of its own.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty). An
// empty key is accepted; Current then fails with ErrNoAPIKey.
func NewClient(baseURL, key string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c != nil && c.key != ""
}

// Current returns the current conditions at location.
func (c *Client) Current(ctx context.Context, location string) (*model.WeatherSnapshot, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrNoLocation
	}

	q := url.Values{"key": {c.key}, "q": {location}, "aqi": {"no"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/current.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the request URL, which holds the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, &apiclient.APIError{Resource: resource, Op: "load", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &apiclient.APIError{Resource: resource, Op: "load", Status: resp.StatusCode}
	}

	var snap model.WeatherSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apiclient.ErrInvalidResponse, resource, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apiclient.ErrInvalidResponse, resource, err)
	}
	return &snap, nil
}
