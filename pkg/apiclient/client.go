// Package apiclient is the Jeevanra REST API client.
//
// Every call makes exactly one HTTP request: there is no retry and no client
// side timeout. Cancellation comes only from the caller's context. Non-2xx
// responses become *APIError values naming the resource, and every decoded
// payload is validated before it is returned.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jeevanra/jeevanra/pkg/version"
)

// DefaultBaseURL is used when no API_URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// maxErrorBody caps how much of an error response is read for diagnostics.
const maxErrorBody = 4096

// ErrInvalidResponse is returned when a 2xx body fails to decode or validate.
var ErrInvalidResponse = errors.New("apiclient: invalid response")

// ErrNoToken is returned by authenticated calls made without a bearer token.
var ErrNoToken = errors.New("apiclient: missing bearer token")

// Observer is notified after every request. Used for metrics.
type Observer func(resource string, status int, err error)

// Client talks to the remote API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	observe   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithObserver installs a per-request callback.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

// New creates a client for baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{}, // no Timeout: one attempt, bounded only by ctx
		userAgent: version.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// call describes one request.
type call struct {
	resource string // user-facing resource label, e.g. "challenges"
	op       string // "fetch", "join", ...
	method   string
	path     string
	query    url.Values
	token    string
	public   bool // no bearer token required
	body     any
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends the request and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if !cl.public && cl.token == "" {
		return &APIError{Resource: cl.resource, Op: cl.op, Err: ErrNoToken}
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s: %w", cl.resource, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint(cl.path, cl.query), body)
	if err != nil {
		return fmt.Errorf("apiclient: build %s request: %w", cl.resource, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := &APIError{Resource: cl.resource, Op: cl.op, Err: err}
		c.report(cl.resource, 0, apiErr)
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Resource: cl.resource,
			Op:       cl.op,
			Status:   resp.StatusCode,
			Detail:   readErrorDetail(resp.Body),
		}
		c.report(cl.resource, resp.StatusCode, apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrInvalidResponse, cl.resource, err)
			c.report(cl.resource, resp.StatusCode, err)
			return err
		}
	}
	c.report(cl.resource, resp.StatusCode, nil)
	return nil
}

func (c *Client) report(resource string, status int, err error) {
	if err != nil {
		slog.Debug("api request failed", "resource", resource, "status", status, "err", err)
	}
	if c.observe != nil {
		c.observe(resource, status, err)
	}
}

// readErrorDetail extracts {"error": "..."} or {"message": "..."} from an
// error body, falling back to the trimmed text.
func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}

type validator interface {
	Validate() error
}

// validateAll checks every element of a decoded list.
func validateAll[T any, P interface {
	*T
	validator
}](resource string, items []T) error {
	for i := range items {
		if err := P(&items[i]).Validate(); err != nil {
			return fmt.Errorf("%w: %s[%d]: %v", ErrInvalidResponse, resource, i, err)
		}
	}
	return nil
}

func validateOne(resource string, v validator) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, resource, err)
	}
	return nil
}
