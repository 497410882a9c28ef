//go:generate mockgen -source=client.go -destination=client_mock.go -package=chatlog

package chatlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fetcher loads chatlog entries. Implemented by *Client and *FileSource.
type Fetcher interface {
	Fetch(ctx context.Context, lines int) ([]Entry, error)
}

var _ Fetcher = (*Client)(nil)

// Client reads the chatlog JSON endpoint.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultEndpoint is used when no endpoint is configured.
	DefaultEndpoint = "127.0.0.1:8080"

	defaultPath      = "/chatlog/chatlog.json"
	defaultUserAgent = "chatlog/0.1"
	requestTimeout   = 5 * time.Second
	linesParam       = "lines"
)

// Option tweaks a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the given endpoint. The endpoint may be a
// bare host:port, in which case http and the default chatlog path are used.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:  u,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the normalised endpoint URL without query parameters.
func (c *Client) Endpoint() string {
	if c == nil || c.endpoint == nil {
		return ""
	}
	return c.endpoint.String()
}

// Fetch retrieves at most lines entries, oldest first. A non-positive lines
// value omits the parameter and lets the server decide.
func (c *Client) Fetch(ctx context.Context, lines int) ([]Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	reqURL := c.requestURL(lines)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &LoadError{Op: "request", URL: reqURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &LoadError{Op: "request", URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &LoadError{Op: "status", URL: reqURL, Status: resp.StatusCode}
	}

	entries, err := decodeEntries(resp.Body)
	if err != nil {
		return nil, &LoadError{Op: "decode", URL: reqURL, Err: err}
	}
	return entries, nil
}

// decodeEntries reads a body holding exactly one JSON array of entry objects.
// A null body, null elements and trailing data are rejected.
func decodeEntries(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)

	var raw *[]*Entry
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("body is null, want an array")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after array")
	}

	entries := make([]Entry, 0, len(*raw))
	for i, e := range *raw {
		if e == nil {
			return nil, fmt.Errorf("entry %d is null", i)
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

func (c *Client) requestURL(lines int) string {
	u := *c.endpoint
	values := u.Query()
	if lines > 0 {
		values.Set(linesParam, strconv.Itoa(lines))
	}
	u.RawQuery = values.Encode()
	return u.String()
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", endpoint)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultPath
	}
	u.Fragment = ""
	return u, nil
}
