package reporunner

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the well-known local Reporunner endpoint.
	DefaultBaseURL = "http://localhost:3001"
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultPollInterval is the default interval between execution polls.
	DefaultPollInterval = 1 * time.Second
	// DefaultPollTimeout is the default ceiling on a WaitForExecution call.
	DefaultPollTimeout = 5 * time.Minute
)

// Client talks to a Reporunner server. Its configuration is immutable after
// New returns; a single client supports any number of concurrent requests,
// waits and stream sessions.
type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
	log     zerolog.Logger

	timeout      time.Duration
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the bearer token attached to every request and to the
// stream handshake. Without it requests are sent unauthenticated.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client, e.g. for custom TLS
// or proxy configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithPollInterval sets the interval between status fetches in
// WaitForExecution.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithPollTimeout sets the maximum total time WaitForExecution spends
// before giving up with ErrTimeout.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Client) { c.pollTimeout = d }
}

// New creates a client for the server at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		log:          zerolog.Nop(),
		timeout:      DefaultTimeout,
		pollInterval: DefaultPollInterval,
		pollTimeout:  DefaultPollTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", c.pollInterval)
	}
	if c.pollTimeout < c.pollInterval {
		return nil, fmt.Errorf("poll timeout %s must be at least the poll interval %s", c.pollTimeout, c.pollInterval)
	}

	if c.httpClient != nil {
		c.http = resty.NewWithClient(c.httpClient)
	} else {
		c.http = resty.New()
	}
	c.http.
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if c.apiKey != "" {
		c.http.SetAuthToken(c.apiKey)
		c.warnIfKeyExpired()
	}

	return c, nil
}

func validateBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("base URL must be absolute with a host, got %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}
