package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/notecard/internal"
)

const (
	randomPath     = "/random"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4096
)

// Client fetches random entries from the vocabulary service
type Client struct {
	basePath   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// A zero duration disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithBreaker replaces the circuit breaker settings
func WithBreaker(st gobreaker.Settings) Option {
	return func(c *Client) {
		if st.IsSuccessful == nil {
			st.IsSuccessful = isSuccessful
		}
		c.breaker = gobreaker.NewCircuitBreaker(st)
	}
}

// DefaultBreakerSettings trips after five consecutive failures and probes
// again after 30 seconds.
func DefaultBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:         "vocab",
		MaxRequests:  1,
		Timeout:      30 * time.Second,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// NewClient creates a client for the service rooted at basePath
func NewClient(basePath string, opts ...Option) *Client {
	c := &Client{
		basePath: internal.TrimBasePath(basePath),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = gobreaker.NewCircuitBreaker(DefaultBreakerSettings())
	}
	return c
}

// BasePath returns the service base path without trailing slash
func (c *Client) BasePath() string {
	return c.basePath
}

// BreakerState reports the state of the circuit breaker
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Random fetches one random entry. Non-200 responses are returned as
// *StatusError. While the breaker is open gobreaker.ErrOpenState is returned
// without contacting the service.
func (c *Client) Random(ctx context.Context) (Entry, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchRandom(ctx)
	})
	if err != nil {
		return Entry{}, err
	}
	return res.(Entry), nil
}

func (c *Client) fetchRandom(ctx context.Context) (Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.basePath+randomPath, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Entry{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var entry Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode entry: %w", err)
	}
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}

	return entry, nil
}

// isSuccessful decides what counts against the breaker. Client errors and
// cancelled requests say nothing about the health of the service.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrIncompleteEntry) {
		return true
	}
	if code := StatusCode(err); code != 0 && code < http.StatusInternalServerError {
		return true
	}
	return false
}
