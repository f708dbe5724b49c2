// Package remote searches the online bookstore catalog API.
package remote

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/bookrank/internal/cache"
	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/ratelimit"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultRatePerSecond = 5
	defaultMaxAttempts   = 2
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a catalog API client.
type Client struct {
	baseURL       string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int
	useCache      bool
	logger        *slog.Logger
}

var _ catalog.Source = (*Client)(nil)

// NewClient creates a client for the catalog endpoint at baseURL. TLS
// certificates are verified unless WithTransport says otherwise.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:       baseURL,
		httpClient:    NewHTTPClient(defaultTimeout, true),
		rateLimiter:   ratelimit.New("catalog", defaultRatePerSecond),
		retryAttempts: defaultMaxAttempts,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// NewHTTPClient returns an http.Client with the given timeout. verify=false
// accepts any server certificate.
func NewHTTPClient(timeout time.Duration, verify bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !verify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via remote.verifyssl
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithTransport builds the HTTP client from a timeout and the TLS
// verification setting.
func WithTransport(timeout time.Duration, verifySSL bool) Option {
	return func(client *Client) {
		client.httpClient = NewHTTPClient(timeout, verifySSL)
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// WithRetryAttempts sets the number of attempts for requests that fail at
// the network level.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithCache stores raw result pages in the remote_cache table.
func WithCache(enabled bool) Option {
	return func(client *Client) {
		client.useCache = enabled
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// Search asks the API for up to limit books matching query. Results come
// back in API order; books without a title are dropped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]catalog.Book, error) {
	if strings.TrimSpace(c.baseURL) == "" {
		return nil, fmt.Errorf("remote catalog base URL is not configured")
	}

	fetch := func() ([]catalog.Book, error) {
		return c.fetch(ctx, query, limit)
	}
	if !c.useCache {
		return fetch()
	}

	books, fromCache, err := cache.GetOrFetchWithTTL(cache.RemoteCacheTableName, cacheKey(query, limit), fetch,
		cache.SelectNegativeCacheTTL(func(books []catalog.Book) bool { return len(books) == 0 }))
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Remote catalog search", "query", query, "limit", limit, "results", len(books), "cached", fromCache)
	return books, nil
}

func cacheKey(query string, limit int) string {
	return fmt.Sprintf("%s:%d", query, limit)
}
