// Package client is the typed SDK for the ledgerline accounting API. It owns
// the authenticated request layer: token lifecycle (access/refresh with a
// single-flight refresh), the idempotent-mutation contract for money-moving
// operations, list-shape normalization, and per-resource wrappers over the
// REST surface.
package client

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 30 * time.Second

// Client issues authenticated requests against one API base URL. It is safe
// for concurrent use; the session is the only mutable state.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	session       *Session
	logger        *slog.Logger
	validate      *validator.Validate
	refreshFlight singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests inject the
// httptest client here).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Timeouts surface as transport failures and
// are never auto-retried: without an idempotency key a blind retry of a
// mutation risks duplication.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger attaches a structured logger; the default discards nothing but
// logs at the package default level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTokenStore backs the session with the given store, e.g. a file store
// so CLI sessions survive restarts.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.session = NewSession(store) }
}

// New builds a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    NewSession(nil),
		logger:     slog.Default(),
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the token store for login/logout flows and tests.
func (c *Client) Session() *Session {
	return c.session
}
