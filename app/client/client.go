// Package client wraps the blog REST backend: request construction, bearer
// auth, the one-shot production fallback for unreachable development
// backends, and degraded-mode responses from local fixtures when no backend
// answers at all.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vacationblog/app/config"
	"vacationblog/app/fixtures"
	"vacationblog/app/tokens"
)

// Client issues requests against the resolved base URL. It is safe for
// concurrent use.
type Client struct {
	cfg      *config.Config
	baseURL  string
	isProd   bool
	http     *http.Client
	tokens   tokens.Store
	fixtures fixtures.Store
	log      zerolog.Logger

	// Ordered endpoint shapes, injectable so tests can simulate partially
	// compatible backends.
	slugEndpoints    []string
	commentEndpoints []commentEndpoint
}

// Options configures optional collaborators. Zero values get sensible
// defaults: an in-memory token store, the seeded fixture set, a disabled
// logger and a timeout taken from the config.
type Options struct {
	Tokens     tokens.Store
	Fixtures   fixtures.Store
	Logger     *zerolog.Logger
	HTTPClient *http.Client
}

// New builds a client for the given configuration and runtime environment.
// The base URL is resolved once here, not per request.
func New(cfg *config.Config, env config.Environment, opts Options) *Client {
	c := &Client{
		cfg:      cfg,
		baseURL:  cfg.Resolve(env),
		isProd:   cfg.IsProduction(env),
		tokens:   opts.Tokens,
		fixtures: opts.Fixtures,
		log:      zerolog.Nop(),

		slugEndpoints:    defaultSlugEndpoints,
		commentEndpoints: defaultCommentEndpoints,
	}
	if c.tokens == nil {
		c.tokens = tokens.NewMemoryStore()
	}
	if c.fixtures == nil {
		c.fixtures = fixtures.NewSeededStore()
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "api-client").Logger()
	}
	c.http = opts.HTTPClient
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout()}
	}
	return c
}

// BaseURL returns the resolved base URL, for diagnostics.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one API call completely enough to be reissued verbatim
// against a different base URL.
type request struct {
	method string
	path   string
	query  url.Values
	body   []byte
}

// do sends req against the active base URL. On a network-level failure when
// the active URL is not production and the environment is not flagged as
// production, the identical request is reissued exactly once against the
// production URL; a second failure surfaces unmodified. Server error
// responses never trigger the fallback.
func (c *Client) do(ctx context.Context, req request) (*http.Response, error) {
	resp, err := c.send(ctx, c.baseURL, req)
	if err == nil {
		return resp, nil
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		return nil, err
	}
	if c.isProd || c.baseURL == c.cfg.ProductionURL {
		return nil, err
	}

	c.log.Warn().
		Str("method", req.method).
		Str("path", req.path).
		Str("base_url", c.baseURL).
		Err(err).
		Msg("backend unreachable, retrying against production")

	return c.send(ctx, c.cfg.ProductionURL, req)
}

// send performs a single attempt of req against base.
func (c *Client) send(ctx context.Context, base string, req request) (*http.Response, error) {
	u := strings.TrimSuffix(base, "/") + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	return resp, nil
}

// getJSON runs req, maps non-2xx responses to the error taxonomy and
// decodes a successful body into out.
func (c *Client) getJSON(ctx context.Context, req request, out interface{}) error {
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// isNetwork reports whether err is a network-level failure, after the
// fallback retry has already been exhausted. These are the errors the
// degraded-data path answers for.
func isNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
