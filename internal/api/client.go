// Package api implements the remote resource fetchers: stateless
// request/response wrappers around the shopping backend's REST surface.
// Every failure is either a transport error or a structured domain error;
// callers must treat any failure as "operation did not happen".
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/superdupermart/storefront/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// TokenProvider supplies the bearer credential for authenticated requests.
// An empty string means no credential is attached.
type TokenProvider interface {
	Token() string
}

// TokenFunc adapts a function to the TokenProvider interface
type TokenFunc func() string

// Token implements TokenProvider
func (f TokenFunc) Token() string { return f() }

// Client is the shared HTTP plumbing for all fetchers
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTokenProvider attaches bearer credentials to outgoing requests
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.tokens = tp }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request-level debug logging
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracing instruments the transport so every backend call becomes a
// client span on the active trace.
func WithTracing() Option {
	return func(c *Client) {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = otelhttp.NewTransport(base)
	}
}

// NewClient creates a client for the backend rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Auth returns the auth fetcher
func (c *Client) Auth() *AuthService { return &AuthService{c} }

// Catalog returns the catalog fetcher
func (c *Client) Catalog() *CatalogService { return &CatalogService{c} }

// Orders returns the orders fetcher
func (c *Client) Orders() *OrderService { return &OrderService{c} }

// Profile returns the profile fetcher
func (c *Client) Profile() *ProfileService { return &ProfileService{c} }

// Watchlist returns the watchlist fetcher
func (c *Client) Watchlist() *WatchlistService { return &WatchlistService{c} }

// Chat returns the chat fetcher
func (c *Client) Chat() *ChatService { return &ChatService{c} }

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (skipped when out is nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.do(ctx, method, path, body, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// doText issues a request and returns the response body as plain text.
// Several backend endpoints (cancel, complete, watchlist add/remove)
// reply with a human-readable confirmation string.
func (c *Client) doText(ctx context.Context, method, path string, body any) (string, error) {
	resp, err := c.do(ctx, method, path, body, "")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}
	return string(text), nil
}

// doRaw issues a request with a preassembled body and content type.
// Used for multipart uploads.
func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string) (string, error) {
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return "", err
	}
	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}
	return string(text), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, contentType string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
		if contentType == "" {
			contentType = "application/json"
		}
	}
	req, err := c.newRequest(ctx, method, path, reader, contentType)
	if err != nil {
		return nil, err
	}
	return c.send(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	requestID := logger.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return nil, transportError(err)
	}
	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}
