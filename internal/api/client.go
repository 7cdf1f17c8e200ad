// Package api is the HTTP transport for the catalog backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "https://localhost:7115/api/v1"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second
)

// Client talks JSON to the catalog backend. It never retries; retry policy
// belongs to callers.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient replaces the underlying transport (tests use httptest clients).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			timeout := c.http.Timeout
			c.http = h
			if c.http.Timeout == 0 {
				c.http.Timeout = timeout
			}
		}
	}
}

// WithLogger sets the logger used for failure reports.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for baseURL. If baseURL is empty, DefaultBaseURL is used.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  log.Logger.With().Str("component", "api").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Get decodes the JSON response of GET path?query into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the response into out (may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON; the response body is discarded unless out is set.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues DELETE path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do sends one request and decodes a JSON response into out. Every failure is
// returned as *Error and logged once.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	err := c.do(ctx, method, path, query, body, out)
	if err != nil {
		c.report(err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), bodyReader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(method, path, err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(method, path, resp); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// url joins the base URL, path and query.
func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// checkStatus returns a classified *Error for non-2xx responses.
func checkStatus(method, path string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	e := &Error{
		Kind:   KindClient,
		Method: method,
		Path:   path,
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(raw)),
	}
	if resp.StatusCode >= 500 {
		e.Kind = KindServer
	}
	e.Message = extractMessage(raw)
	return e
}

// extractMessage pulls the machine-readable message out of an error body.
// ASP.NET-style problem details put it in "title"/"detail" instead.
func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Detail != "":
		return body.Detail
	default:
		return body.Title
	}
}

func networkError(method, path string, err error) *Error {
	e := &Error{Kind: KindNetwork, Method: method, Path: path, Err: err}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		e.Timeout = true
	}
	return e
}

func (c *Client) report(err error) {
	var e *Error
	if !errors.As(err, &e) {
		c.logger.Error().Err(err).Msg("request failed")
		return
	}
	ev := c.logger.Error()
	switch {
	case e.Kind == KindClient:
		ev = c.logger.Warn()
	case errors.Is(e.Err, context.Canceled):
		// The caller walked away; nothing to diagnose.
		ev = c.logger.Debug()
	}
	ev = ev.Str("kind", e.Kind.String()).
		Str("method", e.Method).
		Str("path", e.Path)
	if e.Kind == KindNetwork {
		ev.Bool("timeout", e.Timeout).Err(e.Err).Msg("no response from server")
		return
	}
	ev.Int("status", e.Status).Str("message", e.Message).Str("body", truncate(e.Body, 512)).Msg("request rejected")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
