// Package api implements the HTTP client for the chatdeck backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	"github.com/avelar/chatdeck/internal/config"
	apierrors "github.com/avelar/chatdeck/internal/errors"
	"github.com/avelar/chatdeck/internal/models"
)

// Client talks to the backend HTTP API. The session cookie is attached
// to every request; the backend treats its absence as anonymous.
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
	session    *config.SessionCookie
	persist    bool // write refreshed session cookies back to disk

	mu        sync.RWMutex
	available bool
}

// Option is a function that configures the client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(hc tls_client.HttpClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSessionPersistence controls whether refreshed session cookies
// are written back to disk.
func WithSessionPersistence(enabled bool) Option {
	return func(c *Client) {
		c.persist = enabled
	}
}

// NewClient creates a new backend client.
func NewClient(cfg config.Config, session *config.SessionCookie, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL must not be empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if session == nil {
		session = &config.SessionCookie{Name: config.SessionCookieName}
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeout),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		session:    session,
		persist:    true,
		available:  true,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Session returns the ambient session cookie.
func (c *Client) Session() *config.SessionCookie {
	return c.session
}

// Available reports the last known backend health. Sends are disabled
// while this is false.
func (c *Client) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

func (c *Client) setAvailable(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available = ok
}

// Health probes the backend liveness endpoint and updates the
// availability flag. The error is for the operator log only; callers
// surface unavailability through Available.
func (c *Client) Health(ctx context.Context) error {
	_, _, err := c.do(ctx, fhttp.MethodGet, models.PathHealth, nil)
	if err != nil {
		c.setAvailable(false)
		return err
	}
	c.setAvailable(true)
	return nil
}

// do performs a JSON request against the backend. It attaches the
// session cookie when one is held, captures a refreshed cookie from
// the response, and maps failures onto the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := fhttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if name, value := c.session.Get(); value != "" {
		req.AddCookie(&fhttp.Cookie{Name: name, Value: value})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded || apierrors.IsTimeoutError(err) {
			return nil, 0, apierrors.NewTimeoutError(path)
		}
		return nil, 0, apierrors.NewNetworkError(path, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	c.captureSessionCookie(resp)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, apierrors.NewNetworkError(path, err)
	}

	if resp.StatusCode >= 400 {
		msg := errorMessage(respBody)
		if resp.StatusCode == fhttp.StatusUnauthorized || resp.StatusCode == fhttp.StatusForbidden {
			return respBody, resp.StatusCode, apierrors.NewAuthError(msg)
		}
		return respBody, resp.StatusCode, apierrors.NewAPIError(resp.StatusCode, path, msg)
	}

	return respBody, resp.StatusCode, nil
}

// captureSessionCookie picks up a rotated session cookie from the
// response and persists it so later invocations stay logged in.
func (c *Client) captureSessionCookie(resp *fhttp.Response) {
	name, _ := c.session.Get()
	for _, ck := range resp.Cookies() {
		if ck.Name != name || ck.Value == "" {
			continue
		}
		c.session.Set(ck.Value)
		if c.persist {
			if err := config.SaveSession(c.session); err != nil {
				slog.Warn("failed to persist refreshed session cookie", "error", err)
			}
		}
	}
}

// errorMessage extracts a human-readable message from an error body.
// Backends differ on the field name, so probe the common ones.
func errorMessage(body []byte) string {
	res := gjson.ParseBytes(body)
	for _, field := range []string{"error", "message", "detail"} {
		if v := res.Get(field); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "request failed"
	}
	return msg
}
