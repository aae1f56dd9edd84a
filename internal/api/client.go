// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the garage complaint backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the garage API client.
type ClientConfig struct {
	// BaseURL is the backend base URL without the /api/v1 suffix
	// (default: http://127.0.0.1:8000)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// UserAgent sent with every request (default: "garagehub-tui")
	UserAgent string

	// RequestsPerSecond throttles outgoing calls when > 0 (default: off).
	// Streaming reads are not throttled, only request starts.
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://127.0.0.1:8000",
		Timeout:   30 * time.Second,
		UserAgent: "garagehub-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the garage complaint backend.
//
// Every non-streaming method normalizes failures into *ClientError: a
// non-2xx response becomes the body's message field (or the generic
// fallback), transport and decode errors carry their cause. Methods
// never panic past this boundary.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	if err := client.Health(ctx); err != nil {
//	    log.Fatal("backend not available:", err)
//	}
//	car, err := client.CarByPlate(ctx, "ABC-123")
type Client struct {
	mu         sync.RWMutex // guards config.BaseURL (live config reload)
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new garage API client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new garage API client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "garagehub-tui"
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: limiter,
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BaseURL
}

// SetBaseURL points the client at a different backend. In-flight
// requests keep the URL they were built with.
func (c *Client) SetBaseURL(baseURL string) {
	if baseURL == "" {
		return
	}
	c.mu.Lock()
	c.config.BaseURL = baseURL
	c.mu.Unlock()
}

// apiURL joins a path under the versioned API prefix.
func (c *Client) apiURL(path string) string {
	return c.BaseURL() + "/api/v1" + path
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// newRequest builds a request with the default headers applied. Extra
// headers override the defaults, matching the merge order of the
// original client.
func (c *Client) newRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// wait applies the politeness limiter, honoring context cancellation.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return nil
}

// doJSON performs a request and decodes a JSON response into out.
// This is the single error-normalization boundary for all
// non-streaming calls.
func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, url, body, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: ErrBackendUnavailable.Message, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeHTTPError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeDecode, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, url string, out any) error {
	return c.doJSON(ctx, http.MethodGet, url, nil, out)
}

// post performs a POST request with a JSON body.
func (c *Client) post(ctx context.Context, url string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeDecode, Message: "failed to marshal request", Cause: err}
		}
	}
	return c.doJSON(ctx, http.MethodPost, url, body, out)
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health verifies that the backend is reachable. The statistics
// endpoint doubles as the probe; the payload is discarded.
func (c *Client) Health(ctx context.Context) error {
	if err := c.get(ctx, c.apiURL("/complaints/statistics/"), nil); err != nil {
		if IsTimeout(err) {
			return err
		}
		if IsUnavailable(err) {
			return ErrBackendUnavailable
		}
		return err
	}
	return nil
}
