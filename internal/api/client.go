// Package api talks to the LMS endpoint that renames a CCX.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
)

// StatusOK is the status value the rename endpoint returns on success.
const StatusOK = "ok"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Response is the JSON payload returned by the rename endpoint.
type Response struct {
	Status string `json:"status"`
}

// Client posts display name changes to a single rename URL.
type Client struct {
	url        string
	httpClient *http.Client
	headers    map[string]string
	logger     logr.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport. Nil keeps http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithHeaders adds headers sent with every request (CSRF token, session cookie).
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Client) {
		c.logger = lgr
	}
}

// NewClient validates rawURL and returns a Client posting to it.
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("api: rename URL is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid rename URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api: rename URL %q must be http or https", rawURL)
	}
	c := &Client{
		url:        rawURL,
		httpClient: http.DefaultClient,
		headers:    map[string]string{},
		logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the rename endpoint.
func (c *Client) URL() string {
	return c.url
}

// Rename posts name as a form field and succeeds only when the server
// answers with status "ok".
func (c *Client) Rename(ctx context.Context, name string) error {
	form := url.Values{"name": {name}}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("api: failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Requested-With", "XMLHttpRequest")
	for k, v := range c.headers {
		request.Header.Set(k, v)
	}

	c.logger.V(1).Info("posting display name", "url", c.url, "name", name)
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("api: request to %s failed: %w", c.url, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("api: failed to read response body: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &HTTPError{Code: response.StatusCode, Body: snippet(body)}
	}

	var payload Response
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("api: failed to parse rename response: %w", err)
	}
	if payload.Status != StatusOK {
		return &StatusError{Status: payload.Status}
	}
	c.logger.V(1).Info("display name saved", "name", name)
	return nil
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
