// Package httpclient provides the plain HTTP GET client shared by the FDSN
// web-service calls. Archive lookups are single-shot: a failed request
// aborts the pipeline, so there is deliberately no retry logic here.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client issues GET requests against a base URL and returns text bodies.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// StatusError represents a non-2xx HTTP response.
type StatusError struct {
	Code int
	Body string // first 512 bytes
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a Client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetText sends a GET request and returns the response body as a string.
// Non-2xx responses return a *StatusError. HTTP 204 returns an empty body
// and no error; FDSN services use it for "request understood, no matching
// data", which callers map to their own sentinel.
func (c *Client) GetText(ctx context.Context, path string, query url.Values) (string, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return string(body), nil
	}

	bodyStr := string(body)
	if len(bodyStr) > 512 {
		bodyStr = bodyStr[:512]
	}
	return "", &StatusError{Code: resp.StatusCode, Body: bodyStr}
}
