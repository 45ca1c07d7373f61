package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// Client wraps an http.Client with the header discipline the extractors
// share: a spoofed user agent per request plus optional extra headers.
// Non-2xx responses are mapped to errors so extractor call sites can
// treat them uniformly as "source unreachable".
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *HostLimiter
}

// New creates a Client with the given timeout and user agent.
// The limiter may be nil to disable per-host rate limiting.
func New(timeout time.Duration, userAgent string, limiter *HostLimiter) *Client {
	return &Client{
		http:      NewDefaultHTTPClient(timeout),
		userAgent: userAgent,
		limiter:   limiter,
	}
}

// WithUserAgent returns a shallow copy using a different user agent,
// sharing the underlying transport and limiter.
func (c *Client) WithUserAgent(userAgent string) *Client {
	clone := *c
	clone.userAgent = userAgent
	return &clone
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return resp, nil
}

// Get fetches a URL and returns the response body
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// GetWithParams fetches a URL with query parameters appended
func (c *Client) GetWithParams(ctx context.Context, rawURL string, params url.Values, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %s: %w", rawURL, err)
	}
	q := u.Query()
	for k, vals := range params {
		for _, v := range vals {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return c.Get(ctx, u.String(), headers)
}

// GetJSON fetches a URL and decodes the JSON response into out
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, out interface{}) error {
	body, err := c.Get(ctx, rawURL, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w", rawURL, err)
	}
	return nil
}

// PostJSON sends a JSON payload and decodes the JSON response into out.
// Pass a nil out to discard the response body.
func (c *Client) PostJSON(ctx context.Context, rawURL string, payload interface{}, headers map[string]string, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	merged := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		merged[k] = v
	}

	resp, err := c.do(ctx, http.MethodPost, rawURL, bytes.NewReader(data), merged)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w", rawURL, err)
	}
	return nil
}
