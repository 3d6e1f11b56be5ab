package esi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// limiterKey identifies the ESI request budget in the shared rate limiter.
const limiterKey = "esi"

// Limiter gates outbound requests against a shared request budget.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Client is the shared HTTP transport for the ESI API clients.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    Limiter
}

// NewClient creates a new ESI transport.
//
// baseURL is the ESI root, e.g. "https://esi.evetech.net/latest".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// doGet sends an unauthenticated GET request and returns the response body
// together with the response headers, which carry X-Pages on paginated
// endpoints.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, http.Header, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, nil, err
	}

	return body, resp.Header, nil
}

// doPost sends a JSON POST request and returns the response body.
func (c *Client) doPost(ctx context.Context, path string, payload []byte) ([]byte, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// throttle blocks until the shared request budget admits one request. A nil
// limiter admits everything.
func (c *Client) throttle(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}
	return nil
}

// WithHTTPClient replaces the underlying HTTP client. Useful for tests and
// for callers that need custom transport settings.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLimiter attaches a shared rate limiter to the transport.
func (c *Client) WithLimiter(l Limiter) *Client {
	c.limiter = l
	return c
}
