// Package client is a Go client for the Lunaria HTTP API. It is used by the
// CLI and can be embedded in other tools.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sessionCookieName matches the cookie the server issues.
const sessionCookieName = "lunaria_session"

// Client talks to a Lunaria server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    string
}

// Config holds the client configuration
type Config struct {
	BaseURL    string        // server base URL (e.g. "http://localhost:8080")
	Session    string        // previously stored session cookie value
	Timeout    time.Duration // HTTP client timeout (default: 30s)
	HTTPClient *http.Client  // optional custom HTTP client
}

// NewClient creates a new Lunaria API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		session:    cfg.Session,
	}
}

// SetSession sets the session cookie value for authenticated requests
func (c *Client) SetSession(session string) {
	c.session = session
}

// Session returns the current session cookie value
func (c *Client) Session() string {
	return c.session
}

// doRequest performs an HTTP request, carrying the session cookie and
// capturing a refreshed one from the response.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.session})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			c.session = cookie.Value
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(respBody, &apiErr); err != nil {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
