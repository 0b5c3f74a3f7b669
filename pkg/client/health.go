package client

import "context"

// Health reports the server's readiness state
type Health struct {
	Status string `json:"status"`
}

// Healthz checks liveness
func (c *Client) Healthz(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doRequest(ctx, "GET", "/healthz", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Readyz checks readiness, including the database connection
func (c *Client) Readyz(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doRequest(ctx, "GET", "/readyz", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
