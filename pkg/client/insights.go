package client

import (
	"context"
	"time"
)

// Insight represents a daily insight
type Insight struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Date       string    `json:"date"`
	ZodiacSign string    `json:"zodiacSign,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// InsightRequest creates or updates a daily insight
type InsightRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Date       string `json:"date,omitempty"`
	ZodiacSign string `json:"zodiacSign,omitempty"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

// DailyInsight returns today's active insight
func (c *Client) DailyInsight(ctx context.Context) (*Insight, error) {
	var resp struct {
		Insight *Insight `json:"insight"`
	}
	if err := c.doRequest(ctx, "GET", "/api/daily-insight", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Insight, nil
}

// CreateInsight stores a new daily insight (admin only)
func (c *Client) CreateInsight(ctx context.Context, req InsightRequest) (*Insight, error) {
	var i Insight
	if err := c.doRequest(ctx, "POST", "/api/admin/daily-insights", req, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// ListInsights returns all insights, paginated (admin only)
func (c *Client) ListInsights(ctx context.Context, page, pageSize int) ([]*Insight, error) {
	var resp struct {
		Data []*Insight `json:"data"`
	}
	path := paginatedPath("/api/admin/daily-insights", page, pageSize)
	if err := c.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
