package client

import (
	"context"
	"fmt"
)

// Stats summarizes the platform
type Stats struct {
	TotalUsers        int64   `json:"totalUsers"`
	Subscriptions     int64   `json:"subscriptions"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
	ReadingsGenerated int64   `json:"readingsGenerated"`
}

// Stats returns platform-wide counters (admin only)
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.doRequest(ctx, "GET", "/api/admin/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListUsers returns all users, paginated (admin only)
func (c *Client) ListUsers(ctx context.Context, page, pageSize int) ([]*User, error) {
	var resp struct {
		Data []*User `json:"data"`
	}
	path := paginatedPath("/api/admin/users", page, pageSize)
	if err := c.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func paginatedPath(path string, page, pageSize int) string {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return fmt.Sprintf("%s?page=%d&page_size=%d", path, page, pageSize)
}
