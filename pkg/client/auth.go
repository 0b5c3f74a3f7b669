package client

import (
	"context"
	"time"
)

// User represents an account in API responses
type User struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FullName           *string   `json:"fullName,omitempty"`
	SubscriptionStatus string    `json:"subscriptionStatus,omitempty"`
	IsAdmin            bool      `json:"isAdmin"`
	CreatedAt          time.Time `json:"createdAt"`
}

// AuthResponse represents a successful registration or login
type AuthResponse struct {
	User *User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

// Login authenticates with email and password. On success the session
// cookie is retained for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doRequest(ctx, "POST", "/api/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and opens a session
func (c *Client) Register(ctx context.Context, username, email, password, fullName string) (*AuthResponse, error) {
	req := registerRequest{
		Username: username,
		Email:    email,
		Password: password,
		FullName: fullName,
	}

	var resp AuthResponse
	if err := c.doRequest(ctx, "POST", "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout destroys the current session
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, "POST", "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.session = ""
	return nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp AuthResponse
	if err := c.doRequest(ctx, "GET", "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}
