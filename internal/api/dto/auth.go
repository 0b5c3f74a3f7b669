// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/user"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"fullName,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents a password-reset initiation
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents spending a reset token
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FullName           *string   `json:"fullName,omitempty"`
	SubscriptionStatus string    `json:"subscriptionStatus,omitempty"`
	IsAdmin            bool      `json:"isAdmin"`
	CreatedAt          time.Time `json:"createdAt"`
}

// NewUserDTO converts a domain user, leaving out credential and billing
// internals.
func NewUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FullName:           u.FullName,
		SubscriptionStatus: u.SubscriptionStatus,
		IsAdmin:            u.IsAdmin,
		CreatedAt:          u.CreatedAt,
	}
}

// AuthResponse represents a successful registration or login
type AuthResponse struct {
	User *UserDTO `json:"user"`
}
