package user

import (
	"context"
	"time"
)

// Repository defines the interface for user data access
type Repository interface {
	// Create stores a new user. Fails with a conflict error when the
	// username or email is already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByResetToken retrieves the user holding an unexpired reset token
	GetByResetToken(ctx context.Context, token string) (*User, error)

	// UpdateStripeInfo sets the payment-processor references on a user
	UpdateStripeInfo(ctx context.Context, userID int64, customerID, subscriptionID string) (*User, error)

	// UpdateSubscriptionStatus sets the subscription status on a user
	UpdateSubscriptionStatus(ctx context.Context, userID int64, status string) (*User, error)

	// SetResetToken stores a password-reset token with its expiry
	SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// ConsumeResetToken atomically replaces the password of the user holding
	// the given unexpired token and clears the token, so a token can be spent
	// exactly once even under concurrent requests. Returns the user ID.
	ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (int64, error)

	// UpdatePassword replaces a user's password hash
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	// SetAdmin grants or revokes the admin flag
	SetAdmin(ctx context.Context, userID int64, isAdmin bool) error

	// ClearResetToken removes a user's reset token
	ClearResetToken(ctx context.Context, userID int64) error

	// List retrieves users with pagination, insertion-ordered
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)

	// CountBySubscriptionStatus counts users with the given status
	CountBySubscriptionStatus(ctx context.Context, status string) (int64, error)
}
