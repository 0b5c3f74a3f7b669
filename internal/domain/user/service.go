package user

import "context"

// Service defines the interface for account and authentication business logic
type Service interface {
	// Register creates an account and opens a session, returning the signed
	// cookie value for it
	Register(ctx context.Context, username, email, password, fullName string) (*User, string, error)

	// Login verifies credentials and opens a session, returning the signed
	// cookie value for it
	Login(ctx context.Context, email, password string) (*User, string, error)

	// Authenticate resolves a signed cookie value to its user
	Authenticate(ctx context.Context, cookieValue string) (*User, error)

	// Logout destroys the session behind a signed cookie value. An invalid
	// or already-destroyed session is not an error.
	Logout(ctx context.Context, cookieValue string) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// ForgotPassword issues a reset token and emails it. It reveals nothing
	// about whether the address has an account.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword spends a reset token and sets the new password,
	// revoking every open session of the affected user
	ResetPassword(ctx context.Context, token, newPassword string) error

	// List retrieves users with pagination
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)
}
