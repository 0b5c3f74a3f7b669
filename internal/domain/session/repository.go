package session

import "context"

// Repository defines the interface for session storage
type Repository interface {
	// Create stores a new session
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its opaque ID
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session; deleting an absent session is not an error
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes every session belonging to a user
	DeleteByUser(ctx context.Context, userID int64) error

	// DeleteExpired removes sessions past their expiry, returning the count
	DeleteExpired(ctx context.Context) (int64, error)
}
