package questionnaire

import "context"

// Repository defines the interface for questionnaire data access
type Repository interface {
	// Create stores a new questionnaire. Fails with a not-found error when
	// the owning user does not exist.
	Create(ctx context.Context, q *Questionnaire) error

	// GetByID retrieves a questionnaire by ID
	GetByID(ctx context.Context, id int64) (*Questionnaire, error)

	// ListByUser retrieves a user's questionnaires, newest first
	ListByUser(ctx context.Context, userID int64) ([]*Questionnaire, error)

	// List retrieves all questionnaires with pagination
	List(ctx context.Context, limit, offset int) ([]*Questionnaire, int64, error)
}
