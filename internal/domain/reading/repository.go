package reading

import "context"

// Repository defines the interface for reading data access
type Repository interface {
	// Create stores a new reading. Fails with a not-found error when the
	// referenced questionnaire does not exist.
	Create(ctx context.Context, r *Reading) error

	// GetByID retrieves a reading by ID
	GetByID(ctx context.Context, id int64) (*Reading, error)

	// ListByUser retrieves a user's readings, newest first
	ListByUser(ctx context.Context, userID int64) ([]*Reading, error)

	// ListByQuestionnaire retrieves the readings generated from a questionnaire
	ListByQuestionnaire(ctx context.Context, questionnaireID int64) ([]*Reading, error)

	// Count returns the total number of readings
	Count(ctx context.Context) (int64, error)
}
