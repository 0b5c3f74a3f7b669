package reading

import "context"

// Service defines the interface for reading business logic
type Service interface {
	// GetForUser retrieves a reading the user owns. Readings owned by
	// anyone else surface as not found.
	GetForUser(ctx context.Context, userID, readingID int64) (*Reading, error)

	// ListForUser retrieves a user's readings, newest first
	ListForUser(ctx context.Context, userID int64) ([]*Reading, error)

	// Generate produces a new reading of the given type from one of the
	// user's questionnaires
	Generate(ctx context.Context, userID, questionnaireID int64, readingType string) (*Reading, error)

	// Count returns the total number of readings
	Count(ctx context.Context) (int64, error)
}
