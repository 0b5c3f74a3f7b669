package questionnaire

import (
	"context"

	"github.com/lunaria-app/lunaria/internal/domain/reading"
)

// Service defines the interface for questionnaire business logic
type Service interface {
	// Submit stores a completed questionnaire and generates the initial
	// birth-chart reading from it
	Submit(ctx context.Context, q *Questionnaire) (*reading.Reading, error)

	// Latest retrieves the user's most recent questionnaire
	Latest(ctx context.Context, userID int64) (*Questionnaire, error)

	// ListByUser retrieves a user's questionnaires, newest first
	ListByUser(ctx context.Context, userID int64) ([]*Questionnaire, error)

	// List retrieves all questionnaires with pagination
	List(ctx context.Context, limit, offset int) ([]*Questionnaire, int64, error)
}
