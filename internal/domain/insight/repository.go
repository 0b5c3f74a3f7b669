package insight

import "context"

// Repository defines the interface for daily-insight data access
type Repository interface {
	// Create stores a new insight
	Create(ctx context.Context, i *Insight) error

	// GetActiveByDate retrieves the first active insight for a date key
	GetActiveByDate(ctx context.Context, date string) (*Insight, error)

	// Update replaces the stored insight with the same ID
	Update(ctx context.Context, i *Insight) error

	// List retrieves all insights with pagination
	List(ctx context.Context, limit, offset int) ([]*Insight, int64, error)
}
