package insight

import (
	"context"
	"time"
)

// Service defines the interface for daily-insight business logic
type Service interface {
	// Daily retrieves the active insight for the given moment's date
	Daily(ctx context.Context, now time.Time) (*Insight, error)

	// Create stores a new insight
	Create(ctx context.Context, i *Insight) error

	// Update replaces the stored insight with the same ID
	Update(ctx context.Context, i *Insight) error

	// List retrieves all insights with pagination
	List(ctx context.Context, limit, offset int) ([]*Insight, int64, error)

	// PublishDaily generates and stores an insight for the given moment's
	// date unless an active one already exists. Reports whether a new
	// insight was published.
	PublishDaily(ctx context.Context, now time.Time) (*Insight, bool, error)
}
