package payment

import "context"

// Repository defines the interface for payment data access
type Repository interface {
	// Create stores a new payment record
	Create(ctx context.Context, p *Payment) error

	// GetByIntentID retrieves a payment by its payment-intent reference
	GetByIntentID(ctx context.Context, intentID string) (*Payment, error)

	// UpdateStatusByIntentID transitions the payment matching the intent
	UpdateStatusByIntentID(ctx context.Context, intentID, status string) error

	// ListByUser retrieves a user's payments, newest first
	ListByUser(ctx context.Context, userID int64) ([]*Payment, error)

	// List retrieves all payments with pagination
	List(ctx context.Context, limit, offset int) ([]*Payment, int64, error)

	// SumCompletedCents sums the amount of every completed payment
	SumCompletedCents(ctx context.Context) (int64, error)
}
