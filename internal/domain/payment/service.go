package payment

import "context"

// IntentResult carries what the frontend needs to confirm a payment.
type IntentResult struct {
	ClientSecret string `json:"clientSecret"`
}

// SubscriptionResult carries the subscription reference and, when the first
// invoice is still unpaid, the client secret to confirm it.
type SubscriptionResult struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret,omitempty"`
	Status         string `json:"status,omitempty"`
}

// Service defines the interface for payment business logic
type Service interface {
	// CreatePaymentIntent starts a one-time charge and records it pending
	CreatePaymentIntent(ctx context.Context, userID, amountCents int64) (*IntentResult, error)

	// GetOrCreateSubscription returns the user's subscription, creating the
	// customer and subscription at the processor on first call
	GetOrCreateSubscription(ctx context.Context, userID int64) (*SubscriptionResult, error)

	// HandleWebhook verifies and applies a processor event
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error

	// ListByUser retrieves a user's payments, newest first
	ListByUser(ctx context.Context, userID int64) ([]*Payment, error)

	// List retrieves all payments with pagination
	List(ctx context.Context, limit, offset int) ([]*Payment, int64, error)
}
