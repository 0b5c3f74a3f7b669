package payment

import "time"

// Payment records one charge or subscription invoice for a user. Amounts are
// stored as integer cents; the API layer renders decimal dollars.
type Payment struct {
	ID                    int64     `json:"id"`
	UserID                int64     `json:"userId"`
	StripePaymentIntentID string    `json:"stripePaymentIntentId,omitempty"`
	AmountCents           int64     `json:"amountCents"`
	Currency              string    `json:"currency"`
	PaymentType           string    `json:"paymentType"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"createdAt"`
}

// Payment types
const (
	TypeOneTime      = "one_time"
	TypeSubscription = "subscription"
)

// Payment statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
