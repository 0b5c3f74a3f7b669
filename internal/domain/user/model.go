package user

import "time"

// User represents a registered account
type User struct {
	ID                   int64      `json:"id"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	FullName             *string    `json:"fullName,omitempty"`
	PasswordHash         string     `json:"-"`
	StripeCustomerID     *string    `json:"-"`
	StripeSubscriptionID *string    `json:"-"`
	SubscriptionStatus   string     `json:"subscriptionStatus,omitempty"`
	IsAdmin              bool       `json:"isAdmin"`
	ResetToken           *string    `json:"-"`
	ResetTokenExpiresAt  *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// Subscription statuses
const (
	SubscriptionNone     = ""
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
)
