package dto

import (
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/payment"
)

// CreatePaymentIntentRequest represents a one-time charge request. The
// amount arrives in dollars and is converted to cents at the boundary.
type CreatePaymentIntentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0,lte=10000"`
}

// PaymentDTO represents a payment in API responses, with the amount in
// dollars.
type PaymentDTO struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	PaymentType string    `json:"paymentType"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewPaymentDTO converts a domain payment
func NewPaymentDTO(p *payment.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:          p.ID,
		Amount:      float64(p.AmountCents) / 100,
		Currency:    p.Currency,
		PaymentType: p.PaymentType,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

// NewPaymentDTOs converts a slice of domain payments
func NewPaymentDTOs(payments []*payment.Payment) []*PaymentDTO {
	out := make([]*PaymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, NewPaymentDTO(p))
	}
	return out
}
