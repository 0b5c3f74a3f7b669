package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/metrics"
	"github.com/lunaria-app/lunaria/internal/providers"
)

// PaymentService implements payment.Service
type PaymentService struct {
	payments   payment.Repository
	users      user.Repository
	processor  providers.PaymentProcessor
	priceCents int64
	logger     *logger.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	payments payment.Repository,
	users user.Repository,
	processor providers.PaymentProcessor,
	subscriptionPriceCents int64,
	log *logger.Logger,
) payment.Service {
	return &PaymentService{
		payments:   payments,
		users:      users,
		processor:  processor,
		priceCents: subscriptionPriceCents,
		logger:     log,
	}
}

// CreatePaymentIntent starts a one-time charge and records it pending
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, userID, amountCents int64) (*payment.IntentResult, error) {
	if amountCents <= 0 {
		return nil, errors.BadRequest("Amount must be positive")
	}

	pi, err := s.processor.CreatePaymentIntent(ctx, amountCents, "usd", map[string]string{
		"user_id": strconv.FormatInt(userID, 10),
	})
	if err != nil {
		return nil, err
	}

	p := &payment.Payment{
		UserID:                userID,
		StripePaymentIntentID: pi.ID,
		AmountCents:           amountCents,
		Currency:              "usd",
		PaymentType:           payment.TypeOneTime,
		Status:                payment.StatusPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	metrics.RecordPayment(payment.TypeOneTime, payment.StatusPending)
	s.logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"payment_id": p.ID,
		"amount":     amountCents,
	}).Info("Payment intent created")

	return &payment.IntentResult{ClientSecret: pi.ClientSecret}, nil
}

// GetOrCreateSubscription returns the user's subscription, creating the
// customer and subscription at the processor on first call
func (s *PaymentService) GetOrCreateSubscription(ctx context.Context, userID int64) (*payment.SubscriptionResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.StripeSubscriptionID != nil && *u.StripeSubscriptionID != "" {
		sub, err := s.processor.GetSubscription(ctx, *u.StripeSubscriptionID)
		if err != nil {
			return nil, err
		}
		return &payment.SubscriptionResult{
			SubscriptionID: sub.ID,
			ClientSecret:   sub.ClientSecret,
			Status:         sub.Status,
		}, nil
	}

	customerID := ""
	if u.StripeCustomerID != nil {
		customerID = *u.StripeCustomerID
	}
	if customerID == "" {
		name := ""
		if u.FullName != nil {
			name = *u.FullName
		}
		cu, err := s.processor.CreateCustomer(ctx, u.Email, name)
		if err != nil {
			return nil, err
		}
		customerID = cu.ID
	}

	sub, err := s.processor.CreateSubscription(ctx, customerID, s.priceCents, map[string]string{
		"user_id": strconv.FormatInt(userID, 10),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.users.UpdateStripeInfo(ctx, userID, customerID, sub.ID); err != nil {
		return nil, err
	}

	p := &payment.Payment{
		UserID:                userID,
		StripePaymentIntentID: sub.LatestInvoice.PaymentIntent.ID,
		AmountCents:           s.priceCents,
		Currency:              "usd",
		PaymentType:           payment.TypeSubscription,
		Status:                payment.StatusPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	metrics.RecordPayment(payment.TypeSubscription, payment.StatusPending)
	s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"subscription_id": sub.ID,
	}).Info("Subscription created")

	return &payment.SubscriptionResult{
		SubscriptionID: sub.ID,
		ClientSecret:   sub.ClientSecret,
		Status:         sub.Status,
	}, nil
}

// HandleWebhook verifies and applies a processor event. Unhandled event
// types are acknowledged without action so the processor stops retrying.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.processor.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return err
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.settleIntent(ctx, event, payment.StatusCompleted)
	case "payment_intent.payment_failed":
		return s.settleIntent(ctx, event, payment.StatusFailed)
	case "customer.subscription.updated", "customer.subscription.deleted":
		return s.applySubscriptionChange(ctx, event)
	default:
		s.logger.WithFields(map[string]interface{}{
			"event_type": event.Type,
		}).Debug("Ignoring webhook event")
		return nil
	}
}

// ListByUser retrieves a user's payments, newest first
func (s *PaymentService) ListByUser(ctx context.Context, userID int64) ([]*payment.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

// List retrieves all payments with pagination
func (s *PaymentService) List(ctx context.Context, limit, offset int) ([]*payment.Payment, int64, error) {
	return s.payments.List(ctx, limit, offset)
}

func (s *PaymentService) settleIntent(ctx context.Context, event *providers.WebhookEvent, status string) error {
	var pi providers.PaymentIntent
	if err := json.Unmarshal(event.Data.Object, &pi); err != nil {
		return errors.BadRequest("Malformed payment intent in webhook")
	}

	if err := s.payments.UpdateStatusByIntentID(ctx, pi.ID, status); err != nil {
		if errors.IsNotFound(err) {
			// Intent created outside this app, nothing to settle.
			return nil
		}
		return err
	}

	p, err := s.payments.GetByIntentID(ctx, pi.ID)
	if err != nil {
		return err
	}

	if p.PaymentType == payment.TypeSubscription && status == payment.StatusCompleted {
		if _, err := s.users.UpdateSubscriptionStatus(ctx, p.UserID, user.SubscriptionActive); err != nil {
			return err
		}
	}

	metrics.RecordPayment(p.PaymentType, status)
	s.logger.WithFields(map[string]interface{}{
		"payment_id": p.ID,
		"status":     status,
	}).Info("Payment settled")

	return nil
}

func (s *PaymentService) applySubscriptionChange(ctx context.Context, event *providers.WebhookEvent) error {
	var sub struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Customer string `json:"customer"`
		Metadata struct {
			UserID string `json:"user_id"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
		return errors.BadRequest("Malformed subscription in webhook")
	}

	status := user.SubscriptionNone
	switch sub.Status {
	case "active", "trialing":
		status = user.SubscriptionActive
	case "past_due", "unpaid":
		status = user.SubscriptionPastDue
	case "canceled", "incomplete_expired":
		status = user.SubscriptionCanceled
	default:
		return nil
	}
	if event.Type == "customer.subscription.deleted" {
		status = user.SubscriptionCanceled
	}

	userID, err := strconv.ParseInt(sub.Metadata.UserID, 10, 64)
	if err != nil || userID == 0 {
		// No metadata; the subscription may predate this app version.
		s.logger.WithFields(map[string]interface{}{
			"subscription_id": sub.ID,
		}).Warn("Subscription event without user metadata")
		return nil
	}

	if _, err := s.users.UpdateSubscriptionStatus(ctx, userID, status); err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"status":  status,
	}).Info("Subscription status updated")

	return nil
}
