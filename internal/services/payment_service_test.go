package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/providers"
	"github.com/lunaria-app/lunaria/internal/repository/memory"
)

// fakeProcessor implements providers.PaymentProcessor in memory and counts
// calls so idempotency can be asserted.
type fakeProcessor struct {
	intents             int
	customers           int
	subscriptions       int
	subscriptionLookups int
}

func (f *fakeProcessor) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*providers.PaymentIntent, error) {
	f.intents++
	return &providers.PaymentIntent{
		ID:           fmt.Sprintf("pi_%d", f.intents),
		ClientSecret: fmt.Sprintf("pi_%d_secret", f.intents),
		Amount:       amountCents,
		Currency:     currency,
		Status:       "requires_payment_method",
	}, nil
}

func (f *fakeProcessor) CreateCustomer(ctx context.Context, email, name string) (*providers.Customer, error) {
	f.customers++
	return &providers.Customer{ID: fmt.Sprintf("cus_%d", f.customers), Email: email}, nil
}

func (f *fakeProcessor) CreateSubscription(ctx context.Context, customerID string, amountCents int64, metadata map[string]string) (*providers.Subscription, error) {
	f.subscriptions++
	sub := &providers.Subscription{
		ID:           fmt.Sprintf("sub_%d", f.subscriptions),
		Status:       "incomplete",
		ClientSecret: "sub_secret",
	}
	sub.LatestInvoice.PaymentIntent = providers.PaymentIntent{
		ID:           fmt.Sprintf("pi_sub_%d", f.subscriptions),
		ClientSecret: "sub_secret",
		Amount:       amountCents,
	}
	return sub, nil
}

func (f *fakeProcessor) GetSubscription(ctx context.Context, subscriptionID string) (*providers.Subscription, error) {
	f.subscriptionLookups++
	return &providers.Subscription{ID: subscriptionID, Status: "active"}, nil
}

// VerifyWebhook trusts the payload so tests can inject events directly.
// Signature verification itself is covered in the providers package.
func (f *fakeProcessor) VerifyWebhook(payload []byte, signatureHeader string) (*providers.WebhookEvent, error) {
	var event providers.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func newTestPaymentService(t *testing.T) (*memory.Store, *fakeProcessor, payment.Service) {
	t.Helper()
	store := memory.New()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	processor := &fakeProcessor{}
	svc := NewPaymentService(store.Payments(), store.Users(), processor, 999, log)
	return store, processor, svc
}

func seedUser(t *testing.T, store *memory.Store) *user.User {
	t.Helper()
	u := &user.User{
		Username:           "luna",
		Email:              "luna@example.com",
		PasswordHash:       "x",
		SubscriptionStatus: user.SubscriptionNone,
	}
	if err := store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return u
}

func webhookPayload(t *testing.T, eventType string, object interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(object)
	if err != nil {
		t.Fatalf("marshal object: %v", err)
	}
	payload, err := json.Marshal(map[string]interface{}{
		"id":   "evt_1",
		"type": eventType,
		"data": map[string]interface{}{"object": json.RawMessage(raw)},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func TestPaymentService_CreatePaymentIntent(t *testing.T) {
	store, _, svc := newTestPaymentService(t)
	u := seedUser(t, store)
	ctx := context.Background()

	res, err := svc.CreatePaymentIntent(ctx, u.ID, 1999)
	if err != nil {
		t.Fatalf("CreatePaymentIntent() error = %v", err)
	}
	if res.ClientSecret == "" {
		t.Error("no client secret returned")
	}

	recorded, err := store.Payments().ListByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("payments recorded = %d, want 1", len(recorded))
	}
	p := recorded[0]
	if p.AmountCents != 1999 || p.Status != payment.StatusPending || p.PaymentType != payment.TypeOneTime {
		t.Errorf("pending payment = %+v", p)
	}

	if _, err := svc.CreatePaymentIntent(ctx, u.ID, 0); err == nil {
		t.Error("CreatePaymentIntent() accepted a zero amount")
	}
}

func TestPaymentService_GetOrCreateSubscription(t *testing.T) {
	store, processor, svc := newTestPaymentService(t)
	u := seedUser(t, store)
	ctx := context.Background()

	res, err := svc.GetOrCreateSubscription(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetOrCreateSubscription() error = %v", err)
	}
	if res.SubscriptionID == "" || res.ClientSecret == "" {
		t.Errorf("result = %+v", res)
	}

	stored, err := store.Users().GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.StripeCustomerID == nil || stored.StripeSubscriptionID == nil {
		t.Fatal("processor references were not persisted")
	}

	// The second call looks up the existing subscription instead of
	// creating another one.
	res2, err := svc.GetOrCreateSubscription(ctx, u.ID)
	if err != nil {
		t.Fatalf("second GetOrCreateSubscription() error = %v", err)
	}
	if res2.SubscriptionID != res.SubscriptionID {
		t.Errorf("subscription ID changed: %q vs %q", res2.SubscriptionID, res.SubscriptionID)
	}
	if processor.subscriptions != 1 {
		t.Errorf("subscriptions created = %d, want 1", processor.subscriptions)
	}
	if processor.subscriptionLookups != 1 {
		t.Errorf("subscription lookups = %d, want 1", processor.subscriptionLookups)
	}

	pending, err := store.Payments().ListByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(pending) != 1 || pending[0].PaymentType != payment.TypeSubscription {
		t.Errorf("recorded payments = %+v", pending)
	}
}

func TestPaymentService_HandleWebhook_PaymentIntent(t *testing.T) {
	store, _, svc := newTestPaymentService(t)
	u := seedUser(t, store)
	ctx := context.Background()

	if _, err := svc.GetOrCreateSubscription(ctx, u.ID); err != nil {
		t.Fatalf("GetOrCreateSubscription() error = %v", err)
	}
	pending, _ := store.Payments().ListByUser(ctx, u.ID)
	intentID := pending[0].StripePaymentIntentID

	payload := webhookPayload(t, "payment_intent.succeeded", map[string]interface{}{
		"id":     intentID,
		"status": "succeeded",
	})
	if err := svc.HandleWebhook(ctx, payload, "sig"); err != nil {
		t.Fatalf("HandleWebhook() error = %v", err)
	}

	settled, err := store.Payments().GetByIntentID(ctx, intentID)
	if err != nil {
		t.Fatalf("GetByIntentID() error = %v", err)
	}
	if settled.Status != payment.StatusCompleted {
		t.Errorf("status = %q, want %q", settled.Status, payment.StatusCompleted)
	}

	// A completed subscription invoice activates the subscription.
	stored, _ := store.Users().GetByID(ctx, u.ID)
	if stored.SubscriptionStatus != user.SubscriptionActive {
		t.Errorf("subscription status = %q, want %q", stored.SubscriptionStatus, user.SubscriptionActive)
	}
}

func TestPaymentService_HandleWebhook_PaymentFailed(t *testing.T) {
	store, _, svc := newTestPaymentService(t)
	u := seedUser(t, store)
	ctx := context.Background()

	if _, err := svc.CreatePaymentIntent(ctx, u.ID, 500); err != nil {
		t.Fatalf("CreatePaymentIntent() error = %v", err)
	}
	recorded, _ := store.Payments().ListByUser(ctx, u.ID)
	intentID := recorded[0].StripePaymentIntentID

	payload := webhookPayload(t, "payment_intent.payment_failed", map[string]interface{}{
		"id": intentID,
	})
	if err := svc.HandleWebhook(ctx, payload, "sig"); err != nil {
		t.Fatalf("HandleWebhook() error = %v", err)
	}

	settled, _ := store.Payments().GetByIntentID(ctx, intentID)
	if settled.Status != payment.StatusFailed {
		t.Errorf("status = %q, want %q", settled.Status, payment.StatusFailed)
	}
}

func TestPaymentService_HandleWebhook_SubscriptionChange(t *testing.T) {
	store, _, svc := newTestPaymentService(t)
	u := seedUser(t, store)
	ctx := context.Background()

	tests := []struct {
		name       string
		eventType  string
		subStatus  string
		wantStatus string
	}{
		{"activated", "customer.subscription.updated", "active", user.SubscriptionActive},
		{"past due", "customer.subscription.updated", "past_due", user.SubscriptionPastDue},
		{"canceled", "customer.subscription.deleted", "canceled", user.SubscriptionCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := webhookPayload(t, tt.eventType, map[string]interface{}{
				"id":       "sub_1",
				"status":   tt.subStatus,
				"metadata": map[string]string{"user_id": fmt.Sprintf("%d", u.ID)},
			})
			if err := svc.HandleWebhook(ctx, payload, "sig"); err != nil {
				t.Fatalf("HandleWebhook() error = %v", err)
			}
			stored, _ := store.Users().GetByID(ctx, u.ID)
			if stored.SubscriptionStatus != tt.wantStatus {
				t.Errorf("status = %q, want %q", stored.SubscriptionStatus, tt.wantStatus)
			}
		})
	}
}

func TestPaymentService_HandleWebhook_Ignored(t *testing.T) {
	_, _, svc := newTestPaymentService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload []byte
	}{
		{"unknown event type", webhookPayload(t, "invoice.finalized", map[string]interface{}{"id": "in_1"})},
		{"unknown intent", webhookPayload(t, "payment_intent.succeeded", map[string]interface{}{"id": "pi_stranger"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.HandleWebhook(ctx, tt.payload, "sig"); err != nil {
				t.Errorf("HandleWebhook() error = %v, want ack", err)
			}
		})
	}
}
