package services

import (
	"context"
	"testing"

	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/domain/reading"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/repository/memory"
)

func TestStatsService_Collect(t *testing.T) {
	store := memory.New()
	svc := NewStatsService(store.Users(), store.Payments(), store.Readings())
	ctx := context.Background()

	seed := []struct {
		email  string
		status string
	}{
		{"a@example.com", user.SubscriptionActive},
		{"b@example.com", user.SubscriptionActive},
		{"c@example.com", user.SubscriptionCanceled},
		{"d@example.com", user.SubscriptionNone},
	}
	for i, s := range seed {
		u := &user.User{
			Username:           s.email[:1],
			Email:              s.email,
			PasswordHash:       "x",
			SubscriptionStatus: s.status,
		}
		if err := store.Users().Create(ctx, u); err != nil {
			t.Fatalf("user %d: %v", i, err)
		}
	}

	payments := []*payment.Payment{
		{UserID: 1, StripePaymentIntentID: "pi_1", AmountCents: 999, Currency: "usd", PaymentType: payment.TypeSubscription, Status: payment.StatusCompleted},
		{UserID: 2, StripePaymentIntentID: "pi_2", AmountCents: 2500, Currency: "usd", PaymentType: payment.TypeOneTime, Status: payment.StatusCompleted},
		{UserID: 3, StripePaymentIntentID: "pi_3", AmountCents: 5000, Currency: "usd", PaymentType: payment.TypeOneTime, Status: payment.StatusPending},
	}
	for i, p := range payments {
		if err := store.Payments().Create(ctx, p); err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}
	}

	for i := 0; i < 3; i++ {
		r := &reading.Reading{UserID: 1, QuestionnaireID: 1, Title: "r", Content: "c", ReadingType: reading.TypeBirthChart}
		if err := store.Readings().Create(ctx, r); err != nil {
			t.Fatalf("reading %d: %v", i, err)
		}
	}

	stats, err := svc.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if stats.TotalUsers != 4 {
		t.Errorf("TotalUsers = %d, want 4", stats.TotalUsers)
	}
	if stats.Subscriptions != 2 {
		t.Errorf("Subscriptions = %d, want 2", stats.Subscriptions)
	}
	// Pending payments do not count toward revenue.
	if stats.MonthlyRevenue != 34.99 {
		t.Errorf("MonthlyRevenue = %v, want 34.99", stats.MonthlyRevenue)
	}
	if stats.ReadingsGenerated != 3 {
		t.Errorf("ReadingsGenerated = %d, want 3", stats.ReadingsGenerated)
	}
}

func TestStatsService_Collect_Empty(t *testing.T) {
	store := memory.New()
	svc := NewStatsService(store.Users(), store.Payments(), store.Readings())

	stats, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if stats.TotalUsers != 0 || stats.Subscriptions != 0 || stats.MonthlyRevenue != 0 || stats.ReadingsGenerated != 0 {
		t.Errorf("Collect() on empty store = %+v", stats)
	}
}
