package services

import (
	"context"

	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/domain/reading"
	"github.com/lunaria-app/lunaria/internal/domain/user"
)

// Stats summarizes the platform for the admin dashboard.
type Stats struct {
	TotalUsers        int64   `json:"totalUsers"`
	Subscriptions     int64   `json:"subscriptions"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
	ReadingsGenerated int64   `json:"readingsGenerated"`
}

// StatsService aggregates counters across the repositories.
type StatsService struct {
	users    user.Repository
	payments payment.Repository
	readings reading.Repository
}

// NewStatsService creates a new stats service
func NewStatsService(users user.Repository, payments payment.Repository, readings reading.Repository) *StatsService {
	return &StatsService{
		users:    users,
		payments: payments,
		readings: readings,
	}
}

// Collect gathers the current platform statistics
func (s *StatsService) Collect(ctx context.Context) (*Stats, error) {
	_, totalUsers, err := s.users.List(ctx, 1, 0)
	if err != nil {
		return nil, err
	}

	activeSubs, err := s.users.CountBySubscriptionStatus(ctx, user.SubscriptionActive)
	if err != nil {
		return nil, err
	}

	revenueCents, err := s.payments.SumCompletedCents(ctx)
	if err != nil {
		return nil, err
	}

	readings, err := s.readings.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalUsers:        totalUsers,
		Subscriptions:     activeSubs,
		MonthlyRevenue:    float64(revenueCents) / 100,
		ReadingsGenerated: readings,
	}, nil
}
