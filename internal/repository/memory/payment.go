package memory

import (
	"context"
	"sort"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

type paymentRepo struct {
	s *Store
}

func (r *paymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.UserID]; !ok {
		return errors.NotFound("User")
	}

	p.ID = r.s.nextPaymentID
	r.s.nextPaymentID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	stored := *p
	r.s.payments[p.ID] = &stored
	return nil
}

func (r *paymentRepo) GetByIntentID(ctx context.Context, intentID string) (*payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.payments {
		if p.StripePaymentIntentID == intentID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Payment")
}

func (r *paymentRepo) UpdateStatusByIntentID(ctx context.Context, intentID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.payments {
		if p.StripePaymentIntentID == intentID {
			p.Status = status
			return nil
		}
	}
	return errors.NotFound("Payment")
}

func (r *paymentRepo) ListByUser(ctx context.Context, userID int64) ([]*payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*payment.Payment, 0)
	for _, p := range r.s.payments {
		if p.UserID == userID {
			copied := *p
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *paymentRepo) List(ctx context.Context, limit, offset int) ([]*payment.Payment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := sortedIDs(r.s.payments)
	total := int64(len(ids))
	start, end := paginate(len(ids), limit, offset)

	result := make([]*payment.Payment, 0, end-start)
	for _, id := range ids[start:end] {
		copied := *r.s.payments[id]
		result = append(result, &copied)
	}
	return result, total, nil
}

func (r *paymentRepo) SumCompletedCents(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var sum int64
	for _, p := range r.s.payments {
		if p.Status == payment.StatusCompleted {
			sum += p.AmountCents
		}
	}
	return sum, nil
}
