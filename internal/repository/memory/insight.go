package memory

import (
	"context"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/insight"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

type insightRepo struct {
	s *Store
}

func (r *insightRepo) Create(ctx context.Context, in *insight.Insight) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	in.ID = r.s.nextInsightID
	r.s.nextInsightID++
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}

	stored := *in
	r.s.insights[in.ID] = &stored
	return nil
}

func (r *insightRepo) GetActiveByDate(ctx context.Context, date string) (*insight.Insight, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// First active match in insertion order
	for _, id := range sortedIDs(r.s.insights) {
		in := r.s.insights[id]
		if in.Date == date && in.IsActive {
			copied := *in
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Insight")
}

func (r *insightRepo) Update(ctx context.Context, in *insight.Insight) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.insights[in.ID]; !ok {
		return errors.NotFound("Insight")
	}
	stored := *in
	r.s.insights[in.ID] = &stored
	return nil
}

func (r *insightRepo) List(ctx context.Context, limit, offset int) ([]*insight.Insight, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := sortedIDs(r.s.insights)
	total := int64(len(ids))
	start, end := paginate(len(ids), limit, offset)

	result := make([]*insight.Insight, 0, end-start)
	for _, id := range ids[start:end] {
		copied := *r.s.insights[id]
		result = append(result, &copied)
	}
	return result, total, nil
}
