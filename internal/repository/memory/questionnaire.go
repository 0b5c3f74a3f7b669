package memory

import (
	"context"
	"sort"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

type questionnaireRepo struct {
	s *Store
}

func (r *questionnaireRepo) Create(ctx context.Context, q *questionnaire.Questionnaire) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[q.UserID]; !ok {
		return errors.NotFound("User")
	}

	q.ID = r.s.nextQuestionnaireID
	r.s.nextQuestionnaireID++
	if q.CompletedAt.IsZero() {
		q.CompletedAt = time.Now()
	}

	stored := *q
	r.s.questionnaires[q.ID] = &stored
	return nil
}

func (r *questionnaireRepo) GetByID(ctx context.Context, id int64) (*questionnaire.Questionnaire, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q, ok := r.s.questionnaires[id]
	if !ok {
		return nil, errors.NotFound("Questionnaire")
	}
	copied := *q
	return &copied, nil
}

func (r *questionnaireRepo) ListByUser(ctx context.Context, userID int64) ([]*questionnaire.Questionnaire, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*questionnaire.Questionnaire, 0)
	for _, q := range r.s.questionnaires {
		if q.UserID == userID {
			copied := *q
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *questionnaireRepo) List(ctx context.Context, limit, offset int) ([]*questionnaire.Questionnaire, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := sortedIDs(r.s.questionnaires)
	total := int64(len(ids))
	start, end := paginate(len(ids), limit, offset)

	result := make([]*questionnaire.Questionnaire, 0, end-start)
	for _, id := range ids[start:end] {
		copied := *r.s.questionnaires[id]
		result = append(result, &copied)
	}
	return result, total, nil
}
