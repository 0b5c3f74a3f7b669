package memory

import (
	"context"
	"sort"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/reading"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

type readingRepo struct {
	s *Store
}

func (r *readingRepo) Create(ctx context.Context, rd *reading.Reading) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[rd.UserID]; !ok {
		return errors.NotFound("User")
	}
	if _, ok := r.s.questionnaires[rd.QuestionnaireID]; !ok {
		return errors.NotFound("Questionnaire")
	}

	rd.ID = r.s.nextReadingID
	r.s.nextReadingID++
	if rd.CreatedAt.IsZero() {
		rd.CreatedAt = time.Now()
	}

	stored := *rd
	r.s.readings[rd.ID] = &stored
	return nil
}

func (r *readingRepo) GetByID(ctx context.Context, id int64) (*reading.Reading, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rd, ok := r.s.readings[id]
	if !ok {
		return nil, errors.NotFound("Reading")
	}
	copied := *rd
	return &copied, nil
}

func (r *readingRepo) ListByUser(ctx context.Context, userID int64) ([]*reading.Reading, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*reading.Reading, 0)
	for _, rd := range r.s.readings {
		if rd.UserID == userID {
			copied := *rd
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *readingRepo) ListByQuestionnaire(ctx context.Context, questionnaireID int64) ([]*reading.Reading, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*reading.Reading, 0)
	for _, rd := range r.s.readings {
		if rd.QuestionnaireID == questionnaireID {
			copied := *rd
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *readingRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.s.readings)), nil
}
