package services

import (
	"context"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/domain/reading"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/metrics"
	"github.com/lunaria-app/lunaria/internal/providers"
)

// QuestionnaireService implements questionnaire.Service
type QuestionnaireService struct {
	questionnaires questionnaire.Repository
	readings       reading.Repository
	generator      providers.ReadingGenerator
	logger         *logger.Logger
}

// NewQuestionnaireService creates a new questionnaire service
func NewQuestionnaireService(
	questionnaires questionnaire.Repository,
	readings reading.Repository,
	generator providers.ReadingGenerator,
	log *logger.Logger,
) questionnaire.Service {
	return &QuestionnaireService{
		questionnaires: questionnaires,
		readings:       readings,
		generator:      generator,
		logger:         log,
	}
}

// Submit stores a completed questionnaire and generates the initial
// birth-chart reading. Submission succeeds even when generation fails; the
// user can trigger generation again from the dashboard.
func (s *QuestionnaireService) Submit(ctx context.Context, q *questionnaire.Questionnaire) (*reading.Reading, error) {
	if err := s.questionnaires.Create(ctx, q); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":          q.UserID,
		"questionnaire_id": q.ID,
		"zodiac_sign":      q.ZodiacSign,
	}).Info("Questionnaire submitted")

	start := time.Now()
	content, err := s.generator.GenerateReading(ctx, q, reading.TypeBirthChart)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"questionnaire_id": q.ID,
		}).ErrorWithErr(err, "Failed to generate initial reading")
		return nil, nil
	}

	rd := &reading.Reading{
		UserID:          q.UserID,
		QuestionnaireID: q.ID,
		Title:           "Your Birth Chart Reading",
		Content:         content,
		ReadingType:     reading.TypeBirthChart,
		IsPaid:          false,
	}
	if err := s.readings.Create(ctx, rd); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"questionnaire_id": q.ID,
		}).ErrorWithErr(err, "Failed to store initial reading")
		return nil, nil
	}

	metrics.RecordReadingGenerated(rd.ReadingType, "questionnaire", time.Since(start))
	return rd, nil
}

// Latest retrieves the user's most recent questionnaire
func (s *QuestionnaireService) Latest(ctx context.Context, userID int64) (*questionnaire.Questionnaire, error) {
	qs, err := s.questionnaires.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, errors.NotFound("Questionnaire")
	}
	return qs[0], nil
}

// ListByUser retrieves a user's questionnaires, newest first
func (s *QuestionnaireService) ListByUser(ctx context.Context, userID int64) ([]*questionnaire.Questionnaire, error) {
	return s.questionnaires.ListByUser(ctx, userID)
}

// List retrieves all questionnaires with pagination
func (s *QuestionnaireService) List(ctx context.Context, limit, offset int) ([]*questionnaire.Questionnaire, int64, error) {
	return s.questionnaires.List(ctx, limit, offset)
}
