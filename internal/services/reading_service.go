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

// ReadingService implements reading.Service
type ReadingService struct {
	readings       reading.Repository
	questionnaires questionnaire.Repository
	generator      providers.ReadingGenerator
	logger         *logger.Logger
}

// NewReadingService creates a new reading service
func NewReadingService(
	readings reading.Repository,
	questionnaires questionnaire.Repository,
	generator providers.ReadingGenerator,
	log *logger.Logger,
) reading.Service {
	return &ReadingService{
		readings:       readings,
		questionnaires: questionnaires,
		generator:      generator,
		logger:         log,
	}
}

var readingTitles = map[string]string{
	reading.TypeBirthChart:    "Your Birth Chart Reading",
	reading.TypeTransit:       "Your Transit Reading",
	reading.TypeCompatibility: "Your Compatibility Reading",
}

// GetForUser retrieves a reading the user owns. Ownership failures surface
// as not found so the ID space leaks nothing.
func (s *ReadingService) GetForUser(ctx context.Context, userID, readingID int64) (*reading.Reading, error) {
	rd, err := s.readings.GetByID(ctx, readingID)
	if err != nil {
		return nil, err
	}
	if rd.UserID != userID {
		return nil, errors.NotFound("Reading")
	}
	return rd, nil
}

// ListForUser retrieves a user's readings, newest first
func (s *ReadingService) ListForUser(ctx context.Context, userID int64) ([]*reading.Reading, error) {
	return s.readings.ListByUser(ctx, userID)
}

// Generate produces a new reading from one of the user's questionnaires.
// Unlike the automatic reading on questionnaire submission, an upstream
// failure here is returned to the caller.
func (s *ReadingService) Generate(ctx context.Context, userID, questionnaireID int64, readingType string) (*reading.Reading, error) {
	title, ok := readingTitles[readingType]
	if !ok {
		return nil, errors.BadRequest("Unknown reading type")
	}

	q, err := s.questionnaires.GetByID(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	if q.UserID != userID {
		return nil, errors.NotFound("Questionnaire")
	}

	start := time.Now()
	content, err := s.generator.GenerateReading(ctx, q, readingType)
	if err != nil {
		return nil, err
	}

	rd := &reading.Reading{
		UserID:          userID,
		QuestionnaireID: questionnaireID,
		Title:           title,
		Content:         content,
		ReadingType:     readingType,
		IsPaid:          false,
	}
	if err := s.readings.Create(ctx, rd); err != nil {
		return nil, err
	}

	metrics.RecordReadingGenerated(readingType, "request", time.Since(start))
	s.logger.WithFields(map[string]interface{}{
		"user_id":      userID,
		"reading_id":   rd.ID,
		"reading_type": readingType,
	}).Info("Reading generated")

	return rd, nil
}

// Count returns the total number of readings
func (s *ReadingService) Count(ctx context.Context) (int64, error) {
	return s.readings.Count(ctx)
}
