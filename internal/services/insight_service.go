package services

import (
	"context"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/insight"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/metrics"
	"github.com/lunaria-app/lunaria/internal/providers"
)

// InsightService implements insight.Service
type InsightService struct {
	insights  insight.Repository
	generator providers.ReadingGenerator
	logger    *logger.Logger
}

// NewInsightService creates a new daily-insight service
func NewInsightService(
	insights insight.Repository,
	generator providers.ReadingGenerator,
	log *logger.Logger,
) insight.Service {
	return &InsightService{
		insights:  insights,
		generator: generator,
		logger:    log,
	}
}

// Daily retrieves the active insight for the given moment's date
func (s *InsightService) Daily(ctx context.Context, now time.Time) (*insight.Insight, error) {
	return s.insights.GetActiveByDate(ctx, insight.DateKey(now))
}

// Create stores a new insight
func (s *InsightService) Create(ctx context.Context, i *insight.Insight) error {
	if i.Date == "" {
		i.Date = insight.DateKey(time.Now())
	}
	if _, err := time.Parse("2006-01-02", i.Date); err != nil {
		return errors.BadRequest("Date must be YYYY-MM-DD")
	}
	return s.insights.Create(ctx, i)
}

// Update replaces the stored insight with the same ID
func (s *InsightService) Update(ctx context.Context, i *insight.Insight) error {
	if _, err := time.Parse("2006-01-02", i.Date); err != nil {
		return errors.BadRequest("Date must be YYYY-MM-DD")
	}
	return s.insights.Update(ctx, i)
}

// List retrieves all insights with pagination
func (s *InsightService) List(ctx context.Context, limit, offset int) ([]*insight.Insight, int64, error) {
	return s.insights.List(ctx, limit, offset)
}

// PublishDaily generates and stores an insight for the given moment's date
// unless an active one already exists
func (s *InsightService) PublishDaily(ctx context.Context, now time.Time) (*insight.Insight, bool, error) {
	date := insight.DateKey(now)

	existing, err := s.insights.GetActiveByDate(ctx, date)
	if err == nil {
		return existing, false, nil
	}
	if !errors.IsNotFound(err) {
		return nil, false, err
	}

	content, err := s.generator.GenerateDailyInsight(ctx, date)
	if err != nil {
		return nil, false, err
	}

	i := &insight.Insight{
		Title:    "Today's Cosmic Insight",
		Content:  content,
		Date:     date,
		IsActive: true,
	}
	if err := s.insights.Create(ctx, i); err != nil {
		return nil, false, err
	}

	metrics.RecordInsightPublished()
	s.logger.WithFields(map[string]interface{}{
		"insight_id": i.ID,
		"date":       date,
	}).Info("Daily insight published")

	return i, true, nil
}
