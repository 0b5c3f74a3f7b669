// Package worker runs the background jobs of the service.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lunaria-app/lunaria/internal/domain/insight"
	"github.com/lunaria-app/lunaria/internal/domain/session"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
)

// InsightPublisher publishes a daily insight at midnight UTC and sweeps
// expired sessions hourly. It also publishes once on start so a fresh
// deployment has content immediately.
type InsightPublisher struct {
	insights  insight.Service
	sessions  session.Repository
	logger    *logger.Logger
	scheduler *cron.Cron
}

// NewInsightPublisher creates a new publisher
func NewInsightPublisher(
	insights insight.Service,
	sessions session.Repository,
	log *logger.Logger,
) *InsightPublisher {
	return &InsightPublisher{
		insights:  insights,
		sessions:  sessions,
		logger:    log,
		scheduler: cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start schedules the jobs and runs the initial publish.
func (p *InsightPublisher) Start(ctx context.Context) error {
	if _, err := p.scheduler.AddFunc("0 0 * * *", func() {
		p.publish(context.Background())
	}); err != nil {
		return err
	}
	if _, err := p.scheduler.AddFunc("0 * * * *", func() {
		p.sweepSessions(context.Background())
	}); err != nil {
		return err
	}

	p.publish(ctx)
	p.scheduler.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (p *InsightPublisher) Stop() {
	<-p.scheduler.Stop().Done()
}

func (p *InsightPublisher) publish(ctx context.Context) {
	i, created, err := p.insights.PublishDaily(ctx, time.Now())
	if err != nil {
		p.logger.ErrorWithErr(err, "Failed to publish daily insight")
		return
	}
	if created {
		p.logger.WithFields(map[string]interface{}{
			"insight_id": i.ID,
			"date":       i.Date,
		}).Info("Published daily insight")
	}
}

func (p *InsightPublisher) sweepSessions(ctx context.Context) {
	n, err := p.sessions.DeleteExpired(ctx)
	if err != nil {
		p.logger.ErrorWithErr(err, "Failed to sweep expired sessions")
		return
	}
	if n > 0 {
		p.logger.WithFields(map[string]interface{}{
			"deleted": n,
		}).Info("Swept expired sessions")
	}
}
