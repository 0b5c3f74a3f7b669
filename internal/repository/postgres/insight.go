package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/insight"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// InsightRepository implements insight.Repository
type InsightRepository struct {
	db *DB
}

// NewInsightRepository creates a new daily-insight repository
func NewInsightRepository(db *DB) insight.Repository {
	return &InsightRepository{db: db}
}

const insightColumns = `id, title, content, date, zodiac_sign, is_active, created_at`

// Create stores a new insight
func (r *InsightRepository) Create(ctx context.Context, i *insight.Insight) error {
	now := time.Now()
	i.CreatedAt = now

	query := `
		INSERT INTO daily_insights (title, content, date, zodiac_sign, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.insertID(ctx, query,
		i.Title, i.Content, i.Date, i.ZodiacSign, i.IsActive, now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create insight", err)
	}

	i.ID = id
	return nil
}

// GetActiveByDate retrieves the first active insight for a date key
func (r *InsightRepository) GetActiveByDate(ctx context.Context, date string) (*insight.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM daily_insights WHERE date = ? AND is_active = ? ORDER BY id LIMIT 1`

	i, err := scanInsight(r.db.QueryRowContext(ctx, r.db.Rebind(query), date, true))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Daily insight")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get insight", err)
	}

	return i, nil
}

// Update replaces the stored insight with the same ID
func (r *InsightRepository) Update(ctx context.Context, i *insight.Insight) error {
	query := `
		UPDATE daily_insights
		SET title = ?, content = ?, date = ?, zodiac_sign = ?, is_active = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		i.Title, i.Content, i.Date, i.ZodiacSign, i.IsActive, i.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update insight", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NotFound("Daily insight")
	}

	return nil
}

// List retrieves all insights with pagination
func (r *InsightRepository) List(ctx context.Context, limit, offset int) ([]*insight.Insight, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_insights`).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count insights", err)
	}

	query := `SELECT ` + insightColumns + ` FROM daily_insights ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list insights", err)
	}
	defer rows.Close()

	insights := make([]*insight.Insight, 0)
	for rows.Next() {
		i, err := scanInsight(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan insight", err)
		}
		insights = append(insights, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to list insights", err)
	}

	return insights, total, nil
}

func scanInsight(row rowScanner) (*insight.Insight, error) {
	var i insight.Insight
	var createdAt int64

	err := row.Scan(
		&i.ID, &i.Title, &i.Content, &i.Date, &i.ZodiacSign, &i.IsActive, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	i.CreatedAt = time.Unix(createdAt, 0)
	return &i, nil
}
