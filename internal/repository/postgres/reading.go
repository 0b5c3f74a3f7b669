package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/reading"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// ReadingRepository implements reading.Repository
type ReadingRepository struct {
	db *DB
}

// NewReadingRepository creates a new reading repository
func NewReadingRepository(db *DB) reading.Repository {
	return &ReadingRepository{db: db}
}

const readingColumns = `id, user_id, questionnaire_id, title, content, reading_type, is_paid, created_at`

// Create stores a new reading
func (r *ReadingRepository) Create(ctx context.Context, rd *reading.Reading) error {
	now := time.Now()
	rd.CreatedAt = now

	query := `
		INSERT INTO readings (user_id, questionnaire_id, title, content, reading_type, is_paid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.insertID(ctx, query,
		rd.UserID, rd.QuestionnaireID, rd.Title, rd.Content, rd.ReadingType, rd.IsPaid, now.Unix(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotFound("Questionnaire")
		}
		return errors.DatabaseError("Failed to create reading", err)
	}

	rd.ID = id
	return nil
}

// GetByID retrieves a reading by ID
func (r *ReadingRepository) GetByID(ctx context.Context, id int64) (*reading.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE id = ?`

	rd, err := scanReading(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Reading")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get reading", err)
	}

	return rd, nil
}

// ListByUser retrieves a user's readings, newest first
func (r *ReadingRepository) ListByUser(ctx context.Context, userID int64) ([]*reading.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE user_id = ? ORDER BY id DESC`
	return r.list(ctx, query, userID)
}

// ListByQuestionnaire retrieves the readings generated from a questionnaire
func (r *ReadingRepository) ListByQuestionnaire(ctx context.Context, questionnaireID int64) ([]*reading.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE questionnaire_id = ? ORDER BY id DESC`
	return r.list(ctx, query, questionnaireID)
}

// Count returns the total number of readings
func (r *ReadingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readings`).Scan(&total); err != nil {
		return 0, errors.DatabaseError("Failed to count readings", err)
	}
	return total, nil
}

func (r *ReadingRepository) list(ctx context.Context, query string, args ...interface{}) ([]*reading.Reading, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list readings", err)
	}
	defer rows.Close()

	readings := make([]*reading.Reading, 0)
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan reading", err)
		}
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list readings", err)
	}

	return readings, nil
}

func scanReading(row rowScanner) (*reading.Reading, error) {
	var rd reading.Reading
	var createdAt int64

	err := row.Scan(
		&rd.ID, &rd.UserID, &rd.QuestionnaireID, &rd.Title, &rd.Content,
		&rd.ReadingType, &rd.IsPaid, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	rd.CreatedAt = time.Unix(createdAt, 0)
	return &rd, nil
}
