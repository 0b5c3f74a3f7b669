package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// QuestionnaireRepository implements questionnaire.Repository
type QuestionnaireRepository struct {
	db *DB
}

// NewQuestionnaireRepository creates a new questionnaire repository
func NewQuestionnaireRepository(db *DB) questionnaire.Repository {
	return &QuestionnaireRepository{db: db}
}

const questionnaireColumns = `id, user_id, birth_date, birth_time, birth_city, birth_country,
	zodiac_sign, personality_traits, spiritual_goals, relationship_history,
	life_intentions, specific_questions, completed_at`

// Create stores a new questionnaire
func (r *QuestionnaireRepository) Create(ctx context.Context, q *questionnaire.Questionnaire) error {
	now := time.Now()
	q.CompletedAt = now

	traits, err := json.Marshal(q.PersonalityTraits)
	if err != nil {
		return errors.Internal("Failed to encode personality traits", err)
	}

	query := `
		INSERT INTO questionnaires (user_id, birth_date, birth_time, birth_city, birth_country,
			zodiac_sign, personality_traits, spiritual_goals, relationship_history,
			life_intentions, specific_questions, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.insertID(ctx, query,
		q.UserID, q.BirthDate, q.BirthTime, q.BirthCity, q.BirthCountry,
		q.ZodiacSign, string(traits), q.SpiritualGoals, q.RelationshipHistory,
		q.LifeIntentions, q.SpecificQuestions, now.Unix(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotFound("User")
		}
		return errors.DatabaseError("Failed to create questionnaire", err)
	}

	q.ID = id
	return nil
}

// GetByID retrieves a questionnaire by ID
func (r *QuestionnaireRepository) GetByID(ctx context.Context, id int64) (*questionnaire.Questionnaire, error) {
	query := `SELECT ` + questionnaireColumns + ` FROM questionnaires WHERE id = ?`

	q, err := scanQuestionnaire(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Questionnaire")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get questionnaire", err)
	}

	return q, nil
}

// ListByUser retrieves a user's questionnaires, newest first
func (r *QuestionnaireRepository) ListByUser(ctx context.Context, userID int64) ([]*questionnaire.Questionnaire, error) {
	query := `SELECT ` + questionnaireColumns + ` FROM questionnaires WHERE user_id = ? ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list questionnaires", err)
	}
	defer rows.Close()

	return collectQuestionnaires(rows)
}

// List retrieves all questionnaires with pagination
func (r *QuestionnaireRepository) List(ctx context.Context, limit, offset int) ([]*questionnaire.Questionnaire, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questionnaires`).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count questionnaires", err)
	}

	query := `SELECT ` + questionnaireColumns + ` FROM questionnaires ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list questionnaires", err)
	}
	defer rows.Close()

	qs, err := collectQuestionnaires(rows)
	if err != nil {
		return nil, 0, err
	}

	return qs, total, nil
}

func collectQuestionnaires(rows *sql.Rows) ([]*questionnaire.Questionnaire, error) {
	qs := make([]*questionnaire.Questionnaire, 0)
	for rows.Next() {
		q, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan questionnaire", err)
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list questionnaires", err)
	}
	return qs, nil
}

func scanQuestionnaire(row rowScanner) (*questionnaire.Questionnaire, error) {
	var q questionnaire.Questionnaire
	var traits sql.NullString
	var completedAt int64

	err := row.Scan(
		&q.ID, &q.UserID, &q.BirthDate, &q.BirthTime, &q.BirthCity, &q.BirthCountry,
		&q.ZodiacSign, &traits, &q.SpiritualGoals, &q.RelationshipHistory,
		&q.LifeIntentions, &q.SpecificQuestions, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if traits.Valid && traits.String != "" && traits.String != "null" {
		if err := json.Unmarshal([]byte(traits.String), &q.PersonalityTraits); err != nil {
			return nil, err
		}
	}
	q.CompletedAt = time.Unix(completedAt, 0)

	return &q, nil
}
