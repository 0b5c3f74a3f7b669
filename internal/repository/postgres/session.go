package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/session"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// SessionRepository implements session.Repository
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) session.Repository {
	return &SessionRepository{db: db}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	query := `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		s.ID, s.UserID, s.CreatedAt.Unix(), s.ExpiresAt.Unix(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotFound("User")
		}
		return errors.DatabaseError("Failed to create session", err)
	}

	return nil
}

// Get retrieves a session by its opaque ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?`

	var s session.Session
	var createdAt, expiresAt int64

	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), id).Scan(
		&s.ID, &s.UserID, &createdAt, &expiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Session")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get session", err)
	}

	s.CreatedAt = time.Unix(createdAt, 0)
	s.ExpiresAt = time.Unix(expiresAt, 0)

	return &s, nil
}

// Delete removes a session; deleting an absent session is not an error
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		return errors.DatabaseError("Failed to delete session", err)
	}
	return nil
}

// DeleteByUser removes every session belonging to a user
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE user_id = ?`), userID); err != nil {
		return errors.DatabaseError("Failed to delete sessions", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry, returning the count
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`), time.Now().Unix())
	if err != nil {
		return 0, errors.DatabaseError("Failed to delete expired sessions", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to count deleted sessions", err)
	}

	return n, nil
}
