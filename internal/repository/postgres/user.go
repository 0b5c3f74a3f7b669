package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, full_name,
	stripe_customer_id, stripe_subscription_id, subscription_status,
	is_admin, reset_token, reset_token_expires_at, created_at`

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now

	query := `
		INSERT INTO users (username, email, password_hash, full_name, subscription_status, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.insertID(ctx, query,
		u.Username, u.Email, u.PasswordHash, nullString(u.FullName),
		u.SubscriptionStatus, u.IsAdmin, now.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("An account with that username or email already exists")
		}
		return errors.DatabaseError("Failed to create user", err)
	}

	u.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// GetByResetToken retrieves the user holding an unexpired reset token
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = ? AND reset_token_expires_at > ?`
	return r.getOne(ctx, query, token, time.Now().Unix())
}

// UpdateStripeInfo sets the payment-processor references on a user
func (r *UserRepository) UpdateStripeInfo(ctx context.Context, userID int64, customerID, subscriptionID string) (*user.User, error) {
	query := `UPDATE users SET stripe_customer_id = ?, stripe_subscription_id = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), customerID, subscriptionID, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update user", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errors.NotFound("User")
	}

	return r.GetByID(ctx, userID)
}

// UpdateSubscriptionStatus sets the subscription status on a user
func (r *UserRepository) UpdateSubscriptionStatus(ctx context.Context, userID int64, status string) (*user.User, error) {
	query := `UPDATE users SET subscription_status = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), status, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update user", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errors.NotFound("User")
	}

	return r.GetByID(ctx, userID)
}

// SetResetToken stores a password-reset token with its expiry
func (r *UserRepository) SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_token = ?, reset_token_expires_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), token, expiresAt.Unix(), userID)
	if err != nil {
		return errors.DatabaseError("Failed to set reset token", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// ConsumeResetToken spends a reset token inside a transaction so two
// concurrent requests cannot both succeed with the same token.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.DatabaseError("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		r.db.Rebind(`SELECT id FROM users WHERE reset_token = ? AND reset_token_expires_at > ?`),
		token, now.Unix(),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, errors.NotFound("Reset token")
	}
	if err != nil {
		return 0, errors.DatabaseError("Failed to look up reset token", err)
	}

	query := `
		UPDATE users
		SET password_hash = ?, reset_token = NULL, reset_token_expires_at = NULL
		WHERE id = ? AND reset_token = ?
	`

	result, err := tx.ExecContext(ctx, r.db.Rebind(query), passwordHash, id, token)
	if err != nil {
		return 0, errors.DatabaseError("Failed to consume reset token", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, errors.NotFound("Reset token")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.DatabaseError("Failed to commit reset", err)
	}

	return id, nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), passwordHash, userID)
	if err != nil {
		return errors.DatabaseError("Failed to update password", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// SetAdmin grants or revokes the admin flag
func (r *UserRepository) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	query := `UPDATE users SET is_admin = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), isAdmin, userID)
	if err != nil {
		return errors.DatabaseError("Failed to update admin flag", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// ClearResetToken removes a user's reset token
func (r *UserRepository) ClearResetToken(ctx context.Context, userID int64) error {
	query := `UPDATE users SET reset_token = NULL, reset_token_expires_at = NULL WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), userID); err != nil {
		return errors.DatabaseError("Failed to clear reset token", err)
	}

	return nil
}

// List retrieves users with pagination, insertion-ordered
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count users", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list users", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to list users", err)
	}

	return users, total, nil
}

// CountBySubscriptionStatus counts users with the given status
func (r *UserRepository) CountBySubscriptionStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind(`SELECT COUNT(*) FROM users WHERE subscription_status = ?`), status).Scan(&n)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count users", err)
	}
	return n, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	return u, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var fullName, customerID, subscriptionID, resetToken sql.NullString
	var resetExpires sql.NullInt64
	var createdAt int64

	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &fullName,
		&customerID, &subscriptionID, &u.SubscriptionStatus,
		&u.IsAdmin, &resetToken, &resetExpires, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	u.FullName = stringPtr(fullName)
	u.StripeCustomerID = stringPtr(customerID)
	u.StripeSubscriptionID = stringPtr(subscriptionID)
	u.ResetToken = stringPtr(resetToken)
	if resetExpires.Valid {
		t := time.Unix(resetExpires.Int64, 0)
		u.ResetTokenExpiresAt = &t
	}
	u.CreatedAt = time.Unix(createdAt, 0)

	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
