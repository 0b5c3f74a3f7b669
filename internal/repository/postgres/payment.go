package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// PaymentRepository implements payment.Repository
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *DB) payment.Repository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, user_id, stripe_payment_intent_id, amount_cents, currency, payment_type, status, created_at`

// Create stores a new payment record
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	now := time.Now()
	p.CreatedAt = now

	query := `
		INSERT INTO payments (user_id, stripe_payment_intent_id, amount_cents, currency, payment_type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.insertID(ctx, query,
		p.UserID, p.StripePaymentIntentID, p.AmountCents, p.Currency, p.PaymentType, p.Status, now.Unix(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotFound("User")
		}
		return errors.DatabaseError("Failed to create payment", err)
	}

	p.ID = id
	return nil
}

// GetByIntentID retrieves a payment by its payment-intent reference
func (r *PaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE stripe_payment_intent_id = ?`

	p, err := scanPayment(r.db.QueryRowContext(ctx, r.db.Rebind(query), intentID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Payment")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get payment", err)
	}

	return p, nil
}

// UpdateStatusByIntentID transitions the payment matching the intent
func (r *PaymentRepository) UpdateStatusByIntentID(ctx context.Context, intentID, status string) error {
	query := `UPDATE payments SET status = ? WHERE stripe_payment_intent_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), status, intentID)
	if err != nil {
		return errors.DatabaseError("Failed to update payment", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NotFound("Payment")
	}

	return nil
}

// ListByUser retrieves a user's payments, newest first
func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64) ([]*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = ? ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list payments", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

// List retrieves all payments with pagination
func (r *PaymentRepository) List(ctx context.Context, limit, offset int) ([]*payment.Payment, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count payments", err)
	}

	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list payments", err)
	}
	defer rows.Close()

	payments, err := collectPayments(rows)
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// SumCompletedCents sums the amount of every completed payment
func (r *PaymentRepository) SumCompletedCents(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE status = ?`

	var total int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), payment.StatusCompleted).Scan(&total)
	if err != nil {
		return 0, errors.DatabaseError("Failed to sum payments", err)
	}

	return total, nil
}

func collectPayments(rows *sql.Rows) ([]*payment.Payment, error) {
	payments := make([]*payment.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan payment", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list payments", err)
	}
	return payments, nil
}

func scanPayment(row rowScanner) (*payment.Payment, error) {
	var p payment.Payment
	var createdAt int64

	err := row.Scan(
		&p.ID, &p.UserID, &p.StripePaymentIntentID, &p.AmountCents,
		&p.Currency, &p.PaymentType, &p.Status, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}
