package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

const subscriptionColumns = `id, user_id, plan, status, start_date, end_date, created_at, updated_at`

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sql.DB) subscription.Repository {
	return &SubscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `
		INSERT INTO subscriptions (user_id, plan, status, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		s.UserID, s.Plan, s.Status, s.StartDate.Unix(), s.EndDate.Unix(), now.Unix(), now.Unix(),
	)
	metrics.RecordDBQuery("insert", "subscriptions", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to create subscription", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get subscription ID", err)
	}

	s.ID = id
	return nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByUserID retrieves a user's subscription. A user has at most one row;
// activation updates it in place.
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// Update updates a subscription
func (r *SubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	s.UpdatedAt = time.Now()

	query := `
		UPDATE subscriptions
		SET plan = ?, status = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		s.Plan, s.Status, s.StartDate.Unix(), s.EndDate.Unix(), s.UpdatedAt.Unix(), s.ID,
	)
	metrics.RecordDBQuery("update", "subscriptions", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to update subscription", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Subscription")
	}

	return nil
}

// AddPayment records a payment against a subscription
func (r *SubscriptionRepository) AddPayment(ctx context.Context, p *subscription.Payment) error {
	query := `
		INSERT INTO payments (id, subscription_id, amount, currency, transaction_id, paid_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SubscriptionID, p.Amount, p.Currency, p.TransactionID, p.PaidAt.Unix(),
	)
	metrics.RecordDBQuery("insert", "payments", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to record payment", err)
	}

	return nil
}

// ListPayments lists payments for a subscription, newest first
func (r *SubscriptionRepository) ListPayments(ctx context.Context, subscriptionID int64) ([]subscription.Payment, error) {
	query := `
		SELECT id, subscription_id, amount, currency, transaction_id, paid_at
		FROM payments WHERE subscription_id = ?
		ORDER BY paid_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list payments", err)
	}
	defer rows.Close()

	var payments []subscription.Payment
	for rows.Next() {
		var p subscription.Payment
		var paidAt int64
		if err := rows.Scan(&p.ID, &p.SubscriptionID, &p.Amount, &p.Currency, &p.TransactionID, &paidAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan payment", err)
		}
		p.PaidAt = time.Unix(paidAt, 0)
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate payments", err)
	}

	return payments, nil
}

// ExpireLapsed flips active subscriptions whose end date passed to inactive
func (r *SubscriptionRepository) ExpireLapsed(ctx context.Context) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = ?, updated_at = ?
		WHERE status = ? AND end_date > 0 AND end_date < ?
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		subscription.StatusInactive, now.Unix(), subscription.StatusActive, now.Unix(),
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to expire subscriptions", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows, nil
}

// CountActiveByPlan counts currently active subscriptions per plan
func (r *SubscriptionRepository) CountActiveByPlan(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT plan, COUNT(*) FROM subscriptions
		WHERE status = ? AND end_date > ?
		GROUP BY plan
	`

	rows, err := r.db.QueryContext(ctx, query, subscription.StatusActive, time.Now().Unix())
	if err != nil {
		return nil, errors.DatabaseError("Failed to count subscriptions", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var plan string
		var count int64
		if err := rows.Scan(&plan, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan subscription count", err)
		}
		counts[plan] = count
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate subscription counts", err)
	}

	return counts, nil
}

func (r *SubscriptionRepository) scanOne(row *sql.Row) (*subscription.Subscription, error) {
	var s subscription.Subscription
	var startDate, endDate, createdAt, updatedAt int64

	err := row.Scan(&s.ID, &s.UserID, &s.Plan, &s.Status, &startDate, &endDate, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}

	s.StartDate = time.Unix(startDate, 0)
	s.EndDate = time.Unix(endDate, 0)
	s.CreatedAt = time.Unix(createdAt, 0)
	s.UpdatedAt = time.Unix(updatedAt, 0)

	return &s, nil
}
