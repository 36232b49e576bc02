package subscription

import "context"

// Repository defines the interface for subscription data access
type Repository interface {
	// Create creates a new subscription
	Create(ctx context.Context, sub *Subscription) error

	// GetByID retrieves a subscription by ID
	GetByID(ctx context.Context, id int64) (*Subscription, error)

	// GetByUserID retrieves a user's subscription
	GetByUserID(ctx context.Context, userID int64) (*Subscription, error)

	// Update updates a subscription
	Update(ctx context.Context, sub *Subscription) error

	// AddPayment records a payment against a subscription
	AddPayment(ctx context.Context, payment *Payment) error

	// ListPayments lists payments for a subscription, newest first
	ListPayments(ctx context.Context, subscriptionID int64) ([]Payment, error)

	// ExpireLapsed flips active subscriptions whose end date passed to
	// inactive and returns how many rows changed
	ExpireLapsed(ctx context.Context) (int64, error)

	// CountActiveByPlan counts currently active subscriptions per plan
	CountActiveByPlan(ctx context.Context) (map[string]int64, error)
}
