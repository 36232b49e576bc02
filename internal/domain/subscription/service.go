package subscription

import (
	"context"

	"github.com/devforge/codelab/internal/domain/plan"
)

// Details is the subscription view returned to clients, with the
// resolved plan limits alongside the raw record.
type Details struct {
	Subscription *Subscription `json:"subscription"`
	Plan         plan.Plan     `json:"plan"`
	Active       bool          `json:"active"`
}

// Status is the lightweight validity probe used by clients and the gate.
type Status struct {
	Status string `json:"status"`
	Plan   string `json:"plan"`
	Active bool   `json:"active"`
}

// Service defines the interface for subscription business logic
type Service interface {
	// Activate puts the user on planID. Idempotent: an existing row is
	// updated in place and the paid period restarts, never duplicated.
	Activate(ctx context.Context, userID int64, planID string) (*Subscription, error)

	// ProcessPayment runs the simulated payment provider for planID,
	// records the payment and activates the subscription.
	ProcessPayment(ctx context.Context, userID int64, planID string) (*Payment, *Subscription, error)

	// GetDetails returns the subscription with resolved plan limits.
	// Users without a row report the free tier.
	GetDetails(ctx context.Context, userID int64) (*Details, error)

	// GetStatus returns the lightweight validity probe
	GetStatus(ctx context.Context, userID int64) (*Status, error)

	// Cancel cancels the subscription, ending access immediately
	Cancel(ctx context.Context, userID int64) (*Subscription, error)

	// GetByUserID returns the raw subscription row, if any
	GetByUserID(ctx context.Context, userID int64) (*Subscription, error)
}
