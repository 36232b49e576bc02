package subscription

import "time"

// Subscription statuses
const (
	StatusInactive  = "inactive"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Subscription represents a user's plan membership
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Payments []Payment `json:"payments,omitempty"`
}

// Payment records a (simulated) charge against a subscription
type Payment struct {
	ID             string    `json:"id"`
	SubscriptionID int64     `json:"subscription_id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	TransactionID  string    `json:"transaction_id"`
	PaidAt         time.Time `json:"paid_at"`
}

// IsValid reports whether the subscription currently grants access:
// status is active and the paid period has not lapsed.
func (s *Subscription) IsValid() bool {
	if s == nil {
		return false
	}
	if s.Status != StatusActive {
		return false
	}
	if s.EndDate.IsZero() {
		return true
	}
	return s.EndDate.After(time.Now())
}
