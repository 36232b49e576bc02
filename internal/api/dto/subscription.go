package dto

import (
	"time"

	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
)

// SubscriptionDTO is the public subscription representation
type SubscriptionDTO struct {
	ID        int64      `json:"id,omitempty"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	Active    bool       `json:"active"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// NewSubscriptionDTO maps a domain subscription to its public representation
func NewSubscriptionDTO(s *subscription.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	start, end := s.StartDate, s.EndDate
	return &SubscriptionDTO{
		ID:        s.ID,
		Plan:      s.Plan,
		Status:    s.Status,
		Active:    s.IsValid(),
		StartDate: &start,
		EndDate:   &end,
	}
}

// PlanDTO describes one tier of the public catalog
type PlanDTO struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Currency string            `json:"currency"`
	Features map[string]string `json:"features"`
}

// NewPlanDTO maps a catalog plan
func NewPlanDTO(p plan.Plan) PlanDTO {
	return PlanDTO{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Currency: p.Currency,
		Features: p.Features,
	}
}

// ActivateSubscriptionRequest selects a plan to activate
type ActivateSubscriptionRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free pro enterprise"`
}

// SubscriptionDetailsResponse is the subscription view with resolved limits
type SubscriptionDetailsResponse struct {
	Subscription *SubscriptionDTO `json:"subscription,omitempty"`
	Plan         PlanDTO          `json:"plan"`
	Active       bool             `json:"active"`
	Payments     []PaymentDTO     `json:"payments,omitempty"`
}

// SubscriptionStatusResponse is the lightweight validity probe
type SubscriptionStatusResponse struct {
	Status string `json:"status"`
	Plan   string `json:"plan"`
	Active bool   `json:"active"`
}

// PaymentDTO is the public payment representation
type PaymentDTO struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transaction_id"`
	PaidAt        time.Time `json:"paid_at"`
}

// NewPaymentDTO maps a domain payment
func NewPaymentDTO(p subscription.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		TransactionID: p.TransactionID,
		PaidAt:        p.PaidAt,
	}
}

// TestPaymentRequest runs the simulated payment provider
type TestPaymentRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free pro enterprise"`
}

// TestPaymentResponse reports the simulated charge and resulting subscription
type TestPaymentResponse struct {
	Payment      PaymentDTO       `json:"payment"`
	Subscription *SubscriptionDTO `json:"subscription"`
}
