package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/pkg/errors"
)

// PaymentProvider charges for a plan and returns the payment record.
type PaymentProvider interface {
	Charge(ctx context.Context, userID int64, p plan.Plan) (*subscription.Payment, error)
}

// SimulatedPaymentProvider is the test payment provider: it always succeeds
// and fabricates payment and transaction identifiers. Swap in a real
// provider behind the same interface for production billing.
type SimulatedPaymentProvider struct{}

// NewSimulatedPaymentProvider creates the simulated provider
func NewSimulatedPaymentProvider() *SimulatedPaymentProvider {
	return &SimulatedPaymentProvider{}
}

// Charge simulates a successful charge for the plan price.
func (p *SimulatedPaymentProvider) Charge(ctx context.Context, userID int64, pl plan.Plan) (*subscription.Payment, error) {
	if pl.ID == "" {
		return nil, errors.BadRequest("Unknown plan")
	}

	return &subscription.Payment{
		ID:            "pay_" + uuid.NewString(),
		Amount:        pl.Price,
		Currency:      pl.Currency,
		TransactionID: "txn_" + uuid.NewString(),
		PaidAt:        time.Now(),
	}, nil
}
