package services

import (
	"context"
	"time"

	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

// SubscriptionService implements subscription.Service
type SubscriptionService struct {
	subs     subscription.Repository
	users    user.Repository
	provider PaymentProvider
	cfg      *config.Config
	logger   *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subs subscription.Repository, users user.Repository, provider PaymentProvider, cfg *config.Config, log *logger.Logger) subscription.Service {
	return &SubscriptionService{
		subs:     subs,
		users:    users,
		provider: provider,
		cfg:      cfg,
		logger:   log,
	}
}

// Activate puts the user on planID. Re-activation updates the existing row
// in place and restarts the paid period; it never creates a second row.
func (s *SubscriptionService) Activate(ctx context.Context, userID int64, planID string) (*subscription.Subscription, error) {
	p, ok := plan.Lookup(planID)
	if !ok {
		return nil, errors.BadRequest("Unknown plan")
	}

	now := time.Now()
	endDate := now.Add(s.cfg.Worker.SubscriptionPeriod)

	sub, err := s.subs.GetByUserID(ctx, userID)
	if err == nil {
		sub.Plan = p.ID
		sub.Status = subscription.StatusActive
		sub.StartDate = now
		sub.EndDate = endDate
		if err := s.subs.Update(ctx, sub); err != nil {
			return nil, err
		}
	} else {
		sub = &subscription.Subscription{
			UserID:    userID,
			Plan:      p.ID,
			Status:    subscription.StatusActive,
			StartDate: now,
			EndDate:   endDate,
		}
		if err := s.subs.Create(ctx, sub); err != nil {
			return nil, err
		}
	}

	// Keep the user row linked for accounts created before the default
	// subscription existed.
	if u, err := s.users.GetByID(ctx, userID); err == nil && (u.SubscriptionID == nil || *u.SubscriptionID != sub.ID) {
		u.SubscriptionID = &sub.ID
		if err := s.users.Update(ctx, u); err != nil {
			s.logger.ErrorWithErr(err, "Failed to link subscription to user")
		}
	}

	metrics.RecordSubscriptionActivation(p.ID)
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"plan":    p.ID,
	}).Info("Subscription activated")

	return sub, nil
}

// ProcessPayment charges through the provider, records the payment,
// activates the subscription and resets the plan usage counters.
func (s *SubscriptionService) ProcessPayment(ctx context.Context, userID int64, planID string) (*subscription.Payment, *subscription.Subscription, error) {
	p, ok := plan.Lookup(planID)
	if !ok {
		return nil, nil, errors.BadRequest("Unknown plan")
	}

	payment, err := s.provider.Charge(ctx, userID, p)
	if err != nil {
		return nil, nil, err
	}

	sub, err := s.Activate(ctx, userID, p.ID)
	if err != nil {
		return nil, nil, err
	}

	payment.SubscriptionID = sub.ID
	if err := s.subs.AddPayment(ctx, payment); err != nil {
		return nil, nil, err
	}

	// A fresh paid period starts with fresh usage
	if u, err := s.users.GetByID(ctx, userID); err == nil {
		if err := s.users.UpdateUsage(ctx, u.ID, 0, 0, nil); err != nil {
			s.logger.ErrorWithErr(err, "Failed to reset usage counters")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"plan":       p.ID,
		"payment_id": payment.ID,
	}).Info("Payment processed")

	return payment, sub, nil
}

// GetDetails returns the subscription with resolved plan limits. Users
// without a row report the free tier as active.
func (s *SubscriptionService) GetDetails(ctx context.Context, userID int64) (*subscription.Details, error) {
	sub, err := s.subs.GetByUserID(ctx, userID)
	if err != nil {
		free, _ := plan.Lookup(plan.Free)
		return &subscription.Details{Plan: free, Active: true}, nil
	}

	if payments, err := s.subs.ListPayments(ctx, sub.ID); err == nil {
		sub.Payments = payments
	}

	p, ok := plan.Lookup(sub.Plan)
	if !ok {
		p, _ = plan.Lookup(plan.Free)
	}

	return &subscription.Details{
		Subscription: sub,
		Plan:         p,
		Active:       sub.IsValid(),
	}, nil
}

// GetStatus returns the lightweight validity probe
func (s *SubscriptionService) GetStatus(ctx context.Context, userID int64) (*subscription.Status, error) {
	sub, err := s.subs.GetByUserID(ctx, userID)
	if err != nil {
		return &subscription.Status{Status: "none", Plan: plan.Free, Active: false}, nil
	}

	return &subscription.Status{
		Status: sub.Status,
		Plan:   sub.Plan,
		Active: sub.IsValid(),
	}, nil
}

// Cancel cancels the subscription, ending access immediately
func (s *SubscriptionService) Cancel(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	sub, err := s.subs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub.Status = subscription.StatusCancelled
	sub.EndDate = time.Now()
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{"user_id": userID}).Info("Subscription cancelled")
	return sub, nil
}

// GetByUserID returns the raw subscription row, if any
func (s *SubscriptionService) GetByUserID(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	return s.subs.GetByUserID(ctx, userID)
}
