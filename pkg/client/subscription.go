package client

import (
	"context"
	"fmt"
)

// SubscriptionService handles plan catalog, subscription and payment operations
type SubscriptionService struct {
	client *Client
}

// Plans retrieves the public plan catalog
func (s *SubscriptionService) Plans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := s.client.doRequest(ctx, "GET", "/api/subscription/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Get retrieves the current subscription with resolved plan limits
func (s *SubscriptionService) Get(ctx context.Context) (*SubscriptionDetails, error) {
	var details SubscriptionDetails
	if err := s.client.doRequest(ctx, "GET", "/api/subscription/details", nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Status retrieves the lightweight subscription validity probe
func (s *SubscriptionService) Status(ctx context.Context) (*SubscriptionStatus, error) {
	var status SubscriptionStatus
	if err := s.client.doRequest(ctx, "GET", "/api/subscription/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Activate puts the current user on planID
func (s *SubscriptionService) Activate(ctx context.Context, planID string) (*Subscription, error) {
	req := map[string]string{"plan": planID}

	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", "/api/subscription/create", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Cancel cancels the current subscription
func (s *SubscriptionService) Cancel(ctx context.Context) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", "/api/subscription/cancel", nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// TestPaymentResult reports the simulated charge and resulting subscription
type TestPaymentResult struct {
	Payment      Payment       `json:"payment"`
	Subscription *Subscription `json:"subscription"`
}

// TestPayment runs the simulated payment flow for planID
func (s *SubscriptionService) TestPayment(ctx context.Context, planID string) (*TestPaymentResult, error) {
	req := map[string]string{"plan": planID}

	var result TestPaymentResult
	if err := s.client.doRequest(ctx, "POST", "/api/subscription/payment", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// pagePath appends pagination query parameters
func pagePath(path string, page, pageSize int) string {
	if page <= 0 && pageSize <= 0 {
		return path
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		return fmt.Sprintf("%s?page=%d", path, page)
	}
	return fmt.Sprintf("%s?page=%d&page_size=%d", path, page, pageSize)
}
