package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/repository/postgres"
	"github.com/devforge/codelab/internal/testutil"
)

func seedSubscription(t *testing.T, repo subscription.Repository, userID int64, planID, status string, endDate time.Time) *subscription.Subscription {
	t.Helper()
	s := &subscription.Subscription{
		UserID:    userID,
		Plan:      planID,
		Status:    status,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   endDate,
	}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return s
}

func TestSubscriptionRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	s := seedSubscription(t, repo, 1, plan.Pro, subscription.StatusActive, time.Now().Add(30*24*time.Hour))

	got, err := repo.GetByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if got.ID != s.ID || got.Plan != plan.Pro {
		t.Errorf("got %d/%s, want %d/pro", got.ID, got.Plan, s.ID)
	}
	if !got.IsValid() {
		t.Error("active in-period subscription should be valid")
	}

	if _, err := repo.GetByUserID(ctx, 999); err == nil {
		t.Error("GetByUserID() found a subscription for an unknown user")
	}

	// One row per user: a second insert for the same user must fail
	dup := &subscription.Subscription{
		UserID: 1, Plan: plan.Free, Status: subscription.StatusInactive,
		StartDate: time.Now(), EndDate: time.Now(),
	}
	if err := repo.Create(ctx, dup); err == nil {
		t.Error("Create() accepted a second row for the same user")
	}
}

func TestSubscriptionRepository_Payments(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	s := seedSubscription(t, repo, 1, plan.Pro, subscription.StatusActive, time.Now().Add(30*24*time.Hour))

	older := &subscription.Payment{
		ID: "pay_1", SubscriptionID: s.ID, Amount: 29.99, Currency: "usd",
		TransactionID: "txn_1", PaidAt: time.Now().Add(-48 * time.Hour),
	}
	newer := &subscription.Payment{
		ID: "pay_2", SubscriptionID: s.ID, Amount: 29.99, Currency: "usd",
		TransactionID: "txn_2", PaidAt: time.Now(),
	}
	for _, p := range []*subscription.Payment{older, newer} {
		if err := repo.AddPayment(ctx, p); err != nil {
			t.Fatalf("AddPayment() error = %v", err)
		}
	}

	payments, err := repo.ListPayments(ctx, s.ID)
	if err != nil {
		t.Fatalf("ListPayments() error = %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("payments = %d, want 2", len(payments))
	}
	if payments[0].ID != "pay_2" {
		t.Errorf("first payment = %s, want newest first", payments[0].ID)
	}
}

func TestSubscriptionRepository_ExpireLapsed(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	lapsed := seedSubscription(t, repo, 1, plan.Pro, subscription.StatusActive, time.Now().Add(-time.Hour))
	current := seedSubscription(t, repo, 2, plan.Enterprise, subscription.StatusActive, time.Now().Add(time.Hour))
	seedSubscription(t, repo, 3, plan.Free, subscription.StatusInactive, time.Now().Add(-time.Hour))

	n, err := repo.ExpireLapsed(ctx)
	if err != nil {
		t.Fatalf("ExpireLapsed() error = %v", err)
	}
	if n != 1 {
		t.Errorf("expired = %d, want 1", n)
	}

	got, err := repo.GetByID(ctx, lapsed.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != subscription.StatusInactive {
		t.Errorf("lapsed status = %s, want inactive", got.Status)
	}

	got, err = repo.GetByID(ctx, current.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != subscription.StatusActive {
		t.Errorf("current status = %s, want untouched active", got.Status)
	}

	// Second sweep finds nothing
	n, err = repo.ExpireLapsed(ctx)
	if err != nil || n != 0 {
		t.Errorf("second sweep = %d, %v, want 0, nil", n, err)
	}
}

func TestSubscriptionRepository_CountActiveByPlan(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	future := time.Now().Add(30 * 24 * time.Hour)
	seedSubscription(t, repo, 1, plan.Pro, subscription.StatusActive, future)
	seedSubscription(t, repo, 2, plan.Pro, subscription.StatusActive, future)
	seedSubscription(t, repo, 3, plan.Enterprise, subscription.StatusActive, future)
	seedSubscription(t, repo, 4, plan.Pro, subscription.StatusCancelled, future)
	seedSubscription(t, repo, 5, plan.Pro, subscription.StatusActive, time.Now().Add(-time.Hour))

	counts, err := repo.CountActiveByPlan(ctx)
	if err != nil {
		t.Fatalf("CountActiveByPlan() error = %v", err)
	}
	if counts[plan.Pro] != 2 {
		t.Errorf("pro = %d, want 2", counts[plan.Pro])
	}
	if counts[plan.Enterprise] != 1 {
		t.Errorf("enterprise = %d, want 1", counts[plan.Enterprise])
	}
}
