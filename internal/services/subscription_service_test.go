package services

import (
	"context"
	"testing"
	"time"

	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/testutil"
)

func newSubscriptionServiceForTest(t *testing.T) (subscription.Service, *testutil.MockSubscriptionRepository, *testutil.MockUserRepository, *testutil.MockPaymentProvider) {
	t.Helper()
	subs := testutil.NewMockSubscriptionRepository()
	users := testutil.NewMockUserRepository()
	provider := testutil.NewMockPaymentProvider()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	svc := NewSubscriptionService(subs, users, provider, testConfig(), log)
	return svc, subs, users, provider
}

func seedUser(t *testing.T, users *testutil.MockUserRepository) *user.User {
	t.Helper()
	u := &user.User{Email: "sub@example.com", PasswordHash: "x", EmailVerified: true}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestSubscriptionService_Activate(t *testing.T) {
	svc, subs, users, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()
	u := seedUser(t, users)

	sub, err := svc.Activate(ctx, u.ID, "pro")
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if sub.Plan != plan.Pro || sub.Status != subscription.StatusActive {
		t.Errorf("subscription = %s/%s, want pro/active", sub.Plan, sub.Status)
	}
	if !sub.IsValid() {
		t.Error("fresh subscription should be valid")
	}
	if u.SubscriptionID == nil || *u.SubscriptionID != sub.ID {
		t.Error("user row should link to the subscription")
	}

	t.Run("reactivation updates in place", func(t *testing.T) {
		again, err := svc.Activate(ctx, u.ID, "enterprise")
		if err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
		if again.ID != sub.ID {
			t.Errorf("reactivation created a new row (%d != %d)", again.ID, sub.ID)
		}
		if again.Plan != plan.Enterprise {
			t.Errorf("plan = %s, want enterprise", again.Plan)
		}
		if len(subs.Subscriptions) != 1 {
			t.Errorf("subscription rows = %d, want 1", len(subs.Subscriptions))
		}
	})

	t.Run("unknown plan rejected", func(t *testing.T) {
		if _, err := svc.Activate(ctx, u.ID, "platinum"); err == nil {
			t.Error("Activate() accepted an unknown plan")
		}
	})
}

func TestSubscriptionService_ProcessPayment(t *testing.T) {
	svc, subs, users, provider := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	u := seedUser(t, users)
	u.ProjectsCreated = 3
	u.TotalRequests = 500

	payment, sub, err := svc.ProcessPayment(ctx, u.ID, "pro")
	if err != nil {
		t.Fatalf("ProcessPayment() error = %v", err)
	}

	if len(provider.Charges) != 1 {
		t.Fatalf("charges = %d, want 1", len(provider.Charges))
	}
	if provider.Charges[0].Plan.ID != plan.Pro {
		t.Errorf("charged plan = %s, want pro", provider.Charges[0].Plan.ID)
	}
	if payment.SubscriptionID != sub.ID {
		t.Error("payment should reference the activated subscription")
	}

	recorded, err := subs.ListPayments(ctx, sub.ID)
	if err != nil || len(recorded) != 1 {
		t.Fatalf("recorded payments = %d (%v), want 1", len(recorded), err)
	}

	// A fresh paid period starts with fresh usage counters
	if u.ProjectsCreated != 0 || u.TotalRequests != 0 {
		t.Errorf("usage = %d/%d after payment, want 0/0", u.ProjectsCreated, u.TotalRequests)
	}
}

func TestSubscriptionService_GetDetails(t *testing.T) {
	svc, _, users, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()
	u := seedUser(t, users)

	t.Run("no row reports free tier active", func(t *testing.T) {
		details, err := svc.GetDetails(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetDetails() error = %v", err)
		}
		if details.Subscription != nil {
			t.Error("details should carry no subscription row")
		}
		if details.Plan.ID != plan.Free || !details.Active {
			t.Errorf("details = %s/active=%v, want free/active=true", details.Plan.ID, details.Active)
		}
	})

	t.Run("active row resolves its plan", func(t *testing.T) {
		if _, err := svc.Activate(ctx, u.ID, "pro"); err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
		details, err := svc.GetDetails(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetDetails() error = %v", err)
		}
		if details.Plan.ID != plan.Pro || !details.Active {
			t.Errorf("details = %s/active=%v, want pro/active=true", details.Plan.ID, details.Active)
		}
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	svc, _, users, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()
	u := seedUser(t, users)

	if _, err := svc.Activate(ctx, u.ID, "pro"); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	sub, err := svc.Cancel(ctx, u.ID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if sub.Status != subscription.StatusCancelled {
		t.Errorf("status = %s, want cancelled", sub.Status)
	}
	if sub.IsValid() {
		t.Error("cancelled subscription must not grant access")
	}

	status, err := svc.GetStatus(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if status.Active {
		t.Error("status probe should report inactive after cancel")
	}
}

func TestSubscription_IsValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		sub  *subscription.Subscription
		want bool
	}{
		{"nil", nil, false},
		{
			"active within period",
			&subscription.Subscription{Status: subscription.StatusActive, EndDate: now.Add(time.Hour)},
			true,
		},
		{
			"active but lapsed",
			&subscription.Subscription{Status: subscription.StatusActive, EndDate: now.Add(-time.Hour)},
			false,
		},
		{
			"inactive",
			&subscription.Subscription{Status: subscription.StatusInactive, EndDate: now.Add(time.Hour)},
			false,
		},
		{
			"cancelled",
			&subscription.Subscription{Status: subscription.StatusCancelled, EndDate: now.Add(time.Hour)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
