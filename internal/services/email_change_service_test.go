package services

import (
	"context"
	"testing"

	"github.com/devforge/codelab/internal/cache"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/testutil"
)

func newEmailChangeServiceForTest(t *testing.T) (*EmailChangeService, *testutil.MockUserRepository, *testutil.MockMailer) {
	t.Helper()
	users := testutil.NewMockUserRepository()
	mailer := testutil.NewMockMailer()
	store := cache.NewMemoryCache()
	t.Cleanup(func() { store.Close() })
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	svc := NewEmailChangeService(users, store, mailer, testConfig(), log)
	return svc, users, mailer
}

func TestEmailChangeService_Flow(t *testing.T) {
	svc, users, mailer := newEmailChangeServiceForTest(t)
	ctx := context.Background()
	u := seedUserWithPassword(t, users, "old@example.com", "password123")

	if err := svc.Initiate(ctx, u.ID, "New@Example.com"); err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}

	if len(mailer.ChangeOTPs) != 1 {
		t.Fatalf("change mails sent = %d, want 1", len(mailer.ChangeOTPs))
	}
	sent := mailer.ChangeOTPs[0]
	if sent.To != "new@example.com" {
		t.Errorf("code sent to %q, want the new address", sent.To)
	}

	t.Run("wrong code rejected", func(t *testing.T) {
		wrong := "000000"
		if wrong == sent.Code {
			wrong = "000001"
		}
		if _, err := svc.Verify(ctx, u.ID, wrong); err == nil {
			t.Error("Verify() accepted a wrong code")
		}
	})

	t.Run("correct code moves the account", func(t *testing.T) {
		updated, err := svc.Verify(ctx, u.ID, sent.Code)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if updated.Email != "new@example.com" {
			t.Errorf("email = %q, want new@example.com", updated.Email)
		}
		if !updated.EmailVerified {
			t.Error("new address should be verified by construction")
		}

		// Challenge is consumed
		if _, err := svc.Verify(ctx, u.ID, sent.Code); err == nil {
			t.Error("Verify() accepted a consumed challenge")
		}
	})
}

func TestEmailChangeService_Initiate_Rejections(t *testing.T) {
	svc, users, _ := newEmailChangeServiceForTest(t)
	ctx := context.Background()
	u := seedUserWithPassword(t, users, "me@example.com", "password123")
	seedUserWithPassword(t, users, "taken@example.com", "password123")

	if err := svc.Initiate(ctx, u.ID, "me@example.com"); err == nil {
		t.Error("Initiate() accepted the current address")
	}
	if err := svc.Initiate(ctx, u.ID, "taken@example.com"); err == nil {
		t.Error("Initiate() accepted an address registered to another account")
	}
}
