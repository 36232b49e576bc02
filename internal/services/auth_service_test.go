package services

import (
	"context"
	"testing"
	"time"

	"github.com/devforge/codelab/internal/cache"
	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret",
			SessionExpiry:    24 * time.Hour,
			ResetTokenExpiry: 15 * time.Minute,
			OTPExpiry:        10 * time.Minute,
			BCryptCost:       4, // keep hashing fast in tests
		},
		Worker: config.WorkerConfig{
			SubscriptionPeriod: 30 * 24 * time.Hour,
		},
	}
}

func newAuthServiceForTest(t *testing.T) (*AuthService, *testutil.MockUserRepository, *testutil.MockSubscriptionRepository, *testutil.MockMailer) {
	t.Helper()
	users := testutil.NewMockUserRepository()
	subs := testutil.NewMockSubscriptionRepository()
	mailer := testutil.NewMockMailer()
	store := cache.NewMemoryCache()
	t.Cleanup(func() { store.Close() })
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	svc := NewAuthService(users, subs, store, mailer, testConfig(), log)
	return svc, users, subs, mailer
}

func TestAuthService_Signup(t *testing.T) {
	svc, _, subs, mailer := newAuthServiceForTest(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, "New@Example.com", "password123", "New User")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if u.Email != "new@example.com" {
		t.Errorf("email = %q, want normalized new@example.com", u.Email)
	}
	if u.EmailVerified {
		t.Error("new account should start unverified")
	}
	if !u.HasOTPChallenge() {
		t.Error("signup should leave a pending verification challenge")
	}
	if mailer.LastOTP() == "" {
		t.Error("signup should email the verification code")
	}

	sub, err := subs.GetByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("default subscription missing: %v", err)
	}
	if sub.Plan != plan.Free || sub.Status != subscription.StatusInactive {
		t.Errorf("default subscription = %s/%s, want free/inactive", sub.Plan, sub.Status)
	}
	if u.SubscriptionID == nil || *u.SubscriptionID != sub.ID {
		t.Error("user should be linked to the default subscription")
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "dup@example.com", "password123", ""); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	_, err := svc.Signup(ctx, "DUP@example.com", "password123", "")
	if err == nil {
		t.Fatal("Signup() accepted a duplicate email")
	}
	if appErr, ok := err.(*errors.AppError); !ok || appErr.Code != errors.ErrCodeConflict {
		t.Errorf("error = %v, want conflict", err)
	}
}

func TestAuthService_VerifyOTP(t *testing.T) {
	svc, _, _, mailer := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "v@example.com", "password123", ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	code := mailer.LastOTP()

	t.Run("wrong code rejected", func(t *testing.T) {
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		if _, err := svc.VerifyOTP(ctx, "v@example.com", wrong); err == nil {
			t.Error("VerifyOTP() accepted a wrong code")
		}
	})

	t.Run("correct code verifies and is single use", func(t *testing.T) {
		u, err := svc.VerifyOTP(ctx, "v@example.com", code)
		if err != nil {
			t.Fatalf("VerifyOTP() error = %v", err)
		}
		if !u.EmailVerified {
			t.Error("email should be verified")
		}
		if u.HasOTPChallenge() {
			t.Error("challenge should be cleared on success")
		}

		if _, err := svc.VerifyOTP(ctx, "v@example.com", code); err == nil {
			t.Error("VerifyOTP() accepted a code twice")
		}
	})
}

func TestAuthService_ResendOTP_ReplacesCode(t *testing.T) {
	svc, _, _, mailer := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "r@example.com", "password123", ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	first := mailer.LastOTP()

	if err := svc.ResendOTP(ctx, "r@example.com"); err != nil {
		t.Fatalf("ResendOTP() error = %v", err)
	}
	second := mailer.LastOTP()

	// The old code must no longer verify once replaced
	if first != second {
		if _, err := svc.VerifyOTP(ctx, "r@example.com", first); err == nil {
			t.Error("VerifyOTP() accepted a superseded code")
		}
	}
	if _, err := svc.VerifyOTP(ctx, "r@example.com", second); err != nil {
		t.Errorf("VerifyOTP() with fresh code error = %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "login@example.com", "password123", ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid credentials", "login@example.com", "password123", false},
		{"case-insensitive email", "LOGIN@example.com", "password123", false},
		{"wrong password", "login@example.com", "nope", true},
		{"unknown email", "ghost@example.com", "password123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, token, err := svc.Login(ctx, tt.email, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				// Unknown email and wrong password must be indistinguishable
				if appErr, ok := err.(*errors.AppError); !ok || appErr.Message != "Invalid email or password" {
					t.Errorf("error = %v, want generic invalid credentials", err)
				}
				return
			}
			if u == nil || token == "" {
				t.Error("Login() returned empty user or token")
			}
		})
	}
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "out@example.com", "password123", ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	_, token, err := svc.Login(ctx, "out@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if svc.IsTokenRevoked(ctx, token) {
		t.Fatal("token revoked before logout")
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if !svc.IsTokenRevoked(ctx, token) {
		t.Error("token should be denylisted after logout")
	}

	// Logout is idempotent; garbage tokens are a no-op
	if err := svc.Logout(ctx, token); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
	if err := svc.Logout(ctx, "not-a-jwt"); err != nil {
		t.Errorf("Logout() with garbage token error = %v", err)
	}
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	svc, _, _, mailer := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "reset@example.com", "oldpassword", ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if err := svc.ForgotPassword(ctx, "reset@example.com"); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if len(mailer.ResetOTPs) != 1 {
		t.Fatalf("reset mails sent = %d, want 1", len(mailer.ResetOTPs))
	}
	code := mailer.ResetOTPs[0].Code

	resetToken, err := svc.VerifyResetOTP(ctx, "reset@example.com", code)
	if err != nil {
		t.Fatalf("VerifyResetOTP() error = %v", err)
	}

	// The reset code is consumed on verification
	if _, err := svc.VerifyResetOTP(ctx, "reset@example.com", code); err == nil {
		t.Error("VerifyResetOTP() accepted a consumed code")
	}

	if err := svc.ResetPassword(ctx, resetToken, "newpassword"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, _, err := svc.Login(ctx, "reset@example.com", "oldpassword"); err == nil {
		t.Error("Login() succeeded with the old password")
	}
	if _, _, err := svc.Login(ctx, "reset@example.com", "newpassword"); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
}

func TestAuthService_ResetPassword_RejectsSessionToken(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "mix@example.com", "password123", ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	_, sessionToken, err := svc.Login(ctx, "mix@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.ResetPassword(ctx, sessionToken, "hijacked"); err == nil {
		t.Error("ResetPassword() accepted a session token")
	}
}
