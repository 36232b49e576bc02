package services

import (
	"context"
	"strings"
	"time"

	"github.com/devforge/codelab/internal/auth"
	"github.com/devforge/codelab/internal/cache"
	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

// AuthService implements signup, email verification, sessions and
// password reset.
type AuthService struct {
	users  user.Repository
	subs   subscription.Repository
	store  cache.Cache
	mailer Mailer
	cfg    *config.Config
	logger *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users user.Repository, subs subscription.Repository, store cache.Cache, mailer Mailer, cfg *config.Config, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		subs:   subs,
		store:  store,
		mailer: mailer,
		cfg:    cfg,
		logger: log,
	}
}

// NormalizeEmail lowercases and trims an address so lookups are
// case-insensitive everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account, creates its default subscription and
// emails the verification code. A mail failure fails the whole request:
// an account nobody can verify is worse than a retried signup.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*user.User, error) {
	email = NormalizeEmail(email)

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("Email is already registered")
	}

	hash, err := auth.HashPassword(password, s.cfg.Auth.BCryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return nil, errors.Internal("Failed to generate verification code", err)
	}
	u.SetOTPChallenge(code, time.Now().Add(s.cfg.Auth.OTPExpiry))

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	// Every account starts with an inactive free subscription; payment
	// activates it later.
	now := time.Now()
	sub := &subscription.Subscription{
		UserID:    u.ID,
		Plan:      plan.Free,
		Status:    subscription.StatusInactive,
		StartDate: now,
		EndDate:   now.Add(s.cfg.Worker.SubscriptionPeriod),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	u.SubscriptionID = &sub.ID
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	if err := s.mailer.SendOTP(ctx, u.Email, code); err != nil {
		s.logger.ErrorWithErr(err, "Failed to send verification email")
		return nil, errors.EmailDelivery(err)
	}

	metrics.RecordSignup()
	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User signed up")

	return u, nil
}

// VerifyOTP checks the signup verification code and marks the email
// verified. Codes are single-use: the challenge is cleared on success.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*user.User, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if u.EmailVerified {
		return nil, errors.BadRequest("Email is already verified")
	}

	if !u.HasOTPChallenge() || time.Now().After(*u.OTPExpiresAt) {
		metrics.RecordOTPVerification("expired")
		return nil, errors.OTPExpired()
	}

	if !auth.VerifyOTP(u.OTPCode, u.OTPExpiresAt, code) {
		metrics.RecordOTPVerification("invalid")
		return nil, errors.InvalidOTP()
	}

	u.EmailVerified = true
	u.ClearOTPChallenge()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	metrics.RecordOTPVerification("success")
	s.logger.WithFields(map[string]interface{}{"user_id": u.ID}).Info("Email verified")

	return u, nil
}

// ResendOTP replaces any pending challenge with a fresh code and emails it.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	if u.EmailVerified {
		return errors.BadRequest("Email is already verified")
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return errors.Internal("Failed to generate verification code", err)
	}
	u.SetOTPChallenge(code, time.Now().Add(s.cfg.Auth.OTPExpiry))
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(ctx, u.Email, code); err != nil {
		s.logger.ErrorWithErr(err, "Failed to send verification email")
		return errors.EmailDelivery(err)
	}

	return nil
}

// Login authenticates credentials and mints the session token. The error
// is identical for unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	invalid := errors.Unauthorized("Invalid email or password")

	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		metrics.RecordLogin("failure")
		return nil, "", invalid
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		metrics.RecordLogin("failure")
		return nil, "", invalid
	}

	token, err := auth.MintSessionToken(u.ID, u.Email, s.cfg.Auth.JWTSecret, s.cfg.Auth.SessionExpiry)
	if err != nil {
		return nil, "", errors.Internal("Failed to mint session token", err)
	}

	metrics.RecordLogin("success")
	s.logger.WithFields(map[string]interface{}{"user_id": u.ID}).Info("User logged in")

	return u, token, nil
}

// Logout denylists the exact token for its remaining lifetime. Unknown or
// already-expired tokens are a no-op, so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := auth.ParseClaims(token, s.cfg.Auth.JWTSecret)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := s.store.Set(ctx, cache.DenylistKey(token), "1", remaining); err != nil {
		s.logger.ErrorWithErr(err, "Failed to denylist session token")
		return errors.Internal("Failed to revoke session", err)
	}

	metrics.RecordTokenRevoked()
	return nil
}

// IsTokenRevoked reports whether a token was denylisted by logout.
func (s *AuthService) IsTokenRevoked(ctx context.Context, token string) bool {
	_, err := s.store.Get(ctx, cache.DenylistKey(token))
	return err == nil
}

// CurrentUser loads the authenticated user and their subscription, if any.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*user.User, *subscription.Subscription, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	sub, err := s.subs.GetByUserID(ctx, userID)
	if err != nil {
		// No subscription row is a legal state for older accounts
		return u, nil, nil
	}

	return u, sub, nil
}

// ForgotPassword issues a password reset challenge to a known address.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return errors.Internal("Failed to generate reset code", err)
	}
	u.SetOTPChallenge(code, time.Now().Add(s.cfg.Auth.OTPExpiry))
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetOTP(ctx, u.Email, code); err != nil {
		s.logger.ErrorWithErr(err, "Failed to send reset email")
		return errors.EmailDelivery(err)
	}

	return nil
}

// VerifyResetOTP checks the reset challenge and mints a short-lived reset
// token. The challenge is consumed whether or not the token is later used.
func (s *AuthService) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", err
	}

	if !u.HasOTPChallenge() || time.Now().After(*u.OTPExpiresAt) {
		return "", errors.OTPExpired()
	}
	if !auth.VerifyOTP(u.OTPCode, u.OTPExpiresAt, code) {
		return "", errors.InvalidOTP()
	}

	u.ClearOTPChallenge()
	if err := s.users.Update(ctx, u); err != nil {
		return "", err
	}

	token, err := auth.MintResetToken(u.ID, u.Email, s.cfg.Auth.JWTSecret, s.cfg.Auth.ResetTokenExpiry)
	if err != nil {
		return "", errors.Internal("Failed to mint reset token", err)
	}

	return token, nil
}

// ResetPassword sets a new password from a verified reset token.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := auth.ParseResetClaims(resetToken, s.cfg.Auth.JWTSecret)
	if err != nil {
		return errors.Unauthorized("Invalid or expired reset token")
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.Auth.BCryptCost)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}

	u.PasswordHash = hash
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{"user_id": u.ID}).Info("Password reset")
	return nil
}
