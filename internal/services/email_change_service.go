package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/devforge/codelab/internal/auth"
	"github.com/devforge/codelab/internal/cache"
	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
)

// emailChangeChallenge is the cache payload for a pending email change.
type emailChangeChallenge struct {
	NewEmail string `json:"new_email"`
	Code     string `json:"code"`
}

// EmailChangeService moves an account to a new address after the new
// address proves it can receive mail. The pending challenge lives in the
// cache, not on the user row, so an abandoned change leaves no state behind.
type EmailChangeService struct {
	users  user.Repository
	store  cache.Cache
	mailer Mailer
	cfg    *config.Config
	logger *logger.Logger
}

// NewEmailChangeService creates a new email change service
func NewEmailChangeService(users user.Repository, store cache.Cache, mailer Mailer, cfg *config.Config, log *logger.Logger) *EmailChangeService {
	return &EmailChangeService{
		users:  users,
		store:  store,
		mailer: mailer,
		cfg:    cfg,
		logger: log,
	}
}

// Initiate stores a challenge for the new address and emails the code to it.
func (s *EmailChangeService) Initiate(ctx context.Context, userID int64, newEmail string) error {
	newEmail = NormalizeEmail(newEmail)

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Email == newEmail {
		return errors.BadRequest("New email matches the current address")
	}

	if existing, err := s.users.GetByEmail(ctx, newEmail); err == nil && existing != nil {
		return errors.Conflict("Email is already registered")
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return errors.Internal("Failed to generate verification code", err)
	}

	payload, err := json.Marshal(emailChangeChallenge{NewEmail: newEmail, Code: code})
	if err != nil {
		return errors.Internal("Failed to encode challenge", err)
	}
	if err := s.store.Set(ctx, cache.EmailChangeKey(userID), string(payload), s.cfg.Auth.OTPExpiry); err != nil {
		return errors.Internal("Failed to store challenge", err)
	}

	if err := s.mailer.SendEmailChangeOTP(ctx, newEmail, code); err != nil {
		s.logger.ErrorWithErr(err, "Failed to send email change code")
		return errors.EmailDelivery(err)
	}

	s.logger.WithFields(map[string]interface{}{"user_id": userID}).Info("Email change initiated")
	return nil
}

// Verify consumes the challenge and moves the account to the new address.
// The new address is verified by construction: it just received the code.
func (s *EmailChangeService) Verify(ctx context.Context, userID int64, code string) (*user.User, error) {
	key := cache.EmailChangeKey(userID)

	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, errors.OTPExpired()
	}

	var challenge emailChangeChallenge
	if err := json.Unmarshal([]byte(raw), &challenge); err != nil {
		return nil, errors.Internal("Failed to decode challenge", err)
	}

	if challenge.Code != code {
		return nil, errors.InvalidOTP()
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Email = challenge.NewEmail
	u.EmailVerified = true
	u.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	_ = s.store.Delete(ctx, key)

	s.logger.WithFields(map[string]interface{}{"user_id": userID}).Info("Email changed")
	return u, nil
}
