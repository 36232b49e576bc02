package services

import (
	"context"

	"github.com/devforge/codelab/internal/auth"
	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo   user.Repository
	cfg    *config.Config
	logger *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, cfg *config.Config, log *logger.Logger) user.Service {
	return &UserService{
		repo:   repo,
		cfg:    cfg,
		logger: log,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// UpdateProfile updates mutable profile fields
func (s *UserService) UpdateProfile(ctx context.Context, id int64, name string) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Name = name
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{"user_id": id}).Info("Profile updated")
	return u, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (s *UserService) VerifyPassword(ctx context.Context, id int64, password string) (bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return auth.CheckPassword(u.PasswordHash, password), nil
}

// ChangePassword rotates the password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(u.PasswordHash, currentPassword) {
		return errors.Unauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.Auth.BCryptCost)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}

	u.PasswordHash = hash
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{"user_id": id}).Info("Password changed")
	return nil
}

// Delete removes the account
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{"user_id": id}).Info("User deleted")
	return nil
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	return s.repo.List(ctx, limit, offset)
}
