package dto

import (
	"time"

	"github.com/devforge/codelab/internal/domain/user"
)

// UserDTO is the public user representation
type UserDTO struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name,omitempty"`
	EmailVerified   bool       `json:"email_verified"`
	ProjectsCreated int        `json:"projects_created"`
	TotalRequests   int        `json:"total_requests"`
	LastRequestAt   *time.Time `json:"last_request_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewUserDTO maps a domain user to its public representation
func NewUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		EmailVerified:   u.EmailVerified,
		ProjectsCreated: u.ProjectsCreated,
		TotalRequests:   u.TotalRequests,
		LastRequestAt:   u.LastRequestAt,
		CreatedAt:       u.CreatedAt,
	}
}

// UpdateProfileRequest updates mutable profile fields
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// VerifyPasswordRequest checks the current password
type VerifyPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// VerifyPasswordResponse reports the check result
type VerifyPasswordResponse struct {
	Valid bool `json:"valid"`
}

// ChangePasswordRequest rotates the password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// InitiateEmailChangeRequest starts the email change flow
type InitiateEmailChangeRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

// VerifyEmailChangeRequest completes the email change flow
type VerifyEmailChangeRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}
