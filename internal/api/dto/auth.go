package dto

// SignupRequest represents a signup request
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPRequest carries the 6-digit email verification code
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResendOTPRequest requests a fresh verification code
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordRequest starts the password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetOTPRequest exchanges a reset code for a reset token
type VerifyResetOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest completes the password reset flow
type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// AuthResponse represents an authentication response. The token is also
// set as an http-only cookie; the body copy serves non-browser clients.
type AuthResponse struct {
	Token string   `json:"token,omitempty"`
	User  *UserDTO `json:"user"`
}

// MeResponse is the current-session view used by route guards
type MeResponse struct {
	User         *UserDTO         `json:"user"`
	Subscription *SubscriptionDTO `json:"subscription,omitempty"`
}
