package handlers

import (
	"net/http"
	"strconv"

	"github.com/devforge/codelab/internal/api/dto"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/utils"
	"github.com/devforge/codelab/internal/pkg/validator"
	"github.com/devforge/codelab/internal/services"
)

// UserIDCookieName is readable by the frontend; the session cookie is not.
const UserIDCookieName = "userId"

// AuthHandler handles signup, email verification, sessions and password reset
type AuthHandler struct {
	authService *services.AuthService
	config      *config.Config
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AuthService,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
		logger:      log,
		validator:   val,
	}
}

// setSessionCookies sets the http-only session cookie plus a frontend-readable
// userId cookie with the same lifetime.
func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, token string, userID int64) {
	maxAge := int(h.config.Auth.SessionExpiry.Seconds())
	secure := h.config.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     UserIDCookieName,
		Value:    strconv.FormatInt(userID, 10),
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

// clearSessionCookies expires both session cookies
func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	secure := h.config.IsProduction()
	for _, name := range []string{middleware.SessionCookieName, UserIDCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: name == middleware.SessionCookieName,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
}

// Signup handles account registration
// @Summary Sign up
// @Description Register a new account and email a verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup details"
// @Success 201 {object} dto.UserDTO "Account created, verification pending"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 409 {object} utils.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, err := h.authService.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to create account", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusCreated,
		"Account created. Check your email for the verification code.",
		dto.NewUserDTO(u))
}

// VerifyOTP handles email verification
// @Summary Verify email
// @Description Verify the signup email with the 6-digit code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email and code"
// @Success 200 {object} dto.UserDTO "Email verified"
// @Failure 400 {object} utils.ErrorResponse "Invalid or expired code"
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, err := h.authService.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to verify email", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Email verified", dto.NewUserDTO(u))
}

// ResendOTP handles verification code resend
// @Summary Resend verification code
// @Description Replace the pending verification code with a fresh one
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ResendOTPRequest true "Email"
// @Success 200 {object} utils.SuccessResponse "Code sent"
// @Failure 400 {object} utils.ErrorResponse "Already verified"
// @Router /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.authService.ResendOTP(r.Context(), req.Email); err != nil {
		writeServiceError(w, err, errors.Internal("Failed to resend code", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Verification code sent", nil)
}

// Login handles user login
// @Summary Log in
// @Description Authenticate with email and password; sets session cookies
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Successfully authenticated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Authentication failed")
		writeServiceError(w, err, errors.Unauthorized("Invalid email or password"))
		return
	}

	h.setSessionCookies(w, token, u.ID)

	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.NewUserDTO(u),
	})
}

// Logout handles user logout
// @Summary Log out
// @Description Revoke the session token and clear cookies
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse "Logged out"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.GetSessionToken(r); ok {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			writeServiceError(w, err, errors.Internal("Failed to log out", err))
			return
		}
	}

	h.clearSessionCookies(w)
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the current user and subscription
// @Summary Get current session
// @Description Get the authenticated user and their subscription
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.MeResponse "Session information"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	u, sub, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to load session", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.MeResponse{
		User:         dto.NewUserDTO(u),
		Subscription: dto.NewSubscriptionDTO(sub),
	})
}

// ForgotPassword starts the password reset flow
// @Summary Forgot password
// @Description Email a password reset code to a registered address
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email"
// @Success 200 {object} utils.SuccessResponse "Code sent"
// @Failure 404 {object} utils.ErrorResponse "Unknown email"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err, errors.Internal("Failed to start password reset", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Password reset code sent", nil)
}

// VerifyResetOTP exchanges a reset code for a short-lived reset token
// @Summary Verify reset code
// @Description Exchange the emailed reset code for a reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyResetOTPRequest true "Email and code"
// @Success 200 {object} map[string]string "Reset token"
// @Failure 400 {object} utils.ErrorResponse "Invalid or expired code"
// @Router /auth/verify-reset-otp [post]
func (h *AuthHandler) VerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyResetOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	token, err := h.authService.VerifyResetOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to verify reset code", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]string{"resetToken": token})
}

// ResetPassword completes the password reset flow
// @Summary Reset password
// @Description Set a new password using a verified reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} utils.SuccessResponse "Password reset"
// @Failure 401 {object} utils.ErrorResponse "Invalid or expired reset token"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.ResetToken, req.NewPassword); err != nil {
		writeServiceError(w, err, errors.Internal("Failed to reset password", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Password reset successfully", nil)
}
