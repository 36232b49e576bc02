package handlers

import (
	"net/http"

	"github.com/devforge/codelab/internal/api/dto"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/utils"
	"github.com/devforge/codelab/internal/pkg/validator"
	"github.com/devforge/codelab/internal/services"
)

// UserHandler handles profile, password and email change requests
type UserHandler struct {
	userService user.Service
	emailChange *services.EmailChangeService
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	userService user.Service,
	emailChange *services.EmailChangeService,
	log *logger.Logger,
	val *validator.Validator,
) *UserHandler {
	return &UserHandler{
		userService: userService,
		emailChange: emailChange,
		logger:      log,
		validator:   val,
	}
}

// GetProfile returns the current user's profile
// @Summary Get profile
// @Description Get the authenticated user's profile
// @Tags Users
// @Produce json
// @Success 200 {object} dto.UserDTO "User profile"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to load profile", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewUserDTO(u))
}

// UpdateProfile updates mutable profile fields
// @Summary Update profile
// @Description Update the authenticated user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.UserDTO "Updated profile"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, err := h.userService.UpdateProfile(r.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to update profile", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewUserDTO(u))
}

// VerifyPassword checks the current password
// @Summary Verify password
// @Description Check the current password before a sensitive change
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.VerifyPasswordRequest true "Password"
// @Success 200 {object} dto.VerifyPasswordResponse "Check result"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /users/me/verify-password [post]
func (h *UserHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.VerifyPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	valid, err := h.userService.VerifyPassword(r.Context(), userID, req.Password)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to verify password", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.VerifyPasswordResponse{Valid: valid})
}

// ChangePassword rotates the password
// @Summary Change password
// @Description Change the password after verifying the current one
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} utils.SuccessResponse "Password changed"
// @Failure 401 {object} utils.ErrorResponse "Current password is incorrect"
// @Security BearerAuth
// @Router /users/me/change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err, errors.Internal("Failed to change password", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Password changed successfully", nil)
}

// InitiateEmailChange starts the email change flow
// @Summary Initiate email change
// @Description Email a verification code to the new address
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.InitiateEmailChangeRequest true "New email"
// @Success 200 {object} utils.SuccessResponse "Code sent to the new address"
// @Failure 400 {object} utils.ErrorResponse "New email matches the current address"
// @Failure 409 {object} utils.ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /users/me/email [post]
func (h *UserHandler) InitiateEmailChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.InitiateEmailChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.emailChange.Initiate(r.Context(), userID, req.NewEmail); err != nil {
		writeServiceError(w, err, errors.Internal("Failed to initiate email change", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Verification code sent to the new address", nil)
}

// VerifyEmailChange completes the email change flow
// @Summary Verify email change
// @Description Move the account to the new address using the emailed code
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.VerifyEmailChangeRequest true "Verification code"
// @Success 200 {object} dto.UserDTO "Updated profile"
// @Failure 400 {object} utils.ErrorResponse "Invalid or expired code"
// @Security BearerAuth
// @Router /users/me/email/verify [post]
func (h *UserHandler) VerifyEmailChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.VerifyEmailChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, err := h.emailChange.Verify(r.Context(), userID, req.OTP)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to verify email change", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Email changed successfully", dto.NewUserDTO(u))
}

// DeleteAccount removes the current account
// @Summary Delete account
// @Description Permanently delete the authenticated user's account
// @Tags Users
// @Produce json
// @Success 200 {object} utils.SuccessResponse "Account deleted"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /users/me [delete]
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		writeServiceError(w, err, errors.Internal("Failed to delete account", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Account deleted", nil)
}
