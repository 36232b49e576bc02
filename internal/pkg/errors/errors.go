package errors

import (
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeDatabase             = "DATABASE_ERROR"
	ErrCodeInvalidOTP           = "INVALID_OTP"
	ErrCodeOTPExpired           = "OTP_EXPIRED"
	ErrCodeTokenRevoked         = "TOKEN_REVOKED"
	ErrCodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	ErrCodePlanLimit            = "PLAN_LIMIT"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeEmailDelivery        = "EMAIL_DELIVERY_ERROR"
	ErrCodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// InvalidOTP creates an error for a mismatched verification code
func InvalidOTP() *AppError {
	return New(ErrCodeInvalidOTP, "Invalid verification code", http.StatusBadRequest)
}

// OTPExpired creates an error for a missing or expired verification code
func OTPExpired() *AppError {
	return New(ErrCodeOTPExpired, "Verification code has expired, request a new one", http.StatusBadRequest)
}

// TokenRevoked creates an error for a denylisted session token
func TokenRevoked() *AppError {
	return New(ErrCodeTokenRevoked, "Session has been revoked", http.StatusUnauthorized)
}

// SubscriptionRequired creates an error for requests without a valid subscription.
// Carries the requiresSubscription flag clients key off to route to the plans page.
func SubscriptionRequired() *AppError {
	return New(ErrCodeSubscriptionRequired, "An active subscription is required", http.StatusForbidden).
		WithDetails(map[string]interface{}{"requiresSubscription": true})
}

// PlanLimitReached creates an error for requests over a plan ceiling
func PlanLimitReached(feature string, limit int64) *AppError {
	return New(ErrCodePlanLimit, fmt.Sprintf("Plan limit reached for %s", feature), http.StatusForbidden).
		WithDetails(map[string]interface{}{"requiresUpgrade": true, "feature": feature, "limit": limit})
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// EmailDelivery creates an error for a failed outbound email
func EmailDelivery(err error) *AppError {
	return Wrap(err, ErrCodeEmailDelivery, "Failed to send email", http.StatusInternalServerError)
}

// ServiceUnavailable creates a service unavailable error
func ServiceUnavailable(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
}
