package user

import "time"

// User represents an account in the system
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	PasswordHash   string     `json:"-"` // Not exposed in JSON
	EmailVerified  bool       `json:"email_verified"`
	OTPCode        *string    `json:"-"`
	OTPExpiresAt   *time.Time `json:"-"`
	SubscriptionID *int64     `json:"subscription_id,omitempty"`

	// Plan usage counters read by the entitlement gate
	ProjectsCreated int        `json:"projects_created"`
	TotalRequests   int        `json:"total_requests"`
	LastRequestAt   *time.Time `json:"last_request_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasOTPChallenge reports whether a verification challenge is pending.
func (u *User) HasOTPChallenge() bool {
	return u.OTPCode != nil && u.OTPExpiresAt != nil
}

// ClearOTPChallenge drops the pending challenge. Codes are single-use.
func (u *User) ClearOTPChallenge() {
	u.OTPCode = nil
	u.OTPExpiresAt = nil
}

// SetOTPChallenge replaces any pending challenge with a new code.
func (u *User) SetOTPChallenge(code string, expiresAt time.Time) {
	u.OTPCode = &code
	u.OTPExpiresAt = &expiresAt
}
