package client

import "context"

// SignupRequest represents a signup request
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// Session is the current-session view
type Session struct {
	User         *User         `json:"user"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// Signup registers a new account. The server emails a verification code;
// call VerifyOTP to complete signup.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	var user User
	if err := c.doRequest(ctx, "POST", "/api/auth/signup", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyOTP verifies the signup email with the 6-digit code
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*User, error) {
	req := map[string]string{"email": email, "otp": code}

	var user User
	if err := c.doRequest(ctx, "POST", "/api/auth/verify-otp", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResendOTP requests a fresh verification code
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	req := map[string]string{"email": email}
	return c.doRequest(ctx, "POST", "/api/auth/resend-otp", req, nil)
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := map[string]string{"email": email, "password": password}

	var resp AuthResponse
	if err := c.doRequest(ctx, "POST", "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}

	// Automatically use the session for future requests
	if resp.Token != "" {
		c.SetToken(resp.Token)
	}

	return &resp, nil
}

// Logout revokes the current session
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, "POST", "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// Me retrieves the current user and subscription
func (c *Client) Me(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.doRequest(ctx, "GET", "/api/auth/me", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ForgotPassword emails a password reset code
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	req := map[string]string{"email": email}
	return c.doRequest(ctx, "POST", "/api/auth/forgot-password", req, nil)
}

// VerifyResetOTP exchanges the reset code for a short-lived reset token
func (c *Client) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	req := map[string]string{"email": email, "otp": code}

	var resp struct {
		ResetToken string `json:"resetToken"`
	}
	if err := c.doRequest(ctx, "POST", "/api/auth/verify-reset-otp", req, &resp); err != nil {
		return "", err
	}
	return resp.ResetToken, nil
}

// ResetPassword sets a new password using a reset token
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	req := map[string]string{"resetToken": resetToken, "newPassword": newPassword}
	return c.doRequest(ctx, "POST", "/api/auth/reset-password", req, nil)
}
