package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/pkg/logger"
)

// Mailer sends transactional email.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
	SendPasswordResetOTP(ctx context.Context, to, code string) error
	SendEmailChangeOTP(ctx context.Context, to, code string) error
}

// SMTPMailer implements Mailer over plain SMTP. When no host is configured
// in development the mail is logged instead of sent, so the auth flows stay
// testable without an SMTP account.
type SMTPMailer struct {
	cfg         config.SMTPConfig
	environment string
	logger      *logger.Logger
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg config.SMTPConfig, environment string, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, environment: environment, logger: log}
}

// SendOTP sends the signup verification code
func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	return m.send(to, "Verify your email", body)
}

// SendPasswordResetOTP sends the password reset code
func (m *SMTPMailer) SendPasswordResetOTP(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes. If you did not request a reset, ignore this email.", code)
	return m.send(to, "Reset your password", body)
}

// SendEmailChangeOTP sends the email change confirmation code to the new address
func (m *SMTPMailer) SendEmailChangeOTP(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your email change confirmation code is %s. It expires in 10 minutes.", code)
	return m.send(to, "Confirm your new email address", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.cfg.Host == "" {
		if m.environment != "development" {
			return fmt.Errorf("smtp host not configured")
		}
		m.logger.WithFields(map[string]interface{}{
			"to":      to,
			"subject": subject,
			"body":    body,
		}).Warn("SMTP not configured, pseudo-sending email")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.Sender)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	if err := smtp.SendMail(addr, auth, m.cfg.Sender, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.WithFields(map[string]interface{}{"to": to, "subject": subject}).Info("Email sent")
	return nil
}
