package mailer

import (
	"context"
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"

	"github.com/studyshare-platform/material-service/internal/config"
)

// Mailer delivers a one-time code to an address. Delivery is at-most-once
// from the caller's perspective: a failure is reported but the issued code
// stays valid, so the user can request a resend.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// SMTPMailer sends the code over SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) SendOTP(_ context.Context, email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your StudyShare verification code")
	msg.SetBody("text/plain", fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}
	return nil
}

// LogMailer logs the code instead of delivering it. Used in development
// when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendOTP(_ context.Context, email, code string) error {
	m.logger.Info("OTP issued (mail delivery disabled)", "email", email, "code", code)
	return nil
}
