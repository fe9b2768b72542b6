// Package mail delivers transactional email over SMTP.
package mail

import (
	"context"
	"fmt"

	"jobbee-api/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers mail through the configured SMTP relay.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
