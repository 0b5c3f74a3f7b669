package providers

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/lunaria-app/lunaria/internal/config"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// SMTPMailer sends over plain SMTP. With no host configured it logs the
// message instead, which keeps local development working without a relay.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *logger.Logger
}

// NewSMTPMailer creates a new mailer
func NewSMTPMailer(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: log}
}

// SendPasswordReset emails a reset link to the given address
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	if m.cfg.Host == "" {
		m.logger.WithFields(map[string]interface{}{
			"to":        to,
			"reset_url": resetURL,
		}).Info("SMTP not configured, logging password reset instead of sending")
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Reset your Lunaria password")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"We received a request to reset your Lunaria password.\n\n"+
			"Follow this link within the next hour to choose a new one:\n\n  %s\n\n"+
			"If you did not ask for this, you can ignore this email.\n", resetURL))

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}
