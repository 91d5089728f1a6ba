// Package mailer sends notification emails through SendGrid or, in
// development, to the structured log.
package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"sai-tutoria/config"
)

// Notifier delivers one message. Implementations are synchronous so callers can
// record the outcome; making delivery best-effort is the caller's decision.
type Notifier interface {
	Send(ctx context.Context, msg *Message) error
}

// New picks the implementation named by cfg.Provider
func New(cfg *config.MailConfig, logger *zap.Logger) (Notifier, error) {
	from := mail.Address{Name: cfg.FromName, Address: cfg.FromAddress}

	switch cfg.Provider {
	case "console", "":
		return NewConsole(from, cfg.SubjectPrefix, logger), nil
	case "sendgrid":
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("mailer: sendgrid api key missing")
		}
		return NewSendgrid(cfg.SendgridAPIKey, from, cfg.SubjectPrefix, logger), nil
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", cfg.Provider)
	}
}
