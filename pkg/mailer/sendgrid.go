package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Sendgrid delivers through the SendGrid v3 API
type Sendgrid struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
	logger     *zap.Logger
}

var _ Notifier = (*Sendgrid)(nil)

// NewSendgrid creates a SendGrid notifier
func NewSendgrid(key string, from mail.Address, subjPrefix string, logger *zap.Logger) *Sendgrid {
	client := sendgrid.NewSendClient(key)
	client.BaseURL = sendgridHost + sendgridEndpoint

	return &Sendgrid{
		client:     client,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: subjPrefix,
		logger:     logger,
	}
}

func (s *Sendgrid) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return m
}

func (s *Sendgrid) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := msg.Render(); err != nil {
		return err
	}

	// SendWithContext writes the request body into the client
	client := *s.client
	res, err := client.SendWithContext(ctx, s.prepare(msg))
	if err != nil {
		s.logger.Error("sendgrid request failed", zap.String("to", msg.To.Address), zap.Error(err))
		return fmt.Errorf("mailer: sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error("sendgrid rejected message",
			zap.String("to", msg.To.Address),
			zap.Int("status", res.StatusCode),
			zap.String("body", res.Body),
		)
		return fmt.Errorf("mailer: sendgrid status %d", res.StatusCode)
	}
	return nil
}
