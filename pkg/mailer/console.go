package mailer

import (
	"context"
	"net/mail"
	"sync"

	"go.uber.org/zap"
)

// Console writes messages to the log instead of sending them
type Console struct {
	from       mail.Address
	subjPrefix string
	logger     *zap.Logger

	mu   sync.Mutex
	sent []Message
}

var _ Notifier = (*Console)(nil)

// NewConsole creates a Console notifier
func NewConsole(from mail.Address, subjPrefix string, logger *zap.Logger) *Console {
	return &Console{from: from, subjPrefix: subjPrefix, logger: logger}
}

func (c *Console) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := msg.Render(); err != nil {
		return err
	}

	c.logger.Info("email (console)",
		zap.String("from", c.from.String()),
		zap.String("to", msg.To.String()),
		zap.String("subject", c.subjPrefix+msg.Subject),
		zap.String("body", msg.TextContent),
	)

	c.mu.Lock()
	c.sent = append(c.sent, *msg)
	c.mu.Unlock()
	return nil
}

// Sent messages delivered so far
func (c *Console) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.sent))
	copy(out, c.sent)
	return out
}
