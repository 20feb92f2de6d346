package mail

import (
	"context"
	"log/slog"
)

// Mailer delivers outbound email to the external provider.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogMailer is a stub implementation that writes mail to the logger.
// Useful in development where no SMTP relay exists.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a logging mailer stub.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send writes the message to the structured logger.
func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("outbound mail", "to", to, "subject", subject, "body", htmlBody)
	return nil
}
