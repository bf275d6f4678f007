package email

import (
	"context"

	"github.com/rs/zerolog"
)

// EmailSender provides a testable abstraction over SES delivery.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogSender writes mail to the log instead of delivering it. It is used
// when no SES sender is configured.
type LogSender struct {
	Logger zerolog.Logger
}

func (s LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	s.Logger.Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Str("body", body).
		Msg("Email not delivered: no sender configured")
	return nil
}
