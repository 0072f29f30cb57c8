package account

import (
	"context"
	"log/slog"
)

// ResetSender delivers password reset tokens to account email addresses.
type ResetSender interface {
	SendReset(ctx context.Context, email, token string) error
}

// LogResetSender writes reset tokens to the log instead of sending mail.
// Suitable for development and for deployments without an SMTP relay.
type LogResetSender struct {
	Logger *slog.Logger
}

// SendReset implements ResetSender.
func (s *LogResetSender) SendReset(_ context.Context, email, token string) error {
	if s.Logger != nil {
		s.Logger.Info("password reset requested", "email", email, "token", token)
	}
	return nil
}
