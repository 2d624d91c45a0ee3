// Package mail provides MailDispatcher implementations.
package mail

import (
	"context"
	"log/slog"

	"plume/internal/domain/service"
)

// logDispatcher writes outgoing mail to the structured log instead of
// delivering it. Development default: the deep links show up in the log
// output where they can be followed by hand.
type logDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that logs mail instead of sending it.
func NewLogDispatcher(logger *slog.Logger) service.MailDispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) SendVerificationEmail(_ context.Context, recipient, displayName, verifyURL string) error {
	d.logger.Info("[LogMail] verification email",
		slog.String("recipient", recipient),
		slog.String("display_name", displayName),
		slog.String("verify_url", verifyURL),
	)

	return nil
}

func (d *logDispatcher) SendPasswordResetEmail(_ context.Context, recipient, displayName, resetURL string) error {
	d.logger.Info("[LogMail] password reset email",
		slog.String("recipient", recipient),
		slog.String("display_name", displayName),
		slog.String("reset_url", resetURL),
	)

	return nil
}

func (d *logDispatcher) SendWelcomeEmail(_ context.Context, recipient, displayName string) error {
	d.logger.Info("[LogMail] welcome email",
		slog.String("recipient", recipient),
		slog.String("display_name", displayName),
	)

	return nil
}

func (d *logDispatcher) SendPasswordChangedEmail(_ context.Context, recipient, displayName string) error {
	d.logger.Info("[LogMail] password changed email",
		slog.String("recipient", recipient),
		slog.String("display_name", displayName),
	)

	return nil
}
