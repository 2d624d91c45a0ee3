package service

import "context"

// MailDispatcher sends transactional account emails. Dispatch failures are
// logged by callers and never propagate as fatal: the account state changes
// that triggered the email are already committed.
type MailDispatcher interface {
	// SendVerificationEmail delivers the address-verification deep link.
	SendVerificationEmail(ctx context.Context, recipient, displayName, verifyURL string) error

	// SendPasswordResetEmail delivers the password-reset deep link.
	SendPasswordResetEmail(ctx context.Context, recipient, displayName, resetURL string) error

	// SendWelcomeEmail is sent once the email address has been verified.
	SendWelcomeEmail(ctx context.Context, recipient, displayName string) error

	// SendPasswordChangedEmail confirms a completed password reset.
	SendPasswordChangedEmail(ctx context.Context, recipient, displayName string) error
}
