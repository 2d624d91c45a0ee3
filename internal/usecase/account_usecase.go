// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"plume/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ResetPasswordInput carries a stored reset token and the replacement password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// AuthOutput returns a token pair plus the subject's public profile.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshOutput returns the reissued access token. The refresh token is not
// rotated; it keeps its own absolute expiry.
type RefreshOutput struct {
	AccessToken string
}

// AccountUsecase defines the credential lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register creates the account and credential atomically, issues a
	// verification token, dispatches the verification email, and returns a
	// token pair for the still-unverified account.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login checks the password and issues a fresh token pair.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// RefreshToken verifies the refresh token, checks revocation, re-fetches
	// the subject, and reissues an access token only.
	RefreshToken(ctx context.Context, refreshToken string) (*RefreshOutput, error)

	// Logout revokes the presented token. Idempotent: revoking an
	// already-revoked, expired or garbage token is not an error.
	Logout(ctx context.Context, token string) error

	// ForgotPassword starts a password reset. The success response never
	// reveals whether the email exists.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a stored reset token and replaces the password.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error

	// VerifyEmail consumes a stored verification token and activates the account.
	VerifyEmail(ctx context.Context, token string) error

	// ResendVerification reissues the verification token for an unverified
	// account. The success response never reveals whether the email exists.
	ResendVerification(ctx context.Context, email string) error
}
