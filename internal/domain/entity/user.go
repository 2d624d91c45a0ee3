// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique account.
// Authentication material (password hash, one-time tokens) lives on the
// associated Credential, not here.
type User struct {
	ID              uuid.UUID  // The global unique identifier for the user.
	Email           string     // The user's login identifier and contact address.
	Username        string     // Normalized, lowercase, unique handle (generated at registration).
	DisplayName     string     // The name shown on posts and profiles.
	Bio             string     // Optional free-form profile text.
	IsEmailVerified bool       // Set once the verification token has been redeemed.
	IsBanned        bool       // A banned user can no longer log in or refresh sessions.
	BanReason       string     // Human-readable reason surfaced on banned login attempts.
	LastLoginAt     *time.Time // Timestamp of the most recent successful login, nil before the first.
	CreatedAt       time.Time  // Timestamp of when this account was created.
	UpdatedAt       time.Time  // Timestamp of the last modification to this account.
}

// Status reports where the account sits in its lifecycle.
func (u *User) Status() AccountStatus {
	switch {
	case u.IsBanned:
		return AccountBanned
	case u.IsEmailVerified:
		return AccountActive
	default:
		return AccountPendingVerification
	}
}

// AccountStatus enumerates the credential lifecycle states of an account.
type AccountStatus string

const (
	// AccountPendingVerification is the state between registration and email verification.
	AccountPendingVerification AccountStatus = "pending_verification"
	// AccountActive is the state after the email address has been verified.
	AccountActive AccountStatus = "active"
	// AccountBanned accounts are refused login and token refresh.
	AccountBanned AccountStatus = "banned"
)

// Credential holds the authentication material for one user: the password
// hash plus the optional one-time email-verification and password-reset
// tokens. The one-time token fields are looked up by exact stored value and
// nulled out once consumed, which is what makes them single-use.
type Credential struct {
	ID                    uuid.UUID  // The unique ID for this credential record.
	UserID                uuid.UUID  // Links the credential to the User it belongs to.
	PasswordHash          string     // bcrypt hash of the user's password.
	VerificationToken     *string    // Outstanding email-verification token, nil when none is pending.
	VerificationExpiresAt *time.Time // Expiry of the outstanding verification token.
	ResetToken            *string    // Outstanding password-reset token, nil when none is pending.
	ResetExpiresAt        *time.Time // Expiry of the outstanding reset token.
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasPendingVerification reports whether an unconsumed verification token exists.
func (c *Credential) HasPendingVerification() bool {
	return c.VerificationToken != nil
}

// VerificationExpired reports whether the stored verification token has passed
// its expiry at the supplied instant. Callers pass a single clock reading so
// the answer is consistent within one operation.
func (c *Credential) VerificationExpired(now time.Time) bool {
	return c.VerificationExpiresAt != nil && now.After(*c.VerificationExpiresAt)
}

// ResetExpired reports whether the stored reset token has passed its expiry.
func (c *Credential) ResetExpired(now time.Time) bool {
	return c.ResetExpiresAt != nil && now.After(*c.ResetExpiresAt)
}
