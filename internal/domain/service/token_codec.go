// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType declares what a token may be used for. Each type is signed with
// its own secret and carries its own expiry policy, so a token issued under
// one type can never verify under another.
type TokenType string

const (
	// TokenTypeAccess is the short-lived credential authorizing API requests.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is the long-lived credential used solely to mint new access tokens.
	TokenTypeRefresh TokenType = "refresh"
	// TokenTypeEmailVerification proves ownership of a registered email address.
	TokenTypeEmailVerification TokenType = "email_verification"
	// TokenTypePasswordReset authorizes a password reset.
	TokenTypePasswordReset TokenType = "password_reset"
)

// Verification failure modes. Callers need to tell these apart (an expired
// token is handled differently from outright garbage) even though all of
// them surface to end users as a generic invalid-token response.
var (
	// ErrTokenMalformed means the string is not a decodable token at all.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenSignature means the signature does not verify under the
	// expected type's secret.
	ErrTokenSignature = errors.New("token signature is invalid")
	// ErrTokenExpired means the token verified but its expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenTypeMismatch means the token was issued under a different type
	// than the caller expected.
	ErrTokenTypeMismatch = errors.New("token type mismatch")
)

// Claims is the payload carried by every issued token.
type Claims struct {
	UserID uuid.UUID `json:"-"`
	Email  string    `json:"email"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec produces and verifies signed, expiring tokens carrying a subject
// identity and a declared type.
type TokenCodec interface {
	// Issue creates a signed token of the given type for the subject. Calls
	// with identical inputs produce different tokens (issued-at differs).
	Issue(userID uuid.UUID, email string, tokenType TokenType) (string, error)

	// Verify decodes the token, checks its signature under the secret for
	// expectedType, checks expiry against a single clock reading, and checks
	// the embedded type. Failures are one of ErrTokenMalformed,
	// ErrTokenSignature, ErrTokenExpired or ErrTokenTypeMismatch.
	Verify(tokenString string, expectedType TokenType) (*Claims, error)

	// Expiry extracts the expiry of a token without requiring it to still be
	// valid: the signature must check out under some type's secret, but an
	// expired token still yields its recorded expiry. Used by revocation,
	// which must tolerate revoking already-expired tokens.
	Expiry(tokenString string) (time.Time, error)

	// TTL returns the configured time-to-live for a token type.
	TTL(tokenType TokenType) time.Duration
}
