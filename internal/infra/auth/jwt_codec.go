// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"plume/config"
	"plume/internal/domain/service"
)

// jwtCodec implements the TokenCodec interface using HMAC-signed JWTs.
// Every token type carries its own secret and TTL so a token issued under one
// policy can never verify under another.
type jwtCodec struct {
	secrets map[service.TokenType][]byte
	ttls    map[service.TokenType]time.Duration
	now     func() time.Time
}

// NewJWTCodec is the constructor for jwtCodec. It refuses configurations with
// a missing secret or with the same secret reused across types, since shared
// secrets would allow cross-type replay.
func NewJWTCodec(cfg *config.Config) (service.TokenCodec, error) {
	secrets := map[service.TokenType][]byte{
		service.TokenTypeAccess:            []byte(cfg.SecretKey.Access),
		service.TokenTypeRefresh:           []byte(cfg.SecretKey.Refresh),
		service.TokenTypeEmailVerification: []byte(cfg.SecretKey.EmailVerification),
		service.TokenTypePasswordReset:     []byte(cfg.SecretKey.PasswordReset),
	}

	seen := make(map[string]service.TokenType, len(secrets))
	for tokenType, secret := range secrets {
		if len(secret) == 0 {
			return nil, errors.Errorf("jwt secret for %q must be provided", tokenType)
		}
		if other, dup := seen[string(secret)]; dup {
			return nil, errors.Errorf("jwt secrets for %q and %q must differ", tokenType, other)
		}
		seen[string(secret)] = tokenType
	}

	return &jwtCodec{
		secrets: secrets,
		ttls: map[service.TokenType]time.Duration{
			service.TokenTypeAccess:            cfg.Token.AccessTTL,
			service.TokenTypeRefresh:           cfg.Token.RefreshTTL,
			service.TokenTypeEmailVerification: cfg.Token.VerificationTTL,
			service.TokenTypePasswordReset:     cfg.Token.ResetTTL,
		},
		now: time.Now,
	}, nil
}

// Issue creates a signed token of the given type for the subject.
func (c *jwtCodec) Issue(userID uuid.UUID, email string, tokenType service.TokenType) (string, error) {
	secret, ok := c.secrets[tokenType]
	if !ok {
		return "", errors.Errorf("unknown token type %q", tokenType)
	}

	now := c.now()
	claims := &service.Claims{
		Email: email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttls[tokenType])),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify decodes and validates the token under the expected type's policy.
// The expiry comparison uses a single clock reading captured before parsing,
// so "not yet expired" and "now expired" cannot disagree within one call.
func (c *jwtCodec) Verify(tokenString string, expectedType service.TokenType) (*service.Claims, error) {
	secret, ok := c.secrets[expectedType]
	if !ok {
		return nil, errors.Errorf("unknown token type %q", expectedType)
	}

	now := c.now()
	claims := &service.Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, service.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, service.ErrTokenExpired
		default:
			// A signature failure here is usually a token of another type
			// presented under the wrong policy; both fail closed the same way.
			return nil, service.ErrTokenSignature
		}
	}
	if !token.Valid {
		return nil, service.ErrTokenSignature
	}

	if claims.Type != expectedType {
		return nil, service.ErrTokenTypeMismatch
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, service.ErrTokenMalformed
	}
	claims.UserID = userID

	return claims, nil
}

// Expiry extracts the recorded expiry of a token whose signature verifies
// under any type's secret, even when the token itself has already expired.
// Revocation uses this so expired tokens revoke as a safe no-op.
func (c *jwtCodec) Expiry(tokenString string) (time.Time, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	for _, secret := range c.secrets {
		claims := &service.Claims{}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
			return secret, nil
		}); err != nil {
			continue
		}
		if claims.ExpiresAt == nil {
			return time.Time{}, service.ErrTokenMalformed
		}

		return claims.ExpiresAt.Time, nil
	}

	return time.Time{}, service.ErrTokenSignature
}

// TTL returns the configured time-to-live for a token type.
func (c *jwtCodec) TTL(tokenType service.TokenType) time.Duration {
	return c.ttls[tokenType]
}
