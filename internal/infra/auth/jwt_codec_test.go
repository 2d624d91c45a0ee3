package auth

import (
	"testing"
	"time"

	"plume/config"
	"plume/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodecConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"
	cfg.SecretKey.EmailVerification = "verification-secret"
	cfg.SecretKey.PasswordReset = "reset-secret"
	cfg.Token = &config.TokenConfig{
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      7 * 24 * time.Hour,
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        time.Hour,
	}

	return cfg
}

func TestNewJWTCodec_RejectsMissingSecret(t *testing.T) {
	cfg := testCodecConfig()
	cfg.SecretKey.PasswordReset = ""

	_, err := NewJWTCodec(cfg)
	require.Error(t, err)
}

func TestNewJWTCodec_RejectsSharedSecrets(t *testing.T) {
	cfg := testCodecConfig()
	cfg.SecretKey.Refresh = cfg.SecretKey.Access

	_, err := NewJWTCodec(cfg)
	require.Error(t, err)
}

func TestJWTCodec_IssueAndVerify(t *testing.T) {
	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)

	userID := uuid.New()
	email := "alice@example.com"

	for _, tokenType := range []service.TokenType{
		service.TokenTypeAccess,
		service.TokenTypeRefresh,
		service.TokenTypeEmailVerification,
		service.TokenTypePasswordReset,
	} {
		t.Run(string(tokenType), func(t *testing.T) {
			token, err := codec.Issue(userID, email, tokenType)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := codec.Verify(token, tokenType)
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, email, claims.Email)
			assert.Equal(t, tokenType, claims.Type)
		})
	}
}

func TestJWTCodec_CrossTypeVerificationFailsClosed(t *testing.T) {
	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)

	types := []service.TokenType{
		service.TokenTypeAccess,
		service.TokenTypeRefresh,
		service.TokenTypeEmailVerification,
		service.TokenTypePasswordReset,
	}

	for _, issued := range types {
		token, err := codec.Issue(uuid.New(), "bob@example.com", issued)
		require.NoError(t, err)

		for _, expected := range types {
			if issued == expected {
				continue
			}

			_, err := codec.Verify(token, expected)
			assert.Error(t, err, "token of type %s must not verify as %s", issued, expected)
			// Secrets differ per type, so the mismatch surfaces as a
			// signature failure before the type claim is even compared.
			assert.ErrorIs(t, err, service.ErrTokenSignature)
		}
	}
}

func TestJWTCodec_VerifyDistinguishesFailureModes(t *testing.T) {
	cfg := testCodecConfig()
	codec, err := NewJWTCodec(cfg)
	require.NoError(t, err)
	jc := codec.(*jwtCodec)

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := codec.Verify("not-a-token", service.TokenTypeAccess)
		assert.ErrorIs(t, err, service.ErrTokenMalformed)
	})

	t.Run("expired token reports expiry", func(t *testing.T) {
		issuedAt := time.Now().Add(-time.Hour)
		jc.now = func() time.Time { return issuedAt }
		token, err := codec.Issue(uuid.New(), "carol@example.com", service.TokenTypeAccess)
		require.NoError(t, err)

		jc.now = time.Now
		_, err = codec.Verify(token, service.TokenTypeAccess)
		assert.ErrorIs(t, err, service.ErrTokenExpired)
	})

	t.Run("tampered token reports signature", func(t *testing.T) {
		jc.now = time.Now
		token, err := codec.Issue(uuid.New(), "dave@example.com", service.TokenTypeAccess)
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"
		_, err = codec.Verify(tampered, service.TokenTypeAccess)
		assert.ErrorIs(t, err, service.ErrTokenSignature)
	})
}

func TestJWTCodec_ExpiryToleratesExpiredTokens(t *testing.T) {
	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)
	jc := codec.(*jwtCodec)

	issuedAt := time.Now().Add(-48 * time.Hour)
	jc.now = func() time.Time { return issuedAt }
	token, err := codec.Issue(uuid.New(), "erin@example.com", service.TokenTypeAccess)
	require.NoError(t, err)
	jc.now = time.Now

	expiry, err := jc.Expiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, issuedAt.Add(15*time.Minute), expiry, time.Second)

	_, err = jc.Expiry("complete-garbage")
	assert.Error(t, err)
}

func TestJWTCodec_IssueIsNotIdempotent(t *testing.T) {
	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)
	jc := codec.(*jwtCodec)

	// Pin two distinct issue instants; identical inputs still differ because
	// issued-at differs.
	base := time.Now()
	jc.now = func() time.Time { return base }
	userID := uuid.New()

	first, err := codec.Issue(userID, "frank@example.com", service.TokenTypeAccess)
	require.NoError(t, err)

	jc.now = func() time.Time { return base.Add(time.Second) }
	second, err := codec.Issue(userID, "frank@example.com", service.TokenTypeAccess)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
