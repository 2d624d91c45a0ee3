package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plume/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCodec struct {
	validToken string
	userID     uuid.UUID
}

func (c *stubCodec) Issue(_ uuid.UUID, _ string, _ service.TokenType) (string, error) {
	return c.validToken, nil
}

func (c *stubCodec) Verify(tokenString string, expectedType service.TokenType) (*service.Claims, error) {
	if tokenString != c.validToken || expectedType != service.TokenTypeAccess {
		return nil, service.ErrTokenSignature
	}

	return &service.Claims{UserID: c.userID, Type: service.TokenTypeAccess}, nil
}

func (c *stubCodec) Expiry(_ string) (time.Time, error) {
	return time.Now().Add(time.Minute), nil
}

func (c *stubCodec) TTL(_ service.TokenType) time.Duration {
	return time.Minute
}

type stubRevocations struct {
	revoked map[string]bool
}

func (s *stubRevocations) Revoke(_ context.Context, token string, _ time.Time) error {
	s.revoked[token] = true

	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, token string) bool {
	return s.revoked[token]
}

func (s *stubRevocations) SweepExpired(_ context.Context) int {
	return 0
}

func invokeAuthenticate(t *testing.T, m *AuthMiddleware, authHeader string) (*httptest.ResponseRecorder, bool, uuid.UUID) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	var seenUserID uuid.UUID
	next := func(c echo.Context) error {
		nextCalled = true
		seenUserID, _ = UserID(c)

		return c.NoContent(http.StatusOK)
	}

	err := m.Authenticate(next)(c)
	require.NoError(t, err)

	return rec, nextCalled, seenUserID
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	userID := uuid.New()
	codec := &stubCodec{validToken: "good-token", userID: userID}
	revocations := &stubRevocations{revoked: map[string]bool{}}
	m := NewAuthMiddleware(codec, revocations)

	t.Run("missing header", func(t *testing.T) {
		rec, nextCalled, _ := invokeAuthenticate(t, m, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		rec, nextCalled, _ := invokeAuthenticate(t, m, "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, nextCalled, _ := invokeAuthenticate(t, m, "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
		assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, revocations.Revoke(context.Background(), "revoked-token", time.Now().Add(time.Hour)))

		rec, nextCalled, _ := invokeAuthenticate(t, m, "Bearer revoked-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
		assert.Contains(t, rec.Body.String(), "TOKEN_BLACKLISTED")
	})

	t.Run("valid token", func(t *testing.T) {
		rec, nextCalled, seenUserID := invokeAuthenticate(t, m, "Bearer good-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, nextCalled)
		assert.Equal(t, userID, seenUserID)
	})

	t.Run("valid but logged out", func(t *testing.T) {
		require.NoError(t, revocations.Revoke(context.Background(), "good-token", time.Now().Add(time.Hour)))

		rec, nextCalled, _ := invokeAuthenticate(t, m, "Bearer good-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
		assert.Contains(t, rec.Body.String(), "TOKEN_BLACKLISTED")
	})
}
