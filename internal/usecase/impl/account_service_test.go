package impl

import (
	"context"
	"testing"
	"time"

	"plume/config"
	"plume/internal/domain/entity"
	domainerrors "plume/internal/domain/errors"
	"plume/internal/domain/service"
	"plume/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accountFixtures holds all test dependencies for account service tests.
type accountFixtures struct {
	service     usecase.AccountUsecase
	store       *fakeStore
	codec       *fakeCodec
	mailer      *fakeMailer
	revocations *fakeRevocations
}

func createTestAccountService(t *testing.T) accountFixtures {
	t.Helper()

	store := newFakeStore()
	codec := newFakeCodec(time.Now)
	mailer := &fakeMailer{}
	revocations := newFakeRevocations()

	cfg := &config.Config{
		Mail: &config.MailConfig{BaseURL: "https://plume.test"},
	}

	svc := NewAccountService(AccountServiceParams{
		TxManager:   &fakeTxManager{store: store},
		UserRepo:    &fakeUserRepo{store: store},
		Hasher:      fakeHasher{},
		Codec:       codec,
		Revocations: revocations,
		Mailer:      mailer,
		Config:      cfg,
		Logger:      newDiscardLogger(),
	})

	return accountFixtures{
		service:     svc,
		store:       store,
		codec:       codec,
		mailer:      mailer,
		revocations: revocations,
	}
}

func registerAccount(t *testing.T, fx accountFixtures, email, password, displayName string) *usecase.AuthOutput {
	t.Helper()

	output, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	require.NoError(t, err)
	require.NotNil(t, output)

	return output
}

// findCredential returns the stored credential record for an email.
func findCredential(t *testing.T, fx accountFixtures, email string) *entity.Credential {
	t.Helper()

	fx.store.mu.Lock()
	defer fx.store.mu.Unlock()

	for _, user := range fx.store.users {
		if user.Email != email {
			continue
		}
		for _, cred := range fx.store.credentials {
			if cred.UserID == user.ID {
				return cred
			}
		}
	}
	t.Fatalf("no credential stored for %s", email)

	return nil
}

func banUser(t *testing.T, fx accountFixtures, email, reason string) {
	t.Helper()

	fx.store.mu.Lock()
	defer fx.store.mu.Unlock()

	for _, user := range fx.store.users {
		if user.Email == email {
			user.IsBanned = true
			user.BanReason = reason

			return
		}
	}
	t.Fatalf("no user stored for %s", email)
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	output := registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	assert.Equal(t, "alice@example.com", output.User.Email)
	assert.Equal(t, entity.AccountPendingVerification, output.User.Status())
	assert.Regexp(t, "^alice[0-9a-f]{6}$", output.User.Username)

	// Token pair verifies under its own types.
	accessClaims, err := fx.codec.Verify(output.AccessToken, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, output.User.ID, accessClaims.UserID)
	_, err = fx.codec.Verify(output.RefreshToken, service.TokenTypeRefresh)
	require.NoError(t, err)

	// Credential row carries the stored verification token.
	cred := findCredential(t, fx, "alice@example.com")
	require.NotNil(t, cred.VerificationToken)
	require.NotNil(t, cred.VerificationExpiresAt)
	assert.Equal(t, "hashed:s3cret-pass", cred.PasswordHash)

	// The verification email carries the token in its deep link.
	require.Equal(t, []string{"verification"}, fx.mailer.sentKinds())
	assert.Contains(t, fx.mailer.sent[0].actionURL, "https://plume.test/verify-email?token=")
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAccountService(t)
	registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Email:       "alice@example.com",
		Password:    "another-pass",
		DisplayName: "Imposter",
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserExists)
}

func TestAccountService_Register_MailFailureNotFatal(t *testing.T) {
	fx := createTestAccountService(t)
	fx.mailer.err = errors.New("relay down")

	output := registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	// The account and credential exist despite the dispatch failure.
	assert.NotEmpty(t, output.AccessToken)
	findCredential(t, fx, "alice@example.com")
}

func TestAccountService_Login(t *testing.T) {
	fx := createTestAccountService(t)
	registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	output, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	require.NotNil(t, output.User.LastLoginAt)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	// Unknown account and wrong password are indistinguishable.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Login_Banned(t *testing.T) {
	fx := createTestAccountService(t)
	registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")
	banUser(t, fx, "alice@example.com", "spam")

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})

	require.ErrorIs(t, err, domainerrors.ErrUserBanned)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "spam", appErr.Details())
}

func TestAccountService_RefreshToken_Success(t *testing.T) {
	fx := createTestAccountService(t)
	output := registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	refreshed, err := fx.service.RefreshToken(context.Background(), output.RefreshToken)

	require.NoError(t, err)
	claims, err := fx.codec.Verify(refreshed.AccessToken, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, output.User.ID, claims.UserID)

	// Refreshing twice with the same still-valid token yields two
	// independent access tokens.
	again, err := fx.service.RefreshToken(context.Background(), output.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, refreshed.AccessToken, again.AccessToken)
}

func TestAccountService_RefreshToken_Failures(t *testing.T) {
	fx := createTestAccountService(t)
	output := registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	t.Run("garbage token", func(t *testing.T) {
		_, err := fx.service.RefreshToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("access token presented as refresh", func(t *testing.T) {
		_, err := fx.service.RefreshToken(context.Background(), output.AccessToken)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		fx := createTestAccountService(t)
		output := registerAccount(t, fx, "bob@example.com", "s3cret-pass", "Bob")
		fx.codec.expire(output.RefreshToken)

		_, err := fx.service.RefreshToken(context.Background(), output.RefreshToken)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("banned subject", func(t *testing.T) {
		fx := createTestAccountService(t)
		output := registerAccount(t, fx, "carol@example.com", "s3cret-pass", "Carol")
		banUser(t, fx, "carol@example.com", "spam")

		_, err := fx.service.RefreshToken(context.Background(), output.RefreshToken)
		assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	})
}

func TestAccountService_Logout_ThenRefreshBlacklisted(t *testing.T) {
	fx := createTestAccountService(t)
	output := registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	require.NoError(t, fx.service.Logout(context.Background(), output.RefreshToken))

	_, err := fx.service.RefreshToken(context.Background(), output.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenBlacklisted)
}

func TestAccountService_Logout_Idempotent(t *testing.T) {
	fx := createTestAccountService(t)
	output := registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	assert.NoError(t, fx.service.Logout(context.Background(), output.RefreshToken))
	assert.NoError(t, fx.service.Logout(context.Background(), output.RefreshToken))
}

func TestAccountService_Logout_LenientDecode(t *testing.T) {
	fx := createTestAccountService(t)
	output := registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	// Garbage revokes as success without touching the registry.
	assert.NoError(t, fx.service.Logout(context.Background(), "complete garbage"))
	assert.False(t, fx.revocations.IsRevoked(context.Background(), "complete garbage"))

	// An expired but known token is still entered into the registry.
	fx.codec.expire(output.AccessToken)
	assert.NoError(t, fx.service.Logout(context.Background(), output.AccessToken))
	assert.True(t, fx.revocations.IsRevoked(context.Background(), output.AccessToken))
}

func TestAccountService_ForgotPassword_AntiEnumeration(t *testing.T) {
	fx := createTestAccountService(t)
	registerAccount(t, fx, "real@example.com", "s3cret-pass", "Real")
	fx.mailer.sent = nil

	// Identical outcome for unknown and known addresses.
	assert.NoError(t, fx.service.ForgotPassword(context.Background(), "nonexistent@example.com"))
	assert.NoError(t, fx.service.ForgotPassword(context.Background(), "real@example.com"))

	// But only the real account got mail and a stored token.
	require.Equal(t, []string{"password_reset"}, fx.mailer.sentKinds())
	cred := findCredential(t, fx, "real@example.com")
	require.NotNil(t, cred.ResetToken)
	require.NotNil(t, cred.ResetExpiresAt)
}

func TestAccountService_ResetPassword_Success(t *testing.T) {
	fx := createTestAccountService(t)
	registerAccount(t, fx, "alice@example.com", "old-pass", "Alice")
	require.NoError(t, fx.service.ForgotPassword(context.Background(), "alice@example.com"))

	token := *findCredential(t, fx, "alice@example.com").ResetToken

	err := fx.service.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		Token:       token,
		NewPassword: "new-pass",
	})
	require.NoError(t, err)

	// Old password stops working, new one logs in.
	_, err = fx.service.Login(context.Background(), &usecase.LoginInput{Email: "alice@example.com", Password: "old-pass"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = fx.service.Login(context.Background(), &usecase.LoginInput{Email: "alice@example.com", Password: "new-pass"})
	assert.NoError(t, err)

	// Single use: the stored value is cleared, so a replay is unknown.
	err = fx.service.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		Token:       token,
		NewPassword: "sneaky-pass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	assert.Contains(t, fx.mailer.sentKinds(), "password_changed")
}

func TestAccountService_ResetPassword_UnknownVsExpired(t *testing.T) {
	fx := createTestAccountService(t)
	registerAccount(t, fx, "alice@example.com", "old-pass", "Alice")
	require.NoError(t, fx.service.ForgotPassword(context.Background(), "alice@example.com"))

	err := fx.service.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		Token:       "unknown-token",
		NewPassword: "new-pass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	// Backdate the stored expiry: lookup still finds the record, the
	// explicit expiry check rejects it.
	cred := findCredential(t, fx, "alice@example.com")
	expired := time.Now().Add(-time.Minute)
	fx.store.mu.Lock()
	cred.ResetExpiresAt = &expired
	fx.store.mu.Unlock()

	err = fx.service.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		Token:       *cred.ResetToken,
		NewPassword: "new-pass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestAccountService_VerifyEmail_Success(t *testing.T) {
	fx := createTestAccountService(t)
	output := registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	token := *findCredential(t, fx, "alice@example.com").VerificationToken

	require.NoError(t, fx.service.VerifyEmail(context.Background(), token))

	fx.store.mu.Lock()
	user := fx.store.users[output.User.ID]
	fx.store.mu.Unlock()
	assert.True(t, user.IsEmailVerified)
	assert.Equal(t, entity.AccountActive, user.Status())

	// Flag set and token cleared together.
	cred := findCredential(t, fx, "alice@example.com")
	assert.Nil(t, cred.VerificationToken)
	assert.Nil(t, cred.VerificationExpiresAt)

	assert.Contains(t, fx.mailer.sentKinds(), "welcome")

	// Replay fails: lookup is by stored value and the value is gone.
	assert.ErrorIs(t, fx.service.VerifyEmail(context.Background(), token), domainerrors.ErrInvalidToken)
}

func TestAccountService_VerifyEmail_Expired(t *testing.T) {
	fx := createTestAccountService(t)
	registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	cred := findCredential(t, fx, "alice@example.com")
	expired := time.Now().Add(-time.Minute)
	fx.store.mu.Lock()
	cred.VerificationExpiresAt = &expired
	fx.store.mu.Unlock()

	err := fx.service.VerifyEmail(context.Background(), *cred.VerificationToken)

	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestAccountService_ResendVerification(t *testing.T) {
	fx := createTestAccountService(t)
	registerAccount(t, fx, "alice@example.com", "s3cret-pass", "Alice")

	oldToken := *findCredential(t, fx, "alice@example.com").VerificationToken

	// Unknown email: generic success, no mail.
	fx.mailer.sent = nil
	assert.NoError(t, fx.service.ResendVerification(context.Background(), "ghost@example.com"))
	assert.Empty(t, fx.mailer.sentKinds())

	// Unverified account: fresh token overwrites the old one.
	require.NoError(t, fx.service.ResendVerification(context.Background(), "alice@example.com"))
	newToken := *findCredential(t, fx, "alice@example.com").VerificationToken
	assert.NotEqual(t, oldToken, newToken)
	assert.Equal(t, []string{"verification"}, fx.mailer.sentKinds())

	// The superseded token no longer verifies anything.
	assert.ErrorIs(t, fx.service.VerifyEmail(context.Background(), oldToken), domainerrors.ErrInvalidToken)

	// Already verified: explicit error.
	require.NoError(t, fx.service.VerifyEmail(context.Background(), newToken))
	err := fx.service.ResendVerification(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVerified)
}
