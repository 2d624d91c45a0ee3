// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"plume/config"
	deliverycontext "plume/internal/delivery/context"
	"plume/internal/domain/entity"
	domainerrors "plume/internal/domain/errors"
	"plume/internal/domain/repository"
	"plume/internal/domain/service"
	"plume/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const usernameAttempts = 3

// accountService implements the AccountUsecase interface: the credential
// lifecycle from registration through verification, sessions and reset.
type accountService struct {
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	hasher      service.PasswordHasher
	codec       service.TokenCodec
	revocations service.RevocationStore
	mailer      service.MailDispatcher
	baseURL     string
	logger      *slog.Logger
	now         func() time.Time
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	Hasher      service.PasswordHasher
	Codec       service.TokenCodec
	Revocations service.RevocationStore
	Mailer      service.MailDispatcher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	baseURL := ""
	if params.Config != nil && params.Config.Mail != nil {
		baseURL = params.Config.Mail.BaseURL
	}

	return &accountService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		hasher:      params.Hasher,
		codec:       params.Codec,
		revocations: params.Revocations,
		mailer:      params.Mailer,
		baseURL:     baseURL,
		logger:      params.Logger,
		now:         time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete registration process: the user and
// credential rows are created atomically, the verification token is stored
// on the credential, and a token pair is issued for the still-unverified
// account. Email dispatch failure never rolls anything back.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// bcrypt is CPU-bound; hash before entering the transaction.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var registeredUser *entity.User
	var verificationToken string

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		credentialRepo := repoFactory.CredentialRepo()

		if _, findErr := userRepo.FindByEmail(ctx, input.Email); findErr == nil {
			return errors.Wrap(domainerrors.ErrUserExists, "registration failed")
		} else if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check existing email")
		}

		newUser, usernameErr := srv.buildNewUser(ctx, userRepo, input)
		if usernameErr != nil {
			return usernameErr
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		token, issueErr := srv.codec.Issue(newUser.ID, newUser.Email, service.TokenTypeEmailVerification)
		if issueErr != nil {
			return errors.Wrap(issueErr, "failed to issue verification token")
		}
		expiresAt := srv.now().Add(srv.codec.TTL(service.TokenTypeEmailVerification))

		newCredential := &entity.Credential{
			UserID:                newUser.ID,
			PasswordHash:          hashedPassword,
			VerificationToken:     &token,
			VerificationExpiresAt: &expiresAt,
		}
		if createErr := credentialRepo.Create(ctx, newCredential); createErr != nil {
			return errors.Wrap(createErr, "failed to create credential during registration")
		}

		registeredUser = newUser
		verificationToken = token

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.dispatchMail(ctx, "verification", func(mailCtx context.Context) error {
		return srv.mailer.SendVerificationEmail(mailCtx, registeredUser.Email, registeredUser.DisplayName,
			srv.deepLink("verify-email", verificationToken))
	})

	accessToken, refreshToken, err := srv.issueTokenPair(registeredUser)
	if err != nil {
		srv.log(ctx).Error("Failed to issue tokens after registration", slog.Any("userID", registeredUser.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue tokens after registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         registeredUser,
	}, nil
}

// buildNewUser assembles the user entity, retrying username generation when
// the random disambiguator collides with an existing handle.
func (srv *accountService) buildNewUser(ctx context.Context, userRepo repository.UserRepository, input *usecase.RegisterInput) (*entity.User, error) {
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		username := generateUsername(input.DisplayName)

		_, err := userRepo.FindByUsername(ctx, username)
		if errors.Is(err, repository.ErrUserNotFound) {
			return &entity.User{
				Email:       input.Email,
				Username:    username,
				DisplayName: input.DisplayName,
			}, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to check username availability")
		}
	}

	return nil, errors.Wrap(domainerrors.ErrUsernameTaken, "could not generate a free username")
}

// Login checks the password and issues a fresh token pair. It never reveals
// whether the email or the password was the wrong half.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, credential, err := srv.loadAccountByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrCredentialNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	if user.IsBanned {
		srv.log(ctx).Warn("Login refused for banned account", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrUserBanned.WithDetails(user.BanReason), "login failed")
	}

	// Check password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	lastLogin := srv.now()
	user.LastLoginAt = &lastLogin
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update last login timestamp")
	}

	accessToken, refreshToken, err := srv.issueTokenPair(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue tokens during login")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshToken reissues an access token against a valid, unrevoked refresh
// token. The refresh token is not rotated; it keeps its own absolute expiry.
func (srv *accountService) RefreshToken(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := srv.codec.Verify(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		srv.log(ctx).Warn("Refresh token rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "refresh failed")
	}

	if srv.revocations.IsRevoked(ctx, refreshToken) {
		srv.log(ctx).Warn("Refresh attempted with revoked token", slog.Any("userID", claims.UserID))

		return nil, errors.Wrap(domainerrors.ErrTokenBlacklisted, "refresh failed")
	}

	// Re-fetch the subject: the account may have been banned or removed
	// since the refresh token was minted.
	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || user.IsBanned {
		srv.log(ctx).Warn("Refresh subject missing or banned", slog.Any("userID", claims.UserID))

		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "refresh failed")
	}

	accessToken, err := srv.codec.Issue(user.ID, user.Email, service.TokenTypeAccess)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token during refresh")
	}

	return &usecase.RefreshOutput{AccessToken: accessToken}, nil
}

// Logout revokes the presented token. The decode is deliberately lenient:
// an expired but signature-valid token is still entered into the registry,
// and outright garbage succeeds without an entry, because revoking a token
// that can never authorize anything is a harmless no-op.
func (srv *accountService) Logout(ctx context.Context, token string) error {
	expiresAt, err := srv.codec.Expiry(token)
	if err != nil {
		srv.log(ctx).Debug("Logout with undecodable token treated as no-op", slog.Any("error", err))

		return nil
	}

	if err := srv.revocations.Revoke(ctx, token, expiresAt); err != nil {
		return errors.Wrap(err, "failed to revoke token during logout")
	}

	return nil
}

// ForgotPassword starts a password reset. The caller-visible outcome is
// identical whether or not the email exists; that anti-enumeration contract
// is a hard invariant.
func (srv *accountService) ForgotPassword(ctx context.Context, email string) error {
	user, credential, err := srv.loadAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrCredentialNotFound) {
			srv.log(ctx).Debug("Password reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to load account for password reset")
	}
	if user.IsBanned {
		srv.log(ctx).Debug("Password reset requested for banned account", slog.Any("userID", user.ID))

		return nil
	}

	token, err := srv.codec.Issue(user.ID, user.Email, service.TokenTypePasswordReset)
	if err != nil {
		return errors.Wrap(err, "failed to issue reset token")
	}
	expiresAt := srv.now().Add(srv.codec.TTL(service.TokenTypePasswordReset))

	credential.ResetToken = &token
	credential.ResetExpiresAt = &expiresAt

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.CredentialRepo().Update(ctx, credential)
	})
	if err != nil {
		return errors.Wrap(err, "failed to store reset token")
	}

	srv.dispatchMail(ctx, "password reset", func(mailCtx context.Context) error {
		return srv.mailer.SendPasswordResetEmail(mailCtx, user.Email, user.DisplayName,
			srv.deepLink("reset-password", token))
	})

	return nil
}

// ResetPassword consumes a stored reset token. The token is looked up by
// exact stored value and its expiry is checked explicitly against the clock;
// clearing the stored value is what makes it single-use.
func (srv *accountService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	var owner *entity.User

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credentialRepo := repoFactory.CredentialRepo()

		credential, findErr := credentialRepo.FindByResetToken(ctx, input.Token)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrCredentialNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidToken, "reset token not recognized")
			}

			return errors.Wrap(findErr, "failed to look up reset token")
		}

		if credential.ResetExpired(srv.now()) {
			return errors.Wrap(domainerrors.ErrTokenExpired, "reset token expired")
		}

		credential.PasswordHash = hashedPassword
		credential.ResetToken = nil
		credential.ResetExpiresAt = nil

		if updateErr := credentialRepo.Update(ctx, credential); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update credential during password reset")
		}

		user, userErr := repoFactory.UserRepo().FindByID(ctx, credential.UserID)
		if userErr != nil {
			return errors.Wrap(userErr, "failed to load user during password reset")
		}
		owner = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Password reset failed", slog.Any("error", err))

		return err
	}

	srv.dispatchMail(ctx, "password changed", func(mailCtx context.Context) error {
		return srv.mailer.SendPasswordChangedEmail(mailCtx, owner.Email, owner.DisplayName)
	})

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", owner.ID))

	return nil
}

// VerifyEmail consumes a stored verification token: the verified flag is set
// and the token fields are cleared in one transaction, so a crash between the
// two can never leave a half-verified account.
func (srv *accountService) VerifyEmail(ctx context.Context, token string) error {
	var owner *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credentialRepo := repoFactory.CredentialRepo()
		userRepo := repoFactory.UserRepo()

		credential, findErr := credentialRepo.FindByVerificationToken(ctx, token)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrCredentialNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidToken, "verification token not recognized")
			}

			return errors.Wrap(findErr, "failed to look up verification token")
		}

		if credential.VerificationExpired(srv.now()) {
			return errors.Wrap(domainerrors.ErrTokenExpired, "verification token expired")
		}

		user, userErr := userRepo.FindByID(ctx, credential.UserID)
		if userErr != nil {
			return errors.Wrap(userErr, "failed to load user during verification")
		}
		if user.IsEmailVerified {
			return errors.Wrap(domainerrors.ErrAlreadyVerified, "email already verified")
		}

		user.IsEmailVerified = true
		if updateErr := userRepo.Update(ctx, user); updateErr != nil {
			return errors.Wrap(updateErr, "failed to mark email verified")
		}

		credential.VerificationToken = nil
		credential.VerificationExpiresAt = nil
		if updateErr := credentialRepo.Update(ctx, credential); updateErr != nil {
			return errors.Wrap(updateErr, "failed to clear verification token")
		}

		owner = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Email verification failed", slog.Any("error", err))

		return err
	}

	srv.dispatchMail(ctx, "welcome", func(mailCtx context.Context) error {
		return srv.mailer.SendWelcomeEmail(mailCtx, owner.Email, owner.DisplayName)
	})

	srv.log(ctx).Info("Email verified", slog.Any("userID", owner.ID))

	return nil
}

// ResendVerification reissues the verification token for an unverified
// account, overwriting any prior token. Since lookup is by exact stored
// value, the previous token stops working the moment the new one lands.
func (srv *accountService) ResendVerification(ctx context.Context, email string) error {
	user, credential, err := srv.loadAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrCredentialNotFound) {
			srv.log(ctx).Debug("Verification resend requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to load account for verification resend")
	}

	if user.IsEmailVerified {
		return errors.Wrap(domainerrors.ErrAlreadyVerified, "verification resend refused")
	}

	token, err := srv.codec.Issue(user.ID, user.Email, service.TokenTypeEmailVerification)
	if err != nil {
		return errors.Wrap(err, "failed to issue verification token")
	}
	expiresAt := srv.now().Add(srv.codec.TTL(service.TokenTypeEmailVerification))

	credential.VerificationToken = &token
	credential.VerificationExpiresAt = &expiresAt

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.CredentialRepo().Update(ctx, credential)
	})
	if err != nil {
		return errors.Wrap(err, "failed to store verification token")
	}

	srv.dispatchMail(ctx, "verification", func(mailCtx context.Context) error {
		return srv.mailer.SendVerificationEmail(mailCtx, user.Email, user.DisplayName,
			srv.deepLink("verify-email", token))
	})

	return nil
}

// loadAccountByEmail fetches a user and their credential record in one short
// transaction so both reads hit the primary.
func (srv *accountService) loadAccountByEmail(ctx context.Context, email string) (*entity.User, *entity.Credential, error) {
	var user *entity.User
	var credential *entity.Credential

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		foundUser, findErr := repoFactory.UserRepo().FindByEmail(ctx, email)
		if findErr != nil {
			return findErr
		}

		foundCredential, findErr := repoFactory.CredentialRepo().FindByUserID(ctx, foundUser.ID)
		if findErr != nil {
			return findErr
		}

		user = foundUser
		credential = foundCredential

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return user, credential, nil
}

func (srv *accountService) issueTokenPair(user *entity.User) (string, string, error) {
	accessToken, err := srv.codec.Issue(user.ID, user.Email, service.TokenTypeAccess)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := srv.codec.Issue(user.ID, user.Email, service.TokenTypeRefresh)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue refresh token")
	}

	return accessToken, refreshToken, nil
}

// dispatchMail runs a mail send and logs failures. Mail is never fatal: the
// state changes that triggered it are already committed.
func (srv *accountService) dispatchMail(ctx context.Context, kind string, send func(context.Context) error) {
	if err := send(ctx); err != nil {
		srv.log(ctx).Error("Failed to dispatch email",
			slog.String("kind", kind),
			slog.Any("error", err),
		)
	}
}

func (srv *accountService) deepLink(path, token string) string {
	return fmt.Sprintf("%s/%s?token=%s", srv.baseURL, path, url.QueryEscape(token))
}
