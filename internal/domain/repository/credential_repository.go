package repository

import (
	"context"
	"errors"
	"time"

	"plume/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCredentialNotFound is returned when no credential record matches the lookup.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository defines persistence for account credential records:
// password hashes and the stored one-time verification/reset tokens.
// The one-time tokens are looked up by exact stored value; clearing the
// stored value is what consumes a token.
type CredentialRepository interface {
	// Create persists a new credential record.
	Create(ctx context.Context, cred *entity.Credential) error

	// FindByUserID retrieves the credential record belonging to a user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error)

	// FindByVerificationToken retrieves a credential by its stored
	// email-verification token value.
	FindByVerificationToken(ctx context.Context, token string) (*entity.Credential, error)

	// FindByResetToken retrieves a credential by its stored password-reset
	// token value.
	FindByResetToken(ctx context.Context, token string) (*entity.Credential, error)

	// Update persists changes to a credential record. Nil token/expiry fields
	// are written through, so consuming a token clears it in storage.
	Update(ctx context.Context, cred *entity.Credential) error

	// ClearExpiredTokens nulls out verification/reset token fields whose
	// expiry has passed the supplied instant, returning how many records
	// were touched. Used by the periodic maintenance sweep.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
