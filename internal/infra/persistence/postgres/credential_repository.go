package postgres

import (
	"context"
	"time"

	"plume/internal/domain/entity"
	domainerrors "plume/internal/domain/errors"
	"plume/internal/domain/repository"
	"plume/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// credentialRepository implements the domain.CredentialRepository interface using GORM.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// Create persists a new credential record.
func (repo *credentialRepository) Create(ctx context.Context, cred *entity.Credential) error {
	credM := fromCredentialDomain(cred)

	if err := repo.db.WithContext(ctx).Create(credM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("credential record already exists for user")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "credential references missing user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create credential")
	}

	cred.ID = credM.ID
	cred.CreatedAt = credM.CreatedAt
	cred.UpdatedAt = credM.UpdatedAt

	return nil
}

// FindByUserID retrieves the credential record belonging to a user.
func (repo *credentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	var credM model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&credM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by user id")
	}

	return toCredentialDomain(&credM), nil
}

// FindByVerificationToken retrieves a credential by its stored verification token value.
func (repo *credentialRepository) FindByVerificationToken(ctx context.Context, token string) (*entity.Credential, error) {
	var credM model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&credM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by verification token")
	}

	return toCredentialDomain(&credM), nil
}

// FindByResetToken retrieves a credential by its stored reset token value.
func (repo *credentialRepository) FindByResetToken(ctx context.Context, token string) (*entity.Credential, error) {
	var credM model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("reset_token = ?", token).
		First(&credM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by reset token")
	}

	return toCredentialDomain(&credM), nil
}

// Update persists changes to a credential record. Save writes nil token and
// expiry fields through as NULL, which is how consumed tokens are cleared.
func (repo *credentialRepository) Update(ctx context.Context, cred *entity.Credential) error {
	credM := fromCredentialDomain(cred)
	credM.CreatedAt = cred.CreatedAt

	if err := repo.db.WithContext(ctx).Save(credM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("credential token collision")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update credential")
	}

	cred.UpdatedAt = credM.UpdatedAt

	return nil
}

// ClearExpiredTokens nulls out token fields whose expiry has passed.
func (repo *credentialRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	var total int64

	res := repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("verification_token IS NOT NULL AND verification_expires_at < ?", now).
		Updates(map[string]any{
			"verification_token":      nil,
			"verification_expires_at": nil,
		})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "failed to clear expired verification tokens")
	}
	total += res.RowsAffected

	res = repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("reset_token IS NOT NULL AND reset_expires_at < ?", now).
		Updates(map[string]any{
			"reset_token":      nil,
			"reset_expires_at": nil,
		})
	if res.Error != nil {
		return total, errors.Wrap(res.Error, "failed to clear expired reset tokens")
	}
	total += res.RowsAffected

	return total, nil
}

// --- Mapper Functions ---

// toCredentialDomain converts a GORM CredentialModel to a domain Credential entity.
func toCredentialDomain(data *model.CredentialModel) *entity.Credential {
	if data == nil {
		return nil
	}

	return &entity.Credential{
		ID:                    data.ID,
		UserID:                data.UserID,
		PasswordHash:          data.PasswordHash,
		VerificationToken:     data.VerificationToken,
		VerificationExpiresAt: data.VerificationExpiresAt,
		ResetToken:            data.ResetToken,
		ResetExpiresAt:        data.ResetExpiresAt,
		CreatedAt:             data.CreatedAt,
		UpdatedAt:             data.UpdatedAt,
	}
}

// fromCredentialDomain converts a domain Credential entity to a GORM CredentialModel.
func fromCredentialDomain(data *entity.Credential) *model.CredentialModel {
	if data == nil {
		return nil
	}

	return &model.CredentialModel{
		ID:                    data.ID,
		UserID:                data.UserID,
		PasswordHash:          data.PasswordHash,
		VerificationToken:     data.VerificationToken,
		VerificationExpiresAt: data.VerificationExpiresAt,
		ResetToken:            data.ResetToken,
		ResetExpiresAt:        data.ResetExpiresAt,
	}
}
