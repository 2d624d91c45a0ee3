package postgres

import (
	"context"

	"plume/internal/domain/entity"
	domainerrors "plume/internal/domain/errors"
	"plume/internal/domain/repository"
	"plume/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// commentRepository implements the domain.CommentRepository interface using GORM.
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository is the constructor for commentRepository.
func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

// Create persists a new comment.
func (repo *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentM := fromCommentDomain(comment)

	if err := repo.db.WithContext(ctx).Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrPostNotFound.WrapMessage("comment references missing post or parent")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required comment fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create comment")
	}

	comment.ID = commentM.ID
	comment.CreatedAt = commentM.CreatedAt
	comment.UpdatedAt = commentM.UpdatedAt

	return nil
}

// FindByID retrieves a single comment by its unique ID.
func (repo *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var commentM model.CommentModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&commentM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCommentNotFound
		}

		return nil, errors.Wrap(err, "failed to find comment by id")
	}

	return toCommentDomain(&commentM), nil
}

// ListByPost retrieves a post's comments grouped by thread. Ordering by the
// thread root (falling back to the comment's own id for top-level rows),
// then depth, then creation time yields a stable threaded listing.
func (repo *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	var commentMs []model.CommentModel
	err := repo.db.WithContext(ctx).
		Where("post_id = ? AND deleted_at IS NULL", postID).
		Order("COALESCE(root_id, id), depth, created_at").
		Limit(limit).
		Offset(offset).
		Find(&commentMs).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list comments by post")
	}

	comments := make([]*entity.Comment, 0, len(commentMs))
	for i := range commentMs {
		comments = append(comments, toCommentDomain(&commentMs[i]))
	}

	return comments, nil
}

// Delete soft-deletes a comment by setting its deleted_at timestamp.
func (repo *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Model(&model.CommentModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", gorm.Expr("NOW()"))

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete comment")
	}
	if res.RowsAffected == 0 {
		return repository.ErrCommentNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toCommentDomain converts a GORM CommentModel to a domain Comment entity.
func toCommentDomain(data *model.CommentModel) *entity.Comment {
	if data == nil {
		return nil
	}

	return &entity.Comment{
		ID:        data.ID,
		PostID:    data.PostID,
		AuthorID:  data.AuthorID,
		ParentID:  data.ParentID,
		RootID:    data.RootID,
		Depth:     data.Depth,
		Body:      data.Body,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromCommentDomain converts a domain Comment entity to a GORM CommentModel.
func fromCommentDomain(data *entity.Comment) *model.CommentModel {
	if data == nil {
		return nil
	}

	return &model.CommentModel{
		ID:       data.ID,
		PostID:   data.PostID,
		AuthorID: data.AuthorID,
		ParentID: data.ParentID,
		RootID:   data.RootID,
		Depth:    data.Depth,
		Body:     data.Body,
	}
}
