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

// followRepository implements the domain.FollowRepository interface using GORM.
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository is the constructor for followRepository.
func NewFollowRepository(db *gorm.DB) repository.FollowRepository {
	return &followRepository{db: db}
}

// Create persists a new follow edge. The composite unique index turns a
// duplicate follow into a conflict error.
func (repo *followRepository) Create(ctx context.Context, follow *entity.Follow) error {
	followM := fromFollowDomain(follow)

	if err := repo.db.WithContext(ctx).Create(followM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAlreadyFollowing.WrapMessage("follow edge already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("follow references missing user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create follow")
	}

	follow.ID = followM.ID
	follow.CreatedAt = followM.CreatedAt

	return nil
}

// Find retrieves the follow edge between two users, if any.
func (repo *followRepository) Find(ctx context.Context, followerID, followeeID uuid.UUID) (*entity.Follow, error) {
	var followM model.FollowModel
	err := repo.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&followM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFollowNotFound
		}

		return nil, errors.Wrap(err, "failed to find follow")
	}

	return toFollowDomain(&followM), nil
}

// Delete removes the follow edge between two users.
func (repo *followRepository) Delete(ctx context.Context, followerID, followeeID uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.FollowModel{})

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete follow")
	}
	if res.RowsAffected == 0 {
		return repository.ErrFollowNotFound
	}

	return nil
}

// ListFollowers retrieves the follow edges pointing at a user, newest first.
func (repo *followRepository) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error) {
	var followMs []model.FollowModel
	err := repo.db.WithContext(ctx).
		Where("followee_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&followMs).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list followers")
	}

	return toFollowDomains(followMs), nil
}

// ListFollowing retrieves the follow edges originating from a user, newest first.
func (repo *followRepository) ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error) {
	var followMs []model.FollowModel
	err := repo.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&followMs).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list following")
	}

	return toFollowDomains(followMs), nil
}

// bookmarkRepository implements the domain.BookmarkRepository interface using GORM.
type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository is the constructor for bookmarkRepository.
func NewBookmarkRepository(db *gorm.DB) repository.BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Create persists a new bookmark.
func (repo *bookmarkRepository) Create(ctx context.Context, bookmark *entity.Bookmark) error {
	bookmarkM := fromBookmarkDomain(bookmark)

	if err := repo.db.WithContext(ctx).Create(bookmarkM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAlreadyBookmarked.WrapMessage("bookmark already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrPostNotFound.WrapMessage("bookmark references missing post")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create bookmark")
	}

	bookmark.ID = bookmarkM.ID
	bookmark.CreatedAt = bookmarkM.CreatedAt

	return nil
}

// Find retrieves a user's bookmark of a post, if any.
func (repo *bookmarkRepository) Find(ctx context.Context, userID, postID uuid.UUID) (*entity.Bookmark, error) {
	var bookmarkM model.BookmarkModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&bookmarkM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookmarkNotFound
		}

		return nil, errors.Wrap(err, "failed to find bookmark")
	}

	return toBookmarkDomain(&bookmarkM), nil
}

// Delete removes a user's bookmark of a post.
func (repo *bookmarkRepository) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.BookmarkModel{})

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete bookmark")
	}
	if res.RowsAffected == 0 {
		return repository.ErrBookmarkNotFound
	}

	return nil
}

// ListByUser retrieves a user's bookmarks, newest first.
func (repo *bookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bookmark, error) {
	var bookmarkMs []model.BookmarkModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookmarkMs).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list bookmarks")
	}

	bookmarks := make([]*entity.Bookmark, 0, len(bookmarkMs))
	for i := range bookmarkMs {
		bookmarks = append(bookmarks, toBookmarkDomain(&bookmarkMs[i]))
	}

	return bookmarks, nil
}

// --- Mapper Functions ---

func toFollowDomain(data *model.FollowModel) *entity.Follow {
	if data == nil {
		return nil
	}

	return &entity.Follow{
		ID:         data.ID,
		FollowerID: data.FollowerID,
		FolloweeID: data.FolloweeID,
		CreatedAt:  data.CreatedAt,
	}
}

func toFollowDomains(data []model.FollowModel) []*entity.Follow {
	follows := make([]*entity.Follow, 0, len(data))
	for i := range data {
		follows = append(follows, toFollowDomain(&data[i]))
	}

	return follows
}

func fromFollowDomain(data *entity.Follow) *model.FollowModel {
	if data == nil {
		return nil
	}

	return &model.FollowModel{
		ID:         data.ID,
		FollowerID: data.FollowerID,
		FolloweeID: data.FolloweeID,
	}
}

func toBookmarkDomain(data *model.BookmarkModel) *entity.Bookmark {
	if data == nil {
		return nil
	}

	return &entity.Bookmark{
		ID:        data.ID,
		UserID:    data.UserID,
		PostID:    data.PostID,
		CreatedAt: data.CreatedAt,
	}
}

func fromBookmarkDomain(data *entity.Bookmark) *model.BookmarkModel {
	if data == nil {
		return nil
	}

	return &model.BookmarkModel{
		ID:     data.ID,
		UserID: data.UserID,
		PostID: data.PostID,
	}
}
