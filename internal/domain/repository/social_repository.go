package repository

import (
	"context"
	"errors"

	"plume/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for the social graph persistence.
var (
	// ErrFollowNotFound is returned when a follow relationship is not found.
	ErrFollowNotFound = errors.New("follow not found")
	// ErrBookmarkNotFound is returned when a bookmark is not found.
	ErrBookmarkNotFound = errors.New("bookmark not found")
)

// FollowRepository defines persistence for the follower graph.
type FollowRepository interface {
	// Create persists a new follow edge.
	Create(ctx context.Context, follow *entity.Follow) error

	// Find retrieves the follow edge between two users, if any.
	Find(ctx context.Context, followerID, followeeID uuid.UUID) (*entity.Follow, error)

	// Delete removes the follow edge between two users.
	Delete(ctx context.Context, followerID, followeeID uuid.UUID) error

	// ListFollowers retrieves the users following a given user, newest first.
	ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error)

	// ListFollowing retrieves the users a given user follows, newest first.
	ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error)
}

// BookmarkRepository defines persistence for saved posts.
type BookmarkRepository interface {
	// Create persists a new bookmark.
	Create(ctx context.Context, bookmark *entity.Bookmark) error

	// Find retrieves a user's bookmark of a post, if any.
	Find(ctx context.Context, userID, postID uuid.UUID) (*entity.Bookmark, error)

	// Delete removes a user's bookmark of a post.
	Delete(ctx context.Context, userID, postID uuid.UUID) error

	// ListByUser retrieves a user's bookmarks, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bookmark, error)
}
