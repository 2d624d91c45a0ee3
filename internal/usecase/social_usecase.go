package usecase

import (
	"context"

	"plume/internal/domain/entity"

	"github.com/google/uuid"
)

// SocialUsecase defines the follower graph and bookmark operations.
type SocialUsecase interface {
	// Follow creates a follow edge and publishes a new_follower event.
	// Self-follows are rejected; duplicate follows are a conflict.
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error

	// Unfollow removes a follow edge. Removing a nonexistent edge is a no-op.
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error

	// ListFollowers retrieves the follow edges pointing at a user, newest first.
	ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error)

	// ListFollowing retrieves the follow edges originating from a user, newest first.
	ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error)

	// BookmarkPost saves a post for a user. Duplicates are a conflict.
	BookmarkPost(ctx context.Context, userID, postID uuid.UUID) error

	// UnbookmarkPost removes a saved post. Removing a nonexistent bookmark is a no-op.
	UnbookmarkPost(ctx context.Context, userID, postID uuid.UUID) error

	// ListBookmarks retrieves a user's bookmarks, newest first.
	ListBookmarks(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bookmark, error)
}
