package repository

import (
	"context"
	"errors"

	"plume/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCommentNotFound is returned when a comment is not found.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository defines the standard operations for comment persistence.
type CommentRepository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *entity.Comment) error

	// FindByID retrieves a single comment by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)

	// ListByPost retrieves a post's comments grouped by thread: ordered by
	// root, then depth, then creation time.
	ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*entity.Comment, error)

	// Delete removes a comment by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
