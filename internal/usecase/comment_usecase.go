package usecase

import (
	"context"

	"plume/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCommentInput defines the data required to comment on a post.
// ParentID is nil for top-level comments.
type CreateCommentInput struct {
	PostID   uuid.UUID
	AuthorID uuid.UUID
	ParentID *uuid.UUID
	Body     string
}

// CommentUsecase defines comment operations, including nested replies.
type CommentUsecase interface {
	// CreateComment persists a comment, deriving RootID and Depth from the
	// parent when replying, and publishes a notification event for the
	// post author (new_comment) or parent comment author (new_reply).
	CreateComment(ctx context.Context, input *CreateCommentInput) (*entity.Comment, error)

	// ListComments retrieves a post's comments in threaded order.
	ListComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*entity.Comment, error)

	// DeleteComment removes a comment. Only the comment author may delete.
	DeleteComment(ctx context.Context, commentID, actorID uuid.UUID) error
}
