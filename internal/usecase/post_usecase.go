package usecase

import (
	"context"

	"plume/internal/domain/entity"

	"github.com/google/uuid"
)

// CreatePostInput defines the data required to publish a post.
type CreatePostInput struct {
	AuthorID uuid.UUID
	Title    string
	Body     string
}

// UpdatePostInput carries the mutable post fields. Only the author may update.
type UpdatePostInput struct {
	PostID   uuid.UUID
	AuthorID uuid.UUID
	Title    string
	Body     string
}

// PostUsecase defines post CRUD operations.
type PostUsecase interface {
	CreatePost(ctx context.Context, input *CreatePostInput) (*entity.Post, error)
	GetPost(ctx context.Context, postID uuid.UUID) (*entity.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*entity.Post, error)
	UpdatePost(ctx context.Context, input *UpdatePostInput) (*entity.Post, error)
	DeletePost(ctx context.Context, postID, actorID uuid.UUID) error
}
