package repository

import (
	"context"
	"errors"

	"plume/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPostNotFound is returned when a post is not found.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the standard operations for post persistence.
type PostRepository interface {
	// Create persists a new post.
	Create(ctx context.Context, post *entity.Post) error

	// FindByID retrieves a single post by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)

	// ListByAuthor retrieves an author's posts, newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*entity.Post, error)

	// Update modifies an existing post.
	Update(ctx context.Context, post *entity.Post) error

	// Delete soft-deletes a post by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
