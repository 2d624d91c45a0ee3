package impl

import (
	"context"
	"log/slog"

	deliverycontext "plume/internal/delivery/context"
	"plume/internal/domain/entity"
	domainerrors "plume/internal/domain/errors"
	"plume/internal/domain/repository"
	"plume/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// postService implements the PostUsecase interface.
type postService struct {
	postRepo repository.PostRepository
	logger   *slog.Logger
}

// PostServiceParams holds dependencies for postService, injected by Fx.
type PostServiceParams struct {
	fx.In

	PostRepo repository.PostRepository
	Logger   *slog.Logger
}

// NewPostService is the constructor for postService.
func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		postRepo: params.PostRepo,
		logger:   params.Logger,
	}
}

func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePost publishes a new post.
func (srv *postService) CreatePost(ctx context.Context, input *usecase.CreatePostInput) (*entity.Post, error) {
	post := &entity.Post{
		AuthorID: input.AuthorID,
		Title:    input.Title,
		Body:     input.Body,
	}

	if err := srv.postRepo.Create(ctx, post); err != nil {
		srv.log(ctx).Error("Failed to create post", slog.Any("authorID", input.AuthorID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create post")
	}

	srv.log(ctx).Debug("Post created", slog.Any("postID", post.ID))

	return post, nil
}

// GetPost retrieves a single post by ID.
func (srv *postService) GetPost(ctx context.Context, postID uuid.UUID) (*entity.Post, error) {
	post, err := srv.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPostNotFound, "get post failed")
		}

		return nil, errors.Wrap(err, "failed to get post")
	}

	return post, nil
}

// ListPostsByAuthor retrieves an author's posts, newest first.
func (srv *postService) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*entity.Post, error) {
	posts, err := srv.postRepo.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}

	return posts, nil
}

// UpdatePost modifies a post. Only the author may update.
func (srv *postService) UpdatePost(ctx context.Context, input *usecase.UpdatePostInput) (*entity.Post, error) {
	post, err := srv.postRepo.FindByID(ctx, input.PostID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPostNotFound, "update post failed")
		}

		return nil, errors.Wrap(err, "failed to load post for update")
	}

	if post.AuthorID != input.AuthorID {
		srv.log(ctx).Warn("Post update refused for non-author", slog.Any("postID", post.ID), slog.Any("actorID", input.AuthorID))

		return nil, errors.Wrap(domainerrors.ErrNotPostAuthor, "update post failed")
	}

	post.Title = input.Title
	post.Body = input.Body

	if err := srv.postRepo.Update(ctx, post); err != nil {
		return nil, errors.Wrap(err, "failed to update post")
	}

	return post, nil
}

// DeletePost soft-deletes a post. Only the author may delete.
func (srv *postService) DeletePost(ctx context.Context, postID, actorID uuid.UUID) error {
	post, err := srv.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return errors.Wrap(domainerrors.ErrPostNotFound, "delete post failed")
		}

		return errors.Wrap(err, "failed to load post for delete")
	}

	if post.AuthorID != actorID {
		srv.log(ctx).Warn("Post delete refused for non-author", slog.Any("postID", postID), slog.Any("actorID", actorID))

		return errors.Wrap(domainerrors.ErrNotPostAuthor, "delete post failed")
	}

	if err := srv.postRepo.Delete(ctx, postID); err != nil {
		return errors.Wrap(err, "failed to delete post")
	}

	srv.log(ctx).Debug("Post deleted", slog.Any("postID", postID))

	return nil
}
