package impl

import (
	"context"
	"log/slog"

	deliverycontext "plume/internal/delivery/context"
	"plume/internal/domain/entity"
	domainerrors "plume/internal/domain/errors"
	"plume/internal/domain/repository"
	"plume/internal/domain/service"
	"plume/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// socialService implements the SocialUsecase interface.
type socialService struct {
	followRepo   repository.FollowRepository
	bookmarkRepo repository.BookmarkRepository
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	publisher    service.EventPublisher
	logger       *slog.Logger
}

// SocialServiceParams holds dependencies for socialService, injected by Fx.
type SocialServiceParams struct {
	fx.In

	FollowRepo   repository.FollowRepository
	BookmarkRepo repository.BookmarkRepository
	PostRepo     repository.PostRepository
	UserRepo     repository.UserRepository
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewSocialService is the constructor for socialService.
func NewSocialService(params SocialServiceParams) usecase.SocialUsecase {
	return &socialService{
		followRepo:   params.FollowRepo,
		bookmarkRepo: params.BookmarkRepo,
		postRepo:     params.PostRepo,
		userRepo:     params.UserRepo,
		publisher:    params.Publisher,
		logger:       params.Logger,
	}
}

func (srv *socialService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Follow creates a follow edge and publishes a new_follower event.
func (srv *socialService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return errors.Wrap(domainerrors.ErrSelfFollow, "follow failed")
	}

	if _, err := srv.userRepo.FindByID(ctx, followeeID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrNotFound, "followee does not exist")
		}

		return errors.Wrap(err, "failed to load followee")
	}

	follow := &entity.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
	// The unique index reports the duplicate; no pre-check needed.
	if err := srv.followRepo.Create(ctx, follow); err != nil {
		return errors.Wrap(err, "failed to create follow")
	}

	srv.publishEvent(ctx, &service.NotificationEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		EventID:     uuid.New().String(),
		Type:        entity.NotificationNewFollower,
		RecipientID: followeeID.String(),
		ActorID:     followerID.String(),
	})

	srv.log(ctx).Debug("Follow created", slog.Any("followerID", followerID), slog.Any("followeeID", followeeID))

	return nil
}

// Unfollow removes a follow edge. Removing a nonexistent edge is a no-op so
// repeated unfollows are harmless.
func (srv *socialService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	err := srv.followRepo.Delete(ctx, followerID, followeeID)
	if err != nil && !errors.Is(err, repository.ErrFollowNotFound) {
		return errors.Wrap(err, "failed to delete follow")
	}

	return nil
}

// ListFollowers retrieves the follow edges pointing at a user, newest first.
func (srv *socialService) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error) {
	follows, err := srv.followRepo.ListFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list followers")
	}

	return follows, nil
}

// ListFollowing retrieves the follow edges originating from a user, newest first.
func (srv *socialService) ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error) {
	follows, err := srv.followRepo.ListFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list following")
	}

	return follows, nil
}

// BookmarkPost saves a post for a user.
func (srv *socialService) BookmarkPost(ctx context.Context, userID, postID uuid.UUID) error {
	if _, err := srv.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return errors.Wrap(domainerrors.ErrPostNotFound, "bookmark failed")
		}

		return errors.Wrap(err, "failed to load post for bookmark")
	}

	bookmark := &entity.Bookmark{
		UserID: userID,
		PostID: postID,
	}
	if err := srv.bookmarkRepo.Create(ctx, bookmark); err != nil {
		return errors.Wrap(err, "failed to create bookmark")
	}

	return nil
}

// UnbookmarkPost removes a saved post. Removing a nonexistent bookmark is a no-op.
func (srv *socialService) UnbookmarkPost(ctx context.Context, userID, postID uuid.UUID) error {
	err := srv.bookmarkRepo.Delete(ctx, userID, postID)
	if err != nil && !errors.Is(err, repository.ErrBookmarkNotFound) {
		return errors.Wrap(err, "failed to delete bookmark")
	}

	return nil
}

// ListBookmarks retrieves a user's bookmarks, newest first.
func (srv *socialService) ListBookmarks(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bookmark, error) {
	bookmarks, err := srv.bookmarkRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bookmarks")
	}

	return bookmarks, nil
}

func (srv *socialService) publishEvent(ctx context.Context, event *service.NotificationEvent) {
	if err := srv.publisher.PublishNotificationEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish notification event",
			slog.String("eventID", event.EventID),
			slog.Any("error", err),
		)
	}
}
