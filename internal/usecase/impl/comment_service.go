package impl

import (
	"context"
	"log/slog"

	"plume/config"
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

// commentService implements the CommentUsecase interface.
type commentService struct {
	txManager   repository.TransactionManager
	commentRepo repository.CommentRepository
	publisher   service.EventPublisher
	maxDepth    int
	logger      *slog.Logger
}

// CommentServiceParams holds dependencies for commentService, injected by Fx.
type CommentServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CommentRepo repository.CommentRepository
	Publisher   service.EventPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCommentService is the constructor for commentService.
func NewCommentService(params CommentServiceParams) usecase.CommentUsecase {
	maxDepth := 0
	if params.Config != nil && params.Config.Content != nil {
		maxDepth = params.Config.Content.MaxCommentDepth
	}

	return &commentService{
		txManager:   params.TxManager,
		commentRepo: params.CommentRepo,
		publisher:   params.Publisher,
		maxDepth:    maxDepth,
		logger:      params.Logger,
	}
}

func (srv *commentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateComment persists a comment and publishes the matching notification
// event. Parent resolution, depth checking and the insert run in one
// transaction so a concurrent parent delete cannot orphan the reply.
func (srv *commentService) CreateComment(ctx context.Context, input *usecase.CreateCommentInput) (*entity.Comment, error) {
	var created *entity.Comment
	var notifyUserID uuid.UUID
	var eventType entity.NotificationType

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()
		commentRepo := repoFactory.CommentRepo()

		post, findErr := postRepo.FindByID(ctx, input.PostID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrPostNotFound) {
				return errors.Wrap(domainerrors.ErrPostNotFound, "comment failed")
			}

			return errors.Wrap(findErr, "failed to load post for comment")
		}

		comment := &entity.Comment{
			PostID:   input.PostID,
			AuthorID: input.AuthorID,
			Body:     input.Body,
		}
		notifyUserID = post.AuthorID
		eventType = entity.NotificationNewComment

		if input.ParentID != nil {
			parent, parentErr := commentRepo.FindByID(ctx, *input.ParentID)
			if parentErr != nil {
				if errors.Is(parentErr, repository.ErrCommentNotFound) {
					return errors.Wrap(domainerrors.ErrCommentNotFound, "comment failed")
				}

				return errors.Wrap(parentErr, "failed to load parent comment")
			}
			if parent.PostID != input.PostID {
				return errors.Wrap(domainerrors.ErrCommentNotFound, "parent comment belongs to another post")
			}
			if parent.Depth+1 > srv.maxDepth {
				return errors.Wrap(domainerrors.ErrCommentTooDeep, "comment failed")
			}

			rootID := parent.ThreadRoot()
			comment.ParentID = &parent.ID
			comment.RootID = &rootID
			comment.Depth = parent.Depth + 1

			notifyUserID = parent.AuthorID
			eventType = entity.NotificationNewReply
		}

		if createErr := commentRepo.Create(ctx, comment); createErr != nil {
			return errors.Wrap(createErr, "failed to create comment")
		}

		created = comment

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Comment creation failed", slog.Any("postID", input.PostID), slog.Any("error", err))

		return nil, err
	}

	// Never notify a user about their own activity.
	if notifyUserID != input.AuthorID {
		srv.publishEvent(ctx, &service.NotificationEvent{
			RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
			EventID:     uuid.New().String(),
			Type:        eventType,
			RecipientID: notifyUserID.String(),
			ActorID:     input.AuthorID.String(),
			PostID:      created.PostID.String(),
			CommentID:   created.ID.String(),
		})
	}

	srv.log(ctx).Debug("Comment created", slog.Any("commentID", created.ID), slog.Int("depth", created.Depth))

	return created, nil
}

// ListComments retrieves a post's comments in threaded order.
func (srv *commentService) ListComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	comments, err := srv.commentRepo.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list comments")
	}

	return comments, nil
}

// DeleteComment removes a comment. Only the comment author may delete.
func (srv *commentService) DeleteComment(ctx context.Context, commentID, actorID uuid.UUID) error {
	comment, err := srv.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return errors.Wrap(domainerrors.ErrCommentNotFound, "delete comment failed")
		}

		return errors.Wrap(err, "failed to load comment for delete")
	}

	if comment.AuthorID != actorID {
		srv.log(ctx).Warn("Comment delete refused for non-author", slog.Any("commentID", commentID), slog.Any("actorID", actorID))

		return errors.Wrap(domainerrors.ErrForbidden, "delete comment failed")
	}

	if err := srv.commentRepo.Delete(ctx, commentID); err != nil {
		return errors.Wrap(err, "failed to delete comment")
	}

	return nil
}

// publishEvent publishes fire-and-forget: a notification that never lands is
// an acceptable loss, a failed comment insert is not.
func (srv *commentService) publishEvent(ctx context.Context, event *service.NotificationEvent) {
	if err := srv.publisher.PublishNotificationEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish notification event",
			slog.String("eventID", event.EventID),
			slog.Any("error", err),
		)
	}
}
