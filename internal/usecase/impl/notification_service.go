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

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

// NotificationServiceParams holds dependencies for notificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	NotificationRepo repository.NotificationRepository
	Logger           *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		notificationRepo: params.NotificationRepo,
		logger:           params.Logger,
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RecordEvent persists a notification row for a consumed pub/sub event.
func (srv *notificationService) RecordEvent(ctx context.Context, event *service.NotificationEvent) error {
	recipientID, err := uuid.Parse(event.RecipientID)
	if err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "event carries invalid recipient id")
	}
	actorID, err := uuid.Parse(event.ActorID)
	if err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "event carries invalid actor id")
	}

	notification := &entity.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        event.Type,
	}

	if event.PostID != "" {
		postID, parseErr := uuid.Parse(event.PostID)
		if parseErr != nil {
			return errors.Wrap(domainerrors.ErrValidationFailed, "event carries invalid post id")
		}
		notification.PostID = &postID
	}
	if event.CommentID != "" {
		commentID, parseErr := uuid.Parse(event.CommentID)
		if parseErr != nil {
			return errors.Wrap(domainerrors.ErrValidationFailed, "event carries invalid comment id")
		}
		notification.CommentID = &commentID
	}

	if err := srv.notificationRepo.Create(ctx, notification); err != nil {
		srv.log(ctx).Error("Failed to persist notification",
			slog.String("eventID", event.EventID),
			slog.Any("error", err),
		)

		return errors.Wrap(err, "failed to persist notification")
	}

	srv.log(ctx).Debug("Notification recorded",
		slog.String("eventID", event.EventID),
		slog.Any("recipientID", recipientID),
	)

	return nil
}

// ListNotifications retrieves a user's notifications, newest first.
func (srv *notificationService) ListNotifications(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	notifications, err := srv.notificationRepo.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}

	return notifications, nil
}

// MarkRead marks one of the recipient's notifications as read.
func (srv *notificationService) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	err := srv.notificationRepo.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return errors.Wrap(domainerrors.ErrNotificationNotFound, "mark read failed")
		}

		return errors.Wrap(err, "failed to mark notification read")
	}

	return nil
}

// CountUnread returns the number of unread notifications.
func (srv *notificationService) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	count, err := srv.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}

	return count, nil
}
