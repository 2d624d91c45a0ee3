package usecase

import (
	"context"

	"plume/internal/domain/entity"
	"plume/internal/domain/service"

	"github.com/google/uuid"
)

// NotificationUsecase defines notification persistence and retrieval.
// RecordEvent is called by the worker delivery consuming pushed events; the
// read operations serve the HTTP API.
type NotificationUsecase interface {
	// RecordEvent persists a notification row for a consumed event.
	RecordEvent(ctx context.Context, event *service.NotificationEvent) error

	// ListNotifications retrieves a user's notifications, newest first.
	ListNotifications(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*entity.Notification, error)

	// MarkRead marks one of the recipient's notifications as read.
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error

	// CountUnread returns the number of unread notifications.
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}
