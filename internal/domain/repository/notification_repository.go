package repository

import (
	"context"
	"errors"

	"plume/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when a notification is not found.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines persistence for per-recipient notifications.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, notification *entity.Notification) error

	// ListByRecipient retrieves a user's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*entity.Notification, error)

	// MarkRead sets the read timestamp on one of the recipient's
	// notifications. Marking an already-read notification is a no-op.
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}
