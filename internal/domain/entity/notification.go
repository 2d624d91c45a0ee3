package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType discriminates what happened to produce a notification.
type NotificationType string

const (
	// NotificationNewComment is produced when someone comments on a user's post.
	NotificationNewComment NotificationType = "new_comment"
	// NotificationNewReply is produced when someone replies to a user's comment.
	NotificationNewReply NotificationType = "new_reply"
	// NotificationNewFollower is produced when someone starts following a user.
	NotificationNewFollower NotificationType = "new_follower"
)

// Notification is a persisted, per-recipient record of platform activity.
// Rows are written asynchronously by the worker consuming notification events.
type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID // The user this notification is for.
	ActorID     uuid.UUID // The user whose action produced it.
	Type        NotificationType
	PostID      *uuid.UUID // Referenced post, when the type involves one.
	CommentID   *uuid.UUID // Referenced comment, when the type involves one.
	ReadAt      *time.Time // Nil until the recipient marks it read.
	CreatedAt   time.Time
}

// IsRead reports whether the recipient has already seen the notification.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
