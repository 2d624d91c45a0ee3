package service

import (
	"context"

	"plume/internal/domain/entity"
)

// NotificationEvent is published when platform activity should produce a
// notification row for a recipient. The worker delivery consumes these and
// persists them; publishing is fire-and-forget from the producer's side.
type NotificationEvent struct {
	RequestID   string                  `json:"request_id,omitempty"` // For distributed tracing
	EventID     string                  `json:"event_id"`
	Type        entity.NotificationType `json:"type"`
	RecipientID string                  `json:"recipient_id"`
	ActorID     string                  `json:"actor_id"`
	PostID      string                  `json:"post_id,omitempty"`
	CommentID   string                  `json:"comment_id,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue.
type EventPublisher interface {
	// PublishNotificationEvent publishes a notification event for async processing.
	PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
