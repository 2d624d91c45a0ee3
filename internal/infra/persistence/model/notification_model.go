// Package model contains the GORM persistence models mirroring the
// PostgreSQL schema. Mapping to and from domain entities happens in the
// postgres repositories.
package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationModel mirrors the 'notifications' table. The partial-friendly
// recipient index serves both listing and the unread count.
type NotificationModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	ActorID     uuid.UUID  `gorm:"type:uuid;not null"`
	Type        string     `gorm:"type:varchar(30);not null"`
	PostID      *uuid.UUID `gorm:"type:uuid"`
	CommentID   *uuid.UUID `gorm:"type:uuid"`
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (NotificationModel) TableName() string {
	return "notifications"
}
