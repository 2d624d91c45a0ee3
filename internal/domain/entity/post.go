package entity

import (
	"time"

	"github.com/google/uuid"
)

// Post is a published article or status update authored by a user.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
