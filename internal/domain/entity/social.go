package entity

import (
	"time"

	"github.com/google/uuid"
)

// Follow records that one user follows another. The (FollowerID, FolloweeID)
// pair is unique; following someone twice is a conflict.
type Follow struct {
	ID         uuid.UUID
	FollowerID uuid.UUID // The user doing the following.
	FolloweeID uuid.UUID // The user being followed.
	CreatedAt  time.Time
}

// Bookmark records that a user saved a post. The (UserID, PostID) pair is
// unique.
type Bookmark struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PostID    uuid.UUID
	CreatedAt time.Time
}
