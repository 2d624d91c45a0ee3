package entity

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reply on a post. Comments nest: a reply records its direct
// parent, the root of its thread, and its depth below that root. Top-level
// comments have a nil ParentID/RootID and depth zero; for every reply,
// Depth = parent.Depth + 1 and RootID points at the thread's top-level
// comment regardless of how deep the reply sits.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  uuid.UUID
	ParentID  *uuid.UUID // Direct parent comment, nil for top-level comments.
	RootID    *uuid.UUID // Top-level ancestor of the thread, nil for top-level comments.
	Depth     int        // Zero for top-level comments.
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsReply reports whether the comment is nested under another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// ThreadRoot returns the ID identifying the comment's thread: its RootID for
// replies, its own ID for top-level comments.
func (c *Comment) ThreadRoot() uuid.UUID {
	if c.RootID != nil {
		return *c.RootID
	}

	return c.ID
}
