package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a reader comment on a post. Comments form a tree per
// post through ParentID; top-level comments have a nil parent. Comments are
// append-only: there is no edit or delete path, they disappear only when
// the owning post is deleted.
type Comment struct {
	ID          uuid.UUID  `json:"id"`
	PostID      uuid.UUID  `json:"post_id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name"`
	Email       *string    `json:"email,omitempty"`
	Username    *string    `json:"username,omitempty"`
	Content     string     `json:"content"`
	PublishedAt time.Time  `json:"published_at"`

	// Virtual fields populated by store methods.
	Children []Comment `json:"children,omitempty"`
	Depth    int       `json:"depth"`
}

// NodeID implements tree.Node.
func (c Comment) NodeID() uuid.UUID { return c.ID }

// NodeParentID implements tree.Node.
func (c Comment) NodeParentID() *uuid.UUID { return c.ParentID }
