package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryName is assigned when a category is created without a name.
const DefaultCategoryName = "others"

// PathSeparator joins category names when rendering an ancestor path.
const PathSeparator = " -> "

// Category represents a node in the hierarchical category tree.
// Posts have at most one category assigned; root categories have a nil parent.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	Children  []Category `json:"children,omitempty"`
	Depth     int        `json:"depth"`
	PostCount int        `json:"post_count"`
	Path      string     `json:"path,omitempty"`
}

// NodeID implements tree.Node.
func (c Category) NodeID() uuid.UUID { return c.ID }

// NodeParentID implements tree.Node.
func (c Category) NodeParentID() *uuid.UUID { return c.ParentID }

// DisplayPath joins an ancestor chain root-first into a display string,
// e.g. "Sports -> Football".
func DisplayPath(chain []Category) string {
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return strings.Join(names, PathSeparator)
}
