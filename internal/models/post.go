package models

import (
	"time"

	"github.com/google/uuid"
)

// BodyFormat indicates how a post body is stored and rendered.
type BodyFormat string

const (
	BodyFormatMarkdown BodyFormat = "markdown"
	BodyFormatHTML     BodyFormat = "html"
)

// Post represents a blog post. The slug is globally unique; when not
// supplied at creation it is derived from the author's username and the
// title. ImageKey points into the media storage backend and is nil when
// no image is attached.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	BodyFormat  BodyFormat `json:"body_format"`
	Slug        string     `json:"slug"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	AuthorID    uuid.UUID  `json:"author_id"`
	ImageKey    *string    `json:"image_key,omitempty"`
	PublishedAt time.Time  `json:"published_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	AuthorName   string `json:"author_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Hits         int64  `json:"hits,omitempty"`
}

// HasImage reports whether an image is attached to the post.
func (p *Post) HasImage() bool {
	return p.ImageKey != nil && *p.ImageKey != ""
}

// OwnedBy reports whether the given user is the post's author. Edit and
// delete are restricted to the owner; handlers check this before any write.
func (p *Post) OwnedBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}
