// Package storage persists post images. The Store interface is satisfied
// by a local-disk backend (the default) and an S3-compatible backend, so
// handlers never care where image bytes live.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Store is the media storage boundary. Keys are slash-separated paths,
// e.g. "blog/user_<authorID>/<slug>_post.jpeg".
type Store interface {
	// Save writes the object at key, replacing any existing object.
	Save(ctx context.Context, key, contentType string, data []byte) error
	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL resolves a browser-reachable URL for the object, or "" when the
	// backend cannot resolve one.
	URL(key string) string
	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}

// PostImageKey computes the storage key for a post's image. One image per
// post: re-saving the same author/slug pair overwrites the previous file.
func PostImageKey(authorID uuid.UUID, slug string) string {
	return fmt.Sprintf("blog/user_%s/%s_post.jpeg", authorID, slug)
}
