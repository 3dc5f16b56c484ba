package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local stores media on the local filesystem under a media root directory,
// served by the HTTP server at a URL prefix (e.g. /media/).
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates a disk-backed store rooted at dir. urlPrefix is
// prepended to keys when building URLs.
func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create media root: %w", err)
	}
	return &Local{
		root:      dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}, nil
}

// Root returns the media root directory, used to mount a file server.
func (l *Local) Root() string { return l.root }

// Save writes the object to disk. An existing file at the key is removed
// first, then the new bytes are written (overwrite-by-delete).
func (l *Local) Save(_ context.Context, key, _ string, data []byte) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for %s: %w", key, err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("storage: replace %s: %w", key, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

// Delete removes the file at key. A missing file is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// URL returns the serving URL for a stored key.
func (l *Local) URL(key string) string {
	return l.urlPrefix + "/" + key
}

// Exists reports whether a file is stored at key.
func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	path, err := l.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: stat %s: %w", key, err)
	}
	return true, nil
}

// path maps a key onto the media root, rejecting traversal outside it.
func (l *Local) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(l.root, clean), nil
}
