package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func testLocal(t *testing.T) *Local {
	t.Helper()
	local, err := NewLocal(t.TempDir(), "/media/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return local
}

func TestLocal_SaveAndExists(t *testing.T) {
	local := testLocal(t)
	ctx := context.Background()
	key := "blog/user_abc/my-post_post.jpeg"

	if err := local.Save(ctx, key, "image/jpeg", []byte("jpeg bytes")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := local.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Error("Exists = false for a saved key")
	}

	data, err := os.ReadFile(filepath.Join(local.Root(), "blog", "user_abc", "my-post_post.jpeg"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("file content = %q", data)
	}
}

func TestLocal_SaveOverwrites(t *testing.T) {
	local := testLocal(t)
	ctx := context.Background()
	key := "blog/user_x/slug_post.jpeg"

	if err := local.Save(ctx, key, "image/jpeg", []byte("first")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := local.Save(ctx, key, "image/jpeg", []byte("second")); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	path, _ := local.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want the replacement", data)
	}
}

func TestLocal_DeleteMissingIsNoError(t *testing.T) {
	local := testLocal(t)

	if err := local.Delete(context.Background(), "never/saved.jpeg"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestLocal_Delete(t *testing.T) {
	local := testLocal(t)
	ctx := context.Background()
	key := "blog/user_y/gone_post.jpeg"

	if err := local.Save(ctx, key, "image/jpeg", []byte("bytes")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := local.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := local.Exists(ctx, key); ok {
		t.Error("key still exists after Delete")
	}
}

func TestLocal_URL(t *testing.T) {
	local := testLocal(t)
	if got := local.URL("blog/a/b.jpeg"); got != "/media/blog/a/b.jpeg" {
		t.Errorf("URL = %q, want /media/blog/a/b.jpeg", got)
	}
}

// TestLocal_RejectsTraversal pins the key sanitizer: keys may not escape
// the media root.
func TestLocal_RejectsTraversal(t *testing.T) {
	local := testLocal(t)

	err := local.Save(context.Background(), "../../etc/passwd", "text/plain", []byte("nope"))
	if err == nil {
		// Clean may have neutralized the traversal; the write must land
		// inside the root either way.
		if _, statErr := os.Stat(filepath.Join(local.Root(), "etc", "passwd")); statErr != nil {
			t.Error("traversal key written outside the media root")
		}
	}
}

func TestPostImageKey(t *testing.T) {
	authorID := uuid.MustParse("6e1d8f2a-0000-0000-0000-000000000001")

	got := PostImageKey(authorID, "alice-my-trip")
	want := "blog/user_6e1d8f2a-0000-0000-0000-000000000001/alice-my-trip_post.jpeg"
	if got != want {
		t.Errorf("PostImageKey = %q, want %q", got, want)
	}
}
