package store

import (
	"errors"
	"testing"

	"inkwell/internal/models"
)

// commentFixture creates a post to hang comments on.
func commentFixture(t *testing.T, username string) (*PostStore, *CommentStore, *models.Post) {
	t.Helper()

	db := testDB(t)
	user := testUser(t, db, username)
	posts := NewPostStore(db)
	comments := NewCommentStore(db)

	post, err := posts.Create(&models.Post{Title: "Commentable", Body: "b", AuthorID: user.ID})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return posts, comments, post
}

func TestCommentStore_CreateAndReply(t *testing.T) {
	_, comments, post := commentFixture(t, "comment-create-author")

	top, err := comments.Create(&models.Comment{PostID: post.ID, Name: "reader", Content: "great trip!"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if top.ParentID != nil {
		t.Error("top-level comment got a parent")
	}
	if top.PublishedAt.IsZero() {
		t.Error("PublishedAt not set")
	}

	reply, err := comments.Create(&models.Comment{PostID: post.ID, ParentID: &top.ID, Name: "author", Content: "thanks!"})
	if err != nil {
		t.Fatalf("Create reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != top.ID {
		t.Error("reply not linked to its parent")
	}
}

func TestCommentStore_CreateValidation(t *testing.T) {
	_, comments, post := commentFixture(t, "comment-validation-author")

	tests := []struct {
		name    string
		comment models.Comment
	}{
		{
			name:    "empty name",
			comment: models.Comment{PostID: post.ID, Name: "", Content: "text"},
		},
		{
			name:    "blank content",
			comment: models.Comment{PostID: post.ID, Name: "reader", Content: "   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := comments.Create(&tt.comment)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Create error = %v, want ValidationError", err)
			}
		})
	}
}

// TestCommentStore_ReplyCrossPost pins the forest invariant: a reply's
// parent must belong to the same post.
func TestCommentStore_ReplyCrossPost(t *testing.T) {
	posts, comments, post := commentFixture(t, "comment-crosspost-author")

	other, err := posts.Create(&models.Post{Title: "Other Post", Body: "b", AuthorID: post.AuthorID})
	if err != nil {
		t.Fatalf("create other post: %v", err)
	}
	parent, err := comments.Create(&models.Comment{PostID: other.ID, Name: "reader", Content: "on the other post"})
	if err != nil {
		t.Fatalf("Create parent: %v", err)
	}

	_, err = comments.Create(&models.Comment{PostID: post.ID, ParentID: &parent.ID, Name: "reader", Content: "cross-post reply"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("cross-post reply error = %v, want ValidationError", err)
	}
}

func TestCommentStore_TreeByPost(t *testing.T) {
	_, comments, post := commentFixture(t, "comment-tree-author")

	first, err := comments.Create(&models.Comment{PostID: post.ID, Name: "reader", Content: "first"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := comments.Create(&models.Comment{PostID: post.ID, ParentID: &first.ID, Name: "author", Content: "reply"}); err != nil {
		t.Fatalf("Create reply: %v", err)
	}
	if _, err := comments.Create(&models.Comment{PostID: post.ID, Name: "another", Content: "second"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	forest, err := comments.TreeByPost(post.ID)
	if err != nil {
		t.Fatalf("TreeByPost: %v", err)
	}

	if len(forest) != 2 {
		t.Fatalf("len(roots) = %d, want 2", len(forest))
	}

	// Find the commented root; its reply must hang below it with depth 1.
	var withReply *models.Comment
	for i := range forest {
		if forest[i].ID == first.ID {
			withReply = &forest[i]
		}
		if forest[i].Depth != 0 {
			t.Errorf("root comment depth = %d, want 0", forest[i].Depth)
		}
	}
	if withReply == nil {
		t.Fatal("first comment missing from forest roots")
	}
	if len(withReply.Children) != 1 {
		t.Fatalf("len(children) = %d, want 1", len(withReply.Children))
	}
	if withReply.Children[0].Depth != 1 {
		t.Errorf("reply depth = %d, want 1", withReply.Children[0].Depth)
	}
	if withReply.Children[0].Content != "reply" {
		t.Errorf("reply content = %q", withReply.Children[0].Content)
	}
}

func TestCommentStore_TreeByPost_Empty(t *testing.T) {
	_, comments, post := commentFixture(t, "comment-empty-author")

	forest, err := comments.TreeByPost(post.ID)
	if err != nil {
		t.Fatalf("TreeByPost: %v", err)
	}
	if len(forest) != 0 {
		t.Errorf("len = %d, want 0 for a post without comments", len(forest))
	}
}
