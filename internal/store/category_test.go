package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestCategoryStore_CreateDefaults(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	unnamed, err := categories.Create("", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", unnamed.ID) })

	if unnamed.Name != models.DefaultCategoryName {
		t.Errorf("Name = %q, want default %q", unnamed.Name, models.DefaultCategoryName)
	}
	if unnamed.ParentID != nil {
		t.Error("unnamed root category got a parent")
	}

	blank, err := categories.Create("   ", nil)
	if err != nil {
		t.Fatalf("Create blank: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", blank.ID) })
	if blank.Name != models.DefaultCategoryName {
		t.Errorf("blank name = %q, want default", blank.Name)
	}
}

func TestCategoryStore_AncestorPath(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	sports := testCategory(t, db, "catpath-sports", nil)
	football := testCategory(t, db, "catpath-football", &sports.ID)
	youth := testCategory(t, db, "catpath-youth", &football.ID)

	chain, path, err := categories.AncestorPath(youth.ID)
	if err != nil {
		t.Fatalf("AncestorPath: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("len(chain) = %d, want 3", len(chain))
	}
	if chain[0].ID != sports.ID || chain[2].ID != youth.ID {
		t.Error("chain not ordered root first")
	}
	want := "catpath-sports -> catpath-football -> catpath-youth"
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	if _, _, err := categories.AncestorPath(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("AncestorPath(unknown) error = %v, want ErrNotFound", err)
	}
}

// TestCategoryStore_UpdateRejectsCycle pins the re-parent guard: a category
// can never be moved under itself or one of its descendants.
func TestCategoryStore_UpdateRejectsCycle(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	root := testCategory(t, db, "catcycle-root", nil)
	child := testCategory(t, db, "catcycle-child", &root.ID)
	grandchild := testCategory(t, db, "catcycle-grandchild", &child.ID)

	tests := []struct {
		name      string
		target    *models.Category
		newParent *uuid.UUID
		wantErr   bool
	}{
		{name: "self parent", target: root, newParent: &root.ID, wantErr: true},
		{name: "direct descendant", target: root, newParent: &child.ID, wantErr: true},
		{name: "deep descendant", target: root, newParent: &grandchild.ID, wantErr: true},
		{name: "move to root is fine", target: child, newParent: nil, wantErr: false},
		{name: "move under ancestor is fine", target: grandchild, newParent: &root.ID, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := *tt.target
			update.ParentID = tt.newParent
			err := categories.Update(&update)
			if tt.wantErr {
				if !errors.Is(err, ErrTreeCycle) {
					t.Errorf("Update error = %v, want ErrTreeCycle", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Update error = %v, want nil", err)
			}
		})
	}
}

// TestCategoryStore_DeleteCascadesSubtreeAndPosts verifies the destructive
// contract: removing a category takes its descendants and every post filed
// under any of them.
func TestCategoryStore_DeleteCascadesSubtreeAndPosts(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "catdelete-author")
	categories := NewCategoryStore(db)
	posts := NewPostStore(db)

	root := testCategory(t, db, "catdelete-root", nil)
	child := testCategory(t, db, "catdelete-child", &root.ID)

	inChild, err := posts.Create(&models.Post{Title: "Filed Deep", Body: "b", AuthorID: user.ID, CategoryID: &child.ID})
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}
	outside, err := posts.Create(&models.Post{Title: "Filed Nowhere", Body: "b", AuthorID: user.ID})
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}

	if err := categories.Delete(root.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if found, _ := categories.FindByID(child.ID); found != nil {
		t.Error("child category survived subtree delete")
	}
	if found, _ := posts.FindByID(inChild.ID); found != nil {
		t.Error("post filed under deleted subtree survived")
	}
	if found, _ := posts.FindByID(outside.ID); found == nil {
		t.Error("uncategorized post was deleted by an unrelated cascade")
	}
}

func TestCategoryStore_FlatTreeDepths(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	root := testCategory(t, db, "catflat-root", nil)
	child := testCategory(t, db, "catflat-child", &root.ID)

	flat, err := categories.FlatTree()
	if err != nil {
		t.Fatalf("FlatTree: %v", err)
	}

	depths := map[uuid.UUID]int{}
	for _, c := range flat {
		depths[c.ID] = c.Depth
	}
	if depths[root.ID] != 0 {
		t.Errorf("root depth = %d, want 0", depths[root.ID])
	}
	if depths[child.ID] != 1 {
		t.Errorf("child depth = %d, want 1", depths[child.ID])
	}
}

func TestCategoryStore_FindByName(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	created := testCategory(t, db, "catfind-unique-name", nil)

	found, err := categories.FindByName("catfind-unique-name")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Error("FindByName missed an existing category")
	}

	missing, err := categories.FindByName("catfind-no-such-name")
	if err != nil {
		t.Fatalf("FindByName(missing): %v", err)
	}
	if missing != nil {
		t.Error("FindByName returned a category for a missing name")
	}
}
