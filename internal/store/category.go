package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/tree"
)

// CategoryStore manages the hierarchical category tree in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, parent_id, created_at, updated_at`

// categoryOrder is the sibling ordering: most recently updated first.
func categoryOrder(a, b models.Category) bool {
	return a.UpdatedAt.After(b.UpdatedAt)
}

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories with post counts, most recently updated first.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.parent_id, c.created_at, c.updated_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt, &c.UpdatedAt, &c.PostCount)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree returns the category forest as nested Children slices, siblings
// ordered most recently updated first.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return buildCategoryTree(flat, nil, 0), nil
}

func buildCategoryTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range tree.Children(flat, parentID, categoryOrder) {
		c.Depth = depth
		c.Children = buildCategoryTree(flat, &c.ID, depth+1)
		result = append(result, c)
	}
	return result
}

// FlatTree returns categories as a flat list in depth-first display order,
// with Depth set for indentation. Useful for <select> dropdowns.
func (s *CategoryStore) FlatTree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	var result []models.Category
	tree.Walk(flat, categoryOrder, func(c models.Category, depth int) {
		c.Depth = depth
		result = append(result, c)
	})
	return result, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByName retrieves a category by exact name match. Returns nil if not
// found; when several share a name, the most recently updated wins.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	row := s.db.QueryRow(`
		SELECT `+categoryColumns+` FROM categories
		WHERE name = $1 ORDER BY updated_at DESC LIMIT 1
	`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// Create inserts a new category. An empty name falls back to the default.
// The parent, when given, must exist; a new node can never close a cycle.
func (s *CategoryStore) Create(name string, parentID *uuid.UUID) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultCategoryName
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, parent_id)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		name, parentID,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update renames and/or re-parents a category, refreshing its updated
// timestamp. Re-parenting onto the category itself or one of its
// descendants fails with ErrTreeCycle before anything is written.
func (s *CategoryStore) Update(c *models.Category) error {
	flat, err := s.List()
	if err != nil {
		return err
	}
	if tree.WouldCycle(tree.IndexByID(flat), c.ID, c.ParentID) {
		return ErrTreeCycle
	}

	res, err := s.db.Exec(`
		UPDATE categories SET name = $1, parent_id = $2, updated_at = NOW()
		WHERE id = $3
	`, c.Name, c.ParentID, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category. The database cascades the delete to all
// descendant categories and to every post filed under any of them.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AncestorPath returns the chain from the root down to the given category,
// root first, and the rendered display path ("Sports -> Football"). A
// broken parent chain fails closed to just the category itself.
func (s *CategoryStore) AncestorPath(id uuid.UUID) ([]models.Category, string, error) {
	flat, err := s.List()
	if err != nil {
		return nil, "", err
	}
	chain := tree.AncestorPath(tree.IndexByID(flat), id)
	if chain == nil {
		return nil, "", ErrNotFound
	}
	return chain, models.DisplayPath(chain), nil
}
