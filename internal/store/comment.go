package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/tree"
)

// CommentStore manages the per-post comment trees. Comments are
// append-only; they are removed only by the cascade when their post is
// deleted.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, parent_id, name, email, username, content, published_at`

// commentOrder is the sibling ordering: newest first.
func commentOrder(a, b models.Comment) bool {
	return a.PublishedAt.After(b.PublishedAt)
}

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.ParentID, &c.Name, &c.Email, &c.Username,
		&c.Content, &c.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a comment. Name and content are required. A reply's
// parent must exist and belong to the same post, keeping each post's
// comment forest closed over itself.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Content) == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	if c.ParentID != nil {
		parent, err := s.FindByID(*c.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, &ValidationError{Field: "parent", Reason: "unknown comment"}
		}
		if parent.PostID != c.PostID {
			return nil, &ValidationError{Field: "parent", Reason: "belongs to a different post"}
		}
	}

	row := s.db.QueryRow(`
		INSERT INTO comments (post_id, parent_id, name, email, username, content)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+commentColumns,
		c.PostID, c.ParentID, c.Name, c.Email, c.Username, c.Content,
	)
	created, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// ListByPost returns a post's comments as a flat list, newest first.
func (s *CommentStore) ListByPost(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1
		ORDER BY published_at DESC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.ParentID, &c.Name, &c.Email, &c.Username,
			&c.Content, &c.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// TreeByPost returns a post's comments as a nested forest, siblings newest
// first at every level.
func (s *CommentStore) TreeByPost(postID uuid.UUID) ([]models.Comment, error) {
	flat, err := s.ListByPost(postID)
	if err != nil {
		return nil, err
	}
	return buildCommentTree(flat, nil, 0), nil
}

func buildCommentTree(flat []models.Comment, parentID *uuid.UUID, depth int) []models.Comment {
	var result []models.Comment
	for _, c := range tree.Children(flat, parentID, commentOrder) {
		c.Depth = depth
		c.Children = buildCommentTree(flat, &c.ID, depth+1)
		result = append(result, c)
	}
	return result
}
