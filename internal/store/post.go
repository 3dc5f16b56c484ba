package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// pgUniqueViolation is the Postgres error code for a unique-constraint
// violation. Slug collisions are detected from this code alone; any other
// insert failure propagates as what it actually is.
const pgUniqueViolation = "23505"

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, body, body_format, slug, category_id, author_id, image_key, published_at, updated_at`

// postJoinColumns selects posts together with author and category names
// for listing pages.
const postJoinColumns = `p.id, p.title, p.body, p.body_format, p.slug, p.category_id, p.author_id,
	p.image_key, p.published_at, p.updated_at,
	u.display_name, COALESCE(c.name, '')`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Body, &p.BodyFormat, &p.Slug, &p.CategoryID,
		&p.AuthorID, &p.ImageKey, &p.PublishedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// validatePost checks the required fields for create and update.
func validatePost(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(body) == "" {
		return &ValidationError{Field: "body", Reason: "must not be empty"}
	}
	return nil
}

// Create inserts a new post. Title and body are required; an empty slug is
// derived from the author's username and the title. A slug collision fails
// with ErrDuplicateSlug and nothing is persisted.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if err := validatePost(p.Title, p.Body); err != nil {
		return nil, err
	}

	if p.BodyFormat != models.BodyFormatHTML {
		p.BodyFormat = models.BodyFormatMarkdown
	}

	if p.Slug == "" {
		var username string
		err := s.db.QueryRow(`SELECT username FROM users WHERE id = $1`, p.AuthorID).Scan(&username)
		if err == sql.ErrNoRows {
			return nil, &ValidationError{Field: "author", Reason: "unknown user"}
		}
		if err != nil {
			return nil, fmt.Errorf("resolve post author: %w", err)
		}
		p.Slug = slug.ForPost(username, p.Title)
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (title, body, body_format, slug, category_id, author_id, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.Title, p.Body, p.BodyFormat, p.Slug, p.CategoryID, p.AuthorID, p.ImageKey,
	)
	created, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create post %q: %w", p.Slug, ErrDuplicateSlug)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update modifies an existing post and refreshes its updated timestamp.
// The slug and publish timestamp never change after creation. Callers must
// have verified ownership: only the post's author may update it.
func (s *PostStore) Update(p *models.Post) error {
	if err := validatePost(p.Title, p.Body); err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, body = $2, body_format = $3, category_id = $4,
			image_key = $5, updated_at = NOW()
		WHERE id = $6
	`, p.Title, p.Body, p.BodyFormat, p.CategoryID, p.ImageKey, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post. The database cascades the delete to the post's
// whole comment tree; the caller removes the stored image file.
func (s *PostStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves a post by ID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug with author and category names
// populated. Returns nil if not found.
func (s *PostStore) FindBySlug(postSlug string) (*models.Post, error) {
	var p models.Post
	err := s.db.QueryRow(`
		SELECT `+postJoinColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1
	`, postSlug).Scan(
		&p.ID, &p.Title, &p.Body, &p.BodyFormat, &p.Slug, &p.CategoryID,
		&p.AuthorID, &p.ImageKey, &p.PublishedAt, &p.UpdatedAt,
		&p.AuthorName, &p.CategoryName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return &p, nil
}

// List returns a page of posts ordered most recently updated first, with
// author and category names populated.
func (s *PostStore) List(limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postJoinColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.updated_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return scanPostRows(rows)
}

// ListByCategoryName returns all posts whose category name matches
// exactly, most recently updated first.
func (s *PostStore) ListByCategoryName(name string) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postJoinColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		WHERE c.name = $1
		ORDER BY p.updated_at DESC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	return scanPostRows(rows)
}

// ListAll returns every post in insertion order (oldest first). The
// popularity ranking sorts this by view count; a stable sort then leaves
// ties in insertion order.
func (s *PostStore) ListAll() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postJoinColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list all posts: %w", err)
	}
	return scanPostRows(rows)
}

// Related returns up to limit posts sharing the given post's category,
// excluding the post itself. With a single category per post the shared-
// category count is the same for every candidate, so the ordering reduces
// to publish time descending. Posts without a category have no relatives.
func (s *PostStore) Related(p *models.Post, limit int) ([]models.Post, error) {
	if p.CategoryID == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT `+postJoinColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1 AND p.id != $2
		ORDER BY p.published_at DESC
		LIMIT $3
	`, *p.CategoryID, p.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("related posts: %w", err)
	}
	return scanPostRows(rows)
}

// Count returns the total number of posts.
func (s *PostStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// CountComments returns the number of comments on a post.
func (s *PostStore) CountComments(postID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

func scanPostRows(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Body, &p.BodyFormat, &p.Slug, &p.CategoryID,
			&p.AuthorID, &p.ImageKey, &p.PublishedAt, &p.UpdatedAt,
			&p.AuthorName, &p.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
