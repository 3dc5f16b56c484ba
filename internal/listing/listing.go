// Package listing is the read-side query layer for the public blog pages:
// the paginated feed, category listings, related posts, and the
// popularity ranking. It holds no state beyond its collaborators and the
// configured page size.
package listing

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

const (
	// relatedLimit caps the related-posts box on the detail page.
	relatedLimit = 1

	// popularLimit caps the popular-posts box.
	popularLimit = 3
)

// PostSource is the slice of the post store the engine reads from.
type PostSource interface {
	List(limit, offset int) ([]models.Post, error)
	Count() (int, error)
	ListByCategoryName(name string) ([]models.Post, error)
	ListAll() ([]models.Post, error)
	Related(p *models.Post, limit int) ([]models.Post, error)
}

// HitSource supplies view counts for the popularity ranking.
type HitSource interface {
	Counts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// Engine computes the blog's listings. The page size comes from
// configuration, not a package constant.
type Engine struct {
	posts    PostSource
	hits     HitSource
	pageSize int
}

// New creates a listing engine. pageSize must be positive.
func New(posts PostSource, hits HitSource, pageSize int) *Engine {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Engine{posts: posts, hits: hits, pageSize: pageSize}
}

// Page is one page of the chronological feed.
type Page struct {
	Posts      []models.Post
	Number     int // 1-based page number after clamping
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Feed returns one page of all posts, most recently updated first. The
// page parameter comes straight from the query string: non-numeric values
// and values below 1 clamp to the first page, values past the end clamp
// to the last page. Out-of-range input is a boundary to clamp, never an
// error.
func (e *Engine) Feed(pageParam string) (*Page, error) {
	total, err := e.posts.Count()
	if err != nil {
		return nil, err
	}

	totalPages := (total + e.pageSize - 1) / e.pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	number := ClampPage(pageParam, totalPages)

	posts, err := e.posts.List(e.pageSize, (number-1)*e.pageSize)
	if err != nil {
		return nil, err
	}

	return &Page{
		Posts:      posts,
		Number:     number,
		TotalPages: totalPages,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
	}, nil
}

// ClampPage parses a page parameter and clamps it to [1, totalPages].
func ClampPage(pageParam string, totalPages int) int {
	number, err := strconv.Atoi(pageParam)
	if err != nil || number < 1 {
		return 1
	}
	if number > totalPages {
		return totalPages
	}
	return number
}

// ByCategory returns all posts whose category name matches exactly, most
// recently updated first.
func (e *Engine) ByCategory(name string) ([]models.Post, error) {
	return e.posts.ListByCategoryName(name)
}

// Related returns the top related post for the given post: same category,
// excluding the post itself, ranked by shared-category count then publish
// time descending. At most one result, possibly none.
func (e *Engine) Related(p *models.Post) ([]models.Post, error) {
	return e.posts.Related(p, relatedLimit)
}

// Popular returns the top posts by recorded view count, at most three.
// Ties keep insertion order, so a post with zero views always ranks below
// any viewed post and never above an older unviewed one.
func (e *Engine) Popular(ctx context.Context) ([]models.Post, error) {
	posts, err := e.posts.ListAll()
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	counts, err := e.hits.Counts(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].Hits = counts[posts[i].ID]
	}

	// Stable keeps insertion order among equal counts.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Hits > posts[j].Hits
	})

	if len(posts) > popularLimit {
		posts = posts[:popularLimit]
	}
	return posts, nil
}
