// Package handlers implements the HTTP handlers for the blog: the public
// reader pages, the author write paths, and the login flow.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/hits"
	"inkwell/internal/listing"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// Public groups handlers for the reader-facing pages: the paginated feed,
// post detail with view counting, category listings, and the comment
// endpoints. Listing pages go through the Valkey page cache; the detail
// page never does, so every view reaches the hit counter.
type Public struct {
	renderer   *render.Renderer
	engine     *listing.Engine
	posts      *store.PostStore
	comments   *store.CommentStore
	categories *store.CategoryStore
	counter    *hits.Counter
	pageCache  *cache.PageCache
	media      storage.Store
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, engine *listing.Engine, posts *store.PostStore, comments *store.CommentStore, categories *store.CategoryStore, counter *hits.Counter, pageCache *cache.PageCache, media storage.Store) *Public {
	return &Public{
		renderer:   renderer,
		engine:     engine,
		posts:      posts,
		comments:   comments,
		categories: categories,
		counter:    counter,
		pageCache:  pageCache,
		media:      media,
	}
}

// postView is a post decorated with its resolved image URL for templates.
type postView struct {
	models.Post
	ImageURL string
}

// imageURL resolves a post's image URL. Returns "" when no image is
// attached or no storage backend is configured; it never fails.
func imageURL(media storage.Store, p *models.Post) string {
	if media == nil || !p.HasImage() {
		return ""
	}
	return media.URL(*p.ImageKey)
}

func (h *Public) views(posts []models.Post) []postView {
	result := make([]postView, len(posts))
	for i, p := range posts {
		result[i] = postView{Post: p, ImageURL: imageURL(h.media, &p)}
	}
	return result
}

// Feed renders one page of the chronological post feed. The page query
// parameter is clamped, never rejected.
func (h *Public) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageParam := r.URL.Query().Get("page")
	if pageParam == "" {
		pageParam = "1"
	}

	// Page-param keyed cache: clamped aliases of the same page may cache
	// twice, which the short TTL makes harmless. Rendered pages embed the
	// session nav, so only anonymous requests touch the cache.
	anonymous := middleware.SessionFromCtx(ctx) == nil
	cacheKey := cache.FeedKey(listing.ClampPage(pageParam, 1<<30))
	if anonymous {
		if cached, ok := h.pageCache.Get(ctx, cacheKey); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	page, err := h.engine.Feed(pageParam)
	if err != nil {
		slog.Error("feed failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := h.renderer.Render(r, "feed", &render.PageData{
		Title: "Blog",
		Data: map[string]any{
			"Posts":    h.views(page.Posts),
			"Page":     page,
			"PrevPage": page.Number - 1,
			"NextPage": page.Number + 1,
		},
	})
	if err != nil {
		slog.Error("render feed failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if anonymous {
		h.pageCache.Set(ctx, cacheKey, html)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// Detail renders a post's detail page and counts the view. The hit
// happens before rendering so the displayed count includes this view.
func (h *Public) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postSlug := chi.URLParam(r, "slug")

	post, err := h.posts.FindBySlug(postSlug)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", postSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	total, err := h.counter.Hit(ctx, post.ID)
	if err != nil {
		// A broken counter should not take down the page.
		slog.Warn("hit count failed", "error", err, "post", post.ID)
	}

	related, err := h.engine.Related(post)
	if err != nil {
		slog.Error("related posts failed", "error", err)
	}

	popular, err := h.engine.Popular(ctx)
	if err != nil {
		slog.Error("popular posts failed", "error", err)
	}

	comments, err := h.comments.TreeByPost(post.ID)
	if err != nil {
		slog.Error("load comments failed", "error", err)
	}

	var categoryPath string
	if post.CategoryID != nil {
		if _, path, err := h.categories.AncestorPath(*post.CategoryID); err == nil {
			categoryPath = path
		}
	}

	bodyHTML := post.Body
	if post.BodyFormat == models.BodyFormatMarkdown {
		if converted, err := markdown.ToHTML(post.Body); err == nil {
			bodyHTML = converted
		} else {
			slog.Warn("markdown render failed", "error", err, "post", post.ID)
		}
	}

	sess := middleware.SessionFromCtx(ctx)
	isOwner := sess != nil && post.OwnedBy(sess.UserID)

	h.renderer.Page(w, r, "detail", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":         postView{Post: *post, ImageURL: imageURL(h.media, post)},
			"BodyHTML":     bodyHTML,
			"CategoryPath": categoryPath,
			"Hits":         total,
			"Related":      h.views(related),
			"Popular":      popular,
			"Comments":     comments,
			"IsOwner":      isOwner,
		},
	})
}

// ByCategory lists posts filed under the named category, most recently
// updated first.
func (h *Public) ByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	anonymous := middleware.SessionFromCtx(ctx) == nil
	cacheKey := cache.CategoryKey(name)
	if anonymous {
		if cached, ok := h.pageCache.Get(ctx, cacheKey); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	posts, err := h.engine.ByCategory(name)
	if err != nil {
		slog.Error("list by category failed", "error", err, "category", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := h.renderer.Render(r, "category", &render.PageData{
		Title: name,
		Data: map[string]any{
			"Category": name,
			"Posts":    h.views(posts),
		},
	})
	if err != nil {
		slog.Error("render category failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if anonymous {
		h.pageCache.Set(ctx, cacheKey, html)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// CategoryList returns the whole category forest as JSON, nested with
// sibling order by last update.
func (h *Public) CategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.Tree()
	if err != nil {
		slog.Error("category tree failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, "error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"category": categories})
}

// CommentCreate handles a top-level comment submission.
func (h *Public) CommentCreate(w http.ResponseWriter, r *http.Request) {
	h.createComment(w, r, nil)
}

// CommentReply handles a reply to an existing comment.
func (h *Public) CommentReply(w http.ResponseWriter, r *http.Request) {
	parentParam := r.FormValue("parent_id")
	parentID, err := uuid.Parse(parentParam)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, "invalid parent")
		return
	}
	h.createComment(w, r, &parentID)
}

// createComment persists a comment or reply and answers with a JSON
// status string, matching what the page scripts expect.
func (h *Public) createComment(w http.ResponseWriter, r *http.Request, parentID *uuid.UUID) {
	postID, err := uuid.Parse(r.FormValue("post_id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, "invalid post")
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	content := r.FormValue("content")

	if msg := validateCommentForm(name, email, content); msg != "" {
		respondJSON(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.posts.FindByID(postID)
	if err != nil {
		slog.Error("find post for comment failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, "error")
		return
	}
	if post == nil {
		respondJSON(w, http.StatusNotFound, "post not found")
		return
	}

	c := &models.Comment{
		PostID:   postID,
		ParentID: parentID,
		Name:     name,
		Content:  content,
	}
	if email != "" {
		c.Email = &email
	}
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		c.Username = &sess.Username
	}

	if _, err := h.comments.Create(c); err != nil {
		if store.IsValidation(err) {
			respondJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create comment failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, "error")
		return
	}

	h.pageCache.InvalidateAll(r.Context())

	if parentID != nil {
		respondJSON(w, http.StatusOK, "reply success")
		return
	}
	respondJSON(w, http.StatusOK, "comment success")
}

// respondJSON writes a bare JSON string status, the shape the blog's
// page scripts consume.
func respondJSON(w http.ResponseWriter, status int, message string) {
	payload, err := json.Marshal(message)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
