package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/imaging"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// Blog groups the authenticated author handlers: creating, editing and
// deleting posts.
type Blog struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	media      storage.Store
	pageCache  *cache.PageCache
}

// NewBlog creates a new Blog handler group.
func NewBlog(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, media storage.Store, pageCache *cache.PageCache) *Blog {
	return &Blog{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		media:      media,
		pageCache:  pageCache,
	}
}

// formData assembles the post form's template data. The flat category tree
// gives the select box indented options in hierarchy order.
func (h *Blog) formData(isNew bool) (map[string]any, error) {
	cats, err := h.categories.FlatTree()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"IsNew":      isNew,
		"Categories": cats,
		"Title":      "",
		"Body":       "",
		"CategoryID": "",
	}, nil
}

func (h *Blog) renderForm(w http.ResponseWriter, r *http.Request, data map[string]any, flashes []render.Flash) {
	h.renderer.Page(w, r, "post_form", &render.PageData{
		Title:   "Write",
		Data:    data,
		Flashes: flashes,
	})
}

// CreateForm renders the empty post form.
func (h *Blog) CreateForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.formData(true)
	if err != nil {
		slog.Error("load categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.renderForm(w, r, data, nil)
}

// CreateSubmit creates a post from the submitted form. The post is saved
// first; the image is processed afterwards, so a bad upload never loses
// the written text.
func (h *Blog) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	body := r.FormValue("body")

	data, err := h.formData(true)
	if err != nil {
		slog.Error("load categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data["Title"] = title
	data["Body"] = body
	data["CategoryID"] = r.FormValue("category_id")

	if msg := validatePostForm(title, body); msg != "" {
		data["Error"] = msg
		h.renderForm(w, r, data, nil)
		return
	}

	post := &models.Post{
		Title:      title,
		Body:       body,
		AuthorID:   sess.UserID,
		CategoryID: parseCategoryID(r.FormValue("category_id")),
	}

	created, err := h.posts.Create(post)
	if err != nil {
		var verr *store.ValidationError
		switch {
		case errors.Is(err, store.ErrDuplicateSlug):
			data["Error"] = "You already have a post with this title. Pick a different one."
		case errors.As(err, &verr):
			data["Error"] = fmt.Sprintf("Invalid %s: %s.", verr.Field, verr.Reason)
		default:
			slog.Error("create post failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		h.renderForm(w, r, data, nil)
		return
	}

	flashes := []render.Flash{{Type: "success", Message: fmt.Sprintf("%q created!", created.Title)}}
	if flash := h.attachImage(r, created); flash != nil {
		flashes = append(flashes, *flash)
	}

	h.pageCache.InvalidateAll(r.Context())

	fresh, err := h.formData(true)
	if err != nil {
		slog.Error("load categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.renderForm(w, r, fresh, flashes)
}

// EditForm renders the form pre-filled with an existing post. Only the
// post's author may edit it.
func (h *Blog) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.ownedPost(w, r)
	if !ok {
		return
	}

	data, err := h.formData(false)
	if err != nil {
		slog.Error("load categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data["Title"] = post.Title
	data["Body"] = post.Body
	if post.CategoryID != nil {
		data["CategoryID"] = post.CategoryID.String()
	}
	data["ImageURL"] = imageURL(h.media, post)

	h.renderForm(w, r, data, nil)
}

// EditSubmit applies form changes to an existing post. The slug never
// changes, so the post's URL and image key stay stable across edits.
func (h *Blog) EditSubmit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.ownedPost(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	body := r.FormValue("body")

	data, err := h.formData(false)
	if err != nil {
		slog.Error("load categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data["Title"] = title
	data["Body"] = body
	data["CategoryID"] = r.FormValue("category_id")
	data["ImageURL"] = imageURL(h.media, post)

	if msg := validatePostForm(title, body); msg != "" {
		data["Error"] = msg
		h.renderForm(w, r, data, nil)
		return
	}

	post.Title = title
	post.Body = body
	post.CategoryID = parseCategoryID(r.FormValue("category_id"))

	flashes := []render.Flash{{Type: "success", Message: "Updated Successfully!"}}
	if flash := h.attachImage(r, post); flash != nil {
		flashes = append(flashes, *flash)
	}

	if err := h.posts.Update(post); err != nil {
		slog.Error("update post failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.pageCache.InvalidateAll(r.Context())

	data["ImageURL"] = imageURL(h.media, post)
	h.renderForm(w, r, data, flashes)
}

// Delete removes a post and its stored image. The comment tree goes with
// the post via the database cascade.
func (h *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	postID, err := uuid.Parse(r.FormValue("deleteData"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.posts.FindByID(postID)
	if err != nil {
		slog.Error("load post failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, "internal error")
		return
	}
	if post == nil {
		respondJSON(w, http.StatusNotFound, "post not found")
		return
	}
	if !post.OwnedBy(sess.UserID) {
		respondJSON(w, http.StatusForbidden, "not your post")
		return
	}

	if post.HasImage() {
		if err := h.media.Delete(r.Context(), *post.ImageKey); err != nil {
			slog.Warn("delete post image failed", "key", *post.ImageKey, "error", err)
		}
	}

	if err := h.posts.Delete(post.ID); err != nil {
		slog.Error("delete post failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, "post deleted")
}

// ownedPost loads the post named by the slug route parameter and enforces
// that the session user is its author. It writes the error response itself
// and reports whether the caller may proceed.
func (h *Blog) ownedPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	sess := middleware.SessionFromCtx(r.Context())

	post, err := h.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("load post failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if post == nil {
		http.NotFound(w, r)
		return nil, false
	}
	if !post.OwnedBy(sess.UserID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return post, true
}

// attachImage processes an uploaded image for the post: resize to the
// thumbnail bounds, store under the post's image key, record the key on
// the post row. A missing upload is a no-op. Failures never undo the post;
// the returned flash tells the author what happened.
func (h *Blog) attachImage(r *http.Request, post *models.Post) *render.Flash {
	file, _, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil
	}
	if err != nil {
		return &render.Flash{Type: "warning", Message: "The image could not be read; the post was saved without it."}
	}
	defer file.Close()

	source, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return &render.Flash{Type: "warning", Message: "The image could not be read; the post was saved without it."}
	}
	if len(source) > maxImageBytes {
		return &render.Flash{Type: "warning", Message: "The image is too large (max 8 MB); the post was saved without it."}
	}

	thumb, err := imaging.Thumbnail(source)
	if err != nil {
		slog.Warn("image processing failed", "post", post.ID, "error", err)
		return &render.Flash{Type: "warning", Message: "The image could not be processed; the post was saved without it."}
	}

	key := storage.PostImageKey(post.AuthorID, post.Slug)
	if err := h.media.Save(r.Context(), key, "image/jpeg", thumb); err != nil {
		slog.Error("store post image failed", "key", key, "error", err)
		return &render.Flash{Type: "warning", Message: "The image could not be stored; the post was saved without it."}
	}

	post.ImageKey = &key
	if err := h.posts.Update(post); err != nil {
		slog.Error("record image key failed", "post", post.ID, "error", err)
		return &render.Flash{Type: "warning", Message: "The image could not be linked; the post was saved without it."}
	}
	return nil
}

// parseCategoryID turns the form's category select value into an optional
// category id. The empty option and malformed values both mean "none".
func parseCategoryID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}
