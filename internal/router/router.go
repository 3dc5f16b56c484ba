// Package router sets up all HTTP routes and middleware chains for the
// blog. Public pages, the comment endpoints and the authenticated author
// area share one router with layered middleware groups.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
	"inkwell/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. media serves uploaded images under
// mediaPrefix when the disk backend is active; pass nil when images live
// on object storage and resolve to absolute URLs instead.
func New(sessionStore *session.Store, auth *handlers.Auth, public *handlers.Public, blog *handlers.Blog, media http.Handler, mediaPrefix string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no CSRF.
	r.Get("/health", healthHandler)

	// Embedded page scripts.
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))

	if media != nil {
		prefix := strings.TrimSuffix(mediaPrefix, "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, media))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth pages.
		r.Get("/login", auth.LoginPage)
		r.Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// Author area — requires a session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthor)
			r.Get("/create", blog.CreateForm)
			r.Post("/create", blog.CreateSubmit)
			r.Get("/{slug}/edit", blog.EditForm)
			r.Post("/{slug}/edit", blog.EditSubmit)
			r.Post("/delete", blog.Delete)
		})

		// Comments — open to readers.
		r.Post("/comment", public.CommentCreate)
		r.Post("/comment/reply", public.CommentReply)

		// Public pages.
		r.Get("/", public.Feed)
		r.Get("/category/{name}", public.ByCategory)
		r.Get("/get/category/", public.CategoryList)
		r.Get("/{slug}", public.Detail)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
