// Package web provides embedded static assets for the blog pages.
// Styling comes from the Tailwind CDN; the embedded files are the page
// scripts served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
