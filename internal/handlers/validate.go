package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for form fields.
const (
	maxTitleLen   = 250
	maxBodyLen    = 100_000
	maxNameLen    = 50
	maxEmailLen   = 254
	maxCommentLen = 10_000

	// maxImageBytes caps uploaded image size (8 MB).
	maxImageBytes = 8 << 20
)

// validatePostForm checks post form inputs and returns the first error found.
func validatePostForm(title, body string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 250 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "Body is required."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateCommentForm checks comment form inputs and returns the first error found.
func validateCommentForm(name, email, content string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 50 characters)."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	if strings.TrimSpace(content) == "" {
		return "Comment text is required."
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "Comment is too long (max 10,000 characters)."
	}
	return ""
}
