package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by write operations that matched no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlug is returned when a post insert collides with an
	// existing slug. It is raised only from the database's unique-violation
	// error code, never inferred from a generic failure.
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrTreeCycle is returned when a category re-parent would close a
	// cycle. The forest invariant is enforced at write time.
	ErrTreeCycle = errors.New("parent change would create a cycle")
)

// ValidationError reports an empty or malformed required field. Handlers
// show it as a form notice rather than an error page.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
