package dag

import "errors"

// Parse error kinds. Both abort the parse with no partial result; errors
// returned by Parse wrap these so callers can test with errors.Is.
var (
	// ErrMissingIdentifier is returned when a term descriptor has fewer
	// than the two mandatory fields (name and id).
	ErrMissingIdentifier = errors.New("term descriptor missing identifier")

	// ErrNoEnclosingTerm is returned when an is-a or part-of line appears
	// before any term is on the ancestor stack.
	ErrNoEnclosingTerm = errors.New("relation has no enclosing term")
)
