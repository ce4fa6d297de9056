package errors

import (
	"errors"
	"fmt"
)

// Sentinels for the engine's error taxonomy. Services wrap these with
// fmt.Errorf("...: %w", ...) so callers can branch with errors.Is.
var (
	// ErrValidation covers missing/empty required fields and structurally
	// invalid input (from==to relations, self-merge requests).
	ErrValidation = errors.New("validation error")
	// ErrConflict means a label/name/code collides with a different
	// existing entity.
	ErrConflict = errors.New("conflict")
	// ErrLint means a write was blocked because the term semantically
	// overlaps another vocabulary (unit-as-tag, attribute-type-as-tag,
	// blended physical attribute name).
	ErrLint = errors.New("lint error")
	// ErrNotFound means an unknown id or code was passed to
	// update/promote/merge/link.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means no principal was supplied with the call.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAuthorized means the permission oracle refused the principal.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrOrdering means a governance ordering rule was violated: a value
	// promoted before its type, or a workspace draft requested for a
	// centrally curated vocabulary with no global match.
	ErrOrdering = errors.New("ordering error")
)

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func Lintf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrLint, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Orderingf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrOrdering, fmt.Sprintf(format, args...))
}

// Is re-exports errors.Is so callers importing this package do not also
// need the stdlib errors package.
func Is(err, target error) bool { return errors.Is(err, target) }
