package store

import (
	"errors"
	"fmt"
)

// Errors shared by all store implementations. Implementations wrap the
// driver error so callers can match these with errors.Is.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write would break a uniqueness rule,
	// such as a second outcome for one session.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when a record fails validation or a
	// database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrOutcomeNotFound indicates that no outcome was stored for a session.
	ErrOutcomeNotFound = fmt.Errorf("%w: session outcome", ErrNotFound)

	// ErrOutcomeExists indicates that an outcome for the session was already stored.
	ErrOutcomeExists = fmt.Errorf("%w: session outcome", ErrDuplicate)
)

// IsNotFoundError reports whether err is, or wraps, ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is, or wraps, ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
