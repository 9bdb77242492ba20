// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidContent is returned when a sentence or board fails content
	// checks (duplicate words, overflowing words, bad word count).
	ErrInvalidContent = errors.New("invalid board content")

	// ErrInvalidLayout is returned when word positions break the geometric
	// invariants of a board (out of bounds, shared cells, collinear triples).
	ErrInvalidLayout = errors.New("invalid board layout")

	// ErrInvalidResultType is returned when a score result type is not valid.
	ErrInvalidResultType = errors.New("invalid result type")

	// ErrInvalidActivityType is returned when an activity event type is not valid.
	ErrInvalidActivityType = errors.New("invalid activity type")

	// ErrUnknownDifficulty is returned when no difficulty preset matches a level.
	ErrUnknownDifficulty = errors.New("unknown difficulty level")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
