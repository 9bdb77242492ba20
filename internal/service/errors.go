package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/generation"
	"github.com/phrazzld/wordstone/internal/session"
	"github.com/phrazzld/wordstone/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a session is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrSessionNotFound indicates that no live session has the requested ID.
	// Finished sessions are dropped from the registry once their TTL expires.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotScored indicates that a session was abandoned or never
	// reached the submitting state, so it has no outcome.
	// API layer should map this to HTTP 409 Conflict.
	ErrSessionNotScored = errors.New("session has no outcome")
)

// GameServiceError wraps errors from the game and insight services with context.
type GameServiceError struct {
	// Operation is the operation that failed (e.g., "start_session", "place_stone")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for GameServiceError.
func (e *GameServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("game service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("game service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GameServiceError) Unwrap() error {
	return e.Err
}

// NewGameServiceError creates a new GameServiceError.
// Errors the caller is expected to act on are returned as is, so the API
// layer can match them with errors.Is.
func NewGameServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotOwned),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionNotScored):
		return err
	case errors.Is(err, store.ErrOutcomeNotFound):
		return ErrSessionNotFound
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrInputNotAccepted),
		errors.Is(err, session.ErrBudgetExhausted),
		errors.Is(err, domain.ErrUnknownDifficulty),
		errors.Is(err, domain.ErrInvalidContent),
		errors.Is(err, generation.ErrGenerationExhausted),
		errors.Is(err, generation.ErrNoValidContent),
		errors.Is(err, generation.ErrSourceUnavailable):
		return err
	}

	return &GameServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
