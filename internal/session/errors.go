package session

import "errors"

// Common errors returned by Session operations
var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current state
	ErrInvalidTransition = errors.New("invalid session state transition")

	// ErrInputNotAccepted is returned when a placement arrives outside the
	// playing state
	ErrInputNotAccepted = errors.New("session is not accepting input")

	// ErrBudgetExhausted is returned when every allowed stone has been used
	ErrBudgetExhausted = errors.New("stone budget exhausted")

	// ErrNilContent is returned when a session is created without board content
	ErrNilContent = errors.New("board content cannot be nil")
)
