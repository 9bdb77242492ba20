package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidResponse is returned when the API answers with something
	// that is not a usable sentence. It is not retried.
	ErrInvalidResponse = errors.New("invalid response from gemini")

	// ErrContentBlocked is returned when the safety filters blocked the answer.
	ErrContentBlocked = errors.New("content blocked by safety filters")

	// ErrTransientFailure is returned when retries ran out on temporary errors.
	ErrTransientFailure = errors.New("transient gemini failure")
)
