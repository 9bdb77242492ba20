package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/wordstone/internal/api/shared"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/generation"
	"github.com/phrazzld/wordstone/internal/service"
	"github.com/phrazzld/wordstone/internal/service/auth"
	"github.com/phrazzld/wordstone/internal/session"
	"github.com/phrazzld/wordstone/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error types themselves.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrSessionNotScored),
		errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrInputNotAccepted),
		errors.Is(err, session.ErrBudgetExhausted):
		return http.StatusConflict

	case errors.Is(err, domain.ErrUnknownDifficulty),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrInvalidContent),
		errors.Is(err, generation.ErrNoValidContent):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrGenerationExhausted),
		errors.Is(err, generation.ErrSourceUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Invalid token"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this session"
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, store.ErrNotFound):
		return "Session not found"
	case errors.Is(err, service.ErrSessionNotScored):
		return "Session was abandoned and has no score"
	case errors.Is(err, session.ErrBudgetExhausted):
		return "No stones left"
	case errors.Is(err, session.ErrInputNotAccepted):
		return "Session is not accepting input"
	case errors.Is(err, session.ErrInvalidTransition):
		return "Session cannot do that in its current state"

	case errors.Is(err, domain.ErrUnknownDifficulty):
		return "Unknown difficulty level"
	case errors.Is(err, domain.ErrInvalidContent):
		return "Sentence cannot be played at this difficulty"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	case errors.Is(err, generation.ErrNoValidContent):
		return "No playable sentence available"
	case errors.Is(err, generation.ErrGenerationExhausted):
		return "Could not lay out the board, try again"
	case errors.Is(err, generation.ErrSourceUnavailable):
		return "Sentence source unavailable, try again later"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err.
// fallback replaces the generic message of unmapped 5xx errors when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
