package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
)

// UsageSummary aggregates a user's finished sessions into the raw inputs of
// the progression model.
type UsageSummary struct {
	TotalUsageMs int64
	SessionCount int
	ScoreSum     float64
}

// OutcomeStore defines the interface for session outcome persistence.
type OutcomeStore interface {
	// Create saves a finalized session outcome.
	// Returns ErrInvalidEntity if the outcome fails validation and
	// ErrOutcomeExists if an outcome was already stored for the session.
	Create(ctx context.Context, outcome *domain.SessionOutcome) error

	// GetBySessionID retrieves the outcome of a session.
	// Returns ErrOutcomeNotFound if the session has no stored outcome.
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.SessionOutcome, error)

	// UsageSummary sums play time, session count and score over all of a
	// user's outcomes. A user without outcomes gets a zero summary.
	UsageSummary(ctx context.Context, userID uuid.UUID) (UsageSummary, error)

	// WithTx returns a new OutcomeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) OutcomeStore
}
