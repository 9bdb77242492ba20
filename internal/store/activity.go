package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
)

// ActivityStore defines the interface for the per-user activity log read by
// the rhythm analysis.
type ActivityStore interface {
	// Record appends one activity event.
	// Returns ErrInvalidEntity if the event fails validation.
	Record(ctx context.Context, event *domain.ActivityEvent) error

	// ListSince returns a user's events at or after since, oldest first.
	// Returns an empty slice if there are none.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.ActivityEvent, error)

	// WithTx returns a new ActivityStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ActivityStore
}
