package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/platform/logger"
	"github.com/phrazzld/wordstone/internal/store"
)

// PostgresActivityStore implements the store.ActivityStore interface
// using a PostgreSQL database as the storage backend.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the ActivityStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

// Ensure PostgresActivityStore implements store.ActivityStore interface
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// Record implements store.ActivityStore.Record.
func (s *PostgresActivityStore) Record(ctx context.Context, event *domain.ActivityEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("activity validation failed",
			slog.String("error", err.Error()),
			slog.String("type", string(event.Type)))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO activity_events (user_id, type, occurred_at)
		VALUES ($1, $2, $3)
	`
	if _, err := s.db.ExecContext(ctx, query, event.UserID, string(event.Type), event.OccurredAt.UTC()); err != nil {
		log.Error("failed to record activity",
			slog.String("error", err.Error()),
			slog.String("user_id", event.UserID.String()),
			slog.String("type", string(event.Type)))
		return MapError(err)
	}

	log.Debug("activity recorded",
		slog.String("user_id", event.UserID.String()),
		slog.String("type", string(event.Type)))
	return nil
}

// ListSince implements store.ActivityStore.ListSince.
func (s *PostgresActivityStore) ListSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.ActivityEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, type, occurred_at
		FROM activity_events
		WHERE user_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, since.UTC())
	if err != nil {
		log.Error("failed to list activity",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	events := []domain.ActivityEvent{}
	for rows.Next() {
		var (
			event     domain.ActivityEvent
			eventType string
		)
		if err := rows.Scan(&event.UserID, &eventType, &event.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		event.Type = domain.ActivityType(eventType)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}

	log.Debug("activity listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(events)))
	return events, nil
}

// WithTx implements store.ActivityStore.WithTx.
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{
		db:     tx,
		logger: s.logger,
	}
}
