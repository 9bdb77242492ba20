package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/platform/logger"
	"github.com/phrazzld/wordstone/internal/store"
)

// PostgresOutcomeStore implements the store.OutcomeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresOutcomeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOutcomeStore creates a new PostgreSQL implementation of the OutcomeStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresOutcomeStore(db store.DBTX, logger *slog.Logger) *PostgresOutcomeStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOutcomeStore{
		db:     db,
		logger: logger.With(slog.String("component", "outcome_store")),
	}
}

// Ensure PostgresOutcomeStore implements store.OutcomeStore interface
var _ store.OutcomeStore = (*PostgresOutcomeStore)(nil)

// Create implements store.OutcomeStore.Create.
// The telemetry record is stored as JSONB.
func (s *PostgresOutcomeStore) Create(ctx context.Context, outcome *domain.SessionOutcome) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := outcome.Validate(); err != nil {
		log.Warn("outcome validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", outcome.SessionID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	telemetry, err := json.Marshal(outcome.Telemetry)
	if err != nil {
		return fmt.Errorf("%w: telemetry cannot be encoded: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO session_outcomes (
			id, user_id, session_id, difficulty_level, language,
			result_type, score, order_correct,
			correct_placements, total_words, used_stones, elapsed_ms,
			telemetry, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		outcome.ID,
		outcome.UserID,
		outcome.SessionID,
		outcome.DifficultyLevel,
		outcome.Language,
		string(outcome.Result.ResultType),
		outcome.Result.Score,
		outcome.Result.OrderCorrect,
		outcome.CorrectPlacements,
		outcome.TotalWords,
		outcome.UsedStones,
		outcome.ElapsedMs,
		telemetry,
		outcome.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("outcome already stored for session",
				slog.String("session_id", outcome.SessionID.String()))
			return fmt.Errorf("%w: session %s", store.ErrOutcomeExists, outcome.SessionID)
		}

		log.Error("failed to create outcome",
			slog.String("error", err.Error()),
			slog.String("session_id", outcome.SessionID.String()),
			slog.String("user_id", outcome.UserID.String()))
		return MapError(err)
	}

	log.Info("outcome created",
		slog.String("outcome_id", outcome.ID.String()),
		slog.String("session_id", outcome.SessionID.String()),
		slog.String("result", string(outcome.Result.ResultType)))
	return nil
}

// GetBySessionID implements store.OutcomeStore.GetBySessionID.
func (s *PostgresOutcomeStore) GetBySessionID(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.SessionOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, session_id, difficulty_level, language,
			result_type, score, order_correct,
			correct_placements, total_words, used_stones, elapsed_ms,
			telemetry, created_at
		FROM session_outcomes
		WHERE session_id = $1
	`

	var (
		outcome    domain.SessionOutcome
		resultType string
		telemetry  []byte
	)
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&outcome.ID,
		&outcome.UserID,
		&outcome.SessionID,
		&outcome.DifficultyLevel,
		&outcome.Language,
		&resultType,
		&outcome.Result.Score,
		&outcome.Result.OrderCorrect,
		&outcome.CorrectPlacements,
		&outcome.TotalWords,
		&outcome.UsedStones,
		&outcome.ElapsedMs,
		&telemetry,
		&outcome.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("outcome not found", slog.String("session_id", sessionID.String()))
			return nil, store.ErrOutcomeNotFound
		}
		log.Error("failed to get outcome",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, MapError(err)
	}

	outcome.Result.ResultType = domain.ResultType(resultType)
	if err := json.Unmarshal(telemetry, &outcome.Telemetry); err != nil {
		return nil, fmt.Errorf("failed to decode telemetry of session %s: %w", sessionID, err)
	}

	return &outcome, nil
}

// UsageSummary implements store.OutcomeStore.UsageSummary.
func (s *PostgresOutcomeStore) UsageSummary(
	ctx context.Context,
	userID uuid.UUID,
) (store.UsageSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COALESCE(SUM(elapsed_ms), 0), COUNT(*), COALESCE(SUM(score), 0)
		FROM session_outcomes
		WHERE user_id = $1
	`

	var summary store.UsageSummary
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&summary.TotalUsageMs,
		&summary.SessionCount,
		&summary.ScoreSum,
	)
	if err != nil {
		log.Error("failed to summarize usage",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.UsageSummary{}, MapError(err)
	}

	log.Debug("usage summarized",
		slog.String("user_id", userID.String()),
		slog.Int("session_count", summary.SessionCount))
	return summary, nil
}

// WithTx implements store.OutcomeStore.WithTx.
func (s *PostgresOutcomeStore) WithTx(tx *sql.Tx) store.OutcomeStore {
	return &PostgresOutcomeStore{
		db:     tx,
		logger: s.logger,
	}
}
