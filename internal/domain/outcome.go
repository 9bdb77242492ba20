package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for SessionOutcome
var (
	ErrEmptyOutcomeID        = errors.New("outcome ID cannot be empty")
	ErrEmptyOutcomeUserID    = errors.New("outcome user ID cannot be empty")
	ErrEmptyOutcomeSessionID = errors.New("outcome session ID cannot be empty")
	ErrInvalidPlacementCount = errors.New("correct placements must be between 0 and total words")
	ErrInvalidElapsed        = errors.New("elapsed time cannot be negative")
)

// SessionOutcome is the finalized record of a scored session, handed to the
// persistence boundary and later aggregated into progression and rhythm.
type SessionOutcome struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	SessionID         uuid.UUID       `json:"session_id"`
	DifficultyLevel   int             `json:"difficulty_level"`
	Language          string          `json:"language"`
	Result            ScoreResult     `json:"result"`
	CorrectPlacements int             `json:"correct_placements"`
	TotalWords        int             `json:"total_words"`
	UsedStones        int             `json:"used_stones"`
	ElapsedMs         int64           `json:"elapsed_ms"`
	Telemetry         TelemetryRecord `json:"telemetry"`
	CreatedAt         time.Time       `json:"created_at"`
}

// NewSessionOutcome assembles an outcome from a scored session snapshot.
// Returns an error if validation fails.
func NewSessionOutcome(
	userID, sessionID uuid.UUID,
	content *BoardContent,
	state SessionState,
	result ScoreResult,
	telemetry TelemetryRecord,
) (*SessionOutcome, error) {
	outcome := &SessionOutcome{
		ID:                uuid.New(),
		UserID:            userID,
		SessionID:         sessionID,
		DifficultyLevel:   content.DifficultyLevel,
		Language:          content.Language,
		Result:            result,
		CorrectPlacements: state.CorrectPlacements(),
		TotalWords:        content.TotalWords,
		UsedStones:        state.UsedStonesCount,
		ElapsedMs:         state.Elapsed().Milliseconds(),
		Telemetry:         telemetry,
		CreatedAt:         time.Now().UTC(),
	}

	if err := outcome.Validate(); err != nil {
		return nil, err
	}

	return outcome, nil
}

// Validate checks if the SessionOutcome has valid data.
func (o *SessionOutcome) Validate() error {
	if o.ID == uuid.Nil {
		return ErrEmptyOutcomeID
	}

	if o.UserID == uuid.Nil {
		return ErrEmptyOutcomeUserID
	}

	if o.SessionID == uuid.Nil {
		return ErrEmptyOutcomeSessionID
	}

	if !o.Result.ResultType.IsValid() {
		return ErrInvalidResultType
	}

	if o.CorrectPlacements < 0 || o.CorrectPlacements > o.TotalWords {
		return ErrInvalidPlacementCount
	}

	if o.ElapsedMs < 0 {
		return ErrInvalidElapsed
	}

	return nil
}
