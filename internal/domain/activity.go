package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies a user action recorded for rhythm analysis.
type ActivityType string

// Recorded activity types.
const (
	ActivitySessionStarted   ActivityType = "session_started"
	ActivityStonePlaced      ActivityType = "stone_placed"
	ActivitySessionCompleted ActivityType = "session_completed"
	ActivitySessionAbandoned ActivityType = "session_abandoned"
)

// ErrEmptyActivityUserID is returned when an activity event has no user.
var ErrEmptyActivityUserID = errors.New("activity user ID cannot be empty")

// ActivityEvent is one timestamped user action.
type ActivityEvent struct {
	UserID     uuid.UUID    `json:"user_id"`
	Type       ActivityType `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Validate checks if the ActivityEvent has valid data.
func (e *ActivityEvent) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrEmptyActivityUserID
	}

	if !isValidActivityType(e.Type) {
		return ErrInvalidActivityType
	}

	return nil
}

func isValidActivityType(t ActivityType) bool {
	switch t {
	case ActivitySessionStarted, ActivityStonePlaced, ActivitySessionCompleted, ActivitySessionAbandoned:
		return true
	default:
		return false
	}
}
