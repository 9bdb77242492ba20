package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
)

// SessionEvent is one lifecycle event of a play session. Its Type uses the
// activity vocabulary so handlers can log it for rhythm analysis as is.
type SessionEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type      domain.ActivityType `json:"type"`
	UserID    uuid.UUID           `json:"user_id"`
	SessionID uuid.UUID           `json:"session_id"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// StonePlacedPayload is the payload of ActivityStonePlaced events.
type StonePlacedPayload struct {
	Position domain.GridPoint `json:"position"`
	Correct  bool             `json:"correct"`
}

// SessionCompletedPayload is the payload of ActivitySessionCompleted events.
type SessionCompletedPayload struct {
	Result    domain.ScoreResult `json:"result"`
	ElapsedMs int64              `json:"elapsed_ms"`
}

// NewSessionEvent creates an event with a fresh ID. A nil payload leaves
// Payload empty.
func NewSessionEvent(
	eventType domain.ActivityType,
	userID, sessionID uuid.UUID,
	occurredAt time.Time,
	payload any,
) (*SessionEvent, error) {
	event := &SessionEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		SessionID:  sessionID,
		OccurredAt: occurredAt,
	}

	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		event.Payload = payloadBytes
	}

	return event, nil
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *SessionEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Activity returns the activity log entry this event stands for.
func (e *SessionEvent) Activity() domain.ActivityEvent {
	return domain.ActivityEvent{
		UserID:     e.UserID,
		Type:       e.Type,
		OccurredAt: e.OccurredAt,
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *SessionEvent) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *SessionEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *SessionEvent) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *SessionEvent) error {
	return f(ctx, event)
}
