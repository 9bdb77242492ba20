package domain

import "time"

// SessionStatus is a state of the play-session state machine.
type SessionStatus string

// Possible session states. The finished_* states and SessionAbandoned are terminal.
const (
	SessionIdle              SessionStatus = "idle"
	SessionShowing           SessionStatus = "showing"
	SessionPlaying           SessionStatus = "playing"
	SessionSubmitting        SessionStatus = "submitting"
	SessionFinishedExcellent SessionStatus = "finished_excellent"
	SessionFinishedSuccess   SessionStatus = "finished_success"
	SessionFinishedFail      SessionStatus = "finished_fail"
	SessionAbandoned         SessionStatus = "abandoned"
)

// IsTerminal reports whether no further transition can leave s.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionFinishedExcellent, SessionFinishedSuccess, SessionFinishedFail, SessionAbandoned:
		return true
	default:
		return false
	}
}

// PlacedStone is one placement attempt made during the playing state.
type PlacedStone struct {
	Position  GridPoint `json:"position"`
	Correct   bool      `json:"correct"`
	ClickedAt time.Time `json:"clicked_at"`
}

// SessionState is a snapshot of one play session.
// StartTime is the moment the playing state began; SubmittedAt is the moment
// input stopped. Both are zero until the corresponding transition happens.
type SessionState struct {
	State              SessionStatus `json:"state"`
	PlacedStones       []PlacedStone `json:"placed_stones"`
	UsedStonesCount    int           `json:"used_stones_count"`
	StartTime          time.Time     `json:"start_time"`
	SubmittedAt        time.Time     `json:"submitted_at"`
	TotalAllowedStones int           `json:"total_allowed_stones"`
}

// CorrectPlacements counts the stones that claimed a word position.
func (s *SessionState) CorrectPlacements() int {
	n := 0
	for _, stone := range s.PlacedStones {
		if stone.Correct {
			n++
		}
	}
	return n
}

// Elapsed is the time spent in the playing state. It is zero when play never
// started or input has not stopped yet.
func (s *SessionState) Elapsed() time.Duration {
	if s.StartTime.IsZero() || s.SubmittedAt.IsZero() {
		return 0
	}
	return s.SubmittedAt.Sub(s.StartTime)
}

// RemainingStones is the unused part of the stone budget.
func (s *SessionState) RemainingStones() int {
	if r := s.TotalAllowedStones - s.UsedStonesCount; r > 0 {
		return r
	}
	return 0
}
