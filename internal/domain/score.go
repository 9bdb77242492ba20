package domain

// ResultType is the discrete verdict of a scored session.
type ResultType string

// Possible verdicts, best first.
const (
	ResultExcellent ResultType = "EXCELLENT"
	ResultSuccess   ResultType = "SUCCESS"
	ResultFail      ResultType = "FAIL"
)

// IsValid reports whether r is one of the known verdicts.
func (r ResultType) IsValid() bool {
	switch r {
	case ResultExcellent, ResultSuccess, ResultFail:
		return true
	default:
		return false
	}
}

// TerminalStatus maps a verdict to the session state it ends in.
func (r ResultType) TerminalStatus() (SessionStatus, error) {
	switch r {
	case ResultExcellent:
		return SessionFinishedExcellent, nil
	case ResultSuccess:
		return SessionFinishedSuccess, nil
	case ResultFail:
		return SessionFinishedFail, nil
	default:
		return "", ErrInvalidResultType
	}
}

// ScoreResult is the graded outcome of a session. OrderCorrect is reported
// independently of ResultType so callers can tell "complete but out of
// order" from "complete and in order".
type ScoreResult struct {
	ResultType   ResultType `json:"result_type"`
	Score        float64    `json:"score"`
	OrderCorrect bool       `json:"order_correct"`
}

// ProgressionState is the experience/level view derived from usage inputs.
type ProgressionState struct {
	Level            int     `json:"level"`
	TotalXP          float64 `json:"total_xp"`
	NextLevel        int     `json:"next_level"`
	CurrentThreshold float64 `json:"current_threshold"`
	NextThreshold    float64 `json:"next_threshold"`
	ProgressToNext   float64 `json:"progress_to_next"`
}
