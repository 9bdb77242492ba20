// Package scoring grades a finished play session into a verdict and a
// numeric score. Scoring is a pure function of the session snapshot, its
// telemetry and the board content.
package scoring

import (
	"errors"
	"math"
	"time"

	"github.com/phrazzld/wordstone/internal/domain"
)

// Common errors
var (
	ErrNilContent = errors.New("board content cannot be nil")
)

// Service defines the interface for scoring operations
type Service interface {
	// Score grades a session that reached the submitting state
	Score(
		session domain.SessionState,
		telemetry domain.TelemetryRecord,
		content *domain.BoardContent,
	) (domain.ScoreResult, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scoring service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scoring service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Score implements the Service interface
func (s *defaultService) Score(
	session domain.SessionState,
	telemetry domain.TelemetryRecord,
	content *domain.BoardContent,
) (domain.ScoreResult, error) {
	if content == nil {
		return domain.ScoreResult{}, ErrNilContent
	}
	return Score(session, telemetry, content, s.params), nil
}

// Score applies the verdict policy, in order of precedence:
//   - EXCELLENT: every word claimed, in the expected order, within the target time
//   - SUCCESS: every word claimed, but out of order or over time
//   - FAIL: anything else
//
// The numeric score is non-decreasing in placement ratio, sequential
// accuracy and time efficiency, and never exceeds params.MaxScore.
func Score(
	session domain.SessionState,
	telemetry domain.TelemetryRecord,
	content *domain.BoardContent,
	params *Params,
) domain.ScoreResult {
	correct := session.CorrectPlacements()
	orderCorrect := OrderCorrect(session, content)
	elapsed := session.Elapsed()
	allPlaced := content.TotalWords > 0 && correct == content.TotalWords

	result := domain.ScoreResult{
		ResultType:   domain.ResultFail,
		OrderCorrect: orderCorrect,
	}
	switch {
	case allPlaced && orderCorrect && elapsed <= content.TargetTime():
		result.ResultType = domain.ResultExcellent
	case allPlaced:
		result.ResultType = domain.ResultSuccess
	}

	ratio := 0.0
	if content.TotalWords > 0 {
		ratio = float64(correct) / float64(content.TotalWords)
	}

	raw := params.PlacementWeight*clamp01(ratio) +
		params.OrderWeight*clamp01(telemetry.SequentialAccuracy) +
		params.TimeWeight*TimeEfficiency(elapsed, content.TargetTime())
	result.Score = math.Round(params.MaxScore*clamp01(raw)*100) / 100

	return result
}

// OrderCorrect reports whether the correct stones, in placement order, claim
// the words in exactly their expected order 1..TotalWords. Repeat clicks on
// claimed words are incorrect stones and are skipped here, whereas the
// telemetry click order keeps them; the two measures can disagree.
func OrderCorrect(session domain.SessionState, content *domain.BoardContent) bool {
	next := 1
	for _, stone := range session.PlacedStones {
		if !stone.Correct {
			continue
		}
		m, ok := content.MappingAt(stone.Position)
		if !ok || m.Order != next {
			return false
		}
		next++
	}
	return content.TotalWords > 0 && next == content.TotalWords+1
}

// TimeEfficiency is min(1, target/elapsed); 1 when no time elapsed.
func TimeEfficiency(elapsed, target time.Duration) float64 {
	if elapsed <= 0 {
		return 1
	}
	if target <= 0 {
		return 0
	}
	return clamp01(float64(target) / float64(elapsed))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
