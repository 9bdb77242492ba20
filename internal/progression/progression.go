// Package progression converts accumulated usage into experience and a
// discrete level. Every function here is pure and safe for concurrent use.
package progression

import (
	"math"
	"time"

	"github.com/phrazzld/wordstone/internal/domain"
)

// MaxLevel caps the level for pathological experience totals.
const MaxLevel = 1 << 30

// Inputs are usage totals that have been clamped to finite, non-negative
// values. Construct them with NewInputs.
type Inputs struct {
	totalUsageMs    float64
	itemCount       float64
	conceptScoreSum float64
}

// NewInputs validates raw usage totals: NaN, infinite and negative values
// become zero.
func NewInputs(totalUsageMs, itemCount, conceptScoreSum float64) Inputs {
	return Inputs{
		totalUsageMs:    sanitize(totalUsageMs),
		itemCount:       sanitize(itemCount),
		conceptScoreSum: sanitize(conceptScoreSum),
	}
}

// TotalUsageMs returns the clamped usage time in milliseconds.
func (in Inputs) TotalUsageMs() float64 { return in.totalUsageMs }

// ItemCount returns the clamped item count.
func (in Inputs) ItemCount() float64 { return in.itemCount }

// ConceptScoreSum returns the clamped concept score sum.
func (in Inputs) ConceptScoreSum() float64 { return in.conceptScoreSum }

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func (c Channel) apply(value float64) float64 {
	if value <= 0 {
		return 0
	}
	return sanitize(c.Coefficient * math.Pow(value, c.Exponent))
}

// TotalXP sums the three experience channels.
func TotalXP(in Inputs, params *Params) float64 {
	hours := in.totalUsageMs / float64(time.Hour/time.Millisecond)

	concept := 0.0
	if params.ConceptNormalizer > 0 {
		concept = in.conceptScoreSum / params.ConceptNormalizer
	}

	return params.Time.apply(hours) +
		params.Count.apply(in.itemCount) +
		params.Concept.apply(concept)
}

// Threshold is the experience needed to reach level.
func Threshold(level int, params *Params) float64 {
	if level <= 0 {
		return 0
	}
	return params.ThresholdBase * math.Pow(float64(level), params.GrowthExponent)
}

// ComputeLevel derives the progression state from usage inputs. The level is
// the largest L with Threshold(L) ≤ TotalXP, found by inverting the threshold
// curve and correcting for floating-point error.
func ComputeLevel(in Inputs, params *Params) domain.ProgressionState {
	xp := TotalXP(in, params)
	state := domain.ProgressionState{TotalXP: xp, NextLevel: 1}

	if params.ThresholdBase <= 0 || params.GrowthExponent <= 0 {
		return state
	}

	estimate := math.Floor(math.Pow(xp/params.ThresholdBase, 1/params.GrowthExponent))
	level := 0
	switch {
	case estimate >= MaxLevel:
		level = MaxLevel
	case estimate > 0:
		level = int(estimate)
	}
	for level < MaxLevel && Threshold(level+1, params) <= xp {
		level++
	}
	for level > 0 && Threshold(level, params) > xp {
		level--
	}

	state.Level = level
	state.NextLevel = level + 1
	state.CurrentThreshold = Threshold(level, params)
	state.NextThreshold = Threshold(level+1, params)

	if span := state.NextThreshold - state.CurrentThreshold; span > 0 {
		state.ProgressToNext = math.Min(1, math.Max(0, (xp-state.CurrentThreshold)/span))
	}

	return state
}
