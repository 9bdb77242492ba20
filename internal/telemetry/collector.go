// Package telemetry records the timing and placement behavior of one play
// session and derives latency, hesitation, spatial-error and ordering
// statistics from it.
package telemetry

import (
	"math"
	"sync"
	"time"

	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/domain/geometry"
)

// DefaultHesitationThreshold is the pointer-idle gap recorded as hesitation.
const DefaultHesitationThreshold = time.Second

// Options configures a Collector. The zero value is usable.
type Options struct {
	// HesitationThreshold defaults to DefaultHesitationThreshold.
	HesitationThreshold time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Collector accumulates the TelemetryRecord of a single session. Each
// session owns its own Collector. It is safe for concurrent use.
type Collector struct {
	mu                  sync.Mutex
	boardSize           int
	hesitationThreshold time.Duration
	now                 func() time.Time

	active    bool
	startedAt time.Time
	lastMove  time.Time
	lastClick time.Time
	clicks    int

	targets   []domain.GridPoint
	expected  []int
	userOrder []int
	record    domain.TelemetryRecord
}

// NewCollector creates an inactive collector for a boardSize×boardSize grid.
func NewCollector(boardSize int, opts Options) *Collector {
	if opts.HesitationThreshold <= 0 {
		opts.HesitationThreshold = DefaultHesitationThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Collector{
		boardSize:           boardSize,
		hesitationThreshold: opts.HesitationThreshold,
		now:                 opts.Now,
	}
}

// MaxSpatialError is the error recorded for clicks outside the grid: the
// length of the board diagonal.
func (c *Collector) MaxSpatialError() float64 {
	return float64(c.boardSize) * math.Sqrt2
}

// Active reports whether a session is being recorded.
func (c *Collector) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// StartSession resets every accumulator and stores the ground truth.
// startedAt is the moment input opened; first-click latency and the first
// hesitation gap are measured from it. correctPositions are the word
// positions; expectedSequence lists indices into correctPositions in the
// order a perfect player claims them.
func (c *Collector) StartSession(startedAt time.Time, correctPositions []domain.GridPoint, expectedSequence []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = true
	c.startedAt = startedAt
	c.lastMove = startedAt
	c.lastClick = time.Time{}
	c.clicks = 0
	c.targets = append([]domain.GridPoint(nil), correctPositions...)
	c.expected = append([]int(nil), expectedSequence...)
	c.userOrder = nil
	c.record = domain.TelemetryRecord{
		InterClickIntervals: []float64{},
		HesitationPeriods:   []float64{},
		SpatialErrors:       []float64{},
		ClickPositions:      []domain.ClickPosition{},
	}
}

// TrackPointerMove records a hesitation when the pointer was idle for longer
// than the threshold since the previous tracked movement (or session start).
func (c *Collector) TrackPointerMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}

	now := c.now()
	if gap := now.Sub(c.lastMove); gap > c.hesitationThreshold {
		c.record.HesitationPeriods = append(c.record.HesitationPeriods, millis(gap))
	}
	c.lastMove = now
}

// RecordClick records one placement click. clickX/clickY are raw pointer
// coordinates; gridX/gridY is the resolved cell, which may lie outside the
// grid.
//
// Every click on a word cell enters the click order, including repeats on a
// word already claimed. A repeat therefore shifts the later aligned entries
// and lowers SequentialAccuracy, while the scored order check, which only
// looks at correct stones, is unaffected.
func (c *Collector) RecordClick(clickX, clickY float64, gridX, gridY int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}

	now := c.now()
	if c.clicks == 0 {
		c.record.FirstClickLatency = millis(now.Sub(c.startedAt))
	} else {
		c.record.InterClickIntervals = append(c.record.InterClickIntervals, millis(now.Sub(c.lastClick)))
	}
	c.lastClick = now
	c.clicks++

	c.record.ClickPositions = append(c.record.ClickPositions, domain.ClickPosition{
		X:         clickX,
		Y:         clickY,
		Timestamp: now.UnixMilli(),
	})

	cell := domain.GridPoint{X: gridX, Y: gridY}
	if !cell.InBounds(c.boardSize) || len(c.targets) == 0 {
		c.record.SpatialErrors = append(c.record.SpatialErrors, c.MaxSpatialError())
		return
	}

	c.record.SpatialErrors = append(c.record.SpatialErrors, geometry.NearestDistance(cell, c.targets))
	for i, target := range c.targets {
		if target == cell {
			c.userOrder = append(c.userOrder, i)
			break
		}
	}
}

// Finish computes the ordering statistics, deactivates the collector and
// returns the completed record. Calling Finish again returns the same record.
func (c *Collector) Finish() domain.TelemetryRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		c.active = false
		c.record.SequentialAccuracy = SequentialAccuracy(c.expected, c.userOrder)
		c.record.TemporalOrderViolations = TemporalOrderViolations(c.expected, c.userOrder)
	}
	return copyRecord(c.record)
}

// SequentialAccuracy is the fraction of expected positions whose aligned
// entry in userOrder matches exactly. Returns 0 when nothing is expected.
func SequentialAccuracy(expected, userOrder []int) float64 {
	if len(expected) == 0 {
		return 0
	}
	matches := 0
	for i, want := range expected {
		if i < len(userOrder) && userOrder[i] == want {
			matches++
		}
	}
	return float64(matches) / float64(len(expected))
}

// TemporalOrderViolations counts adjacent pairs in userOrder where the later
// click refers to a position expected earlier than the previous click's.
func TemporalOrderViolations(expected, userOrder []int) int {
	rank := make(map[int]int, len(expected))
	for r, idx := range expected {
		rank[idx] = r
	}

	violations := 0
	for i := 1; i < len(userOrder); i++ {
		prev, okPrev := rank[userOrder[i-1]]
		cur, okCur := rank[userOrder[i]]
		if okPrev && okCur && cur < prev {
			violations++
		}
	}
	return violations
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func copyRecord(r domain.TelemetryRecord) domain.TelemetryRecord {
	out := r
	out.InterClickIntervals = append([]float64(nil), r.InterClickIntervals...)
	out.HesitationPeriods = append([]float64(nil), r.HesitationPeriods...)
	out.SpatialErrors = append([]float64(nil), r.SpatialErrors...)
	out.ClickPositions = append([]domain.ClickPosition(nil), r.ClickPositions...)
	return out
}
