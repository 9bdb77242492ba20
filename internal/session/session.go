package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/wordstone/internal/domain"
)

// Options configures a Session. The zero value is usable.
type Options struct {
	// Clock creates timers and timestamps. Defaults to SystemClock.
	Clock Clock

	// PlayTimeLimit ends the playing state automatically. Zero disables it.
	PlayTimeLimit time.Duration

	// OnPlaying is called once when the display window closes, with the
	// session lock held and before any placement can be accepted. It must
	// not call back into the Session.
	OnPlaying func(startedAt time.Time)

	// OnSubmitting is called exactly once on entry to the submitting state,
	// with a snapshot taken at that moment.
	OnSubmitting func(state domain.SessionState)

	Logger *slog.Logger
}

// Session is the state machine of one play session. It is safe for
// concurrent use. OnSubmitting runs without the internal lock held.
type Session struct {
	mu      sync.Mutex
	content *domain.BoardContent
	opts    Options
	logger  *slog.Logger

	state   domain.SessionState
	claimed map[domain.GridPoint]bool

	stopTimer func() bool
	// epoch increments whenever a timer is armed or cancelled; a firing
	// callback whose epoch is stale does nothing.
	epoch uint64
}

// New creates an idle session over validated board content.
func New(content *domain.BoardContent, opts Options) (*Session, error) {
	if content == nil {
		return nil, ErrNilContent
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		content: content,
		opts:    opts,
		logger:  logger.With(slog.String("component", "session")),
		state: domain.SessionState{
			State:              domain.SessionIdle,
			TotalAllowedStones: content.TotalAllowedStones,
		},
	}, nil
}

// Content returns the board the session plays on.
func (s *Session) Content() *domain.BoardContent {
	return s.content
}

// Status returns the current state.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.State
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SessionState {
	snap := s.state
	if s.state.PlacedStones != nil {
		snap.PlacedStones = make([]domain.PlacedStone, len(s.state.PlacedStones))
		copy(snap.PlacedStones, s.state.PlacedStones)
	}
	return snap
}

// Start moves idle → showing, resets the stone bookkeeping and arms the
// display countdown.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.State != domain.SessionIdle {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidTransition, s.state.State)
	}

	s.state = domain.SessionState{
		State:              domain.SessionShowing,
		TotalAllowedStones: s.content.TotalAllowedStones,
	}
	s.claimed = make(map[domain.GridPoint]bool, s.content.TotalWords)
	s.armTimerLocked(s.content.InitialDisplayTime(), s.beginPlaying)

	s.logger.Debug("session showing",
		slog.Int("total_words", s.content.TotalWords),
		slog.Duration("display_time", s.content.InitialDisplayTime()))
	return nil
}

// beginPlaying is the display-timer callback.
func (s *Session) beginPlaying(epoch uint64) {
	s.mu.Lock()
	if epoch != s.epoch || s.state.State != domain.SessionShowing {
		s.mu.Unlock()
		return
	}

	s.stopTimer = nil
	startedAt := s.opts.Clock.Now()
	if s.opts.OnPlaying != nil {
		s.opts.OnPlaying(startedAt)
	}
	s.state.State = domain.SessionPlaying
	s.state.StartTime = startedAt
	if s.opts.PlayTimeLimit > 0 {
		s.armTimerLocked(s.opts.PlayTimeLimit, s.playTimeUp)
	}
	s.mu.Unlock()

	s.logger.Debug("session playing", slog.Time("start_time", startedAt))
}

// playTimeUp is the play-limit timer callback.
func (s *Session) playTimeUp(epoch uint64) {
	s.mu.Lock()
	if epoch != s.epoch || s.state.State != domain.SessionPlaying {
		s.mu.Unlock()
		return
	}
	s.stopTimer = nil
	snap := s.enterSubmittingLocked()
	s.mu.Unlock()

	s.logger.Debug("play time limit reached")
	s.notifySubmitting(snap)
}

// Place records a stone on p. The stone is correct iff p is a word position
// not claimed yet. Positions outside the board are accepted as incorrect
// stones. Using the last stone of the budget moves the session to submitting.
func (s *Session) Place(p domain.GridPoint) (domain.PlacedStone, error) {
	s.mu.Lock()

	if s.state.State != domain.SessionPlaying {
		status := s.state.State
		s.mu.Unlock()
		return domain.PlacedStone{}, fmt.Errorf("%w: state is %s", ErrInputNotAccepted, status)
	}
	if s.state.UsedStonesCount >= s.state.TotalAllowedStones {
		s.mu.Unlock()
		return domain.PlacedStone{}, ErrBudgetExhausted
	}

	correct := false
	if p.InBounds(s.content.BoardSize) && !s.claimed[p] {
		if _, ok := s.content.MappingAt(p); ok {
			correct = true
			s.claimed[p] = true
		}
	}

	stone := domain.PlacedStone{
		Position:  p,
		Correct:   correct,
		ClickedAt: s.opts.Clock.Now(),
	}
	s.state.PlacedStones = append(s.state.PlacedStones, stone)
	s.state.UsedStonesCount++

	var snap *domain.SessionState
	if s.state.UsedStonesCount >= s.state.TotalAllowedStones {
		s.cancelTimerLocked()
		snap = s.enterSubmittingLocked()
	}
	s.mu.Unlock()

	if snap != nil {
		s.logger.Debug("stone budget used up",
			slog.Int("used_stones", snap.UsedStonesCount))
		s.notifySubmitting(snap)
	}
	return stone, nil
}

// Submit ends input voluntarily: playing → submitting.
func (s *Session) Submit() error {
	s.mu.Lock()
	if s.state.State != domain.SessionPlaying {
		status := s.state.State
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot submit from %s", ErrInvalidTransition, status)
	}
	s.cancelTimerLocked()
	snap := s.enterSubmittingLocked()
	s.mu.Unlock()

	s.notifySubmitting(snap)
	return nil
}

// Finish moves submitting → the terminal state named by the result.
func (s *Session) Finish(result domain.ScoreResult) error {
	status, err := result.ResultType.TerminalStatus()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.State != domain.SessionSubmitting {
		return fmt.Errorf("%w: cannot finish from %s", ErrInvalidTransition, s.state.State)
	}
	s.state.State = status

	s.logger.Debug("session finished",
		slog.String("result", string(result.ResultType)),
		slog.Float64("score", result.Score))
	return nil
}

// Abandon cancels a showing or playing session, stopping its timers and
// discarding all placements. The scoring step is never reached.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.State {
	case domain.SessionShowing, domain.SessionPlaying:
	default:
		return fmt.Errorf("%w: cannot abandon from %s", ErrInvalidTransition, s.state.State)
	}

	s.cancelTimerLocked()
	s.state = domain.SessionState{
		State:              domain.SessionAbandoned,
		TotalAllowedStones: s.content.TotalAllowedStones,
	}
	s.claimed = nil

	s.logger.Debug("session abandoned")
	return nil
}

func (s *Session) enterSubmittingLocked() *domain.SessionState {
	s.state.State = domain.SessionSubmitting
	s.state.SubmittedAt = s.opts.Clock.Now()
	snap := s.snapshotLocked()
	return &snap
}

func (s *Session) notifySubmitting(snap *domain.SessionState) {
	if s.opts.OnSubmitting != nil {
		s.opts.OnSubmitting(*snap)
	}
}

// armTimerLocked replaces the running timer with one that calls fire after d.
func (s *Session) armTimerLocked(d time.Duration, fire func(epoch uint64)) {
	s.cancelTimerLocked()
	epoch := s.epoch
	s.stopTimer = s.opts.Clock.AfterFunc(d, func() { fire(epoch) })
}

func (s *Session) cancelTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
	s.epoch++
}
