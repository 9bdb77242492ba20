package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/events"
	"github.com/phrazzld/wordstone/internal/generation"
	"github.com/phrazzld/wordstone/internal/platform/logger"
	"github.com/phrazzld/wordstone/internal/scoring"
	"github.com/phrazzld/wordstone/internal/session"
	"github.com/phrazzld/wordstone/internal/store"
	"github.com/phrazzld/wordstone/internal/telemetry"
)

const (
	// DefaultSessionTTL is how long a session stays in the live registry.
	DefaultSessionTTL = 30 * time.Minute

	// finalizeTimeout bounds scoring and persistence of one session.
	finalizeTimeout = 10 * time.Second
)

// TxRunner runs fn inside a single database transaction.
type TxRunner func(ctx context.Context, fn store.TxFn) error

// StartSessionRequest describes the board a new session is played on.
// An empty Sentence draws one from the configured sentence source.
type StartSessionRequest struct {
	DifficultyLevel int
	Language        string
	Sentence        string
}

// PlacementRequest is one click on the board. ClickX/ClickY are the raw
// pointer coordinates in grid units; GridX/GridY the cell the click resolved to.
type PlacementRequest struct {
	ClickX float64
	ClickY float64
	GridX  int
	GridY  int
}

// SessionView is what a player may see of a session.
// Content and State are empty for sessions only known from their stored outcome.
// Word mappings are only included while the board is shown and once the
// session has ended.
type SessionView struct {
	ID      uuid.UUID              `json:"id"`
	Content *domain.BoardContent   `json:"content,omitempty"`
	State   *domain.SessionState   `json:"state,omitempty"`
	Outcome *domain.SessionOutcome `json:"outcome,omitempty"`
}

// PlacementResult is the stone a click produced and the session state after it.
// Outcome is set when the click used up the stone budget.
type PlacementResult struct {
	Stone   domain.PlacedStone     `json:"stone"`
	State   domain.SessionState    `json:"state"`
	Outcome *domain.SessionOutcome `json:"outcome,omitempty"`
}

// GameService drives live play sessions on behalf of users.
type GameService interface {
	// StartSession builds board content and starts a session showing it.
	StartSession(ctx context.Context, userID uuid.UUID, req StartSessionRequest) (*SessionView, error)

	// GetSession returns a live session, or the stored outcome of an expired one.
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)

	// TrackPointer forwards a pointer movement to the session's telemetry.
	TrackPointer(ctx context.Context, userID, sessionID uuid.UUID, x, y float64) error

	// PlaceStone places a stone and records the click.
	PlaceStone(
		ctx context.Context,
		userID, sessionID uuid.UUID,
		req PlacementRequest,
	) (*PlacementResult, error)

	// Submit ends input and waits for the scored, persisted outcome.
	// Submitting a session that already stopped accepting input returns its outcome.
	Submit(ctx context.Context, userID, sessionID uuid.UUID) (*domain.SessionOutcome, error)

	// Abandon cancels a session that is showing or playing.
	Abandon(ctx context.Context, userID, sessionID uuid.UUID) error

	// ReapExpired drops sessions older than the session TTL, abandoning the
	// ones still in progress. Returns the number of sessions dropped.
	ReapExpired(ctx context.Context) int

	// Run reaps expired sessions every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration)

	// ActiveSessions returns the number of sessions in the registry.
	ActiveSessions() int
}

// GameDependencies collects what a GameService needs.
type GameDependencies struct {
	// DB backs the default transaction runner.
	DB *sql.DB
	// RunInTx overrides the transaction runner. Defaults to store.RunInTransaction on DB.
	RunInTx TxRunner

	Outcomes     store.OutcomeStore
	Activities   store.ActivityStore
	Builder      *generation.Builder
	Source       generation.SentenceSource
	Scorer       scoring.Service
	Difficulties domain.DifficultyTable
	Emitter      events.EventEmitter

	// Clock defaults to session.SystemClock.
	Clock session.Clock

	HesitationThreshold time.Duration
	SessionTTL          time.Duration
	DefaultLanguage     string
}

// liveSession is one session in the registry together with its telemetry
// and the result of its finalization.
type liveSession struct {
	id        uuid.UUID
	userID    uuid.UUID
	createdAt time.Time
	content   *domain.BoardContent
	game      *session.Session
	collector *telemetry.Collector

	// mu orders stone placements with finalization, so the last click is
	// recorded before telemetry is closed.
	mu          sync.Mutex
	done        chan struct{}
	submittedAt time.Time
	outcome     *domain.SessionOutcome
	persisted   bool
	err         error
}

type gameService struct {
	runInTx             TxRunner
	outcomes            store.OutcomeStore
	activities          store.ActivityStore
	builder             *generation.Builder
	source              generation.SentenceSource
	scorer              scoring.Service
	difficulties        domain.DifficultyTable
	emitter             events.EventEmitter
	clock               session.Clock
	hesitationThreshold time.Duration
	sessionTTL          time.Duration
	defaultLanguage     string
	logger              *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

var _ GameService = (*gameService)(nil)

// NewGameService creates a GameService.
// It returns an error if any of the required dependencies are nil.
func NewGameService(deps GameDependencies, log *slog.Logger) (GameService, error) {
	if deps.DB == nil && deps.RunInTx == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "database cannot be nil"}
	}
	if deps.Outcomes == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "outcome store cannot be nil"}
	}
	if deps.Activities == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "activity store cannot be nil"}
	}
	if deps.Builder == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "board builder cannot be nil"}
	}
	if deps.Source == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "sentence source cannot be nil"}
	}
	if deps.Scorer == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "scorer cannot be nil"}
	}
	if deps.Emitter == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "event emitter cannot be nil"}
	}
	if len(deps.Difficulties) == 0 {
		return nil, &GameServiceError{Operation: "create_service", Message: "difficulty table cannot be empty"}
	}
	if log == nil {
		log = slog.Default()
	}

	runInTx := deps.RunInTx
	if runInTx == nil {
		db := deps.DB
		runInTx = func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		}
	}
	clock := deps.Clock
	if clock == nil {
		clock = session.SystemClock{}
	}
	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	language := deps.DefaultLanguage
	if language == "" {
		language = "en"
	}

	return &gameService{
		runInTx:             runInTx,
		outcomes:            deps.Outcomes,
		activities:          deps.Activities,
		builder:             deps.Builder,
		source:              deps.Source,
		scorer:              deps.Scorer,
		difficulties:        deps.Difficulties,
		emitter:             deps.Emitter,
		clock:               clock,
		hesitationThreshold: deps.HesitationThreshold,
		sessionTTL:          ttl,
		defaultLanguage:     language,
		logger:              log.With(slog.String("component", "game_service")),
		sessions:            make(map[uuid.UUID]*liveSession),
	}, nil
}

// StartSession implements GameService.
func (s *gameService) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	req StartSessionRequest,
) (*SessionView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	difficulty, err := s.difficulties.Lookup(req.DifficultyLevel)
	if err != nil {
		return nil, NewGameServiceError("start_session", "unknown difficulty", err)
	}
	language := req.Language
	if language == "" {
		language = s.defaultLanguage
	}

	var content *domain.BoardContent
	if req.Sentence != "" {
		content, err = s.builder.Build(ctx, req.Sentence, language, difficulty.Level)
	} else {
		content, err = s.builder.BuildFromSource(ctx, s.source, language, difficulty.Level)
	}
	if err != nil {
		log.WarnContext(ctx, "failed to build board content",
			slog.Int("difficulty_level", difficulty.Level),
			slog.String("language", language),
			slog.String("error", err.Error()))
		return nil, NewGameServiceError("start_session", "failed to build board content", err)
	}

	live := &liveSession{
		id:        uuid.New(),
		userID:    userID,
		createdAt: s.clock.Now(),
		content:   content,
		done:      make(chan struct{}),
		collector: telemetry.NewCollector(content.BoardSize, telemetry.Options{
			HesitationThreshold: s.hesitationThreshold,
			Now:                 s.clock.Now,
		}),
	}

	game, err := session.New(content, session.Options{
		Clock:         s.clock,
		PlayTimeLimit: difficulty.PlayTimeLimit,
		OnPlaying: func(startedAt time.Time) {
			live.collector.StartSession(startedAt, content.Positions(), content.ExpectedSequence())
		},
		OnSubmitting: func(state domain.SessionState) {
			// The hook may run while PlaceStone holds live.mu.
			go s.finalize(live, state)
		},
		Logger: s.logger.With(
			slog.String("session_id", live.id.String()),
			slog.String("user_id", userID.String())),
	})
	if err != nil {
		return nil, NewGameServiceError("start_session", "failed to create session", err)
	}
	live.game = game

	s.mu.Lock()
	s.sessions[live.id] = live
	s.mu.Unlock()

	if err := game.Start(); err != nil {
		s.remove(live.id)
		return nil, NewGameServiceError("start_session", "failed to start session", err)
	}

	s.emit(ctx, live, domain.ActivitySessionStarted, live.createdAt, nil)

	log.InfoContext(ctx, "session started",
		slog.String("session_id", live.id.String()),
		slog.Int("difficulty_level", content.DifficultyLevel),
		slog.Int("total_words", content.TotalWords))

	view := s.view(live)
	view.Content = content
	return view, nil
}

// GetSession implements GameService.
func (s *gameService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	live, err := s.lookup(userID, sessionID)
	if err == nil {
		return s.view(live), nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	outcome, err := s.outcomes.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, NewGameServiceError("get_session", "failed to load outcome", err)
	}
	if outcome.UserID != userID {
		return nil, ErrNotOwned
	}
	return &SessionView{ID: sessionID, Outcome: outcome}, nil
}

// TrackPointer implements GameService.
func (s *gameService) TrackPointer(ctx context.Context, userID, sessionID uuid.UUID, x, y float64) error {
	live, err := s.lookup(userID, sessionID)
	if err != nil {
		return err
	}
	if status := live.game.Status(); status != domain.SessionPlaying {
		return fmt.Errorf("%w: state is %s", session.ErrInputNotAccepted, status)
	}
	live.collector.TrackPointerMove(x, y)
	return nil
}

// PlaceStone implements GameService.
func (s *gameService) PlaceStone(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	req PlacementRequest,
) (*PlacementResult, error) {
	live, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	stone, err := live.game.Place(domain.GridPoint{X: req.GridX, Y: req.GridY})
	if err != nil {
		live.mu.Unlock()
		return nil, NewGameServiceError("place_stone", "stone rejected", err)
	}
	live.collector.RecordClick(req.ClickX, req.ClickY, req.GridX, req.GridY)
	state := live.game.Snapshot()
	live.mu.Unlock()

	s.emit(ctx, live, domain.ActivityStonePlaced, stone.ClickedAt, events.StonePlacedPayload{
		Position: stone.Position,
		Correct:  stone.Correct,
	})

	result := &PlacementResult{Stone: stone, State: state}
	if state.State == domain.SessionSubmitting {
		outcome, err := s.awaitOutcome(ctx, live)
		if err != nil {
			return nil, NewGameServiceError("place_stone", "failed to finalize session", err)
		}
		result.Outcome = outcome
		result.State = live.game.Snapshot()
	}
	return result, nil
}

// Submit implements GameService.
func (s *gameService) Submit(ctx context.Context, userID, sessionID uuid.UUID) (*domain.SessionOutcome, error) {
	live, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := live.game.Submit(); err != nil {
		status := live.game.Status()
		switch {
		case status == domain.SessionAbandoned:
			return nil, ErrSessionNotScored
		case status == domain.SessionSubmitting || status.IsTerminal():
			// Input already stopped; the outcome is on its way or done.
		default:
			return nil, NewGameServiceError("submit", "session cannot be submitted", err)
		}
	}

	outcome, err := s.awaitOutcome(ctx, live)
	if err != nil {
		return nil, NewGameServiceError("submit", "failed to finalize session", err)
	}
	return outcome, nil
}

// Abandon implements GameService.
func (s *gameService) Abandon(ctx context.Context, userID, sessionID uuid.UUID) error {
	live, err := s.lookup(userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.abandon(ctx, live); err != nil {
		return NewGameServiceError("abandon", "session cannot be abandoned", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "session abandoned",
		slog.String("session_id", sessionID.String()))
	return nil
}

func (s *gameService) abandon(ctx context.Context, live *liveSession) error {
	if err := live.game.Abandon(); err != nil {
		return err
	}
	live.collector.Finish()
	s.emit(ctx, live, domain.ActivitySessionAbandoned, s.clock.Now(), nil)
	return nil
}

// ReapExpired implements GameService.
func (s *gameService) ReapExpired(ctx context.Context) int {
	now := s.clock.Now()

	s.mu.Lock()
	var expired []*liveSession
	for _, live := range s.sessions {
		if now.Sub(live.createdAt) >= s.sessionTTL {
			expired = append(expired, live)
		}
	}
	s.mu.Unlock()

	reaped := 0
	for _, live := range expired {
		switch live.game.Status() {
		case domain.SessionShowing, domain.SessionPlaying:
			if err := s.abandon(ctx, live); err != nil {
				s.logger.WarnContext(ctx, "failed to abandon expired session",
					slog.String("session_id", live.id.String()),
					slog.String("error", err.Error()))
				continue
			}
		case domain.SessionSubmitting:
			select {
			case <-live.done:
			default:
				// still being finalized
				continue
			}
		}
		s.remove(live.id)
		reaped++
	}

	if reaped > 0 {
		s.logger.InfoContext(ctx, "reaped expired sessions", slog.Int("count", reaped))
	}
	return reaped
}

// Run implements GameService.
func (s *gameService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ReapExpired(ctx)
		}
	}
}

// ActiveSessions implements GameService.
func (s *gameService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// finalize scores a session that entered submitting, moves it to its
// terminal state and persists the outcome. It runs once per session.
func (s *gameService) finalize(live *liveSession, state domain.SessionState) {
	defer close(live.done)

	ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancel()

	log := s.logger.With(slog.String("session_id", live.id.String()))

	live.mu.Lock()
	live.submittedAt = state.SubmittedAt
	record := live.collector.Finish()

	result, err := s.scorer.Score(state, record, live.content)
	if err == nil {
		err = live.game.Finish(result)
	}
	if err == nil {
		live.outcome, err = domain.NewSessionOutcome(live.userID, live.id, live.content, state, result, record)
	}
	if err != nil {
		live.err = err
		live.mu.Unlock()
		log.ErrorContext(ctx, "failed to score session", slog.String("error", err.Error()))
		return
	}

	live.err = s.persistLocked(ctx, live)
	persisted := live.persisted
	live.mu.Unlock()

	if !persisted {
		log.ErrorContext(ctx, "failed to persist session outcome", slog.String("error", live.err.Error()))
		return
	}

	s.emitCompleted(ctx, live)
	log.InfoContext(ctx, "session finished",
		slog.String("result", string(result.ResultType)),
		slog.Float64("score", result.Score))
}

// awaitOutcome waits for finalize and retries persistence if it failed.
func (s *gameService) awaitOutcome(ctx context.Context, live *liveSession) (*domain.SessionOutcome, error) {
	select {
	case <-live.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	live.mu.Lock()
	if live.outcome == nil {
		err := live.err
		live.mu.Unlock()
		return nil, err
	}
	if live.persisted {
		outcome := live.outcome
		live.mu.Unlock()
		return outcome, nil
	}

	live.err = s.persistLocked(ctx, live)
	outcome, err := live.outcome, live.err
	live.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.emitCompleted(ctx, live)
	return outcome, nil
}

// persistLocked stores the outcome and its completion activity in one
// transaction. live.mu must be held.
func (s *gameService) persistLocked(ctx context.Context, live *liveSession) error {
	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.outcomes.WithTx(tx).Create(ctx, live.outcome); err != nil {
			return err
		}
		activity := &domain.ActivityEvent{
			UserID:     live.userID,
			Type:       domain.ActivitySessionCompleted,
			OccurredAt: live.submittedAt,
		}
		return s.activities.WithTx(tx).Record(ctx, activity)
	})
	if errors.Is(err, store.ErrOutcomeExists) {
		// an earlier attempt committed
		err = nil
	}
	if err != nil {
		return err
	}
	live.persisted = true
	return nil
}

func (s *gameService) emitCompleted(ctx context.Context, live *liveSession) {
	s.emit(ctx, live, domain.ActivitySessionCompleted, live.submittedAt, events.SessionCompletedPayload{
		Result:    live.outcome.Result,
		ElapsedMs: live.outcome.ElapsedMs,
	})
}

func (s *gameService) emit(
	ctx context.Context,
	live *liveSession,
	eventType domain.ActivityType,
	at time.Time,
	payload any,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewSessionEvent(eventType, live.userID, live.id, at, payload)
	if err != nil {
		log.ErrorContext(ctx, "failed to create session event",
			slog.String("event_type", string(eventType)),
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.WarnContext(ctx, "failed to emit session event",
			slog.String("event_type", string(eventType)),
			slog.String("session_id", live.id.String()),
			slog.String("error", err.Error()))
	}
}

func (s *gameService) lookup(userID, sessionID uuid.UUID) (*liveSession, error) {
	s.mu.Lock()
	live, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if live.userID != userID {
		return nil, ErrNotOwned
	}
	return live, nil
}

func (s *gameService) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *gameService) view(live *liveSession) *SessionView {
	state := live.game.Snapshot()

	live.mu.Lock()
	outcome := live.outcome
	if !live.persisted {
		outcome = nil
	}
	live.mu.Unlock()

	content := live.content
	if state.State != domain.SessionShowing && !state.State.IsTerminal() {
		content = content.Concealed()
	}

	return &SessionView{
		ID:      live.id,
		Content: content,
		State:   &state,
		Outcome: outcome,
	}
}
