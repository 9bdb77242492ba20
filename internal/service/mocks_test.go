package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/events"
	"github.com/phrazzld/wordstone/internal/store"
	"github.com/stretchr/testify/mock"
)

// memoryOutcomeStore is an in-memory store.OutcomeStore.
type memoryOutcomeStore struct {
	mu        sync.Mutex
	outcomes  map[uuid.UUID]*domain.SessionOutcome
	createErr error
	creates   int
}

func newMemoryOutcomeStore() *memoryOutcomeStore {
	return &memoryOutcomeStore{outcomes: make(map[uuid.UUID]*domain.SessionOutcome)}
}

func (m *memoryOutcomeStore) Create(ctx context.Context, outcome *domain.SessionOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.outcomes[outcome.SessionID]; ok {
		return store.ErrOutcomeExists
	}
	m.outcomes[outcome.SessionID] = outcome
	return nil
}

func (m *memoryOutcomeStore) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.SessionOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	outcome, ok := m.outcomes[sessionID]
	if !ok {
		return nil, store.ErrOutcomeNotFound
	}
	return outcome, nil
}

func (m *memoryOutcomeStore) UsageSummary(ctx context.Context, userID uuid.UUID) (store.UsageSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var summary store.UsageSummary
	for _, o := range m.outcomes {
		if o.UserID != userID {
			continue
		}
		summary.TotalUsageMs += o.ElapsedMs
		summary.SessionCount++
		summary.ScoreSum += o.Result.Score
	}
	return summary, nil
}

func (m *memoryOutcomeStore) WithTx(tx *sql.Tx) store.OutcomeStore {
	return m
}

func (m *memoryOutcomeStore) setCreateErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

func (m *memoryOutcomeStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outcomes)
}

// memoryActivityStore is an in-memory store.ActivityStore.
type memoryActivityStore struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (m *memoryActivityStore) Record(ctx context.Context, event *domain.ActivityEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *memoryActivityStore) ListSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.ActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []domain.ActivityEvent{}
	for _, e := range m.events {
		if e.UserID == userID && !e.OccurredAt.Before(since) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (m *memoryActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return m
}

func (m *memoryActivityStore) types() []domain.ActivityType {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]domain.ActivityType, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.SessionEvent
}

func (r *recordingEmitter) EmitEvent(ctx context.Context, event *events.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) types() []domain.ActivityType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]domain.ActivityType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func (r *recordingEmitter) last() *events.SessionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

// MockSnapshotCache mocks the store.SnapshotCache interface
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context, key, field string, dest any) error {
	args := m.Called(ctx, key, field, dest)
	return args.Error(0)
}

func (m *MockSnapshotCache) Set(ctx context.Context, key, field string, value any) error {
	args := m.Called(ctx, key, field, value)
	return args.Error(0)
}

func (m *MockSnapshotCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// MockOutcomeStore mocks the store.OutcomeStore interface
type MockOutcomeStore struct {
	mock.Mock
}

func (m *MockOutcomeStore) Create(ctx context.Context, outcome *domain.SessionOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockOutcomeStore) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.SessionOutcome, error) {
	args := m.Called(ctx, sessionID)
	outcome, _ := args.Get(0).(*domain.SessionOutcome)
	return outcome, args.Error(1)
}

func (m *MockOutcomeStore) UsageSummary(ctx context.Context, userID uuid.UUID) (store.UsageSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(store.UsageSummary), args.Error(1)
}

func (m *MockOutcomeStore) WithTx(tx *sql.Tx) store.OutcomeStore {
	return m
}

// MockActivityStore mocks the store.ActivityStore interface
type MockActivityStore struct {
	mock.Mock
}

func (m *MockActivityStore) Record(ctx context.Context, event *domain.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockActivityStore) ListSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.ActivityEvent, error) {
	args := m.Called(ctx, userID, since)
	evts, _ := args.Get(0).([]domain.ActivityEvent)
	return evts, args.Error(1)
}

func (m *MockActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return m
}
