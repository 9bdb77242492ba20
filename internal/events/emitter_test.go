package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent(t *testing.T) *SessionEvent {
	t.Helper()
	event, err := NewSessionEvent(domain.ActivityStonePlaced, uuid.New(), uuid.New(), time.Now(),
		StonePlacedPayload{Position: domain.GridPoint{X: 1, Y: 2}, Correct: true})
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	t.Run("emit event with no handlers", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(discardLogger())
		assert.NoError(t, emitter.EmitEvent(context.Background(), testEvent(t)))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(discardLogger())
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := testEvent(t)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, []*SessionEvent{event}, handler1.Events)
		assert.Equal(t, []*SessionEvent{event}, handler2.Events)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(discardLogger())
		failingHandler := &MockEventHandler{HandlerError: errors.New("handler error")}
		successHandler := &MockEventHandler{}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		err := emitter.EmitEvent(context.Background(), testEvent(t))
		assert.EqualError(t, err, "handler error")

		// Later handlers still receive the event
		assert.Equal(t, 1, failingHandler.count())
		assert.Equal(t, 1, successHandler.count())
	})
}

func TestAsyncEmitter_DeliversAndDrains(t *testing.T) {
	t.Parallel()

	inner := NewInMemoryEventEmitter(discardLogger())
	handler := &MockEventHandler{}
	inner.RegisterHandler(handler)

	async := NewAsyncEmitter(inner, AsyncConfig{QueueSize: 64, WorkerCount: 3}, discardLogger())
	async.Start()
	async.Start()

	for i := 0; i < 50; i++ {
		require.NoError(t, async.EmitEvent(context.Background(), testEvent(t)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, async.Stop(ctx))
	assert.Equal(t, 50, handler.count())

	assert.ErrorIs(t, async.EmitEvent(context.Background(), testEvent(t)), ErrQueueClosed)
	assert.NoError(t, async.Stop(ctx), "stop is idempotent")
}

func TestAsyncEmitter_QueueFull(t *testing.T) {
	t.Parallel()

	async := NewAsyncEmitter(NewInMemoryEventEmitter(discardLogger()), AsyncConfig{QueueSize: 2, WorkerCount: 1}, discardLogger())

	require.NoError(t, async.EmitEvent(context.Background(), testEvent(t)))
	require.NoError(t, async.EmitEvent(context.Background(), testEvent(t)))
	assert.ErrorIs(t, async.EmitEvent(context.Background(), testEvent(t)), ErrQueueFull)

	assert.NoError(t, async.Stop(context.Background()), "never started")
}

func TestAsyncEmitter_HandlerContextOutlivesRequest(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}
	seen := make(chan context.Context, 1)
	inner := NewInMemoryEventEmitter(discardLogger())
	inner.RegisterHandler(HandlerFunc(func(ctx context.Context, event *SessionEvent) error {
		seen <- ctx
		return errors.New("logged, not returned")
	}))

	async := NewAsyncEmitter(inner, AsyncConfig{}, discardLogger())
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "request"))
	require.NoError(t, async.EmitEvent(ctx, testEvent(t)))
	cancel()
	async.Start()

	select {
	case got := <-seen:
		assert.NoError(t, got.Err())
		assert.Equal(t, "request", got.Value(ctxKey{}))
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}

	require.NoError(t, async.Stop(context.Background()))
}

func TestNewAsyncEmitter_NilNextPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewAsyncEmitter(nil, AsyncConfig{}, nil) })
}
