package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by AsyncEmitter
var (
	ErrQueueClosed = errors.New("event queue is closed")
	ErrQueueFull   = errors.New("event queue is full")
)

// AsyncConfig holds configuration options for AsyncEmitter.
type AsyncConfig struct {
	// QueueSize is the buffer of pending events. If zero or negative, defaults to 256.
	QueueSize int

	// WorkerCount determines how many concurrent workers drain the queue.
	// If zero or negative, defaults to 1.
	WorkerCount int
}

// DefaultAsyncConfig returns an AsyncConfig with reasonable defaults.
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		QueueSize:   256,
		WorkerCount: 2,
	}
}

type queuedEvent struct {
	ctx   context.Context
	event *SessionEvent
}

// AsyncEmitter decouples emitters from slow handlers. EmitEvent enqueues
// without blocking; a pool of workers forwards each event to next.
// Handler errors are logged, never returned to the emitter.
type AsyncEmitter struct {
	next   EventEmitter
	queue  chan queuedEvent
	config AsyncConfig
	logger *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

var _ EventEmitter = (*AsyncEmitter)(nil)

// NewAsyncEmitter creates an emitter that forwards to next once Start is called.
func NewAsyncEmitter(next EventEmitter, config AsyncConfig, logger *slog.Logger) *AsyncEmitter {
	if next == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("next emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultAsyncConfig()
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}

	return &AsyncEmitter{
		next:   next,
		queue:  make(chan queuedEvent, config.QueueSize),
		config: config,
		logger: logger.With("component", "async_event_emitter"),
	}
}

// Start launches the worker goroutines. Calling it twice is a no-op.
func (a *AsyncEmitter) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started || a.closed {
		return
	}
	a.started = true

	for i := 0; i < a.config.WorkerCount; i++ {
		a.wg.Add(1)
		go a.worker(i)
	}
	a.logger.Info("event workers started", "worker_count", a.config.WorkerCount)
}

// EmitEvent enqueues the event. The handler context keeps ctx's values but
// not its cancellation, so a finished request does not abort its events.
func (a *AsyncEmitter) EmitEvent(ctx context.Context, event *SessionEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrQueueClosed
	}

	select {
	case a.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		a.logger.Warn("event dropped, queue full",
			"event_id", event.ID,
			"event_type", event.Type)
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(a.queue))
	}
}

// Stop closes the queue and waits for the workers to drain it or for ctx to
// end, whichever comes first.
func (a *AsyncEmitter) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	started := a.started
	a.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("event workers stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event workers did not drain: %w", ctx.Err())
	}
}

func (a *AsyncEmitter) worker(id int) {
	defer a.wg.Done()

	for item := range a.queue {
		if err := a.next.EmitEvent(item.ctx, item.event); err != nil {
			a.logger.Error("async event handling failed",
				"worker_id", id,
				"event_id", item.event.ID,
				"event_type", item.event.Type,
				"error", err)
		}
	}
}
