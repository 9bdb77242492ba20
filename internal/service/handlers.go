package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/events"
	"github.com/phrazzld/wordstone/internal/store"
)

// ActivityRecorder appends session events to the activity log.
// Completion is recorded together with the outcome, so it is skipped here.
type ActivityRecorder struct {
	activities store.ActivityStore
	logger     *slog.Logger
}

var _ events.EventHandler = (*ActivityRecorder)(nil)

// NewActivityRecorder creates an ActivityRecorder.
func NewActivityRecorder(activities store.ActivityStore, logger *slog.Logger) *ActivityRecorder {
	if activities == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("activity store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityRecorder{
		activities: activities,
		logger:     logger.With(slog.String("component", "activity_recorder")),
	}
}

// HandleEvent implements events.EventHandler.
func (r *ActivityRecorder) HandleEvent(ctx context.Context, event *events.SessionEvent) error {
	if event.Type == domain.ActivitySessionCompleted {
		return nil
	}

	activity := event.Activity()
	if err := r.activities.Record(ctx, &activity); err != nil {
		return fmt.Errorf("failed to record %s activity: %w", event.Type, err)
	}

	r.logger.DebugContext(ctx, "activity recorded",
		slog.String("event_type", string(event.Type)),
		slog.String("session_id", event.SessionID.String()))
	return nil
}

// CacheInvalidator drops the insight snapshots an event makes stale. Every
// event changes the activity log; completion also changes progression.
type CacheInvalidator struct {
	cache  store.SnapshotCache
	logger *slog.Logger
}

var _ events.EventHandler = (*CacheInvalidator)(nil)

// NewCacheInvalidator creates a CacheInvalidator.
func NewCacheInvalidator(cache store.SnapshotCache, logger *slog.Logger) *CacheInvalidator {
	if cache == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidator{
		cache:  cache,
		logger: logger.With(slog.String("component", "cache_invalidator")),
	}
}

// HandleEvent implements events.EventHandler.
func (c *CacheInvalidator) HandleEvent(ctx context.Context, event *events.SessionEvent) error {
	keys := []string{RhythmCacheKey(event.UserID)}
	if event.Type == domain.ActivitySessionCompleted {
		keys = append(keys, ProgressionCacheKey(event.UserID))
	}

	if err := c.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to invalidate insight cache: %w", err)
	}
	return nil
}
