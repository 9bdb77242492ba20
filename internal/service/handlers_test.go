package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEvent(t *testing.T, eventType domain.ActivityType, userID uuid.UUID) *events.SessionEvent {
	t.Helper()
	event, err := events.NewSessionEvent(eventType, userID, uuid.New(), epoch, nil)
	require.NoError(t, err)
	return event
}

func TestActivityRecorder_HandleEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("records lifecycle events", func(t *testing.T) {
		t.Parallel()

		activities := &memoryActivityStore{}
		recorder := NewActivityRecorder(activities, discardLogger())

		for _, typ := range []domain.ActivityType{
			domain.ActivitySessionStarted,
			domain.ActivityStonePlaced,
			domain.ActivitySessionAbandoned,
		} {
			require.NoError(t, recorder.HandleEvent(ctx, newEvent(t, typ, userID)))
		}

		assert.Equal(t, []domain.ActivityType{
			domain.ActivitySessionStarted,
			domain.ActivityStonePlaced,
			domain.ActivitySessionAbandoned,
		}, activities.types())
		assert.Equal(t, epoch, activities.events[0].OccurredAt)
		assert.Equal(t, userID, activities.events[0].UserID)
	})

	t.Run("skips completion", func(t *testing.T) {
		t.Parallel()

		activities := &MockActivityStore{}
		recorder := NewActivityRecorder(activities, discardLogger())

		require.NoError(t, recorder.HandleEvent(ctx, newEvent(t, domain.ActivitySessionCompleted, userID)))
		activities.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("insert failed")
		activities := &MockActivityStore{}
		activities.On("Record", ctx, mock.AnythingOfType("*domain.ActivityEvent")).Return(dbErr)
		recorder := NewActivityRecorder(activities, discardLogger())

		err := recorder.HandleEvent(ctx, newEvent(t, domain.ActivityStonePlaced, userID))
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "stone_placed")
	})

	t.Run("nil store panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { NewActivityRecorder(nil, nil) })
	})
}

func TestCacheInvalidator_HandleEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name      string
		eventType domain.ActivityType
		keys      []string
	}{
		{
			name:      "activity invalidates rhythm",
			eventType: domain.ActivityStonePlaced,
			keys:      []string{RhythmCacheKey(userID)},
		},
		{
			name:      "abandonment invalidates rhythm",
			eventType: domain.ActivitySessionAbandoned,
			keys:      []string{RhythmCacheKey(userID)},
		},
		{
			name:      "completion invalidates rhythm and progression",
			eventType: domain.ActivitySessionCompleted,
			keys:      []string{RhythmCacheKey(userID), ProgressionCacheKey(userID)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache := &MockSnapshotCache{}
			cache.On("Delete", ctx, tt.keys).Return(nil)
			invalidator := NewCacheInvalidator(cache, discardLogger())

			require.NoError(t, invalidator.HandleEvent(ctx, newEvent(t, tt.eventType, userID)))
			cache.AssertExpectations(t)
		})
	}

	t.Run("cache failure", func(t *testing.T) {
		t.Parallel()

		cacheErr := errors.New("connection refused")
		cache := &MockSnapshotCache{}
		cache.On("Delete", ctx, mock.Anything).Return(cacheErr)
		invalidator := NewCacheInvalidator(cache, discardLogger())

		err := invalidator.HandleEvent(ctx, newEvent(t, domain.ActivitySessionCompleted, userID))
		assert.ErrorIs(t, err, cacheErr)
	})
}

func TestHandlers_WithEmitter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	activities := &memoryActivityStore{}
	cache := &MockSnapshotCache{}
	cache.On("Delete", ctx, mock.Anything).Return(nil)

	emitter := events.NewInMemoryEventEmitter(discardLogger())
	emitter.RegisterHandler(NewActivityRecorder(activities, discardLogger()))
	emitter.RegisterHandler(NewCacheInvalidator(cache, discardLogger()))

	require.NoError(t, emitter.EmitEvent(ctx, newEvent(t, domain.ActivitySessionStarted, userID)))
	require.NoError(t, emitter.EmitEvent(ctx, newEvent(t, domain.ActivitySessionCompleted, userID)))

	assert.Equal(t, []domain.ActivityType{domain.ActivitySessionStarted}, activities.types())
	cache.AssertNumberOfCalls(t, "Delete", 2)
}
