package service

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/progression"
	"github.com/phrazzld/wordstone/internal/rhythm"
	"github.com/phrazzld/wordstone/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type insightFixture struct {
	svc        *insightService
	outcomes   *MockOutcomeStore
	activities *MockActivityStore
	cache      *MockSnapshotCache
}

func newInsightFixture(t *testing.T) *insightFixture {
	t.Helper()

	f := &insightFixture{
		outcomes:   &MockOutcomeStore{},
		activities: &MockActivityStore{},
		cache:      &MockSnapshotCache{},
	}
	svc, err := NewInsightService(f.outcomes, f.activities, progression.NewDefaultService(), f.cache, discardLogger())
	require.NoError(t, err)
	f.svc = svc.(*insightService)
	f.svc.now = func() time.Time { return epoch }
	return f
}

func (f *insightFixture) assertExpectations(t *testing.T) {
	f.outcomes.AssertExpectations(t)
	f.activities.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestNewInsightService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	outcomes := &MockOutcomeStore{}
	activities := &MockActivityStore{}
	prog := progression.NewDefaultService()
	cache := &MockSnapshotCache{}

	tests := []struct {
		name    string
		build   func() (InsightService, error)
		message string
	}{
		{"no outcomes", func() (InsightService, error) {
			return NewInsightService(nil, activities, prog, cache, nil)
		}, "outcome store cannot be nil"},
		{"no activities", func() (InsightService, error) {
			return NewInsightService(outcomes, nil, prog, cache, nil)
		}, "activity store cannot be nil"},
		{"no progression", func() (InsightService, error) {
			return NewInsightService(outcomes, activities, nil, cache, nil)
		}, "progression service cannot be nil"},
		{"no cache", func() (InsightService, error) {
			return NewInsightService(outcomes, activities, prog, nil, nil)
		}, "cache cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := tt.build()
			assert.Nil(t, svc)
			var gsErr *GameServiceError
			require.ErrorAs(t, err, &gsErr)
			assert.Equal(t, tt.message, gsErr.Message)
		})
	}
}

func TestInsightService_Progression(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	key := ProgressionCacheKey(userID)
	summary := store.UsageSummary{TotalUsageMs: 4 * 3600 * 1000, SessionCount: 12, ScoreSum: 840}
	want := progression.NewDefaultService().ComputeLevel(float64(summary.TotalUsageMs), 12, 840)

	t.Run("cache hit", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		cached := domain.ProgressionState{Level: 7, TotalXP: 1234}
		f.cache.On("Get", ctx, key, progressionField, mock.AnythingOfType("*domain.ProgressionState")).
			Run(func(args mock.Arguments) {
				*args.Get(3).(*domain.ProgressionState) = cached
			}).
			Return(nil)

		got, err := f.svc.Progression(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, cached, got)
		f.assertExpectations(t)
	})

	t.Run("cache miss computes and stores", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		f.cache.On("Get", ctx, key, progressionField, mock.Anything).Return(store.ErrCacheMiss)
		f.outcomes.On("UsageSummary", ctx, userID).Return(summary, nil)
		f.cache.On("Set", ctx, key, progressionField, want).Return(nil)

		got, err := f.svc.Progression(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Greater(t, got.Level, 0)
		f.assertExpectations(t)
	})

	t.Run("cache failures are not fatal", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		f.cache.On("Get", ctx, key, progressionField, mock.Anything).Return(errors.New("redis down"))
		f.outcomes.On("UsageSummary", ctx, userID).Return(summary, nil)
		f.cache.On("Set", ctx, key, progressionField, want).Return(errors.New("redis down"))

		got, err := f.svc.Progression(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		f.assertExpectations(t)
	})

	t.Run("new user", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		f.cache.On("Get", ctx, key, progressionField, mock.Anything).Return(store.ErrCacheMiss)
		f.outcomes.On("UsageSummary", ctx, userID).Return(store.UsageSummary{}, nil)
		f.cache.On("Set", ctx, key, progressionField, mock.Anything).Return(nil)

		got, err := f.svc.Progression(ctx, userID)
		require.NoError(t, err)
		assert.Zero(t, got.TotalXP)
		assert.Zero(t, got.ProgressToNext)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		dbErr := errors.New("timeout")
		f.cache.On("Get", ctx, key, progressionField, mock.Anything).Return(store.ErrCacheMiss)
		f.outcomes.On("UsageSummary", ctx, userID).Return(store.UsageSummary{}, dbErr)

		_, err := f.svc.Progression(ctx, userID)
		assert.ErrorIs(t, err, dbErr)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInsightService_Rhythm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	key := RhythmCacheKey(userID)

	// Monday sessions at 09:00, 09:10, 09:20; Tuesday at 18:00, 18:20, 18:40.
	monday := time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 2, 24, 18, 0, 0, 0, time.UTC)
	activity := []domain.ActivityEvent{
		{UserID: userID, Type: domain.ActivitySessionCompleted, OccurredAt: monday},
		{UserID: userID, Type: domain.ActivitySessionCompleted, OccurredAt: monday.Add(10 * time.Minute)},
		{UserID: userID, Type: domain.ActivitySessionCompleted, OccurredAt: monday.Add(20 * time.Minute)},
		{UserID: userID, Type: domain.ActivitySessionCompleted, OccurredAt: tuesday},
		{UserID: userID, Type: domain.ActivitySessionCompleted, OccurredAt: tuesday.Add(20 * time.Minute)},
		{UserID: userID, Type: domain.ActivitySessionCompleted, OccurredAt: tuesday.Add(40 * time.Minute)},
	}
	query := RhythmQuery{Types: []string{string(domain.ActivitySessionCompleted)}, MinCount: 1, TopN: 2}

	t.Run("cache miss computes and stores", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		field := query.withDefaults().cacheField()
		f.cache.On("Get", ctx, key, field, mock.Anything).Return(store.ErrCacheMiss)
		f.activities.On("ListSince", ctx, userID, epoch.Add(-DefaultRhythmWindow)).Return(activity, nil)
		f.cache.On("Set", ctx, key, field, mock.AnythingOfType("[]rhythm.Bin")).Return(nil)

		bins, err := f.svc.Rhythm(ctx, userID, query)
		require.NoError(t, err)
		require.Len(t, bins, 2)
		assert.Equal(t, rhythm.Bin{Weekday: time.Monday, Hour: 9, MedianMinutes: 10, Count: 2}, bins[0])
		assert.Equal(t, time.Tuesday, bins[1].Weekday)
		assert.Equal(t, 18, bins[1].Hour)
		assert.Equal(t, 20.0, bins[1].MedianMinutes)
		assert.Equal(t, 3, bins[1].Count, "the overnight gap lands in the Tuesday slot")
		f.assertExpectations(t)
	})

	t.Run("slots follow the user's time zone", func(t *testing.T) {
		t.Parallel()

		newYork, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		local := query
		local.Location = newYork
		field := local.withDefaults().cacheField()
		assert.NotEqual(t, query.withDefaults().cacheField(), field)

		f := newInsightFixture(t)
		f.cache.On("Get", ctx, key, field, mock.Anything).Return(store.ErrCacheMiss)
		f.activities.On("ListSince", ctx, userID, epoch.Add(-DefaultRhythmWindow)).Return(activity, nil)
		f.cache.On("Set", ctx, key, field, mock.AnythingOfType("[]rhythm.Bin")).Return(nil)

		bins, err := f.svc.Rhythm(ctx, userID, local)
		require.NoError(t, err)
		require.Len(t, bins, 2)
		assert.Equal(t, rhythm.Bin{Weekday: time.Monday, Hour: 4, MedianMinutes: 10, Count: 2}, bins[0])
		assert.Equal(t, time.Tuesday, bins[1].Weekday)
		assert.Equal(t, 13, bins[1].Hour)
		f.assertExpectations(t)
	})

	t.Run("cache hit", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		cached := []rhythm.Bin{{Weekday: time.Friday, Hour: 7, MedianMinutes: 3, Count: 9}}
		f.cache.On("Get", ctx, key, mock.Anything, mock.AnythingOfType("*[]rhythm.Bin")).
			Run(func(args mock.Arguments) {
				*args.Get(3).(*[]rhythm.Bin) = cached
			}).
			Return(nil)

		bins, err := f.svc.Rhythm(ctx, userID, query)
		require.NoError(t, err)
		assert.Equal(t, cached, bins)
		f.assertExpectations(t)
	})

	t.Run("no activity yields empty bins", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		f.cache.On("Get", ctx, key, mock.Anything, mock.Anything).Return(store.ErrCacheMiss)
		f.activities.On("ListSince", ctx, userID, mock.AnythingOfType("time.Time")).Return([]domain.ActivityEvent{}, nil)
		f.cache.On("Set", ctx, key, mock.Anything, []rhythm.Bin{}).Return(nil)

		bins, err := f.svc.Rhythm(ctx, userID, RhythmQuery{})
		require.NoError(t, err)
		assert.NotNil(t, bins)
		assert.Empty(t, bins)
		f.assertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		f := newInsightFixture(t)
		dbErr := errors.New("timeout")
		f.cache.On("Get", ctx, key, mock.Anything, mock.Anything).Return(store.ErrCacheMiss)
		f.activities.On("ListSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(nil, dbErr)

		_, err := f.svc.Rhythm(ctx, userID, query)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRhythmQuery_Defaults(t *testing.T) {
	t.Parallel()

	q := RhythmQuery{}.withDefaults()
	assert.Equal(t, DefaultRhythmMinCount, q.MinCount)
	assert.Equal(t, DefaultRhythmTopN, q.TopN)
	assert.Equal(t, DefaultRhythmWindow, q.Window)
	assert.Equal(t, time.UTC, q.Location)
	assert.Len(t, q.Types, 4)
	assert.IsIncreasing(t, q.Types)

	a := RhythmQuery{Types: []string{"stone_placed", "session_started"}}.withDefaults()
	b := RhythmQuery{Types: []string{"session_started", "stone_placed"}}.withDefaults()
	assert.Equal(t, a.cacheField(), b.cacheField(), "type order does not change the cache field")

	c := RhythmQuery{Types: []string{"session_started"}, TopN: 3}.withDefaults()
	assert.NotEqual(t, a.cacheField(), c.cacheField())
}
