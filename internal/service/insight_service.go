package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/platform/logger"
	"github.com/phrazzld/wordstone/internal/progression"
	"github.com/phrazzld/wordstone/internal/rhythm"
	"github.com/phrazzld/wordstone/internal/store"
)

const (
	// DefaultRhythmWindow is how far back rhythm analysis looks by default.
	DefaultRhythmWindow = 90 * 24 * time.Hour

	// DefaultRhythmMinCount drops weekday×hour slots with fewer gaps.
	DefaultRhythmMinCount = 3

	// DefaultRhythmTopN is the number of bins returned by default.
	DefaultRhythmTopN = 5

	progressionField = "state"
)

// ProgressionCacheKey is the cache hash holding a user's progression snapshot.
func ProgressionCacheKey(userID uuid.UUID) string {
	return "progression:" + userID.String()
}

// RhythmCacheKey is the cache hash holding a user's rhythm snapshots, one
// field per query.
func RhythmCacheKey(userID uuid.UUID) string {
	return "rhythm:" + userID.String()
}

// RhythmQuery selects the events and bins of a rhythm analysis.
// Zero values fall back to the defaults above; empty Types means every
// activity type. Location is the user's time zone, in which weekday and hour
// slots are taken; nil means UTC.
type RhythmQuery struct {
	Types    []string
	MinCount int
	TopN     int
	Window   time.Duration
	Location *time.Location
}

func (q RhythmQuery) withDefaults() RhythmQuery {
	if q.MinCount <= 0 {
		q.MinCount = DefaultRhythmMinCount
	}
	if q.TopN <= 0 {
		q.TopN = DefaultRhythmTopN
	}
	if q.Window <= 0 {
		q.Window = DefaultRhythmWindow
	}
	if q.Location == nil {
		q.Location = time.UTC
	}
	if len(q.Types) == 0 {
		q.Types = []string{
			string(domain.ActivitySessionStarted),
			string(domain.ActivityStonePlaced),
			string(domain.ActivitySessionCompleted),
			string(domain.ActivitySessionAbandoned),
		}
	}
	types := make([]string, len(q.Types))
	copy(types, q.Types)
	sort.Strings(types)
	q.Types = types
	return q
}

// cacheField identifies the query inside the user's rhythm hash.
func (q RhythmQuery) cacheField() string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%d|%d|%d|%s",
		strings.Join(q.Types, ","), q.MinCount, q.TopN, q.Window, q.Location)
	return fmt.Sprintf("%x", h.Sum64())
}

// InsightService answers the long-term questions about a user's play.
type InsightService interface {
	// Progression computes the user's experience level from all stored outcomes.
	Progression(ctx context.Context, userID uuid.UUID) (domain.ProgressionState, error)

	// Rhythm returns the weekday×hour slots in which the user is most active.
	Rhythm(ctx context.Context, userID uuid.UUID, query RhythmQuery) ([]rhythm.Bin, error)
}

type insightService struct {
	outcomes    store.OutcomeStore
	activities  store.ActivityStore
	progression progression.Service
	cache       store.SnapshotCache
	now         func() time.Time
	logger      *slog.Logger
}

var _ InsightService = (*insightService)(nil)

// NewInsightService creates an InsightService.
// It returns an error if any of the required dependencies are nil.
func NewInsightService(
	outcomes store.OutcomeStore,
	activities store.ActivityStore,
	progressionService progression.Service,
	cache store.SnapshotCache,
	log *slog.Logger,
) (InsightService, error) {
	if outcomes == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "outcome store cannot be nil"}
	}
	if activities == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "activity store cannot be nil"}
	}
	if progressionService == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "progression service cannot be nil"}
	}
	if cache == nil {
		return nil, &GameServiceError{Operation: "create_service", Message: "cache cannot be nil"}
	}
	if log == nil {
		log = slog.Default()
	}

	return &insightService{
		outcomes:    outcomes,
		activities:  activities,
		progression: progressionService,
		cache:       cache,
		now:         time.Now,
		logger:      log.With(slog.String("component", "insight_service")),
	}, nil
}

// Progression implements InsightService.
func (s *insightService) Progression(ctx context.Context, userID uuid.UUID) (domain.ProgressionState, error) {
	key := ProgressionCacheKey(userID)

	var state domain.ProgressionState
	if s.cacheGet(ctx, key, progressionField, &state) {
		return state, nil
	}

	summary, err := s.outcomes.UsageSummary(ctx, userID)
	if err != nil {
		return domain.ProgressionState{}, NewGameServiceError("progression", "failed to load usage summary", err)
	}

	state = s.progression.ComputeLevel(
		float64(summary.TotalUsageMs),
		float64(summary.SessionCount),
		summary.ScoreSum,
	)
	s.cacheSet(ctx, key, progressionField, state)
	return state, nil
}

// Rhythm implements InsightService.
func (s *insightService) Rhythm(ctx context.Context, userID uuid.UUID, query RhythmQuery) ([]rhythm.Bin, error) {
	query = query.withDefaults()
	key := RhythmCacheKey(userID)
	field := query.cacheField()

	var bins []rhythm.Bin
	if s.cacheGet(ctx, key, field, &bins) {
		return bins, nil
	}

	activity, err := s.activities.ListSince(ctx, userID, s.now().Add(-query.Window))
	if err != nil {
		return nil, NewGameServiceError("rhythm", "failed to load activity", err)
	}

	evts := make([]rhythm.Event, len(activity))
	for i, a := range activity {
		evts[i] = rhythm.Event{Type: string(a.Type), OccurredAt: a.OccurredAt.In(query.Location)}
	}

	bins = rhythm.ComputeFastestBins(evts, query.Types, query.MinCount, query.TopN)
	if bins == nil {
		bins = []rhythm.Bin{}
	}
	s.cacheSet(ctx, key, field, bins)
	return bins, nil
}

// cacheGet reports a hit. Cache failures are logged and treated as misses.
func (s *insightService) cacheGet(ctx context.Context, key, field string, dest any) bool {
	err := s.cache.Get(ctx, key, field, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, store.ErrCacheMiss) {
		logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return false
}

func (s *insightService) cacheSet(ctx context.Context, key, field string, value any) {
	if err := s.cache.Set(ctx, key, field, value); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
