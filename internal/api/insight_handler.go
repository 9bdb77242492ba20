package api

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/wordstone/internal/api/shared"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/platform/logger"
	"github.com/phrazzld/wordstone/internal/service"
)

const (
	maxRhythmMinCount = 1000
	maxRhythmTop      = 24 * 7
)

var activityTypes = []string{
	string(domain.ActivitySessionStarted),
	string(domain.ActivityStonePlaced),
	string(domain.ActivitySessionCompleted),
	string(domain.ActivitySessionAbandoned),
}

// InsightHandler serves the progression and rhythm read models.
type InsightHandler struct {
	insights service.InsightService
	logger   *slog.Logger
}

// NewInsightHandler creates an InsightHandler.
func NewInsightHandler(insights service.InsightService, log *slog.Logger) *InsightHandler {
	if insights == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("insights cannot be nil for InsightHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &InsightHandler{
		insights: insights,
		logger:   log.With(slog.String("component", "insight_handler")),
	}
}

// GetProgression handles GET /progression.
func (h *InsightHandler) GetProgression(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	state, err := h.insights.Progression(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute progression")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// GetRhythm handles GET /rhythm?types=a,b&min_count=n&top=n&tz=Area/City.
// Omitted parameters fall back to the service defaults.
func (h *InsightHandler) GetRhythm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	query, msg := parseRhythmQuery(r)
	if msg != "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, msg)
		return
	}

	bins, err := h.insights.Rhythm(r.Context(), userID, query)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute rhythm")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bins)
}

// parseRhythmQuery returns the query or a client-facing message describing
// the first invalid parameter.
func parseRhythmQuery(r *http.Request) (service.RhythmQuery, string) {
	var q service.RhythmQuery

	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if !slices.Contains(activityTypes, t) {
				return q, "Invalid types: must be a comma-separated list of " + strings.Join(activityTypes, " ")
			}
			if !slices.Contains(q.Types, t) {
				q.Types = append(q.Types, t)
			}
		}
	}

	minCount, ok := queryInt(r, "min_count", 1, maxRhythmMinCount)
	if !ok {
		return q, "Invalid min_count"
	}
	top, ok := queryInt(r, "top", 1, maxRhythmTop)
	if !ok {
		return q, "Invalid top"
	}
	q.MinCount = minCount
	q.TopN = top

	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil || tz == "Local" {
			return q, "Invalid tz: must be an IANA time zone name"
		}
		q.Location = loc
	}
	return q, ""
}
