package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/api/shared"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/rhythm"
	"github.com/phrazzld/wordstone/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockGameService struct {
	mock.Mock
}

var _ service.GameService = (*mockGameService)(nil)

func (m *mockGameService) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	req service.StartSessionRequest,
) (*service.SessionView, error) {
	args := m.Called(ctx, userID, req)
	view, _ := args.Get(0).(*service.SessionView)
	return view, args.Error(1)
}

func (m *mockGameService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, userID, sessionID)
	view, _ := args.Get(0).(*service.SessionView)
	return view, args.Error(1)
}

func (m *mockGameService) TrackPointer(ctx context.Context, userID, sessionID uuid.UUID, x, y float64) error {
	return m.Called(ctx, userID, sessionID, x, y).Error(0)
}

func (m *mockGameService) PlaceStone(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	req service.PlacementRequest,
) (*service.PlacementResult, error) {
	args := m.Called(ctx, userID, sessionID, req)
	result, _ := args.Get(0).(*service.PlacementResult)
	return result, args.Error(1)
}

func (m *mockGameService) Submit(ctx context.Context, userID, sessionID uuid.UUID) (*domain.SessionOutcome, error) {
	args := m.Called(ctx, userID, sessionID)
	outcome, _ := args.Get(0).(*domain.SessionOutcome)
	return outcome, args.Error(1)
}

func (m *mockGameService) Abandon(ctx context.Context, userID, sessionID uuid.UUID) error {
	return m.Called(ctx, userID, sessionID).Error(0)
}

func (m *mockGameService) ReapExpired(ctx context.Context) int {
	return m.Called(ctx).Int(0)
}

func (m *mockGameService) Run(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}

func (m *mockGameService) ActiveSessions() int {
	return m.Called().Int(0)
}

type mockInsightService struct {
	mock.Mock
}

var _ service.InsightService = (*mockInsightService)(nil)

func (m *mockInsightService) Progression(ctx context.Context, userID uuid.UUID) (domain.ProgressionState, error) {
	args := m.Called(ctx, userID)
	state, _ := args.Get(0).(domain.ProgressionState)
	return state, args.Error(1)
}

func (m *mockInsightService) Rhythm(ctx context.Context, userID uuid.UUID, q service.RhythmQuery) ([]rhythm.Bin, error) {
	args := m.Called(ctx, userID, q)
	bins, _ := args.Get(0).([]rhythm.Bin)
	return bins, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testRouter mounts the handlers the way the server does, with a stub
// authenticator that trusts the user in the request context.
func testRouter(sessions *SessionHandler, insights *InsightHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		if sessions != nil {
			r.Post("/sessions", sessions.StartSession)
			r.Get("/sessions/{id}", sessions.GetSession)
			r.Delete("/sessions/{id}", sessions.Abandon)
			r.Post("/sessions/{id}/pointer", sessions.TrackPointer)
			r.Post("/sessions/{id}/stones", sessions.PlaceStone)
			r.Post("/sessions/{id}/submit", sessions.Submit)
		}
		if insights != nil {
			r.Get("/progression", insights.GetProgression)
			r.Get("/rhythm", insights.GetRhythm)
		}
	})
	return r
}

func newRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req = req.WithContext(shared.WithUserID(req.Context(), userID))
	}
	return req
}
