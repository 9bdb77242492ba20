package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/generation"
	"github.com/phrazzld/wordstone/internal/service"
	"github.com/phrazzld/wordstone/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionHandler_StartSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()
	view := &service.SessionView{
		ID: sessionID,
		Content: &domain.BoardContent{
			BoardSize:  5,
			TotalWords: 3,
			WordMappings: []domain.WordMapping{
				{Word: "birds", Position: domain.GridPoint{X: 0, Y: 0}, Order: 1},
				{Word: "sing", Position: domain.GridPoint{X: 2, Y: 1}, Order: 2},
				{Word: "loud", Position: domain.GridPoint{X: 4, Y: 4}, Order: 3},
			},
		},
		State: &domain.SessionState{State: domain.SessionShowing, TotalAllowedStones: 5},
	}

	tests := []struct {
		name       string
		body       string
		userID     uuid.UUID
		want       *service.StartSessionRequest
		svcErr     error
		wantStatus int
		wantError  string
	}{
		{
			name:       "drawn sentence",
			body:       `{"difficulty": 1, "language": "en"}`,
			userID:     userID,
			want:       &service.StartSessionRequest{DifficultyLevel: 1, Language: "en"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "own sentence",
			body:       `{"difficulty": 2, "sentence": "birds sing loud"}`,
			userID:     userID,
			want:       &service.StartSessionRequest{DifficultyLevel: 2, Sentence: "birds sing loud"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unauthenticated",
			body:       `{"difficulty": 1}`,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:       "missing difficulty",
			body:       `{"language": "en"}`,
			userID:     userID,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid difficulty: required field",
		},
		{
			name:       "malformed body",
			body:       `{"difficulty": "hard"}`,
			userID:     userID,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "unknown difficulty",
			body:       `{"difficulty": 9}`,
			userID:     userID,
			want:       &service.StartSessionRequest{DifficultyLevel: 9},
			svcErr:     domain.ErrUnknownDifficulty,
			wantStatus: http.StatusBadRequest,
			wantError:  "Unknown difficulty level",
		},
		{
			name:       "unplayable sentence",
			body:       `{"difficulty": 1, "sentence": "a a a"}`,
			userID:     userID,
			want:       &service.StartSessionRequest{DifficultyLevel: 1, Sentence: "a a a"},
			svcErr:     fmt.Errorf("%w: duplicate word", domain.ErrInvalidContent),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "Sentence cannot be played at this difficulty",
		},
		{
			name:       "source down",
			body:       `{"difficulty": 1}`,
			userID:     userID,
			want:       &service.StartSessionRequest{DifficultyLevel: 1},
			svcErr:     generation.ErrSourceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			games := &mockGameService{}
			if tt.want != nil {
				var result *service.SessionView
				if tt.svcErr == nil {
					result = view
				}
				games.On("StartSession", mock.Anything, userID, *tt.want).Return(result, tt.svcErr)
			}
			router := testRouter(NewSessionHandler(games, discardLogger()), nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newRequest(http.MethodPost, "/api/sessions", tt.body, tt.userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
			if tt.wantStatus == http.StatusCreated {
				var got service.SessionView
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, sessionID, got.ID)
				require.NotNil(t, got.Content)
				assert.Len(t, got.Content.WordMappings, 3)
				assert.Equal(t, domain.SessionShowing, got.State.State)
			}
			games.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_GetSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()

	tests := []struct {
		name       string
		path       string
		svcErr     error
		callSvc    bool
		wantStatus int
	}{
		{name: "found", path: sessionID.String(), callSvc: true, wantStatus: http.StatusOK},
		{name: "bad id", path: "not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "not found", path: sessionID.String(), callSvc: true, svcErr: service.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "other owner", path: sessionID.String(), callSvc: true, svcErr: service.ErrNotOwned, wantStatus: http.StatusForbidden},
		{name: "failure", path: sessionID.String(), callSvc: true, svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			games := &mockGameService{}
			if tt.callSvc {
				var view *service.SessionView
				if tt.svcErr == nil {
					view = &service.SessionView{ID: sessionID}
				}
				games.On("GetSession", mock.Anything, userID, sessionID).Return(view, tt.svcErr)
			}
			router := testRouter(NewSessionHandler(games, discardLogger()), nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newRequest(http.MethodGet, "/api/sessions/"+tt.path, "", userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Contains(t, rec.Body.String(), "Failed to get session")
				assert.NotContains(t, rec.Body.String(), "db down")
			}
			games.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_TrackPointer(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()
	target := "/api/sessions/" + sessionID.String() + "/pointer"

	tests := []struct {
		name       string
		body       string
		callSvc    bool
		svcErr     error
		wantStatus int
	}{
		{name: "tracked", body: `{"x": 1.25, "y": 0}`, callSvc: true, wantStatus: http.StatusNoContent},
		{name: "missing y", body: `{"x": 1.25}`, wantStatus: http.StatusBadRequest},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
		{
			name:       "not playing",
			body:       `{"x": 1.25, "y": 0}`,
			callSvc:    true,
			svcErr:     fmt.Errorf("%w: state is showing", session.ErrInputNotAccepted),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			games := &mockGameService{}
			if tt.callSvc {
				games.On("TrackPointer", mock.Anything, userID, sessionID, 1.25, 0.0).Return(tt.svcErr)
			}
			router := testRouter(NewSessionHandler(games, discardLogger()), nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newRequest(http.MethodPost, target, tt.body, userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			games.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_PlaceStone(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()
	target := "/api/sessions/" + sessionID.String() + "/stones"
	clickedAt := time.Date(2026, 3, 2, 9, 0, 5, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		want       *service.PlacementRequest
		result     *service.PlacementResult
		svcErr     error
		wantStatus int
		wantError  string
	}{
		{
			name: "correct stone",
			body: `{"click_x": 2.4, "click_y": 1.6, "grid_x": 2, "grid_y": 1}`,
			want: &service.PlacementRequest{ClickX: 2.4, ClickY: 1.6, GridX: 2, GridY: 1},
			result: &service.PlacementResult{
				Stone: domain.PlacedStone{Position: domain.GridPoint{X: 2, Y: 1}, Correct: true, ClickedAt: clickedAt},
				State: domain.SessionState{State: domain.SessionPlaying, UsedStonesCount: 1, TotalAllowedStones: 5},
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "origin cell",
			body: `{"click_x": 0, "click_y": 0, "grid_x": 0, "grid_y": 0}`,
			want: &service.PlacementRequest{},
			result: &service.PlacementResult{
				Stone: domain.PlacedStone{Position: domain.GridPoint{}, Correct: true, ClickedAt: clickedAt},
				State: domain.SessionState{State: domain.SessionPlaying, UsedStonesCount: 1, TotalAllowedStones: 5},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "out of grid",
			body:       `{"click_x": -3, "click_y": 1, "grid_x": -3, "grid_y": 1}`,
			want:       &service.PlacementRequest{ClickX: -3, ClickY: 1, GridX: -3, GridY: 1},
			result:     &service.PlacementResult{Stone: domain.PlacedStone{Position: domain.GridPoint{X: -3, Y: 1}}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing grid cell",
			body:       `{"click_x": 2.4, "click_y": 1.6}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid grid_x: required field",
		},
		{
			name:       "unknown field",
			body:       `{"click_x": 2.4, "click_y": 1.6, "grid_x": 2, "grid_y": 1, "word": "sing"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "budget used",
			body:       `{"click_x": 2.4, "click_y": 1.6, "grid_x": 2, "grid_y": 1}`,
			want:       &service.PlacementRequest{ClickX: 2.4, ClickY: 1.6, GridX: 2, GridY: 1},
			svcErr:     session.ErrBudgetExhausted,
			wantStatus: http.StatusConflict,
			wantError:  "No stones left",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			games := &mockGameService{}
			if tt.want != nil {
				games.On("PlaceStone", mock.Anything, userID, sessionID, *tt.want).Return(tt.result, tt.svcErr)
			}
			router := testRouter(NewSessionHandler(games, discardLogger()), nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newRequest(http.MethodPost, target, tt.body, userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
			if tt.wantStatus == http.StatusOK {
				var got service.PlacementResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, tt.result.Stone.Position, got.Stone.Position)
				assert.Equal(t, tt.result.Stone.Correct, got.Stone.Correct)
			}
			games.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_Submit(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()
	target := "/api/sessions/" + sessionID.String() + "/submit"
	outcome := &domain.SessionOutcome{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: sessionID,
		Result: domain.ScoreResult{
			ResultType:   domain.ResultExcellent,
			Score:        96.5,
			OrderCorrect: true,
		},
		CorrectPlacements: 3,
		TotalWords:        3,
	}

	tests := []struct {
		name       string
		result     *domain.SessionOutcome
		svcErr     error
		wantStatus int
	}{
		{name: "scored", result: outcome, wantStatus: http.StatusOK},
		{name: "abandoned", svcErr: service.ErrSessionNotScored, wantStatus: http.StatusConflict},
		{name: "not found", svcErr: service.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "still showing", svcErr: session.ErrInvalidTransition, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			games := &mockGameService{}
			games.On("Submit", mock.Anything, userID, sessionID).Return(tt.result, tt.svcErr)
			router := testRouter(NewSessionHandler(games, discardLogger()), nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newRequest(http.MethodPost, target, "", userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.result != nil {
				var got domain.SessionOutcome
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, domain.ResultExcellent, got.Result.ResultType)
				assert.InDelta(t, 96.5, got.Result.Score, 1e-9)
			}
			games.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_Abandon(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()
	target := "/api/sessions/" + sessionID.String()

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "abandoned", wantStatus: http.StatusNoContent},
		{name: "already finished", svcErr: session.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "other owner", svcErr: service.ErrNotOwned, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			games := &mockGameService{}
			games.On("Abandon", mock.Anything, userID, sessionID).Return(tt.svcErr)
			router := testRouter(NewSessionHandler(games, discardLogger()), nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newRequest(http.MethodDelete, target, "", userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			games.AssertExpectations(t)
		})
	}
}

func TestNewSessionHandler_NilService(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewSessionHandler(nil, nil) })
}
