package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/wordstone/internal/api/shared"
	"github.com/phrazzld/wordstone/internal/platform/logger"
	"github.com/phrazzld/wordstone/internal/service"
)

// SessionHandler serves the play-session endpoints.
type SessionHandler struct {
	games  service.GameService
	logger *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(games service.GameService, log *slog.Logger) *SessionHandler {
	if games == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("games cannot be nil for SessionHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{
		games:  games,
		logger: log.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /sessions.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}
	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	view, err := h.games.StartSession(r.Context(), userID, service.StartSessionRequest{
		DifficultyLevel: req.Difficulty,
		Language:        req.Language,
		Sentence:        req.Sentence,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	log.Info("session started",
		slog.String("session_id", view.ID.String()),
		slog.Int("difficulty", req.Difficulty))
	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// GetSession handles GET /sessions/{id}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := requireUserAndSession(w, r, log)
	if !ok {
		return
	}

	view, err := h.games.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// TrackPointer handles POST /sessions/{id}/pointer.
func (h *SessionHandler) TrackPointer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := requireUserAndSession(w, r, log)
	if !ok {
		return
	}
	var req PointerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	if err := h.games.TrackPointer(r.Context(), userID, sessionID, *req.X, *req.Y); err != nil {
		HandleAPIError(w, r, err, "Failed to track pointer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlaceStone handles POST /sessions/{id}/stones.
func (h *SessionHandler) PlaceStone(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := requireUserAndSession(w, r, log)
	if !ok {
		return
	}
	var req PlaceStoneRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.games.PlaceStone(r.Context(), userID, sessionID, service.PlacementRequest{
		ClickX: *req.ClickX,
		ClickY: *req.ClickY,
		GridX:  *req.GridX,
		GridY:  *req.GridY,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to place stone")
		return
	}

	log.Debug("stone placed",
		slog.String("session_id", sessionID.String()),
		slog.Bool("correct", result.Stone.Correct),
		slog.Int("used_stones", result.State.UsedStonesCount))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Submit handles POST /sessions/{id}/submit.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := requireUserAndSession(w, r, log)
	if !ok {
		return
	}

	outcome, err := h.games.Submit(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit session")
		return
	}

	log.Info("session submitted",
		slog.String("session_id", sessionID.String()),
		slog.String("result", string(outcome.Result.ResultType)))
	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// Abandon handles DELETE /sessions/{id}.
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := requireUserAndSession(w, r, log)
	if !ok {
		return
	}

	if err := h.games.Abandon(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "Failed to abandon session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
