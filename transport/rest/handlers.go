package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string            `json:"error"`
	Game  *entity.GameState `json:"game,omitempty"`
}

type Handlers struct {
	logger  *slog.Logger
	manager gameManager
}

func NewHandlers(logger *slog.Logger, manager gameManager) *Handlers {
	return &Handlers{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

func (that *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := that.manager.StartSession(r.Context())
	if err != nil {
		that.writeError(w, "CreateSession", err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, state)
}

func (that *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := that.manager.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, "GetSession", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.manager.EndSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.writeError(w, "DeleteSession", err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": 0..8}"})
		return
	}

	state, err := that.manager.MakeMove(r.Context(), mux.Vars(r)["id"], *req.Cell)
	if err != nil {
		that.writeError(w, "MakeMove", err, &state)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	state, err := that.manager.ResetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, "Reset", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

// writeError maps domain errors to status codes. A rejected move carries the unchanged game back.
func (that *Handlers) writeError(w http.ResponseWriter, method string, err error, state *entity.GameState) {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		that.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Game: state})
	case errors.Is(err, apperror.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, apperror.ErrTooManySessions):
		that.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: apperror.ErrTooManySessions.Error()})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
