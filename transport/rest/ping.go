package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type sessionCounter interface {
	ActiveSessions(ctx context.Context) (int, error)
}

type PingHandler interface {
	PingHandler(w http.ResponseWriter, r *http.Request)
}

type pingResponse struct {
	Message        string `json:"message"`
	ActiveSessions int    `json:"active_sessions"`
}

type pingHandler struct {
	logger   *slog.Logger
	sessions sessionCounter
}

func NewPingHandler(logger *slog.Logger, sessions sessionCounter) PingHandler {
	return &pingHandler{
		logger:   logger.With("component", "ping"),
		sessions: sessions,
	}
}

// PingHandler answers liveness probes with the number of live sessions.
func (that *pingHandler) PingHandler(w http.ResponseWriter, r *http.Request) {
	count, err := that.sessions.ActiveSessions(r.Context())
	if err != nil {
		that.logger.Error("failed to count sessions", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(pingResponse{Message: "pong", ActiveSessions: count}); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
