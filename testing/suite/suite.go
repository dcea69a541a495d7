package suite

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/rest"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/websocket"
)

const (
	maxWaitDuration = 10 * time.Second
	maxSessions     = 16
	idleTTL         = time.Minute
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Sessions repository.SessionRepository
	Manager  *usecase.GameManager
	Server   *httptest.Server
}

// New starts the full HTTP host on a local test server. Everything is torn down with t.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))

	sessions := repository.NewSessionRepository()
	manager := usecase.NewGameManager(logger, sessions, usecase.Options{
		MaxSessions: maxSessions,
		IdleTTL:     idleTTL,
	})

	router := rest.NewRouter(logger, manager, websocket.New(logger, manager))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return ctx, &Suite{
		T:        t,
		Logger:   logger,
		Sessions: sessions,
		Manager:  manager,
		Server:   server,
	}
}

// WebSocketURL returns the ws:// address of the websocket endpoint.
func (that *Suite) WebSocketURL() string {
	return "ws" + strings.TrimPrefix(that.Server.URL, "http") + "/ws"
}
