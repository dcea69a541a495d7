package rest

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const shutdownTimeout = 5 * time.Second

//go:embed static
var staticFiles embed.FS

type gameManager interface {
	StartSession(ctx context.Context) (entity.GameState, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (entity.GameState, error)
	ResetGame(ctx context.Context, sessionID string) (entity.GameState, error)
	GetGameState(ctx context.Context, sessionID string) (entity.GameState, error)
	EndSession(ctx context.Context, sessionID string) error
	ActiveSessions(ctx context.Context) (int, error)
}

// NewRouter wires the browser page, the session API and the websocket endpoint.
func NewRouter(logger *slog.Logger, manager gameManager, wsHandler http.Handler) *mux.Router {
	handlers := NewHandlers(logger, manager)

	router := mux.NewRouter()
	router.HandleFunc("/ping", NewPingHandler(logger, manager).PingHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", handlers.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", handlers.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", handlers.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/moves", handlers.MakeMove).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", handlers.Reset).Methods(http.MethodPost)

	if wsHandler != nil {
		router.Handle("/ws", wsHandler)
	}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// the embedded directory is fixed at build time
		panic(fmt.Errorf("static files are missing: %w", err))
	}
	router.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)

	return router
}

// Start serves handler on port until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
