package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/rest"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/terminal"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/websocket"
)

// RunApp - runs the application with the adapter selected in conf.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	switch conf.Adapter {
	case config.AdapterTerminal:
		return runTerminal(ctx, logger)
	default:
		return runHTTP(ctx, logger, conf)
	}
}

func runTerminal(ctx context.Context, logger *slog.Logger) error {
	if err := terminal.New(logger, os.Stdin, os.Stdout).Run(ctx); err != nil {
		return fmt.Errorf("terminal adapter error: %w", err)
	}

	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	sessionRepo := repository.NewSessionRepository()
	gameManager := usecase.NewGameManager(logger, sessionRepo, usecase.Options{
		MaxSessions: conf.Sessions.MaxActive,
		IdleTTL:     conf.Sessions.IdleTTL,
	})

	go gameManager.RunJanitor(ctx, conf.Sessions.SweepInterval)

	wsServer := websocket.New(logger, gameManager)
	router := rest.NewRouter(logger, gameManager, wsServer)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err := rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
