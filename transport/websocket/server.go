package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

type uGame interface {
	StartPinnedSession(ctx context.Context) (entity.GameState, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (entity.GameState, error)
	ResetGame(ctx context.Context, sessionID string) (entity.GameState, error)
	GetGameState(ctx context.Context, sessionID string) (entity.GameState, error)
	EndSession(ctx context.Context, sessionID string) error
}

type handlerFunc func(ctx context.Context, sessionID string, message *Message) (*Message, error)

// Server gives every connection its own pinned session and ends it when the connection closes.
type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		// a nil CheckOrigin only accepts same-origin browsers
		upgrader: websocket.Upgrader{},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionState] = server.handleState
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset

	return server
}

// ServeHTTP upgrades the connection and serves it until the client goes away.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	state, err := that.uGame.StartPinnedSession(ctx)
	if err != nil {
		log.Error("failed to start session", "error", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "no session available"))
		return
	}

	sessionID := state.SessionID
	log = log.With("session_id", sessionID)
	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	defer func() {
		if err := that.uGame.EndSession(ctx, sessionID); err != nil {
			log.Error("failed to end session", "error", err)
		}
	}()

	if err = that.handleMessages(ctx, conn, sessionID); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client one at a time.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	log := that.logger.With("method", "handleMessages", "session_id", sessionID)

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Error("failed to unmarshal message", "error", err)
				if err = that.writeError(conn, actionError, "malformed message"); err != nil {
					return err
				}
				continue
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			if err := that.writeError(conn, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		response, err := handler(ctx, sessionID, &message)
		if errors.Is(err, apperror.ErrSessionNotFound) {
			log.Error("session is gone", "action", message.Action)
			if err = that.writeError(conn, message.Action, "session not found"); err != nil {
				return err
			}
			continue
		}

		if err != nil {
			return fmt.Errorf("failed to process %s: %w", message.Action, err)
		}

		if err = conn.WriteJSON(response); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
	}
}

func (that *Server) writeError(conn *websocket.Conn, action, reason string) error {
	response, err := newResponse(action, ResponsePayload{Error: reason})
	if err != nil {
		return fmt.Errorf("failed to build response: %w", err)
	}

	if err = conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
