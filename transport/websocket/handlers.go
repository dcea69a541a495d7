package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

func (that *Server) handleState(ctx context.Context, sessionID string, msg *Message) (*Message, error) {
	state, err := that.uGame.GetGameState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return newResponse(msg.Action, ResponsePayload{Game: &state})
}

func (that *Server) handleMove(ctx context.Context, sessionID string, msg *Message) (*Message, error) {
	log := that.logger.With("method", "handleMove", "session_id", sessionID)

	var payload MovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Cell == nil {
		log.Error("invalid move payload", "error", err)
		return newResponse(msg.Action, ResponsePayload{Error: "payload must be {\"cell\": 0..8}"})
	}

	state, err := that.uGame.MakeMove(ctx, sessionID, *payload.Cell)
	if errors.Is(err, apperror.ErrInvalidMove) {
		return newResponse(msg.Action, ResponsePayload{Game: &state, Error: err.Error()})
	}

	if err != nil {
		return nil, err
	}

	return newResponse(msg.Action, ResponsePayload{Game: &state})
}

func (that *Server) handleReset(ctx context.Context, sessionID string, msg *Message) (*Message, error) {
	state, err := that.uGame.ResetGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return newResponse(msg.Action, ResponsePayload{Game: &state})
}
