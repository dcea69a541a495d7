package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

type sessionRepo interface {
	CreateIfBelow(ctx context.Context, session *repository.Session, limit int) error
	GetByID(ctx context.Context, id string) (*repository.Session, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	DeleteIdle(ctx context.Context, before time.Time) ([]string, error)
}

type Options struct {
	MaxSessions int
	IdleTTL     time.Duration
}

// GameManager routes adapter intents to the engine of the session they belong to.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, opts Options) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		maxSessions: opts.MaxSessions,
		idleTTL:     opts.IdleTTL,
		now:         time.Now,
	}
}

// StartSession creates a session with a fresh game. It ends on EndSession or when idle for too long.
func (that *GameManager) StartSession(ctx context.Context) (entity.GameState, error) {
	return that.startSession(ctx, false)
}

// StartPinnedSession creates a session that idle eviction never touches.
// The caller owns its lifetime and must call EndSession.
func (that *GameManager) StartPinnedSession(ctx context.Context) (entity.GameState, error) {
	return that.startSession(ctx, true)
}

func (that *GameManager) startSession(ctx context.Context, pinned bool) (entity.GameState, error) {
	log := that.logger.With("method", "StartSession")

	session := repository.NewSession(uuid.NewString(), that.now())
	if pinned {
		session.Pin()
	}

	if err := that.sessionRepo.CreateIfBelow(ctx, session, that.maxSessions); err != nil {
		return entity.GameState{}, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("session started", "session_id", session.ID, "pinned", pinned)

	return that.snapshot(session)
}

// MakeMove applies a move for the current player. A rejected move returns the unchanged state
// together with an error matching apperror.ErrInvalidMove.
func (that *GameManager) MakeMove(ctx context.Context, sessionID string, cell int) (entity.GameState, error) {
	log := that.logger.With("method", "MakeMove", "session_id", sessionID)

	session, err := that.getSessionByID(ctx, sessionID)
	if err != nil {
		return entity.GameState{}, err
	}

	var state entity.GameState
	moveErr := session.Do(that.now(), func(engine *tictactoe.Engine) error {
		mover := engine.CurrentPlayer()
		applyErr := engine.ApplyMove(cell)
		state = engine.Snapshot()
		state.SessionID = session.ID

		if applyErr != nil {
			return applyErr
		}

		log.Debug("move applied", "player", mover.String(), "cell", cell)

		if status := engine.Status(); status.IsTerminal() {
			log.Info("game finished", "status", status.String())
		}

		return nil
	})

	if errors.Is(moveErr, apperror.ErrInvalidMove) {
		log.Debug("move rejected", "cell", cell, "error", moveErr)
		return state, fmt.Errorf("failed make turn: %w", moveErr)
	}

	if moveErr != nil {
		return entity.GameState{}, fmt.Errorf("failed make turn: %w", moveErr)
	}

	return state, nil
}

// ResetGame starts a new game in the same session.
func (that *GameManager) ResetGame(ctx context.Context, sessionID string) (entity.GameState, error) {
	session, err := that.getSessionByID(ctx, sessionID)
	if err != nil {
		return entity.GameState{}, err
	}

	var state entity.GameState
	err = session.Do(that.now(), func(engine *tictactoe.Engine) error {
		engine.Reset()
		state = engine.Snapshot()
		return nil
	})
	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to reset game: %w", err)
	}

	state.SessionID = session.ID

	that.logger.Debug("game reset", "method", "ResetGame", "session_id", sessionID)

	return state, nil
}

func (that *GameManager) GetGameState(ctx context.Context, sessionID string) (entity.GameState, error) {
	session, err := that.getSessionByID(ctx, sessionID)
	if err != nil {
		return entity.GameState{}, err
	}

	return that.snapshot(session)
}

// ActiveSessions reports how many sessions are live.
func (that *GameManager) ActiveSessions(ctx context.Context) (int, error) {
	count, err := that.sessionRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

// EndSession drops the session and its game.
func (that *GameManager) EndSession(ctx context.Context, sessionID string) error {
	if err := that.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "method", "EndSession", "session_id", sessionID)

	return nil
}

// EvictIdle ends every session idle for longer than the configured TTL and returns how many went.
func (that *GameManager) EvictIdle(ctx context.Context) (int, error) {
	log := that.logger.With("method", "EvictIdle")

	deleted, err := that.sessionRepo.DeleteIdle(ctx, that.now().Add(-that.idleTTL))
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}

	if len(deleted) > 0 {
		log.Info("idle sessions evicted", "count", len(deleted))
	}

	return len(deleted), nil
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (that *GameManager) RunJanitor(ctx context.Context, interval time.Duration) {
	log := that.logger.With("method", "RunJanitor")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("janitor stopped")
			return
		case <-ticker.C:
			if _, err := that.EvictIdle(ctx); err != nil {
				log.Error("failed to evict idle sessions", "error", err)
			}
		}
	}
}

func (that *GameManager) snapshot(session *repository.Session) (entity.GameState, error) {
	var state entity.GameState
	err := session.Do(that.now(), func(engine *tictactoe.Engine) error {
		state = engine.Snapshot()
		return nil
	})
	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to read game state: %w", err)
	}

	state.SessionID = session.ID

	return state, nil
}

func (that *GameManager) getSessionByID(ctx context.Context, id string) (*repository.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}
