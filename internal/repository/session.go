package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

var ErrEmptySessionID = errors.New("session id is empty")

// Session is one hot-seat game: two players sharing one engine.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	engine     *tictactoe.Engine
	lastActive time.Time
	pinned     bool
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		engine:     tictactoe.NewEngine(),
		lastActive: now,
	}
}

// Do runs fn against the engine. Calls on the same session never overlap.
func (that *Session) Do(now time.Time, fn func(engine *tictactoe.Engine) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastActive = now

	return fn(that.engine)
}

func (that *Session) LastActive() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.lastActive
}

// Pin keeps the session out of idle sweeps. Its owner ends it explicitly.
func (that *Session) Pin() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.pinned = true
}

func (that *Session) Pinned() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.pinned
}

func (that *Session) idleSince(before time.Time) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return !that.pinned && that.lastActive.Before(before)
}

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *Session) error
	CreateIfBelow(ctx context.Context, session *Session, limit int) error
	GetByID(ctx context.Context, id string) (*Session, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	DeleteIdle(ctx context.Context, before time.Time) ([]string, error)
}

// memSession keeps live sessions in process memory; nothing outlives the process.
type memSession struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRepository() SessionRepository {
	return &memSession{
		sessions: make(map[string]*Session),
	}
}

func (that *memSession) CreateOrUpdate(_ context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("failed to store session: %w", ErrEmptySessionID)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = session

	return nil
}

// CreateIfBelow stores the session only while fewer than limit sessions are live.
// A limit of zero or less means no cap.
func (that *memSession) CreateIfBelow(_ context.Context, session *Session, limit int) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("failed to store session: %w", ErrEmptySessionID)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.sessions[session.ID]; !exists && limit > 0 && len(that.sessions) >= limit {
		return fmt.Errorf("%w: limit %d", apperror.ErrTooManySessions, limit)
	}

	that.sessions[session.ID] = session

	return nil
}

func (that *memSession) GetByID(_ context.Context, id string) (*Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return session, nil
}

func (that *memSession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

func (that *memSession) Count(_ context.Context) (int, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions), nil
}

// DeleteIdle removes unpinned sessions whose last activity is before the cutoff and returns their ids.
func (that *memSession) DeleteIdle(_ context.Context, before time.Time) ([]string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var deleted []string
	for id, session := range that.sessions {
		if session.idleSince(before) {
			delete(that.sessions, id)
			deleted = append(deleted, id)
		}
	}

	return deleted, nil
}
