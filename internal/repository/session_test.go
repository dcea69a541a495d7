package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx := context.Background()
	sessionRepo := NewSessionRepository()

	t.Run("Stores a session", func(t *testing.T) {
		// Given: a new session
		session := NewSession("123", epoch)

		// When: CreateOrUpdate is called
		err := sessionRepo.CreateOrUpdate(ctx, session)

		// Then: no error should be returned and the session is counted
		require.NoError(t, err)

		count, err := sessionRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Rejects a session without id", func(t *testing.T) {
		err := sessionRepo.CreateOrUpdate(ctx, NewSession("", epoch))

		require.ErrorIs(t, err, ErrEmptySessionID)
	})
}

func TestSessionRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("GetByID_Success", func(t *testing.T) {
		sessionRepo := NewSessionRepository()
		session := NewSession("123", epoch)
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: GetByID is called with an existing ID
		retrieved, err := sessionRepo.GetByID(ctx, "123")

		// Then: the very same session is returned
		require.NoError(t, err)
		assert.Same(t, session, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		sessionRepo := NewSessionRepository()

		// When: GetByID is called with a non-existent ID
		retrieved, err := sessionRepo.GetByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, retrieved)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx := context.Background()

	t.Run("DeleteByID_Success", func(t *testing.T) {
		sessionRepo := NewSessionRepository()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, NewSession("123", epoch)))

		// When: DeleteByID is called with an existing ID
		err := sessionRepo.DeleteByID(ctx, "123")

		// Then: the session is gone
		require.NoError(t, err)

		_, err = sessionRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		sessionRepo := NewSessionRepository()

		err := sessionRepo.DeleteByID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestSessionRepository_DeleteIdle(t *testing.T) {
	ctx := context.Background()
	sessionRepo := NewSessionRepository()

	// Given: one stale and one recently used session
	stale := NewSession("stale", epoch)
	fresh := NewSession("fresh", epoch)
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, stale))
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, fresh))

	require.NoError(t, fresh.Do(epoch.Add(time.Hour), func(*tictactoe.Engine) error { return nil }))

	// When: sessions idle since before epoch+30m are deleted
	deleted, err := sessionRepo.DeleteIdle(ctx, epoch.Add(30*time.Minute))

	// Then: only the stale one is removed
	require.NoError(t, err)
	assert.Equal(t, []string{"stale"}, deleted)

	_, err = sessionRepo.GetByID(ctx, "fresh")
	require.NoError(t, err)
}

func TestSessionRepository_DeleteIdle_SkipsPinned(t *testing.T) {
	ctx := context.Background()
	sessionRepo := NewSessionRepository()

	// Given: two sessions idle since epoch, one of them pinned
	pinned := NewSession("pinned", epoch)
	pinned.Pin()
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, pinned))
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, NewSession("loose", epoch)))

	// When: everything idle for an hour is swept
	deleted, err := sessionRepo.DeleteIdle(ctx, epoch.Add(time.Hour))

	// Then: the pinned session survives
	require.NoError(t, err)
	assert.Equal(t, []string{"loose"}, deleted)
	assert.True(t, pinned.Pinned())

	retrieved, err := sessionRepo.GetByID(ctx, "pinned")
	require.NoError(t, err)
	assert.Same(t, pinned, retrieved)
}

func TestSessionRepository_CreateIfBelow(t *testing.T) {
	ctx := context.Background()

	t.Run("Refuses sessions at the limit", func(t *testing.T) {
		sessionRepo := NewSessionRepository()
		require.NoError(t, sessionRepo.CreateIfBelow(ctx, NewSession("1", epoch), 2))
		require.NoError(t, sessionRepo.CreateIfBelow(ctx, NewSession("2", epoch), 2))

		err := sessionRepo.CreateIfBelow(ctx, NewSession("3", epoch), 2)

		require.ErrorIs(t, err, apperror.ErrTooManySessions)
		_, err = sessionRepo.GetByID(ctx, "3")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("No limit", func(t *testing.T) {
		sessionRepo := NewSessionRepository()
		for _, id := range []string{"1", "2", "3"} {
			require.NoError(t, sessionRepo.CreateIfBelow(ctx, NewSession(id, epoch), 0))
		}

		count, err := sessionRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("Rejects a session without id", func(t *testing.T) {
		err := NewSessionRepository().CreateIfBelow(ctx, NewSession("", epoch), 1)

		require.ErrorIs(t, err, ErrEmptySessionID)
	})

	t.Run("Concurrent starts never exceed the limit", func(t *testing.T) {
		// Given: many goroutines racing for a single slot
		sessionRepo := NewSessionRepository()

		var wg sync.WaitGroup
		var mu sync.Mutex
		accepted := 0
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := sessionRepo.CreateIfBelow(ctx, NewSession(fmt.Sprint(i), epoch), 1); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		// Then: exactly one of them got it
		assert.Equal(t, 1, accepted)
		count, err := sessionRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestSession_Do(t *testing.T) {
	t.Run("Touches the session and returns the callback error", func(t *testing.T) {
		session := NewSession("123", epoch)
		errBoom := errors.New("boom")

		err := session.Do(epoch.Add(time.Minute), func(*tictactoe.Engine) error { return errBoom })

		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, epoch.Add(time.Minute), session.LastActive())
	})

	t.Run("Serializes concurrent intents", func(t *testing.T) {
		// Given: a session driven from many goroutines
		session := NewSession("123", epoch)

		var wg sync.WaitGroup
		for cell := 0; cell < entity.BoardSize; cell++ {
			wg.Add(1)
			go func(cell int) {
				defer wg.Done()
				_ = session.Do(epoch, func(engine *tictactoe.Engine) error {
					return engine.ApplyMove(cell)
				})
			}(cell)
		}
		wg.Wait()

		// Then: the board is consistent with alternating, one-at-a-time moves
		var board entity.Board
		require.NoError(t, session.Do(epoch, func(engine *tictactoe.Engine) error {
			board = engine.Board()
			return nil
		}))

		marksX, marksO := 0, 0
		for _, cell := range board {
			switch cell {
			case entity.CellX:
				marksX++
			case entity.CellO:
				marksO++
			}
		}
		assert.True(t, marksX == marksO || marksX == marksO+1, "x=%d o=%d", marksX, marksO)
	})
}
