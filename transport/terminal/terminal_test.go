package terminal

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string) (*Adapter, string) {
	t.Helper()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := New(logger, strings.NewReader(input), &out)

	require.NoError(t, adapter.Run(context.Background()))

	return adapter, out.String()
}

func TestAdapter_Run(t *testing.T) {
	t.Run("Renders the empty board on start", func(t *testing.T) {
		_, out := run(t, "")

		assert.Contains(t, out, help)
		assert.Contains(t, out, " 1 | 2 | 3 \n---+---+---\n 4 | 5 | 6 \n---+---+---\n 7 | 8 | 9 \n")
		assert.Contains(t, out, "Player X's turn")
	})

	t.Run("Plays to a win", func(t *testing.T) {
		// When: X:1, O:2, X:5, O:3, X:9 on the keypad
		adapter, out := run(t, "1\n2\n5\n3\n9\n")

		// Then: X wins on the diagonal
		assert.Equal(t, entity.Won(entity.PlayerX, entity.WinLine{0, 4, 8}), adapter.engine.Status())
		assert.Contains(t, out, " X | O | O \n")
		assert.True(t, strings.HasSuffix(out, "Player X Won\n"))
	})

	t.Run("Occupied cell is reported", func(t *testing.T) {
		adapter, out := run(t, "5\n5\n")

		assert.Contains(t, out, "Cell 5 is taken.")
		assert.Equal(t, entity.PlayerO, adapter.engine.CurrentPlayer())
	})

	t.Run("Moves after the end are refused until reset", func(t *testing.T) {
		adapter, out := run(t, "1\n2\n5\n3\n9\n4\nr\n4\n")

		assert.Contains(t, out, "The game is over, press r to play again.")
		assert.Equal(t, entity.Board{3: entity.CellX}, adapter.engine.Board())
		assert.Equal(t, entity.PlayerO, adapter.engine.CurrentPlayer())
	})

	t.Run("Garbage and out of range input change nothing", func(t *testing.T) {
		adapter, _ := run(t, "hello\n0\n10\n\n")

		assert.Equal(t, entity.Board{}, adapter.engine.Board())
		assert.Equal(t, entity.PlayerX, adapter.engine.CurrentPlayer())
	})

	t.Run("Quit stops reading", func(t *testing.T) {
		adapter, _ := run(t, "1\nq\n2\n")

		assert.Equal(t, entity.Board{entity.CellX}, adapter.engine.Board())
	})
}

func TestAdapter_RunStopsWithContext(t *testing.T) {
	// Given: an input that never ends
	reader, writer := io.Pipe()
	defer writer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := New(logger, reader, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Then: Run returns once the context is done
	require.NoError(t, adapter.Run(ctx))
}
