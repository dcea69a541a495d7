// Package terminal plays a hot-seat game over a line-oriented reader and writer.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

const help = "Enter 1-9 to play a cell, r to reset, q to quit."

// Adapter owns one engine; cells are numbered like a phone keypad, 1 top left to 9 bottom right.
type Adapter struct {
	logger *slog.Logger
	engine *tictactoe.Engine
	in     io.Reader
	out    io.Writer
}

func New(logger *slog.Logger, in io.Reader, out io.Writer) *Adapter {
	return &Adapter{
		logger: logger.With("component", "terminal"),
		engine: tictactoe.NewEngine(),
		in:     in,
		out:    out,
	}
}

// Run reads intents until quit, EOF or ctx is done.
func (that *Adapter) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprintln(that.out, help)
	that.render()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		case line := <-lines:
			if quit := that.handle(strings.TrimSpace(strings.ToLower(line))); quit {
				return nil
			}
		}
	}
}

func (that *Adapter) handle(input string) bool {
	switch input {
	case "":
		return false
	case "q", "quit":
		return true
	case "r", "reset":
		that.engine.Reset()
		that.render()
		return false
	}

	number, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintln(that.out, help)
		return false
	}

	err = that.engine.ApplyMove(number - 1)
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		fmt.Fprintln(that.out, "The game is over, press r to play again.")
		return false
	case errors.Is(err, apperror.ErrCellOccupied):
		fmt.Fprintf(that.out, "Cell %d is taken.\n", number)
		return false
	case errors.Is(err, apperror.ErrInvalidMove):
		fmt.Fprintln(that.out, help)
		return false
	}

	that.logger.Debug("move applied", "cell", number-1)
	that.render()

	return false
}

func (that *Adapter) render() {
	board := that.engine.Board()

	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			index := row*3 + col
			mark := board[index].String()
			if board[index] == entity.EmptyCell {
				mark = strconv.Itoa(index + 1)
			}
			if col > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + mark + " ")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(entity.Announce(that.engine.CurrentPlayer(), that.engine.Status()))
	sb.WriteString("\n")

	fmt.Fprint(that.out, sb.String())
}
