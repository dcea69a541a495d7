// Package tictactoe holds the game engine: board occupancy, turn order and win/tie detection.
package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// Engine owns the state of one game. It is not safe for concurrent use.
type Engine struct {
	board   entity.Board
	current entity.Player
	status  entity.Status
}

func NewEngine() *Engine {
	engine := &Engine{}
	engine.Reset()

	return engine
}

// ApplyMove places the current player's mark on cell. A rejected move leaves the engine untouched
// and returns an error matching apperror.ErrInvalidMove.
func (that *Engine) ApplyMove(cell int) error {
	if err := that.validateMove(cell); err != nil {
		return fmt.Errorf("cell %d: %w", cell, err)
	}

	that.board[cell] = that.current.Cell()
	that.updateGameStatus()

	return nil
}

func (that *Engine) CurrentPlayer() entity.Player {
	return that.current
}

func (that *Engine) Status() entity.Status {
	return that.status
}

// Board returns a copy of the board.
func (that *Engine) Board() entity.Board {
	return that.board
}

func (that *Engine) Snapshot() entity.GameState {
	return entity.NewGameState(that.board, that.current, that.status)
}

// Reset starts a new game with X to move.
func (that *Engine) Reset() {
	that.board = entity.Board{}
	that.current = entity.PlayerX
	that.status = entity.InProgress()
}

// validateMove - checks if the move is valid.
func (that *Engine) validateMove(cell int) error {
	if that.status.IsTerminal() {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.board) {
		return apperror.ErrInvalidCell
	}

	if that.board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - evaluates the board after a move; the turn passes only while the game goes on.
func (that *Engine) updateGameStatus() {
	// only the mover can have completed a line, so a win always belongs to that.current
	that.status = Evaluate(that.board)

	if !that.status.IsTerminal() {
		that.current = that.current.Opponent()
	}
}

// Evaluate reports the outcome of a board: the first complete line in entity.WinLines order wins,
// otherwise a full board is a tie.
func Evaluate(board entity.Board) entity.Status {
	for _, line := range entity.WinLines {
		if line.Complete(board) {
			winner, _ := board[line[0]].Player()
			return entity.Won(winner, line)
		}
	}

	// the game will continue until all the squares are full
	if board.IsFull() {
		return entity.Tied()
	}

	return entity.InProgress()
}
