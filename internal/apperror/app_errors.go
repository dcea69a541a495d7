package apperror

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is the only error the game engine produces. Every rejected move wraps it.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrGameFinished = fmt.Errorf("%w: game is already finished", ErrInvalidMove)
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrInvalidCell  = fmt.Errorf("%w: invalid cell index", ErrInvalidMove)
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)
