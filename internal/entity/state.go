package entity

import "fmt"

// GameState is the read-only view adapters render from.
type GameState struct {
	SessionID     string    `json:"session_id,omitempty"`
	Board         [9]string `json:"board"`
	CurrentPlayer string    `json:"current_player"`
	Status        string    `json:"status"`
	Winner        string    `json:"winner,omitempty"`
	WinLine       []int     `json:"win_line,omitempty"`
	Announcement  string    `json:"announcement"`
}

func NewGameState(board Board, current Player, status Status) GameState {
	state := GameState{
		CurrentPlayer: current.String(),
		Status:        status.Kind.String(),
		Announcement:  Announce(current, status),
	}

	for i, cell := range board {
		state.Board[i] = cell.String()
	}

	if status.Kind == StatusWon {
		state.Winner = status.Winner.String()
		state.WinLine = []int{status.Line[0], status.Line[1], status.Line[2]}
	}

	return state
}

// IsFinished reports whether the state is terminal.
func (that GameState) IsFinished() bool {
	return that.Status == StatusWon.String() || that.Status == StatusTied.String()
}

// Announce returns the line shown to players under the board.
func Announce(current Player, status Status) string {
	switch status.Kind {
	case StatusWon:
		return fmt.Sprintf("Player %s Won", status.Winner)
	case StatusTied:
		return "Tie"
	default:
		return fmt.Sprintf("Player %s's turn", current)
	}
}
