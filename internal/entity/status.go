package entity

import "fmt"

type StatusKind uint8

const (
	StatusInProgress StatusKind = iota
	StatusWon
	StatusTied
)

func (k StatusKind) String() string {
	switch k {
	case StatusWon:
		return "won"
	case StatusTied:
		return "tied"
	default:
		return "in_progress"
	}
}

// Status is the outcome of a game so far. Winner and Line are set only when Kind is StatusWon.
type Status struct {
	Kind   StatusKind
	Winner Player
	Line   WinLine
}

func InProgress() Status {
	return Status{Kind: StatusInProgress}
}

func Won(winner Player, line WinLine) Status {
	return Status{Kind: StatusWon, Winner: winner, Line: line}
}

func Tied() Status {
	return Status{Kind: StatusTied}
}

func (that Status) IsTerminal() bool {
	return that.Kind == StatusWon || that.Kind == StatusTied
}

func (that Status) String() string {
	if that.Kind == StatusWon {
		return fmt.Sprintf("won(%s)", that.Winner)
	}
	return that.Kind.String()
}
