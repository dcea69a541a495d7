package entity

// BoardSize is the number of cells on the 3x3 board.
const BoardSize = 9

// Cell is the content of one board position.
type Cell uint8

const (
	EmptyCell Cell = iota
	CellX
	CellO
)

func (c Cell) String() string {
	switch c {
	case CellX:
		return "X"
	case CellO:
		return "O"
	default:
		return ""
	}
}

// Player returns the player owning the cell, false when the cell is empty.
func (c Cell) Player() (Player, bool) {
	switch c {
	case CellX:
		return PlayerX, true
	case CellO:
		return PlayerO, true
	default:
		return 0, false
	}
}

type Player uint8

const (
	PlayerX Player = iota + 1
	PlayerO
)

func (p Player) String() string {
	return p.Cell().String()
}

// Cell returns the mark the player leaves on the board.
func (p Player) Cell() Cell {
	if p == PlayerO {
		return CellO
	}
	return CellX
}

func (p Player) Opponent() Player {
	if p == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Board is stored row-major:
//
//	[0] [1] [2]
//	[3] [4] [5]
//	[6] [7] [8]
type Board [BoardSize]Cell

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// Occupied returns the number of non-empty cells.
func (that Board) Occupied() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}
	return count
}

// WinLine is a triple of cell indices.
type WinLine [3]int

// WinLines is scanned in order: rows, then columns, then diagonals.
var WinLines = [8]WinLine{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Complete reports whether all three cells of the line hold the same mark.
func (that WinLine) Complete(board Board) bool {
	a, b, c := board[that[0]], board[that[1]], board[that[2]]
	return a != EmptyCell && a == b && b == c
}
