package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
)

// Mark is the content of a cell: nothing yet (the cell shows its label) or one of the two player marks.
type Mark uint8

const (
	MarkNone Mark = iota
	MarkX
	MarkO
)

const (
	FirstCell = 1
	LastCell  = 9

	boardSize = 3
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

func (m Mark) String() string {
	switch m {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player mark. MarkNone has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkNone
	}
}

func (m Mark) IsPlayer() bool {
	return m == MarkX || m == MarkO
}

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = MarkNone
		return nil
	}

	parsed, err := ParseMark(string(text))
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// ParseMark accepts "X" or "O" in any case.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return MarkX, nil
	case "O":
		return MarkO, nil
	default:
		return MarkNone, fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidMove, s)
	}
}

// Outcome is the state of a board as seen by Winner.
type Outcome uint8

const (
	OutcomeOngoing Outcome = iota
	OutcomeXWins
	OutcomeOWins
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeXWins:
		return "X wins"
	case OutcomeOWins:
		return "O wins"
	case OutcomeDraw:
		return "draw"
	default:
		return "ongoing"
	}
}

func (o Outcome) IsTerminal() bool {
	return o != OutcomeOngoing
}

// Winner returns the mark that completed a line, or MarkNone for a draw or an ongoing game.
func (o Outcome) Winner() Mark {
	switch o {
	case OutcomeXWins:
		return MarkX
	case OutcomeOWins:
		return MarkO
	default:
		return MarkNone
	}
}

func outcomeFor(m Mark) Outcome {
	if m == MarkX {
		return OutcomeXWins
	}
	return OutcomeOWins
}

// Board is the 3x3 grid, cells numbered 1..9 row by row.
// It is a plain array, so assigning a board makes an independent copy.
type Board [boardSize * boardSize]Mark

func NewBoard() Board {
	return Board{}
}

func validCell(cell int) bool {
	return cell >= FirstCell && cell <= LastCell
}

// IsEmpty reports whether the cell still holds its label. Cells outside 1..9 are never empty.
func (that Board) IsEmpty(cell int) bool {
	return validCell(cell) && that[cell-1] == MarkNone
}

// Cell returns the mark in the cell, MarkNone for a label cell or an out-of-range cell.
func (that Board) Cell(cell int) Mark {
	if !validCell(cell) {
		return MarkNone
	}
	return that[cell-1]
}

// Mark places mark into cell. The board is left untouched when the move is rejected.
func (that *Board) Mark(cell int, mark Mark) error {
	if !validCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !mark.IsPlayer() {
		return fmt.Errorf("%w: mark %d", apperror.ErrInvalidCell, mark)
	}

	if that[cell-1] != MarkNone {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell-1] = mark

	return nil
}

func (that Board) Winner() Outcome {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != MarkNone && a == b && b == c {
			return outcomeFor(a)
		}
	}

	// the game continues while any label cell is left
	for _, cell := range that {
		if cell == MarkNone {
			return OutcomeOngoing
		}
	}

	return OutcomeDraw
}

// EmptyCells lists the unplayed cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == MarkNone {
			cells = append(cells, i+1)
		}
	}
	return cells
}

func (that Board) Moves() int {
	moves := 0
	for _, cell := range that {
		if cell != MarkNone {
			moves++
		}
	}
	return moves
}

// Snapshot renders every cell as its label or its mark, for the presentation layer.
func (that Board) Snapshot() [9]string {
	var cells [9]string
	for i, cell := range that {
		if cell == MarkNone {
			cells[i] = strconv.Itoa(i + 1)
			continue
		}
		cells[i] = cell.String()
	}
	return cells
}

// Rows splits the snapshot into the three rows of the grid.
func (that Board) Rows() [boardSize][boardSize]string {
	snapshot := that.Snapshot()

	var rows [boardSize][boardSize]string
	for i, cell := range snapshot {
		rows[i/boardSize][i%boardSize] = cell
	}
	return rows
}
