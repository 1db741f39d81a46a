// Package grid is the crossword grid and navigation engine: cell numbering,
// word boundaries, clue directories and cursor movement.
//
// Every function is pure. Edits return new values and never mutate their
// inputs, so a caller can keep the previous snapshot around for as long as
// it needs it.
package grid

import (
	"errors"
	"strings"
)

// Sentinel errors returned by direct engine calls.
var (
	ErrOutOfBounds    = errors.New("grid: coordinates are out of bounds")
	ErrBlockedCell    = errors.New("grid: cell is blocked")
	ErrInvalidValue   = errors.New("grid: value must be empty or a single letter A-Z")
	ErrInvalidSize    = errors.New("grid: rows and columns must be positive")
	ErrEmptyGrid      = errors.New("grid: layout must have at least one row and one column")
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	ErrNoSuchClue     = errors.New("grid: no clue with that number and direction")
	ErrLayoutMismatch = errors.New("grid: grids do not share the same blocked layout")
)

// Cell is a single square of the grid. A blocked cell never holds a value.
type Cell struct {
	Blocked bool   `json:"blocked"`
	Value   string `json:"value,omitempty"`
}

// Grid is a rectangular matrix of cells. Its dimensions are fixed; a resize
// is a new Grid.
type Grid struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells [][]Cell `json:"cells"`
}

// New returns an open, empty grid of the given size.
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidSize
	}
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
	}
	return &Grid{Rows: rows, Cols: cols, Cells: cells}, nil
}

// Validate checks the shape and cell invariants of a grid built outside this
// package, for instance one decoded from JSON.
func (g *Grid) Validate() error {
	if g == nil || g.Rows <= 0 || g.Cols <= 0 || len(g.Cells) == 0 {
		return ErrEmptyGrid
	}
	if len(g.Cells) != g.Rows {
		return ErrNonRectangular
	}
	for _, row := range g.Cells {
		if len(row) != g.Cols {
			return ErrNonRectangular
		}
		for _, c := range row {
			if c.Blocked && c.Value != "" {
				return ErrInvalidValue
			}
			if !c.Blocked && !validValue(c.Value) {
				return ErrInvalidValue
			}
		}
	}
	return nil
}

// In reports whether (row, col) lies inside the grid.
func (g *Grid) In(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// Cell returns the cell at (row, col).
func (g *Grid) Cell(row, col int) (Cell, error) {
	if !g.In(row, col) {
		return Cell{}, ErrOutOfBounds
	}
	return g.Cells[row][col], nil
}

// open reports whether (row, col) is in bounds and not blocked.
func (g *Grid) open(row, col int) bool {
	return g.In(row, col) && !g.Cells[row][col].Blocked
}

// AllBlocked reports whether no open cell exists, in which case no word exists
// either and navigation is undefined.
func (g *Grid) AllBlocked() bool {
	for _, row := range g.Cells {
		for _, c := range row {
			if !c.Blocked {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	cells := make([][]Cell, len(g.Cells))
	for i, row := range g.Cells {
		cells[i] = make([]Cell, len(row))
		copy(cells[i], row)
	}
	return &Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells}
}

// withCell copies only the outer slice and the touched row.
func (g *Grid) withCell(row, col int, c Cell) *Grid {
	cells := make([][]Cell, len(g.Cells))
	copy(cells, g.Cells)
	cells[row] = make([]Cell, len(g.Cells[row]))
	copy(cells[row], g.Cells[row])
	cells[row][col] = c
	return &Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells}
}

// ToggleBlocked flips the blocked flag of a cell. Blocking a cell discards
// its value.
func (g *Grid) ToggleBlocked(row, col int) (*Grid, error) {
	if !g.In(row, col) {
		return nil, ErrOutOfBounds
	}
	return g.withCell(row, col, Cell{Blocked: !g.Cells[row][col].Blocked}), nil
}

// SetValue writes a letter into an open cell. An empty value clears it.
// Letters are upper-cased.
func (g *Grid) SetValue(row, col int, value string) (*Grid, error) {
	if !g.In(row, col) {
		return nil, ErrOutOfBounds
	}
	if g.Cells[row][col].Blocked {
		return nil, ErrBlockedCell
	}
	value = strings.ToUpper(strings.TrimSpace(value))
	if !validValue(value) {
		return nil, ErrInvalidValue
	}
	return g.withCell(row, col, Cell{Value: value}), nil
}

// SameLayout reports whether both grids have the same size and the same
// blocked cells.
func (g *Grid) SameLayout(other *Grid) bool {
	if g.Rows != other.Rows || g.Cols != other.Cols {
		return false
	}
	for r := range g.Cells {
		for c := range g.Cells[r] {
			if g.Cells[r][c].Blocked != other.Cells[r][c].Blocked {
				return false
			}
		}
	}
	return true
}

// Blank returns a copy of g with the same layout and every value cleared.
func (g *Grid) Blank() *Grid {
	out, _ := New(g.Rows, g.Cols)
	for r, row := range g.Cells {
		for c, cell := range row {
			out.Cells[r][c].Blocked = cell.Blocked
		}
	}
	return out
}

func validValue(v string) bool {
	return v == "" || (len(v) == 1 && v[0] >= 'A' && v[0] <= 'Z')
}
