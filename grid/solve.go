package grid

import "fmt"

// Scope selects the cells a check, reveal or clear applies to.
type Scope uint8

const (
	Square Scope = iota
	WordScope
	Whole
)

func (s Scope) String() string {
	switch s {
	case Square:
		return "square"
	case WordScope:
		return "word"
	default:
		return "puzzle"
	}
}

func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scope) UnmarshalText(b []byte) error {
	switch string(b) {
	case "square":
		*s = Square
	case "word":
		*s = WordScope
	case "puzzle":
		*s = Whole
	default:
		return fmt.Errorf("grid: unknown scope %q", b)
	}
	return nil
}

// Incorrect reports whether a typed letter disagrees with the solution.
// Empty cells are never incorrect.
func Incorrect(state, solution Cell) bool {
	return state.Value != "" && solution.Value != "" && state.Value != solution.Value
}

// cellsIn lists the cursors covered by scope around c.
func cellsIn(g *Grid, c Cursor, scope Scope) ([]Cursor, error) {
	switch scope {
	case Square:
		if !g.open(c.Row, c.Col) {
			if !g.In(c.Row, c.Col) {
				return nil, ErrOutOfBounds
			}
			return nil, ErrBlockedCell
		}
		return []Cursor{c}, nil
	case WordScope:
		w, err := FindWordBoundaries(g, c)
		if err != nil {
			return nil, err
		}
		return w.Cursors(), nil
	default:
		var out []Cursor
		for r := 0; r < g.Rows; r++ {
			for col := 0; col < g.Cols; col++ {
				if !g.Cells[r][col].Blocked {
					out = append(out, Cursor{Row: r, Col: col, Direction: c.Direction})
				}
			}
		}
		return out, nil
	}
}

// Check returns the incorrect cells of state within scope, in scan order.
func Check(state, solution *Grid, c Cursor, scope Scope) ([]Cursor, error) {
	if !state.SameLayout(solution) {
		return nil, ErrLayoutMismatch
	}
	cells, err := cellsIn(state, c, scope)
	if err != nil {
		return nil, err
	}
	var wrong []Cursor
	for _, k := range cells {
		if Incorrect(state.Cells[k.Row][k.Col], solution.Cells[k.Row][k.Col]) {
			wrong = append(wrong, k)
		}
	}
	return wrong, nil
}

// Reveal copies solution letters into state within scope.
func Reveal(state, solution *Grid, c Cursor, scope Scope) (*Grid, error) {
	if !state.SameLayout(solution) {
		return nil, ErrLayoutMismatch
	}
	cells, err := cellsIn(state, c, scope)
	if err != nil {
		return nil, err
	}
	out := state.Clone()
	for _, k := range cells {
		out.Cells[k.Row][k.Col].Value = solution.Cells[k.Row][k.Col].Value
	}
	return out, nil
}

// ClearIncorrect removes every letter that disagrees with the solution.
func ClearIncorrect(state, solution *Grid) (*Grid, error) {
	if !state.SameLayout(solution) {
		return nil, ErrLayoutMismatch
	}
	out := state.Clone()
	for r, row := range out.Cells {
		for c := range row {
			if Incorrect(row[c], solution.Cells[r][c]) {
				row[c].Value = ""
			}
		}
	}
	return out, nil
}

// Solved reports whether every open cell matches the solution. A solution
// with an empty open cell cannot be solved.
func Solved(state, solution *Grid) bool {
	if !state.SameLayout(solution) {
		return false
	}
	for r, row := range state.Cells {
		for c, cell := range row {
			if cell.Blocked {
				continue
			}
			want := solution.Cells[r][c].Value
			if want == "" || cell.Value != want {
				return false
			}
		}
	}
	return true
}
