package grid

// IsStartOfWord reports whether c's cell begins a word along c.Direction:
// it is open and its predecessor on that axis is blocked or off the grid.
func IsStartOfWord(g *Grid, c Cursor) bool {
	if !g.open(c.Row, c.Col) {
		return false
	}
	if c.Direction == Row {
		return !g.open(c.Row, c.Col-1)
	}
	return !g.open(c.Row-1, c.Col)
}

// IsStartOfAnyWord reports whether (row, col) begins an across or a down word.
func IsStartOfAnyWord(g *Grid, row, col int) bool {
	return IsStartOfWord(g, Cursor{Row: row, Col: col, Direction: Row}) ||
		IsStartOfWord(g, Cursor{Row: row, Col: col, Direction: Column})
}

// NumberedCell is a cell with its crossword number, 0 when it has none.
type NumberedCell struct {
	Cell
	Number int `json:"number,omitempty"`
}

// NumberedGrid is a grid together with its crossword numbering.
type NumberedGrid struct {
	*Grid
	numbers [][]int
}

// NumberCells assigns sequential numbers, starting at 1 in row-major order,
// to every cell that starts a word. The result depends only on the blocked
// layout.
func NumberCells(g *Grid) *NumberedGrid {
	numbers := make([][]int, g.Rows)
	next := 1
	for r := 0; r < g.Rows; r++ {
		numbers[r] = make([]int, g.Cols)
		for c := 0; c < g.Cols; c++ {
			if IsStartOfAnyWord(g, r, c) {
				numbers[r][c] = next
				next++
			}
		}
	}
	return &NumberedGrid{Grid: g, numbers: numbers}
}

// Number returns the number of (row, col), or 0.
func (n *NumberedGrid) Number(row, col int) int {
	if !n.In(row, col) {
		return 0
	}
	return n.numbers[row][col]
}

// Numbers returns a copy of the number matrix.
func (n *NumberedGrid) Numbers() [][]int {
	out := make([][]int, len(n.numbers))
	for i, row := range n.numbers {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// NumberedCells returns the cells merged with their numbers.
func (n *NumberedGrid) NumberedCells() [][]NumberedCell {
	out := make([][]NumberedCell, n.Rows)
	for r := range out {
		out[r] = make([]NumberedCell, n.Cols)
		for c := range out[r] {
			out[r][c] = NumberedCell{Cell: n.Cells[r][c], Number: n.numbers[r][c]}
		}
	}
	return out
}

// wordNumber returns the number carried by the start of the word through c.
func (n *NumberedGrid) wordNumber(c Cursor) (Word, int, bool) {
	w, err := FindWordBoundaries(n.Grid, c)
	if err != nil {
		return Word{}, 0, false
	}
	num := n.numbers[w.Start.Row][w.Start.Col]
	return w, num, num != 0
}
