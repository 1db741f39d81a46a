package grid

// Word is the pair of cursors bounding a maximal run of open cells. Both
// share the orthogonal coordinate and the direction.
type Word struct {
	Start Cursor `json:"start"`
	End   Cursor `json:"end"`
}

// Len is the number of cells in the word.
func (w Word) Len() int {
	return w.End.along() - w.Start.along() + 1
}

// Contains reports whether (row, col) is one of the word's cells.
func (w Word) Contains(row, col int) bool {
	if w.Start.Direction == Row {
		return row == w.Start.Row && col >= w.Start.Col && col <= w.End.Col
	}
	return col == w.Start.Col && row >= w.Start.Row && row <= w.End.Row
}

// Cursors lists the word's cells from start to end.
func (w Word) Cursors() []Cursor {
	out := make([]Cursor, 0, w.Len())
	for i := w.Start.along(); i <= w.End.along(); i++ {
		out = append(out, w.Start.at(i))
	}
	return out
}

// FindWordBoundaries returns the word through c along c.Direction. The
// cursor must rest on an open cell.
func FindWordBoundaries(g *Grid, c Cursor) (Word, error) {
	if !g.In(c.Row, c.Col) {
		return Word{}, ErrOutOfBounds
	}
	if g.Cells[c.Row][c.Col].Blocked {
		return Word{}, ErrBlockedCell
	}

	start := c.along()
	for start > 0 && openAt(g, c.at(start-1)) {
		start--
	}
	end := c.along()
	last := g.span(c.Direction) - 1
	for end < last && openAt(g, c.at(end+1)) {
		end++
	}
	return Word{Start: c.at(start), End: c.at(end)}, nil
}

func openAt(g *Grid, c Cursor) bool {
	return g.open(c.Row, c.Col)
}
