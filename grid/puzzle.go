package grid

// Puzzle is an immutable snapshot of a grid with everything derived from
// its blocked layout: numbering, clue directory and clue starts. Methods that
// edit return a new Puzzle.
type Puzzle struct {
	numbered *NumberedGrid
	clues    ClueDirectory
	starts   ClueStarts
}

// NewPuzzle numbers g and builds an empty clue directory for it.
func NewPuzzle(g *Grid) *Puzzle {
	n := NumberCells(g)
	return &Puzzle{
		numbered: n,
		clues:    ExtractClues(n),
		starts:   ClueStartLocations(n),
	}
}

// WithClues returns p with clue text taken from clues wherever the number
// and direction exist in p's layout.
func (p *Puzzle) WithClues(clues ClueDirectory) *Puzzle {
	out := *p
	out.clues = MergeClues(p.clues, clues)
	return &out
}

func (p *Puzzle) Grid() *Grid { return p.numbered.Grid }
func (p *Puzzle) Numbered() *NumberedGrid { return p.numbered }
func (p *Puzzle) Clues() ClueDirectory { return p.clues }
func (p *Puzzle) Starts() ClueStarts { return p.starts }

// ToggleBlocked flips a cell's blocked flag, renumbers the grid and re-keys
// the clue directory by number.
func (p *Puzzle) ToggleBlocked(row, col int) (*Puzzle, error) {
	g, err := p.Grid().ToggleBlocked(row, col)
	if err != nil {
		return nil, err
	}
	n := NumberCells(g)
	return &Puzzle{
		numbered: n,
		clues:    MergeClues(ExtractClues(n), p.clues),
		starts:   ClueStartLocations(n),
	}, nil
}

// SetValue writes a letter without touching numbering or clues.
func (p *Puzzle) SetValue(row, col int, value string) (*Puzzle, error) {
	g, err := p.Grid().SetValue(row, col, value)
	if err != nil {
		return nil, err
	}
	return p.withGrid(g), nil
}

// withGrid swaps in a grid with the same blocked layout.
func (p *Puzzle) withGrid(g *Grid) *Puzzle {
	out := *p
	out.numbered = &NumberedGrid{Grid: g, numbers: p.numbered.numbers}
	return &out
}

// SetClue replaces the text of one clue.
func (p *Puzzle) SetClue(dir ClueDirection, num int, text string) (*Puzzle, error) {
	clues, err := p.clues.WithText(dir, num, text)
	if err != nil {
		return nil, err
	}
	out := *p
	out.clues = clues
	return &out, nil
}

// Step moves the cursor one cell; see StepCursor.
func (p *Puzzle) Step(c Cursor, m Movement) Cursor {
	return StepCursor(p.numbered, c, p.clues, p.starts, m)
}

// Jump moves the cursor to the adjacent word's start; see StartOfAdjacentWord.
func (p *Puzzle) Jump(c Cursor, m Movement) Cursor {
	return StartOfAdjacentWord(p.numbered, c, p.clues, p.starts, m)
}

// ActiveClue returns the clue of the word under c; see GetActiveClue.
func (p *Puzzle) ActiveClue(c Cursor) (ClueEntry, bool) {
	return GetActiveClue(p.numbered, p.clues, c)
}

// Word returns the word under c.
func (p *Puzzle) Word(c Cursor) (Word, error) {
	return FindWordBoundaries(p.Grid(), c)
}

// Settle re-derives a usable cursor after a structural edit. An open cell
// keeps the cursor; otherwise it moves to the next open cell in row-major
// order, wrapping at the end of the grid. It reports false when every cell
// is blocked.
func (p *Puzzle) Settle(c Cursor) (Cursor, bool) {
	g := p.Grid()
	if g.AllBlocked() {
		return c, false
	}
	total := g.Rows * g.Cols
	start := 0
	if g.In(c.Row, c.Col) {
		start = c.Row*g.Cols + c.Col
	}
	for i := 0; i < total; i++ {
		idx := (start + i) % total
		r, col := idx/g.Cols, idx%g.Cols
		if !g.Cells[r][col].Blocked {
			return Cursor{Row: r, Col: col, Direction: c.Direction}, true
		}
	}
	return c, false
}

// Type writes a letter at c and advances the cursor. The cursor stays put
// when the letter is rejected.
func (p *Puzzle) Type(c Cursor, letter string) (*Puzzle, Cursor, error) {
	next, err := p.SetValue(c.Row, c.Col, letter)
	if err != nil {
		return p, c, err
	}
	return next, next.Step(c, Forward), nil
}

// Erase clears the letter at c. If the cell is already empty it steps back
// first and clears the previous cell instead, the way backspace behaves.
func (p *Puzzle) Erase(c Cursor) (*Puzzle, Cursor, error) {
	cell, err := p.Grid().Cell(c.Row, c.Col)
	if err != nil {
		return p, c, err
	}
	if cell.Blocked {
		return p, c, ErrBlockedCell
	}
	target := c
	if cell.Value == "" {
		target = p.Step(c, Backward)
	}
	next, err := p.SetValue(target.Row, target.Col, "")
	if err != nil {
		return p, c, err
	}
	return next, target, nil
}
