package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bodul/xwedit/grid"
)

// Navigation actions accepted by Document.Navigate.
const (
	actionStep = "step"
	actionJump = "jump"
	actionTurn = "turn"
)

var errUnknownAction = errors.New("unknown navigation action")

// Document is a puzzle being authored. It owns the current engine snapshot
// and replaces it wholesale on every edit, one edit at a time.
type Document struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	mu     sync.Mutex
	puzzle *grid.Puzzle
}

// PuzzleView is the JSON shape of a document.
type PuzzleView struct {
	ID        string                `json:"id"`
	Rows      int                   `json:"rows"`
	Cols      int                   `json:"cols"`
	Cells     [][]grid.NumberedCell `json:"cells"`
	Clues     grid.ClueDirectory    `json:"clues"`
	Starts    grid.ClueStarts       `json:"starts"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Snapshot returns the current engine state. The value is immutable and
// stays valid after later edits.
func (d *Document) Snapshot() *grid.Puzzle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.puzzle
}

// View renders the current snapshot for the API.
func (d *Document) View() PuzzleView {
	d.mu.Lock()
	p := d.puzzle
	d.mu.Unlock()
	return d.viewOf(p)
}

// viewOf renders p, a snapshot returned by an edit, under this document's
// identity.
func (d *Document) viewOf(p *grid.Puzzle) PuzzleView {
	d.mu.Lock()
	created, updated := d.CreatedAt, d.UpdatedAt
	d.mu.Unlock()

	g := p.Grid()
	return PuzzleView{
		ID:        d.ID,
		Rows:      g.Rows,
		Cols:      g.Cols,
		Cells:     p.Numbered().NumberedCells(),
		Clues:     p.Clues(),
		Starts:    p.Starts(),
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// commit swaps in the next snapshot. Callers hold d.mu.
func (d *Document) commit(p *grid.Puzzle) {
	d.puzzle = p
	d.UpdatedAt = time.Now()
}

// Resize discards the grid and its clues for a blank size×size grid.
func (d *Document) Resize(size int) error {
	g, err := grid.New(size, size)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commit(grid.NewPuzzle(g))
	return nil
}

// ToggleBlocked flips a cell, reconciles the clues and re-derives the
// cursor against the new layout. It returns the committed snapshot, which
// the cursor refers to. ok is false when the grid ends up fully blocked.
func (d *Document) ToggleBlocked(row, col int, cursor grid.Cursor) (p *grid.Puzzle, next grid.Cursor, ok bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err = d.puzzle.ToggleBlocked(row, col)
	if err != nil {
		return d.puzzle, cursor, false, err
	}
	d.commit(p)
	next, ok = p.Settle(cursor)
	return p, next, ok, nil
}

// Type writes a letter at the cursor and returns the committed snapshot with
// the advanced cursor. An empty letter erases like backspace.
func (d *Document) Type(c grid.Cursor, letter string) (*grid.Puzzle, grid.Cursor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var (
		p   *grid.Puzzle
		err error
	)
	if letter == "" {
		p, c, err = d.puzzle.Erase(c)
	} else {
		p, c, err = d.puzzle.Type(c, letter)
	}
	if err != nil {
		return d.puzzle, c, err
	}
	d.commit(p)
	return p, c, nil
}

// SetClue replaces the text of one clue and returns the stored entry.
func (d *Document) SetClue(dir grid.ClueDirection, num int, text string) (grid.ClueEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.puzzle.SetClue(dir, num, text)
	if err != nil {
		return grid.ClueEntry{}, fmt.Errorf("set clue %d %s: %w", num, dir, err)
	}
	d.commit(p)
	e, _ := p.Clues().Lookup(dir, num)
	return e, nil
}

// Navigate moves a cursor over the current snapshot without editing it. The
// snapshot is returned so callers describe the cursor against the same state.
func (d *Document) Navigate(c grid.Cursor, action string, m grid.Movement) (*grid.Puzzle, grid.Cursor, error) {
	p := d.Snapshot()
	switch action {
	case actionStep:
		return p, p.Step(c, m), nil
	case actionJump:
		return p, p.Jump(c, m), nil
	case actionTurn:
		return p, c.Turn(), nil
	}
	return p, c, fmt.Errorf("%w: %q", errUnknownAction, action)
}
