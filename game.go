package main

import (
	"sync"
	"time"

	"github.com/bodul/xwedit/grid"
)

// Player represents a connected player.
type Player struct {
	Pseudo   string    `json:"pseudo"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joined_at"`
}

// GameSession is a solving session over a copy of an authored puzzle. The
// authored letters become the solution; players start from a blank grid.
type GameSession struct {
	ID        string             `json:"id"`
	PuzzleID  string             `json:"puzzle_id"`
	Players   map[string]*Player `json:"players"`
	Autocheck bool               `json:"autocheck"`
	CreatedAt time.Time          `json:"created_at"`

	mu       sync.Mutex
	puzzle   *grid.Puzzle
	solution *grid.Grid
}

// GameView is the JSON shape of a session.
type GameView struct {
	ID        string                `json:"id"`
	PuzzleID  string                `json:"puzzle_id"`
	Players   []*Player             `json:"players"`
	Autocheck bool                  `json:"autocheck"`
	Cells     [][]grid.NumberedCell `json:"cells"`
	Clues     grid.ClueDirectory    `json:"clues"`
	Solved    bool                  `json:"solved"`
}

// playerColors is the palette assigned to players in order.
var playerColors = []string{
	"#2563eb", "#dc2626", "#16a34a", "#9333ea",
	"#ea580c", "#0891b2", "#c026d3", "#ca8a04",
}

func newGameSession(id, puzzleID string, authored *grid.Puzzle) *GameSession {
	solution := authored.Grid()
	return &GameSession{
		ID:        id,
		PuzzleID:  puzzleID,
		Players:   make(map[string]*Player),
		CreatedAt: time.Now(),
		puzzle:    grid.NewPuzzle(solution.Blank()).WithClues(authored.Clues()),
		solution:  solution,
	}
}

// AddPlayer adds a player to the session and returns the player.
func (g *GameSession) AddPlayer(pseudo string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.Players[pseudo]; ok {
		return p
	}

	p := &Player{
		Pseudo:   pseudo,
		Color:    playerColors[len(g.Players)%len(playerColors)],
		JoinedAt: time.Now(),
	}
	g.Players[pseudo] = p
	return p
}

// RemovePlayer removes a player from the session.
func (g *GameSession) RemovePlayer(pseudo string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Players, pseudo)
}

// SetCell sets a letter at a given position. incorrect is only reported
// while autocheck is on.
func (g *GameSession) SetCell(row, col int, value string) (incorrect bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.puzzle.SetValue(row, col, value)
	if err != nil {
		return false, err
	}
	g.puzzle = p
	if !g.Autocheck {
		return false, nil
	}
	return grid.Incorrect(p.Grid().Cells[row][col], g.solution.Cells[row][col]), nil
}

// SetAutocheck toggles per-move checking.
func (g *GameSession) SetAutocheck(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Autocheck = on
}

// Check returns the wrong cells in scope around c.
func (g *GameSession) Check(c grid.Cursor, scope grid.Scope) ([]grid.Cursor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return grid.Check(g.puzzle.Grid(), g.solution, c, scope)
}

// Reveal fills in solution letters in scope around c.
func (g *GameSession) Reveal(c grid.Cursor, scope grid.Scope) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, err := grid.Reveal(g.puzzle.Grid(), g.solution, c, scope)
	if err != nil {
		return err
	}
	g.puzzle = grid.NewPuzzle(state).WithClues(g.puzzle.Clues())
	return nil
}

// Clear removes the wrong letters, or every letter when incorrectOnly is
// false.
func (g *GameSession) Clear(incorrectOnly bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.puzzle.Grid().Blank()
	if incorrectOnly {
		var err error
		state, err = grid.ClearIncorrect(g.puzzle.Grid(), g.solution)
		if err != nil {
			return err
		}
	}
	g.puzzle = grid.NewPuzzle(state).WithClues(g.puzzle.Clues())
	return nil
}

// GetState returns the current letters. The grid is an immutable snapshot.
func (g *GameSession) GetState() *grid.Grid {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.puzzle.Grid()
}

// View renders the session for the API.
func (g *GameSession) View() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, p)
	}
	return GameView{
		ID:        g.ID,
		PuzzleID:  g.PuzzleID,
		Players:   players,
		Autocheck: g.Autocheck,
		Cells:     g.puzzle.Numbered().NumberedCells(),
		Clues:     g.puzzle.Clues(),
		Solved:    grid.Solved(g.puzzle.Grid(), g.solution),
	}
}
