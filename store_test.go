package main

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/xwedit/grid"
)

func newTestGrid(t *testing.T, lines ...string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(lines)
	require.NoError(t, err)
	return g
}

func TestCreateAndGetPuzzle(t *testing.T) {
	s := NewStore()
	d := s.CreatePuzzle(newTestGrid(t, "---", "---", "---"))

	_, err := uuid.Parse(d.ID)
	require.NoError(t, err, "IDs are UUIDs")
	assert.Same(t, d, s.GetPuzzle(d.ID))
	assert.Nil(t, s.GetPuzzle("nonexistent"))
}

func TestListPuzzles(t *testing.T) {
	s := NewStore()
	first := s.CreatePuzzle(newTestGrid(t, "-----"))
	time.Sleep(time.Millisecond)
	second := s.CreatePuzzle(newTestGrid(t, "--------"))

	list := s.ListPuzzles()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "most recent first")
	assert.Equal(t, first.ID, list[1].ID)
}

func TestCreateGame(t *testing.T) {
	s := NewStore()

	_, err := s.CreateGame("unknown")
	assert.Error(t, err)

	d := s.CreatePuzzle(newTestGrid(t, ".CAT.", "HORSE", "OW.AR", "PLANE", ".SEE."))
	_, err = d.SetClue(grid.Across, 1, "Feline")
	require.NoError(t, err)

	game, err := s.CreateGame(d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, game.PuzzleID)
	assert.Same(t, game, s.GetGame(game.ID))
	assert.Len(t, s.ListGames(), 1)

	assert.Equal(t, []string{".---.", "-----", "--.--", "-----", ".---."}, grid.Format(game.GetState()), "players start blank")
	e, ok := game.View().Clues.Lookup(grid.Across, 1)
	require.True(t, ok)
	assert.Equal(t, "Feline", e.Value)
}

func TestGameAddPlayer(t *testing.T) {
	s := NewStore()
	d := s.CreatePuzzle(newTestGrid(t, "-----"))
	game, _ := s.CreateGame(d.ID)

	p1 := game.AddPlayer("Alice")
	p2 := game.AddPlayer("Bob")

	assert.Equal(t, "Alice", p1.Pseudo)
	assert.NotEqual(t, p1.Color, p2.Color, "players should have different colors")
	assert.Same(t, p1, game.AddPlayer("Alice"), "same pseudo returns the same player")

	game.RemovePlayer("Bob")
	assert.Len(t, game.View().Players, 1)
}

func TestGameSetCell(t *testing.T) {
	s := NewStore()
	d := s.CreatePuzzle(newTestGrid(t, "AB.", "CDE"))
	game, _ := s.CreateGame(d.ID)

	_, err := game.SetCell(0, 0, "a")
	require.NoError(t, err)
	_, err = game.SetCell(-1, 0, "X")
	assert.ErrorIs(t, err, grid.ErrOutOfBounds)
	_, err = game.SetCell(0, 2, "X")
	assert.ErrorIs(t, err, grid.ErrBlockedCell)

	assert.Equal(t, "A", game.GetState().Cells[0][0].Value)

	game.SetAutocheck(true)
	incorrect, err := game.SetCell(1, 0, "Z")
	require.NoError(t, err)
	assert.True(t, incorrect)
	incorrect, err = game.SetCell(1, 1, "D")
	require.NoError(t, err)
	assert.False(t, incorrect)
}

func TestGameCheckRevealClear(t *testing.T) {
	s := NewStore()
	d := s.CreatePuzzle(newTestGrid(t, "AB.", "CDE"))
	game, _ := s.CreateGame(d.ID)

	_, _ = game.SetCell(1, 0, "X")
	wrong, err := game.Check(grid.Cursor{Direction: grid.Row}, grid.Whole)
	require.NoError(t, err)
	assert.Equal(t, []grid.Cursor{{Row: 1, Col: 0, Direction: grid.Row}}, wrong)

	require.NoError(t, game.Clear(true))
	assert.Equal(t, []string{"--.", "---"}, grid.Format(game.GetState()))

	require.NoError(t, game.Reveal(grid.Cursor{Row: 1, Col: 1, Direction: grid.Row}, grid.WordScope))
	assert.Equal(t, []string{"--.", "CDE"}, grid.Format(game.GetState()))
	assert.False(t, game.View().Solved)

	require.NoError(t, game.Reveal(grid.Cursor{}, grid.Whole))
	assert.True(t, game.View().Solved)

	require.NoError(t, game.Clear(false))
	assert.Equal(t, []string{"--.", "---"}, grid.Format(game.GetState()))
}

func TestStateSnapshotIsStable(t *testing.T) {
	s := NewStore()
	d := s.CreatePuzzle(newTestGrid(t, "--", "--"))
	game, _ := s.CreateGame(d.ID)
	_, _ = game.SetCell(0, 0, "X")

	state := game.GetState()
	_, _ = game.SetCell(0, 0, "Z")

	assert.Equal(t, "X", state.Cells[0][0].Value, "earlier snapshots are not mutated")
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	d := s.CreatePuzzle(newTestGrid(t, "----------", "----------"))
	game, _ := s.CreateGame(d.ID)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = game.SetCell(i%2, i%10, "A")
			game.GetState()
			game.AddPlayer("player" + string(rune('A'+i%26)))
			_, _, _, _ = d.ToggleBlocked(i%2, i%10, grid.Cursor{})
			d.View()
		}(i)
	}
	wg.Wait()
}

func TestGameFromUnfilledPuzzleIsNotSolved(t *testing.T) {
	s := NewStore()
	d := s.CreatePuzzle(newTestGrid(t, "--.", "---"))
	game, err := s.CreateGame(d.ID)
	require.NoError(t, err)

	assert.False(t, game.View().Solved)
	require.NoError(t, game.Reveal(grid.Cursor{}, grid.Whole))
	assert.False(t, game.View().Solved)
}
