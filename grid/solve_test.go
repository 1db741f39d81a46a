package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var solution = []string{
	".CAT.",
	"HORSE",
	"OW.AR",
	"PLANE",
	".SEE.",
}

func TestIncorrect(t *testing.T) {
	assert.False(t, Incorrect(Cell{}, Cell{Value: "A"}), "empty cell is never wrong")
	assert.False(t, Incorrect(Cell{Value: "A"}, Cell{}), "unknown solution is never wrong")
	assert.False(t, Incorrect(Cell{Value: "A"}, Cell{Value: "A"}))
	assert.True(t, Incorrect(Cell{Value: "B"}, Cell{Value: "A"}))
}

func TestCheck(t *testing.T) {
	sol := mustParse(t, solution)
	state := mustParse(t, []string{
		".CUT.",
		"HORSE",
		"-W.AX",
		"PLANE",
		".S-E.",
	})

	wrong, err := Check(state, sol, Cursor{Row: 0, Col: 2, Direction: Row}, Square)
	require.NoError(t, err)
	assert.Equal(t, []Cursor{{0, 2, Row}}, wrong)

	wrong, err = Check(state, sol, Cursor{Row: 1, Col: 2, Direction: Row}, Square)
	require.NoError(t, err)
	assert.Empty(t, wrong)

	wrong, err = Check(state, sol, Cursor{Row: 3, Col: 4, Direction: Column}, WordScope)
	require.NoError(t, err)
	assert.Equal(t, []Cursor{{2, 4, Column}}, wrong)

	wrong, err = Check(state, sol, Cursor{Direction: Row}, Whole)
	require.NoError(t, err)
	assert.Equal(t, []Cursor{{0, 2, Row}, {2, 4, Row}}, wrong)

	_, err = Check(state, sol, Cursor{Row: 2, Col: 2, Direction: Row}, Square)
	assert.ErrorIs(t, err, ErrBlockedCell)

	_, err = Check(mustParse(t, fiveByFive[:4]), sol, Cursor{}, Whole)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestReveal(t *testing.T) {
	sol := mustParse(t, solution)
	state := sol.Blank()

	out, err := Reveal(state, sol, Cursor{Row: 1, Col: 3, Direction: Row}, WordScope)
	require.NoError(t, err)
	assert.Equal(t, "HORSE", Format(out)[1])
	assert.Equal(t, "-----", Format(state)[1], "input untouched")

	out, err = Reveal(out, sol, Cursor{Row: 4, Col: 2, Direction: Row}, Square)
	require.NoError(t, err)
	assert.Equal(t, ".-E-.", Format(out)[4])

	out, err = Reveal(state, sol, Cursor{}, Whole)
	require.NoError(t, err)
	assert.True(t, Solved(out, sol))
}

func TestClearIncorrect(t *testing.T) {
	sol := mustParse(t, solution)
	state := mustParse(t, []string{
		".CUT.",
		"HORSE",
		"-W.AX",
		"PLANE",
		".S-E.",
	})

	out, err := ClearIncorrect(state, sol)
	require.NoError(t, err)
	assert.Equal(t, []string{
		".C-T.",
		"HORSE",
		"-W.A-",
		"PLANE",
		".S-E.",
	}, Format(out))
	assert.False(t, Solved(out, sol))
	assert.Equal(t, []string{".---.", "-----", "--.--", "-----", ".---."}, Format(out.Blank()))
}

func TestSolvedNeedsCompleteSolution(t *testing.T) {
	empty := mustParse(t, []string{"--.", "---"})
	assert.False(t, Solved(empty, empty.Clone()), "a blank solution is never solved")

	partial := mustParse(t, []string{"AB.", "C--"})
	assert.False(t, Solved(partial, partial.Clone()))

	full := mustParse(t, []string{"AB.", "CDE"})
	assert.True(t, Solved(full, full.Clone()))
}
