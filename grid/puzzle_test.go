package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withClues(t *testing.T, p *Puzzle, texts map[ClueDirection]map[int]string) *Puzzle {
	t.Helper()
	for dir, byNum := range texts {
		for num, text := range byNum {
			var err error
			p, err = p.SetClue(dir, num, text)
			require.NoError(t, err)
		}
	}
	return p
}

func TestNewPuzzle(t *testing.T) {
	p := NewPuzzle(mustParse(t, fiveByFive))

	assert.Equal(t, 10, p.Numbered().Number(4, 1))
	assert.Equal(t, []int{1, 4, 6, 7, 8, 10}, p.Clues().Numbers(Across))
	st, ok := p.Starts().Lookup(Down, 5)
	require.True(t, ok)
	assert.Equal(t, ClueStart{Row: 1, Col: 4}, st)
}

func TestToggleBlockedReconcilesClues(t *testing.T) {
	p := NewPuzzle(mustParse(t, []string{
		"-.-",
		"---",
	}))
	require.Equal(t, []int{1, 2, 3}, p.Clues().Numbers(Across))
	require.Equal(t, []int{1, 2, 4}, p.Clues().Numbers(Down))

	p = withClues(t, p, map[ClueDirection]map[int]string{
		Across: {1: "a1", 2: "a2", 3: "a3"},
		Down:   {1: "d1", 2: "d2", 4: "d4"},
	})

	next, err := p.ToggleBlocked(0, 1)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{1, 2, 3}, {4, 0, 0}}, next.Numbered().Numbers())
	assert.Equal(t, map[int]ClueEntry{
		1: {Value: "a1", Number: 1, Direction: Across},
		4: {Number: 4, Direction: Across},
	}, next.Clues().Across)
	assert.Equal(t, map[int]ClueEntry{
		1: {Value: "d1", Number: 1, Direction: Down},
		// Text follows the number even though 2-down is now a different word.
		2: {Value: "d2", Number: 2, Direction: Down},
		3: {Number: 3, Direction: Down},
	}, next.Clues().Down)
	assert.Equal(t, map[int]ClueStart{1: {0, 0}, 2: {0, 1}, 3: {0, 2}}, next.Starts().Down)

	// the previous snapshot is untouched
	assert.Equal(t, []int{1, 2, 4}, p.Clues().Numbers(Down))
}

func TestUnblockShiftsLaterNumbers(t *testing.T) {
	p := NewPuzzle(mustParse(t, []string{
		"---.",
		"---.",
		"----",
	}))
	require.Equal(t, [][]int{{1, 2, 3, 0}, {4, 0, 0, 0}, {5, 0, 0, 6}}, p.Numbered().Numbers())
	p = withClues(t, p, map[ClueDirection]map[int]string{
		Across: {1: "a1", 4: "a4", 5: "a5"},
		Down:   {1: "d1", 2: "d2", 3: "d3", 6: "d6"},
	})

	next, err := p.ToggleBlocked(0, 3)
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 2, 3, 4}, {5, 0, 0, 0}, {6, 0, 0, 7}}, next.Numbered().Numbers())

	for _, dir := range []ClueDirection{Across, Down} {
		for _, num := range next.Clues().Numbers(dir) {
			e, _ := next.Clues().Lookup(dir, num)
			old, existed := p.Clues().Lookup(dir, num)
			if !existed {
				assert.Empty(t, e.Value, "%s %d is new", dir, num)
				continue
			}
			if sameSpan(t, p, next, dir, num) {
				assert.Equal(t, old.Value, e.Value, "%s %d kept its word", dir, num)
			}
		}
	}

	assert.Equal(t, map[int]ClueEntry{
		1: {Value: "d1", Number: 1, Direction: Down},
		2: {Value: "d2", Number: 2, Direction: Down},
		3: {Value: "d3", Number: 3, Direction: Down},
		4: {Number: 4, Direction: Down},
		7: {Number: 7, Direction: Down},
	}, next.Clues().Down)
	assert.Equal(t, map[int]ClueEntry{
		// 1-across grew by one cell but keeps its number.
		1: {Value: "a1", Number: 1, Direction: Across},
		// Text follows the number: 5-across is now the middle row.
		5: {Value: "a5", Number: 5, Direction: Across},
		6: {Number: 6, Direction: Across},
	}, next.Clues().Across)
}

// sameSpan reports whether num in dir covers the same cells before and after.
func sameSpan(t *testing.T, before, after *Puzzle, dir ClueDirection, num int) bool {
	t.Helper()
	span := func(p *Puzzle) (Word, bool) {
		st, ok := p.Starts().Lookup(dir, num)
		if !ok {
			return Word{}, false
		}
		w, err := p.Word(Cursor{Row: st.Row, Col: st.Col, Direction: dir.Axis()})
		require.NoError(t, err)
		return w, true
	}
	a, okA := span(before)
	b, okB := span(after)
	return okA && okB && a == b
}

func TestToggleBlockedKeepsStableClues(t *testing.T) {
	p := NewPuzzle(mustParse(t, fiveByFive))
	texts := map[ClueDirection]map[int]string{Across: {}, Down: {}}
	for _, dir := range []ClueDirection{Across, Down} {
		for _, num := range p.Clues().Numbers(dir) {
			texts[dir][num] = dir.String() + " clue"
		}
	}
	p = withClues(t, p, texts)

	next, err := p.ToggleBlocked(4, 4)
	require.NoError(t, err)

	assert.Equal(t, p.Numbered().Numbers(), next.Numbered().Numbers())
	assert.Equal(t, p.Clues(), next.Clues())

	w, err := next.Word(Cursor{Row: 4, Col: 1, Direction: Row})
	require.NoError(t, err)
	assert.Equal(t, 4, w.Len())
}

func TestToggleBlockedOutOfBounds(t *testing.T) {
	p := NewPuzzle(mustParse(t, fiveByFive))
	_, err := p.ToggleBlocked(5, 5)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestSetClueMissing(t *testing.T) {
	p := NewPuzzle(mustParse(t, fiveByFive))
	_, err := p.SetClue(Across, 2, "no such entry")
	assert.ErrorIs(t, err, ErrNoSuchClue)
}

func TestWithClues(t *testing.T) {
	p := NewPuzzle(mustParse(t, fiveByFive))
	loaded := p.WithClues(ClueDirectory{
		Across: map[int]ClueEntry{4: {Value: "kept", Number: 4, Direction: Across}, 2: {Value: "dropped"}},
	})

	e, ok := loaded.ActiveClue(Cursor{Row: 1, Col: 2, Direction: Row})
	require.True(t, ok)
	assert.Equal(t, "kept", e.Value)
	_, ok = loaded.Clues().Lookup(Across, 2)
	assert.False(t, ok)
}

func TestSettle(t *testing.T) {
	p := NewPuzzle(mustParse(t, fiveByFive))

	c, ok := p.Settle(Cursor{Row: 2, Col: 1, Direction: Column})
	require.True(t, ok)
	assert.Equal(t, Cursor{Row: 2, Col: 1, Direction: Column}, c, "open cell keeps the cursor")

	blocked, err := p.ToggleBlocked(0, 1)
	require.NoError(t, err)
	c, ok = blocked.Settle(Cursor{Row: 0, Col: 1, Direction: Row})
	require.True(t, ok)
	assert.Equal(t, Cursor{Row: 0, Col: 2, Direction: Row}, c)

	c, ok = p.Settle(Cursor{Row: 4, Col: 4, Direction: Row})
	require.True(t, ok)
	assert.Equal(t, Cursor{Row: 0, Col: 1, Direction: Row}, c, "wraps past the last cell")

	black := NewPuzzle(mustParse(t, blackGrid))
	_, ok = black.Settle(Cursor{Row: 1, Col: 1, Direction: Row})
	assert.False(t, ok)
}

func TestTypeAdvances(t *testing.T) {
	p := NewPuzzle(mustParse(t, fiveByFive))

	p, c, err := p.Type(Cursor{Row: 0, Col: 1, Direction: Row}, "c")
	require.NoError(t, err)
	assert.Equal(t, Cursor{Row: 0, Col: 2, Direction: Row}, c)
	p, c, err = p.Type(c, "a")
	require.NoError(t, err)
	p, c, err = p.Type(c, "t")
	require.NoError(t, err)

	assert.Equal(t, Cursor{Row: 1, Col: 0, Direction: Row}, c, "end of word jumps to the next clue")
	assert.Equal(t, ".CAT.", Format(p.Grid())[0])

	same, c2, err := p.Type(c, "7")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Same(t, p, same)
	assert.Equal(t, c, c2)
}

func TestErase(t *testing.T) {
	p := NewPuzzle(mustParse(t, []string{
		".CA-.",
		"-----",
		"--.--",
		"-----",
		".---.",
	}))

	p, c, err := p.Erase(Cursor{Row: 0, Col: 2, Direction: Row})
	require.NoError(t, err)
	assert.Equal(t, Cursor{Row: 0, Col: 2, Direction: Row}, c, "filled cell is cleared in place")
	assert.Equal(t, ".C--.", Format(p.Grid())[0])

	p, c, err = p.Erase(c)
	require.NoError(t, err)
	assert.Equal(t, Cursor{Row: 0, Col: 1, Direction: Row}, c, "empty cell steps back first")
	assert.Equal(t, ".---.", Format(p.Grid())[0])

	_, _, err = p.Erase(Cursor{Row: 2, Col: 2, Direction: Row})
	assert.ErrorIs(t, err, ErrBlockedCell)
}

func TestSetValueKeepsNumbering(t *testing.T) {
	p := NewPuzzle(mustParse(t, fiveByFive))
	p, err := p.SetClue(Across, 1, "Feline")
	require.NoError(t, err)

	next, err := p.SetValue(0, 1, "C")
	require.NoError(t, err)
	assert.Equal(t, p.Numbered().Numbers(), next.Numbered().Numbers())
	assert.Equal(t, p.Clues(), next.Clues())
	assert.Equal(t, "", p.Grid().Cells[0][1].Value)
}
