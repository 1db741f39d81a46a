package grid

import "sort"

// ClueEntry is the text attached to one numbered word.
type ClueEntry struct {
	Value     string        `json:"value"`
	Number    int           `json:"number"`
	Direction ClueDirection `json:"direction"`
}

// ClueDirectory maps clue numbers to entries, one map per direction.
type ClueDirectory struct {
	Across map[int]ClueEntry `json:"across"`
	Down   map[int]ClueEntry `json:"down"`
}

func (d ClueDirectory) bucket(dir ClueDirection) map[int]ClueEntry {
	if dir == Across {
		return d.Across
	}
	return d.Down
}

// Lookup returns the entry for (dir, num).
func (d ClueDirectory) Lookup(dir ClueDirection, num int) (ClueEntry, bool) {
	e, ok := d.bucket(dir)[num]
	return e, ok
}

// Numbers returns the clue numbers of one direction in ascending order.
func (d ClueDirectory) Numbers(dir ClueDirection) []int {
	return sortedKeys(d.bucket(dir))
}

// Len is the total number of entries.
func (d ClueDirectory) Len() int {
	return len(d.Across) + len(d.Down)
}

// WithText returns a directory where the entry (dir, num) carries text. Only
// the touched bucket is copied; the other is shared.
func (d ClueDirectory) WithText(dir ClueDirection, num int, text string) (ClueDirectory, error) {
	src := d.bucket(dir)
	e, ok := src[num]
	if !ok {
		return d, ErrNoSuchClue
	}
	dst := make(map[int]ClueEntry, len(src))
	for k, v := range src {
		dst[k] = v
	}
	e.Value = text
	dst[num] = e
	if dir == Across {
		d.Across = dst
	} else {
		d.Down = dst
	}
	return d, nil
}

// ClueStart is the origin cell of a numbered word.
type ClueStart struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ClueStarts maps clue numbers to word origins, one map per direction.
type ClueStarts struct {
	Across map[int]ClueStart `json:"across"`
	Down   map[int]ClueStart `json:"down"`
}

func (s ClueStarts) bucket(dir ClueDirection) map[int]ClueStart {
	if dir == Across {
		return s.Across
	}
	return s.Down
}

// Lookup returns the origin of (dir, num).
func (s ClueStarts) Lookup(dir ClueDirection, num int) (ClueStart, bool) {
	st, ok := s.bucket(dir)[num]
	return st, ok
}

// Numbers returns the clue numbers of one direction in ascending order.
func (s ClueStarts) Numbers(dir ClueDirection) []int {
	return sortedKeys(s.bucket(dir))
}

// ExtractClues builds an empty-text entry for every word start, across and
// down independently.
func ExtractClues(n *NumberedGrid) ClueDirectory {
	d := ClueDirectory{Across: map[int]ClueEntry{}, Down: map[int]ClueEntry{}}
	eachStart(n, func(dir ClueDirection, num, _, _ int) {
		d.bucket(dir)[num] = ClueEntry{Number: num, Direction: dir}
	})
	return d
}

// ClueStartLocations records the origin of every word start, using the same
// scan as ExtractClues.
func ClueStartLocations(n *NumberedGrid) ClueStarts {
	s := ClueStarts{Across: map[int]ClueStart{}, Down: map[int]ClueStart{}}
	eachStart(n, func(dir ClueDirection, num, row, col int) {
		s.bucket(dir)[num] = ClueStart{Row: row, Col: col}
	})
	return s
}

func eachStart(n *NumberedGrid, fn func(dir ClueDirection, num, row, col int)) {
	for r := 0; r < n.Rows; r++ {
		for c := 0; c < n.Cols; c++ {
			num := n.numbers[r][c]
			if num == 0 {
				continue
			}
			if IsStartOfWord(n.Grid, Cursor{Row: r, Col: c, Direction: Row}) {
				fn(Across, num, r, c)
			}
			if IsStartOfWord(n.Grid, Cursor{Row: r, Col: c, Direction: Column}) {
				fn(Down, num, r, c)
			}
		}
	}
}

// MergeClues carries clue text from previous into fresh for every
// (direction, number) pair present in both. Pairs only in fresh keep empty
// text; pairs only in previous are dropped.
//
// Text follows the number, not the word: an edit that shifts numbering can
// attach an old clue to a different word.
func MergeClues(fresh, previous ClueDirectory) ClueDirectory {
	out := ClueDirectory{
		Across: make(map[int]ClueEntry, len(fresh.Across)),
		Down:   make(map[int]ClueEntry, len(fresh.Down)),
	}
	for _, dir := range []ClueDirection{Across, Down} {
		prev := previous.bucket(dir)
		for num, e := range fresh.bucket(dir) {
			if old, ok := prev[num]; ok {
				e.Value = old.Value
			}
			out.bucket(dir)[num] = e
		}
	}
	return out
}

// GetActiveClue returns the clue of the word under c. It reports false when
// the grid is fully blocked, the cursor is not on an open cell, or the
// directory has no entry for the word.
func GetActiveClue(n *NumberedGrid, clues ClueDirectory, c Cursor) (ClueEntry, bool) {
	_, num, ok := n.wordNumber(c)
	if !ok {
		return ClueEntry{}, false
	}
	return clues.Lookup(c.Direction.Clue(), num)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
