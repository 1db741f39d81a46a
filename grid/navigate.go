package grid

// StepCursor moves c one cell along its direction. Inside a word this is a
// plain step. At a word boundary it crosses into the adjacent word: forward
// lands on the next word's start, backward on the previous word's end.
//
// If the cursor does not rest on a numbered word (fully blocked grid, stale
// cursor) the input is returned unchanged.
func StepCursor(n *NumberedGrid, c Cursor, clues ClueDirectory, starts ClueStarts, m Movement) Cursor {
	w, err := FindWordBoundaries(n.Grid, c)
	if err != nil {
		return c
	}
	switch m {
	case Forward:
		if c.along() < w.End.along() {
			return c.at(c.along() + 1)
		}
		return StartOfAdjacentWord(n, c, clues, starts, Forward)
	case Backward:
		if c.along() > w.Start.along() {
			return c.at(c.along() - 1)
		}
		prev := StartOfAdjacentWord(n, c, clues, starts, Backward)
		if prev == c {
			return c
		}
		pw, err := FindWordBoundaries(n.Grid, prev)
		if err != nil {
			return c
		}
		return pw.End
	}
	return c
}

// StartOfAdjacentWord jumps to the start of the next or previous word in
// clue-number order. Running off the end of one clue list wraps into the
// other: forward enters at its first clue, backward at its last.
//
// Clue numbers come from clues, positions from starts. Any lookup that fails
// leaves the cursor unchanged.
func StartOfAdjacentWord(n *NumberedGrid, c Cursor, clues ClueDirectory, starts ClueStarts, m Movement) Cursor {
	_, num, ok := n.wordNumber(c)
	if !ok {
		return c
	}

	dir := c.Direction.Clue()
	current := clues.Numbers(dir)
	other := clues.Numbers(dir.Other())

	idx := indexOf(current, num)
	if idx < 0 {
		return c
	}

	nextDir, nextNum := dir, 0
	switch m {
	case Forward:
		if idx < len(current)-1 {
			nextNum = current[idx+1]
		} else {
			if len(other) == 0 {
				return c
			}
			nextDir, nextNum = dir.Other(), other[0]
		}
	case Backward:
		if idx > 0 {
			nextNum = current[idx-1]
		} else {
			if len(other) == 0 {
				return c
			}
			nextDir, nextNum = dir.Other(), other[len(other)-1]
		}
	default:
		return c
	}

	st, ok := starts.Lookup(nextDir, nextNum)
	if !ok {
		return c
	}
	return Cursor{Row: st.Row, Col: st.Col, Direction: nextDir.Axis()}
}

func indexOf(nums []int, n int) int {
	for i, v := range nums {
		if v == n {
			return i
		}
	}
	return -1
}
