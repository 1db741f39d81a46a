package grid

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Layout markers: Blocked marks a black square, Empty an open cell with no
// letter. Any letter A-Z is an open cell holding that letter.
const (
	BlockedMark = '.'
	EmptyMark   = '-'
)

// Parse builds a grid from one string per row. Spaces are read as empty
// open cells and lowercase letters are folded to uppercase.
func Parse(lines []string) (*Grid, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	cols := len(lines[0])
	g, err := New(len(lines), cols)
	if err != nil {
		return nil, err
	}
	for r, line := range lines {
		for c := 0; c < len(line); c++ {
			if line[c] >= utf8.RuneSelf {
				return nil, fmt.Errorf("row %d col %d: non-ASCII: %w", r, c, ErrInvalidValue)
			}
		}
		if len(line) != cols {
			return nil, fmt.Errorf("row %d: %w", r, ErrNonRectangular)
		}
		for c, ch := range strings.ToUpper(line) {
			switch {
			case ch == BlockedMark:
				g.Cells[r][c].Blocked = true
			case ch == EmptyMark || ch == ' ':
			case ch >= 'A' && ch <= 'Z':
				g.Cells[r][c].Value = string(ch)
			default:
				return nil, fmt.Errorf("row %d col %d: %q: %w", r, c, ch, ErrInvalidValue)
			}
		}
	}
	return g, nil
}

// Format is the inverse of Parse.
func Format(g *Grid) []string {
	lines := make([]string, g.Rows)
	var b strings.Builder
	for r, row := range g.Cells {
		b.Reset()
		for _, c := range row {
			switch {
			case c.Blocked:
				b.WriteByte(BlockedMark)
			case c.Value == "":
				b.WriteByte(EmptyMark)
			default:
				b.WriteString(c.Value)
			}
		}
		lines[r] = b.String()
	}
	return lines
}

// Render draws the numbered grid as box-drawing text, one three-character
// slot per cell: blocked cells are shaded, numbered cells show their number
// and other cells their letter.
func Render(n *NumberedGrid) string {
	var b strings.Builder
	divider := func(left, mid, right string) {
		b.WriteString(left)
		for c := 0; c < n.Cols; c++ {
			if c > 0 {
				b.WriteString(mid)
			}
			b.WriteString("───")
		}
		b.WriteString(right)
		b.WriteByte('\n')
	}

	divider("┌", "┬", "┐")
	for r := 0; r < n.Rows; r++ {
		if r > 0 {
			divider("├", "┼", "┤")
		}
		b.WriteString("│")
		for c := 0; c < n.Cols; c++ {
			cell := n.Cells[r][c]
			switch {
			case cell.Blocked:
				b.WriteString("███")
			case n.numbers[r][c] != 0:
				fmt.Fprintf(&b, "%-3d", n.numbers[r][c])
			case cell.Value != "":
				fmt.Fprintf(&b, " %s ", cell.Value)
			default:
				b.WriteString("   ")
			}
			b.WriteString("│")
		}
		b.WriteByte('\n')
	}
	divider("└", "┴", "┘")
	return b.String()
}
