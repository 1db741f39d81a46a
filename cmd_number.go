package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bodul/xwedit/grid"
)

func runNumber(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := readLayout(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	printNumbered(cmd.OutOrStdout(), grid.NumberCells(g))
	return nil
}

// readLayout parses a layout file, skipping blank lines.
func readLayout(r io.Reader) (*grid.Grid, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return grid.Parse(lines)
}

// printNumbered writes the rendered grid followed by the across and down
// entries, each with its current letters and length.
func printNumbered(w io.Writer, n *grid.NumberedGrid) {
	fmt.Fprint(w, grid.Render(n))

	starts := grid.ClueStartLocations(n)
	for _, dir := range []grid.ClueDirection{grid.Across, grid.Down} {
		name := dir.String()
		fmt.Fprintf(w, "\n%s%s\n", strings.ToUpper(name[:1]), name[1:])
		for _, num := range starts.Numbers(dir) {
			s, _ := starts.Lookup(dir, num)
			word, err := grid.FindWordBoundaries(n.Grid, grid.Cursor{Row: s.Row, Col: s.Col, Direction: dir.Axis()})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "%3d. %s (%d)\n", num, letters(n.Grid, word), word.Len())
		}
	}
}

func letters(g *grid.Grid, w grid.Word) string {
	var b strings.Builder
	for _, c := range w.Cursors() {
		v := g.Cells[c.Row][c.Col].Value
		if v == "" {
			v = string(grid.EmptyMark)
		}
		b.WriteString(v)
	}
	return b.String()
}
