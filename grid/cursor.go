package grid

// Cursor is the current edit position and orientation.
type Cursor struct {
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Direction Direction `json:"direction"`
}

// Turn toggles the direction without moving.
func (c Cursor) Turn() Cursor {
	c.Direction = c.Direction.Turn()
	return c
}

// along returns the coordinate that changes when moving in c.Direction.
func (c Cursor) along() int {
	if c.Direction == Row {
		return c.Col
	}
	return c.Row
}

// at returns c moved to position i along its direction.
func (c Cursor) at(i int) Cursor {
	if c.Direction == Row {
		c.Col = i
	} else {
		c.Row = i
	}
	return c
}

// span is the number of cells along d.
func (g *Grid) span(d Direction) int {
	if d == Row {
		return g.Cols
	}
	return g.Rows
}
