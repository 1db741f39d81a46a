package grid

import "fmt"

// Direction is the axis a cursor travels along.
type Direction uint8

const (
	Row Direction = iota
	Column
)

// Turn returns the orthogonal direction.
func (d Direction) Turn() Direction {
	if d == Row {
		return Column
	}
	return Row
}

// Clue returns the clue list this axis belongs to: Row is Across, Column is
// Down.
func (d Direction) Clue() ClueDirection {
	if d == Row {
		return Across
	}
	return Down
}

func (d Direction) String() string {
	if d == Row {
		return "row"
	}
	return "col"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "row":
		*d = Row
	case "col", "column":
		*d = Column
	default:
		return fmt.Errorf("grid: unknown direction %q", b)
	}
	return nil
}

// ClueDirection names a clue list.
type ClueDirection uint8

const (
	Across ClueDirection = iota
	Down
)

// Axis returns the cursor direction for this clue list.
func (d ClueDirection) Axis() Direction {
	if d == Across {
		return Row
	}
	return Column
}

// Other returns the opposite clue list.
func (d ClueDirection) Other() ClueDirection {
	if d == Across {
		return Down
	}
	return Across
}

func (d ClueDirection) String() string {
	if d == Across {
		return "across"
	}
	return "down"
}

func (d ClueDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *ClueDirection) UnmarshalText(b []byte) error {
	switch string(b) {
	case "across":
		*d = Across
	case "down":
		*d = Down
	default:
		return fmt.Errorf("grid: unknown clue direction %q", b)
	}
	return nil
}

// Movement is the sense of travel for stepping and jumping.
type Movement uint8

const (
	Forward Movement = iota
	Backward
)

func (m Movement) String() string {
	if m == Forward {
		return "forward"
	}
	return "backward"
}

func (m Movement) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Movement) UnmarshalText(b []byte) error {
	switch string(b) {
	case "forward", "forwards":
		*m = Forward
	case "backward", "backwards":
		*m = Backward
	default:
		return fmt.Errorf("grid: unknown movement %q", b)
	}
	return nil
}
