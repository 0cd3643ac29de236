package hexgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// Board dimensions. Rows 0-3 belong to the opponent side, rows 4-7 to the player.
const (
	Cols = 7
	Rows = 8

	PlayerMinRow = 4
	FrontRow     = 4
)

// Hex is a cell on the odd-row offset grid.
type Hex struct {
	Col int
	Row int
}

// Key returns the "col,row" projection used on the wire and as a container key.
func (h Hex) Key() string {
	return strconv.Itoa(h.Col) + "," + strconv.Itoa(h.Row)
}

func (h Hex) String() string { return h.Key() }

// Parse reads a "col,row" key.
func Parse(key string) (Hex, error) {
	c, r, ok := strings.Cut(strings.TrimSpace(key), ",")
	if !ok {
		return Hex{}, fmt.Errorf("hexgrid: malformed key %q", key)
	}
	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return Hex{}, fmt.Errorf("hexgrid: bad column in %q: %w", key, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return Hex{}, fmt.Errorf("hexgrid: bad row in %q: %w", key, err)
	}
	return Hex{Col: col, Row: row}, nil
}

func (h Hex) MarshalText() ([]byte, error) { return []byte(h.Key()), nil }

func (h *Hex) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// InBounds reports whether h lies on the 7x8 board.
func (h Hex) InBounds() bool {
	return h.Col >= 0 && h.Col < Cols && h.Row >= 0 && h.Row < Rows
}

// InPlayerZone reports whether h is a hex a player may deploy to.
func (h Hex) InPlayerZone() bool {
	return h.Col >= 0 && h.Col < Cols && h.Row >= PlayerMinRow && h.Row < Rows
}

// Mirror flips the row so the defending army faces the attacker.
func (h Hex) Mirror() Hex {
	return Hex{Col: h.Col, Row: Rows - 1 - h.Row}
}

// cube converts odd-r offset coordinates to cube coordinates.
func (h Hex) cube() (x, y, z int) {
	x = h.Col - floorDiv2(h.Row)
	z = h.Row
	y = -x - z
	return
}

func floorDiv2(n int) int {
	if n >= 0 {
		return n / 2
	}
	return -((-n + 1) / 2)
}

// Distance is the cube-coordinate Chebyshev distance between a and b.
func Distance(a, b Hex) int {
	x1, y1, z1 := a.cube()
	x2, y2, z2 := b.cube()
	return max(abs(x1-x2), abs(y1-y2), abs(z1-z2))
}

var (
	oddRowSteps  = [6][2]int{{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {0, 1}, {1, 1}}
	evenRowSteps = [6][2]int{{1, 0}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}}
)

// Neighbors returns the six adjacent hexes in a fixed order, including
// out-of-bounds ones; callers filter with InBounds.
func Neighbors(h Hex) [6]Hex {
	steps := evenRowSteps
	if h.Row&1 == 1 {
		steps = oddRowSteps
	}
	var out [6]Hex
	for i, s := range steps {
		out[i] = Hex{Col: h.Col + s[0], Row: h.Row + s[1]}
	}
	return out
}

// Step moves one cell toward target along the sign of the column and row deltas.
func Step(from, target Hex) Hex {
	return Hex{Col: from.Col + sign(target.Col-from.Col), Row: from.Row + sign(target.Row-from.Row)}
}

// Less orders hexes row-major, used wherever iteration order must be stable.
func Less(a, b Hex) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
