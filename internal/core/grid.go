package core

import (
	"fmt"
	"strings"
)

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// String renders the cell as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add offsets the cell by a direction.
func (c Cell) Add(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Less orders cells by row, then column.
func (c Cell) Less(o Cell) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Chebyshev returns the king-move distance ignoring terrain.
func (c Cell) Chebyshev(o Cell) int {
	dx, dy := abs(c.X-o.X), abs(c.Y-o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// DistanceSq returns the squared euclidean distance.
func (c Cell) DistanceSq(o Cell) int {
	dx, dy := c.X-o.X, c.Y-o.Y
	return dx*dx + dy*dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is one of the eight king moves, or Center for staying.
type Direction int

const (
	North Direction = iota
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
	Center
)

// AllDirections lists the eight moving directions.
func AllDirections() []Direction {
	return []Direction{North, Northeast, East, Southeast, South, Southwest, West, Northwest}
}

var directionNames = [...]string{"North", "Northeast", "East", "Southeast", "South", "Southwest", "West", "Northwest", "Center"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "Unknown"
	}
	return directionNames[d]
}

// ParseDirection resolves a case-insensitive direction name.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if strings.EqualFold(name, s) {
			return Direction(i), true
		}
	}
	return Center, false
}

// Delta returns the (dx, dy) of a direction. North is +y.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, 1
	case Northeast:
		return 1, 1
	case East:
		return 1, 0
	case Southeast:
		return 1, -1
	case South:
		return 0, -1
	case Southwest:
		return -1, -1
	case West:
		return -1, 0
	case Northwest:
		return -1, 1
	default:
		return 0, 0
	}
}

// DirectionTo returns the direction of a single step from a to b.
// ok is false when b is not within the 8-neighbourhood of a.
func DirectionTo(a, b Cell) (Direction, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	for _, d := range AllDirections() {
		ddx, ddy := d.Delta()
		if ddx == dx && ddy == dy {
			return d, true
		}
	}
	if dx == 0 && dy == 0 {
		return Center, true
	}
	return Center, false
}

// Grid is a passability bitmap.
type Grid struct {
	Width, Height int
	Passable      []bool // row-major, index y*Width+x
}

// NewGrid creates a fully passable grid.
func NewGrid(w, h int) *Grid {
	g := &Grid{Width: w, Height: h, Passable: make([]bool, w*h)}
	for i := range g.Passable {
		g.Passable[i] = true
	}
	return g
}

// ParseGrid builds a grid from rows of text, '#' marking walls. Row 0 is y=0.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty map")
	}
	w := len(rows[0])
	g := &Grid{Width: w, Height: len(rows), Passable: make([]bool, w*len(rows))}
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(row), w)
		}
		for x, ch := range row {
			g.Passable[y*w+x] = ch != '#'
		}
	}
	return g, nil
}

// InBounds checks whether a cell lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

// IsPassable returns false for walls and out-of-bounds cells.
func (g *Grid) IsPassable(c Cell) bool {
	return g.InBounds(c) && g.Passable[c.Y*g.Width+c.X]
}

// SetWall marks a cell impassable.
func (g *Grid) SetWall(c Cell) {
	if g.InBounds(c) {
		g.Passable[c.Y*g.Width+c.X] = false
	}
}

// Rows renders the grid in the form ParseGrid reads.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	for y := range rows {
		b := make([]byte, g.Width)
		for x := range b {
			b[x] = '.'
			if !g.Passable[y*g.Width+x] {
				b[x] = '#'
			}
		}
		rows[y] = string(b)
	}
	return rows
}
