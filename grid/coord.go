package grid

import "fmt"

// Coord is a cell coordinate on the grid.
// X increases to the right, Y increases downward.
type Coord struct {
	X, Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// key packs a coordinate into a single integer. X goes in the upper 32 bits and Y in the
// lower 32 bits, the same layout an EntityId uses for archetype and index.
func (c Coord) key() uint64 {
	return uint64(uint32(c.X))<<32 | uint64(uint32(c.Y))
}
