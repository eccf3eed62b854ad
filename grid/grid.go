// Package grid holds the fixed-size occupancy table of settled cells.
//
// A Grid is the single owner of settled state: the per-coordinate occupancy index used for
// collision checks and the ordered list of settled cells used for drawing are updated by the
// same call, so the two can never disagree.
package grid

import (
	"github.com/kamstrup/intmap"
)

// Settled is one permanently occupied cell and the tag it was settled with.
type Settled[T any] struct {
	Pos Coord
	Tag T
}

// Grid is a W×H occupancy table. Each entry is either empty or holds a tag of type T
// (the piece color, for the engine).
type Grid[T any] struct {
	width   int
	height  int
	index   *intmap.Map[uint64, int]
	settled []Settled[T]
}

// New creates an empty grid. It panics if either dimension is not positive.
func New[T any](width, height int) *Grid[T] {
	if width <= 0 || height <= 0 {
		panic("grid dimensions must be positive")
	}

	return &Grid[T]{
		width:   width,
		height:  height,
		index:   intmap.New[uint64, int](width * height),
		settled: make([]Settled[T], 0, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Len returns the number of occupied cells.
func (g *Grid[T]) Len() int {
	return len(g.settled)
}

// InBounds reports whether c lies within [0,W)×[0,H).
func (g *Grid[T]) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// IsOccupied reports whether c holds a settled cell. Out of bounds coordinates are never occupied.
func (g *Grid[T]) IsOccupied(c Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.index.Has(c.key())
}

// TagAt returns the tag stored at c, if any.
func (g *Grid[T]) TagAt(c Coord) (T, bool) {
	var zero T
	if !g.InBounds(c) {
		return zero, false
	}
	i, ok := g.index.Get(c.key())
	if !ok {
		return zero, false
	}
	return g.settled[i].Tag, true
}

// Occupy marks c as occupied with the given tag and appends it to the settled list.
// It returns false and leaves the grid untouched if c is out of bounds or already occupied.
func (g *Grid[T]) Occupy(c Coord, tag T) bool {
	if !g.InBounds(c) || g.index.Has(c.key()) {
		return false
	}

	g.index.Put(c.key(), len(g.settled))
	g.settled = append(g.settled, Settled[T]{Pos: c, Tag: tag})
	return true
}

// Admits reports whether an active piece cell may sit at c: inside the grid and not on a
// settled cell.
func (g *Grid[T]) Admits(c Coord) bool {
	return g.InBounds(c) && !g.index.Has(c.key())
}

// Settled returns the occupied cells in the order they were settled.
// The returned slice must not be modified.
func (g *Grid[T]) Settled() []Settled[T] {
	return g.settled
}

// Row returns the number of occupied cells in row y.
func (g *Grid[T]) Row(y int) int {
	if y < 0 || y >= g.height {
		return 0
	}
	n := 0
	for x := range g.width {
		if g.index.Has(Coord{X: x, Y: y}.key()) {
			n++
		}
	}
	return n
}
