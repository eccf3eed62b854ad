package piece

import "github.com/plus3/blockfall/grid"

// Cell is one of the four squares of a piece. Its grid position is center + offset, where
// center is the piece pivot and offset is the shape-defining displacement from it.
//
// A Cell only reports its own validity; whether a move is kept is decided by the Piece.
type Cell struct {
	center grid.Coord
	offset grid.Coord
}

// Center returns the pivot the cell is attached to.
func (c *Cell) Center() grid.Coord { return c.center }

// SetCenter moves the cell with its pivot. It does not validate p.
func (c *Cell) SetCenter(p grid.Coord) { c.center = p }

// Offset returns the displacement from the pivot.
func (c *Cell) Offset() grid.Coord { return c.offset }

// SetOffset replaces the displacement from the pivot. It does not validate o.
func (c *Cell) SetOffset(o grid.Coord) { c.offset = o }

// Position returns the cell's grid coordinate.
func (c *Cell) Position() grid.Coord {
	return c.center.Add(c.offset)
}

// InBounds reports whether the cell lies inside [0,w)×[0,h).
func (c *Cell) InBounds(w, h int) bool {
	p := c.Position()
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h
}
