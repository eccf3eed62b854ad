// Package piece implements the falling tetromino: four cells around a pivot that move and
// rotate as a unit.
//
// Every movement is tentative-then-commit. The change is applied to all four cells, each cell
// is checked against a Field, and the change is kept only if every cell is admitted; otherwise
// all four cells are restored. A piece is therefore never observed half inside a wall or
// overlapping a settled cell. Rejections are reported as a false return, not as errors.
package piece

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/grid"
)

// Field is the space a piece moves in. *grid.Grid implements it.
type Field interface {
	Admits(c grid.Coord) bool
}

var (
	down  = grid.C(0, 1)
	left  = grid.C(-1, 0)
	right = grid.C(1, 0)
)

// Piece is a tetromino made of exactly four cells. Cell 0 is the pivot and always has
// offset (0,0).
type Piece struct {
	kind  Kind
	color Color
	pivot grid.Coord
	cells [4]Cell
	taken bool
}

// New creates a piece of the given kind with its pivot at pivot, colored with the kind's
// default color. It panics on an unknown kind.
func New(kind Kind, pivot grid.Coord) *Piece {
	if !kind.Valid() {
		panic("unknown piece kind")
	}
	return NewColored(kind, shapes[kind].Color, pivot)
}

// NewColored is like New but with an explicit color.
func NewColored(kind Kind, color Color, pivot grid.Coord) *Piece {
	if !kind.Valid() {
		panic("unknown piece kind")
	}

	p := &Piece{
		kind:  kind,
		color: color,
		pivot: pivot,
	}
	for i, off := range shapes[kind].Offsets {
		p.cells[i].SetCenter(pivot)
		p.cells[i].SetOffset(off)
	}
	return p
}

// Random creates a piece of a uniformly chosen kind.
func Random(rng *rand.Rand, pivot grid.Coord) *Piece {
	return New(Kind(rng.IntN(int(kindCount))), pivot)
}

// Kind returns the piece's shape.
func (p *Piece) Kind() Kind { return p.kind }

// Color returns the tag the piece settles with.
func (p *Piece) Color() Color { return p.color }

// Pivot returns the grid position of cell 0.
func (p *Piece) Pivot() grid.Coord { return p.pivot }

// Cells returns a copy of the four cells. Cell 0 is the pivot.
func (p *Piece) Cells() [4]Cell { return p.cells }

// Offsets returns the current offsets of the four cells from the pivot.
func (p *Piece) Offsets() [4]grid.Coord {
	var out [4]grid.Coord
	for i := range p.cells {
		out[i] = p.cells[i].Offset()
	}
	return out
}

// Positions returns the grid coordinates of the four cells.
func (p *Piece) Positions() [4]grid.Coord {
	var out [4]grid.Coord
	for i := range p.cells {
		out[i] = p.cells[i].Position()
	}
	return out
}

// InBounds reports whether every cell lies inside [0,w)×[0,h).
func (p *Piece) InBounds(w, h int) bool {
	for i := range p.cells {
		if !p.cells[i].InBounds(w, h) {
			return false
		}
	}
	return true
}

// Fits reports whether every cell is admitted by f at the current placement.
func (p *Piece) Fits(f Field) bool {
	for i := range p.cells {
		if !f.Admits(p.cells[i].Position()) {
			return false
		}
	}
	return true
}

// MoveDown moves the piece one row down. It reports false, leaving the piece in place, if
// any cell would not be admitted.
func (p *Piece) MoveDown(f Field) bool { return p.translate(f, down) }

// MoveLeft moves the piece one column left, all or nothing.
func (p *Piece) MoveLeft(f Field) bool { return p.translate(f, left) }

// MoveRight moves the piece one column right, all or nothing.
func (p *Piece) MoveRight(f Field) bool { return p.translate(f, right) }

func (p *Piece) translate(f Field, d grid.Coord) bool {
	for i := range p.cells {
		p.cells[i].SetCenter(p.cells[i].Center().Add(d))
	}

	if p.Fits(f) {
		p.pivot = p.pivot.Add(d)
		return true
	}

	for i := range p.cells {
		p.cells[i].SetCenter(p.pivot)
	}
	return false
}

// Rotate turns the piece a quarter turn about its pivot, mapping each offset (dx,dy) to
// (-dy,dx). There are no wall kicks: if any cell would land outside the field the whole
// rotation is rejected.
func (p *Piece) Rotate(f Field) bool {
	prev := p.Offsets()

	for i := 1; i < len(p.cells); i++ {
		o := p.cells[i].Offset()
		p.cells[i].SetOffset(grid.C(-o.Y, o.X))
	}

	if p.Fits(f) {
		return true
	}

	for i := range p.cells {
		p.cells[i].SetOffset(prev[i])
	}
	return false
}

// Settled reports whether the piece can no longer fall: moving every cell down one row would
// put at least one of them outside the field or onto an occupied cell. The piece is not moved.
func (p *Piece) Settled(f Field) bool {
	for i := range p.cells {
		if !f.Admits(p.cells[i].Position().Add(down)) {
			return true
		}
	}
	return false
}

// Drop moves the piece down until it settles and returns the number of rows it fell.
func (p *Piece) Drop(f Field) int {
	n := 0
	for p.MoveDown(f) {
		n++
	}
	return n
}

// Ghost returns the cell positions the piece would occupy if dropped now.
func (p *Piece) Ghost(f Field) [4]grid.Coord {
	out := p.Positions()
	for {
		for i := range out {
			if !f.Admits(out[i].Add(down)) {
				return out
			}
		}
		for i := range out {
			out[i] = out[i].Add(down)
		}
	}
}

// Take hands the four final cell positions over to the grid. It may be called only once;
// a second call panics.
func (p *Piece) Take() [4]grid.Settled[Color] {
	if p.taken {
		panic("piece cells already taken")
	}
	p.taken = true

	var out [4]grid.Settled[Color]
	for i := range p.cells {
		out[i] = grid.Settled[Color]{Pos: p.cells[i].Position(), Tag: p.color}
	}
	return out
}
