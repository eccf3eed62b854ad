package session

import (
	"image"

	"github.com/plus3/blockfall/grid"
	"github.com/plus3/blockfall/piece"
)

// View is everything a renderer needs for one frame. It is a copy except for Settled, which
// aliases the grid's settled list and must not be modified.
type View struct {
	Width  int
	Height int
	State  State
	Reason Reason

	HasActive   bool
	Active      [4]grid.Coord
	ActiveColor piece.Color
	Ghost       [4]grid.Coord

	Settled []grid.Settled[piece.Color]
}

// View captures the current frame.
func (s *Session) View() View {
	v := View{
		Width:   s.cfg.Width,
		Height:  s.cfg.Height,
		State:   s.state,
		Reason:  s.reason,
		Settled: s.grid.Settled(),
	}

	if p := s.active; p != nil {
		v.HasActive = true
		v.Active = p.Positions()
		v.ActiveColor = p.Color()
		v.Ghost = p.Ghost(s.grid)
	}
	return v
}

// InWell returns the cells of cs that lie inside the grid, in order. Renderers draw only
// these.
func (v View) InWell(cs [4]grid.Coord) []grid.Coord {
	out := make([]grid.Coord, 0, len(cs))
	for _, c := range cs {
		if c.X >= 0 && c.X < v.Width && c.Y >= 0 && c.Y < v.Height {
			out = append(out, c)
		}
	}
	return out
}

// Layout maps grid coordinates to screen pixels.
type Layout struct {
	Origin   image.Point
	CellSize int
}

// ToScreen returns the top-left pixel of cell c.
func (l Layout) ToScreen(c grid.Coord) image.Point {
	return image.Pt(l.Origin.X+c.X*l.CellSize, l.Origin.Y+c.Y*l.CellSize)
}

// Bounds returns the pixel rectangle covered by a w×h grid.
func (l Layout) Bounds(w, h int) image.Rectangle {
	return image.Rectangle{
		Min: l.Origin,
		Max: l.Origin.Add(image.Pt(w*l.CellSize, h*l.CellSize)),
	}
}
