package piece

import (
	"image/color"

	"github.com/plus3/blockfall/grid"
)

// Kind is one of the seven tetromino shapes.
type Kind uint8

const (
	S Kind = iota
	Z
	T
	L
	I
	ML
	SQR

	kindCount
)

// Kinds lists every tetromino kind in table order.
var Kinds = [...]Kind{S, Z, T, L, I, ML, SQR}

var kindNames = [...]string{"S", "Z", "T", "L", "I", "ML", "SQR"}

func (k Kind) String() string {
	if k >= kindCount {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Valid reports whether k names a known shape.
func (k Kind) Valid() bool {
	return k < kindCount
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Color is the cosmetic tag a piece carries into the grid when it settles.
type Color uint8

const (
	Blue Color = iota
	Green
	Purple
	Pink
	Red
	Yellow
	Teal
)

var colorNames = [...]string{"blue", "green", "purple", "pink", "red", "yellow", "teal"}

var palette = [...]color.RGBA{
	Blue:   {R: 66, G: 135, B: 245, A: 255},
	Green:  {R: 88, G: 204, B: 96, A: 255},
	Purple: {R: 160, G: 96, B: 220, A: 255},
	Pink:   {R: 244, G: 143, B: 200, A: 255},
	Red:    {R: 230, G: 72, B: 64, A: 255},
	Yellow: {R: 246, G: 210, B: 64, A: 255},
	Teal:   {R: 64, G: 196, B: 196, A: 255},
}

func (c Color) String() string {
	if int(c) >= len(colorNames) {
		return "color(?)"
	}
	return colorNames[c]
}

// RGBA returns the display color for the tag.
func (c Color) RGBA() color.RGBA {
	if int(c) >= len(palette) {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	return palette[c]
}

// shape is the per-kind record: the four cell offsets from the pivot and the piece color.
// Offsets[0] is always the pivot at (0,0).
type shape struct {
	Offsets [4]grid.Coord
	Color   Color
}

var shapes = [kindCount]shape{
	S:   {Offsets: [4]grid.Coord{grid.C(0, 0), grid.C(0, -1), grid.C(-1, 0), grid.C(-1, 1)}, Color: Blue},
	Z:   {Offsets: [4]grid.Coord{grid.C(0, 0), grid.C(0, -1), grid.C(1, 0), grid.C(-1, -1)}, Color: Green},
	T:   {Offsets: [4]grid.Coord{grid.C(0, 0), grid.C(0, -1), grid.C(-1, 0), grid.C(1, 0)}, Color: Purple},
	L:   {Offsets: [4]grid.Coord{grid.C(0, 0), grid.C(0, -1), grid.C(0, -2), grid.C(1, 0)}, Color: Pink},
	I:   {Offsets: [4]grid.Coord{grid.C(0, 0), grid.C(0, -1), grid.C(0, -2), grid.C(0, 1)}, Color: Red},
	ML:  {Offsets: [4]grid.Coord{grid.C(0, 0), grid.C(0, -1), grid.C(0, -2), grid.C(-1, 0)}, Color: Yellow},
	SQR: {Offsets: [4]grid.Coord{grid.C(0, 0), grid.C(0, 1), grid.C(1, 0), grid.C(1, 1)}, Color: Teal},
}
