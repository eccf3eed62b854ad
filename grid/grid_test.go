package grid_test

import (
	"testing"

	"github.com/plus3/blockfall/grid"
	"github.com/stretchr/testify/assert"
)

func TestGridBounds(t *testing.T) {
	g := grid.New[string](15, 30)

	assert.Equal(t, 15, g.Width())
	assert.Equal(t, 30, g.Height())

	cases := []struct {
		c    grid.Coord
		want bool
	}{
		{grid.C(0, 0), true},
		{grid.C(14, 29), true},
		{grid.C(-1, 0), false},
		{grid.C(0, -1), false},
		{grid.C(15, 0), false},
		{grid.C(0, 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.c.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, g.InBounds(tc.c))
		})
	}
}

func TestGridOccupy(t *testing.T) {
	g := grid.New[string](4, 4)

	assert.False(t, g.IsOccupied(grid.C(1, 2)))
	assert.True(t, g.Occupy(grid.C(1, 2), "red"))
	assert.True(t, g.IsOccupied(grid.C(1, 2)))

	tag, ok := g.TagAt(grid.C(1, 2))
	assert.True(t, ok)
	assert.Equal(t, "red", tag)

	// second write to the same coordinate is refused
	assert.False(t, g.Occupy(grid.C(1, 2), "blue"))
	tag, _ = g.TagAt(grid.C(1, 2))
	assert.Equal(t, "red", tag)

	assert.False(t, g.Occupy(grid.C(4, 0), "blue"))
	assert.False(t, g.Occupy(grid.C(0, -1), "blue"))
	assert.False(t, g.IsOccupied(grid.C(-1, -1)))

	assert.Equal(t, 1, g.Len())
}

func TestGridSettledOrder(t *testing.T) {
	g := grid.New[int](5, 5)

	coords := []grid.Coord{grid.C(4, 4), grid.C(0, 4), grid.C(2, 3)}
	for i, c := range coords {
		assert.True(t, g.Occupy(c, i))
	}

	settled := g.Settled()
	assert.Len(t, settled, 3)
	for i, s := range settled {
		assert.Equal(t, coords[i], s.Pos)
		assert.Equal(t, i, s.Tag)
		assert.True(t, g.IsOccupied(s.Pos))
	}
}

func TestGridAdmits(t *testing.T) {
	g := grid.New[int](5, 5)
	g.Occupy(grid.C(2, 4), 1)

	assert.True(t, g.Admits(grid.C(0, 0)))
	assert.False(t, g.Admits(grid.C(2, -1)), "rows above the top are outside the grid")
	assert.False(t, g.Admits(grid.C(-1, 0)))
	assert.False(t, g.Admits(grid.C(5, 0)))
	assert.False(t, g.Admits(grid.C(0, 5)))
	assert.False(t, g.Admits(grid.C(2, 4)))
}

func TestGridRow(t *testing.T) {
	g := grid.New[int](3, 3)
	g.Occupy(grid.C(0, 2), 0)
	g.Occupy(grid.C(2, 2), 0)
	g.Occupy(grid.C(1, 1), 0)

	assert.Equal(t, 2, g.Row(2))
	assert.Equal(t, 1, g.Row(1))
	assert.Equal(t, 0, g.Row(0))
	assert.Equal(t, 0, g.Row(-1))
	assert.Equal(t, 0, g.Row(3))
}

func TestNewPanicsOnEmptyGrid(t *testing.T) {
	assert.Panics(t, func() { grid.New[int](0, 10) })
	assert.Panics(t, func() { grid.New[int](10, -1) })
}
