package session_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/plus3/blockfall/grid"
	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, cfg session.Config, kinds ...piece.Kind) *session.Session {
	t.Helper()

	s, err := session.New(cfg, session.Options{
		Spawner: session.NewFixedSpawner(kinds...),
	})
	require.NoError(t, err)
	return s
}

func TestNewSpawnsFirstPiece(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.I)

	assert.Equal(t, session.Falling, s.State())
	assert.Equal(t, session.ReasonNone, s.Reason())

	p, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, piece.I, p.Kind())
	assert.Equal(t, grid.C(7, 2), p.Pivot())
	assert.True(t, p.InBounds(15, 30))
	assert.Equal(t, 1, s.Stats().Spawned)
	assert.Equal(t, 0, s.Grid().Len())
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name  string
		cfg   session.Config
		valid bool
	}{
		{"default", session.DefaultConfig(), true},
		{"spawn on top row", session.Config{Width: 15, Height: 30, Spawn: grid.C(7, 0)}, false},
		{"spawn one below top", session.Config{Width: 15, Height: 30, Spawn: grid.C(7, 1)}, false},
		{"small grid", session.Config{Width: 5, Height: 5, Spawn: grid.C(2, 2)}, true},
		{"empty grid", session.Config{Width: 0, Height: 30, Spawn: grid.C(0, 0)}, false},
		{"spawn on left wall", session.Config{Width: 15, Height: 30, Spawn: grid.C(0, 2)}, false},
		{"spawn on floor", session.Config{Width: 15, Height: 30, Spawn: grid.C(7, 29)}, false},
		{"too narrow to turn", session.Config{Width: 3, Height: 30, Spawn: grid.C(1, 2)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, session.ErrInvalidConfig)

			_, err = session.New(tc.cfg, session.Options{})
			assert.ErrorIs(t, err, session.ErrInvalidConfig)
		})
	}
}

func TestApplyMoves(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.T)
	p, _ := s.Active()

	assert.True(t, s.Apply(session.MoveLeft))
	assert.Equal(t, grid.C(6, 2), p.Pivot())

	assert.True(t, s.Apply(session.MoveRight))
	assert.True(t, s.Apply(session.MoveRight))
	assert.Equal(t, grid.C(8, 2), p.Pivot())

	assert.True(t, s.Apply(session.MoveDown))
	assert.Equal(t, grid.C(8, 3), p.Pivot())

	assert.True(t, s.Apply(session.Rotate))
	assert.Equal(t, 5, s.Stats().Applied)
}

func TestApplyRejectsAtWall(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.SQR)
	p, _ := s.Active()

	for range 7 {
		require.True(t, s.Apply(session.MoveLeft))
	}
	before := p.Positions()

	assert.False(t, s.Apply(session.MoveLeft))
	assert.Equal(t, before, p.Positions())
	assert.Equal(t, 1, s.Stats().Rejected)
	assert.Equal(t, session.Falling, s.State())
}

func TestSettleAndRespawn(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.SQR, piece.I)
	first, _ := s.Active()

	// the square's lower row sits one below the pivot, so 26 rows takes it to the floor
	for range 25 {
		require.True(t, s.Apply(session.MoveDown))
		require.Same(t, first, mustActive(t, s))
	}
	require.True(t, s.Apply(session.MoveDown))

	next := mustActive(t, s)
	assert.NotSame(t, first, next)
	assert.Equal(t, piece.I, next.Kind())
	assert.Equal(t, grid.C(7, 2), next.Pivot())
	assert.Equal(t, session.Falling, s.State())

	g := s.Grid()
	assert.Equal(t, 4, g.Len())
	for _, c := range []grid.Coord{grid.C(7, 28), grid.C(7, 29), grid.C(8, 28), grid.C(8, 29)} {
		assert.True(t, g.IsOccupied(c), c.String())
		tag, _ := g.TagAt(c)
		assert.Equal(t, piece.Teal, tag)
	}

	stats := s.Stats()
	assert.Equal(t, 1, stats.Settled)
	assert.Equal(t, 2, stats.Spawned)
}

func TestHardDrop(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.I)

	assert.True(t, s.Apply(session.HardDrop))
	assert.Equal(t, 1, s.Stats().Settled)

	g := s.Grid()
	for _, y := range []int{26, 27, 28, 29} {
		assert.True(t, g.IsOccupied(grid.C(7, y)))
	}

	// the second I lands on the first
	assert.True(t, s.Apply(session.HardDrop))
	for _, y := range []int{22, 23, 24, 25} {
		assert.True(t, g.IsOccupied(grid.C(7, y)))
	}
	assert.Equal(t, 8, g.Len())
}

func TestSettledCellsBlockLaterPieces(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.SQR)
	g := s.Grid()

	require.True(t, s.Apply(session.HardDrop))

	// second square lands beside the first
	require.True(t, s.Apply(session.MoveLeft))
	require.True(t, s.Apply(session.MoveLeft))
	require.True(t, s.Apply(session.HardDrop))
	assert.True(t, g.IsOccupied(grid.C(5, 29)))
	assert.True(t, g.IsOccupied(grid.C(6, 28)))

	// third square stacks on the first
	require.True(t, s.Apply(session.HardDrop))
	assert.True(t, g.IsOccupied(grid.C(7, 26)))
	assert.True(t, g.IsOccupied(grid.C(8, 27)))

	// fourth square straddles both stacks and is held up by the taller one
	require.True(t, s.Apply(session.MoveLeft))
	require.True(t, s.Apply(session.HardDrop))
	assert.True(t, g.IsOccupied(grid.C(6, 25)))
	assert.True(t, g.IsOccupied(grid.C(7, 24)))
	assert.False(t, g.IsOccupied(grid.C(6, 27)))
	assert.Equal(t, 16, g.Len())
}

func TestTopOutWhenSpawnBlocked(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.SQR)

	for range 20 {
		s.Apply(session.HardDrop)
	}

	assert.Equal(t, session.Over, s.State())
	assert.Equal(t, session.ReasonTopOut, s.Reason())
	assert.Equal(t, 14, s.Stats().Settled)
	assert.Equal(t, 14, s.Stats().Spawned)

	_, ok := s.Active()
	assert.False(t, ok)
}

func TestHardDropLocksRestingPiece(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.SQR)

	for range 13 {
		require.True(t, s.Apply(session.HardDrop))
	}
	p := mustActive(t, s)
	require.True(t, p.Settled(s.Grid()), "the fourteenth square spawns resting on the stack")

	assert.True(t, s.Apply(session.HardDrop))

	stats := s.Stats()
	assert.Equal(t, 14, stats.Applied)
	assert.Zero(t, stats.Rejected)
	assert.Equal(t, 14, stats.Settled)
	assert.True(t, s.Grid().IsOccupied(grid.C(7, 2)))
	assert.Equal(t, session.ReasonTopOut, s.Reason())
}

func TestPieceNeverLeavesGrid(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.I)
	cfg := s.Config()

	cmds := []session.Command{session.Rotate, session.MoveLeft, session.MoveRight, session.MoveDown}
	for i := range 400 {
		s.Apply(cmds[i%len(cmds)])
		if s.State() == session.Over {
			break
		}
		p := mustActive(t, s)
		require.True(t, p.InBounds(cfg.Width, cfg.Height), "step %d: %v", i, p.Positions())
	}
	for _, c := range s.Grid().Settled() {
		assert.True(t, s.Grid().InBounds(c.Pos))
	}
}

func TestQuit(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s, err := session.New(session.DefaultConfig(), session.Options{
		Logger:  logger,
		Spawner: session.NewFixedSpawner(piece.L),
	})
	require.NoError(t, err)

	assert.True(t, s.Apply(session.Quit))
	assert.Equal(t, session.Over, s.State())
	assert.Equal(t, session.ReasonQuit, s.Reason())
	assert.Contains(t, buf.String(), "reason=quit")

	_, ok := s.Active()
	assert.False(t, ok)

	for _, cmd := range []session.Command{session.MoveLeft, session.MoveDown, session.Rotate, session.HardDrop, session.Quit} {
		assert.False(t, s.Apply(cmd), cmd.String())
	}
	assert.Equal(t, session.ReasonQuit, s.Reason())
}

func TestView(t *testing.T) {
	s := newTestSession(t, session.DefaultConfig(), piece.SQR)

	v := s.View()
	assert.True(t, v.HasActive)
	assert.Equal(t, 15, v.Width)
	assert.Equal(t, 30, v.Height)
	assert.Equal(t, piece.Teal, v.ActiveColor)
	assert.Equal(t, [4]grid.Coord{grid.C(7, 2), grid.C(7, 3), grid.C(8, 2), grid.C(8, 3)}, v.Active)
	assert.Equal(t, [4]grid.Coord{grid.C(7, 28), grid.C(7, 29), grid.C(8, 28), grid.C(8, 29)}, v.Ghost)
	assert.Empty(t, v.Settled)

	s.Apply(session.HardDrop)
	v = s.View()
	assert.Len(t, v.Settled, 4)
	assert.Equal(t, piece.Teal, v.Settled[0].Tag)

	s.Apply(session.Quit)
	v = s.View()
	assert.False(t, v.HasActive)
	assert.Equal(t, session.Over, v.State)
}

func TestViewInWell(t *testing.T) {
	v := session.View{Width: 15, Height: 30}

	cells := [4]grid.Coord{grid.C(7, -1), grid.C(7, 0), grid.C(15, 3), grid.C(14, 29)}
	assert.Equal(t, []grid.Coord{grid.C(7, 0), grid.C(14, 29)}, v.InWell(cells))

	s := newTestSession(t, session.DefaultConfig(), piece.I)
	v = s.View()
	assert.Len(t, v.InWell(v.Active), 4)
	assert.Len(t, v.InWell(v.Ghost), 4)
}

func TestLayout(t *testing.T) {
	l := session.Layout{CellSize: 20}
	l.Origin.X, l.Origin.Y = 50, 40

	p := l.ToScreen(grid.C(2, 3))
	assert.Equal(t, 90, p.X)
	assert.Equal(t, 100, p.Y)

	b := l.Bounds(15, 30)
	assert.Equal(t, 300, b.Dx())
	assert.Equal(t, 600, b.Dy())
}

func TestSeededSessionsMatch(t *testing.T) {
	a, err := session.New(session.DefaultConfig(), session.Options{Seed: 99})
	require.NoError(t, err)
	b, err := session.New(session.DefaultConfig(), session.Options{Seed: 99})
	require.NoError(t, err)

	for range 5 {
		pa, _ := a.Active()
		pb, _ := b.Active()
		require.Equal(t, pa.Kind(), pb.Kind())
		a.Apply(session.HardDrop)
		b.Apply(session.HardDrop)
	}
}

func mustActive(t *testing.T, s *session.Session) *piece.Piece {
	t.Helper()
	p, ok := s.Active()
	require.True(t, ok)
	return p
}
