// Package session drives a single game: it owns the grid, the active piece and the state
// machine that moves pieces from falling to settled.
//
// A Session is single-threaded. Commands are applied one at a time and are either fully
// committed or fully rejected before the next one is looked at.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/plus3/blockfall/grid"
	"github.com/plus3/blockfall/piece"
)

// ErrInvalidConfig is returned by New for a configuration no piece could be played on.
var ErrInvalidConfig = errors.New("invalid session config")

// Config holds the fixed geometry of a session.
type Config struct {
	Width  int
	Height int
	// Spawn is the pivot every new piece starts at.
	Spawn grid.Coord
}

// DefaultConfig returns a 15x30 grid with pieces spawning at (7,2).
func DefaultConfig() Config {
	return Config{
		Width:  15,
		Height: 30,
		Spawn:  grid.C(7, 2),
	}
}

// Validate checks that the grid is non-empty and that every kind, in every rotation, lies
// fully inside an empty grid at the spawn pivot.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}

	empty := grid.New[piece.Color](c.Width, c.Height)
	for _, kind := range piece.Kinds {
		p := piece.New(kind, c.Spawn)
		if !p.InBounds(c.Width, c.Height) {
			return fmt.Errorf("%w: %s piece leaves the grid at spawn %s", ErrInvalidConfig, kind, c.Spawn)
		}
		for turn := 1; turn < 4; turn++ {
			if !p.Rotate(empty) || !p.InBounds(c.Width, c.Height) {
				return fmt.Errorf("%w: %s piece cannot turn at spawn %s (turn %d)", ErrInvalidConfig, kind, c.Spawn, turn)
			}
		}
	}
	return nil
}

// Options are the optional collaborators of a session.
type Options struct {
	// Logger receives spawn, settle and end-of-game events. Nil discards them.
	Logger *slog.Logger
	// Spawner picks the next piece kind. Nil selects a RandomSpawner seeded from Seed.
	Spawner Spawner
	// Seed seeds the default spawner. Zero picks a random seed.
	Seed uint64
}

// Stats counts what happened during a session.
type Stats struct {
	Spawned  int
	Settled  int
	Applied  int
	Rejected int
}

// Session is one game from the first spawn until Over.
type Session struct {
	cfg     Config
	grid    *grid.Grid[piece.Color]
	active  *piece.Piece
	state   State
	reason  Reason
	spawner Spawner
	logger  *slog.Logger
	stats   Stats
}

// New creates a session and spawns the first piece.
func New(cfg Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	spawner := opts.Spawner
	if spawner == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		spawner = NewRandomSpawner(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	}

	s := &Session{
		cfg:     cfg,
		grid:    grid.New[piece.Color](cfg.Width, cfg.Height),
		state:   Spawning,
		spawner: spawner,
		logger:  logger,
	}
	s.spawn()
	return s, nil
}

// Config returns the configuration the session was created with.
func (s *Session) Config() Config { return s.cfg }

// State returns the current phase of the session.
func (s *Session) State() State { return s.state }

// Reason reports why the session ended. It is ReasonNone until the session is Over.
func (s *Session) Reason() Reason { return s.reason }

// Stats returns the session counters.
func (s *Session) Stats() Stats { return s.stats }

// Grid returns the occupancy table. Callers must treat it as read-only.
func (s *Session) Grid() *grid.Grid[piece.Color] {
	return s.grid
}

// Active returns the falling piece. It is absent before the first spawn and after the
// session is over.
func (s *Session) Active() (*piece.Piece, bool) {
	return s.active, s.active != nil
}

// Apply runs one command against the active piece and reports whether it changed anything.
// Rejected moves leave the piece where it was. After every command the settle check runs, and
// a piece that can no longer fall is settled and replaced.
func (s *Session) Apply(cmd Command) bool {
	if s.state == Over {
		return false
	}

	if cmd == Quit {
		s.end(ReasonQuit)
		return true
	}

	p := s.active
	if p == nil {
		return false
	}

	var ok bool
	switch cmd {
	case MoveLeft:
		ok = p.MoveLeft(s.grid)
	case MoveRight:
		ok = p.MoveRight(s.grid)
	case MoveDown:
		ok = p.MoveDown(s.grid)
	case Rotate:
		ok = p.Rotate(s.grid)
	case HardDrop:
		ok = p.Drop(s.grid) > 0
	default:
		s.logger.Warn("unknown command", "command", int(cmd))
		return false
	}

	pivot := p.Pivot()
	// a hard drop on a resting piece still locks it in place
	if s.CheckSettled() && cmd == HardDrop {
		ok = true
	}

	if ok {
		s.stats.Applied++
	} else {
		s.stats.Rejected++
		s.logger.Debug("command rejected", "command", cmd, "pivot", pivot)
	}
	return ok
}

// CheckSettled settles the active piece if it cannot move down any further and spawns the
// next one. It returns true if a piece was settled.
func (s *Session) CheckSettled() bool {
	if s.state != Falling || s.active == nil {
		return false
	}
	if !s.active.Settled(s.grid) {
		return false
	}

	s.settle()
	s.spawn()
	return true
}

func (s *Session) settle() {
	s.state = Settling

	p := s.active
	s.active = nil

	for _, c := range p.Take() {
		s.grid.Occupy(c.Pos, c.Tag)
	}
	s.stats.Settled++

	s.logger.Debug("piece settled",
		"kind", p.Kind(),
		"pivot", p.Pivot(),
		"occupied", s.grid.Len(),
	)
}

func (s *Session) spawn() {
	s.state = Spawning

	kind := s.spawner.Next()
	p := piece.New(kind, s.cfg.Spawn)
	if !p.Fits(s.grid) {
		s.logger.Debug("spawn blocked", "kind", kind, "pivot", s.cfg.Spawn)
		s.end(ReasonTopOut)
		return
	}

	s.active = p
	s.stats.Spawned++
	s.state = Falling

	s.logger.Debug("piece spawned", "kind", kind, "pivot", s.cfg.Spawn)
}

func (s *Session) end(reason Reason) {
	if s.state == Over {
		return
	}

	s.active = nil
	s.state = Over
	s.reason = reason

	s.logger.Info("session over",
		"reason", reason,
		"spawned", s.stats.Spawned,
		"settled", s.stats.Settled,
	)
}
