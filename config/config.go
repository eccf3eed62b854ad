// Package config loads engine and display settings from YAML.
//
// Embedded defaults are always loaded first; a user file only overrides the keys it sets.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/plus3/blockfall/grid"
	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/session"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Grid     GridConfig    `yaml:"grid"`
	Spawn    SpawnConfig   `yaml:"spawn"`
	Gravity  GravityConfig `yaml:"gravity"`
	Spawner  string        `yaml:"spawner"`            // random, bag or fixed
	Sequence []string      `yaml:"sequence,omitempty"` // kind names dealt in order by the fixed spawner
	Seed     uint64        `yaml:"seed"`               // 0 = random per run
	Display  DisplayConfig `yaml:"display"`
	Log      LogConfig     `yaml:"log"`
}

// GridConfig holds the grid dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SpawnConfig is the pivot new pieces start at.
type SpawnConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// GravityConfig controls automatic falling. A zero interval disables gravity.
type GravityConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// DisplayConfig is only read by the render collaborators.
type DisplayConfig struct {
	CellSize     int  `yaml:"cell_size"`
	OriginX      int  `yaml:"origin_x"`
	OriginY      int  `yaml:"origin_y"`
	TargetFPS    int  `yaml:"target_fps"`
	DebugOverlay bool `yaml:"debug_overlay"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging it over the embedded defaults.
// If path is empty, only the defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse merges data over the embedded defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if len(data) > 0 {
		// Unmarshal into the same struct so only keys present in data are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := c.Session().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Gravity.Interval < 0 {
		return fmt.Errorf("%w: gravity.interval must not be negative", ErrInvalid)
	}
	switch c.Spawner {
	case "random", "bag":
	case "fixed":
		if _, err := c.sequence(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown spawner %q", ErrInvalid, c.Spawner)
	}
	if c.Display.CellSize <= 0 {
		return fmt.Errorf("%w: display.cell_size must be positive", ErrInvalid)
	}
	if c.Display.TargetFPS <= 0 {
		return fmt.Errorf("%w: display.target_fps must be positive", ErrInvalid)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// Session returns the engine geometry.
func (c *Config) Session() session.Config {
	return session.Config{
		Width:  c.Grid.Width,
		Height: c.Grid.Height,
		Spawn:  grid.C(c.Spawn.X, c.Spawn.Y),
	}
}

// Layout returns the grid-to-pixel mapping.
func (c *Config) Layout() session.Layout {
	return session.Layout{
		Origin:   image.Pt(c.Display.OriginX, c.Display.OriginY),
		CellSize: c.Display.CellSize,
	}
}

// NewSpawner builds the configured spawner. A zero seed draws a fresh one.
func (c *Config) NewSpawner() session.Spawner {
	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	switch c.Spawner {
	case "bag":
		return session.NewBagSpawner(rng)
	case "fixed":
		if kinds, err := c.sequence(); err == nil {
			return session.NewFixedSpawner(kinds...)
		}
	}
	return session.NewRandomSpawner(rng)
}

// sequence resolves the fixed spawner's kind names.
func (c *Config) sequence() ([]piece.Kind, error) {
	if len(c.Sequence) == 0 {
		return nil, fmt.Errorf("%w: fixed spawner needs a sequence", ErrInvalid)
	}

	kinds := make([]piece.Kind, 0, len(c.Sequence))
	for _, name := range c.Sequence {
		kind, ok := piece.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown piece kind %q in sequence", ErrInvalid, name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Logger builds a slog.Logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
	}
	return level, nil
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
