package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/grid"
	"github.com/plus3/blockfall/session"
)

const sidebarWidth = 180

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stderr)

	layout := cfg.Layout()
	bounds := layout.Bounds(cfg.Grid.Width, cfg.Grid.Height)

	rl.InitWindow(int32(bounds.Max.X+layout.Origin.X+sidebarWidth), int32(bounds.Max.Y+layout.Origin.Y), "blockfall")
	rl.SetTargetFPS(int32(cfg.Display.TargetFPS))
	defer rl.CloseWindow()

	s, scheduler, err := newRun(cfg, logger)
	if err != nil {
		logger.Error("failed to start session", "error", err)
		os.Exit(1)
	}

	for !rl.WindowShouldClose() {
		if s.State() == session.Over {
			if s.Reason() == session.ReasonQuit {
				break
			}
			if rl.IsKeyPressed(rl.KeyR) {
				if s, scheduler, err = newRun(cfg, logger); err != nil {
					logger.Error("failed to restart session", "error", err)
					os.Exit(1)
				}
			}
		}

		scheduler.Once(float64(rl.GetFrameTime()))
		render(s.View(), layout)
	}
}

func newRun(cfg *config.Config, logger *slog.Logger) (*session.Session, *session.Scheduler, error) {
	s, err := session.New(cfg.Session(), session.Options{
		Logger:  logger,
		Spawner: cfg.NewSpawner(),
	})
	if err != nil {
		return nil, nil, err
	}

	scheduler := session.NewScheduler(s)
	scheduler.Register(&KeyboardSystem{RepeatDelay: 0.2, RepeatRate: 0.05})
	scheduler.Register(&session.GravitySystem{Interval: cfg.Gravity.Interval})
	scheduler.Register(&session.SettleSystem{})
	return s, scheduler, nil
}

// KeyboardSystem reads raylib key state and queues commands. Held movement keys repeat after
// RepeatDelay seconds, every RepeatRate seconds.
type KeyboardSystem struct {
	RepeatDelay float32
	RepeatRate  float32

	moveLeftTime  float32
	moveRightTime float32
	downTime      float32
}

func (s *KeyboardSystem) Execute(frame *session.Frame) {
	dt := float32(frame.DeltaTime)

	if s.held(rl.KeyLeft, &s.moveLeftTime, dt) {
		frame.Commands.Push(session.MoveLeft)
	}
	if s.held(rl.KeyRight, &s.moveRightTime, dt) {
		frame.Commands.Push(session.MoveRight)
	}
	if s.held(rl.KeyDown, &s.downTime, dt) {
		frame.Commands.Push(session.MoveDown)
	}

	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeySpace) {
		frame.Commands.Push(session.Rotate)
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		frame.Commands.Push(session.HardDrop)
	}
	if rl.IsKeyPressed(rl.KeyQ) {
		frame.Commands.Push(session.Quit)
	}
}

func (s *KeyboardSystem) held(key int32, timer *float32, dt float32) bool {
	if rl.IsKeyPressed(key) {
		*timer = 0
		return true
	}
	if !rl.IsKeyDown(key) {
		*timer = 0
		return false
	}

	*timer += dt
	if *timer > s.RepeatDelay {
		*timer -= s.RepeatRate
		return true
	}
	return false
}

func render(v session.View, layout session.Layout) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	bounds := layout.Bounds(v.Width, v.Height)
	rl.DrawRectangleLines(int32(bounds.Min.X-2), int32(bounds.Min.Y-2), int32(bounds.Dx()+4), int32(bounds.Dy()+4), rl.Gray)

	for _, s := range v.Settled {
		drawCell(layout, s.Pos, toRaylib(s.Tag.RGBA()))
	}

	if v.HasActive {
		ghost := rl.NewColor(255, 255, 255, 80)
		for _, c := range v.InWell(v.Ghost) {
			p := layout.ToScreen(c)
			rl.DrawRectangle(int32(p.X), int32(p.Y), int32(layout.CellSize), int32(layout.CellSize), ghost)
		}
		for _, c := range v.InWell(v.Active) {
			drawCell(layout, c, toRaylib(v.ActiveColor.RGBA()))
		}
	}

	textX := int32(bounds.Max.X + 20)
	textY := int32(bounds.Min.Y)
	rl.DrawText("CELLS", textX, textY, 20, rl.White)
	rl.DrawText(fmt.Sprintf("%d", len(v.Settled)), textX, textY+25, 20, rl.White)

	if v.State == session.Over {
		rl.DrawText("GAME OVER", textX, textY+80, 24, rl.Red)
		rl.DrawText("Press R to restart", textX, textY+110, 16, rl.White)
	}

	rl.EndDrawing()
}

func drawCell(layout session.Layout, c grid.Coord, clr rl.Color) {
	p := layout.ToScreen(c)
	size := int32(layout.CellSize)
	rl.DrawRectangle(int32(p.X), int32(p.Y), size, size, clr)
	rl.DrawRectangleLines(int32(p.X), int32(p.Y), size, size, rl.Black)
}

func toRaylib(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
