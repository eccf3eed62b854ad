package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/debugui"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/session"
)

const sidebarWidth = 200

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	debug := flag.Bool("debug", false, "Show the debug overlay (overrides display.debug_overlay)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Display.DebugOverlay = true
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	game := &Game{
		cfg:    cfg,
		logger: logger,
		keys:   newKeyboard(),
	}
	if err := game.restart(); err != nil {
		logger.Error("failed to start session", "error", err)
		os.Exit(1)
	}

	layout := cfg.Layout()
	bounds := layout.Bounds(cfg.Grid.Width, cfg.Grid.Height)
	game.screenW = bounds.Max.X + layout.Origin.X + sidebarWidth
	game.screenH = bounds.Max.Y + layout.Origin.Y

	if cfg.Display.DebugOverlay {
		game.imgui = debugui_ebiten.NewImguiBackend("blockfall", game.screenW+400, game.screenH)
		game.overlay = debugui.NewOverlay(120)
		game.keys.captured = debugui.WantsKeyboard
	} else {
		ebiten.SetWindowSize(game.screenW, game.screenH)
		ebiten.SetWindowTitle("blockfall")
	}
	ebiten.SetTPS(cfg.Display.TargetFPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game loop failed", "error", err)
		os.Exit(1)
	}
}

// Game implements ebiten.Game around one session at a time.
type Game struct {
	cfg    *config.Config
	logger *slog.Logger

	session   *session.Session
	scheduler *session.Scheduler
	keys      *keyboard

	imgui   *debugui_ebiten.ImguiBackend
	overlay *debugui.Overlay

	screenW, screenH int
}

func (g *Game) restart() error {
	s, err := session.New(g.cfg.Session(), session.Options{
		Logger:  g.logger,
		Spawner: g.cfg.NewSpawner(),
	})
	if err != nil {
		return err
	}

	scheduler := session.NewScheduler(s)
	scheduler.Register(&session.InputSystem{Source: g.keys})
	scheduler.Register(&session.GravitySystem{Interval: g.cfg.Gravity.Interval})
	scheduler.Register(&session.SettleSystem{})

	g.session = s
	g.scheduler = scheduler
	g.logger.Info("session started", "width", g.cfg.Grid.Width, "height", g.cfg.Grid.Height)
	return nil
}

func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if g.imgui != nil {
		g.imgui.BeginFrame()
		defer g.imgui.EndFrame()
		g.overlay.Render(g.session, g.scheduler, float32(dt))
	}

	if g.session.State() == session.Over {
		switch {
		case g.session.Reason() == session.ReasonQuit, g.keys.quitPressed():
			return ebiten.Termination
		case g.keys.restartPressed():
			return g.restart()
		}
		return nil
	}

	if g.overlay != nil && g.overlay.Paused {
		return nil
	}

	g.scheduler.Once(dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawView(screen, g.session.View(), g.cfg.Layout())

	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
		return outsideWidth, outsideHeight
	}
	return g.screenW, g.screenH
}
