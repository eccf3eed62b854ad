package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/grid"
	"github.com/plus3/blockfall/session"
)

var (
	backgroundColor = color.RGBA{20, 20, 28, 255}
	wellColor       = color.RGBA{32, 32, 44, 255}
	borderColor     = color.RGBA{128, 128, 140, 255}
	ghostColor      = color.RGBA{255, 255, 255, 48}
	outlineColor    = color.RGBA{0, 0, 0, 255}
)

func drawView(screen *ebiten.Image, v session.View, layout session.Layout) {
	screen.Fill(backgroundColor)

	bounds := layout.Bounds(v.Width, v.Height)
	x, y := float32(bounds.Min.X), float32(bounds.Min.Y)
	w, h := float32(bounds.Dx()), float32(bounds.Dy())
	vector.DrawFilledRect(screen, x, y, w, h, wellColor, false)
	vector.StrokeRect(screen, x-2, y-2, w+4, h+4, 2, borderColor, false)

	for _, s := range v.Settled {
		drawCell(screen, layout, s.Pos, s.Tag.RGBA())
	}

	if v.HasActive {
		for _, c := range v.InWell(v.Ghost) {
			fillCell(screen, layout, c, ghostColor)
		}
		for _, c := range v.InWell(v.Active) {
			drawCell(screen, layout, c, v.ActiveColor.RGBA())
		}
	}

	textX := bounds.Max.X + 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("STATE  %s", v.State), textX, bounds.Min.Y)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("CELLS  %d", len(v.Settled)), textX, bounds.Min.Y+20)

	if v.State == session.Over {
		ebitenutil.DebugPrintAt(screen, "GAME OVER", textX, bounds.Min.Y+60)
		ebitenutil.DebugPrintAt(screen, "R restart / Q quit", textX, bounds.Min.Y+80)
	}
}

func fillCell(screen *ebiten.Image, layout session.Layout, c grid.Coord, clr color.Color) {
	p := layout.ToScreen(c)
	size := float32(layout.CellSize)
	vector.DrawFilledRect(screen, float32(p.X), float32(p.Y), size, size, clr, false)
}

func drawCell(screen *ebiten.Image, layout session.Layout, c grid.Coord, clr color.Color) {
	fillCell(screen, layout, c, clr)

	p := layout.ToScreen(c)
	size := float32(layout.CellSize)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), size, size, 1, outlineColor, false)
}
