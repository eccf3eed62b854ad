// Package debugui draws engine internals with Dear ImGui: session state and counters,
// per-system timings from the scheduler, and row fill of the grid.
package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/session"
)

// Overlay is the debug window. Paused is toggled from the window and read by the game loop.
type Overlay struct {
	Paused bool

	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

// NewOverlay creates an overlay that plots the last historyFrames frame times.
func NewOverlay(historyFrames int) *Overlay {
	if historyFrames <= 0 {
		historyFrames = 1
	}
	return &Overlay{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// WantsKeyboard reports whether ImGui is consuming keyboard input this frame.
func WantsKeyboard() bool {
	return imgui.CurrentIO().WantCaptureKeyboard()
}

// Render draws the window. It must be called between the backend's BeginFrame and EndFrame.
func (o *Overlay) Render(s *session.Session, scheduler *session.Scheduler, deltaTime float32) {
	if !imgui.BeginV("Engine", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	o.frameHistory[o.frameIndex] = deltaTime * 1000.0
	o.frameIndex = (o.frameIndex + 1) % o.historyFrames

	imgui.Checkbox("Paused", &o.Paused)

	stats := s.Stats()
	imgui.Text(fmt.Sprintf("State: %s", s.State()))
	if s.State() == session.Over {
		imgui.SameLine()
		imgui.Text(fmt.Sprintf("(%s)", s.Reason()))
	}
	if p, ok := s.Active(); ok {
		imgui.Text(fmt.Sprintf("Active: %s at %s", p.Kind(), p.Pivot()))
		if imgui.TreeNodeStr("Cells") {
			for i, c := range p.Cells() {
				imgui.BulletText(fmt.Sprintf("%d: offset %s -> %s", i, c.Offset(), c.Position()))
			}
			imgui.TreePop()
		}
	}
	imgui.Text(fmt.Sprintf("Spawned: %d  Settled: %d", stats.Spawned, stats.Settled))
	imgui.Text(fmt.Sprintf("Applied: %d  Rejected: %d", stats.Applied, stats.Rejected))
	imgui.Text(fmt.Sprintf("Occupied cells: %d", s.Grid().Len()))

	var avgFrameTime float32
	for _, ft := range o.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(o.historyFrames)

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms", avgFrameTime))
	imgui.PlotLinesFloatPtr("##frametime", &o.frameHistory[0], int32(len(o.frameHistory)))

	if scheduler != nil && imgui.TreeNodeStr("Systems") {
		renderSystems(scheduler.Stats())
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Rows") {
		g := s.Grid()
		for y := range g.Height() {
			if n := g.Row(y); n > 0 {
				imgui.BulletText(fmt.Sprintf("row %2d: %d/%d", y, n, g.Width()))
			}
		}
		imgui.TreePop()
	}

	imgui.End()
}

func renderSystems(stats *session.SchedulerStats) {
	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Runs")
		imgui.TableSetupColumn("Avg")
		imgui.TableSetupColumn("Max")
		imgui.TableHeadersRow()

		for _, sys := range stats.Systems {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(sys.Name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
			imgui.TableNextColumn()
			imgui.Text(sys.AvgDuration.Round(time.Microsecond).String())
			imgui.TableNextColumn()
			imgui.Text(sys.MaxDuration.Round(time.Microsecond).String())
		}

		imgui.EndTable()
	}
}
