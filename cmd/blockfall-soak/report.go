package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/plus3/blockfall/session"
	"gonum.org/v1/gonum/stat"
)

type Report struct {
	// Configuration
	Duration       time.Duration
	Width          int
	Height         int
	Gravity        time.Duration
	InputRate      float64
	GCPauseMetrics bool

	// Results
	Runs          []RunRecord
	TotalTime     time.Duration
	TotalFrames   int64
	TotalSettled  int
	TopOuts       int
	FrameTime     Stats
	SettledPerRun Summary
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// RunRecord is one session's outcome, written as a CSV row.
type RunRecord struct {
	Run      int           `csv:"run"`
	Seed     uint64        `csv:"seed"`
	Frames   int64         `csv:"frames"`
	Spawned  int           `csv:"spawned"`
	Settled  int           `csv:"settled"`
	Applied  int           `csv:"applied"`
	Rejected int           `csv:"rejected"`
	Reason   string        `csv:"reason"`
	Elapsed  time.Duration `csv:"-"`
}

// Stats summarizes duration samples.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Mean    time.Duration
	StdDev  time.Duration
	P50     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	xs := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		xs[i] = float64(sample)
	}
	slices.Sort(xs)

	s.Min = time.Duration(xs[0])
	s.Max = time.Duration(xs[len(xs)-1])
	s.Mean = time.Duration(stat.Mean(xs, nil))
	if len(xs) > 1 {
		s.StdDev = time.Duration(stat.StdDev(xs, nil))
	}
	s.P50 = time.Duration(stat.Quantile(0.5, stat.Empirical, xs, nil))
	s.P99 = time.Duration(stat.Quantile(0.99, stat.Empirical, xs, nil))
}

// Summary describes a plain numeric series.
type Summary struct {
	Mean   float64
	StdDev float64
	Median float64
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	xs := slices.Clone(values)
	slices.Sort(xs)

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return Summary{
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
	}
}

// Finalize derives the cross-run totals.
func (r *Report) Finalize() {
	settled := make([]float64, 0, len(r.Runs))
	for _, run := range r.Runs {
		r.TotalFrames += run.Frames
		r.TotalSettled += run.Settled
		if run.Reason == session.ReasonTopOut.String() {
			r.TopOuts++
		}
		settled = append(settled, float64(run.Settled))
	}
	r.SettledPerRun = summarize(settled)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Grid:** {{.Width}}x{{.Height}}
- **Gravity Interval:** {{.Gravity}}
- **Input Rate:** {{printf "%.2f" .InputRate}}

## Sessions
- **Sessions:** {{len .Runs}}
- **Top Outs:** {{.TopOuts}}
- **Total Settled Pieces:** {{.TotalSettled}}
- **Settled per Session:** mean {{printf "%.1f" .SettledPerRun.Mean}}, stddev {{printf "%.1f" .SettledPerRun.StdDev}}, median {{printf "%.1f" .SettledPerRun.Median}}

## Performance Results
- **Total Frames:** {{.TotalFrames}}
- **Total Test Time:** {{.TotalTime}}
- **Frame Time:**
  - **Mean:** {{.FrameTime.Mean}}
  - **StdDev:** {{.FrameTime.StdDev}}
  - **P50:** {{.FrameTime.P50}}
  - **P99:** {{.FrameTime.P99}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end)
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} MB (start) -> {{mb .MemStatsEnd.TotalAlloc}} MB (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

func writeRuns(path string, runs []RunRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(runs, f); err != nil {
		return fmt.Errorf("writing runs: %w", err)
	}
	return nil
}
