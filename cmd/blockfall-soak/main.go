// Command blockfall-soak plays headless sessions with random input and reports frame
// timings and per-run outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/session"
)

// frameTime is the simulated frame delta handed to the scheduler.
const frameTime = 1.0 / 60.0

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	maxRuns := flag.Int("runs", 0, "Stop after this many sessions (0 = until duration elapses).")
	seed := flag.Uint64("seed", 1, "Seed of the first session; each later session adds one.")
	inputRate := flag.Float64("input-rate", 0.3, "Probability of a random command each frame.")
	csvPath := flag.String("csv", "", "Write one CSV row per session to this file.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("Starting soak test...")

	report := &Report{
		Duration:       *duration,
		Width:          cfg.Grid.Width,
		Height:         cfg.Grid.Height,
		Gravity:        cfg.Gravity.Interval,
		InputRate:      *inputRate,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	for run := 0; *maxRuns == 0 || run < *maxRuns; run++ {
		if ctx.Err() != nil {
			break
		}

		record, err := soak(ctx, cfg, run, *seed+uint64(run), *inputRate, &report.FrameTime)
		if err != nil {
			log.Fatalf("Run %d failed: %v", run, err)
		}
		report.Runs = append(report.Runs, record)
	}

	report.TotalTime = time.Since(startTime)
	report.FrameTime.Finalize()
	report.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Printf("Soak finished after %d sessions.\n", len(report.Runs))

	if *csvPath != "" {
		if err := writeRuns(*csvPath, report.Runs); err != nil {
			log.Fatalf("Failed to write CSV: %v", err)
		}
		log.Printf("Wrote %s\n", *csvPath)
	}

	fmt.Println("\n\n--- Soak Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// soak plays one session until it ends or ctx expires, appending every frame's duration to
// frames.
func soak(ctx context.Context, cfg *config.Config, run int, seed uint64, inputRate float64, frames *Stats) (RunRecord, error) {
	runCfg := *cfg
	runCfg.Seed = seed

	s, err := session.New(runCfg.Session(), session.Options{Spawner: runCfg.NewSpawner()})
	if err != nil {
		return RunRecord{}, err
	}

	scheduler := session.NewScheduler(s)
	scheduler.Register(&session.InputSystem{Source: randomInput(rand.New(rand.NewPCG(seed, seed+1)), inputRate)})
	scheduler.Register(&session.GravitySystem{Interval: runCfg.Gravity.Interval})
	scheduler.Register(&session.SettleSystem{})

	start := time.Now()
	for s.State() != session.Over && ctx.Err() == nil {
		frameStart := time.Now()
		scheduler.Once(frameTime)
		frames.Samples = append(frames.Samples, time.Since(frameStart))
	}

	stats := s.Stats()
	return RunRecord{
		Run:      run,
		Seed:     seed,
		Frames:   scheduler.Stats().Frames,
		Spawned:  stats.Spawned,
		Settled:  stats.Settled,
		Applied:  stats.Applied,
		Rejected: stats.Rejected,
		Reason:   s.Reason().String(),
		Elapsed:  time.Since(start),
	}, nil
}

var playCommands = []session.Command{
	session.MoveLeft,
	session.MoveRight,
	session.MoveDown,
	session.Rotate,
	session.HardDrop,
}

// randomInput issues one random movement command with probability rate per poll. It never
// quits, so every run ends by topping out or by the deadline.
func randomInput(rng *rand.Rand, rate float64) session.InputSource {
	return session.SourceFunc(func() []session.Command {
		if rng.Float64() >= rate {
			return nil
		}
		return []session.Command{playCommands[rng.IntN(len(playCommands))]}
	})
}
