package session

import (
	"context"
	"reflect"
	"time"
)

// System is a piece of per-frame behavior. Systems read the session and queue commands on the
// frame; they do not move the piece directly.
type System interface {
	Execute(frame *Frame)
}

// Frame is passed to every system during one scheduler step.
type Frame struct {
	DeltaTime float64
	Commands  *Commands
	Session   *Session
}

// SchedulerStats is a snapshot of scheduler timings.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Systems         []SystemStats
}

// SystemStats holds the timings of one registered system. MinDuration is zero until the
// system has run.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// timedSystem pairs a system with its running timings.
type timedSystem struct {
	System
	stats SystemStats
}

func (t *timedSystem) run(frame *Frame) {
	start := time.Now()
	t.Execute(frame)
	elapsed := time.Since(start)

	st := &t.stats
	if st.ExecutionCount == 0 || elapsed < st.MinDuration {
		st.MinDuration = elapsed
	}
	st.MaxDuration = max(st.MaxDuration, elapsed)
	st.ExecutionCount++
	st.LastDuration = elapsed
	st.TotalDuration += elapsed
	st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
}

// Scheduler runs systems in registration order, then flushes the frame's commands into the
// session.
type Scheduler struct {
	session *Session
	systems []*timedSystem
	frames  int64
}

// NewScheduler creates a scheduler that flushes its frames into s.
func NewScheduler(s *Session) *Scheduler {
	return &Scheduler{session: s}
}

// Register appends a system to the run order. Its stats are reported under the system's type
// name.
func (s *Scheduler) Register(system System) {
	t := reflect.TypeOf(system)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	s.systems = append(s.systems, &timedSystem{
		System: system,
		stats:  SystemStats{Name: t.Name()},
	})
}

// Once executes all registered systems once with the given delta time (in seconds). Nothing
// runs once the session is over.
func (s *Scheduler) Once(dt float64) {
	if s.session.State() == Over {
		return
	}
	s.frames++

	frame := &Frame{DeltaTime: dt, Commands: newCommands(), Session: s.session}
	for _, sys := range s.systems {
		sys.run(frame)
	}
	frame.Commands.Flush(s.session)
}

// Run steps the scheduler on a ticker until ctx is done or the session is over.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for s.session.State() != Over {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Stats returns a snapshot of the frame count and every system's timings, in registration
// order.
func (s *Scheduler) Stats() *SchedulerStats {
	out := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, 0, len(s.systems)),
	}
	for _, sys := range s.systems {
		out.Systems = append(out.Systems, sys.stats)
		out.TotalExecutions += sys.stats.ExecutionCount
	}
	return out
}
