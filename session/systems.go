package session

import "time"

// InputSource is the input collaborator: it hands over the commands decoded since the last
// poll.
type InputSource interface {
	Poll() []Command
}

// SourceFunc adapts a function to an InputSource.
type SourceFunc func() []Command

// Poll calls f.
func (f SourceFunc) Poll() []Command { return f() }

// Queue is an InputSource fed by Push. It is not safe for concurrent use.
type Queue struct {
	pending []Command
}

// Push queues cmds for the next Poll.
func (q *Queue) Push(cmds ...Command) {
	q.pending = append(q.pending, cmds...)
}

// Poll returns and clears the queued commands.
func (q *Queue) Poll() []Command {
	out := q.pending
	q.pending = nil
	return out
}

// InputSystem moves commands from the input collaborator onto the frame.
type InputSystem struct {
	Source InputSource
}

// Execute polls the source and queues every command on the frame.
func (s *InputSystem) Execute(frame *Frame) {
	if s.Source == nil {
		return
	}
	for _, cmd := range s.Source.Poll() {
		frame.Commands.Push(cmd)
	}
}

// GravitySystem queues a MoveDown every Interval of accumulated frame time. Gravity goes
// through the same command path as player input.
type GravitySystem struct {
	Interval time.Duration

	accumulator float64
}

// Execute advances the accumulator by the frame delta.
func (s *GravitySystem) Execute(frame *Frame) {
	if s.Interval <= 0 {
		return
	}

	s.accumulator += frame.DeltaTime
	step := s.Interval.Seconds()
	for s.accumulator >= step {
		s.accumulator -= step
		frame.Commands.Push(MoveDown)
	}
}

// SettleSystem runs the settle check once per frame, after the frame's commands have been
// applied.
type SettleSystem struct {
	Settled int
}

// Execute defers the settle check to the end of the frame.
func (s *SettleSystem) Execute(frame *Frame) {
	session := frame.Session
	frame.Commands.Defer(func() {
		if session.CheckSettled() {
			s.Settled++
		}
	})
}
