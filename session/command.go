package session

// Command is a decoded player input. Raw device events never reach the session.
type Command uint8

const (
	MoveLeft Command = iota
	MoveRight
	MoveDown
	Rotate
	HardDrop
	Quit
)

var commandNames = [...]string{"move-left", "move-right", "move-down", "rotate", "hard-drop", "quit"}

func (c Command) String() string {
	if int(c) >= len(commandNames) {
		return "command(?)"
	}
	return commandNames[c]
}

// Commands buffers input commands and deferred work for the current frame. Everything queued
// is applied to the session in order when the frame is flushed, so systems never mutate the
// piece while other systems are still looking at it.
type Commands struct {
	queue  []Command
	defers []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Push queues a command.
func (c *Commands) Push(cmd Command) {
	c.queue = append(c.queue, cmd)
}

// Defer queues a function to run after all queued commands have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Flush applies every queued command to s, then runs the deferred functions, and resets the
// buffer. Commands queued after the session ends are dropped by Apply.
func (c *Commands) Flush(s *Session) {
	for _, cmd := range c.queue {
		s.Apply(cmd)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.queue = c.queue[:0]
	c.defers = c.defers[:0]
}
