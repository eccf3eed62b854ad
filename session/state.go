package session

// State is the phase of the session state machine.
//
//	Spawning -> Falling -> Settling -> Spawning -> ...
//
// Over is terminal and can be entered from any state.
type State uint8

const (
	Spawning State = iota
	Falling
	Settling
	Over
)

func (s State) String() string {
	switch s {
	case Spawning:
		return "spawning"
	case Falling:
		return "falling"
	case Settling:
		return "settling"
	case Over:
		return "over"
	}
	return "unknown"
}

// Reason records why a session ended.
type Reason uint8

const (
	ReasonNone Reason = iota
	// ReasonQuit means the input collaborator asked to stop.
	ReasonQuit
	// ReasonTopOut means a new piece could not be placed at the spawn pivot.
	ReasonTopOut
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonQuit:
		return "quit"
	case ReasonTopOut:
		return "top-out"
	}
	return "unknown"
}
