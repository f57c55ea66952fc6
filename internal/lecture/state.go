package lecture

// State is the lifecycle state of a lecture session.
type State int

const (
	// Idle means no lecture has been started, or the last one was reset.
	Idle State = iota
	// Running means sections are being delivered.
	Running
	// Paused means section progression and audio are held.
	Paused
	// Stopped means the session ended, by Stop or by completing. The
	// transcript is still available.
	Stopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Active reports whether a session is in progress.
func (s State) Active() bool {
	return s == Running || s == Paused
}

// transitions lists the states each state may move to. Stop is allowed
// from everywhere and is handled separately.
var transitions = map[State][]State{
	Idle:    {Running},
	Running: {Paused, Stopped},
	Paused:  {Running, Stopped},
	Stopped: {Idle},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
