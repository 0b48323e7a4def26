package lifecycle

// State represents the lifecycle state of a component.
//
// There is no Resumed state: a successful Resume lands back on StateStarted.
type State int

const (
	StateNew State = iota
	StateInitializing
	StateInitialized
	StateStarting
	StateStarted
	StateSuspending
	StateSuspended
	StateResuming
	StateDestroying
	StateDestroyed
	StateSick
)

var stateNames = [...]string{
	StateNew:          "New",
	StateInitializing: "Initializing",
	StateInitialized:  "Initialized",
	StateStarting:     "Starting",
	StateStarted:      "Started",
	StateSuspending:   "Suspending",
	StateSuspended:    "Suspended",
	StateResuming:     "Resuming",
	StateDestroying:   "Destroying",
	StateDestroyed:    "Destroyed",
	StateSick:         "Sick",
}

// String returns a human-readable representation of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Transitional reports whether s is one of the in-progress states that only
// exist while a hook is running.
func (s State) Transitional() bool {
	switch s {
	case StateInitializing, StateStarting, StateSuspending, StateResuming, StateDestroying:
		return true
	default:
		return false
	}
}

// States returns every state in declaration order.
func States() []State {
	states := make([]State, len(stateNames))
	for i := range stateNames {
		states[i] = State(i)
	}
	return states
}

// ParseState is the inverse of State.String.
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return StateNew, false
}
