package sim

import "errors"

// State is the lifecycle state of a Simulator.
type State int32

const (
	Uninitialized State = iota
	Ready
	Stepping
	Reinitializing
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Stepping:
		return "stepping"
	case Reinitializing:
		return "reinitializing"
	default:
		return "uninitialized"
	}
}

var (
	// ErrNotInitialized is returned by operations that need Init first.
	ErrNotInitialized = errors.New("sim: not initialized")
	// ErrInit wraps failures while allocating fields or sources.
	ErrInit = errors.New("sim: initialization failed")
	// ErrStep wraps failures inside a step. The last good output is returned
	// alongside it.
	ErrStep = errors.New("sim: step failed")
)
