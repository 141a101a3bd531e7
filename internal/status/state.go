package status

import "fmt"

// State tracks one request through its lifecycle.
type State int

const (
	Requested State = iota
	AwaitingSignal
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case Requested:
		return "requested"
	case AwaitingSignal:
		return "awaiting signal"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Resolve returns the state reached from Requested once the reply has been
// classified. Completed and AlreadyDone collapse into StateCompleted.
func Resolve(o Outcome) State {
	switch o {
	case Completed, AlreadyDone:
		return StateCompleted
	case InProgress:
		return AwaitingSignal
	default:
		return StateFailed
	}
}

// Settle returns the state reached from AwaitingSignal once the signal has
// been classified. A signal cannot defer the result again.
func Settle(o Outcome) State {
	if o == Completed || o == AlreadyDone {
		return StateCompleted
	}
	return StateFailed
}
