package zone

import "time"

// State records which zone's effects are applied to a player.
// The zone is held by name and resolved through the Manager on every use,
// so edits are never shadowed by a stale copy.
type State struct {
	ZoneName  string
	EnteredAt time.Time
}

// TransitionKind classifies the outcome of one position update.
type TransitionKind uint8

const (
	TransitionNone   TransitionKind = iota // outside, still outside
	TransitionEnter                        // outside -> inside
	TransitionExit                         // inside -> outside
	TransitionSwitch                       // inside A -> inside B
	TransitionStay                         // inside A, still inside A
)

// String returns the transition name used in logs.
func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "none"
	case TransitionEnter:
		return "enter"
	case TransitionExit:
		return "exit"
	case TransitionSwitch:
		return "switch"
	case TransitionStay:
		return "stay"
	default:
		return "unknown"
	}
}

// Transition is the result of one position update.
// From and To are zone names ("" when outside).
type Transition struct {
	Kind TransitionKind
	From string
	To   string
}
