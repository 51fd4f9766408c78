package view

import "fmt"

// State is a reconciliation root's position in the recovery protocol:
// Synced → Applying → (success: Synced) | (failure: Recovering) → Synced.
type State int

const (
	Synced State = iota
	Applying
	Recovering
)

func (s State) String() string {
	switch s {
	case Synced:
		return "Synced"
	case Applying:
		return "Applying"
	case Recovering:
		return "Recovering"
	}
	return fmt.Sprintf("<unknown state %d>", int(s))
}
