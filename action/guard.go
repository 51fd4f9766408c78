// Package action gates outbound user actions. Rapid repeated physical
// input — triple-click, double-submit — can fire a correctly-attached
// listener several times; the guard drops dispatches that duplicate a
// very recent identical one, because retrying would be a user-visible
// duplicate side effect.
package action

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/djust-dev/liveclient/debug"
)

// Window is the trailing suppression window.
const Window = 300 * time.Millisecond

// Guard suppresses an action when one with the same name and the same
// externally-visible parameters was dispatched within the window. Keys are
// derived from the sanitized parameter set, serialized order-independently:
// two parameter sets are equal iff their non-element key/value pairs
// serialize identically.
type Guard struct {
	window time.Duration
	now    func() time.Time
	last   map[string]time.Time
}

func NewGuard(window time.Duration) *Guard {
	if window <= 0 {
		window = Window
	}
	return &Guard{
		window: window,
		now:    time.Now,
		last:   map[string]time.Time{},
	}
}

// WithClock substitutes the time source. Test hook.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Allow records the dispatch and returns true, or returns false when an
// identical dispatch is still inside the window. A suppressed action is
// dropped entirely, never queued or delayed: the in-flight identical action
// is presumed to produce the correct outcome.
func (g *Guard) Allow(name string, sanitized map[string]any) bool {
	k := dedupKey(name, sanitized)
	now := g.now()
	for key, at := range g.last {
		if now.Sub(at) >= g.window {
			delete(g.last, key)
		}
	}
	if at, ok := g.last[k]; ok && now.Sub(at) < g.window {
		if debug.Action() {
			debug.Logf("suppressed duplicate action %q\n", name)
		}
		return false
	}
	g.last[k] = now
	return true
}

// dedupKey serializes name and parameters canonically. encoding/json emits
// map keys in sorted order, so property insertion order cannot influence
// equality.
func dedupKey(name string, params map[string]any) string {
	d, err := json.Marshal(params)
	if err != nil {
		d = []byte(fmt.Sprintf("%v", params))
	}
	return name + "|" + string(d)
}
