package action

import "time"

// Sender delivers a sanitized action dispatch upstream.
type Sender func(action string, params map[string]any) error

// Dispatcher is the outbound pipeline: sanitize, dedup, send.
type Dispatcher struct {
	guard *Guard
	send  Sender
}

func NewDispatcher(send Sender) *Dispatcher {
	return NewDispatcherWindow(send, Window)
}

func NewDispatcherWindow(send Sender, window time.Duration) *Dispatcher {
	return &Dispatcher{guard: NewGuard(window), send: send}
}

// Guard exposes the underlying guard. Test hook for clock substitution.
func (d *Dispatcher) Guard() *Guard {
	return d.guard
}

func (d *Dispatcher) Dispatch(action string, params map[string]any) error {
	clean := Sanitize(params)
	if !d.guard.Allow(action, clean) {
		return nil
	}
	return d.send(action, clean)
}
