package action

import (
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/google/go-cmp/cmp"
)

func testClock(start time.Time) (func() time.Time, func(time.Duration)) {
	t := start
	return func() time.Time { return t }, func(d time.Duration) { t = t.Add(d) }
}

func TestGuardSuppressionWindow(t *testing.T) {
	now, advance := testClock(time.Unix(1000, 0))
	g := NewGuard(Window).WithClock(now)

	params := map[string]any{"value": "x"}
	if !g.Allow("save", params) {
		t.Fatal("first dispatch must pass")
	}
	if g.Allow("save", params) {
		t.Error("identical dispatch at +0ms must be suppressed")
	}
	advance(299 * time.Millisecond)
	if g.Allow("save", params) {
		t.Error("identical dispatch at +299ms must be suppressed")
	}
	advance(1 * time.Millisecond)
	if !g.Allow("save", params) {
		t.Error("dispatch at the window boundary must pass")
	}
}

func TestGuardDistinguishes(t *testing.T) {
	now, _ := testClock(time.Unix(1000, 0))
	g := NewGuard(Window).WithClock(now)

	tests := []struct {
		name   string
		action string
		params map[string]any
	}{
		{"first", "save", map[string]any{"id": 1}},
		{"different params", "save", map[string]any{"id": 2}},
		{"different action", "discard", map[string]any{"id": 1}},
		{"extra key", "save", map[string]any{"id": 1, "force": true}},
	}
	for _, tc := range tests {
		if !g.Allow(tc.action, tc.params) {
			t.Errorf("%s: suppressed, but no identical prior dispatch exists", tc.name)
		}
	}
}

func TestGuardKeyOrderIndependent(t *testing.T) {
	// Two parameter sets with the same pairs are identical regardless of
	// construction order.
	a := map[string]any{}
	a["x"] = 1
	a["y"] = 2
	b := map[string]any{}
	b["y"] = 2
	b["x"] = 1
	if dedupKey("go", a) != dedupKey("go", b) {
		t.Error("dedup key depends on insertion order")
	}
}

func TestSanitize(t *testing.T) {
	el := &html.Node{Type: html.ElementNode, Data: "button"}
	in := map[string]any{
		"value":   "x",
		"_target": el,
		"_local":  "bookkeeping",
		"nested": map[string]any{
			"_skip": 1,
			"keep":  "y",
			"el":    el,
		},
		"list": []any{el, "a", map[string]any{"_z": 1, "b": 2}},
	}
	want := map[string]any{
		"value": "x",
		"nested": map[string]any{
			"keep": "y",
		},
		"list": []any{"a", map[string]any{"b": 2}},
	}
	got := Sanitize(in)
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("sanitize (-want +got):\n%s", d)
	}
}

func TestDispatcherDropsElementRefsBeforeDedup(t *testing.T) {
	var sent []map[string]any
	d := NewDispatcher(func(action string, params map[string]any) error {
		sent = append(sent, params)
		return nil
	})
	now, _ := testClock(time.Unix(1000, 0))
	d.Guard().WithClock(now)

	elA := &html.Node{Type: html.ElementNode, Data: "button"}
	elB := &html.Node{Type: html.ElementNode, Data: "button"}
	if err := d.Dispatch("save", map[string]any{"value": "x", "_target": elA}); err != nil {
		t.Fatal(err)
	}
	// Same semantic dispatch through a different element: still a duplicate.
	if err := d.Dispatch("save", map[string]any{"value": "x", "_target": elB}); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 {
		t.Fatalf("sent %d, want 1", len(sent))
	}
	if _, ok := sent[0]["_target"]; ok {
		t.Error("element reference leaked upstream")
	}
}
