package bind

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/djust-dev/liveclient/dom"
)

// Interactive directives and the event type each one listens for. Key
// modifiers ride on the attribute name itself (dj-keydown.enter), so
// discovery matches on the base name before the first dot.
var directives = map[string]string{
	"dj-click":   "click",
	"dj-submit":  "submit",
	"dj-change":  "change",
	"dj-input":   "input",
	"dj-blur":    "blur",
	"dj-focus":   "focus",
	"dj-keydown": "keydown",
	"dj-keyup":   "keyup",
}

func splitDirective(attrKey string) (base, modifier string) {
	if i := strings.IndexByte(attrKey, '.'); i >= 0 {
		return attrKey[:i], attrKey[i+1:]
	}
	return attrKey, ""
}

// events returns the event types n's directive attributes ask for, each at
// most once regardless of how many modifiers are spelled out.
func events(n *html.Node) []string {
	var evs []string
	seen := map[string]bool{}
	for _, a := range n.Attr {
		base, _ := splitDirective(a.Key)
		ev, ok := directives[base]
		if !ok || seen[ev] {
			continue
		}
		seen[ev] = true
		evs = append(evs, ev)
	}
	return evs
}

// actionsFor reads the operative directive values from the live attributes
// at event-fire time. SetAttribute patches may have changed which action a
// directive triggers since bind time; a bind-time-captured value would fire
// the wrong action.
func actionsFor(n *html.Node, ev *dom.Event) []string {
	var names []string
	for _, a := range n.Attr {
		base, modifier := splitDirective(a.Key)
		if directives[base] != ev.Type || a.Val == "" {
			continue
		}
		if modifier != "" && !strings.EqualFold(modifier, ev.Key) {
			continue
		}
		names = append(names, a.Val)
	}
	return names
}
