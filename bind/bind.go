// Package bind wires interactive elements to their event listeners exactly
// once per element object, across arbitrarily many reconciliation cycles.
//
// Tracking is keyed by node object identity, never by a DOM attribute: the
// morph engine's attribute diff can copy any "already bound" marker onto a
// freshly created replacement element without copying the listener, which
// would leave the element permanently dead. A fresh object identity always
// means a fresh binding.
package bind

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/djust-dev/liveclient/debug"
	"github.com/djust-dev/liveclient/dom"
)

// Dispatch carries a user action toward the server. params hold the
// externally-visible event context (input value, key, form fields).
type Dispatch func(action string, params map[string]any) error

type Tracker struct {
	doc      *dom.Document
	dispatch Dispatch
	bound    map[*html.Node]map[string]bool
}

func NewTracker(doc *dom.Document, dispatch Dispatch) *Tracker {
	return &Tracker{
		doc:      doc,
		dispatch: dispatch,
		bound:    map[*html.Node]map[string]bool{},
	}
}

// Pass discovers interactive elements under root and binds the missing
// listeners. It is idempotent: safe to invoke arbitrarily often, after
// every mutation cycle; correctness derives from the identity-keyed table,
// not from call-count discipline. Returns the number of listeners attached.
func (t *Tracker) Pass(root *html.Node) int {
	n := 0
	dom.Walk(root, func(el *html.Node) bool {
		if el.Type != html.ElementNode {
			return true
		}
		for _, ev := range events(el) {
			if t.bound[el][ev] {
				continue
			}
			t.bind(el, ev)
			n++
		}
		return true
	})
	t.sweep()
	if debug.Bind() && n > 0 {
		debug.Logf("bind pass attached %d listeners\n", n)
	}
	return n
}

func (t *Tracker) bind(el *html.Node, event string) {
	t.doc.AddListener(el, event, func(ev *dom.Event) error {
		for _, action := range actionsFor(el, ev) {
			if err := t.dispatch(action, eventParams(t.doc, el, ev)); err != nil {
				return err
			}
		}
		return nil
	})
	m := t.bound[el]
	if m == nil {
		m = map[string]bool{}
		t.bound[el] = m
	}
	m[event] = true
}

// sweep drops records for detached elements. Purely housekeeping: a
// detached element can never produce a false positive because lookups are
// by object identity, so nothing depends on this running promptly.
func (t *Tracker) sweep() {
	for el := range t.bound {
		if !t.doc.Contains(el) {
			delete(t.bound, el)
		}
	}
}

func eventParams(doc *dom.Document, el *html.Node, ev *dom.Event) map[string]any {
	params := map[string]any{}
	switch ev.Type {
	case "input", "change", "blur":
		params["value"] = doc.Value(el)
		if name, ok := dom.Attr(el, "name"); ok {
			params["name"] = name
		}
	case "keydown", "keyup":
		params["key"] = ev.Key
		params["value"] = doc.Value(el)
	case "submit":
		for _, c := range formControls(el) {
			name, _ := dom.Attr(c, "name")
			params[name] = doc.Value(c)
		}
	}
	params["_target"] = el
	return params
}

func formControls(form *html.Node) []*html.Node {
	var out []*html.Node
	dom.Walk(form, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.DataAtom {
		case atom.Input, atom.Select, atom.Textarea:
			if _, ok := dom.Attr(n, "name"); ok {
				out = append(out, n)
			}
		}
		return true
	})
	return out
}
