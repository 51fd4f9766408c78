// Package formstate carries focus, caret and live control values across
// DOM-replacing operations. innerHTML-style replacement loses live control
// state that is not reflected in the attribute representation; wrapping the
// replacement in Preserve puts it back.
package formstate

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/djust-dev/liveclient/dom"
)

// Snapshot is a transient, per-reconciliation-cycle record of which element
// held focus and what its live state was. It is discarded after
// restoration.
type Snapshot struct {
	active bool

	id   string
	name string
	path []int

	value            string
	checked          bool
	selStart, selEnd int
}

// Capture records the focused element's identity chain (identifier, name,
// position — in that preference order for later matching), its live value
// or checked state, and its selection range. When nothing inside scope is
// focused the snapshot is empty and restoration is a no-op.
func Capture(doc *dom.Document, scope *html.Node) *Snapshot {
	ae := doc.ActiveElement()
	if ae == nil {
		return &Snapshot{}
	}
	path, inScope := dom.PathOf(scope, ae)
	if !inScope {
		return &Snapshot{}
	}
	s := &Snapshot{
		active:  true,
		id:      dom.ID(ae),
		path:    path,
		value:   doc.Value(ae),
		checked: doc.Checked(ae),
	}
	s.name, _ = dom.Attr(ae, "name")
	s.selStart, s.selEnd = doc.Selection()
	return s
}

// Restore finds the previously focused control in the new subtree by the
// identifier/name/position chain and puts back its live value, checked
// state, selection and focus — the user's in-progress edit wins over
// whatever the replacement markup specified. A control that disappeared is
// not an error; restoration is simply skipped.
func (s *Snapshot) Restore(doc *dom.Document, scope *html.Node) {
	if !s.active {
		return
	}
	n := s.find(scope)
	if n == nil {
		return
	}
	doc.SetValue(n, s.value)
	doc.SetChecked(n, s.checked)
	doc.Focus(n)
	doc.Select(s.selStart, s.selEnd)
}

func (s *Snapshot) find(scope *html.Node) *html.Node {
	if s.id != "" {
		if n := dom.ByID(scope, s.id); n != nil {
			return n
		}
	}
	if s.name != "" {
		var byName *html.Node
		dom.Walk(scope, func(n *html.Node) bool {
			if byName != nil {
				return false
			}
			if n.Type == html.ElementNode {
				if v, ok := dom.Attr(n, "name"); ok && v == s.name {
					byName = n
					return false
				}
			}
			return true
		})
		if byName != nil {
			return byName
		}
	}
	n, err := dom.AtPath(scope, s.path)
	if err != nil {
		return nil
	}
	return n
}

// SyncTextControls copies markup text content into the live value of every
// text-entry control under scope whose committed value does not auto-sync
// from content the way attributes do. Without this, a textarea rendered
// with its content as text would silently keep a stale live value.
func SyncTextControls(doc *dom.Document, scope *html.Node) {
	dom.Walk(scope, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Textarea {
			doc.SetValue(n, dom.Text(n))
			return false
		}
		return true
	})
}

// Preserve wraps a DOM-replacing operation: capture before, text-control
// sync and focused-control restore after.
func Preserve(doc *dom.Document, scope *html.Node, op func()) {
	s := Capture(doc, scope)
	op()
	SyncTextControls(doc, scope)
	s.Restore(doc, scope)
}
