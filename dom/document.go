package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/djust-dev/liveclient/debug"
)

// Event carries what a fired listener gets to see.
type Event struct {
	Type   string
	Target *html.Node
	Key    string
	Value  string
}

// Handler is a bound event listener. A handler returning an error is logged
// and isolated: it never prevents other handlers from firing.
type Handler func(*Event) error

// Document is a live tree: the parsed node tree plus the state that exists
// only at runtime and is not reflected in the attribute representation.
// All of it is keyed by node object identity.
type Document struct {
	Root *html.Node

	focused          *html.Node
	selStart, selEnd int

	values    map[*html.Node]string
	checked   map[*html.Node]bool
	listeners map[*html.Node]map[string][]Handler
}

func NewDocument(root *html.Node) *Document {
	return &Document{
		Root:      root,
		values:    map[*html.Node]string{},
		checked:   map[*html.Node]bool{},
		listeners: map[*html.Node]map[string][]Handler{},
	}
}

// Contains reports whether n is attached under the document root.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.Root {
			return true
		}
	}
	return false
}

// Focus moves input focus to n and resets the selection to the end of its
// live value.
func (d *Document) Focus(n *html.Node) {
	d.focused = n
	v := d.Value(n)
	d.selStart, d.selEnd = len(v), len(v)
}

func (d *Document) Blur() {
	d.focused = nil
}

// ActiveElement returns the focused element, or nil when there is none or
// when it has been detached from the document.
func (d *Document) ActiveElement() *html.Node {
	if d.focused == nil || !d.Contains(d.focused) {
		d.focused = nil
		return nil
	}
	return d.focused
}

func (d *Document) Select(start, end int) {
	d.selStart, d.selEnd = start, end
}

func (d *Document) Selection() (start, end int) {
	return d.selStart, d.selEnd
}

// Value returns n's live value: an explicit override set by SetValue wins,
// otherwise a textarea reports its text content and anything else its value
// attribute.
func (d *Document) Value(n *html.Node) string {
	if v, ok := d.values[n]; ok {
		return v
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Textarea {
		return Text(n)
	}
	v, _ := Attr(n, "value")
	return v
}

// SetValue records an in-progress value for n. The value attribute is left
// alone: live values do not sync back into markup.
func (d *Document) SetValue(n *html.Node, v string) {
	d.values[n] = v
}

func (d *Document) Checked(n *html.Node) bool {
	if v, ok := d.checked[n]; ok {
		return v
	}
	_, ok := Attr(n, "checked")
	return ok
}

func (d *Document) SetChecked(n *html.Node, v bool) {
	d.checked[n] = v
}

// AddListener attaches h to n for the given event type. Attachment is by
// node identity; the caller (the binding tracker) is responsible for
// at-most-once discipline.
func (d *Document) AddListener(n *html.Node, event string, h Handler) {
	m := d.listeners[n]
	if m == nil {
		m = map[string][]Handler{}
		d.listeners[n] = m
	}
	m[event] = append(m[event], h)
}

// Fire dispatches an event to n's listeners for ev.Type. Handler errors are
// collected and logged, never propagated between handlers.
func (d *Document) Fire(n *html.Node, ev *Event) []error {
	ev.Target = n
	var errs []error
	for _, h := range d.listeners[n][ev.Type] {
		if err := h(ev); err != nil {
			if debug.Bind() {
				debug.Logf("listener %s on <%s> failed: %v\n", ev.Type, n.Data, err)
			}
			errs = append(errs, err)
		}
	}
	return errs
}

// Sweep drops live state for nodes no longer attached to the document. It is
// an optimization, not a correctness requirement: identity keying already
// guarantees no false positive hit for detached nodes.
func (d *Document) Sweep() {
	for n := range d.values {
		if !d.Contains(n) {
			delete(d.values, n)
		}
	}
	for n := range d.checked {
		if !d.Contains(n) {
			delete(d.checked, n)
		}
	}
	for n := range d.listeners {
		if !d.Contains(n) {
			delete(d.listeners, n)
		}
	}
}
