package patch

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/djust-dev/liveclient/debug"
	"github.com/djust-dev/liveclient/dom"
)

// Apply executes a batch against the reconciliation root, in scheduled
// order, grouping sibling insertions. The first failure aborts the batch:
// later patches may presume the failed one succeeded, so partial
// application past a failure is never attempted. The returned error is
// batch-fatal and the caller is expected to resynchronize.
func Apply(root *html.Node, batch []Patch) error {
	ordered := Schedule(batch)
	for i := 0; i < len(ordered); {
		p := ordered[i]
		if p.Kind == InsertChild {
			j := groupSpan(ordered, i)
			if err := applyInsertGroup(root, ordered[i:j]); err != nil {
				return fmt.Errorf("patch %s at %s: %w", p.Kind, dom.FormatPath(p.Path), err)
			}
			i = j
			continue
		}
		if err := applyOne(root, p); err != nil {
			return fmt.Errorf("patch %s at %s: %w", p.Kind, dom.FormatPath(p.Path), err)
		}
		i++
	}
	return nil
}

// resolve finds the node a patch addresses. A stable identifier is
// authoritative and bypasses path traversal; otherwise the path descends
// significant children from the root.
func resolve(root *html.Node, p Patch) (*html.Node, error) {
	var n *html.Node
	if p.ID != "" {
		n = dom.ByID(root, p.ID)
		if n == nil {
			return nil, fmt.Errorf("%w: id %q", ErrNotFound, p.ID)
		}
	} else {
		var err error
		n, err = dom.AtPath(root, p.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	if p.Tag != "" && n.Type == html.ElementNode && n.Data != p.Tag {
		return nil, fmt.Errorf("%w: expected <%s>, live node is <%s>", ErrTagMismatch, p.Tag, n.Data)
	}
	return n, nil
}

// zone classification for a slot operation against parent. Ignored zones
// are excluded from all patch targeting; append-only zones accept only
// trailing insertions.
func skipSlotOp(root, parent *html.Node, p Patch) bool {
	if dom.InIgnoredZone(parent, root) {
		if debug.Patch() {
			debug.Logf("skip %s: target in update-ignore zone\n", p.Kind)
		}
		return true
	}
	if zone := dom.AppendOnlyZone(parent, root); zone != nil {
		if p.Kind == InsertChild && p.Index >= len(dom.SignificantChildren(parent)) {
			return false
		}
		if debug.Patch() {
			debug.Logf("skip %s: target in append-only zone\n", p.Kind)
		}
		return true
	}
	return false
}

func applyOne(root *html.Node, p Patch) error {
	switch p.Kind {
	case SetText:
		return applySetText(root, p)
	case SetAttribute:
		return applySetAttribute(root, p)
	case RemoveChild:
		return applyRemoveChild(root, p)
	case MoveChild:
		return applyMoveChild(root, p)
	default:
		return fmt.Errorf("%w: kind %d", ErrMalformed, p.Kind)
	}
}

// applySetText mutates the existing text node object in place rather than
// replacing it, so external references to it stay valid.
func applySetText(root *html.Node, p Patch) error {
	n, err := resolve(root, p)
	if err != nil {
		return err
	}
	if dom.InIgnoredZone(n, root) {
		if debug.Patch() {
			debug.Logf("skip SetText: target in update-ignore zone\n")
		}
		return nil
	}
	if n.Type == html.TextNode {
		n.Data = p.Text
		return nil
	}
	// An id-addressed target is necessarily an element; accept it when its
	// content is a single text node (or nothing).
	if n.Type == html.ElementNode {
		if dom.AppendOnlyZone(n, root) != nil {
			if debug.Patch() {
				debug.Logf("skip SetText: target in append-only zone\n")
			}
			return nil
		}
		cs := dom.SignificantChildren(n)
		switch {
		case len(cs) == 0:
			n.AppendChild(&html.Node{Type: html.TextNode, Data: p.Text})
			return nil
		case len(cs) == 1 && cs[0].Type == html.TextNode:
			cs[0].Data = p.Text
			return nil
		}
	}
	return fmt.Errorf("%w: SetText target is not a text node", ErrTagMismatch)
}

func applySetAttribute(root *html.Node, p Patch) error {
	n, err := resolve(root, p)
	if err != nil {
		return err
	}
	if n.Type != html.ElementNode {
		return fmt.Errorf("%w: SetAttribute target is not an element", ErrTagMismatch)
	}
	if dom.InIgnoredZone(n, root) {
		if debug.Patch() {
			debug.Logf("skip SetAttribute: target in update-ignore zone\n")
		}
		return nil
	}
	// Attribute mutation of an append-only zone's existing children is
	// refused; the zone container itself is fair game.
	if zone := dom.AppendOnlyZone(n, root); zone != nil && zone != n {
		if debug.Patch() {
			debug.Logf("skip SetAttribute: target in append-only zone\n")
		}
		return nil
	}
	if p.Value == nil {
		dom.RemoveAttr(n, p.Name)
	} else {
		dom.SetAttr(n, p.Name, *p.Value)
	}
	return nil
}

func applyInsertGroup(root *html.Node, group []Patch) error {
	parent, err := resolve(root, group[0])
	if err != nil {
		return err
	}
	if parent.Type != html.ElementNode {
		return fmt.Errorf("%w: InsertChild parent is not an element", ErrTagMismatch)
	}
	if debug.Patch() && len(group) > 1 {
		debug.Logf("grouped insert of %d siblings at %s\n", len(group), dom.FormatPath(group[0].Path))
	}
	// Zone policy is per patch, not per group: an append-only zone refuses
	// the non-trailing members of a group but still accepts a trailing one
	// grouped with them.
	for _, p := range group {
		if skipSlotOp(root, parent, p) {
			continue
		}
		if !dom.InsertChildAt(parent, p.Index, p.Node.Build()) {
			return fmt.Errorf("%w: insert index %d (len %d)",
				ErrIndexRange, p.Index, len(dom.SignificantChildren(parent)))
		}
	}
	return nil
}

func applyRemoveChild(root *html.Node, p Patch) error {
	parent, err := resolve(root, p)
	if err != nil {
		return err
	}
	if skipSlotOp(root, parent, p) {
		return nil
	}
	if dom.RemoveChildAt(parent, p.Index) == nil {
		return fmt.Errorf("%w: remove index %d (len %d)",
			ErrIndexRange, p.Index, len(dom.SignificantChildren(parent)))
	}
	return nil
}

// applyMoveChild relocates a child. When the patch carries the child's
// stable identifier, the child is resolved by identifier and the numeric
// from is ignored even if it disagrees: indices go stale within a batch,
// identifiers do not.
func applyMoveChild(root *html.Node, p Patch) error {
	parent, err := resolve(root, p)
	if err != nil {
		return err
	}
	if skipSlotOp(root, parent, p) {
		return nil
	}
	cs := dom.SignificantChildren(parent)
	from := -1
	if p.Child != "" {
		for i, c := range cs {
			if dom.ID(c) == p.Child {
				from = i
				break
			}
		}
		if from == -1 {
			return fmt.Errorf("%w: move child id %q", ErrNotFound, p.Child)
		}
	} else {
		if p.From < 0 || p.From >= len(cs) {
			return fmt.Errorf("%w: move from %d (len %d)", ErrIndexRange, p.From, len(cs))
		}
		from = p.From
	}
	child := cs[from]
	parent.RemoveChild(child)
	to := min(p.To, len(dom.SignificantChildren(parent)))
	if !dom.InsertChildAt(parent, to, child) {
		return fmt.Errorf("%w: move to %d", ErrIndexRange, p.To)
	}
	return nil
}
