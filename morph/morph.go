// Package morph reconciles a live subtree against a fully-rendered
// replacement subtree in place, reusing as many existing live nodes as
// possible. It is the fallback when incremental patching is unsafe or
// unavailable: first-load hydration against server-rendered markup, and the
// recovery protocol's resynchronization step.
package morph

import (
	"golang.org/x/net/html"

	"github.com/djust-dev/liveclient/debug"
	"github.com/djust-dev/liveclient/dom"
)

// Morph makes live match next. Attributes are fully diffed, children are
// matched by stable identifier, then by tag at relative position, then
// positionally; unmatched live children are removed and unmatched
// replacement children are created fresh. Subtrees marked update-ignore are
// passed through untouched; append-only subtrees only gain trailing
// children.
func Morph(live, next *html.Node) {
	if live.Type == html.TextNode && next.Type == html.TextNode {
		if live.Data != next.Data {
			live.Data = next.Data
		}
		return
	}
	if live.Type != html.ElementNode || next.Type != html.ElementNode {
		return
	}
	if dom.UpdateMode(live) == dom.UpdateIgnore {
		if debug.Morph() {
			debug.Logf("morph: leaving update-ignore <%s> untouched\n", live.Data)
		}
		return
	}
	morphAttrs(live, next)
	MorphChildren(live, next)
}

// MorphChildren reconciles only the child lists of a matched element pair,
// leaving live's own attributes alone. This is the entry point for snapshot
// application, where the replacement markup arrives as a fragment without
// the root container.
func MorphChildren(live, next *html.Node) {
	if dom.UpdateMode(live) == dom.UpdateIgnore {
		return
	}
	if dom.UpdateMode(live) == dom.UpdateAppend {
		appendTrailing(live, next)
		return
	}
	matched := matchSiblings(dom.SignificantChildren(live), dom.SignificantChildren(next))
	for _, pr := range rebuild(live, next, matched) {
		Morph(pr.live, pr.next)
	}
}

type pair struct {
	live, next *html.Node
}

// appendTrailing implements append-only zones: existing children are left
// alone, replacement children beyond the current end are appended.
func appendTrailing(live, next *html.Node) {
	lcs := dom.SignificantChildren(live)
	ncs := dom.SignificantChildren(next)
	for i := len(lcs); i < len(ncs); i++ {
		live.AppendChild(dom.Clone(ncs[i]))
	}
}

// morphAttrs performs the full attribute diff: attributes absent from the
// replacement are removed, present ones added or updated.
func morphAttrs(live, next *html.Node) {
	keep := make(map[string]bool, len(next.Attr))
	for _, a := range next.Attr {
		keep[a.Key] = true
		dom.SetAttr(live, a.Key, a.Val)
	}
	var stale []string
	for _, a := range live.Attr {
		if !keep[a.Key] {
			stale = append(stale, a.Key)
		}
	}
	for _, k := range stale {
		dom.RemoveAttr(live, k)
	}
}

// rebuild re-links live's child list to mirror next's full child list,
// decorative whitespace included. matched[i] is the live node reused for
// next's i-th significant child, nil when that child is created fresh.
// Unmatched live children simply never come back. Returns the element/text
// pairs still needing recursive reconciliation.
func rebuild(live, next *html.Node, matched []*html.Node) []pair {
	for c := live.FirstChild; c != nil; {
		nx := c.NextSibling
		live.RemoveChild(c)
		c = nx
	}
	var recurse []pair
	i := 0
	for c := next.FirstChild; c != nil; c = c.NextSibling {
		if !dom.IsSignificant(next, c) {
			// decorative whitespace keeps the replacement's texture
			if c.Type == html.TextNode {
				live.AppendChild(dom.Clone(c))
			}
			continue
		}
		if m := matched[i]; m != nil {
			live.AppendChild(m)
			recurse = append(recurse, pair{live: m, next: c})
		} else {
			live.AppendChild(dom.Clone(c))
		}
		i++
	}
	return recurse
}
