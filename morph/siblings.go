package morph

import (
	"golang.org/x/net/html"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/djust-dev/liveclient/dom"
)

// Sibling matching runs a sequence diff over per-node summaries:
//
//  1. each sibling is summarized — stable identifier when present, tag name
//     otherwise, a single shared summary for text nodes so they match
//     positionally
//  2. summaries are interned as runes and the two rune sequences diffed
//  3. equal runs pair live and replacement siblings in order; deletions are
//     live nodes to drop, insertions replacement nodes to create fresh
//  4. identified nodes the order-preserving diff left unmatched are rescued
//     by a direct identifier lookup, so a reorder reuses every identified
//     node rather than recreating the displaced ones
//
// Identifier equality therefore beats tag matching (different ids never
// share a rune), and tag matching only pairs nodes at compatible relative
// positions because the diff is order-preserving.

func summary(n *html.Node) string {
	if n.Type == html.TextNode {
		return "#text"
	}
	if id := dom.ID(n); id != "" {
		return "id-" + id
	}
	return "tag-" + n.Data
}

func mapRunes(m map[string]rune, nodes []*html.Node) []rune {
	rs := make([]rune, len(nodes))
	for i, n := range nodes {
		sum := summary(n)
		r, ok := m[sum]
		if !ok {
			r = rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

// matchSiblings returns, for each of next's significant children, the live
// child it reuses, or nil when the child must be created fresh.
func matchSiblings(live, next []*html.Node) []*html.Node {
	matched := make([]*html.Node, len(next))
	m := map[string]rune{}
	fromRunes := mapRunes(m, live)
	toRunes := mapRunes(m, next)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)

	used := map[*html.Node]bool{}
	fi, ti := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range diff.Text {
				fi++
			}
		case diffpatch.DiffEqual:
			for range diff.Text {
				matched[ti] = live[fi]
				used[live[fi]] = true
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for range diff.Text {
				ti++
			}
		}
	}

	// Identifier rescue: a reordered identified node shows up as a
	// delete/insert pair in the diff. Pair those directly so identity beats
	// position.
	var byID map[string]*html.Node
	for i, n := range next {
		if matched[i] != nil {
			continue
		}
		id := dom.ID(n)
		if id == "" {
			continue
		}
		if byID == nil {
			byID = map[string]*html.Node{}
			for _, l := range live {
				if !used[l] {
					if lid := dom.ID(l); lid != "" {
						byID[lid] = l
					}
				}
			}
		}
		if l, ok := byID[id]; ok {
			matched[i] = l
			delete(byID, id)
		}
	}
	return matched
}
