package patch

import (
	"sort"
	"strconv"
	"strings"
)

// Schedule reorders a batch into an application order that is safe
// regardless of input order:
//
//  1. RemoveChild, by descending index within the same parent; removing the
//     highest index first keeps the remaining removals' indices valid.
//  2. MoveChild.
//  3. InsertChild, after removals and moves settle final child counts.
//  4. Everything else (text/attribute mutations), position-independent.
//
// Ordering is stable within each phase; the relative order of removals
// against different parents is preserved from the input.
func Schedule(batch []Patch) []Patch {
	var removes, moves, inserts, rest []Patch
	for _, p := range batch {
		switch p.Kind {
		case RemoveChild:
			removes = append(removes, p)
		case MoveChild:
			moves = append(moves, p)
		case InsertChild:
			inserts = append(inserts, p)
		default:
			rest = append(rest, p)
		}
	}
	out := make([]Patch, 0, len(batch))
	out = append(out, orderRemoves(removes)...)
	out = append(out, moves...)
	out = append(out, inserts...)
	out = append(out, rest...)
	return out
}

// parentKey identifies a parent slot-target. Two patches address the same
// parent only when both the stable id and the path agree.
func parentKey(p Patch) string {
	var b strings.Builder
	b.WriteString(p.ID)
	for _, i := range p.Path {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

func orderRemoves(removes []Patch) []Patch {
	if len(removes) < 2 {
		return removes
	}
	groups := map[string][]Patch{}
	var order []string
	for _, p := range removes {
		k := parentKey(p)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], p)
	}
	out := make([]Patch, 0, len(removes))
	for _, k := range order {
		g := groups[k]
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Index > g[j].Index
		})
		out = append(out, g...)
	}
	return out
}

// groupSpan returns the end (exclusive) of the insert group starting at i:
// adjacent InsertChild operations against the same parent with strictly
// increasing indices, which may be executed as one insertion. Inserts
// against different parents are never merged, however adjacent their paths
// look.
func groupSpan(ordered []Patch, i int) int {
	j := i + 1
	for j < len(ordered) {
		p, last := ordered[j], ordered[j-1]
		if p.Kind != InsertChild ||
			parentKey(p) != parentKey(last) ||
			p.Index != last.Index+1 {
			break
		}
		j++
	}
	return j
}

// insertGroups partitions a scheduled batch's InsertChild operations into
// executable groups.
func insertGroups(ordered []Patch) [][]Patch {
	var groups [][]Patch
	for i := 0; i < len(ordered); {
		if ordered[i].Kind != InsertChild {
			i++
			continue
		}
		j := groupSpan(ordered, i)
		groups = append(groups, ordered[i:j])
		i = j
	}
	return groups
}
