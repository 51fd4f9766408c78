package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// FormatPath renders a child-index path as "$[1][0]". The empty path is the
// reconciliation root itself, "$".
func FormatPath(path []int) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, i := range path {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(']')
	}
	return b.String()
}

// AtPath descends from root by positional index into each level's
// significant children.
func AtPath(root *html.Node, path []int) (*html.Node, error) {
	n := root
	for d, i := range path {
		cs := SignificantChildren(n)
		if i < 0 || i >= len(cs) {
			return nil, fmt.Errorf("%w: index %d out of bounds (len %d) at %s",
				ErrNotFound, i, len(cs), FormatPath(path[:d+1]))
		}
		n = cs[i]
	}
	return n, nil
}

// PathOf returns n's child-index path relative to root, or nil, false when n
// is not under root or is not itself significant.
func PathOf(root, n *html.Node) ([]int, bool) {
	if n == root {
		return []int{}, true
	}
	var rev []int
	for x := n; x != root; x = x.Parent {
		if x.Parent == nil {
			return nil, false
		}
		i := SignificantIndex(x.Parent, x)
		if i < 0 {
			return nil, false
		}
		rev = append(rev, i)
	}
	path := make([]int, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path, true
}
