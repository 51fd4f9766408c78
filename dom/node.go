package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attribute names the engine interprets.
const (
	AttrID     = "dj-id"
	AttrUpdate = "dj-update"
	AttrTarget = "dj-target"
	AttrStream = "dj-stream"
	AttrRoot   = "data-djust-root"
)

// dj-update values.
const (
	UpdateIgnore = "ignore"
	UpdateAppend = "append"
)

func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func SetAttr(n *html.Node, name, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

func RemoveAttr(n *html.Node, name string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// ID returns the stable identifier stamped on n, if any.
func ID(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	v, _ := Attr(n, AttrID)
	return v
}

// ByID finds the element with the given stable identifier under root,
// including root itself. Returns nil when no element carries the id.
func ByID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && ID(n) == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Walk visits n and its subtree pre-order. f returning false prunes the
// subtree below the visited node.
func Walk(n *html.Node, f func(*html.Node) bool) {
	if !f(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, f)
	}
}

// whitespace-significant containers: every child counts, including
// whitespace-only text nodes.
var rawTextAtoms = map[atom.Atom]bool{
	atom.Pre:      true,
	atom.Code:     true,
	atom.Textarea: true,
	atom.Script:   true,
	atom.Style:    true,
}

// WhitespaceSignificant reports whether whitespace-only text children of n
// are significant, which holds when n or any ancestor is a preformatted,
// code, or raw-text container.
func WhitespaceSignificant(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && rawTextAtoms[p.DataAtom] {
			return true
		}
	}
	return false
}

func significant(parent, c *html.Node) bool {
	switch c.Type {
	case html.ElementNode:
		return true
	case html.TextNode:
		if strings.TrimSpace(c.Data) != "" {
			return true
		}
		return WhitespaceSignificant(parent)
	default:
		return false
	}
}

// IsSignificant reports whether c counts among parent's significant
// children.
func IsSignificant(parent, c *html.Node) bool {
	return significant(parent, c)
}

// SignificantChildren returns the children of n counted during positional
// addressing.
func SignificantChildren(n *html.Node) []*html.Node {
	var cs []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if significant(n, c) {
			cs = append(cs, c)
		}
	}
	return cs
}

// SignificantIndex returns c's index among n's significant children, or -1.
func SignificantIndex(n, c *html.Node) int {
	i := 0
	for x := n.FirstChild; x != nil; x = x.NextSibling {
		if x == c {
			if !significant(n, x) {
				return -1
			}
			return i
		}
		if significant(n, x) {
			i++
		}
	}
	return -1
}

// InsertChildAt inserts c among n's significant children at index i.
// Inserting at the current child count appends. Returns false when i is out
// of range.
func InsertChildAt(n *html.Node, i int, c *html.Node) bool {
	cs := SignificantChildren(n)
	if i < 0 || i > len(cs) {
		return false
	}
	if i == len(cs) {
		n.AppendChild(c)
		return true
	}
	n.InsertBefore(c, cs[i])
	return true
}

// RemoveChildAt removes and returns the significant child at index i,
// or nil when out of range.
func RemoveChildAt(n *html.Node, i int) *html.Node {
	cs := SignificantChildren(n)
	if i < 0 || i >= len(cs) {
		return nil
	}
	c := cs[i]
	n.RemoveChild(c)
	return c
}

// UpdateMode returns n's dj-update value ("", "ignore" or "append").
func UpdateMode(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	v, _ := Attr(n, AttrUpdate)
	return v
}

// InIgnoredZone reports whether n is, or lies inside, an update-ignore
// subtree at or below stop. stop itself is checked too.
func InIgnoredZone(n, stop *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if UpdateMode(p) == UpdateIgnore {
			return true
		}
		if p == stop {
			return false
		}
	}
	return false
}

// AppendOnlyZone returns the nearest append-only container at or above n,
// stopping at stop, or nil.
func AppendOnlyZone(n, stop *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if UpdateMode(p) == UpdateAppend {
			return p
		}
		if p == stop {
			return nil
		}
	}
	return nil
}

// Text returns the concatenated text content of n's subtree.
func Text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(Text(c))
	}
	return b.String()
}

// Detach removes n from its parent, if attached.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Clone deep-copies a node subtree. The copies have fresh object identity.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:     n.Type,
		DataAtom: n.DataAtom,
		Data:     n.Data,
		Attr:     append([]html.Attribute(nil), n.Attr...),
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(Clone(k))
	}
	return c
}
