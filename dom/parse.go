package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDocument parses a complete HTML document.
func ParseDocument(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

// ParseFragment parses markup the way a browser parses innerHTML assigned to
// a div, returning the top-level nodes.
func ParseFragment(s string) ([]*html.Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		n.Parent = nil
		n.PrevSibling = nil
		n.NextSibling = nil
	}
	return nodes, nil
}

// ParseFragmentInto parses markup and hangs the resulting nodes under a
// fresh detached div container, which is convenient as a morph source.
func ParseFragmentInto(s string) (*html.Node, error) {
	nodes, err := ParseFragment(s)
	if err != nil {
		return nil, err
	}
	div := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	for _, n := range nodes {
		div.AppendChild(n)
	}
	return div, nil
}

// Render serializes a node subtree back to HTML.
func Render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// RenderChildren serializes n's children, i.e. its innerHTML.
func RenderChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return ""
		}
	}
	return b.String()
}
