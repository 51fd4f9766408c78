package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// The engine only needs the selector shapes the server actually emits for
// stream targets and dj-target scopes: tag, #id, .class, [attr], [attr=val],
// their compounds, and the descendant combinator.
type simpleSelector struct {
	tag     string
	id      string
	class   string
	attrKey string
	attrVal string
	hasAttr bool
}

func parseSimple(sel string) (simpleSelector, error) {
	var s simpleSelector
	if idx := strings.IndexByte(sel, '['); idx >= 0 {
		attrPart := sel[idx+1:]
		if !strings.HasSuffix(attrPart, "]") {
			return s, fmt.Errorf("%w: %q missing ']'", ErrBadSelector, sel)
		}
		attrPart = strings.TrimSuffix(attrPart, "]")
		sel = sel[:idx]
		s.hasAttr = true
		if eq := strings.IndexByte(attrPart, '='); eq >= 0 {
			s.attrKey = attrPart[:eq]
			s.attrVal = strings.Trim(attrPart[eq+1:], `"'`)
		} else {
			s.attrKey = attrPart
		}
		if s.attrKey == "" {
			return s, fmt.Errorf("%w: %q has empty attribute name", ErrBadSelector, sel)
		}
	}
	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		s.id = sel[idx+1:]
		sel = sel[:idx]
	}
	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}
	s.tag = sel
	if s.tag == "" && s.id == "" && s.class == "" && !s.hasAttr {
		return s, fmt.Errorf("%w: empty selector part", ErrBadSelector)
	}
	return s, nil
}

func (s simpleSelector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" {
		if v, _ := Attr(n, "id"); v != s.id {
			return false
		}
	}
	if s.class != "" {
		ok := false
		cv, _ := Attr(n, "class")
		for _, c := range strings.Fields(cv) {
			if c == s.class {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if s.hasAttr {
		v, present := Attr(n, s.attrKey)
		if !present {
			return false
		}
		if s.attrVal != "" && v != s.attrVal {
			return false
		}
	}
	return true
}

// QueryAll returns all elements under root (root included) matching a
// simple CSS selector, document order.
func QueryAll(root *html.Node, selector string) ([]*html.Node, error) {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty selector", ErrBadSelector)
	}
	first, err := parseSimple(parts[0])
	if err != nil {
		return nil, err
	}
	matches := collect(root, first, true)
	for _, part := range parts[1:] {
		s, err := parseSimple(part)
		if err != nil {
			return nil, err
		}
		var next []*html.Node
		for _, anchor := range matches {
			next = append(next, collect(anchor, s, false)...)
		}
		matches = next
	}
	return matches, nil
}

// Query returns the first match or ErrNotFound.
func Query(root *html.Node, selector string) (*html.Node, error) {
	ns, err := QueryAll(root, selector)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, fmt.Errorf("%w: selector %q", ErrNotFound, selector)
	}
	return ns[0], nil
}

func collect(root *html.Node, s simpleSelector, includeRoot bool) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if n == root && !includeRoot {
			return true
		}
		if s.matches(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
