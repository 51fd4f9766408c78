// Package patch defines the closed set of structural operations a render
// cycle produces, orders a batch of them into a safe application sequence,
// and executes them against a live tree.
//
// Patches are not individually idempotent: applying the same RemoveChild
// twice is an error. A full batch applied in scheduled order against the
// tree state it was computed from is deterministic.
package patch

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Kind int

const (
	InvalidKind Kind = iota
	SetText
	SetAttribute
	InsertChild
	RemoveChild
	MoveChild
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		SetText:      "SetText",
		SetAttribute: "SetAttribute",
		InsertChild:  "InsertChild",
		RemoveChild:  "RemoveChild",
		MoveChild:    "MoveChild",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	if k == InvalidKind {
		return nil, fmt.Errorf("%w: invalid kind", ErrMalformed)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"SetText":      SetText,
		"SetAttribute": SetAttribute,
		"InsertChild":  InsertChild,
		"RemoveChild":  RemoveChild,
		"MoveChild":    MoveChild,
	}[string(d)]
	if !ok {
		return fmt.Errorf("%w: unrecognized patch type %q", ErrMalformed, d)
	}
	*k = kk
	return nil
}

// Patch is one structural change operation.
//
// Path is an ordered sequence of child indices from the reconciliation
// root. For SetText and SetAttribute it addresses the target node itself;
// for InsertChild, RemoveChild and MoveChild it addresses the parent whose
// child slots the operation manipulates.
//
// ID, when set, is the stable identifier of the addressed node and is
// authoritative over Path. Tag, when set, is the tag the server believes
// the addressed element has; a disagreement at resolution is a batch-fatal
// failure.
type Patch struct {
	Kind Kind
	Path []int
	ID   string
	Tag  string

	// SetText
	Text string

	// SetAttribute: nil Value removes the attribute.
	Name  string
	Value *string

	// InsertChild, RemoveChild
	Index int
	Node  *NodeData

	// MoveChild: Child, when set, is the stable identifier of the child
	// being moved and wins over From.
	From  int
	To    int
	Child string
}

// NodeData is the wire representation of an inserted subtree, mirroring the
// server's rendered node shape. Text nodes use the "#text" pseudo-tag.
type NodeData struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []NodeData        `json:"children,omitempty"`
	Text     string            `json:"text,omitempty"`
}

// Build materializes the payload as a fresh live subtree.
func (nd *NodeData) Build() *html.Node {
	if nd.Tag == "#text" {
		return &html.Node{Type: html.TextNode, Data: nd.Text}
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     nd.Tag,
		DataAtom: atom.Lookup([]byte(nd.Tag)),
	}
	for k, v := range nd.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}
	sortAttrs(n)
	for i := range nd.Children {
		n.AppendChild(nd.Children[i].Build())
	}
	return n
}

func sortAttrs(n *html.Node) {
	for i := 1; i < len(n.Attr); i++ {
		for j := i; j > 0 && n.Attr[j].Key < n.Attr[j-1].Key; j-- {
			n.Attr[j], n.Attr[j-1] = n.Attr[j-1], n.Attr[j]
		}
	}
}
