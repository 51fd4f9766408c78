package client

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/djust-dev/liveclient/dom"
)

// ApplyStreamOps applies streaming operations to every element matching
// each op's target selector. These updates are not diff-derived, so they
// bypass the patch pipeline entirely; a selector matching nothing is a
// no-op (the container may simply not be rendered right now), but an
// unknown op is an error, not a best-effort guess.
func ApplyStreamOps(root *html.Node, ops []StreamOp) error {
	for _, op := range ops {
		targets, err := dom.QueryAll(root, op.Target)
		if err != nil {
			return fmt.Errorf("stream op %q: %w", op.Op, err)
		}
		for _, t := range targets {
			if err := applyStreamOp(t, op); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyStreamOp(target *html.Node, op StreamOp) error {
	switch op.Op {
	case "append", "prepend", "replace":
		nodes, err := dom.ParseFragment(op.HTML)
		if err != nil {
			return fmt.Errorf("stream op %q: %w", op.Op, err)
		}
		switch op.Op {
		case "append":
			for _, n := range nodes {
				target.AppendChild(n)
			}
		case "prepend":
			first := target.FirstChild
			for _, n := range nodes {
				if first != nil {
					target.InsertBefore(n, first)
				} else {
					target.AppendChild(n)
				}
			}
		case "replace":
			clearChildren(target)
			for _, n := range nodes {
				target.AppendChild(n)
			}
		}
	case "delete":
		dom.Detach(target)
	case "text":
		clearChildren(target)
		target.AppendChild(&html.Node{Type: html.TextNode, Data: op.Content})
	default:
		return fmt.Errorf("unknown stream op %q", op.Op)
	}
	return nil
}

func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		nx := c.NextSibling
		n.RemoveChild(c)
		c = nx
	}
}
