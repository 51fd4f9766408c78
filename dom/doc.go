// Package dom wraps a golang.org/x/net/html node tree with the live state a
// serialized tree cannot carry: input focus, in-progress control values,
// selection ranges, and per-element event listeners.
//
// The package also provides the addressing primitives the patch engine is
// built on:
//
//   - significant-children traversal, which skips decorative whitespace-only
//     text nodes except inside whitespace-significant containers (pre, code,
//     textarea, script, style)
//   - stable-identifier lookup via the dj-id attribute
//   - a small CSS selector subset for explicit target scopes and stream
//     containers
//
// Node identity is object identity: two *html.Node pointers are the same
// element iff they are the same pointer. All live state in Document is keyed
// that way, so replacing an element always sheds its listeners and live
// value, even if the replacement copies every attribute.
package dom
