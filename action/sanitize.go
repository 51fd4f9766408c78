package action

import (
	"strings"

	"golang.org/x/net/html"
)

// Sanitize strips live DOM element references and client-only bookkeeping
// fields (underscore-prefixed keys) from an action's parameters, at any
// nesting depth. Element references are per-dispatch incidental context,
// not semantic identity — and serialized naively they can corrupt sibling
// numeric-looking parameter keys.
func Sanitize(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if strings.HasPrefix(k, "_") {
			continue
		}
		cv, ok := sanitizeValue(v)
		if !ok {
			continue
		}
		out[k] = cv
	}
	return out
}

func sanitizeValue(v any) (any, bool) {
	switch x := v.(type) {
	case *html.Node:
		return nil, false
	case map[string]any:
		return Sanitize(x), true
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			ce, ok := sanitizeValue(e)
			if !ok {
				continue
			}
			out = append(out, ce)
		}
		return out, true
	default:
		return v, true
	}
}
