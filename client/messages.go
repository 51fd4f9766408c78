package client

import "encoding/json"

// serverMessage is the upstream envelope. Exactly one payload group is set
// depending on Type:
//
//	mount, html_update, html_recovery: HTML + Version
//	patch: Patches + Version
//	stream: Stream + Ops
//	error: Message
//	pong: nothing
type serverMessage struct {
	Type    string          `json:"type"`
	View    string          `json:"view,omitempty"`
	HTML    string          `json:"html,omitempty"`
	Version int             `json:"version,omitempty"`
	Patches json.RawMessage `json:"patches,omitempty"`
	Stream  string          `json:"stream,omitempty"`
	Ops     []StreamOp      `json:"ops,omitempty"`
	Message string          `json:"message,omitempty"`
}

// StreamOp is one operation of the streaming channel: a narrower update
// path for append-heavy and live-text UIs, applied directly by selector
// without going through the patch pipeline.
type StreamOp struct {
	Op      string `json:"op"` // append, prepend, replace, delete, text
	Target  string `json:"target"`
	HTML    string `json:"html,omitempty"`
	Content string `json:"content,omitempty"`
}

// clientMessage is the downstream envelope.
type clientMessage struct {
	Type string `json:"type"`

	// event
	ID     string         `json:"id,omitempty"`
	Event  string         `json:"event,omitempty"`
	Params map[string]any `json:"params,omitempty"`

	// request_html
	View    string `json:"view,omitempty"`
	Version int    `json:"version,omitempty"`
}
