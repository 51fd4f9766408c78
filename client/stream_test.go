package client

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/djust-dev/liveclient/dom"
)

func mustRoot(t *testing.T, s string) *html.Node {
	t.Helper()
	n, err := dom.ParseFragmentInto(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func TestApplyStreamOps(t *testing.T) {
	tests := []struct {
		name string
		html string
		ops  []StreamOp
		want string
	}{
		{
			name: "append",
			html: `<ul id="log"><li>a</li></ul>`,
			ops:  []StreamOp{{Op: "append", Target: "#log", HTML: "<li>b</li>"}},
			want: `<ul id="log"><li>a</li><li>b</li></ul>`,
		},
		{
			name: "prepend",
			html: `<ul id="log"><li>b</li></ul>`,
			ops:  []StreamOp{{Op: "prepend", Target: "#log", HTML: "<li>a</li>"}},
			want: `<ul id="log"><li>a</li><li>b</li></ul>`,
		},
		{
			name: "prepend into empty container",
			html: `<ul id="log"></ul>`,
			ops:  []StreamOp{{Op: "prepend", Target: "#log", HTML: "<li>a</li>"}},
			want: `<ul id="log"><li>a</li></ul>`,
		},
		{
			name: "replace",
			html: `<div class="status"><p>old</p></div>`,
			ops:  []StreamOp{{Op: "replace", Target: ".status", HTML: "<p>new</p>"}},
			want: `<div class="status"><p>new</p></div>`,
		},
		{
			name: "delete",
			html: `<div><p id="toast">bye</p><p>stay</p></div>`,
			ops:  []StreamOp{{Op: "delete", Target: "#toast"}},
			want: `<div><p>stay</p></div>`,
		},
		{
			name: "text",
			html: `<span id="count"><b>1</b></span>`,
			ops:  []StreamOp{{Op: "text", Target: "#count", Content: "2"}},
			want: `<span id="count">2</span>`,
		},
		{
			name: "selector matching nothing is a no-op",
			html: `<div><p>x</p></div>`,
			ops:  []StreamOp{{Op: "append", Target: "#absent", HTML: "<p>y</p>"}},
			want: `<div><p>x</p></div>`,
		},
		{
			name: "every match is updated",
			html: `<div><span class="tick">0</span><span class="tick">0</span></div>`,
			ops:  []StreamOp{{Op: "text", Target: "span.tick", Content: "1"}},
			want: `<div><span class="tick">1</span><span class="tick">1</span></div>`,
		},
		{
			name: "descendant combinator",
			html: `<div id="panel"><ul><li>a</li></ul></div><ul><li>x</li></ul>`,
			ops:  []StreamOp{{Op: "append", Target: "#panel ul", HTML: "<li>b</li>"}},
			want: `<div id="panel"><ul><li>a</li><li>b</li></ul></div><ul><li>x</li></ul>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := mustRoot(t, tc.html)
			if err := ApplyStreamOps(root, tc.ops); err != nil {
				t.Fatal(err)
			}
			if got := dom.RenderChildren(root); got != tc.want {
				t.Errorf("got  %s\nwant %s", got, tc.want)
			}
		})
	}
}

func TestApplyStreamOpsErrors(t *testing.T) {
	root := mustRoot(t, `<p id="x">a</p>`)
	if err := ApplyStreamOps(root, []StreamOp{{Op: "rotate", Target: "#x"}}); err == nil {
		t.Error("unknown op must be an error, not a best-effort guess")
	}
	if err := ApplyStreamOps(root, []StreamOp{{Op: "append", Target: ""}}); err == nil {
		t.Error("empty selector must be an error")
	}
}
