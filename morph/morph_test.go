package morph

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

func TestMorphChildrenResult(t *testing.T) {
	tests := []struct {
		name string
		live string
		next string
		want string // defaults to next
	}{
		{
			name: "text mutation",
			live: "<p>old</p>",
			next: "<p>new</p>",
		},
		{
			name: "attribute add update remove",
			live: `<p class="a" hidden="">x</p>`,
			next: `<p class="b" title="t">x</p>`,
		},
		{
			name: "child list grows",
			live: "<ul><li>a</li></ul>",
			next: "<ul><li>a</li><li>b</li></ul>",
		},
		{
			name: "child list shrinks",
			live: "<ul><li>a</li><li>b</li><li>c</li></ul>",
			next: "<ul><li>b</li></ul>",
		},
		{
			name: "decorative whitespace follows the replacement",
			live: "<ul><li>a</li></ul>",
			next: "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>",
		},
		{
			name: "preformatted whitespace is content",
			live: "<pre>a\n</pre>",
			next: "<pre>a\n\nb\n</pre>",
		},
		{
			name: "ignore zone passes through",
			live: `<div><canvas dj-update="ignore" data-plot="v1"></canvas><p>x</p></div>`,
			next: `<div><canvas dj-update="ignore" data-plot="v2"></canvas><p>y</p></div>`,
			want: `<div><canvas dj-update="ignore" data-plot="v1"></canvas><p>y</p></div>`,
		},
		{
			name: "append-only zone gains trailing children only",
			live: `<ul dj-update="append"><li>local</li></ul>`,
			next: `<ul dj-update="append"><li>server-a</li><li>server-b</li></ul>`,
			want: `<ul dj-update="append"><li>local</li><li>server-b</li></ul>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			live := mustRoot(t, tc.live)
			next := mustRoot(t, tc.next)
			MorphChildren(live, next)
			want := tc.want
			if want == "" {
				want = tc.next
			}
			if got := dom.RenderChildren(live); got != want {
				t.Errorf("got  %s\nwant %s", got, want)
			}
		})
	}
}

func TestMorphReusesByIdentifier(t *testing.T) {
	live := mustRoot(t, `<ul><li dj-id="a">a</li><li dj-id="b">b</li></ul>`)
	next := mustRoot(t, `<ul><li dj-id="b">b2</li><li dj-id="a">a</li></ul>`)
	ul := dom.SignificantChildren(live)[0]
	liA := dom.ByID(ul, "a")
	liB := dom.ByID(ul, "b")

	MorphChildren(live, next)

	cs := dom.SignificantChildren(ul)
	if len(cs) != 2 {
		t.Fatalf("got %d children", len(cs))
	}
	if cs[0] != liB || cs[1] != liA {
		t.Error("identified nodes were recreated instead of moved")
	}
	if got := dom.Text(liB); got != "b2" {
		t.Errorf("moved node text = %q, want b2", got)
	}
}

func TestMorphReusesByTagAtPosition(t *testing.T) {
	live := mustRoot(t, "<div><p>one</p><span>two</span></div>")
	next := mustRoot(t, "<div><p>uno</p><span>dos</span></div>")
	div := dom.SignificantChildren(live)[0]
	p := dom.SignificantChildren(div)[0]
	span := dom.SignificantChildren(div)[1]

	MorphChildren(live, next)

	cs := dom.SignificantChildren(div)
	if cs[0] != p || cs[1] != span {
		t.Error("same-tag same-position nodes should be reused")
	}
	if dom.Text(p) != "uno" || dom.Text(span) != "dos" {
		t.Errorf("texts = %q, %q", dom.Text(p), dom.Text(span))
	}
}

func TestMorphDifferentIdsNeverPair(t *testing.T) {
	live := mustRoot(t, `<ul><li dj-id="a">a</li></ul>`)
	next := mustRoot(t, `<ul><li dj-id="z">z</li></ul>`)
	ul := dom.SignificantChildren(live)[0]
	old := dom.ByID(ul, "a")

	MorphChildren(live, next)

	cs := dom.SignificantChildren(ul)
	if len(cs) != 1 {
		t.Fatalf("got %d children", len(cs))
	}
	if cs[0] == old {
		t.Error("node with a different identifier must be created fresh")
	}
	if dom.ID(cs[0]) != "z" {
		t.Errorf("id = %q", dom.ID(cs[0]))
	}
}

func TestMorphTextNodeMutatedInPlace(t *testing.T) {
	live := mustRoot(t, "<p>old</p>")
	next := mustRoot(t, "<p>new</p>")
	p := dom.SignificantChildren(live)[0]
	txt := p.FirstChild

	MorphChildren(live, next)

	if p.FirstChild != txt {
		t.Error("text node replaced, not mutated")
	}
	if txt.Data != "new" {
		t.Errorf("text = %q", txt.Data)
	}
}

func TestMatchSiblings(t *testing.T) {
	live := mustRoot(t, `<ul><li dj-id="a">a</li><li>plain</li><li dj-id="c">c</li></ul>`)
	next := mustRoot(t, `<ul><li dj-id="c">c</li><li>plain</li></ul>`)
	lcs := dom.SignificantChildren(dom.SignificantChildren(live)[0])
	ncs := dom.SignificantChildren(dom.SignificantChildren(next)[0])

	matched := matchSiblings(lcs, ncs)
	if len(matched) != 2 {
		t.Fatalf("matched len %d", len(matched))
	}
	// "c" must be reused; the unidentified li pairs where order allows.
	foundC := false
	for _, m := range matched {
		if m == lcs[2] {
			foundC = true
		}
	}
	if !foundC {
		t.Error("identified node c was not reused")
	}
}
