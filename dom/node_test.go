package dom

import (
	"testing"

	"golang.org/x/net/html"
)

func mustFragment(t *testing.T, s string) *html.Node {
	t.Helper()
	n, err := ParseFragmentInto(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func TestSignificantChildren(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string // tag or text data per significant child of the first element
	}{
		{
			name: "whitespace between elements is decorative",
			html: "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>",
			want: []string{"li", "li"},
		},
		{
			name: "non-blank text counts",
			html: "<p>hello <b>x</b></p>",
			want: []string{"hello ", "b"},
		},
		{
			name: "pre keeps whitespace-only text nodes",
			html: "<pre>  <span>a</span>\n</pre>",
			want: []string{"  ", "span", "\n"},
		},
		{
			name: "textarea content is significant",
			html: "<textarea> </textarea>",
			want: []string{" "},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := mustFragment(t, tc.html)
			el := SignificantChildren(root)[0]
			cs := SignificantChildren(el)
			if len(cs) != len(tc.want) {
				t.Fatalf("got %d significant children, want %d", len(cs), len(tc.want))
			}
			for i, c := range cs {
				if c.Data != tc.want[i] {
					t.Errorf("child %d: got %q, want %q", i, c.Data, tc.want[i])
				}
			}
		})
	}
}

func TestWhitespaceSignificantInheritsFromAncestors(t *testing.T) {
	root := mustFragment(t, "<pre><span> </span></pre>")
	pre := SignificantChildren(root)[0]
	span := SignificantChildren(pre)[0]
	if span.Data != "span" {
		t.Fatalf("expected span, got %q", span.Data)
	}
	if got := len(SignificantChildren(span)); got != 1 {
		t.Errorf("whitespace inside span inside pre should be significant, got %d children", got)
	}
}

func TestInsertRemoveChildAt(t *testing.T) {
	root := mustFragment(t, "<ul> <li>a</li> <li>c</li> </ul>")
	ul := SignificantChildren(root)[0]

	li := &html.Node{Type: html.ElementNode, Data: "li"}
	li.AppendChild(&html.Node{Type: html.TextNode, Data: "b"})
	if !InsertChildAt(ul, 1, li) {
		t.Fatal("insert at 1 failed")
	}
	if got := Text(ul); got != " ab c " {
		t.Errorf("after insert: text %q", got)
	}
	if InsertChildAt(ul, 7, &html.Node{Type: html.ElementNode, Data: "li"}) {
		t.Error("insert beyond end+1 should fail")
	}

	removed := RemoveChildAt(ul, 0)
	if removed == nil || Text(removed) != "a" {
		t.Fatalf("removed wrong child: %v", removed)
	}
	if RemoveChildAt(ul, 5) != nil {
		t.Error("remove out of range should return nil")
	}
}

func TestByID(t *testing.T) {
	root := mustFragment(t, `<div><p dj-id="a">x</p><div><span dj-id="b">y</span></div></div>`)
	if n := ByID(root, "b"); n == nil || n.Data != "span" {
		t.Errorf("ByID(b) = %v", n)
	}
	if n := ByID(root, "nope"); n != nil {
		t.Errorf("ByID(nope) should be nil, got %v", n)
	}
	if n := ByID(root, ""); n != nil {
		t.Errorf("ByID of empty id should be nil, got %v", n)
	}
}

func TestAtPathAndPathOf(t *testing.T) {
	root := mustFragment(t, "<div> <p>a</p> <p><b>c</b></p> </div>")
	div := SignificantChildren(root)[0]

	b, err := AtPath(div, []int{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if b.Data != "b" {
		t.Errorf("AtPath([1 0]) = %q", b.Data)
	}
	path, ok := PathOf(div, b)
	if !ok || len(path) != 2 || path[0] != 1 || path[1] != 0 {
		t.Errorf("PathOf = %v, %v", path, ok)
	}
	if _, err := AtPath(div, []int{5}); err == nil {
		t.Error("out of bounds path should error")
	}
	if got := FormatPath([]int{1, 0}); got != "$[1][0]" {
		t.Errorf("FormatPath = %q", got)
	}
	if got := FormatPath(nil); got != "$" {
		t.Errorf("FormatPath(nil) = %q", got)
	}
}

func TestZones(t *testing.T) {
	root := mustFragment(t, `<div><section dj-update="ignore"><p>x</p></section><ul dj-update="append"><li>a</li></ul></div>`)
	div := SignificantChildren(root)[0]
	section := SignificantChildren(div)[0]
	p := SignificantChildren(section)[0]
	ul := SignificantChildren(div)[1]
	li := SignificantChildren(ul)[0]

	if !InIgnoredZone(p, div) {
		t.Error("p should be in ignored zone")
	}
	if InIgnoredZone(ul, div) {
		t.Error("ul is not in an ignored zone")
	}
	if AppendOnlyZone(li, div) != ul {
		t.Error("li should resolve to its append-only container")
	}
	if AppendOnlyZone(div, div) != nil {
		t.Error("div is not append-only")
	}
}
