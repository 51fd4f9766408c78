package formstate

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/djust-dev/liveclient/dom"
	"github.com/djust-dev/liveclient/morph"
)

func mustDoc(t *testing.T, s string) *dom.Document {
	t.Helper()
	root, err := dom.ParseFragmentInto(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return dom.NewDocument(root)
}

func input(t *testing.T, doc *dom.Document, id string) *html.Node {
	t.Helper()
	n := dom.ByID(doc.Root, id)
	if n == nil {
		t.Fatalf("no element %q", id)
	}
	return n
}

func TestPreserveTypedValueAcrossMorph(t *testing.T) {
	doc := mustDoc(t, `<form><input dj-id="q" name="q" value="server"/></form>`)
	in := input(t, doc, "q")
	doc.Focus(in)
	doc.SetValue(in, "typed but not sent")
	doc.Select(5, 9)

	next, _ := dom.ParseFragmentInto(`<form><input dj-id="q" name="q" value="newer"/></form>`)
	Preserve(doc, doc.Root, func() {
		morph.MorphChildren(doc.Root, next)
	})

	after := input(t, doc, "q")
	if doc.ActiveElement() != after {
		t.Error("focus lost across replacement")
	}
	if got := doc.Value(after); got != "typed but not sent" {
		t.Errorf("value = %q, markup must not override the in-progress edit", got)
	}
	if s, e := doc.Selection(); s != 5 || e != 9 {
		t.Errorf("selection = %d,%d, want 5,9", s, e)
	}
}

func TestRestoreFindsByNameWhenIDChanges(t *testing.T) {
	doc := mustDoc(t, `<form><input name="email" value=""/></form>`)
	form := dom.SignificantChildren(doc.Root)[0]
	in := dom.SignificantChildren(form)[0]
	doc.Focus(in)
	doc.SetValue(in, "a@b")

	s := Capture(doc, doc.Root)

	// Fresh subtree: same name, different object, earlier position.
	next := mustDoc(t, `<form><label>e-mail</label><input name="email" value=""/></form>`)
	s.Restore(next, next.Root)

	form2 := dom.SignificantChildren(next.Root)[0]
	in2 := dom.SignificantChildren(form2)[1]
	if next.ActiveElement() != in2 {
		t.Error("restore should find the control by name")
	}
	if got := next.Value(in2); got != "a@b" {
		t.Errorf("value = %q", got)
	}
}

func TestRestoreFallsBackToPosition(t *testing.T) {
	doc := mustDoc(t, `<div><input value=""/></div>`)
	div := dom.SignificantChildren(doc.Root)[0]
	in := dom.SignificantChildren(div)[0]
	doc.Focus(in)
	doc.SetChecked(in, true)

	s := Capture(doc, doc.Root)

	next := mustDoc(t, `<div><input value=""/></div>`)
	s.Restore(next, next.Root)
	div2 := dom.SignificantChildren(next.Root)[0]
	in2 := dom.SignificantChildren(div2)[0]
	if next.ActiveElement() != in2 {
		t.Error("positional restore failed")
	}
	if !next.Checked(in2) {
		t.Error("checked state not restored")
	}
}

func TestRestoreSkippedWhenControlGone(t *testing.T) {
	doc := mustDoc(t, `<div><input dj-id="x" value=""/></div>`)
	doc.Focus(input(t, doc, "x"))
	s := Capture(doc, doc.Root)

	next := mustDoc(t, `<div></div>`)
	s.Restore(next, next.Root)
	if next.ActiveElement() != nil {
		t.Error("nothing should be focused when the control disappeared")
	}
}

func TestCaptureEmptyWithoutFocus(t *testing.T) {
	doc := mustDoc(t, `<div><input value=""/></div>`)
	s := Capture(doc, doc.Root)
	// Restoring an empty snapshot is a no-op.
	s.Restore(doc, doc.Root)
	if doc.ActiveElement() != nil {
		t.Error("no-op restore must not focus anything")
	}
}

func TestSyncTextControls(t *testing.T) {
	doc := mustDoc(t, "<div><textarea>fresh content</textarea><input value=\"v\"/></div>")
	div := dom.SignificantChildren(doc.Root)[0]
	ta := dom.SignificantChildren(div)[0]
	in := dom.SignificantChildren(div)[1]
	doc.SetValue(ta, "stale")

	SyncTextControls(doc, doc.Root)

	if got := doc.Value(ta); got != "fresh content" {
		t.Errorf("textarea value = %q", got)
	}
	if got := doc.Value(in); got != "v" {
		t.Errorf("input value = %q, sync must not touch value-attribute controls", got)
	}
}
