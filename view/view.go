// Package view ties one reconciliation root to the engine: it sequences
// patch batches, runs the binding pass after every mutation cycle, and
// drives the recovery protocol when incremental patching fails.
package view

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/djust-dev/liveclient/bind"
	"github.com/djust-dev/liveclient/debug"
	"github.com/djust-dev/liveclient/dom"
	"github.com/djust-dev/liveclient/formstate"
	"github.com/djust-dev/liveclient/morph"
	"github.com/djust-dev/liveclient/patch"
)

// ResyncFunc issues a resynchronization request upstream, identifying the
// failing root and its last-known version. Fire-and-forget: the view
// returns to idle immediately and resumes when the snapshot arrives.
type ResyncFunc func(viewID string, lastVersion int) error

type View struct {
	id      string
	doc     *dom.Document
	root    *html.Node
	tracker *bind.Tracker
	resync  ResyncFunc

	state   State
	version int
}

func New(id string, doc *dom.Document, root *html.Node, dispatch bind.Dispatch, resync ResyncFunc) *View {
	return &View{
		id:      id,
		doc:     doc,
		root:    root,
		tracker: bind.NewTracker(doc, dispatch),
		resync:  resync,
	}
}

func (v *View) ID() string         { return v.id }
func (v *View) State() State       { return v.state }
func (v *View) Version() int       { return v.version }
func (v *View) Root() *html.Node   { return v.root }
func (v *View) Doc() *dom.Document { return v.doc }

// Hydrate reconciles the root against the server's initial markup and runs
// the first binding pass.
func (v *View) Hydrate(markup string, version int) error {
	return v.applyMarkup(markup, version)
}

// ApplyBatch applies one render cycle's patches.
//
// Batches arriving while the view is Recovering are dropped, not queued:
// the snapshot the server is about to send supersedes any patch computed
// against the stale tree, and replaying them after the morph would apply
// deltas to a state they were never computed from.
//
// A stale version is dropped; a version gap means missed cycles and takes
// the same recovery path as an application failure.
func (v *View) ApplyBatch(patches []patch.Patch, version int) error {
	switch v.state {
	case Recovering:
		if debug.Patch() {
			debug.Logf("view %s: dropping batch v%d while recovering\n", v.id, version)
		}
		return nil
	case Applying:
		// Single-threaded cooperative execution: a batch never lands while
		// another is mid-application for the same root.
		return fmt.Errorf("view %s: batch arrived while applying", v.id)
	}
	if version != 0 && version <= v.version {
		if debug.Patch() {
			debug.Logf("view %s: dropping stale batch v%d (at v%d)\n", v.id, version, v.version)
		}
		return nil
	}
	if version > v.version+1 {
		return v.fail(fmt.Errorf("version gap: have v%d, got v%d", v.version, version))
	}
	v.state = Applying
	if err := patch.Apply(v.root, patches); err != nil {
		return v.fail(err)
	}
	if version != 0 {
		v.version = version
	}
	v.state = Synced
	v.tracker.Pass(v.root)
	v.doc.Sweep()
	return nil
}

// ApplySnapshot reconciles the root against a complete markup snapshot:
// the resynchronization payload while Recovering, or a whole-view update
// otherwise. The morph is wrapped in the form-state preserver so an
// in-progress edit survives the replacement.
func (v *View) ApplySnapshot(markup string, version int) error {
	if !v.doc.Contains(v.root) {
		// The root was torn down while the snapshot was in flight. Late
		// results are dropped rather than tracked for cancellation.
		if debug.Patch() {
			debug.Logf("view %s: dropping snapshot for detached root\n", v.id)
		}
		return nil
	}
	return v.applyMarkup(markup, version)
}

func (v *View) applyMarkup(markup string, version int) error {
	next, err := dom.ParseFragmentInto(markup)
	if err != nil {
		return fmt.Errorf("view %s: parsing snapshot: %w", v.id, err)
	}
	formstate.Preserve(v.doc, v.root, func() {
		morph.MorphChildren(v.root, next)
	})
	v.version = version
	v.state = Synced
	v.tracker.Pass(v.root)
	v.doc.Sweep()
	return nil
}

// Invalidate forces the recovery path without touching the tree. The
// session layer uses it when a batch cannot even be decoded: an
// unrecognized operation gets no best-effort partial interpretation.
func (v *View) Invalidate(cause error) error {
	if v.state == Recovering {
		return nil
	}
	return v.fail(cause)
}

// fail moves the view to Recovering and asks upstream for a snapshot. No
// further patches touch the stale tree until it arrives. A resync request
// error leaves the view Recovering; retry policy belongs to the session
// layer.
func (v *View) fail(cause error) error {
	v.state = Recovering
	if debug.Patch() {
		debug.Logf("view %s: recovering (v%d): %v\n", v.id, v.version, cause)
	}
	if err := v.resync(v.id, v.version); err != nil {
		return fmt.Errorf("view %s: %v (resync request failed: %w)", v.id, cause, err)
	}
	return fmt.Errorf("view %s: %w", v.id, cause)
}

// BindPass re-runs listener discovery. Exposed for callers that mutate the
// tree outside the patch pipeline (the streaming-op channel).
func (v *View) BindPass() {
	v.tracker.Pass(v.root)
}
