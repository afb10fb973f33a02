package pinboard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/atomicstack/tmux-pinboard/internal/catalog"
)

type fakeStore struct {
	declared  []string
	persisted []string
	readErr   error
	saveErr   error
	saves     [][]string
}

func (f *fakeStore) Declared() []string {
	return f.declared
}

func (f *fakeStore) PinnedIDs() ([]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.persisted, nil
}

func (f *fakeStore) SavePinnedIDs(ids []string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.persisted = append([]string(nil), ids...)
	f.saves = append(f.saves, f.persisted)
	return nil
}

type fakeSub struct {
	cancelled int
}

func (f *fakeSub) Cancel() {
	f.cancelled++
}

func snapshotOf(ids ...string) catalog.Snapshot {
	snap := catalog.Snapshot{
		Titles: make(map[string]string, len(ids)),
		Usage:  make(map[string]string, len(ids)),
	}
	for _, id := range ids {
		snap.IDs = append(snap.IDs, id)
		snap.Titles[id] = catalog.Title(id)
		snap.Usage[id] = id
	}
	return snap
}

func newTestController(store *fakeStore, snap catalog.Snapshot, exec Executor) (*Controller, *View) {
	model := NewModel()
	view := NewView(model)
	if exec == nil {
		exec = func(string) error { return nil }
	}
	ctrl := NewController(model, view, store, exec, func() (catalog.Snapshot, error) {
		return snap, nil
	})
	return ctrl, view
}

func TestEnsureReadyInitializesOnFirstVisibleRecords(t *testing.T) {
	store := &fakeStore{declared: []string{"new-window"}, persisted: []string{"split-window"}}
	ctrl, view := newTestController(store, snapshotOf("new-window", "split-window"), nil)

	if ctrl.Ready() {
		t.Fatal("expected controller to start uninitialized")
	}
	records := view.VisibleRecords()
	if !ctrl.Ready() {
		t.Fatal("expected first visible-records call to initialize")
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 visible records, got %d", len(records))
	}
	if records[0].CommandID != "new-window" || records[1].CommandID != "split-window" {
		t.Fatalf("expected declared before persisted, got %v", records)
	}
}

func TestPinPersistsAndNotifies(t *testing.T) {
	store := &fakeStore{}
	ctrl, view := newTestController(store, snapshotOf("new-window"), nil)

	rec, added := ctrl.Pin("new-window")
	if !added {
		t.Fatal("expected pin to succeed")
	}
	if rec.Label != "New Window" {
		t.Fatalf("expected snapshot title, got %q", rec.Label)
	}
	if !reflect.DeepEqual(store.persisted, []string{"new-window"}) {
		t.Fatalf("expected pin persisted, got %v", store.persisted)
	}
	select {
	case <-view.Changes():
	default:
		t.Fatal("expected refresh notification after pin")
	}
}

func TestPinDuplicateIsBenign(t *testing.T) {
	store := &fakeStore{}
	ctrl, _ := newTestController(store, snapshotOf("new-window"), nil)

	ctrl.Pin("new-window")
	saves := len(store.saves)
	rec, added := ctrl.Pin("new-window")
	if added {
		t.Fatal("expected duplicate pin to be rejected")
	}
	if rec.Label != "New Window" {
		t.Fatalf("expected duplicate to report existing label, got %q", rec.Label)
	}
	if len(store.saves) != saves {
		t.Fatalf("expected no extra persistence writes, got %d", len(store.saves)-saves)
	}
}

func TestPinFallsBackToDerivedTitle(t *testing.T) {
	store := &fakeStore{}
	ctrl, _ := newTestController(store, snapshotOf("new-window"), nil)

	rec, added := ctrl.Pin("run-shell echo hi")
	if !added {
		t.Fatal("expected pin of off-catalog command to succeed")
	}
	if rec.Label != "Run Shell echo hi" {
		t.Fatalf("expected derived title, got %q", rec.Label)
	}
}

func TestUnpinPersistsEvenWhenAbsent(t *testing.T) {
	store := &fakeStore{}
	ctrl, _ := newTestController(store, snapshotOf("new-window"), nil)
	ctrl.Pin("new-window")

	ctrl.Unpin(Record{Label: "New Window", CommandID: "new-window"})
	if len(store.persisted) != 0 {
		t.Fatalf("expected persisted pins cleared, got %v", store.persisted)
	}
	saves := len(store.saves)
	ctrl.Unpin(Record{Label: "New Window", CommandID: "new-window"})
	if len(store.saves) != saves+1 {
		t.Fatal("expected unpin of absent record to still persist")
	}
}

func TestPinUnpinRoundTripSurvivesRebuild(t *testing.T) {
	store := &fakeStore{}
	snap := snapshotOf("new-window", "split-window")
	ctrl, _ := newTestController(store, snap, nil)

	ctrl.Pin("new-window")
	ctrl.Pin("split-window")

	// Simulate a fresh session against the same store.
	_, view2 := newTestController(store, snap, nil)
	records := view2.VisibleRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 records after round trip, got %d", len(records))
	}
	if records[0].CommandID != "new-window" || records[1].CommandID != "split-window" {
		t.Fatalf("expected persisted order preserved, got %v", records)
	}
}

func TestCatalogChangeRecomputesActive(t *testing.T) {
	store := &fakeStore{persisted: []string{"new-window", "split-window"}}
	ctrl, view := newTestController(store, snapshotOf("new-window", "split-window"), nil)

	if got := len(view.VisibleRecords()); got != 2 {
		t.Fatalf("expected 2 visible records, got %d", got)
	}

	shrunk := snapshotOf("new-window", "split-window")
	shrunk.IDs = []string{"new-window"}
	ctrl.OnCatalogChanged(shrunk)

	records := view.VisibleRecords()
	if len(records) != 1 || records[0].CommandID != "new-window" {
		t.Fatalf("expected only active command visible, got %v", records)
	}
}

func TestOnConfigChangedPicksUpDeclaredPins(t *testing.T) {
	store := &fakeStore{}
	ctrl, view := newTestController(store, snapshotOf("new-window", "split-window"), nil)
	view.VisibleRecords()

	store.declared = []string{"split-window"}
	ctrl.OnConfigChanged()

	records := view.VisibleRecords()
	if len(records) != 1 || records[0].CommandID != "split-window" {
		t.Fatalf("expected declared pin after config change, got %v", records)
	}
}

func TestRunDelegatesWithoutMutation(t *testing.T) {
	store := &fakeStore{}
	var ran []string
	execErr := errors.New("boom")
	ctrl, _ := newTestController(store, snapshotOf("new-window"), func(id string) error {
		ran = append(ran, id)
		return execErr
	})
	ctrl.Pin("new-window")

	err := ctrl.Run(Record{Label: "New Window", CommandID: "new-window"})
	if !errors.Is(err, execErr) {
		t.Fatalf("expected executor error surfaced, got %v", err)
	}
	if !reflect.DeepEqual(ran, []string{"new-window"}) {
		t.Fatalf("expected command delegated once, got %v", ran)
	}
	if !reflect.DeepEqual(store.persisted, []string{"new-window"}) {
		t.Fatalf("expected run to leave persistence untouched, got %v", store.persisted)
	}
}

func TestCandidatesIncludeFixedSetWithoutDuplicates(t *testing.T) {
	store := &fakeStore{}
	ctrl, _ := newTestController(store, snapshotOf("new-window", "list-sessions"), nil)

	candidates := ctrl.Candidates()
	seen := make(map[string]int)
	for _, cand := range candidates {
		seen[cand.ID]++
	}
	for id, count := range seen {
		if count > 1 {
			t.Fatalf("expected unique candidate ids, %q appeared %d times", id, count)
		}
	}
	for _, id := range []string{"new-window", "list-sessions", "run-shell", "send-keys", "split-window"} {
		if seen[id] != 1 {
			t.Fatalf("expected candidate %q present", id)
		}
	}
	for _, cand := range candidates {
		switch cand.ID {
		case "new-window", "list-sessions":
			if !cand.Active {
				t.Fatalf("expected catalog candidate %q active", cand.ID)
			}
		case "run-shell", "send-keys":
			if cand.Active {
				t.Fatalf("expected fixed-set candidate %q inactive", cand.ID)
			}
		}
	}
}

func TestCloseCancelsManagedSubscriptions(t *testing.T) {
	store := &fakeStore{}
	ctrl, _ := newTestController(store, snapshotOf("new-window"), nil)
	sub := &fakeSub{}
	ctrl.Manage(sub)

	ctrl.Close()
	if sub.cancelled != 1 {
		t.Fatalf("expected subscription cancelled once, got %d", sub.cancelled)
	}
	ctrl.Close()
	if sub.cancelled != 1 {
		t.Fatal("expected second close to be a no-op")
	}
}
