package pinboard

import (
	"github.com/atomicstack/tmux-pinboard/internal/catalog"
	"github.com/atomicstack/tmux-pinboard/internal/logging"
	"github.com/atomicstack/tmux-pinboard/internal/logging/events"
)

// SettingsStore is the slice of the settings layer the controller needs.
type SettingsStore interface {
	Declared() []string
	PinnedIDs() ([]string, error)
	SavePinnedIDs([]string) error
}

// Executor delegates a command id to the host for execution.
type Executor func(commandID string) error

// Subscription is any cancellable change-notification handle owned by the
// controller.
type Subscription interface {
	Cancel()
}

// Candidate is one id/title pair offered by the selection prompt. Active
// is false for always-offerable entries the current catalog poll did not
// report.
type Candidate struct {
	ID     string
	Label  string
	Active bool
}

// alwaysOfferable commands appear in the selection prompt even when a poll
// has not (yet) reported them, so task-style pins stay reachable.
var alwaysOfferable = []string{"run-shell", "send-keys", "new-window", "split-window"}

// Controller wires user actions to the model and drives persistence. All
// methods run on the host UI's single logic thread; the controller does no
// locking of its own.
type Controller struct {
	model *Model
	view  *View
	store SettingsStore
	exec  Executor
	fetch func() (catalog.Snapshot, error)

	snap      catalog.Snapshot
	snapValid bool
	ready     bool
	subs      []Subscription
}

// NewController builds the controller and installs the view's lazy
// initializer so the first visible-records request transitions the board to
// its ready state.
func NewController(model *Model, view *View, store SettingsStore, exec Executor, fetch func() (catalog.Snapshot, error)) *Controller {
	c := &Controller{
		model: model,
		view:  view,
		store: store,
		exec:  exec,
		fetch: fetch,
	}
	view.bindInitializer(c.EnsureReady)
	return c
}

// Manage takes ownership of subscriptions released together on Close.
func (c *Controller) Manage(subs ...Subscription) {
	c.subs = append(c.subs, subs...)
}

// Ready reports whether the board has been initialized.
func (c *Controller) Ready() bool {
	return c.ready
}

// EnsureReady initializes the board on first use.
func (c *Controller) EnsureReady() {
	if c.ready {
		return
	}
	if !c.snapValid && c.fetch != nil {
		snap, err := c.fetch()
		if err != nil {
			logging.Error(err)
		} else {
			c.snap = snap
			c.snapValid = true
		}
	}
	c.rebuild()
}

// OnCatalogChanged rebuilds the board against a fresh catalog snapshot.
// This is the only path that recomputes Active; in-memory pins absent from
// both sources are dropped, which is why every mutation persists first.
func (c *Controller) OnCatalogChanged(snap catalog.Snapshot) {
	c.snap = snap
	c.snapValid = true
	c.rebuild()
}

// OnConfigChanged rebuilds the board after the declared configuration
// changed on disk.
func (c *Controller) OnConfigChanged() {
	if !c.snapValid {
		c.EnsureReady()
		return
	}
	c.rebuild()
}

func (c *Controller) rebuild() {
	declared := c.store.Declared()
	persisted, err := c.store.PinnedIDs()
	if err != nil {
		logging.Error(err)
		persisted = nil
	}
	c.model.Initialize(c.snap.ActiveSet(), c.snap.Titles, declared, persisted)
	c.ready = true
	events.Board.Rebuilt(len(declared), len(persisted), c.model.Len())
	c.view.NotifyRefresh()
}

// Pin resolves the display label for commandID and appends it to the board.
// A duplicate is a benign skip. The persistence write completes before the
// refresh is requested.
func (c *Controller) Pin(commandID string) (Record, bool) {
	c.EnsureReady()
	label, ok := c.snap.Titles[commandID]
	if !ok {
		label = catalog.Title(commandID)
	}
	if !c.model.Add(label, commandID) {
		events.Board.AlreadyPinned(commandID, label)
		return Record{Label: label, CommandID: commandID}, false
	}
	c.persist()
	c.view.NotifyRefresh()
	events.Board.Pinned(commandID, label)
	return Record{Label: label, CommandID: commandID, Active: true}, true
}

// Unpin removes the record and persists unconditionally, keeping stored
// state aligned with memory even when the label was already gone.
func (c *Controller) Unpin(rec Record) {
	c.EnsureReady()
	c.model.RemoveByLabel(rec.Label)
	c.persist()
	c.view.NotifyRefresh()
	events.Board.Unpinned(rec.Label)
}

// Run delegates execution to the host. The model is untouched by a run.
func (c *Controller) Run(rec Record) error {
	events.Run.Start(rec.CommandID)
	err := c.exec(rec.CommandID)
	events.Run.Result(rec.CommandID, err)
	return err
}

// Candidates lists the selection-prompt entries: the catalog's active
// commands followed by the fixed always-offerable set, deduplicated by id.
func (c *Controller) Candidates() []Candidate {
	c.EnsureReady()
	seen := make(map[string]struct{}, len(c.snap.IDs)+len(alwaysOfferable))
	out := make([]Candidate, 0, len(c.snap.IDs)+len(alwaysOfferable))
	for _, id := range c.snap.IDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Candidate{ID: id, Label: c.snap.Titles[id], Active: true})
	}
	for _, id := range alwaysOfferable {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Candidate{ID: id, Label: catalog.Title(id)})
	}
	return out
}

func (c *Controller) persist() {
	ids := c.model.SnapshotCommandIDs()
	if err := c.store.SavePinnedIDs(ids); err != nil {
		logging.Error(err)
		return
	}
	events.Board.Persisted(ids)
}

// Close releases every subscription the controller owns.
func (c *Controller) Close() {
	for _, sub := range c.subs {
		if sub != nil {
			sub.Cancel()
		}
	}
	c.subs = nil
}
