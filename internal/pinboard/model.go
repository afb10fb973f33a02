// Package pinboard holds the pinned-command list: the model owning the
// ordered, label-deduplicated records, the view projecting active records
// for rendering, and the controller bridging user actions to persistence.
package pinboard

import (
	"github.com/atomicstack/tmux-pinboard/internal/logging"
)

// Record is one pinned command. Label doubles as the de-duplication key;
// Active mirrors the catalog snapshot current at the last rebuild.
type Record struct {
	Label     string
	CommandID string
	Active    bool
}

// Model owns the authoritative record list. Order is insertion order.
type Model struct {
	records []Record
}

func NewModel() *Model {
	return &Model{}
}

// Initialize rebuilds the list from scratch: declared ids first, then
// persisted ids, skipping any id whose display title is already present.
// Ids without a title in the snapshot are skipped with a warning rather
// than pinned under a guessed label. Calling twice with unchanged inputs
// yields the same list.
func (m *Model) Initialize(active map[string]struct{}, titles map[string]string, declared, persisted []string) {
	m.records = m.records[:0]
	for _, source := range [][]string{declared, persisted} {
		for _, id := range source {
			title, ok := titles[id]
			if !ok {
				logging.Warnf("no title for command %q, skipping", id)
				continue
			}
			if m.FindIndexByLabel(title) >= 0 {
				continue
			}
			_, isActive := active[id]
			m.records = append(m.records, Record{Label: title, CommandID: id, Active: isActive})
		}
	}
}

// Add appends a record unless the label is already pinned. The duplicate
// case is a benign skip, reported through the return value.
func (m *Model) Add(label, commandID string) bool {
	if m.FindIndexByLabel(label) >= 0 {
		return false
	}
	m.records = append(m.records, Record{Label: label, CommandID: commandID, Active: true})
	return true
}

// RemoveByLabel drops the matching record; removing an absent label is a
// no-op.
func (m *Model) RemoveByLabel(label string) bool {
	idx := m.FindIndexByLabel(label)
	if idx < 0 {
		return false
	}
	m.records = append(m.records[:idx], m.records[idx+1:]...)
	return true
}

// FindIndexByLabel returns the record index for label, or -1.
func (m *Model) FindIndexByLabel(label string) int {
	for i, rec := range m.records {
		if rec.Label == label {
			return i
		}
	}
	return -1
}

// SnapshotCommandIDs returns the ordered command ids for persistence.
func (m *Model) SnapshotCommandIDs() []string {
	ids := make([]string, 0, len(m.records))
	for _, rec := range m.records {
		ids = append(ids, rec.CommandID)
	}
	return ids
}

// Records returns a copy of the full record list.
func (m *Model) Records() []Record {
	if len(m.records) == 0 {
		return nil
	}
	dup := make([]Record, len(m.records))
	copy(dup, m.records)
	return dup
}

// Len reports the number of pinned records.
func (m *Model) Len() int {
	return len(m.records)
}
