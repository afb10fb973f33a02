package ui

import (
	"fmt"

	"github.com/atomicstack/tmux-pinboard/internal/logging/events"
	"github.com/atomicstack/tmux-pinboard/internal/pinboard"
	uistate "github.com/atomicstack/tmux-pinboard/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// openPicker switches to the selection prompt over the current candidates.
func (m *Model) openPicker() {
	m.picker = uistate.NewLevel("picker", pickerTitle, m.pickerItems())
	if len(m.picker.Items) > 0 {
		m.picker.Cursor = 0
	}
	m.mode = ModePicker
	m.forceClearInfo()
	m.errMsg = ""
	m.syncViewport(m.picker)
	events.UI.ModeEnter("picker")
	events.Prompt.Open(len(m.picker.Full))
}

// closePicker returns to the board. Cancellation is a normal outcome, not
// an error.
func (m *Model) closePicker(cancelled bool) {
	if cancelled {
		events.Prompt.Cancelled()
	}
	m.picker = nil
	m.mode = ModeBoard
	m.syncViewport(m.board)
	events.UI.ModeEnter("board")
}

func (m *Model) pickerItems() []uistate.Item {
	candidates := m.controller.Candidates()
	items := make([]uistate.Item, 0, len(candidates))
	for _, cand := range candidates {
		items = append(items, uistate.Item{ID: cand.ID, Label: cand.Label, Inactive: !cand.Active})
	}
	return items
}

// updatePickerItems re-pulls candidates after a board rebuild while the
// prompt is open, preserving the filter.
func (m *Model) updatePickerItems() {
	if m.picker == nil {
		return
	}
	m.picker.UpdateItems(m.pickerItems())
	m.syncViewport(m.picker)
}

// pinSelection pins the item under the picker cursor and returns to the
// board. Duplicate pins are reported as info, not errors.
func (m *Model) pinSelection() {
	if m.picker == nil {
		return
	}
	item, ok := m.picker.Current()
	if !ok {
		m.closePicker(true)
		return
	}
	events.Prompt.Selected(item.ID, item.Label)
	rec, added := m.controller.Pin(item.ID)
	m.closePicker(false)
	m.refreshBoard()
	if !added {
		m.setInfo(fmt.Sprintf("%s is already pinned", rec.Label))
		return
	}
	if idx := m.board.IndexOf(rec.CommandID); idx >= 0 {
		m.board.Cursor = idx
		m.syncViewport(m.board)
	}
	if m.verbose {
		m.setInfo(fmt.Sprintf("Pinned %s", rec.Label))
	}
}

// unpinCurrent removes the record under the board cursor.
func (m *Model) unpinCurrent() {
	item, ok := m.board.Current()
	if !ok {
		return
	}
	m.controller.Unpin(pinboard.Record{Label: item.Label, CommandID: item.ID})
	m.refreshBoard()
	if m.verbose {
		m.setInfo(fmt.Sprintf("Unpinned %s", item.Label))
	}
}

type runResultMsg struct {
	label string
	err   error
}

// runCurrent executes the record under the board cursor. The popup closes
// after a successful run.
func (m *Model) runCurrent() tea.Cmd {
	item, ok := m.board.Current()
	if !ok {
		return nil
	}
	rec := pinboard.Record{Label: item.Label, CommandID: item.ID}
	return func() tea.Msg {
		return runResultMsg{label: rec.Label, err: m.controller.Run(rec)}
	}
}

func (m *Model) handleRunResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(runResultMsg)
	if !ok {
		return nil
	}
	if result.err != nil {
		m.errMsg = result.err.Error()
		m.forceClearInfo()
		events.Action.Error(result.err)
		return nil
	}
	info := fmt.Sprintf("Ran %s", result.label)
	if m.verbose {
		m.setInfo(info)
	} else {
		m.forceClearInfo()
	}
	events.Action.Success(info)
	return tea.Quit
}
