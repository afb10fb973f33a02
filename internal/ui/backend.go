package ui

import (
	"github.com/atomicstack/tmux-pinboard/internal/backend"
	"github.com/atomicstack/tmux-pinboard/internal/catalog"
	"github.com/atomicstack/tmux-pinboard/internal/pinboard"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

func waitForViewChange(v *pinboard.View) tea.Cmd {
	return func() tea.Msg {
		<-v.Changes()
		return viewChangedMsg{}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

type viewChangedMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

func (m *Model) handleViewChangedMsg(msg tea.Msg) tea.Cmd {
	m.refreshBoard()
	if m.mode == ModePicker {
		m.updatePickerItems()
	}
	return waitForViewChange(m.boardView)
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		m.backendLastErr = evt.Err.Error()
		return
	}
	m.backendLastErr = ""
	switch evt.Kind {
	case backend.KindCatalog:
		if snap, ok := evt.Data.(catalog.Snapshot); ok {
			m.controller.OnCatalogChanged(snap)
		}
	case backend.KindConfig:
		m.controller.OnConfigChanged()
	}
}
