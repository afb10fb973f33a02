// Package ui implements the Bubble Tea shell around the pinboard: the
// board list itself plus the add-command selection prompt.
package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/tmux-pinboard/internal/backend"
	"github.com/atomicstack/tmux-pinboard/internal/pinboard"
	"github.com/atomicstack/tmux-pinboard/internal/theme"
	uistate "github.com/atomicstack/tmux-pinboard/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type Mode int

const (
	ModeBoard Mode = iota
	ModePicker
)

const (
	headerSeparator = "→"
	boardTitle      = "pinned commands"
	pickerTitle     = "add command"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the pinboard popup.
type Model struct {
	board  *level
	picker *level

	mode              Mode
	errMsg            string
	infoMsg           string
	infoExpire        time.Time
	width             int
	height            int
	fixedWidth        bool
	fixedHeight       bool
	backend           *backend.Watcher
	backendLastErr    string
	showFooter        bool
	verbose           bool
	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler

	controller *pinboard.Controller
	boardView  *pinboard.View
}

// NewModel initialises the UI state around an already-wired controller and
// view.
func NewModel(width, height int, showFooter, verbose bool, watcher *backend.Watcher, controller *pinboard.Controller, view *pinboard.View) *Model {
	m := &Model{
		board:      uistate.NewLevel("board", boardTitle, nil),
		mode:       ModeBoard,
		backend:    watcher,
		showFooter: showFooter,
		verbose:    verbose,
		controller: controller,
		boardView:  view,
	}
	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	m.refreshBoard()
	cmds := []tea.Cmd{waitForViewChange(m.boardView)}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(viewChangedMsg{}):    m.handleViewChangedMsg,
		reflect.TypeOf(runResultMsg{}):      m.handleRunResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	sizeMsg, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = sizeMsg.Width
	}
	if !m.fixedHeight {
		m.height = sizeMsg.Height
	}
	m.syncViewport(m.currentLevel())
	return nil
}

func (m *Model) currentLevel() *level {
	if m.mode == ModePicker && m.picker != nil {
		return m.picker
	}
	return m.board
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

// refreshBoard re-pulls the view's visible projection into the board level.
func (m *Model) refreshBoard() {
	records := m.boardView.VisibleRecords()
	items := make([]uistate.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, uistate.Item{ID: rec.CommandID, Label: rec.Label})
	}
	m.board.UpdateItems(items)
	if m.board.Cursor < 0 && len(m.board.Items) > 0 {
		m.board.Cursor = 0
	}
	m.syncViewport(m.board)
}
