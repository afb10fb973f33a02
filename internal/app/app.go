package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/tmux-pinboard/internal/backend"
	"github.com/atomicstack/tmux-pinboard/internal/catalog"
	"github.com/atomicstack/tmux-pinboard/internal/host"
	"github.com/atomicstack/tmux-pinboard/internal/pinboard"
	"github.com/atomicstack/tmux-pinboard/internal/settings"
	"github.com/atomicstack/tmux-pinboard/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath string
	BoardPath  string
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := host.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}

	store, err := settings.Open(cfg.BoardPath)
	if err != nil {
		return fmt.Errorf("open board store: %w", err)
	}

	boardModel := pinboard.NewModel()
	boardView := pinboard.NewView(boardModel)
	controller := pinboard.NewController(
		boardModel,
		boardView,
		store,
		func(commandID string) error { return host.Execute(socketPath, commandID) },
		func() (catalog.Snapshot, error) { return catalog.Fetch(socketPath) },
	)

	watcher := backend.NewWatcher(socketPath, 1500*time.Millisecond)
	// Close cancels the config subscription, so it must run before Stop
	// closes the event channel.
	defer watcher.Stop()
	controller.Manage(store.OnConfigChanged(watcher.NotifyConfig))
	defer controller.Close()

	model := ui.NewModel(cfg.Width, cfg.Height, cfg.ShowFooter, cfg.Verbose, watcher, controller, boardView)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
