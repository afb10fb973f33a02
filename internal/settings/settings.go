// Package settings exposes the two external sources of pinned-command
// state: the declared configuration (a viper-read `pins` list) and the
// session-persisted store (a diskv key-value directory that survives
// restarts). The component only ever writes its own key.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
	"github.com/spf13/viper"

	"github.com/atomicstack/tmux-pinboard/internal/logging"
)

const (
	// persistKey is the single key this component owns in the store.
	persistKey = "pinnedCommands"

	defaultBoardPath = "~/.tmux-pinboard"
	configName       = ".tmux-pinboard"
	envPrefix        = "TMUX_PINBOARD"
	declaredKey      = "pins"
)

// Store merges the declared configuration with the persisted board state.
type Store struct {
	v        *viper.Viper
	d        *diskv.Diskv
	basePath string

	mu      sync.Mutex
	nextSub int
	subs    map[int]func()
	watched bool
}

// Open prepares the store under boardPath (defaulting to ~/.tmux-pinboard)
// and reads the declared configuration. A missing config file is not an
// error; declared pins are simply absent.
func Open(boardPath string) (*Store, error) {
	if boardPath == "" {
		boardPath = defaultBoardPath
	}
	base, err := homedir.Expand(boardPath)
	if err != nil {
		return nil, fmt.Errorf("expand board path: %w", err)
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create board directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read declared config: %w", err)
		}
	}

	s := &Store{
		v: v,
		d: diskv.New(diskv.Options{
			BasePath:     filepath.Join(base, "state"),
			Transform:    func(string) []string { return nil },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: base,
		subs:     make(map[int]func()),
	}
	return s, nil
}

// BasePath reports the resolved board directory.
func (s *Store) BasePath() string {
	return s.basePath
}

// Declared returns the pinned commands listed in configuration, or nil when
// the setting is absent.
func (s *Store) Declared() []string {
	ids := s.v.GetStringSlice(declaredKey)
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// PinnedIDs reads the persisted command-id sequence. An absent key yields
// nil without error.
func (s *Store) PinnedIDs() ([]string, error) {
	if !s.d.Has(persistKey) {
		return nil, nil
	}
	raw, err := s.d.Read(persistKey)
	if err != nil {
		return nil, fmt.Errorf("read persisted pins: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode persisted pins: %w", err)
	}
	return ids, nil
}

// SavePinnedIDs replaces the persisted command-id sequence.
func (s *Store) SavePinnedIDs(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode persisted pins: %w", err)
	}
	if err := s.d.Write(persistKey, raw); err != nil {
		return fmt.Errorf("write persisted pins: %w", err)
	}
	return nil
}

// Subscription is an explicit handle for a config-change callback. Cancel
// detaches the handler; cancelling twice is harmless.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel releases the subscription.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// OnConfigChanged registers a handler invoked whenever the declared
// configuration file changes on disk. The first subscriber arms the
// underlying file watch.
func (s *Store) OnConfigChanged(handler func()) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = handler
	if !s.watched && s.v.ConfigFileUsed() != "" {
		s.watched = true
		s.v.OnConfigChange(func(fsnotify.Event) {
			logging.Trace("config.changed", map[string]interface{}{"file": s.v.ConfigFileUsed()})
			s.notify()
		})
		s.v.WatchConfig()
	}
	return &Subscription{cancel: func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}}
}

func (s *Store) notify() {
	s.mu.Lock()
	handlers := make([]func(), 0, len(s.subs))
	for _, h := range s.subs {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}
