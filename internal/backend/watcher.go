package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/tmux-pinboard/internal/catalog"
)

// Kind represents the type of change emitted by the backend watcher.
type Kind int

const (
	KindCatalog Kind = iota
	KindConfig
)

// Event conveys a fresh catalog snapshot, a config-change notice, or an
// error from a poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Watcher polls the tmux command catalog at a fixed interval and forwards
// declared-config change notices, multiplexed onto one channel. Catalog
// polls that observe no change in the active command set are suppressed.
type Watcher struct {
	socketPath string
	interval   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// fetchCatalog is swappable for tests.
var fetchCatalog = catalog.Fetch

// NewWatcher creates a backend watcher that polls the catalog every
// interval.
func NewWatcher(socketPath string, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		socketPath: socketPath,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan Event, 16),
	}

	w.startCatalogPoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// NotifyConfig queues a config-change event. Safe to call from any
// goroutine while the watcher is running; dropped silently after Stop.
// Callers must detach their config subscriptions before Stop.
func (w *Watcher) NotifyConfig() {
	if w.ctx.Err() != nil {
		return
	}
	select {
	case <-w.ctx.Done():
	case w.events <- Event{Kind: KindConfig}:
	}
}

// Stop cancels the watcher. The poller exits after its current fetch
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller goroutine has exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startCatalogPoller() {
	throttle := newThrottle(250 * time.Millisecond)
	w.wg.Add(1)
	go w.poll(func(ctx context.Context) (catalog.Snapshot, error) {
		throttle.wait()
		return fetchCatalog(w.socketPath)
	})
}

func (w *Watcher) poll(fetch func(context.Context) (catalog.Snapshot, error)) {
	defer w.wg.Done()

	lastFingerprint := ""
	lastErr := false
	emit := func() bool {
		snap, err := fetch(w.ctx)
		if err == nil {
			fp := snap.Fingerprint()
			if !lastErr && lastFingerprint != "" && fp == lastFingerprint {
				return true
			}
			lastFingerprint = fp
			lastErr = false
		} else {
			lastErr = true
		}
		evt := Event{Kind: KindCatalog, Data: snap, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
