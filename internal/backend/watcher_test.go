package backend

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/tmux-pinboard/internal/catalog"
)

type scriptedFetch struct {
	mu    sync.Mutex
	snaps []catalog.Snapshot
	errs  []error
	calls int
}

func (s *scriptedFetch) fetch(string) (catalog.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx >= len(s.snaps) {
		idx = len(s.snaps) - 1
	}
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	return s.snaps[idx], err
}

func swapFetch(t *testing.T, f func(string) (catalog.Snapshot, error)) {
	t.Helper()
	original := fetchCatalog
	fetchCatalog = f
	t.Cleanup(func() { fetchCatalog = original })
}

func collectEvents(t *testing.T, w *Watcher, n int, timeout time.Duration) []Event {
	t.Helper()
	events := make([]Event, 0, n)
	deadline := time.After(timeout)
	for len(events) < n {
		select {
		case evt, ok := <-w.Events():
			if !ok {
				return events
			}
			events = append(events, evt)
		case <-deadline:
			t.Fatalf("timed out after %d of %d events", len(events), n)
		}
	}
	return events
}

func TestWatcherEmitsInitialCatalogEvent(t *testing.T) {
	script := &scriptedFetch{snaps: []catalog.Snapshot{catalog.Parse([]string{"new-window"})}}
	swapFetch(t, script.fetch)

	w := NewWatcher("", time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	events := collectEvents(t, w, 1, 2*time.Second)
	if events[0].Kind != KindCatalog {
		t.Fatalf("expected catalog event, got kind %v", events[0].Kind)
	}
	snap, ok := events[0].Data.(catalog.Snapshot)
	if !ok {
		t.Fatalf("expected snapshot payload, got %T", events[0].Data)
	}
	if len(snap.IDs) != 1 || snap.IDs[0] != "new-window" {
		t.Fatalf("unexpected snapshot %v", snap.IDs)
	}
}

func TestWatcherSuppressesUnchangedPolls(t *testing.T) {
	same := catalog.Parse([]string{"new-window"})
	changed := catalog.Parse([]string{"new-window", "split-window"})
	script := &scriptedFetch{snaps: []catalog.Snapshot{same, same, changed}}
	swapFetch(t, script.fetch)

	w := NewWatcher("", 10*time.Millisecond)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	events := collectEvents(t, w, 2, 5*time.Second)
	first, ok := events[0].Data.(catalog.Snapshot)
	if !ok || len(first.IDs) != 1 {
		t.Fatalf("unexpected first event %v", events[0])
	}
	second, ok := events[1].Data.(catalog.Snapshot)
	if !ok || len(second.IDs) != 2 {
		t.Fatalf("expected suppressed middle poll, got %v", events[1])
	}
}

func TestWatcherReportsFetchErrors(t *testing.T) {
	boom := errors.New("no server")
	script := &scriptedFetch{
		snaps: []catalog.Snapshot{{}},
		errs:  []error{boom},
	}
	swapFetch(t, script.fetch)

	w := NewWatcher("", time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	events := collectEvents(t, w, 1, 2*time.Second)
	if !errors.Is(events[0].Err, boom) {
		t.Fatalf("expected fetch error surfaced, got %v", events[0].Err)
	}
}

func TestNotifyConfigQueuesEvent(t *testing.T) {
	script := &scriptedFetch{snaps: []catalog.Snapshot{catalog.Parse([]string{"new-window"})}}
	swapFetch(t, script.fetch)

	w := NewWatcher("", time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	collectEvents(t, w, 1, 2*time.Second)
	w.NotifyConfig()
	events := collectEvents(t, w, 1, 2*time.Second)
	if events[0].Kind != KindConfig {
		t.Fatalf("expected config event, got kind %v", events[0].Kind)
	}
}

func TestNotifyConfigAfterStopIsDropped(t *testing.T) {
	script := &scriptedFetch{snaps: []catalog.Snapshot{catalog.Parse([]string{"new-window"})}}
	swapFetch(t, script.fetch)

	w := NewWatcher("", time.Hour)
	collectEvents(t, w, 1, 2*time.Second)
	w.Stop()
	w.Wait()
	w.NotifyConfig() // must not panic on the closed channel

	if _, ok := <-w.Events(); ok {
		t.Fatal("expected events channel closed after Stop")
	}
}

func TestStopClosesEventsChannel(t *testing.T) {
	script := &scriptedFetch{snaps: []catalog.Snapshot{catalog.Parse([]string{"new-window"})}}
	swapFetch(t, script.fetch)

	w := NewWatcher("", time.Hour)
	collectEvents(t, w, 1, 2*time.Second)
	w.Stop()
	w.Wait()

	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatal("expected no further events after Stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected events channel to close")
	}
}
