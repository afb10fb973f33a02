package pinboard

import (
	"testing"
)

func TestVisibleRecordsFiltersInactive(t *testing.T) {
	model := NewModel()
	view := NewView(model)
	model.Initialize(
		map[string]struct{}{"a": {}, "c": {}},
		map[string]string{"a": "A", "b": "B", "c": "C"},
		[]string{"a", "b", "c"},
		nil,
	)

	records := view.VisibleRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 visible records, got %d", len(records))
	}
	if records[0].CommandID != "a" || records[1].CommandID != "c" {
		t.Fatalf("expected active records in model order, got %v", records)
	}
}

func TestVisibleRecordsInvokesInitializer(t *testing.T) {
	model := NewModel()
	view := NewView(model)
	calls := 0
	view.bindInitializer(func() {
		calls++
		model.Add("Build", "cmake.build")
	})

	records := view.VisibleRecords()
	if calls != 1 {
		t.Fatalf("expected initializer invoked once, got %d", calls)
	}
	if len(records) != 1 || records[0].CommandID != "cmake.build" {
		t.Fatalf("expected initializer's record visible, got %v", records)
	}
	view.VisibleRecords()
	if calls != 2 {
		t.Fatalf("expected initializer invoked per call, got %d", calls)
	}
}

func TestNotifyRefreshCoalesces(t *testing.T) {
	view := NewView(NewModel())
	view.NotifyRefresh()
	view.NotifyRefresh()
	view.NotifyRefresh()

	select {
	case <-view.Changes():
	default:
		t.Fatal("expected a pending change notification")
	}
	select {
	case <-view.Changes():
		t.Fatal("expected notifications to coalesce into one")
	default:
	}
}
