package events

import "github.com/atomicstack/tmux-pinboard/internal/logging"

type BoardTracer struct{}

type PromptTracer struct{}

type RunTracer struct{}

var (
	Board  = BoardTracer{}
	Prompt = PromptTracer{}
	Run    = RunTracer{}
)

func (BoardTracer) Rebuilt(declared, persisted, kept int) {
	logging.Trace("board.rebuilt", map[string]interface{}{
		"declared":  declared,
		"persisted": persisted,
		"kept":      kept,
	})
}

func (BoardTracer) Pinned(id, label string) {
	logging.Trace("board.pin", map[string]interface{}{"id": id, "label": label})
}

func (BoardTracer) AlreadyPinned(id, label string) {
	logging.Trace("board.pin-duplicate", map[string]interface{}{"id": id, "label": label})
}

func (BoardTracer) Unpinned(label string) {
	logging.Trace("board.unpin", map[string]interface{}{"label": label})
}

func (BoardTracer) Persisted(ids []string) {
	logging.Trace("board.persist", map[string]interface{}{"ids": ids})
}

func (PromptTracer) Open(candidates int) {
	logging.Trace("prompt.open", map[string]interface{}{"candidates": candidates})
}

func (PromptTracer) Cancelled() {
	logging.Trace("prompt.cancel", nil)
}

func (PromptTracer) Selected(id, label string) {
	logging.Trace("prompt.select", map[string]interface{}{"id": id, "label": label})
}

func (RunTracer) Start(id string) {
	logging.Trace("run.start", map[string]interface{}{"id": id})
}

func (RunTracer) Result(id string, err error) {
	payload := map[string]interface{}{"id": id}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("run.result", payload)
}
