package pinboard

// View projects the model for rendering: only records whose command is
// currently active are visible, in model order. The view never mutates the
// model; the hosting shell re-pulls VisibleRecords after each change
// notification.
type View struct {
	model       *Model
	initializer func()
	changes     chan struct{}
}

func NewView(model *Model) *View {
	return &View{
		model:   model,
		changes: make(chan struct{}, 1),
	}
}

// bindInitializer installs the hook that moves the board out of its
// uninitialized state on the first visible-records request.
func (v *View) bindInitializer(fn func()) {
	v.initializer = fn
}

// VisibleRecords returns the active subsequence of the model's records.
func (v *View) VisibleRecords() []Record {
	if v.initializer != nil {
		v.initializer()
	}
	var visible []Record
	for _, rec := range v.model.Records() {
		if rec.Active {
			visible = append(visible, rec)
		}
	}
	return visible
}

// NotifyRefresh raises a coalesced change notification.
func (v *View) NotifyRefresh() {
	select {
	case v.changes <- struct{}{}:
	default:
	}
}

// Changes exposes the change-notification channel consumed by the shell.
func (v *View) Changes() <-chan struct{} {
	return v.changes
}
