package shotlist

// Key identifies a model-level input action. The host maps whatever
// physical bindings it has (global hotkeys, API requests) onto these.
type Key int

const (
	// KeyCapture takes a new screenshot.
	KeyCapture Key = iota
	// KeyUp selects the previous (newer) entry.
	KeyUp
	// KeyDown selects the next (older) entry.
	KeyDown
	// KeyDelete removes the selected entry.
	KeyDelete
	// KeyQuit asks the host to shut down. The model has no quit state;
	// hosts act on it themselves and OnKey treats it as a no-op.
	KeyQuit
)

// ScrollRequest identifies a vertical scroll gesture.
type ScrollRequest int

const (
	// ScrollLineUp scrolls up by one line amount.
	ScrollLineUp ScrollRequest = iota
	// ScrollLineDown scrolls down by one line amount.
	ScrollLineDown
	// ScrollPageUp scrolls up by one viewport height.
	ScrollPageUp
	// ScrollPageDown scrolls down by one viewport height.
	ScrollPageDown
	// ScrollThumbPosition jumps to an absolute offset.
	ScrollThumbPosition
)

// OnKey dispatches a key action to the matching model operation.
// Unknown keys are ignored.
func (l *List) OnKey(k Key) {
	switch k {
	case KeyCapture:
		l.CaptureAndPrepend()
	case KeyUp:
		l.SelectItem(l.SelectedIndex - 1)
	case KeyDown:
		l.SelectItem(l.SelectedIndex + 1)
	case KeyDelete:
		l.DeleteSelected()
	}
}

// OnScroll applies a scroll gesture. pos is only meaningful for
// ScrollThumbPosition; it carries the absolute target offset. The
// resulting offset is clamped and republished, and a redraw is
// requested even when the clamp lands on the same offset.
func (l *List) OnScroll(req ScrollRequest, pos int) {
	switch req {
	case ScrollLineUp:
		l.ListScroll -= ScrollLineAmount
	case ScrollLineDown:
		l.ListScroll += ScrollLineAmount
	case ScrollPageUp:
		l.ListScroll -= l.viewHeight
	case ScrollPageDown:
		l.ListScroll += l.viewHeight
	case ScrollThumbPosition:
		l.ListScroll = pos
	default:
		return
	}

	l.setScrollInfo()
	l.host.RequestRedraw()
}

// OnResize records the new viewport dimensions. Scroll state is
// re-clamped since a taller viewport shrinks the scrollable range.
func (l *List) OnResize(w, h int) {
	l.viewWidth = w
	l.viewHeight = h
	l.setScrollInfo()
	l.host.RequestRedraw()
}
