// Package shotlist holds the screenshot list model: an ordered,
// newest-first collection of captured screens with selection and
// scroll state, its two-pane rendering, and its JSON persistence.
package shotlist

import (
	"os"
	"time"

	"github.com/cmorrow/shotlist/internal/capture"
	"github.com/cmorrow/shotlist/internal/logger"
	"github.com/cmorrow/shotlist/internal/shot"
)

// Layout constants, in pixels.
const (
	// DividerWidth is the width of the divider separating the list
	// from the larger-size display of the selected screenshot.
	DividerWidth = 3

	// ListMargin is the margin between the list contents and its area
	// edge, and between different list elements.
	ListMargin = 5

	// HighlightFrameThickness is the thickness of the item highlight
	// frame.
	HighlightFrameThickness = 4

	// LargeShotMargin is the margin of the larger selected-shot area.
	LargeShotMargin = 5

	// ScrollLineAmount is how far the content scrolls when the scroll
	// bar up/down buttons are clicked.
	ScrollLineAmount = 20

	// DefaultListWidth is the initial width of the thumbnail column.
	DefaultListWidth = 400
)

// Host is what the model asks of its surrounding window glue. A real
// window adapter invalidates pixels and moves a native scroll bar; the
// preview server pushes a fresh frame to its clients.
type Host interface {
	// RequestRedraw signals that model state changed and the next
	// paint cycle should run. Requests may be coalesced.
	RequestRedraw()

	// SetScrollInfo publishes the vertical scroll range: minimum 0,
	// maximum the full content height, page the viewport height, pos
	// the current scroll offset.
	SetScrollInfo(min, max, page, pos int)
}

// nopHost is used when no host is attached (tests, one-shot commands).
type nopHost struct{}

func (nopHost) RequestRedraw()                        {}
func (nopHost) SetScrollInfo(min, max, page, pos int) {}

// List is the screenshot list model. All methods are meant to run on
// the single thread that owns the drawing surface; there is no
// internal locking.
type List struct {
	// shots is ordered most-recently-captured first.
	shots []*shot.Shot

	// SelectedIndex is the selected entry, -1 for no selection.
	SelectedIndex int

	// ListWidth is the pixel width reserved for the thumbnail column.
	ListWidth int

	// ListScroll is how far down the thumbnail column is scrolled.
	ListScroll int

	// HotkeysRegistered mirrors whether the host has global hotkeys
	// registered. The model only persists the flag; registration
	// itself is host glue.
	HotkeysRegistered bool

	// Viewport dimensions from the last resize notification.
	viewWidth  int
	viewHeight int

	host     Host
	capturer capture.Capturer
	shotsDir string
}

// New creates an empty list. host may be nil when no window is
// attached; capturer may be nil if CaptureAndPrepend is never used.
func New(host Host, capturer capture.Capturer, shotsDir string) *List {
	if host == nil {
		host = nopHost{}
	}
	return &List{
		SelectedIndex: -1,
		ListWidth:     DefaultListWidth,
		host:          host,
		capturer:      capturer,
		shotsDir:      shotsDir,
	}
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.shots)
}

// At returns the entry at index i, newest first.
func (l *List) At(i int) *shot.Shot {
	return l.shots[i]
}

// Selected returns the selected entry, nil if there is none.
func (l *List) Selected() *shot.Shot {
	if l.SelectedIndex < 0 || l.SelectedIndex >= len(l.shots) {
		return nil
	}
	return l.shots[l.SelectedIndex]
}

// CaptureAndPrepend captures the current screen, saves it to a fresh
// file under the shots directory, and inserts it at the front of the
// list. This is the only operation that grows the collection. Capture
// and save failures are unrecoverable: a failed grab leaves no
// meaningful partial state, so the process terminates.
func (l *List) CaptureAndPrepend() {
	log := logger.WithComponent("shotlist")

	img, err := l.capturer.CaptureScreen()
	if err != nil {
		logger.Fatal(err, "screen capture failed")
	}

	s := shot.New(img)
	now := time.Now()
	s.Timestamp = now.Format(time.RFC3339)

	if err := os.MkdirAll(l.shotsDir, 0755); err != nil {
		logger.Fatal(err, "failed to create shots directory")
	}
	name, err := shot.ChooseFileName(l.shotsDir, now, shot.PathExists)
	if err != nil {
		logger.Fatal(err, "failed to pick a screenshot file name")
	}
	s.FileName = name
	if err := s.WriteBMPFile(); err != nil {
		logger.Fatal(err, "failed to write screenshot file")
	}

	log.Info().
		Str("file", s.FileName).
		Int("width", s.Width()).
		Int("height", s.Height()).
		Msg("Captured screenshot")

	l.shots = append([]*shot.Shot{s}, l.shots...)
	l.SelectItem(0)
	l.setScrollInfo()
	l.host.RequestRedraw()
}

// DeleteSelected removes the selected entry and releases its image.
// No-op when nothing is selected.
func (l *List) DeleteSelected() {
	if len(l.shots) == 0 || l.SelectedIndex < 0 {
		return
	}

	l.shots[l.SelectedIndex].Release()
	l.shots = append(l.shots[:l.SelectedIndex], l.shots[l.SelectedIndex+1:]...)

	l.boundSelectedIndex()
	l.setScrollInfo()
	l.host.RequestRedraw()
}

// SelectItem selects the entry nearest newIndex: the index is clamped
// into the valid range, or forced to -1 when the list is empty.
// Selecting the already-selected index changes nothing and requests no
// redraw.
func (l *List) SelectItem(newIndex int) {
	if len(l.shots) == 0 {
		newIndex = -1
	} else {
		if newIndex < 0 {
			newIndex = 0
		}
		if newIndex > len(l.shots)-1 {
			newIndex = len(l.shots) - 1
		}
	}

	if newIndex != l.SelectedIndex {
		l.SelectedIndex = newIndex
		l.scrollToSelectedIndex()
		l.setScrollInfo()
		l.host.RequestRedraw()
	}
}

// boundSelectedIndex re-clamps the selection after a removal.
func (l *List) boundSelectedIndex() {
	l.SelectItem(l.SelectedIndex)
}

// Clear releases every entry and empties the list.
func (l *List) Clear() {
	for _, s := range l.shots {
		s.Release()
	}
	l.shots = nil
	l.SelectedIndex = -1
	l.ListScroll = 0
}

// ItemVerticalBounds returns the top offset and height of the chosen
// item within the scrolled list content. An item's height includes
// both its top and bottom margins, even though those overlap with
// adjacent elements; the overlap is what the highlight-frame expansion
// is sized against. An out-of-range index acts as a sentinel one past
// the end: its y is the total content height and its height is 0.
func (l *List) ItemVerticalBounds(chosenIndex int) (y, h int) {
	innerWidth := l.ListWidth - ListMargin*2

	for currentIndex, s := range l.shots {
		shotHeight := s.HeightForWidth(innerWidth)

		if currentIndex == chosenIndex {
			return y, shotHeight + ListMargin*2
		}

		y += ListMargin + shotHeight
	}

	// chosenIndex is invalid; report the bounds of an item just
	// beyond the end.
	return y + ListMargin, 0
}

// ContentHeight returns the total height of the list content absent
// any scrolling or clipping. An empty list has no content, not one
// margin's worth.
func (l *List) ContentHeight() int {
	if len(l.shots) == 0 {
		return 0
	}
	y, _ := l.ItemVerticalBounds(-1)
	return y
}

// scrollToSelectedIndex adjusts ListScroll by the minimum amount that
// brings the selected item fully into view. At most one of the two
// adjustments applies; an item taller than the viewport shows its top.
func (l *List) scrollToSelectedIndex() {
	if l.SelectedIndex < 0 {
		return
	}

	y, h := l.ItemVerticalBounds(l.SelectedIndex)

	// Is the bottom of the selected item below the bottom of the view?
	if y+h > l.ListScroll+l.viewHeight {
		l.ListScroll = y + h - l.viewHeight
	}

	// Is the top of the item above the top of the view?
	if y < l.ListScroll {
		l.ListScroll = y
	}
}

// ClampScroll forces ListScroll back into the valid range. Invoked
// after every mutation that can change content height, viewport
// height, or the scroll offset itself.
func (l *List) ClampScroll() {
	maxScroll := l.ContentHeight() - l.viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if l.ListScroll > maxScroll {
		l.ListScroll = maxScroll
	}
	if l.ListScroll < 0 {
		l.ListScroll = 0
	}
}

// setScrollInfo clamps the scroll offset and publishes the scroll
// range to the host.
func (l *List) setScrollInfo() {
	l.ClampScroll()
	l.host.SetScrollInfo(0, l.ContentHeight(), l.viewHeight, l.ListScroll)
}

// ViewSize returns the viewport dimensions from the last resize.
func (l *List) ViewSize() (w, h int) {
	return l.viewWidth, l.viewHeight
}
