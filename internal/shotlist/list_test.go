package shotlist

import (
	"image"
	"testing"

	"github.com/cmorrow/shotlist/internal/render"
	"github.com/cmorrow/shotlist/internal/shot"
)

// fakeCapturer returns a solid-color screen of a fixed size.
type fakeCapturer struct {
	w, h int
}

func (f *fakeCapturer) Start() error      { return nil }
func (f *fakeCapturer) Stop() error       { return nil }
func (f *fakeCapturer) Name() string      { return "fake" }
func (f *fakeCapturer) IsAvailable() bool { return true }

func (f *fakeCapturer) CaptureScreen() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return img, nil
}

// recordingHost records what the model publishes.
type recordingHost struct {
	redraws             int
	min, max, page, pos int
	scrollInfoUpdates   int
}

func (h *recordingHost) RequestRedraw() { h.redraws++ }

func (h *recordingHost) SetScrollInfo(min, max, page, pos int) {
	h.min, h.max, h.page, h.pos = min, max, page, pos
	h.scrollInfoUpdates++
}

// addShot appends an already-captured shot, oldest last.
func addShot(l *List, w, h int) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	l.shots = append(l.shots, shot.New(img))
}

func TestCaptureOnEmptyList(t *testing.T) {
	host := &recordingHost{}
	l := New(host, &fakeCapturer{w: 80, h: 60}, t.TempDir())
	l.OnResize(600, 400)

	l.CaptureAndPrepend()

	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	if l.SelectedIndex != 0 {
		t.Fatalf("SelectedIndex = %d, want 0", l.SelectedIndex)
	}
	if l.ListScroll != 0 {
		t.Fatalf("ListScroll = %d, want 0", l.ListScroll)
	}
	s := l.At(0)
	if s.FileName == "" {
		t.Fatal("captured shot has no file name")
	}
	if !shot.PathExists(s.FileName) {
		t.Fatalf("screenshot file %q was not written", s.FileName)
	}
	if host.redraws == 0 {
		t.Fatal("no redraw requested after capture")
	}
}

func TestCapturePrependsNewestFirst(t *testing.T) {
	l := New(nil, &fakeCapturer{w: 80, h: 60}, t.TempDir())
	l.OnResize(600, 400)

	l.CaptureAndPrepend()
	first := l.At(0)
	l.CaptureAndPrepend()

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	if l.At(1) != first {
		t.Fatal("earlier capture is not at the back")
	}
	if l.SelectedIndex != 0 {
		t.Fatalf("SelectedIndex = %d, want 0 (newest)", l.SelectedIndex)
	}
	if l.At(0).FileName == l.At(1).FileName {
		t.Fatalf("both captures share file name %q", l.At(0).FileName)
	}
}

func TestSelectItemClamps(t *testing.T) {
	l := New(nil, nil, "")
	for i := 0; i < 3; i++ {
		addShot(l, 80, 60)
	}

	tests := []struct {
		name  string
		index int
		want  int
	}{
		{"negative clamps to first", -5, 0},
		{"in range", 1, 1},
		{"past end clamps to last", 99, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l.SelectItem(tt.index)
			if l.SelectedIndex != tt.want {
				t.Fatalf("SelectedIndex = %d, want %d", l.SelectedIndex, tt.want)
			}
		})
	}
}

func TestSelectItemEmptyList(t *testing.T) {
	l := New(nil, nil, "")
	l.SelectItem(3)
	if l.SelectedIndex != -1 {
		t.Fatalf("SelectedIndex = %d, want -1", l.SelectedIndex)
	}
}

func TestSelectSameIndexNoRedraw(t *testing.T) {
	host := &recordingHost{}
	l := New(host, nil, "")
	addShot(l, 80, 60)
	l.SelectItem(0)

	before := host.redraws
	l.SelectItem(0)
	if host.redraws != before {
		t.Fatal("re-selecting the same index requested a redraw")
	}
}

func TestItemVerticalBounds(t *testing.T) {
	l := New(nil, nil, "")
	l.ListWidth = 400
	// 800x600 shots drawn 390 wide are ceil(600*390/800) = 293 tall.
	addShot(l, 800, 600)
	addShot(l, 800, 600)

	y, h := l.ItemVerticalBounds(0)
	if y != 0 || h != 303 {
		t.Fatalf("item 0 bounds = (%d,%d), want (0,303)", y, h)
	}

	// Item 1 starts one margin plus one shot height down: 5 + 293.
	y, h = l.ItemVerticalBounds(1)
	if y != 298 || h != 303 {
		t.Fatalf("item 1 bounds = (%d,%d), want (298,303)", y, h)
	}

	// The sentinel index reports the total content height with no
	// height of its own: 2*(5+293) + 5 = 601.
	y, h = l.ItemVerticalBounds(2)
	if y != 601 || h != 0 {
		t.Fatalf("sentinel bounds = (%d,%d), want (601,0)", y, h)
	}
	if got := l.ContentHeight(); got != 601 {
		t.Fatalf("ContentHeight = %d, want 601", got)
	}
}

func TestContentHeightEmpty(t *testing.T) {
	l := New(nil, nil, "")
	if got := l.ContentHeight(); got != 0 {
		t.Fatalf("ContentHeight = %d, want 0", got)
	}
}

func TestScrollToSelectedRevealsBottom(t *testing.T) {
	l := New(nil, nil, "")
	l.ListWidth = 400
	for i := 0; i < 5; i++ {
		addShot(l, 800, 600)
	}
	l.OnResize(800, 400)

	// Item 4 spans [1192, 1495); with a 400-tall view the scroll lands
	// at 1495 - 400 = 1095, aligning the item bottom with the view
	// bottom.
	l.SelectItem(4)
	if l.ListScroll != 1095 {
		t.Fatalf("ListScroll = %d, want 1095", l.ListScroll)
	}

	// Selecting back up reveals the top instead.
	l.SelectItem(0)
	if l.ListScroll != 0 {
		t.Fatalf("ListScroll = %d, want 0", l.ListScroll)
	}
}

func TestScrollToSelectedTallItemShowsTop(t *testing.T) {
	l := New(nil, nil, "")
	l.ListWidth = 400
	addShot(l, 800, 600)
	// A portrait shot far taller than the viewport.
	addShot(l, 400, 3000)
	l.OnResize(800, 400)

	l.SelectItem(1)
	y, _ := l.ItemVerticalBounds(1)
	if l.ListScroll != y {
		t.Fatalf("ListScroll = %d, want item top %d", l.ListScroll, y)
	}
}

func TestDeleteSelectedLastItem(t *testing.T) {
	host := &recordingHost{}
	l := New(host, nil, "")
	for i := 0; i < 3; i++ {
		addShot(l, 800, 600)
	}
	l.OnResize(800, 400)
	l.SelectItem(2)

	deleted := l.At(2)
	l.DeleteSelected()

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	// Selection clamps to the new last item.
	if l.SelectedIndex != 1 {
		t.Fatalf("SelectedIndex = %d, want 1", l.SelectedIndex)
	}
	if !deleted.Empty() {
		t.Fatal("deleted shot was not released")
	}
}

func TestDeleteOnlyItem(t *testing.T) {
	l := New(nil, nil, "")
	addShot(l, 80, 60)
	l.SelectItem(0)

	l.DeleteSelected()

	if l.Len() != 0 {
		t.Fatalf("Len = %d, want 0", l.Len())
	}
	if l.SelectedIndex != -1 {
		t.Fatalf("SelectedIndex = %d, want -1", l.SelectedIndex)
	}
	if got := l.ContentHeight(); got != 0 {
		t.Fatalf("ContentHeight = %d, want 0 after deleting the only item", got)
	}
}

func TestDeleteWithNoSelection(t *testing.T) {
	l := New(nil, nil, "")
	addShot(l, 80, 60)

	l.DeleteSelected()
	if l.Len() != 1 {
		t.Fatal("delete without selection removed an item")
	}
}

func TestOnKeySelectionMoves(t *testing.T) {
	l := New(nil, nil, "")
	for i := 0; i < 3; i++ {
		addShot(l, 80, 60)
	}
	l.SelectItem(1)

	l.OnKey(KeyDown)
	if l.SelectedIndex != 2 {
		t.Fatalf("after KeyDown SelectedIndex = %d, want 2", l.SelectedIndex)
	}
	l.OnKey(KeyDown) // already at the end
	if l.SelectedIndex != 2 {
		t.Fatalf("KeyDown past end moved selection to %d", l.SelectedIndex)
	}

	l.OnKey(KeyUp)
	l.OnKey(KeyUp)
	l.OnKey(KeyUp) // already at the start
	if l.SelectedIndex != 0 {
		t.Fatalf("after KeyUp runs SelectedIndex = %d, want 0", l.SelectedIndex)
	}
}

func TestOnScroll(t *testing.T) {
	host := &recordingHost{}
	l := New(host, nil, "")
	l.ListWidth = 400
	for i := 0; i < 5; i++ {
		addShot(l, 800, 600) // content height 1495
	}
	l.OnResize(800, 400)

	tests := []struct {
		name string
		req  ScrollRequest
		pos  int
		want int
	}{
		{"line down", ScrollLineDown, 0, ScrollLineAmount},
		{"page down", ScrollPageDown, 0, ScrollLineAmount + 400},
		{"line up", ScrollLineUp, 0, 400},
		{"thumb", ScrollThumbPosition, 777, 777},
		{"thumb past max clamps", ScrollThumbPosition, 9999, 1095},
		{"page up", ScrollPageUp, 0, 695},
		{"clamped at zero", ScrollThumbPosition, -50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l.OnScroll(tt.req, tt.pos)
			if l.ListScroll != tt.want {
				t.Fatalf("ListScroll = %d, want %d", l.ListScroll, tt.want)
			}
			if host.pos != tt.want {
				t.Fatalf("published pos = %d, want %d", host.pos, tt.want)
			}
		})
	}

	if host.min != 0 || host.max != 1495 || host.page != 400 {
		t.Fatalf("scroll info = (%d,%d,%d), want (0,1495,400)",
			host.min, host.max, host.page)
	}
}

func TestResizeReclampsScroll(t *testing.T) {
	l := New(nil, nil, "")
	l.ListWidth = 400
	for i := 0; i < 5; i++ {
		addShot(l, 800, 600)
	}
	l.OnResize(800, 400)
	l.OnScroll(ScrollThumbPosition, 1095)

	// Growing the view shrinks the scrollable range: 1495 - 1200 = 295.
	l.OnResize(800, 1200)
	if l.ListScroll != 295 {
		t.Fatalf("ListScroll = %d, want 295", l.ListScroll)
	}
}

func TestRenderMainDoesNotMutateModel(t *testing.T) {
	l := New(nil, nil, "")
	l.ListWidth = 400
	for i := 0; i < 3; i++ {
		addShot(l, 800, 600)
	}
	l.OnResize(800, 400)
	l.SelectItem(1)
	scroll := l.ListScroll

	cv := render.NewImageCanvas(800, 400)
	l.RenderMain(render.NewViewport(cv))
	l.RenderMain(render.NewViewport(cv))

	if l.ListScroll != scroll || l.SelectedIndex != 1 || l.Len() != 3 {
		t.Fatal("rendering mutated model state")
	}
}

func TestRenderMainDividerAndHighlight(t *testing.T) {
	l := New(nil, nil, "")
	l.ListWidth = 400
	addShot(l, 800, 600)
	l.OnResize(800, 400)
	l.SelectItem(0)

	cv := render.NewImageCanvas(800, 400)
	l.RenderMain(render.NewViewport(cv))
	img := cv.Image()

	// Divider occupies x in [397, 400).
	if got := img.RGBAAt(398, 200); got != render.ColorGrayText {
		t.Fatalf("divider pixel = %v, want %v", got, render.ColorGrayText)
	}

	// The highlight frame extends HighlightFrameThickness beyond the
	// item: the item starts at list x 400+5, so the frame covers
	// x in [401, 405).
	if got := img.RGBAAt(402, 20); got != render.ColorHighlight {
		t.Fatalf("highlight pixel = %v, want %v", got, render.ColorHighlight)
	}
}

func TestRenderEmptyListMessage(t *testing.T) {
	l := New(nil, nil, "")
	l.OnResize(800, 400)

	cv := render.NewImageCanvas(800, 400)
	l.RenderMain(render.NewViewport(cv))
	img := cv.Image()

	// "No screenshots" appears in the list column; some pixel near its
	// origin must be text-colored.
	found := false
	for y := 0; y < 30 && !found; y++ {
		for x := 405; x < 520; x++ {
			if img.RGBAAt(x, y) == render.ColorWindowText {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("empty-list message not drawn in the list column")
	}

	// And the large pane says nothing is selected.
	found = false
	for y := 0; y < 30 && !found; y++ {
		for x := 5; x < 200; x++ {
			if img.RGBAAt(x, y) == render.ColorWindowText {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("no-selection message not drawn in the large pane")
	}
}
