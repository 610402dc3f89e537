package shotlist

import (
	"github.com/cmorrow/shotlist/internal/render"
)

// RenderMain paints the whole two-pane layout into vp: the larger-size
// view of the selected shot on the left, a divider, and the thumbnail
// column on the right. Rendering reads model state but never mutates
// it; repeated renders of the same state produce the same pixels.
func (l *List) RenderMain(vp render.Viewport) {
	vp.FillBackground()

	cols := vp.SplitHorizontallyFromRight([]int{DividerWidth, l.ListWidth})

	l.RenderLargeView(cols[0])
	cols[1].FillSysColor(render.ColorGrayText)
	l.RenderList(cols[2])
}

// RenderList paints the thumbnail column. Scrolling works by moving the
// viewport's top edge up by the scroll offset and growing its height to
// match, so item placement stays in unscrolled content coordinates
// while the first ListScroll pixels land above the visible area.
func (l *List) RenderList(vp render.Viewport) {
	vp.Y -= l.ListScroll
	vp.H += l.ListScroll

	vp.ShrinkByMargin(ListMargin)

	if len(l.shots) == 0 {
		vp.DrawText("No screenshots")
		return
	}

	for i, s := range l.shots {
		shotHeight := s.HeightForWidth(vp.W)

		if i == l.SelectedIndex {
			// The frame extends into the margins around the item, which
			// is why an item's bounds count both margins as its own.
			frame := vp
			frame.H = shotHeight
			frame.ShrinkByMargin(-HighlightFrameThickness)
			frame.FillSysColor(render.ColorHighlight)
		}

		s.Draw(vp.Canvas, vp.X, vp.Y, vp.W, shotHeight)

		vp.MoveTopBy(shotHeight + ListMargin)
		if vp.H <= 0 {
			// The rest of the items fall below the visible area.
			break
		}
	}
}

// RenderLargeView paints the selected shot at the largest size that
// fits the pane, with its file name above it.
func (l *List) RenderLargeView(vp render.Viewport) {
	vp.ShrinkByMargin(LargeShotMargin)

	s := l.Selected()
	if s == nil {
		vp.DrawText("No screenshot selected")
		return
	}

	vp.DrawTextMoveTop(s.FileName)
	s.Draw(vp.Canvas, vp.X, vp.Y, vp.W, vp.H)
}
