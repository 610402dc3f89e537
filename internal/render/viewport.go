package render

import "image/color"

// Viewport is a drawing surface augmented with a cursor area of sorts.
//
// The intention is to allow drawing functions to be composed by
// accepting a Viewport and thus restricting themselves (voluntarily) to
// the indicated part of the surface being drawn. The rectangle is a
// region of interest, not a clip region: coordinate arithmetic may push
// it to zero or negative size, and drawing on such a degenerate
// viewport is a no-op.
//
// Viewports have value semantics. Copying one and mutating the copy
// never affects the original; a render pass hands copies to the
// routines drawing its sub-regions.
type Viewport struct {
	// The surface being drawn on. Not owned.
	Canvas Canvas

	// The region of interest. Callers manipulate these fields freely
	// to adjust where painting is focused.
	X, Y, W, H int
}

// NewViewport returns a viewport covering all of cv.
func NewViewport(cv Canvas) Viewport {
	w, h := cv.Size()
	return Viewport{Canvas: cv, X: 0, Y: 0, W: w, H: h}
}

// degenerate reports whether the viewport has no drawable area.
func (v Viewport) degenerate() bool {
	return v.W <= 0 || v.H <= 0
}

// ShrinkByMargin moves every edge inward by m pixels. A negative m
// expands instead. No bounds clamping is performed.
func (v *Viewport) ShrinkByMargin(m int) {
	v.X += m
	v.Y += m
	v.W -= 2 * m
	v.H -= 2 * m
}

// MoveTopBy advances the top edge downward by dy, shrinking the
// remaining height. Used to walk down a list while tracking how much
// vertical room is left.
func (v *Viewport) MoveTopBy(dy int) {
	v.Y += dy
	v.H -= dy
}

// SplitHorizontallyFromRight divides the viewport into len(widths)+1
// columns. The first returned viewport takes whatever width remains
// after the requested widths (possibly negative); each subsequent one
// has the corresponding requested width, placed immediately to the
// right of the previous column. This shape models a primary content
// pane plus fixed-width side panels.
//
// Widths are assumed non-negative; the split only guarantees that the
// columns tile the original area without overlap.
func (v Viewport) SplitHorizontallyFromRight(widths []int) []Viewport {
	total := 0
	for _, w := range widths {
		total += w
	}

	out := make([]Viewport, 0, len(widths)+1)

	first := v
	first.W = v.W - total
	out = append(out, first)

	x := first.X + first.W
	for _, w := range widths {
		col := v
		col.X = x
		col.W = w
		out = append(out, col)
		x += w
	}
	return out
}

// FillSysColor fills the current rectangle with a system color.
func (v Viewport) FillSysColor(c color.Color) {
	if v.degenerate() {
		return
	}
	v.Canvas.FillRect(v.X, v.Y, v.W, v.H, c)
}

// FillBackground fills the current rectangle with the window
// background color.
func (v Viewport) FillBackground() {
	v.FillSysColor(ColorWindowBG)
}

// DrawText draws s at (X, Y) and returns the size of the drawn text.
func (v Viewport) DrawText(s string) (w, h int) {
	if v.degenerate() {
		return 0, 0
	}
	return v.Canvas.DrawText(v.X, v.Y, s)
}

// DrawTextMoveTop draws s and advances the top edge by the text height,
// composing vertical text flow without a separate cursor.
func (v *Viewport) DrawTextMoveTop(s string) {
	_, h := v.DrawText(s)
	v.MoveTopBy(h)
}
