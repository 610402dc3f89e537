package shot

import (
	"image"
	"math"

	"github.com/cmorrow/shotlist/internal/render"
)

// Shot is a single captured screenshot and some related metadata. It
// owns its pixel buffer exclusively: a Shot is held by at most one list
// entry, and Release drops the buffer exactly once.
type Shot struct {
	// The pixel data, nil when the shot is empty. Either both
	// dimensions are positive and img is non-nil, or both are zero and
	// img is nil.
	img *image.RGBA

	width  int
	height int

	// FileName is the path the image has been (or will be) saved to,
	// in "<dir>/YYYY-MM-DDThh-mm-ss[sNN].bmp" form.
	FileName string

	// Timestamp is the capture time formatted for display.
	Timestamp string
}

// New wraps a captured pixel buffer. A nil image yields an empty shot.
func New(img *image.RGBA) *Shot {
	s := &Shot{}
	s.setImage(img)
	return s
}

func (s *Shot) setImage(img *image.RGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return
	}
	s.img = img
	s.width = b.Dx()
	s.height = b.Dy()
}

// Width returns the pixel width, 0 for an empty shot.
func (s *Shot) Width() int { return s.width }

// Height returns the pixel height, 0 for an empty shot.
func (s *Shot) Height() int { return s.height }

// Image returns the backing pixel buffer, nil for an empty shot.
func (s *Shot) Image() *image.RGBA { return s.img }

// Empty reports whether the shot holds no image.
func (s *Shot) Empty() bool {
	return s.width <= 0 || s.height <= 0
}

// Release empties the shot, dropping the pixel buffer. Safe to call
// more than once.
func (s *Shot) Release() {
	s.img = nil
	s.width = 0
	s.height = 0
	s.FileName = ""
	s.Timestamp = ""
}

// HeightForWidth returns the pixel height that shows the image with its
// proper aspect ratio when drawn w pixels wide. Returns 0 for an empty
// shot.
func (s *Shot) HeightForWidth(w int) int {
	if s.width > 0 {
		return int(math.Ceil(float64(s.height) * float64(w) / float64(s.width)))
	}
	return 0
}

// Draw stretch-draws the shot into the given rectangle, preserving the
// source aspect ratio by padding with background-colored bars as
// needed. An empty shot clears the rectangle instead.
func (s *Shot) Draw(cv render.Canvas, x, y, w, h int) {
	// Ignore zero-size draw requests. This also avoids dividing by
	// zero in the aspect computation when h is zero.
	if w <= 0 || h <= 0 {
		return
	}

	if s.Empty() {
		cv.FillRect(x, y, w, h, render.ColorWindowBG)
		return
	}

	srcAR := float64(s.width) / float64(s.height)
	destAR := float64(w) / float64(h)

	switch {
	case srcAR < destAR:
		// Source is narrower, so pad with bars on left and right.
		properWidth := int(float64(h) * srcAR)
		excess := w - properWidth
		leftBarW := excess / 2
		rightBarW := excess - leftBarW

		cv.FillRect(x, y, leftBarW, h, render.ColorWindowBG)
		cv.FillRect(x+leftBarW+properWidth, y, rightBarW, h, render.ColorWindowBG)
		cv.StretchDraw(s.img, x+leftBarW, y, properWidth, h)

	case srcAR > destAR:
		// Source is wider, so pad with bars on top and bottom.
		properHeight := int(float64(w) / srcAR)
		excess := h - properHeight
		topBarH := excess / 2
		bottomBarH := excess - topBarH

		cv.FillRect(x, y, w, topBarH, render.ColorWindowBG)
		cv.FillRect(x, y+topBarH+properHeight, w, bottomBarH, render.ColorWindowBG)
		cv.StretchDraw(s.img, x, y+topBarH, w, properHeight)

	default:
		// Matching aspect ratios, no bars needed.
		cv.StretchDraw(s.img, x, y, w, h)
	}
}

// DrawAutoHeight draws the shot at the viewport origin, as wide as the
// viewport and as tall as the aspect ratio dictates. Returns the drawn
// height.
func (s *Shot) DrawAutoHeight(vp render.Viewport) int {
	h := s.HeightForWidth(vp.W)
	s.Draw(vp.Canvas, vp.X, vp.Y, vp.W, h)
	return h
}
