package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// System colors used by the drawing code. These stand in for the host
// UI palette so rendering routines never carry literal colors.
var (
	// ColorWindowBG is the default window background.
	ColorWindowBG = color.RGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}

	// ColorWindowText is the default text color.
	ColorWindowText = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}

	// ColorHighlight marks the selected list item.
	ColorHighlight = color.RGBA{R: 0x00, G: 0x78, B: 0xD7, A: 0xFF}

	// ColorGrayText is used for the divider between panes.
	ColorGrayText = color.RGBA{R: 0x6D, G: 0x6D, B: 0x6D, A: 0xFF}
)

// Canvas is the drawing surface consumed by the rendering code. The
// surface is owned by the host (a window back buffer, an exported
// preview frame); Canvas implementations never take ownership.
type Canvas interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h int)

	// FillRect fills the given rectangle, clipped to the surface.
	FillRect(x, y, w, h int, c color.Color)

	// DrawText draws s with its top-left corner at (x, y) and returns
	// the size of the drawn text.
	DrawText(x, y int, s string) (w, h int)

	// StretchDraw scales src to exactly cover the destination
	// rectangle. The destination is clipped to the surface; the source
	// is always consumed whole.
	StretchDraw(src *image.RGBA, x, y, w, h int)
}

// ImageCanvas renders into an in-memory RGBA image. It backs both the
// exported preview frames and the tests.
type ImageCanvas struct {
	img  *image.RGBA
	face font.Face
}

var _ Canvas = (*ImageCanvas)(nil)

// NewImageCanvas creates a canvas over a fresh w by h image filled with
// the window background color.
func NewImageCanvas(w, h int) *ImageCanvas {
	c := &ImageCanvas{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		face: basicfont.Face7x13,
	}
	c.FillRect(0, 0, w, h, ColorWindowBG)
	return c
}

// Image returns the backing image.
func (c *ImageCanvas) Image() *image.RGBA {
	return c.img
}

func (c *ImageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *ImageCanvas) FillRect(x, y, w, h int, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(c.img.Bounds())
	draw.Draw(c.img, r, &image.Uniform{C: col}, image.Point{}, draw.Src)
}

func (c *ImageCanvas) DrawText(x, y int, s string) (int, int) {
	metrics := c.face.Metrics()
	d := font.Drawer{
		Dst:  c.img,
		Src:  &image.Uniform{C: ColorWindowText},
		Face: c.face,
		// DrawText coordinates name the top-left corner of the text
		// box; the drawer wants the baseline.
		Dot: fixed.P(x, y+metrics.Ascent.Ceil()),
	}
	d.DrawString(s)
	return d.MeasureString(s).Ceil(), metrics.Height.Ceil()
}

func (c *ImageCanvas) StretchDraw(src *image.RGBA, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	dr := image.Rect(x, y, x+w, y+h)
	// ApproxBiLinear plays the role GDI's HALFTONE stretch mode does:
	// plain nearest-neighbor mangles downscaled screenshots.
	xdraw.ApproxBiLinear.Scale(c.img, dr, src, src.Bounds(), xdraw.Src, nil)
}
