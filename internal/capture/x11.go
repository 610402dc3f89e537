package capture

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/cmorrow/shotlist/internal/logger"
)

// X11Capturer grabs the full root window over an X11 (or XWayland)
// connection.
type X11Capturer struct {
	conn   *xgb.Conn
	root   xproto.Window
	screen *xproto.ScreenInfo
}

var _ Capturer = (*X11Capturer)(nil)

// NewX11Capturer connects to the X server.
func NewX11Capturer() (*X11Capturer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	return &X11Capturer{
		conn:   conn,
		root:   screen.Root,
		screen: screen,
	}, nil
}

// Start initializes the X11 capturer.
func (c *X11Capturer) Start() error {
	logger.WithComponent("x11-capturer").Debug().
		Uint16("screen_width", c.screen.WidthInPixels).
		Uint16("screen_height", c.screen.HeightInPixels).
		Msg("X11 capturer ready")
	return nil
}

// Stop closes the X11 connection.
func (c *X11Capturer) Stop() error {
	c.conn.Close()
	return nil
}

// Name returns the capturer name.
func (c *X11Capturer) Name() string {
	return "X11"
}

// IsAvailable checks if X11 capture is available.
func (c *X11Capturer) IsAvailable() bool {
	return c.conn != nil
}

// CaptureScreen captures the full root window.
func (c *X11Capturer) CaptureScreen() (*image.RGBA, error) {
	width := int(c.screen.WidthInPixels)
	height := int(c.screen.HeightInPixels)

	reply, err := xproto.GetImage(
		c.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(c.root),
		0, 0,
		uint16(width), uint16(height),
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get root window image: %w", err)
	}

	return c.convertImageData(reply.Data, width, height)
}

// convertImageData converts X11 ZPixmap data (BGRx) to RGBA.
func (c *X11Capturer) convertImageData(data []byte, width, height int) (*image.RGBA, error) {
	depth := int(c.screen.RootDepth)
	if depth != 24 && depth != 32 {
		return nil, fmt.Errorf("unsupported root depth %d", depth)
	}
	if len(data) < width*height*4 {
		return nil, fmt.Errorf("short image reply: got %d bytes, want %d", len(data), width*height*4)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcRow := data[y*width*4:]
		dstRow := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			dstRow[x*4+0] = srcRow[x*4+2] // R
			dstRow[x*4+1] = srcRow[x*4+1] // G
			dstRow[x*4+2] = srcRow[x*4+0] // B
			dstRow[x*4+3] = 0xFF
		}
	}
	return img, nil
}
