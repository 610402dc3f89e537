package capture

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestConvertImageData(t *testing.T) {
	c := &X11Capturer{screen: &xproto.ScreenInfo{RootDepth: 24}}

	// A 2x1 ZPixmap reply: BGRx byte order.
	data := []byte{
		0x10, 0x20, 0x30, 0x00, // pixel (0,0): B=10 G=20 R=30
		0x40, 0x50, 0x60, 0x00, // pixel (1,0): B=40 G=50 R=60
	}

	img, err := c.convertImageData(data, 2, 1)
	if err != nil {
		t.Fatalf("convertImageData: %v", err)
	}

	want := []byte{
		0x30, 0x20, 0x10, 0xFF,
		0x60, 0x50, 0x40, 0xFF,
	}
	for i, b := range want {
		if img.Pix[i] != b {
			t.Fatalf("Pix[%d] = %#x, want %#x", i, img.Pix[i], b)
		}
	}
}

func TestConvertImageDataShortReply(t *testing.T) {
	c := &X11Capturer{screen: &xproto.ScreenInfo{RootDepth: 24}}
	if _, err := c.convertImageData(make([]byte, 7), 2, 1); err == nil {
		t.Fatal("expected an error for a short reply")
	}
}

func TestConvertImageDataBadDepth(t *testing.T) {
	c := &X11Capturer{screen: &xproto.ScreenInfo{RootDepth: 8}}
	if _, err := c.convertImageData(make([]byte, 8), 2, 1); err == nil {
		t.Fatal("expected an error for an 8-bit root")
	}
}

func TestIsWaylandSession(t *testing.T) {
	tests := []struct {
		name     string
		wayland  string
		xDisplay string
		want     bool
	}{
		{"pure wayland", "wayland-0", "", true},
		{"xwayland present", "wayland-0", ":0", false},
		{"plain x11", "", ":0", false},
		{"headless", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WAYLAND_DISPLAY", tt.wayland)
			t.Setenv("DISPLAY", tt.xDisplay)
			if got := isWaylandSession(); got != tt.want {
				t.Fatalf("isWaylandSession() = %v, want %v", got, tt.want)
			}
		})
	}
}
