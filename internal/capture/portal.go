package capture

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/cmorrow/shotlist/internal/logger"
)

const (
	portalDest   = "org.freedesktop.portal.Desktop"
	portalPath   = "/org/freedesktop/portal/desktop"
	portalMethod = "org.freedesktop.portal.Screenshot.Screenshot"

	// How long to wait for the portal's Response signal before giving
	// up. The portal is interactive-capable, but we request silent
	// capture, so a healthy session answers quickly.
	portalTimeout = 30 * time.Second
)

// PortalCapturer captures the screen through the XDG desktop portal
// over the session bus. It is the fallback for Wayland sessions, where
// reading the root window over X11 only yields XWayland clients.
type PortalCapturer struct {
	conn *dbus.Conn
}

var _ Capturer = (*PortalCapturer)(nil)

// NewPortalCapturer connects to the D-Bus session bus.
func NewPortalCapturer() (*PortalCapturer, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &PortalCapturer{conn: conn}, nil
}

// Start initializes the portal capturer.
func (c *PortalCapturer) Start() error {
	return nil
}

// Stop closes the bus connection.
func (c *PortalCapturer) Stop() error {
	return c.conn.Close()
}

// Name returns the capturer name.
func (c *PortalCapturer) Name() string {
	return "XDG portal"
}

// IsAvailable checks if the portal service is reachable.
func (c *PortalCapturer) IsAvailable() bool {
	if c.conn == nil {
		return false
	}
	var owner string
	err := c.conn.BusObject().
		Call("org.freedesktop.DBus.GetNameOwner", 0, portalDest).
		Store(&owner)
	return err == nil
}

// CaptureScreen requests a non-interactive screenshot from the portal
// and decodes the PNG file it hands back.
func (c *PortalCapturer) CaptureScreen() (*image.RGBA, error) {
	log := logger.WithComponent("portal-capturer")

	obj := c.conn.Object(portalDest, dbus.ObjectPath(portalPath))
	opts := map[string]dbus.Variant{
		"interactive": dbus.MakeVariant(false),
	}

	var handle dbus.ObjectPath
	call := obj.Call(portalMethod, 0, "", opts)
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot request failed: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal returned no request handle: %w", err)
	}

	sigc := make(chan *dbus.Signal, 1)
	c.conn.Signal(sigc)
	defer c.conn.RemoveSignal(sigc)

	rule := fmt.Sprintf(
		"type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'",
		handle)
	if err := c.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("failed to subscribe to portal response: %w", err)
	}
	defer c.conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	timeout := time.After(portalTimeout)
	for {
		select {
		case sig := <-sigc:
			if sig == nil || sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			if len(sig.Body) < 2 {
				return nil, fmt.Errorf("malformed portal response")
			}
			results, ok := sig.Body[1].(map[string]dbus.Variant)
			if !ok {
				return nil, fmt.Errorf("malformed portal response body")
			}
			uriVar, ok := results["uri"]
			if !ok {
				return nil, fmt.Errorf("portal response carries no uri (request denied?)")
			}
			uri, _ := uriVar.Value().(string)
			log.Debug().Str("uri", uri).Msg("Portal screenshot ready")
			return c.loadPortalFile(uri)

		case <-timeout:
			return nil, fmt.Errorf("timed out waiting for portal response")
		}
	}
}

// loadPortalFile reads and decodes the PNG the portal wrote, then
// removes it; the portal leaves the file for us to own.
func (c *PortalCapturer) loadPortalFile(uri string) (*image.RGBA, error) {
	path := strings.TrimPrefix(uri, "file://")
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open portal screenshot: %w", err)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode portal screenshot: %w", err)
	}

	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}
