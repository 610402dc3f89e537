package capture

import (
	"fmt"
	"image"
	"os"

	"github.com/cmorrow/shotlist/internal/logger"
)

// Router picks a capture backend for the current session: the X11
// capturer when an X display is reachable, otherwise the XDG desktop
// portal.
type Router struct {
	x11    *X11Capturer
	portal *PortalCapturer
}

var _ Capturer = (*Router)(nil)

// NewRouter creates an empty router; backends are probed in Start.
func NewRouter() *Router {
	return &Router{}
}

// Start initializes the available capturers. On a pure Wayland session
// X11 connects to XWayland, which cannot see native windows, so the
// portal wins there; everywhere else X11 is preferred for being
// prompt-free.
func (r *Router) Start() error {
	log := logger.WithComponent("capture-router")

	if !isWaylandSession() {
		x11, err := NewX11Capturer()
		if err != nil {
			log.Warn().Err(err).Msg("X11 capturer not available")
		} else if err := x11.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start X11 capturer")
			x11.Stop()
		} else {
			r.x11 = x11
			log.Info().Msg("X11 capturer initialized")
		}
	}

	if r.x11 == nil {
		portal, err := NewPortalCapturer()
		if err != nil {
			log.Warn().Err(err).Msg("Portal capturer not available")
		} else if !portal.IsAvailable() {
			log.Warn().Msg("Screenshot portal not present on session bus")
			portal.Stop()
		} else {
			r.portal = portal
			log.Info().Msg("Portal capturer initialized")
		}
	}

	if r.x11 == nil && r.portal == nil {
		return fmt.Errorf("no capture backends available")
	}
	return nil
}

// Stop stops all capturers.
func (r *Router) Stop() error {
	if r.x11 != nil {
		r.x11.Stop()
		r.x11 = nil
	}
	if r.portal != nil {
		r.portal.Stop()
		r.portal = nil
	}
	return nil
}

// Name returns the active backend's name.
func (r *Router) Name() string {
	if r.x11 != nil {
		return r.x11.Name()
	}
	if r.portal != nil {
		return r.portal.Name()
	}
	return "none"
}

// IsAvailable reports whether any backend is usable.
func (r *Router) IsAvailable() bool {
	return r.x11 != nil || r.portal != nil
}

// CaptureScreen captures the full screen with the active backend.
func (r *Router) CaptureScreen() (*image.RGBA, error) {
	if r.x11 != nil {
		return r.x11.CaptureScreen()
	}
	if r.portal != nil {
		return r.portal.CaptureScreen()
	}
	return nil, fmt.Errorf("no capturer available")
}

// isWaylandSession reports whether the session is native Wayland.
func isWaylandSession() bool {
	return os.Getenv("WAYLAND_DISPLAY") != "" && os.Getenv("DISPLAY") == ""
}
