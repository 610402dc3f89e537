package capture

import "image"

// Capturer is the interface for screen capture backends.
type Capturer interface {
	// Start initializes the capturer and any required resources.
	Start() error

	// Stop releases resources.
	Stop() error

	// CaptureScreen captures the entire screen and returns it as an
	// RGBA image.
	CaptureScreen() (*image.RGBA, error)

	// Name returns a human-readable name for this capturer.
	Name() string

	// IsAvailable checks if this capturer can be used in the current
	// environment.
	IsAvailable() bool
}
