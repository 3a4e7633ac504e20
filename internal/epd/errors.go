package epd

import "errors"

var (
	// ErrAlloc is returned when the framebuffer cannot be allocated.
	ErrAlloc = errors.New("epd: framebuffer allocation failed")
	// ErrOutOfBounds is returned for pixel writes outside the logical bounds.
	ErrOutOfBounds = errors.New("epd: coordinate out of bounds")
	// ErrInvalidOrientation is returned for unknown orientations.
	ErrInvalidOrientation = errors.New("epd: invalid orientation")
	// ErrInvalidPowerMode is returned for unknown power modes.
	ErrInvalidPowerMode = errors.New("epd: invalid power mode")
	// ErrInvalidControl is returned when Control receives an unknown request.
	ErrInvalidControl = errors.New("epd: invalid control request")
	// ErrPanelTimeout is returned when Opts.BusyTimeout is set and the busy
	// line does not clear in time.
	ErrPanelTimeout = errors.New("epd: panel unresponsive")
)
