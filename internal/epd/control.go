package epd

import "fmt"

// Control is a request for Dev.Control. It is one of PowerControl or
// OrientationControl.
type Control interface {
	isControl()
}

// PowerControl asks for a power mode transition.
type PowerControl struct {
	Mode PowerMode
}

// OrientationControl asks for a new logical orientation.
type OrientationControl struct {
	Orientation Orientation
}

func (PowerControl) isControl()       {}
func (OrientationControl) isControl() {}

// Control applies c. Invalid requests are rejected before the bus is used.
func (d *Dev) Control(c Control) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch c := c.(type) {
	case PowerControl:
		return d.setPower(c.Mode)
	case OrientationControl:
		return d.setOrientation(c.Orientation)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidControl, c)
	}
}
