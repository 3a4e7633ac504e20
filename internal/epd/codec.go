package epd

import (
	"fmt"
	"image/color"
)

// Color is the 2-bit code stored in the framebuffer.
type Color uint8

const (
	Black Color = 0b00
	Red   Color = 0b01
	// reserved is never produced by the codec.
	reserved Color = 0b10
	White    Color = 0b11
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c {
	case Black:
		return 0, 0, 0, 0xFFFF
	case Red:
		return 0xFFFF, 0, 0, 0xFFFF
	case White:
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	default:
		return 0x8080, 0x8080, 0x8080, 0xFFFF
	}
}

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	case White:
		return "White"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}

// Orientation is the clockwise rotation of the logical coordinate space.
type Orientation uint8

const (
	Rotate0 Orientation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (o Orientation) valid() bool {
	return o <= Rotate270
}

// swapsAxes reports whether logical width and height are the native ones
// exchanged.
func (o Orientation) swapsAxes() bool {
	return o == Rotate90 || o == Rotate270
}

// Degrees returns 0, 90, 180 or 270.
func (o Orientation) Degrees() int {
	return int(o) * 90
}

// OrientationFromDegrees maps 0/90/180/270 to an Orientation.
func OrientationFromDegrees(deg int) (Orientation, error) {
	switch deg {
	case 0:
		return Rotate0, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	}
	return 0, fmt.Errorf("%w: %d degrees", ErrInvalidOrientation, deg)
}

func (o Orientation) String() string {
	if !o.valid() {
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
	return fmt.Sprintf("%d°", o.Degrees())
}

// toNative maps a logical coordinate to the panel scan position. w and h
// are the native dimensions.
func toNative(o Orientation, x, y, w, h int) (int, int) {
	switch o {
	case Rotate90:
		return y, h - 1 - x
	case Rotate180:
		return w - 1 - x, h - 1 - y
	case Rotate270:
		return w - 1 - y, x
	default:
		return x, y
	}
}

// thresholdMatrix is the 3x3 ordered dither tile, row-major.
var thresholdMatrix = [9]uint8{0, 7, 3, 6, 5, 2, 4, 1, 8}

const thresholdDivisor = 9

// ditherOffsets turns thresholdMatrix into luma offsets in [-64, 64).
func ditherOffsets() [9]int {
	var out [9]int
	for i, e := range thresholdMatrix {
		factor := float64(e)/thresholdDivisor - 0.5
		out[i] = int(128.0 * factor)
	}
	return out
}

// luma is the Rec. 601 weighted brightness of 8-bit components.
func luma(r, g, b uint8) int {
	return int((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b)) >> 16)
}

// reduce returns the 2-bit code for c at native (x, y).
func reduce(offsets *[9]int, c color.Color, x, y int) Color {
	if ec, ok := c.(Color); ok && ec != reserved {
		return ec
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	switch {
	case n.R == 0xFF && n.G == 0xFF && n.B == 0xFF:
		return White
	case n.R == 0 && n.G == 0 && n.B == 0:
		return Black
	case n.R == 0xFF && n.G == 0 && n.B == 0:
		return Red
	}
	l := luma(n.R, n.G, n.B) + offsets[y%3*3+x%3]
	if l < 128 {
		return Black
	}
	return White
}

// pixelOffset returns the byte index and bit shift of native (x, y) in a
// column-major buffer of native height h.
func pixelOffset(x, y, h int) (int, uint) {
	return h*(x/PixelsPerByte) + y, uint(x%PixelsPerByte) * 2
}

// setCode writes code at native (x, y), leaving the other three pixels of
// the byte untouched.
func (f *Framebuffer) setCode(x, y int, code Color) {
	i, shift := pixelOffset(x, y, f.height)
	b := f.buf[i] &^ (0b11 << shift)
	f.buf[i] = b | byte(code&0b11)<<shift
}

// code reads the 2-bit code at native (x, y).
func (f *Framebuffer) code(x, y int) Color {
	i, shift := pixelOffset(x, y, f.height)
	return Color(f.buf[i]>>shift) & 0b11
}
