package epd

import "fmt"

// PixelsPerByte is the number of 2-bit pixels packed in a framebuffer byte.
const PixelsPerByte = 4

// MaxFramebufferSize bounds the allocation done by NewFramebuffer.
const MaxFramebufferSize = 1 << 24

// Framebuffer is a fixed-size byte store for a packed panel image. It only
// knows whole bytes; bit layout belongs to the pixel codec.
type Framebuffer struct {
	buf    []byte
	width  int
	height int
}

// NewFramebuffer allocates ceil(width/4)*height bytes.
func NewFramebuffer(width, height int) (fb *Framebuffer, err error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrAlloc, width, height)
	}
	cols := (width + PixelsPerByte - 1) / PixelsPerByte
	if height > MaxFramebufferSize/cols {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d bytes", ErrAlloc, width, height, MaxFramebufferSize)
	}
	defer func() {
		if r := recover(); r != nil {
			fb, err = nil, fmt.Errorf("%w: %v", ErrAlloc, r)
		}
	}()
	return &Framebuffer{
		buf:    make([]byte, cols*height),
		width:  width,
		height: height,
	}, nil
}

// Len returns the capacity in bytes.
func (f *Framebuffer) Len() int {
	return len(f.buf)
}

// Columns returns the number of 4-pixel byte columns.
func (f *Framebuffer) Columns() int {
	return (f.width + PixelsPerByte - 1) / PixelsPerByte
}

// At returns byte i.
func (f *Framebuffer) At(i int) byte {
	return f.buf[i]
}

// Set stores b at byte i.
func (f *Framebuffer) Set(i int, b byte) {
	f.buf[i] = b
}

// Fill sets every byte to b.
func (f *Framebuffer) Fill(b byte) {
	for i := range f.buf {
		f.buf[i] = b
	}
}

// snapshot returns a copy of the bytes.
func (f *Framebuffer) snapshot() []byte {
	out := make([]byte, len(f.buf))
	copy(out, f.buf)
	return out
}
