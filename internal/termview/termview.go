// Package termview prints a framebuffer preview on an ANSI 256 color
// terminal.
package termview

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for a View.
type Opts struct {
	// Columns is the widest the preview may get. Zero means 80.
	Columns int
	Palette *ansi256.Palette
}

// View writes images as blocks of colored cells.
type View struct {
	w       io.Writer
	cols    int
	palette ansi256.Palette
	buf     bytes.Buffer
}

// New returns a View on w. A nil w means stdout, wrapped so escape codes
// work on Windows consoles too.
func New(w io.Writer, opts *Opts) *View {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	var o Opts
	if opts != nil {
		o = *opts
	}
	if o.Columns <= 0 {
		o.Columns = 80
	}
	if o.Palette == nil {
		o.Palette = ansi256.Default
	}
	return &View{w: w, cols: o.Columns, palette: *o.Palette}
}

// Step returns the horizontal sampling step for an image dx pixels wide.
// Terminal cells are about twice as tall as wide so rows use twice the step.
func (v *View) Step(dx int) int {
	step := (dx + v.cols - 1) / v.cols
	if step < 1 {
		step = 1
	}
	return step
}

// Show writes img, one line of cells per sampled row.
func (v *View) Show(img image.Image) error {
	b := img.Bounds()
	step := v.Step(b.Dx())
	v.buf.Reset()
	for y := b.Min.Y; y < b.Max.Y; y += 2 * step {
		for x := b.Min.X; x < b.Max.X; x += step {
			_, _ = io.WriteString(&v.buf, v.palette.Block(color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)))
		}
		_, _ = v.buf.WriteString("\033[0m\n")
	}
	_, err := v.buf.WriteTo(v.w)
	return err
}
