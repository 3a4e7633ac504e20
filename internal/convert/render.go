// Package convert fits arbitrary images onto a tri-color pixel target.
package convert

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
)

// Target is what Render draws on. *epd.Dev satisfies it.
type Target interface {
	Bounds() image.Rectangle
	SetPixel(x, y int, c color.Color) error
}

// Fit controls how the source is mapped onto the target bounds.
type Fit int

const (
	// FitContain scales preserving the aspect ratio and centers the result.
	FitContain Fit = iota
	// FitStretch scales to the exact target size.
	FitStretch
	// FitNone centers the source unscaled, cropping what does not fit.
	FitNone
)

// ParseFit maps a config value to a Fit.
func ParseFit(s string) (Fit, error) {
	switch s {
	case "contain", "":
		return FitContain, nil
	case "stretch":
		return FitStretch, nil
	case "none":
		return FitNone, nil
	}
	return FitContain, fmt.Errorf("convert: unknown fit %q", s)
}

// Options for Render.
type Options struct {
	Fit Fit
	// Classify replaces dithering with a hard black/red/white decision per
	// pixel. Good for line art and text.
	Classify bool
	// SnapRed sends red dominant pixels as pure red while dithering the
	// rest. Without it only exact red survives dithering.
	SnapRed bool
	// Scaler defaults to draw.CatmullRom.
	Scaler draw.Scaler
}

// Render draws src onto dst. Transparent pixels (alpha < 128) and the
// letterbox area are white.
func Render(dst Target, src image.Image, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	b := dst.Bounds()
	canvas := image.NewNRGBA(b)
	place(canvas, src, opts)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if err := dst.SetPixel(x, y, pick(canvas.NRGBAAt(x, y), opts)); err != nil {
				return err
			}
		}
	}
	return nil
}

func pick(c color.NRGBA, opts *Options) color.Color {
	if c.A < 128 {
		return inkWhite.color()
	}
	c.A = 0xFF
	if opts.Classify {
		return classifyPixel(c).color()
	}
	if opts.SnapRed && classifyPixel(c) == inkRed {
		return inkRed.color()
	}
	return c
}

// place copies src into canvas according to opts.Fit. The canvas starts
// fully transparent.
func place(canvas *image.NRGBA, src image.Image, opts *Options) {
	b := canvas.Bounds()
	sr := src.Bounds()
	if sr.Empty() || b.Empty() {
		return
	}

	if opts.Fit == FitNone {
		off := image.Pt((b.Dx()-sr.Dx())/2, (b.Dy()-sr.Dy())/2)
		r := image.Rectangle{Min: b.Min.Add(off), Max: b.Min.Add(off).Add(sr.Size())}
		draw.Copy(canvas, r.Min, src, sr, draw.Src, nil)
		return
	}

	r := b
	if opts.Fit == FitContain {
		r = containRect(b, sr.Size())
	}
	s := opts.Scaler
	if s == nil {
		s = draw.CatmullRom
	}
	s.Scale(canvas, r, src, sr, draw.Src, nil)
}

// containRect returns the largest rectangle with the aspect ratio of size
// centered in b.
func containRect(b image.Rectangle, size image.Point) image.Rectangle {
	bw, bh := b.Dx(), b.Dy()
	w, h := bw, bh
	if size.X*bh > size.Y*bw {
		h = size.Y * bw / size.X
	} else {
		w = size.X * bh / size.Y
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	p := b.Min.Add(image.Pt((bw-w)/2, (bh-h)/2))
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(w, h))}
}

// Decode reads a PNG, JPEG, GIF or BMP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return img, nil
}

// Load decodes the image stored at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
