package epd

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"tinygo.org/x/drivers"
)

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}

// Palette indexes match the 2-bit framebuffer codes.
var Palette = color.Palette{Black, Red, reserved, White}

// ColorModel implements display.Drawer. Any color is accepted; the ones
// that are not black, white or red get dithered.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer and returns the logical bounds.
func (d *Dev) Bounds() image.Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, h := d.logicalSize()
	return image.Rect(0, 0, w, h)
}

// Draw implements display.Drawer. It copies src into the framebuffer and
// flushes the full frame.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, h := d.logicalSize()
	r := dstRect.Intersect(image.Rect(0, 0, w, h))
	srcR := src.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := image.Pt(x-dstRect.Min.X+sp.X, y-dstRect.Min.Y+sp.Y)
			if !p.In(srcR) {
				continue
			}
			if err := d.setPixel(x, y, src.At(p.X, p.Y)); err != nil {
				return err
			}
		}
	}
	return d.flush()
}

// Preview renders the framebuffer in native orientation. Pixel indexes are
// the 2-bit codes, see Palette.
func (d *Dev) Preview() *image.Paletted {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, h := d.opts.Model.Width, d.opts.Model.Height
	img := image.NewPaletted(image.Rect(0, 0, w, h), Palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8(d.fb.code(x, y))
		}
	}
	return img
}

// Snapshot returns a copy of the packed framebuffer.
func (d *Dev) Snapshot() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fb.snapshot()
}

// Displayer adapts d to tinygo's drivers.Displayer so tinyfont and friends
// can draw on it. Out of range writes are dropped.
func (d *Dev) Displayer() *Displayer {
	return &Displayer{d: d}
}

// Displayer is the drivers.Displayer view of a Dev.
type Displayer struct {
	d *Dev
}

var _ drivers.Displayer = &Displayer{}

// Size returns the logical size.
func (p *Displayer) Size() (x, y int16) {
	b := p.d.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel stores c, ignoring coordinates outside the panel.
func (p *Displayer) SetPixel(x, y int16, c color.RGBA) {
	_ = p.d.SetPixel(int(x), int(y), c)
}

// Display flushes the framebuffer.
func (p *Displayer) Display() error {
	return p.d.Flush()
}
