// Package overlay draws a caption banner on a drivers.Displayer.
package overlay

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Options for Caption. Zero values pick the defaults.
type Options struct {
	Font tinyfont.Fonter
	// Height of the banner in pixels. Default 16.
	Height int16
	// Fg is the text color, black by default. Bg fills the banner, white by
	// default.
	Fg, Bg *color.RGBA
}

var (
	black = color.RGBA{A: 0xFF}
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Caption fills a banner along the bottom edge of d and writes text
// centered on it. Text wider than the banner is truncated with an
// ellipsis. An empty text draws nothing.
func Caption(d drivers.Displayer, text string, opts *Options) {
	if text == "" {
		return
	}
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Font == nil {
		o.Font = &proggy.TinySZ8pt7b
	}
	if o.Height <= 0 {
		o.Height = 16
	}
	fg, bg := black, white
	if o.Fg != nil {
		fg = *o.Fg
	}
	if o.Bg != nil {
		bg = *o.Bg
	}

	w, h := d.Size()
	top := h - o.Height
	if top < 0 {
		top = 0
	}
	for y := top; y < h; y++ {
		for x := int16(0); x < w; x++ {
			d.SetPixel(x, y, bg)
		}
	}

	const margin = 4
	text = truncateToWidth(o.Font, text, int(w)-2*margin)
	tw, _ := tinyfont.LineWidth(o.Font, text)
	x := (w - int16(tw)) / 2
	// WriteLine takes the baseline; leave a few pixels for descenders.
	tinyfont.WriteLine(d, o.Font, x, h-margin, text, fg)
}

func truncateToWidth(f tinyfont.Fonter, s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	w, _ := tinyfont.LineWidth(f, s)
	if int(w) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		w, _ = tinyfont.LineWidth(f, string(r)+"...")
		if int(w) <= maxW {
			return string(r) + "..."
		}
	}
	return ""
}
