package convert

import "image/color"

// ink is the hard three-way decision used by the classify mode and by red
// snapping.
type ink int

const (
	inkWhite ink = iota
	inkBlack
	inkRed
)

// classifyPixel decides whether a pixel should be black, red, or white on the
// tri-color panel.
//
// Thresholds (empirical):
//
//   - luma Y = 0.299R + 0.587G + 0.114B
//   - redness = R - max(G, B)
//   - very dark pixels (Y < 64) are black
//   - bright, red dominant pixels (R > 128, redness > 32) are red
//   - everything else is white
func classifyPixel(c color.NRGBA) ink {
	r, g, b := int(c.R), int(c.G), int(c.B)

	// Luma in 1/1000 units.
	y := 299*r + 587*g + 114*b

	maxGB := g
	if b > maxGB {
		maxGB = b
	}
	redness := r - maxGB

	if y < 64*1000 {
		return inkBlack
	}
	if r > 128 && redness > 32 {
		return inkRed
	}
	return inkWhite
}

var inkColors = [...]color.NRGBA{
	inkWhite: {0xFF, 0xFF, 0xFF, 0xFF},
	inkBlack: {0x00, 0x00, 0x00, 0xFF},
	inkRed:   {0xFF, 0x00, 0x00, 0xFF},
}

func (i ink) color() color.NRGBA {
	return inkColors[i]
}
