package convert

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// recorder is a Target that keeps the last color written per pixel.
type recorder struct {
	b   image.Rectangle
	pix map[image.Point]color.Color
}

func newRecorder(w, h int) *recorder {
	return &recorder{b: image.Rect(0, 0, w, h), pix: map[image.Point]color.Color{}}
}

func (r *recorder) Bounds() image.Rectangle { return r.b }

func (r *recorder) SetPixel(x, y int, c color.Color) error {
	r.pix[image.Pt(x, y)] = c
	return nil
}

func (r *recorder) at(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(r.pix[image.Pt(x, y)]).(color.NRGBA)
}

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

var (
	white = inkWhite.color()
	black = inkBlack.color()
	red   = inkRed.color()
)

func TestRenderTransparent(t *testing.T) {
	dst := newRecorder(8, 4)
	src := uniform(8, 4, color.NRGBA{0, 0, 0, 100})
	if err := Render(dst, src, &Options{Fit: FitStretch}); err != nil {
		t.Fatal(err)
	}
	if len(dst.pix) != 32 {
		t.Fatalf("%d pixels written, want 32", len(dst.pix))
	}
	for p := range dst.pix {
		if got := dst.at(p.X, p.Y); got != white {
			t.Errorf("pixel %v = %v, want white", p, got)
		}
	}
}

func TestRenderContain(t *testing.T) {
	dst := newRecorder(10, 10)
	src := uniform(2, 1, black)
	if err := Render(dst, src, &Options{Fit: FitContain, Scaler: draw.NearestNeighbor}); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 10; y++ {
		want := white
		if y >= 2 && y < 7 {
			want = black
		}
		for x := 0; x < 10; x++ {
			if got := dst.at(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRenderNone(t *testing.T) {
	dst := newRecorder(10, 6)
	src := uniform(4, 4, red)
	if err := Render(dst, src, &Options{Fit: FitNone}); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		x, y int
		want color.NRGBA
	}{
		{3, 1, red},
		{6, 4, red},
		{2, 1, white},
		{7, 4, white},
		{3, 0, white},
		{3, 5, white},
	} {
		if got := dst.at(tc.x, tc.y); got != tc.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestRenderModes(t *testing.T) {
	darkRed := color.NRGBA{0xC8, 0x28, 0x28, 0xFF}
	for _, tc := range []struct {
		name string
		opts Options
		in   color.NRGBA
		want color.NRGBA
	}{
		{name: "dither passes through", in: darkRed, want: darkRed},
		{name: "snap red", opts: Options{SnapRed: true}, in: darkRed, want: red},
		{name: "snap keeps gray", opts: Options{SnapRed: true}, in: color.NRGBA{0x80, 0x80, 0x80, 0xFF}, want: color.NRGBA{0x80, 0x80, 0x80, 0xFF}},
		{name: "classify red", opts: Options{Classify: true}, in: darkRed, want: red},
		{name: "classify dark", opts: Options{Classify: true}, in: color.NRGBA{0x1E, 0x1E, 0x1E, 0xFF}, want: black},
		{name: "classify light", opts: Options{Classify: true}, in: color.NRGBA{0xC8, 0xC8, 0xC8, 0xFF}, want: white},
		{name: "alpha is dropped", in: color.NRGBA{0xFF, 0x00, 0x00, 0x90}, want: red},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dst := newRecorder(3, 3)
			opts := tc.opts
			opts.Fit = FitNone
			if err := Render(dst, uniform(3, 3, tc.in), &opts); err != nil {
				t.Fatal(err)
			}
			if got := dst.at(1, 1); got != tc.want {
				t.Errorf("pixel = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestContainRect(t *testing.T) {
	for _, tc := range []struct {
		b    image.Rectangle
		size image.Point
		want image.Rectangle
	}{
		{image.Rect(0, 0, 640, 384), image.Pt(640, 384), image.Rect(0, 0, 640, 384)},
		{image.Rect(0, 0, 640, 384), image.Pt(100, 100), image.Rect(128, 0, 512, 384)},
		{image.Rect(0, 0, 384, 640), image.Pt(200, 100), image.Rect(0, 224, 384, 416)},
		{image.Rect(0, 0, 10, 10), image.Pt(1000, 1), image.Rect(0, 4, 10, 5)},
	} {
		got := containRect(tc.b, tc.size)
		if diff := cmp.Diff(got, tc.want); diff != "" {
			t.Errorf("containRect(%v, %v) difference (-got +want):\n%s", tc.b, tc.size, diff)
		}
	}
}

func TestDecode(t *testing.T) {
	src := uniform(5, 3, red)
	for _, tc := range []struct {
		name   string
		encode func(*bytes.Buffer) error
	}{
		{name: "png", encode: func(b *bytes.Buffer) error { return png.Encode(b, src) }},
		{name: "bmp", encode: func(b *bytes.Buffer) error { return bmp.Encode(b, src) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tc.encode(&buf); err != nil {
				t.Fatal(err)
			}
			img, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if diff := cmp.Diff(img.Bounds(), src.Bounds()); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}
			if got := color.NRGBAModel.Convert(img.At(2, 1)); got != red {
				t.Errorf("At(2, 1) = %v, want red", got)
			}
		})
	}
	if _, err := Decode(strings.NewReader("not an image")); err == nil {
		t.Error("Decode() of garbage succeeded")
	}
}

func TestParseFit(t *testing.T) {
	for in, want := range map[string]Fit{"": FitContain, "contain": FitContain, "stretch": FitStretch, "none": FitNone} {
		got, err := ParseFit(in)
		if err != nil || got != want {
			t.Errorf("ParseFit(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFit("zoom"); err == nil {
		t.Error("ParseFit(zoom) succeeded")
	}
}
