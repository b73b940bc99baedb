package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/mapforge/mapforge/pkg/errors"
)

// RenderOptions controls the coverage-to-image conversion.
type RenderOptions struct {
	DenseCap int  // saturation cap for the land→dense blend
	LogTone  bool // logarithmic tone response instead of linear
	BgAlpha  int  // water alpha, clamped to [0,255]
}

// Render converts a coverage grid into an RGBA image. The background is
// prefilled with the water color at the configured alpha; covered cells are
// tone-mapped on top.
func Render(grid *Grid, palette Palette, opts RenderOptions) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width(), grid.Height()))

	bg := palette.Water
	bg.A = uint8(min(max(opts.BgAlpha, 0), 255))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c := grid.At(x, y)
			if c <= 0 {
				continue
			}
			img.Set(x, y, palette.ToneMap(c, opts.DenseCap, opts.LogTone))
		}
	}

	return img
}

// EncodePNG serializes an image to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" into an RGBA color. Used by
// the palette configuration.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, errors.New(errors.ErrCodeInternal, "color %q must start with '#'", s)
	}
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, errors.New(errors.ErrCodeInternal, "color %q must be #RRGGBB or #RRGGBBAA", s)
	}

	digit := func(c byte) (uint8, bool) {
		switch {
		case c >= '0' && c <= '9':
			return c - '0', true
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10, true
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10, true
		}
		return 0, false
	}
	byteAt := func(i int) (uint8, bool) {
		hi, ok1 := digit(hex[i])
		lo, ok2 := digit(hex[i+1])
		return hi<<4 | lo, ok1 && ok2
	}

	r, ok1 := byteAt(0)
	g, ok2 := byteAt(2)
	b, ok3 := byteAt(4)
	a := uint8(255)
	ok4 := true
	if len(hex) == 8 {
		a, ok4 = byteAt(6)
	}
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return color.RGBA{}, errors.New(errors.ErrCodeInternal, "color %q has invalid hex digits", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
