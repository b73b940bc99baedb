package raster

import (
	"image/color"
	"math"
)

// Palette holds the three colors of the coverage tone map: water for
// uncovered cells, land for single coverage, dense for the saturated end of
// the blend.
type Palette struct {
	Water color.RGBA
	Land  color.RGBA
	Dense color.RGBA
}

// DefaultPalette matches the original service: forest green land shading
// into saddle brown, transparent water.
func DefaultPalette() Palette {
	return Palette{
		Water: color.RGBA{R: 0, G: 0, B: 0, A: 0},
		Land:  color.RGBA{R: 34, G: 139, B: 34, A: 255},
		Dense: color.RGBA{R: 139, G: 69, B: 19, A: 255},
	}
}

// ToneMap converts a coverage count into a color. Zero coverage is water,
// a single cover is pure land, and anything above blends toward dense with
// either a logarithmic or a linear response capped at denseCap.
func (p Palette) ToneMap(coverage, denseCap int, logTone bool) color.RGBA {
	if coverage <= 0 {
		return p.Water
	}
	if coverage == 1 {
		return p.Land
	}

	if denseCap <= 0 {
		denseCap = 1
	}

	var ratio float64
	if logTone {
		ratio = math.Log(float64(coverage)) / math.Log(float64(denseCap)+1)
	} else {
		ratio = float64(coverage-1) / float64(denseCap)
	}
	ratio = min(max(ratio, 0), 1)

	return blend(p.Land, p.Dense, ratio)
}

// blend linearly interpolates every channel including alpha, rounding to
// the nearest integer. A fully transparent result is bumped to alpha 1 so
// blended land never disappears.
func blend(a, b color.RGBA, t float64) color.RGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(math.Round(v))
	}

	alpha := (1-t)*float64(a.A) + t*float64(b.A)
	if alpha == 0 {
		alpha = 1
	}

	return color.RGBA{
		R: clamp((1-t)*float64(a.R) + t*float64(b.R)),
		G: clamp((1-t)*float64(a.G) + t*float64(b.G)),
		B: clamp((1-t)*float64(a.B) + t*float64(b.B)),
		A: clamp(alpha),
	}
}
