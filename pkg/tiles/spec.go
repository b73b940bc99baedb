// Package tiles parses the tile specification language and normalizes the
// requested per-size counts into integer placement batches.
//
// A tile specification is a comma-separated list of "WxH*count" entries
// where the "*count" suffix is optional and may be fractional. Counts are
// real numbers until Finalize converts them to integers via proportional
// scaling and largest-remainder rounding.
package tiles

import (
	"math"
	"strconv"
	"strings"

	"github.com/mapforge/mapforge/pkg/errors"
)

// Spec is a pre-rounding tile definition. Count is a real number.
type Spec struct {
	W     int
	H     int
	Count float64
}

// Batch is a normalized unit of placement work with an integer count.
type Batch struct {
	W     int
	H     int
	Count int
}

// DefaultSpecs is the built-in tile set used when the specification string
// is empty.
func DefaultSpecs() []Spec {
	return []Spec{
		{W: 2, H: 2, Count: 400},
		{W: 2, H: 1, Count: 300},
		{W: 1, H: 1, Count: 100},
	}
}

// ParseList parses a tile specification string. Entries with a count <= 0
// are silently dropped; malformed dimensions, non-positive dimensions and
// non-finite counts are errors. An empty input yields DefaultSpecs.
func ParseList(input string) ([]Spec, error) {
	if strings.TrimSpace(input) == "" {
		return DefaultSpecs(), nil
	}

	raw := strings.Split(input, ",")
	specs := make([]Spec, 0, len(raw))

	for _, part := range raw {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		dims, countStr, hasCount := strings.Cut(part, "*")
		count := 1.0
		if hasCount {
			clean := strings.TrimSpace(countStr)
			if clean != "" {
				v, err := strconv.ParseFloat(clean, 64)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidTiles, err, "invalid tile count in %q", part)
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, errors.New(errors.ErrCodeInvalidTiles, "tile count must be finite in %q", part)
				}
				count = v
			}
		}

		wStr, hStr, ok := strings.Cut(dims, "x")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidTiles, "invalid tile dimensions in %q", part)
		}

		w, err := strconv.Atoi(strings.TrimSpace(wStr))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTiles, err, "invalid tile width in %q", part)
		}
		h, err := strconv.Atoi(strings.TrimSpace(hStr))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTiles, err, "invalid tile height in %q", part)
		}
		if w <= 0 || h <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidTiles, "tile dimensions must be positive in %q", part)
		}
		if count <= 0 {
			continue
		}

		specs = append(specs, Spec{W: w, H: h, Count: count})
	}

	if len(specs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTiles, "no valid tile definitions found")
	}

	return specs, nil
}

// ApplyLegacy merges the three legacy per-size boost counts (2x2, 2x1, 1x1)
// into specs. A boost adds to an existing matching entry or appends a new
// one; boosts <= 0 are ignored.
func ApplyLegacy(specs []Spec, n22, n21, n11 int) []Spec {
	legacy := []struct {
		w, h, n int
	}{
		{2, 2, n22},
		{2, 1, n21},
		{1, 1, n11},
	}

	for _, entry := range legacy {
		if entry.n <= 0 {
			continue
		}
		found := false
		for i := range specs {
			if specs[i].W == entry.w && specs[i].H == entry.h {
				specs[i].Count += float64(entry.n)
				found = true
				break
			}
		}
		if !found {
			specs = append(specs, Spec{W: entry.w, H: entry.h, Count: float64(entry.n)})
		}
	}

	return specs
}

// ApplyMultiplier scales every count by ka. Multipliers <= 0 and the
// identity multiplier are no-ops.
func ApplyMultiplier(specs []Spec, ka float64) {
	if ka <= 0 || ka == 1 {
		return
	}
	for i := range specs {
		specs[i].Count *= ka
	}
}
