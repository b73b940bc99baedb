// Package pipeline provides the core generation pipeline for mapforge.
//
// This package implements the complete normalize → place → render flow
// shared by the CLI and the HTTP API. Centralizing it keeps behavior
// identical across entry points: a request body and a set of CLI flags
// produce the same Params struct and therefore the same image.
package pipeline

import (
	"github.com/mapforge/mapforge/pkg/errors"
	"github.com/mapforge/mapforge/pkg/placement"
)

// Default values applied by Params.Normalize. Single source of truth for
// CLI, API and tests.
const (
	DefaultWidth       = 100
	DefaultHeight      = 100
	DefaultMode        = "center"
	DefaultRings       = 10
	DefaultRingStart   = 0.1
	DefaultRingEnd     = 0.8
	DefaultBrownCap    = 8
	DefaultIslands     = 4
	DefaultIslandRFrac = 0.25
)

// Params is the external parameter set for one generation. Optional
// numeric fields are pointers so that "absent" (default applies) and
// "explicitly zero" remain distinguishable, which matters for canvas size
// validation and the boolean flags. The JSON field names are the API wire
// format.
type Params struct {
	W           int      `json:"w"`
	H           int      `json:"h"`
	Tiles       string   `json:"tiles,omitempty"`
	Ka          *float64 `json:"ka,omitempty"`
	Cap         *int     `json:"cap,omitempty"`
	Mode        string   `json:"mode,omitempty"`
	Rings       *int     `json:"rings,omitempty"`
	RingStart   *float64 `json:"ringStart,omitempty"`
	RingEnd     *float64 `json:"ringEnd,omitempty"`
	Seed        string   `json:"seed,omitempty"`
	LogTone     *bool    `json:"logTone,omitempty"`
	BrownCap    *int     `json:"brownCap,omitempty"`
	BgAlpha     *int     `json:"bgA,omitempty"`
	Islands     *int     `json:"islands,omitempty"`
	IslandRFrac *float64 `json:"islandRFrac,omitempty"`
	Rotate      *bool    `json:"rot,omitempty"`
	Polish      *bool    `json:"polish,omitempty"`
	N22         *int     `json:"n22,omitempty"`
	N21         *int     `json:"n21,omitempty"`
	N11         *int     `json:"n11,omitempty"`
}

// Config is the fully normalized, validated form of Params. Built once per
// generation and immutable afterwards.
type Config struct {
	Width       int
	Height      int
	Tiles       string
	Ka          float64
	Cap         int
	Mode        placement.Mode
	Rings       int
	RingStart   float64
	RingEnd     float64
	Seed        string
	LogTone     bool
	BrownCap    int
	BgAlpha     int
	Islands     int
	IslandRFrac float64
	Rotate      bool
	Polish      bool
	N22         int
	N21         int
	N11         int
}

// Normalize validates p and applies defaults. All validation failures are
// caller input errors; no pixel work happens before they are surfaced.
func (p Params) Normalize() (Config, error) {
	cfg := Config{
		Width:  p.W,
		Height: p.H,
		Tiles:  p.Tiles,
		Seed:   p.Seed,
	}

	if cfg.Width <= 0 {
		if p.W != 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidSize, "width must be positive")
		}
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		if p.H != 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidSize, "height must be positive")
		}
		cfg.Height = DefaultHeight
	}

	cfg.Ka = 1.0
	if p.Ka != nil {
		cfg.Ka = *p.Ka
	}

	if p.Cap != nil {
		cfg.Cap = max(0, *p.Cap)
	}

	modeName := p.Mode
	if modeName == "" {
		modeName = DefaultMode
	}
	mode, err := placement.ParseMode(modeName)
	if err != nil {
		return Config{}, err
	}
	cfg.Mode = mode

	cfg.Rings = DefaultRings
	if p.Rings != nil && *p.Rings > 0 {
		cfg.Rings = *p.Rings
	}

	cfg.RingStart = DefaultRingStart
	if p.RingStart != nil {
		cfg.RingStart = clamp01(*p.RingStart)
	}
	cfg.RingEnd = DefaultRingEnd
	if p.RingEnd != nil {
		cfg.RingEnd = clamp01(*p.RingEnd)
	}
	if cfg.RingEnd <= cfg.RingStart {
		adjusted := min(cfg.RingStart+0.05, 1)
		if adjusted == cfg.RingStart {
			return Config{}, errors.New(errors.ErrCodeInvalidRing, "ringEnd must be greater than ringStart")
		}
		cfg.RingEnd = adjusted
	}

	cfg.LogTone = true
	if p.LogTone != nil {
		cfg.LogTone = *p.LogTone
	}

	cfg.BrownCap = DefaultBrownCap
	if p.BrownCap != nil {
		cfg.BrownCap = *p.BrownCap
	}
	cfg.BrownCap = max(1, cfg.BrownCap)

	if p.BgAlpha != nil {
		cfg.BgAlpha = min(max(*p.BgAlpha, 0), 255)
	}

	cfg.Islands = DefaultIslands
	if p.Islands != nil {
		cfg.Islands = *p.Islands
	}

	cfg.IslandRFrac = DefaultIslandRFrac
	if p.IslandRFrac != nil && *p.IslandRFrac > 0 {
		cfg.IslandRFrac = *p.IslandRFrac
	}

	cfg.Rotate = true
	if p.Rotate != nil {
		cfg.Rotate = *p.Rotate
	}

	if p.Polish != nil {
		cfg.Polish = *p.Polish
	}

	if p.N22 != nil {
		cfg.N22 = *p.N22
	}
	if p.N21 != nil {
		cfg.N21 = *p.N21
	}
	if p.N11 != nil {
		cfg.N11 = *p.N11
	}

	return cfg, nil
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
