package pipeline

import (
	"testing"

	"github.com/mapforge/mapforge/pkg/errors"
	"github.com/mapforge/mapforge/pkg/placement"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestNormalizeDefaults(t *testing.T) {
	cfg, err := Params{}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if cfg.Width != 100 || cfg.Height != 100 {
		t.Errorf("canvas = %dx%d, want 100x100", cfg.Width, cfg.Height)
	}
	if cfg.Ka != 1.0 {
		t.Errorf("ka = %v, want 1", cfg.Ka)
	}
	if cfg.Cap != 0 {
		t.Errorf("cap = %d, want 0", cfg.Cap)
	}
	if cfg.Mode != placement.ModeCenter {
		t.Errorf("mode = %v, want center", cfg.Mode)
	}
	if cfg.Rings != 10 || cfg.RingStart != 0.1 || cfg.RingEnd != 0.8 {
		t.Errorf("ring params = %d/%v/%v", cfg.Rings, cfg.RingStart, cfg.RingEnd)
	}
	if !cfg.LogTone {
		t.Error("logTone should default to true")
	}
	if cfg.BrownCap != 8 {
		t.Errorf("brownCap = %d, want 8", cfg.BrownCap)
	}
	if cfg.BgAlpha != 0 {
		t.Errorf("bgAlpha = %d, want 0", cfg.BgAlpha)
	}
	if cfg.Islands != 4 || cfg.IslandRFrac != 0.25 {
		t.Errorf("islands = %d/%v", cfg.Islands, cfg.IslandRFrac)
	}
	if !cfg.Rotate {
		t.Error("rotate should default to true")
	}
	if cfg.Polish {
		t.Error("polish should default to false")
	}
}

func TestNormalizeSizeValidation(t *testing.T) {
	// Explicit zero means "use default"; explicit negatives are rejected.
	if _, err := (Params{W: -5, H: 10}).Normalize(); !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("negative width: code = %q, want INVALID_SIZE", errors.GetCode(err))
	}
	if _, err := (Params{W: 10, H: -1}).Normalize(); !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("negative height: code = %q, want INVALID_SIZE", errors.GetCode(err))
	}
	cfg, err := Params{W: 320, H: 320}.Normalize()
	if err != nil {
		t.Fatalf("explicit size: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 320 {
		t.Errorf("canvas = %dx%d, want 320x320", cfg.Width, cfg.Height)
	}
}

func TestNormalizeModeAliases(t *testing.T) {
	tests := []struct {
		in   string
		want placement.Mode
	}{
		{"", placement.ModeCenter},
		{"MERKEZ", placement.ModeCenter},
		{"agirlik", placement.ModeWeighted},
		{"Adalar", placement.ModeIslands},
		{"iki-kita", placement.ModeDualContinents},
		{"halka", placement.ModeRing},
	}
	for _, tt := range tests {
		cfg, err := Params{Mode: tt.in}.Normalize()
		if err != nil {
			t.Errorf("Normalize(mode=%q): %v", tt.in, err)
			continue
		}
		if cfg.Mode != tt.want {
			t.Errorf("mode %q = %v, want %v", tt.in, cfg.Mode, tt.want)
		}
	}

	if _, err := (Params{Mode: "spiral"}).Normalize(); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("unknown mode: code = %q, want INVALID_MODE", errors.GetCode(err))
	}
}

func TestNormalizeRingResolution(t *testing.T) {
	// end <= start resolves by growing end a little
	cfg, err := Params{RingStart: floatPtr(0.5), RingEnd: floatPtr(0.3)}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RingEnd <= cfg.RingStart {
		t.Errorf("ringEnd %v not resolved above ringStart %v", cfg.RingEnd, cfg.RingStart)
	}

	// start pinned at 1 leaves no room
	_, err = Params{RingStart: floatPtr(1.0), RingEnd: floatPtr(0.2)}.Normalize()
	if !errors.Is(err, errors.ErrCodeInvalidRing) {
		t.Errorf("unresolvable ring: code = %q, want INVALID_RING", errors.GetCode(err))
	}
}

func TestNormalizeClampsAndFloors(t *testing.T) {
	cfg, err := Params{
		Cap:         intPtr(-10),
		BrownCap:    intPtr(0),
		BgAlpha:     intPtr(999),
		Rings:       intPtr(-3),
		IslandRFrac: floatPtr(-1),
	}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Cap != 0 {
		t.Errorf("negative cap = %d, want clamped to 0", cfg.Cap)
	}
	if cfg.BrownCap != 1 {
		t.Errorf("brownCap = %d, want floored to 1", cfg.BrownCap)
	}
	if cfg.BgAlpha != 255 {
		t.Errorf("bgAlpha = %d, want clamped to 255", cfg.BgAlpha)
	}
	if cfg.Rings != DefaultRings {
		t.Errorf("non-positive rings = %d, want default %d", cfg.Rings, DefaultRings)
	}
	if cfg.IslandRFrac != DefaultIslandRFrac {
		t.Errorf("non-positive islandRFrac = %v, want default", cfg.IslandRFrac)
	}
}

func TestNormalizeExplicitFlags(t *testing.T) {
	cfg, err := Params{
		LogTone: boolPtr(false),
		Rotate:  boolPtr(false),
		Polish:  boolPtr(true),
	}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.LogTone || cfg.Rotate || !cfg.Polish {
		t.Errorf("flags = logTone=%v rotate=%v polish=%v", cfg.LogTone, cfg.Rotate, cfg.Polish)
	}
}
