package pipeline

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mapforge/mapforge/pkg/cache"
	"github.com/mapforge/mapforge/pkg/errors"
)

func testRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func mustConfig(t *testing.T, p Params) Config {
	t.Helper()
	cfg, err := p.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return cfg
}

func TestPlaceBatchesSmallGrid(t *testing.T) {
	cfg := mustConfig(t, Params{
		W: 10, H: 10,
		Tiles: "1x1*5",
		Mode:  "weighted",
		Seed:  "t1",
	})

	batches, err := buildBatches(cfg)
	if err != nil {
		t.Fatalf("buildBatches: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(batches))
	}

	grid, placements, _ := placeBatches(cfg, batches)
	if placements != 5 {
		t.Errorf("placements = %d, want 5", placements)
	}
	if got := grid.Sum(); got != 5 {
		t.Errorf("coverage sum = %d, want 5 (unit tiles, no overlap loss)", got)
	}
}

func TestPlaceBatchesCapApportionment(t *testing.T) {
	cfg := mustConfig(t, Params{
		W: 50, H: 50,
		Tiles: "2x2*10000",
		Cap:   intPtr(100),
		Seed:  "capped",
	})

	batches, err := buildBatches(cfg)
	if err != nil {
		t.Fatalf("buildBatches: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(batches))
	}
	if batches[0].Count != 100 {
		t.Errorf("capped count = %d, want 100", batches[0].Count)
	}

	_, placements, _ := placeBatches(cfg, batches)
	if placements != 100 {
		t.Errorf("placements = %d, want 100", placements)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	ctx := context.Background()
	r := testRunner(nil)
	p := Params{
		W: 64, H: 64,
		Tiles: "2x2*40,1x1*20",
		Mode:  "ring",
		Seed:  "stable-seed",
	}

	a, err := r.Generate(ctx, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := r.Generate(ctx, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if a.Seed != b.Seed {
		t.Errorf("seeds differ: %d vs %d", a.Seed, b.Seed)
	}
	if a.Placements != b.Placements {
		t.Errorf("placements differ: %d vs %d", a.Placements, b.Placements)
	}
	if !bytes.Equal(a.PNG, b.PNG) {
		t.Error("identical params and seed produced different PNG bytes")
	}
	if a.ID == b.ID {
		t.Error("generation ids must be unique per run")
	}
}

func TestGenerateEmptySeedVaries(t *testing.T) {
	ctx := context.Background()
	r := testRunner(nil)
	p := Params{W: 32, H: 32, Tiles: "1x1*10"}

	a, err := r.Generate(ctx, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := r.Generate(ctx, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.Seed == b.Seed {
		t.Error("empty seed should derive a fresh seed per run")
	}
	if a.Placements != 10 || b.Placements != 10 {
		t.Errorf("placements = %d/%d, want 10 each", a.Placements, b.Placements)
	}
}

func TestGenerateInputErrors(t *testing.T) {
	ctx := context.Background()
	r := testRunner(nil)

	tests := []struct {
		name string
		p    Params
		code errors.Code
	}{
		{"bad tiles", Params{Tiles: "axb*3"}, errors.ErrCodeInvalidTiles},
		{"bad mode", Params{Mode: "spiral"}, errors.ErrCodeInvalidMode},
		{"negative size", Params{W: -1}, errors.ErrCodeInvalidSize},
		{"all counts dropped", Params{Tiles: "2x2*0,1x1*-5"}, errors.ErrCodeInvalidTiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Generate(ctx, tt.p)
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %q, want %q (err: %v)", errors.GetCode(err), tt.code, err)
			}
			if res != nil {
				t.Error("result must be nil on input error")
			}
		})
	}
}

func TestGenerateRenderCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := testRunner(fc)
	p := Params{W: 48, H: 48, Tiles: "2x1*30", Seed: "cache-me"}

	first, err := r.Generate(ctx, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first.CacheHit {
		t.Error("first run must not be a cache hit")
	}

	second, err := r.Generate(ctx, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !second.CacheHit {
		t.Fatal("second run with the same seeded params should hit the cache")
	}
	if !bytes.Equal(first.PNG, second.PNG) {
		t.Error("cached PNG differs from original")
	}
	if second.Seed != first.Seed || second.Placements != first.Placements || second.Batches != first.Batches {
		t.Error("cached metadata differs from original")
	}
}

func TestGenerateUnseededSkipsCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := testRunner(fc)
	p := Params{W: 32, H: 32, Tiles: "1x1*5"}

	for i := 0; i < 2; i++ {
		res, err := r.Generate(ctx, p)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if res.CacheHit {
			t.Error("unseeded runs must never be served from cache")
		}
	}
}

func TestRecentWithoutArchive(t *testing.T) {
	r := testRunner(nil)
	recs, err := r.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if recs != nil {
		t.Errorf("recs = %v, want nil when archive disabled", recs)
	}
}
