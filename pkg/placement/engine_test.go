package placement

import (
	"math"
	"testing"

	"github.com/mapforge/mapforge/pkg/rng"
)

func defaultOpts() Options {
	return Options{
		Rings:            10,
		RingStart:        0.1,
		RingEnd:          0.8,
		Islands:          4,
		IslandRadiusFrac: 0.25,
	}
}

func TestPositionBoundsAllModes(t *testing.T) {
	modes := []Mode{ModeCenter, ModeWeighted, ModeIslands, ModeDualContinents, ModeRing}
	sizes := []struct{ tw, th int }{{1, 1}, {2, 1}, {2, 2}, {7, 3}}

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			e := NewEngine(50, 40, mode, defaultOpts(), rng.New(1234))
			for i := 0; i < 500; i++ {
				size := sizes[i%len(sizes)]
				p := e.PositionFor(size.tw, size.th)
				if p.X < 0 || p.X > 50-size.tw || p.Y < 0 || p.Y > 40-size.th {
					t.Fatalf("iteration %d: %dx%d tile at %+v out of bounds", i, size.tw, size.th, p)
				}
				e.RecordPlacement(p.X, p.Y, size.tw, size.th)
			}
		})
	}
}

func TestPositionDeterministic(t *testing.T) {
	for _, mode := range []Mode{ModeCenter, ModeWeighted, ModeIslands, ModeDualContinents, ModeRing} {
		t.Run(mode.String(), func(t *testing.T) {
			a := NewEngine(30, 30, mode, defaultOpts(), rng.New(777))
			b := NewEngine(30, 30, mode, defaultOpts(), rng.New(777))
			for i := 0; i < 200; i++ {
				pa := a.PositionFor(2, 2)
				pb := b.PositionFor(2, 2)
				if pa != pb {
					t.Fatalf("iteration %d: %+v != %+v", i, pa, pb)
				}
				a.RecordPlacement(pa.X, pa.Y, 2, 2)
				b.RecordPlacement(pb.X, pb.Y, 2, 2)
			}
		})
	}
}

func TestOversizedTileDegeneratePlacement(t *testing.T) {
	e := NewEngine(10, 10, ModeWeighted, defaultOpts(), rng.New(1))
	if p := e.PositionFor(10, 2); p != (Point{}) {
		t.Errorf("tile as wide as the canvas should degenerate to origin, got %+v", p)
	}
	if p := e.PositionFor(2, 25); p != (Point{}) {
		t.Errorf("too-tall tile should degenerate to origin, got %+v", p)
	}
}

func TestRecordPlacementCentroid(t *testing.T) {
	e := NewEngine(100, 100, ModeWeighted, defaultOpts(), rng.New(1))

	if _, _, ok := e.CenterOfMass(); ok {
		t.Fatal("centroid should be undefined before any placement")
	}

	e.RecordPlacement(0, 0, 2, 2) // center (1,1), area 4
	cx, cy, ok := e.CenterOfMass()
	if !ok || cx != 1 || cy != 1 {
		t.Fatalf("centroid = (%v,%v,%v), want (1,1,true)", cx, cy, ok)
	}

	e.RecordPlacement(10, 10, 2, 2) // center (11,11), area 4
	cx, cy, _ = e.CenterOfMass()
	if cx != 6 || cy != 6 {
		t.Errorf("centroid = (%v,%v), want (6,6)", cx, cy)
	}

	// Area weighting: a 4x4 tile pulls harder than a 1x1.
	e2 := NewEngine(100, 100, ModeWeighted, defaultOpts(), rng.New(1))
	e2.RecordPlacement(0, 0, 4, 4)  // center (2,2), area 16
	e2.RecordPlacement(20, 0, 1, 1) // center (20.5, 0.5), area 1
	cx, cy, _ = e2.CenterOfMass()
	wantX := (2*16 + 20.5*1) / 17
	wantY := (2*16 + 0.5*1) / 17
	if math.Abs(cx-wantX) > 1e-12 || math.Abs(cy-wantY) > 1e-12 {
		t.Errorf("centroid = (%v,%v), want (%v,%v)", cx, cy, wantX, wantY)
	}
}

func TestRecordPlacementZeroAreaIgnored(t *testing.T) {
	e := NewEngine(10, 10, ModeWeighted, defaultOpts(), rng.New(1))
	e.RecordPlacement(5, 5, 0, 3)
	if _, _, ok := e.CenterOfMass(); ok {
		t.Error("zero-area tile must not contribute to the centroid")
	}
}

func TestWeightedKeepsCentroidCentral(t *testing.T) {
	e := NewEngine(60, 60, ModeWeighted, defaultOpts(), rng.New(31))
	for i := 0; i < 300; i++ {
		p := e.PositionFor(2, 2)
		e.RecordPlacement(p.X, p.Y, 2, 2)
	}
	cx, cy, ok := e.CenterOfMass()
	if !ok {
		t.Fatal("expected centroid after placements")
	}
	if math.Hypot(cx-30, cy-30) > 6 {
		t.Errorf("weighted centroid drifted to (%v,%v), want near (30,30)", cx, cy)
	}
}

func TestIslandAnchors(t *testing.T) {
	opts := defaultOpts()
	opts.Islands = 6
	e := NewEngine(100, 80, ModeIslands, opts, rng.New(9))

	centers := e.IslandCenters()
	if len(centers) != 6 {
		t.Fatalf("got %d island centers, want 6", len(centers))
	}
	margin := 8 // 10% of min(100,80)
	for _, c := range centers {
		if c.X < margin || c.Y < margin {
			t.Errorf("island center %+v inside the margin", c)
		}
	}
}

func TestIslandAnchorsAtLeastOne(t *testing.T) {
	opts := defaultOpts()
	opts.Islands = 0
	e := NewEngine(50, 50, ModeIslands, opts, rng.New(9))
	if len(e.IslandCenters()) != 1 {
		t.Errorf("islands=0 should still produce one anchor, got %d", len(e.IslandCenters()))
	}
}

func TestRingBoundsMonotonic(t *testing.T) {
	tests := []struct {
		name       string
		rings      int
		start, end float64
	}{
		{"typical", 10, 0.1, 0.8},
		{"single segment", 1, 0.2, 0.9},
		{"two segments", 2, 0.3, 0.6},
		{"inverted resolved by growing end", 5, 0.5, 0.3},
		{"end pinned at one", 5, 1.0, 1.0},
		{"both zero", 4, 0, 0},
		{"out of range input", 6, -0.5, 1.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOpts()
			opts.Rings = tt.rings
			opts.RingStart = tt.start
			opts.RingEnd = tt.end
			e := NewEngine(40, 40, ModeRing, opts, rng.New(3))

			bounds := e.RingBounds()
			if len(bounds) != max(1, tt.rings)+1 {
				t.Fatalf("table length = %d, want %d", len(bounds), max(1, tt.rings)+1)
			}
			for i, b := range bounds {
				if b < 0 || b > 1 {
					t.Errorf("bound %d = %v outside [0,1]", i, b)
				}
				if i > 0 && b < bounds[i-1] {
					t.Errorf("bound %d = %v < previous %v", i, b, bounds[i-1])
				}
			}
		})
	}
}

func TestRingInnerSegmentUnweighted(t *testing.T) {
	opts := defaultOpts()
	opts.RingStart = 0.4
	opts.RingEnd = 0.9
	e := NewEngine(40, 40, ModeRing, opts, rng.New(3))
	if w := e.ringSegmentWeight(0, e.ringStart); w != 0 {
		t.Errorf("inner hole weight = %v, want 0", w)
	}
	if w := e.ringSegmentWeight(0.5, 0.6); w <= 0 {
		t.Errorf("in-band segment weight = %v, want > 0", w)
	}
}

func TestRingFalloffFavorsOuterSegments(t *testing.T) {
	opts := defaultOpts()
	e := NewEngine(40, 40, ModeRing, opts, rng.New(3))
	inner := e.ringSegmentWeight(0.1, 0.2)
	outer := e.ringSegmentWeight(0.7, 0.8)
	if outer <= inner {
		t.Errorf("outer weight %v should exceed inner weight %v", outer, inner)
	}
}

func TestUnknownModeFallsBackToWeighted(t *testing.T) {
	a := NewEngine(30, 30, Mode(42), defaultOpts(), rng.New(5))
	b := NewEngine(30, 30, ModeWeighted, defaultOpts(), rng.New(5))
	for i := 0; i < 50; i++ {
		pa := a.PositionFor(2, 2)
		pb := b.PositionFor(2, 2)
		if pa != pb {
			t.Fatalf("iteration %d: unknown mode %+v != weighted %+v", i, pa, pb)
		}
		a.RecordPlacement(pa.X, pa.Y, 2, 2)
		b.RecordPlacement(pb.X, pb.Y, 2, 2)
	}
}
