// Package placement decides where each tile lands on the canvas.
//
// An Engine is constructed once per generation run. It owns the mode
// anchors (island centers, continent centers, ring boundary table) and a
// running area-weighted centroid of everything placed so far. All
// randomness flows through the run's rng.Source, so the same seed yields
// the same placement sequence.
package placement

import (
	"math"

	"github.com/mapforge/mapforge/pkg/rng"
)

// Point is the top-left grid coordinate of a placed tile.
type Point struct {
	X int
	Y int
}

// Options carries the mode-specific tuning parameters.
type Options struct {
	Rings            int     // ring segment count
	RingStart        float64 // inner radius fraction of the ring band
	RingEnd          float64 // outer radius fraction of the ring band
	Islands          int     // island anchor count
	IslandRadiusFrac float64 // island spread radius as a fraction of min(w,h)
}

// Engine places tiles on a w×h canvas according to a Mode.
type Engine struct {
	width  int
	height int
	mode   Mode
	rnd    *rng.Source

	islandRadiusFrac float64
	islandCenters    []Point
	continentCenters []Point
	ringStart        float64
	ringEnd          float64
	ringBounds       []float64

	// running area-weighted centroid
	sumX      float64
	sumY      float64
	totalArea float64
}

// NewEngine builds an engine and precomputes the anchors its mode needs.
// Anchor generation consumes RNG draws, so construction order matters for
// determinism.
func NewEngine(width, height int, mode Mode, opts Options, rnd *rng.Source) *Engine {
	e := &Engine{
		width:            width,
		height:           height,
		mode:             mode,
		rnd:              rnd,
		islandRadiusFrac: opts.IslandRadiusFrac,
	}

	switch mode {
	case ModeIslands:
		e.initIslands(opts.Islands)
	case ModeDualContinents:
		e.initContinents()
	case ModeRing:
		e.initRing(opts.Rings, opts.RingStart, opts.RingEnd)
	}

	return e
}

// initIslands scatters max(1, n) anchor points inside a margin-inset
// rectangle. The margin is 10% of the shorter canvas dimension.
func (e *Engine) initIslands(n int) {
	count := max(1, n)
	margin := int(float64(min(e.width, e.height)) * 0.1)
	e.islandCenters = make([]Point, 0, count)
	for i := 0; i < count; i++ {
		x := margin + e.rnd.Intn(max(1, e.width-2*margin))
		y := margin + e.rnd.Intn(max(1, e.height-2*margin))
		e.islandCenters = append(e.islandCenters, Point{X: x, Y: y})
	}
}

func (e *Engine) initContinents() {
	e.continentCenters = []Point{
		{X: e.width / 4, Y: e.height / 2},
		{X: 3 * e.width / 4, Y: e.height / 2},
	}
}

// initRing builds the boundary table. The table always starts at 0 so the
// first segment covers the hole inside the band; that segment carries zero
// sampling weight. When end <= start one bound is nudged by 0.1: the start
// moves down if the end is already pinned at 1, otherwise the end grows.
func (e *Engine) initRing(rings int, start, end float64) {
	start = clampFloat(start, 0, 1)
	end = clampFloat(end, 0, 1)
	if end <= start {
		if end >= 1 {
			start = clampFloat(end-0.1, 0, 1)
		} else {
			end = clampFloat(start+0.1, 0, 1)
		}
	}

	segments := max(1, rings)
	e.ringStart = start
	e.ringEnd = end
	e.ringBounds = make([]float64, segments+1)
	e.ringBounds[0] = 0

	if segments == 1 {
		e.ringBounds[1] = max(clampFloat(end, 0, 1), start)
		return
	}

	span := end - start
	if span <= 0 {
		span = 0.1
		end = clampFloat(start+span, start, 1)
	}
	step := span / float64(segments-1)

	prev := 0.0
	for i := 1; i <= segments; i++ {
		var val float64
		switch i {
		case 1:
			val = start
		case segments:
			val = end
		default:
			val = start + float64(i-1)*step
		}
		val = clampFloat(val, prev, 1)
		e.ringBounds[i] = val
		prev = val
	}
}

// RingBounds returns the ring boundary table. Nil for non-ring modes.
func (e *Engine) RingBounds() []float64 {
	return e.ringBounds
}

// IslandCenters returns the island anchor points. Nil for non-island modes.
func (e *Engine) IslandCenters() []Point {
	return e.islandCenters
}

// PositionFor returns the top-left coordinate for a tw×th tile. A tile that
// cannot fit yields the degenerate (0,0) placement; callers still record
// it, which is long-standing behavior of the original service.
func (e *Engine) PositionFor(tw, th int) Point {
	if tw >= e.width || th >= e.height {
		return Point{}
	}

	switch e.mode {
	case ModeCenter:
		return e.positionCenter(tw, th)
	case ModeIslands:
		return e.positionIslands(tw, th)
	case ModeDualContinents:
		return e.positionDualContinents(tw, th)
	case ModeRing:
		return e.positionRing(tw, th)
	default:
		return e.positionWeighted(tw, th)
	}
}

// RecordPlacement folds a placed tile into the running centroid. Must be
// called for every tile actually placed, degenerate placements included.
func (e *Engine) RecordPlacement(x, y, tw, th int) {
	area := float64(tw * th)
	if area <= 0 {
		return
	}
	e.totalArea += area
	e.sumX += (float64(x) + float64(tw)/2) * area
	e.sumY += (float64(y) + float64(th)/2) * area
}

// CenterOfMass returns the area-weighted mean placement position. The
// boolean is false until something has been recorded.
func (e *Engine) CenterOfMass() (float64, float64, bool) {
	if e.totalArea <= 0 {
		return 0, 0, false
	}
	return e.sumX / e.totalArea, e.sumY / e.totalArea, true
}

// randomPlacement samples a uniform in-bounds position.
func (e *Engine) randomPlacement(tw, th int) Point {
	spanX := max(0, e.width-tw)
	spanY := max(0, e.height-th)

	var p Point
	if spanX > 0 {
		p.X = e.rnd.Intn(spanX + 1)
	}
	if spanY > 0 {
		p.Y = e.rnd.Intn(spanY + 1)
	}
	return p
}

// clampTopLeft converts a desired tile center to an in-bounds top-left.
func (e *Engine) clampTopLeft(cx, cy float64, tw, th int) Point {
	return Point{
		X: clampInt(int(math.Round(cx))-tw/2, 0, e.width-tw),
		Y: clampInt(int(math.Round(cy))-th/2, 0, e.height-th),
	}
}

// positionCenter samples from a centered disk. Most placements land within
// 30% of the half-extent, a thin band reaches 50%, and 1% escapes to a
// uniform position anywhere on the canvas.
func (e *Engine) positionCenter(tw, th int) Point {
	halfExtent := float64(min(e.width, e.height)) / 2
	cx := float64(e.width) / 2
	cy := float64(e.height) / 2

	var maxOffset float64
	switch roll := e.rnd.Float64(); {
	case roll < 0.7:
		maxOffset = 0.3 * halfExtent
	case roll < 0.99:
		maxOffset = 0.5 * halfExtent
	default:
		return e.randomPlacement(tw, th)
	}

	for attempt := 0; attempt < 16; attempt++ {
		radius := math.Sqrt(e.rnd.Float64()) * maxOffset
		theta := e.rnd.Float64() * 2 * math.Pi
		x := int(math.Round(cx+math.Cos(theta)*radius)) - tw/2
		y := int(math.Round(cy+math.Sin(theta)*radius)) - th/2
		if x >= 0 && x <= e.width-tw && y >= 0 && y <= e.height-th {
			return Point{X: x, Y: y}
		}
	}

	return e.clampTopLeft(cx, cy, tw, th)
}

// positionWeighted greedily keeps the running centroid near the canvas
// center. Candidates are the centered placement, the centroid's mirror
// through the center, and up to 24 random placements; scoring uses the
// hypothetical post-placement centroid distance.
func (e *Engine) positionWeighted(tw, th int) Point {
	targetX := float64(e.width) / 2
	targetY := float64(e.height) / 2

	best := e.clampTopLeft(targetX, targetY, tw, th)
	bestScore := e.distanceAfterPlacement(best.X, best.Y, tw, th, targetX, targetY)

	currentDist := math.Inf(1)
	if cx, cy, ok := e.CenterOfMass(); ok {
		currentDist = math.Hypot(cx-targetX, cy-targetY)
		mirror := e.clampTopLeft(targetX*2-cx, targetY*2-cy, tw, th)
		if score := e.distanceAfterPlacement(mirror.X, mirror.Y, tw, th, targetX, targetY); score < bestScore {
			bestScore = score
			best = mirror
		}
	}

	for attempt := 0; attempt < 24; attempt++ {
		p := e.randomPlacement(tw, th)
		score := e.distanceAfterPlacement(p.X, p.Y, tw, th, targetX, targetY)
		if score < bestScore {
			bestScore = score
			best = p
			if !math.IsInf(currentDist, 1) && score <= currentDist*0.7 {
				break
			}
		}
	}

	return best
}

// distanceAfterPlacement scores a candidate by the distance of the centroid
// from the target after hypothetically adding the tile. The centroid update
// is incremental, not a recompute.
func (e *Engine) distanceAfterPlacement(x, y, tw, th int, targetX, targetY float64) float64 {
	area := float64(tw * th)
	if area <= 0 {
		if cx, cy, ok := e.CenterOfMass(); ok {
			return math.Hypot(cx-targetX, cy-targetY)
		}
		return 0
	}
	total := e.totalArea + area
	newCx := (e.sumX + (float64(x)+float64(tw)/2)*area) / total
	newCy := (e.sumY + (float64(y)+float64(th)/2)*area) / total
	return math.Hypot(newCx-targetX, newCy-targetY)
}

// positionIslands scatters tiles around a randomly chosen island anchor.
func (e *Engine) positionIslands(tw, th int) Point {
	if len(e.islandCenters) == 0 {
		return e.positionCenter(tw, th)
	}
	center := e.islandCenters[e.rnd.Intn(len(e.islandCenters))]

	radiusFrac := e.islandRadiusFrac
	if radiusFrac <= 0 {
		radiusFrac = 0.25
	}
	maxRadius := radiusFrac * float64(min(e.width, e.height))
	radius := e.rnd.Float64() * maxRadius
	theta := e.rnd.Float64() * 2 * math.Pi

	cx := float64(center.X) + math.Cos(theta)*radius
	cy := float64(center.Y) + math.Sin(theta)*radius
	return e.clampTopLeft(cx, cy, tw, th)
}

// positionDualContinents draws normal offsets around one of the two fixed
// continent centers, retrying a few times for an in-bounds result before
// handing off to the center policy.
func (e *Engine) positionDualContinents(tw, th int) Point {
	if len(e.continentCenters) == 0 {
		return e.positionCenter(tw, th)
	}
	center := e.continentCenters[e.rnd.Intn(len(e.continentCenters))]
	sigmaX := float64(e.width) / 10
	sigmaY := float64(e.height) / 6

	for attempt := 0; attempt < 6; attempt++ {
		x := int(math.Round(float64(center.X) + e.rnd.NormFloat64()*sigmaX))
		y := int(math.Round(float64(center.Y) + e.rnd.NormFloat64()*sigmaY))
		if x >= 0 && x <= e.width-tw && y >= 0 && y <= e.height-th {
			return Point{X: x, Y: y}
		}
	}
	return e.positionCenter(tw, th)
}

// ringSegmentWeight gives outer segments more mass via a radial falloff.
// Segments fully outside the configured band get zero weight.
func (e *Engine) ringSegmentWeight(inner, outer float64) float64 {
	if outer <= e.ringStart || inner >= e.ringEnd {
		return 0
	}
	mid := (inner + outer) / 2
	return 0.02 + math.Pow(mid, 1.5)
}

// selectRingSegment picks a segment index with probability proportional to
// its weight. Returns false when no segment carries weight.
func (e *Engine) selectRingSegment() (int, bool) {
	segments := len(e.ringBounds) - 1
	if segments <= 0 {
		return -1, false
	}

	total := 0.0
	weights := make([]float64, segments)
	for i := 0; i < segments; i++ {
		w := e.ringSegmentWeight(e.ringBounds[i], e.ringBounds[i+1])
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return -1, false
	}

	r := e.rnd.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i, true
		}
	}
	return segments - 1, true
}

// positionRing samples a radius fraction inside a weighted ring segment and
// converts it to a Cartesian offset from the canvas center. Degenerate
// segments are retried; after that a direct sample over the full band is
// taken, and uniform placement is the last resort.
func (e *Engine) positionRing(tw, th int) Point {
	radiusMax := float64(min(e.width, e.height)) / 2
	cx := float64(e.width) / 2
	cy := float64(e.height) / 2

	for attempt := 0; attempt < 12; attempt++ {
		segment, ok := e.selectRingSegment()
		if !ok {
			break
		}
		inner := e.ringBounds[segment]
		outer := e.ringBounds[segment+1]
		if outer <= inner {
			continue
		}

		radiusFrac := inner + e.rnd.Float64()*(outer-inner)
		theta := e.rnd.Float64() * 2 * math.Pi
		radius := radiusFrac * radiusMax
		return e.clampTopLeft(cx+math.Cos(theta)*radius, cy+math.Sin(theta)*radius, tw, th)
	}

	if e.ringEnd > e.ringStart {
		radiusFrac := e.ringStart + e.rnd.Float64()*(e.ringEnd-e.ringStart)
		theta := e.rnd.Float64() * 2 * math.Pi
		radius := radiusFrac * radiusMax
		return e.clampTopLeft(cx+math.Cos(theta)*radius, cy+math.Sin(theta)*radius, tw, th)
	}

	return e.randomPlacement(tw, th)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
