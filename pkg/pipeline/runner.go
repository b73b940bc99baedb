package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mapforge/mapforge/pkg/archive"
	"github.com/mapforge/mapforge/pkg/cache"
	"github.com/mapforge/mapforge/pkg/errors"
	"github.com/mapforge/mapforge/pkg/observability"
	"github.com/mapforge/mapforge/pkg/placement"
	"github.com/mapforge/mapforge/pkg/raster"
	"github.com/mapforge/mapforge/pkg/rng"
	"github.com/mapforge/mapforge/pkg/tiles"
)

// renderCacheTTL bounds how long a cached PNG stays valid.
const renderCacheTTL = 24 * time.Hour

// Runner executes the generation pipeline. It is safe for concurrent use:
// all per-run state (RNG, coverage grid, centroid) lives inside Generate.
type Runner struct {
	cache    cache.Cache
	store    *archive.Store // nil disables archiving
	palette  raster.Palette
	logger   *log.Logger
	cacheTTL time.Duration
}

// NewRunner creates a pipeline runner. store may be nil to disable the
// generation archive.
func NewRunner(c cache.Cache, store *archive.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		cache:    c,
		store:    store,
		palette:  raster.DefaultPalette(),
		logger:   logger,
		cacheTTL: renderCacheTTL,
	}
}

// SetPalette overrides the default colors. Must be called before the first
// Generate.
func (r *Runner) SetPalette(p raster.Palette) {
	r.palette = p
}

// SetCacheTTL overrides the render cache lifetime. Non-positive values keep
// the current TTL. Must be called before the first Generate.
func (r *Runner) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		r.cacheTTL = ttl
	}
}

// Result is the outcome of one generation.
type Result struct {
	ID         string // generation id, also the archive record id
	PNG        []byte
	Batches    int   // distinct tile batches after normalization
	Placements int   // total placements attempted
	Seed       int64 // resolved integer seed
	CacheHit   bool
	Stats      Stats
}

// Stats carries per-stage timings.
type Stats struct {
	NormalizeTime time.Duration
	PlaceTime     time.Duration
	EncodeTime    time.Duration
}

// cachedResult is the envelope stored in the render cache. Stats and the
// generation id are per-request and deliberately not cached.
type cachedResult struct {
	PNG        []byte `json:"png"`
	Batches    int    `json:"batches"`
	Placements int    `json:"placements"`
	Seed       int64  `json:"seed"`
}

// Generate runs the full pipeline: normalize parameters, build batches,
// place tiles, tone-map and encode. Input errors surface before any pixel
// work; partial output is never returned.
func (r *Runner) Generate(ctx context.Context, p Params) (*Result, error) {
	start := time.Now()

	cfg, err := p.Normalize()
	if err != nil {
		return nil, err
	}

	batches, err := buildBatches(cfg)
	if err != nil {
		return nil, err
	}
	normalizeTime := time.Since(start)

	observability.Generation().OnGenerateStart(ctx, cfg.Mode.String(), cfg.Width, cfg.Height)

	// Only seeded requests are cacheable; a time-derived seed makes every
	// run unique.
	var key string
	if cfg.Seed != "" {
		key = cache.Key("render", cfg)
		if data, ok, cerr := r.cache.Get(ctx, key); cerr != nil {
			r.logger.Warn("render cache get failed", "err", cerr)
		} else if ok {
			var cached cachedResult
			if jerr := json.Unmarshal(data, &cached); jerr == nil {
				observability.Cache().OnCacheHit(ctx, "render")
				observability.Generation().OnGenerateComplete(ctx, cfg.Mode.String(), cached.Placements, time.Since(start), nil)
				return &Result{
					ID:         uuid.NewString(),
					PNG:        cached.PNG,
					Batches:    cached.Batches,
					Placements: cached.Placements,
					Seed:       cached.Seed,
					CacheHit:   true,
					Stats:      Stats{NormalizeTime: normalizeTime},
				}, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	placeStart := time.Now()
	grid, placements, seed := placeBatches(cfg, batches)
	placeTime := time.Since(placeStart)

	encodeStart := time.Now()
	img := raster.Render(grid, r.palette, raster.RenderOptions{
		DenseCap: cfg.BrownCap,
		LogTone:  cfg.LogTone,
		BgAlpha:  cfg.BgAlpha,
	})
	png, err := raster.EncodePNG(img)
	if err != nil {
		observability.Generation().OnGenerateComplete(ctx, cfg.Mode.String(), placements, time.Since(start), err)
		return nil, err
	}
	encodeTime := time.Since(encodeStart)

	result := &Result{
		ID:         uuid.NewString(),
		PNG:        png,
		Batches:    len(batches),
		Placements: placements,
		Seed:       seed,
		Stats: Stats{
			NormalizeTime: normalizeTime,
			PlaceTime:     placeTime,
			EncodeTime:    encodeTime,
		},
	}

	if key != "" {
		if data, jerr := json.Marshal(cachedResult{
			PNG:        png,
			Batches:    result.Batches,
			Placements: placements,
			Seed:       seed,
		}); jerr == nil {
			if cerr := r.cache.Set(ctx, key, data, r.cacheTTL); cerr != nil {
				r.logger.Warn("render cache set failed", "err", cerr)
			} else {
				observability.Cache().OnCacheSet(ctx, "render", len(data))
			}
		}
	}

	r.archiveResult(ctx, cfg, result, time.Since(start))
	observability.Generation().OnGenerateComplete(ctx, cfg.Mode.String(), placements, time.Since(start), nil)

	r.logger.Debug("generated map",
		"width", cfg.Width, "height", cfg.Height,
		"mode", cfg.Mode.String(),
		"batches", result.Batches,
		"placements", placements,
		"seed", seed,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return result, nil
}

// placeBatches resolves the seed, builds the engine and stamps every tile
// into a fresh coverage grid. Returns the grid, the number of placements
// attempted and the resolved seed.
func placeBatches(cfg Config, batches []tiles.Batch) (*raster.Grid, int, int64) {
	seed := rng.SeedFromString(cfg.Seed)
	src := rng.New(seed)
	engine := placement.NewEngine(cfg.Width, cfg.Height, cfg.Mode, placement.Options{
		Rings:            cfg.Rings,
		RingStart:        cfg.RingStart,
		RingEnd:          cfg.RingEnd,
		Islands:          cfg.Islands,
		IslandRadiusFrac: cfg.IslandRFrac,
	}, src)

	grid := raster.NewGrid(cfg.Width, cfg.Height)
	placements := 0

	for _, batch := range batches {
		placements += batch.Count
		for i := 0; i < batch.Count; i++ {
			tw, th := batch.W, batch.H
			if cfg.Rotate && tw != th && src.Intn(2) == 0 {
				tw, th = th, tw
			}
			if tw <= 0 || th <= 0 || tw > cfg.Width || th > cfg.Height {
				continue
			}

			pos := engine.PositionFor(tw, th)
			engine.RecordPlacement(pos.X, pos.Y, tw, th)

			if cfg.Polish {
				grid.StampPolished(pos.X, pos.Y, tw, th)
			} else {
				grid.Stamp(pos.X, pos.Y, tw, th)
			}
		}
	}

	return grid, placements, seed
}

// buildBatches runs the tile normalization chain: parse, legacy boosts,
// multiplier, cap apportionment.
func buildBatches(cfg Config) ([]tiles.Batch, error) {
	specs, err := tiles.ParseList(cfg.Tiles)
	if err != nil {
		return nil, err
	}
	specs = tiles.ApplyLegacy(specs, cfg.N22, cfg.N21, cfg.N11)
	tiles.ApplyMultiplier(specs, cfg.Ka)

	batches := tiles.Finalize(specs, cfg.Cap)
	if len(batches) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBatches, "no tiles to place after cap adjustment")
	}
	return batches, nil
}

// archiveResult records generation metadata. Archive failures are logged
// and never fail the generation.
func (r *Runner) archiveResult(ctx context.Context, cfg Config, res *Result, elapsed time.Duration) {
	if r.store == nil {
		return
	}
	rec := archive.Record{
		ID:         res.ID,
		Mode:       cfg.Mode.String(),
		Width:      cfg.Width,
		Height:     cfg.Height,
		Seed:       res.Seed,
		Batches:    res.Batches,
		Placements: res.Placements,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	insertCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.store.Insert(insertCtx, rec); err != nil {
		r.logger.Warn("archive insert failed", "id", res.ID, "err", err)
	}
}

// Recent proxies the archive listing. Returns an empty result when the
// archive is disabled.
func (r *Runner) Recent(ctx context.Context, limit int) ([]archive.Record, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.Recent(ctx, limit)
}
