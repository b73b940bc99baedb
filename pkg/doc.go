// Package pkg provides the core libraries for mapforge map generation.
//
// # Overview
//
// Mapforge places batches of rectangular tiles on a discrete canvas and
// renders the resulting coverage as a PNG. The pkg directory is organized
// around the stages of that pipeline:
//
//  1. [rng] - Deterministic random source and seed derivation
//  2. [tiles] - Tile batch parsing and count normalization
//  3. [placement] - Position selection for the five distribution modes
//  4. [raster] - Coverage grid, tone mapping and PNG encoding
//  5. [pipeline] - Orchestration (normalize → place → render)
//
// Supporting infrastructure lives alongside: [cache] (file and Redis render
// caches), [archive] (MongoDB generation records), [errors] (coded errors
// shared by CLI and API), [observability] (optional instrumentation hooks)
// and [buildinfo] (ldflags version data).
//
// # Quick Start
//
// Generate a map with explicit parameters:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Generate(ctx, pipeline.Params{
//	    W: 200, H: 200,
//	    Tiles: "2x2*400,2x1*300,1x1*100",
//	    Mode:  "weighted",
//	    Seed:  "my-world",
//	})
//	// res.PNG holds the encoded image; res.Seed the resolved seed.
//
// The same Params struct is the JSON wire format of the HTTP API, so CLI
// flags and request bodies go through identical normalization.
//
// [rng]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/rng
// [tiles]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/tiles
// [placement]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/placement
// [raster]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/raster
// [pipeline]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/cache
// [archive]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/archive
// [errors]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/mapforge/mapforge/pkg/buildinfo
package pkg
