package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/pkg/pipeline"
)

// renderFlags holds every flag of the render command. Pipeline defaults only
// apply to flags the user did not set, so the values here are carried into
// Params only when cobra reports the flag as changed.
type renderFlags struct {
	output string

	width  int
	height int
	tiles  string
	mode   string
	seed   string

	ka           float64
	capLimit     int
	rings        int
	ringStart    float64
	ringEnd      float64
	islands      int
	islandRadius float64
	brownCap     int
	bgAlpha      int

	linearTone bool
	noRotate   bool
	polish     bool
	noCache    bool

	n22 int
	n21 int
	n11 int
}

// renderCommand creates the "render" command: one generation, one PNG file.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate a map and write it to a PNG file",
		Long: `Render runs one generation and writes the resulting PNG to disk.

Tile batches are given as WxH*COUNT entries, comma separated:

  mapforge render --tiles "2x2*400,2x1*300,1x1*100" -o map.png

With --seed the output is fully reproducible; without it each run uses a
fresh time-derived seed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "map.png", "output PNG path")
	flags.IntVar(&f.width, "width", pipeline.DefaultWidth, "canvas width in cells")
	flags.IntVar(&f.height, "height", pipeline.DefaultHeight, "canvas height in cells")
	flags.StringVar(&f.tiles, "tiles", "", "tile batches as WxH*COUNT, comma separated")
	flags.StringVar(&f.mode, "mode", pipeline.DefaultMode, "placement mode (center, weighted, islands, dual-continents, ring)")
	flags.StringVar(&f.seed, "seed", "", "seed string for reproducible output")
	flags.Float64Var(&f.ka, "ka", 1.0, "count multiplier applied to all batches")
	flags.IntVar(&f.capLimit, "cap", 0, "total placement cap (0 disables)")
	flags.IntVar(&f.rings, "rings", pipeline.DefaultRings, "ring mode: number of radial segments")
	flags.Float64Var(&f.ringStart, "ring-start", pipeline.DefaultRingStart, "ring mode: inner band radius fraction")
	flags.Float64Var(&f.ringEnd, "ring-end", pipeline.DefaultRingEnd, "ring mode: outer band radius fraction")
	flags.IntVar(&f.islands, "islands", pipeline.DefaultIslands, "islands mode: number of island anchors")
	flags.Float64Var(&f.islandRadius, "island-radius", pipeline.DefaultIslandRFrac, "islands mode: island radius as a fraction of the canvas")
	flags.IntVar(&f.brownCap, "brown-cap", pipeline.DefaultBrownCap, "coverage count mapped to the densest color")
	flags.IntVar(&f.bgAlpha, "bg-alpha", 0, "background alpha (0-255)")
	flags.BoolVar(&f.linearTone, "linear-tone", false, "use linear instead of logarithmic tone mapping")
	flags.BoolVar(&f.noRotate, "no-rotate", false, "disable random 90 degree tile rotation")
	flags.BoolVar(&f.polish, "polish", false, "stamp a one-cell smoothing band around each tile")
	flags.BoolVar(&f.noCache, "no-cache", false, "bypass the render cache")
	flags.IntVar(&f.n22, "n22", 0, "extra 2x2 tiles (legacy)")
	flags.IntVar(&f.n21, "n21", 0, "extra 2x1 tiles (legacy)")
	flags.IntVar(&f.n11, "n11", 0, "extra 1x1 tiles (legacy)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, f renderFlags) error {
	params := paramsFromFlags(cmd, f)
	runner := c.newRunner(f.noCache)

	spin := newSpinner("Generating map")
	spin.Start()

	prog := newProgress(c.Logger)
	res, err := runner.Generate(cmd.Context(), params)
	if err != nil {
		spin.StopWithError("Generation failed")
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Placed %d tiles in %d batches", res.Placements, res.Batches))

	if err := os.WriteFile(f.output, res.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.output, err)
	}

	printSuccess("Map written")
	printFile(f.output)
	printStats(res.Placements, res.Batches, res.CacheHit)
	printKeyValue("seed", fmt.Sprintf("%d", res.Seed))
	return nil
}

// paramsFromFlags converts the flag set to pipeline Params. Optional fields
// are populated only for flags the user actually set.
func paramsFromFlags(cmd *cobra.Command, f renderFlags) pipeline.Params {
	p := pipeline.Params{
		W:     f.width,
		H:     f.height,
		Tiles: f.tiles,
		Mode:  f.mode,
		Seed:  f.seed,
	}

	changed := cmd.Flags().Changed
	if changed("ka") {
		p.Ka = &f.ka
	}
	if changed("cap") {
		p.Cap = &f.capLimit
	}
	if changed("rings") {
		p.Rings = &f.rings
	}
	if changed("ring-start") {
		p.RingStart = &f.ringStart
	}
	if changed("ring-end") {
		p.RingEnd = &f.ringEnd
	}
	if changed("islands") {
		p.Islands = &f.islands
	}
	if changed("island-radius") {
		p.IslandRFrac = &f.islandRadius
	}
	if changed("brown-cap") {
		p.BrownCap = &f.brownCap
	}
	if changed("bg-alpha") {
		p.BgAlpha = &f.bgAlpha
	}
	if f.linearTone {
		v := false
		p.LogTone = &v
	}
	if f.noRotate {
		v := false
		p.Rotate = &v
	}
	if f.polish {
		v := true
		p.Polish = &v
	}
	if changed("n22") {
		p.N22 = &f.n22
	}
	if changed("n21") {
		p.N21 = &f.n21
	}
	if changed("n11") {
		p.N11 = &f.n11
	}
	return p
}
