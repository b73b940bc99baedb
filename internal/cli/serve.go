package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/internal/config"
	"github.com/mapforge/mapforge/internal/server"
	"github.com/mapforge/mapforge/pkg/archive"
	"github.com/mapforge/mapforge/pkg/cache"
	"github.com/mapforge/mapforge/pkg/pipeline"
	"github.com/mapforge/mapforge/pkg/raster"
)

// serveCommand creates the "serve" command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the map generation HTTP server",
		Long: `Serve starts the HTTP API. All settings come from an optional TOML
config file; --addr overrides the listen address from the file.

The server exposes:

  POST /api/generate    generate a map (JSON body, PNG response)
  GET  /api/generate    same, with query parameters
  GET  /api/recent      list archived generations
  GET  /healthz         liveness probe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	renderCache, err := c.buildCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer renderCache.Close()

	var store *archive.Store
	if cfg.Archive.Enabled {
		store, err = archive.Connect(ctx, cfg.Archive.URI, cfg.Archive.Database)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(context.Background()) }()
		c.Logger.Info("generation archive enabled", "database", cfg.Archive.Database)
	}

	runner := pipeline.NewRunner(renderCache, store, c.Logger)
	palette, err := buildPalette(cfg.Palette)
	if err != nil {
		return err
	}
	runner.SetPalette(palette)
	runner.SetCacheTTL(cfg.Cache.TTL.Duration)

	srv := server.New(runner, c.Logger,
		server.WithAddr(cfg.Server.Addr),
		server.WithTimeouts(cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout.Duration),
		server.WithDefaultSize(cfg.Defaults.Width, cfg.Defaults.Height),
	)
	return srv.Run(ctx)
}

func (c *CLI) buildCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Addr, cfg.Password, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		c.Logger.Info("render cache: redis", "addr", cfg.Addr)
		return rc, nil
	default: // file
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("render cache: file", "dir", dir)
		return fc, nil
	}
}

// buildPalette applies configured color overrides on top of the defaults.
func buildPalette(cfg config.Palette) (raster.Palette, error) {
	p := raster.DefaultPalette()
	if cfg.Water != "" {
		c, err := raster.ParseHexColor(cfg.Water)
		if err != nil {
			return raster.Palette{}, err
		}
		p.Water = c
	}
	if cfg.Land != "" {
		c, err := raster.ParseHexColor(cfg.Land)
		if err != nil {
			return raster.Palette{}, err
		}
		p.Land = c
	}
	if cfg.Dense != "" {
		c, err := raster.ParseHexColor(cfg.Dense)
		if err != nil {
			return raster.Palette{}, err
		}
		p.Dense = c
	}
	return p, nil
}
