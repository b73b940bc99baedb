package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/internal/config"
	"github.com/mapforge/mapforge/pkg/archive"
	"github.com/mapforge/mapforge/pkg/errors"
)

// recentCommand creates the "recent" command listing archived generations.
func (c *CLI) recentCommand() *cobra.Command {
	var (
		configPath string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent generations from the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cfg.Archive.Enabled {
				return errors.New(errors.ErrCodeArchive, "archive is not enabled in the config")
			}
			return c.runRecent(cmd.Context(), cfg.Archive, limit)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of records")
	return cmd
}

func (c *CLI) runRecent(ctx context.Context, cfg config.Archive, limit int) error {
	store, err := archive.Connect(ctx, cfg.URI, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	records, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printInfo("No generations archived yet")
		return nil
	}

	for _, rec := range records {
		printKeyValue(rec.CreatedAt.Format("01-02 15:04"), fmt.Sprintf(
			"%s %dx%d mode=%s tiles=%d seed=%d (%dms)",
			rec.ID[:8], rec.Width, rec.Height, rec.Mode, rec.Placements, rec.Seed, rec.DurationMS,
		))
	}
	printNewline()
	printDetail("%d records", len(records))
	return nil
}
