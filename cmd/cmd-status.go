package cmd

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/sdutta9/gpscrape/internal/app"
	"github.com/sdutta9/gpscrape/internal/archive"
)

// statusCommand returns the "status" CLI subcommand: it reports the resume
// state exactly as a crawl would see it, without opening a browser.
func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Report how many combinations are already archived",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := app.ConfigFrom(cmd)
			if err != nil {
				return err
			}

			fromManifest, err := archive.ReadManifestKeys(cfg.Output.Manifest)
			if err != nil {
				return err
			}
			slog.Info("manifest", "path", cfg.Output.Manifest, "combinations", len(fromManifest))

			dirs := append([]string{cfg.Output.Dir}, cfg.Output.ExtraDirs...)
			fromFiles := archive.ScanDirs(dirs...)
			slog.Info("archive directories", "dirs", dirs, "combinations", len(fromFiles))

			for k := range fromFiles {
				fromManifest[k] = struct{}{}
			}
			slog.Info("total processed combinations", "count", len(fromManifest))
			return nil
		},
	}
}
