package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/sdutta9/gpscrape/internal/app"
	"github.com/sdutta9/gpscrape/internal/archive"
	"github.com/sdutta9/gpscrape/internal/browser"
	"github.com/sdutta9/gpscrape/internal/crawl"
)

// crawlCommand returns the "crawl" CLI subcommand.
func crawlCommand() *cli.Command {
	return &cli.Command{
		Name:  "crawl",
		Usage: "Walk the report form and archive every new combination",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := app.ConfigFrom(cmd)
			if err != nil {
				return err
			}

			store, err := archive.NewStore(cfg.Output.Dir)
			if err != nil {
				return err
			}

			dirs := append([]string{cfg.Output.Dir}, cfg.Output.ExtraDirs...)
			processed, err := archive.LoadProcessed(cfg.Output.Manifest, dirs...)
			if err != nil {
				return fmt.Errorf("loading resume state: %w", err)
			}

			manifest, err := archive.OpenManifest(cfg.Output.Manifest)
			if err != nil {
				return err
			}
			defer manifest.Close()

			session, err := browser.NewSession(ctx, cfg.Browser)
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.Navigate(ctx, cfg.Site.URL); err != nil {
				return err
			}

			crawler := crawl.New(crawl.Params{
				Form:        session,
				Store:       store,
				Manifest:    manifest,
				Controls:    cfg.Site.Controls,
				StateFilter: cfg.Site.StateFilter,
				Processed:   processed,
			})

			if err := crawler.Run(ctx); err != nil {
				return fmt.Errorf("crawl failed after %d saves: %w", crawler.Saved(), err)
			}

			slog.Info("crawl finished", "saved", crawler.Saved(), "known", len(processed))
			return nil
		},
	}
}
