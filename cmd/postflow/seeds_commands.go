package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"postflow/internal/services"
)

func newSeedsCommand(ctx *commandContext) *cobra.Command {
	seedsCmd := &cobra.Command{
		Use:   "seeds",
		Short: "Inspect and relocate torrents waiting for seed storage",
	}
	seedsCmd.AddCommand(newSeedsListCommand(ctx))
	seedsCmd.AddCommand(newSeedsRelocateCommand(ctx))
	return seedsCmd
}

func newSeedsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked torrents",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.history()
			if err != nil {
				return err
			}
			seeds, err := store.TrackedSeeds(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(seeds) == 0 {
				fmt.Fprintln(out, "No torrents awaiting relocation")
				return nil
			}
			list := newListing("Hash", "Releases", "Since")
			for _, seed := range seeds {
				list.add(seed.InfoHash, strings.Join(seed.Releases, ", "), seed.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintln(out, list)
			return nil
		},
	}
}

func newSeedsRelocateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "relocate",
		Short: "Move tracked torrents to the seed location now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.SeedRelocationEnabled() {
				return services.Wrap(services.ErrConfiguration, "seeds", "relocate",
					"seed relocation needs torrent.enabled, torrent.seed_location, and a hardlink or symlink processing.method", nil)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.history()
			if err != nil {
				return err
			}
			pipeline, err := buildPipeline(cfg, store, logger)
			if err != nil {
				return err
			}
			pipeline.RelocateSeeds(cmd.Context())

			remaining, err := store.TrackedSeeds(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d torrent(s) still awaiting relocation\n", len(remaining))
			return nil
		},
	}
}
