package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"postflow/internal/preflight"
	"postflow/internal/services"
	"postflow/internal/torrent"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, binaries and the download client are ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var pinger preflight.TorrentPinger
			if cfg.Torrent.Enabled {
				client, err := torrent.New(cfg, logger)
				if err != nil {
					pinger = pingFunc(func(context.Context) error { return err })
				} else {
					pinger = client
				}
			}

			results := preflight.RunAll(cmd.Context(), cfg, pinger)
			list := newListing("Check", "Status", "Detail")
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				list.add(r.Name, status, r.Detail)
			}
			fmt.Fprintln(cmd.OutOrStdout(), list)

			if preflight.Failed(results) {
				return services.Wrap(services.ErrConfiguration, "check", "preflight", "one or more checks failed", nil)
			}
			return nil
		},
	}
}
