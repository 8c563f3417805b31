package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"postflow/internal/history"
	"postflow/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and edit the post-processing history",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistorySnatchCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.history()
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "History is empty")
				return nil
			}
			list := newListing("ID", "When", "Action", "Show", "Resource", "Hash").alignRight(0)
			for _, entry := range entries {
				list.add(
					strconv.FormatInt(entry.ID, 10),
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					string(entry.Action),
					entry.Show,
					entry.Resource,
					entry.InfoHash,
				)
			}
			fmt.Fprintln(out, list)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show (0 for all)")
	return cmd
}

func newHistorySnatchCommand(ctx *commandContext) *cobra.Command {
	var hash string
	var show string
	cmd := &cobra.Command{
		Use:   "snatch NAME",
		Short: "Record a snatched release so its torrent can be relocated after processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return services.Wrap(services.ErrValidation, "history", "snatch", "release name is required", nil)
			}
			store, err := ctx.history()
			if err != nil {
				return err
			}
			entry, err := store.Record(cmd.Context(), history.Entry{
				Action:   history.ActionSnatched,
				Resource: name,
				Show:     strings.TrimSpace(show),
				InfoHash: strings.TrimSpace(hash),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded snatch #%d for %s\n", entry.ID, entry.Resource)
			return nil
		},
	}
	cmd.Flags().StringVar(&hash, "hash", "", "Torrent info hash")
	cmd.Flags().StringVar(&show, "show", "", "Show name")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.history()
			if err != nil {
				return err
			}
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries\n", removed)
			return nil
		},
	}
}
