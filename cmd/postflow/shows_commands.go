package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"postflow/internal/services"
)

func newShowsCommand(ctx *commandContext) *cobra.Command {
	showsCmd := &cobra.Command{
		Use:   "shows",
		Short: "Manage per-show subtitle settings",
	}
	showsCmd.AddCommand(newShowsSetCommand(ctx))
	showsCmd.AddCommand(newShowsListCommand(ctx))
	return showsCmd
}

func newShowsSetCommand(ctx *commandContext) *cobra.Command {
	var subtitlesFlag string
	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Enable or disable subtitle postponement for a show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(subtitlesFlag)
			if err != nil {
				return err
			}
			store, err := ctx.history()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			if err := store.SetShowSubtitles(cmd.Context(), name, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subtitles for %s: %s\n", name, yesNo(enabled))
			return nil
		},
	}
	cmd.Flags().StringVar(&subtitlesFlag, "subtitles", "on", "Subtitle handling: on or off")
	return cmd
}

func newShowsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shows with stored subtitle settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.history()
			if err != nil {
				return err
			}
			shows, err := store.Shows(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(shows) == 0 {
				fmt.Fprintln(out, "No shows configured")
				return nil
			}
			list := newListing("Show", "Subtitles")
			for _, show := range shows {
				list.add(show.Name, yesNo(show.Subtitles))
			}
			fmt.Fprintln(out, list)
			return nil
		},
	}
}

func parseOnOff(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	default:
		return false, services.Wrap(services.ErrValidation, "shows", "parse flag", fmt.Sprintf("--subtitles: unsupported value %q (use on or off)", value), nil)
	}
}
