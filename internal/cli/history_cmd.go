package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/cli/formatter"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history MAP",
		Short: "Show a map's change history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			entries, err := app.History.List(ctx, mapID, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatHistory(entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to show (default 50)")

	return cmd
}
