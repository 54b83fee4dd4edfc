package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/cli/formatter"
)

func newUnassignedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unassigned",
		Short: "Manage the unassigned member pool",
	}

	cmd.AddCommand(
		newUnassignedAddCmd(app),
		newUnassignedListCmd(app),
		newUnassignedRemoveCmd(app),
	)

	return cmd
}

func newUnassignedAddCmd(app *App) *cobra.Command {
	var iconURL, accountID string

	cmd := &cobra.Command{
		Use:   "add MAP NAME",
		Short: "Add a member to the pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			u, err := app.Unassigned.Add(ctx, mapID, args[1], iconURL, accountID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to the pool %s\n", formatter.Bold(u.Name), formatter.TruncID(u.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&iconURL, "icon", "", "Avatar image URL")
	cmd.Flags().StringVar(&accountID, "chatwork-id", "", "Chatwork account ID")

	return cmd
}

func newUnassignedListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list MAP",
		Short: "List pool members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			pool, err := app.Unassigned.List(ctx, mapID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatUnassigned(pool))
			return nil
		},
	}
}

func newUnassignedRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove MAP ID",
		Short: "Remove a member from the pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Unassigned.Remove(ctx, mapID, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed from the pool")
			return nil
		},
	}
}
