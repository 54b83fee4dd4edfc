package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/cli/formatter"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	cmd.AddCommand(
		newCategoryAddCmd(app),
		newCategoryRenameCmd(app),
		newNodeRemoveCmd(app, "category"),
	)

	return cmd
}

func newCategoryAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add MAP NAME",
		Short: "Add a top-level category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			cat, err := app.Nodes.AddCategory(ctx, mapID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s %s\n", formatter.Bold(cat.Name), formatter.TruncID(cat.ID))
			return nil
		},
	}
}

func newCategoryRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename MAP CATEGORY NAME",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			nodeID, err := resolveNodeID(ctx, app, mapID, args[1])
			if err != nil {
				return err
			}
			if err := app.Nodes.RenameCategory(ctx, mapID, nodeID, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed category to %s\n", formatter.Bold(args[2]))
			return nil
		},
	}
}

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage members",
	}

	cmd.AddCommand(
		newMemberAddCmd(app),
		newMemberRoleCmd(app),
		newMemberPlaceCmd(app),
		newNodeRemoveCmd(app, "member"),
	)

	return cmd
}

func newMemberAddCmd(app *App) *cobra.Command {
	var role, iconURL, accountID string

	cmd := &cobra.Command{
		Use:   "add MAP CATEGORY NAME",
		Short: "Add a member under a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			categoryID, err := resolveNodeID(ctx, app, mapID, args[1])
			if err != nil {
				return err
			}
			member, err := app.Nodes.AddMember(ctx, mapID, categoryID, args[2], role, iconURL, accountID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added member %s %s\n", formatter.Bold(member.Name), formatter.TruncID(member.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role shown under the member")
	cmd.Flags().StringVar(&iconURL, "icon", "", "Avatar image URL")
	cmd.Flags().StringVar(&accountID, "chatwork-id", "", "Chatwork account ID")

	return cmd
}

func newMemberRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "role MAP MEMBER ROLE",
		Short: "Set a member's role (use \"\" to clear)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			nodeID, err := resolveNodeID(ctx, app, mapID, args[1])
			if err != nil {
				return err
			}
			if err := app.Nodes.SetMemberRole(ctx, mapID, nodeID, args[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated role")
			return nil
		},
	}
}

func newMemberPlaceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "place MAP UNASSIGNED CATEGORY",
		Short: "Move an unassigned member under a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			categoryID, err := resolveNodeID(ctx, app, mapID, args[2])
			if err != nil {
				return err
			}
			member, err := app.Nodes.PlaceMember(ctx, mapID, args[1], categoryID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Placed %s %s\n", formatter.Bold(member.Name), formatter.TruncID(member.ID))
			return nil
		},
	}
}

func newNodeRemoveCmd(app *App, kind string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove MAP NODE",
		Short: "Remove a " + kind + " from the chart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			nodeID, err := resolveNodeID(ctx, app, mapID, args[1])
			if err != nil {
				return err
			}
			if err := app.Nodes.DeleteNode(ctx, mapID, nodeID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", kind, nodeID)
			return nil
		},
	}
}
