package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/cli/formatter"
	"github.com/torufuji/orgmap/internal/mapfile"
)

func newMapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Manage org maps",
	}

	cmd.AddCommand(
		newMapCreateCmd(app),
		newMapListCmd(app),
		newMapRenameCmd(app),
		newMapDuplicateCmd(app),
		newMapRemoveCmd(app),
		newMapShareCmd(app),
		newMapExportCmd(app),
		newMapImportCmd(app),
	)

	return cmd
}

func newMapCreateCmd(app *App) *cobra.Command {
	var name, createdBy string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new org map",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && app.interactive() {
				form := createMapForm(&name)
				if err := form.Run(); err != nil {
					return err
				}
			}
			if createdBy == "" {
				createdBy = localNickname(app)
			}

			m, err := app.Maps.Create(context.Background(), name, createdBy)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created map %s %s\n", formatter.Bold(m.Name), formatter.TruncID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Map name")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "Creator recorded on the map")

	return cmd
}

func newMapListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List org maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			maps, err := app.Maps.List(context.Background())
			if err != nil {
				return err
			}

			if len(maps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No maps found.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatMapList(maps))
			return nil
		},
	}
}

func newMapRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename MAP NAME",
		Short: "Rename an org map",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Maps.Rename(ctx, mapID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed map to %s\n", formatter.Bold(args[1]))
			return nil
		},
	}
}

func newMapDuplicateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "duplicate MAP",
		Short: "Duplicate an org map with all its nodes and pool members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			dup, err := app.Maps.Duplicate(ctx, mapID, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created copy %s %s\n", formatter.Bold(dup.Name), formatter.TruncID(dup.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name for the copy (default: source name + のコピー)")

	return cmd
}

func newMapRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove MAP",
		Short: "Delete an org map and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Maps.Delete(ctx, mapID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed map %s\n", mapID)
			return nil
		},
	}
}

func newMapExportCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export MAP",
		Short: "Export a map as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			m, err := app.Maps.GetByID(ctx, mapID)
			if err != nil {
				return err
			}
			nodes, err := app.Nodes.ListByMap(ctx, mapID)
			if err != nil {
				return err
			}
			pool, err := app.Unassigned.List(ctx, mapID)
			if err != nil {
				return err
			}

			data, err := mapfile.Marshal(mapfile.Export(m, nodes, pool))
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", formatter.Bold(m.Name), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")

	return cmd
}

func newMapImportCmd(app *App) *cobra.Command {
	var name, createdBy string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a new map from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := mapfile.Load(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				f.Name = name
			}
			if errs := mapfile.Validate(f); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", e)
				}
				return fmt.Errorf("map file has %d validation error(s)", len(errs))
			}
			if createdBy == "" {
				createdBy = localNickname(app)
			}

			m, err := app.Maps.ImportFile(context.Background(), mapfile.Convert(f, createdBy))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported map %s %s\n", formatter.Bold(m.Name), formatter.TruncID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Override the map name from the file")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "Creator recorded on the map")

	return cmd
}

func newMapShareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "share MAP",
		Short: "Print the shareable URL for a map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}
			url, err := app.Maps.ShareURL(ctx, app.Origin, mapID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
