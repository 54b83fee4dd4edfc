package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/cli/formatter"
	"github.com/torufuji/orgmap/internal/layout"
	"github.com/torufuji/orgmap/internal/tree"
)

func newViewCmd(app *App) *cobra.Command {
	var asTree bool
	var asDiagram bool
	var collapse []string

	cmd := &cobra.Command{
		Use:   "view MAP",
		Short: "Render a map's org chart",
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

			collapsed := make(map[string]bool, len(collapse))
			for _, ref := range collapse {
				id, err := resolveNodeID(ctx, app, mapID, ref)
				if err != nil {
					return err
				}
				collapsed[id] = true
			}

			forest := tree.Build(nodes)
			out := cmd.OutOrStdout()

			switch {
			case asDiagram && asTree:
				result := layout.DepthFirst(m.Name, forest, collapsed, layout.DepthFirstOptions())
				fmt.Fprint(out, formatter.FormatDiagram(result))
			case asDiagram:
				result := layout.Radial(m.Name, nodes, collapsed, layout.RadialOptions())
				fmt.Fprint(out, formatter.FormatDiagram(result))
			default:
				fmt.Fprint(out, formatter.RenderOrgTree(m.Name, forest, collapsed))
				fmt.Fprintln(out, formatter.RenderTreeCounts(forest))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTree, "tree", false, "Use the depth-first layout for --diagram")
	cmd.Flags().BoolVar(&asDiagram, "diagram", false, "Show computed diagram positions instead of the tree")
	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "Categories to collapse (id, prefix or name)")

	return cmd
}
