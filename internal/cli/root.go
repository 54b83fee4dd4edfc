package cli

import (
	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/service"
	"github.com/torufuji/orgmap/internal/watch"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Maps       service.MapService
	Nodes      service.NodeService
	Unassigned service.UnassignedService
	History    service.HistoryService
	Import     service.ImportService
	Hub        *watch.Hub

	// Origin is the base URL used for share links.
	Origin string

	// PrefsPath locates the local preferences file.
	PrefsPath string

	// IsInteractive reports whether stdin is a terminal; interactive
	// commands fall back to flags when it is false.
	IsInteractive func() bool
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "orgmap" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "orgmap",
		Short:         "Collaborative org-chart editor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMapCmd(app),
		newCategoryCmd(app),
		newMemberCmd(app),
		newUnassignedCmd(app),
		newHistoryCmd(app),
		newViewCmd(app),
		newImportCmd(app),
		newLiveCmd(app),
		newConfigCmd(app),
	)

	return root
}
