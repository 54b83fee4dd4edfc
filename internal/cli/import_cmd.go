package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/prefs"
)

func newImportCmd(app *App) *cobra.Command {
	var token string
	var accounts []string

	cmd := &cobra.Command{
		Use:   "import MAP",
		Short: "Import Chatwork contacts into the unassigned pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			mapID, err := resolveMapID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if token == "" {
				p, err := prefs.Load(app.PrefsPath)
				if err != nil {
					return err
				}
				token = p.ChatworkToken
			}
			if token == "" {
				return fmt.Errorf("no Chatwork token: pass --token or run `orgmap config --token`")
			}

			added, err := app.Import.ImportContacts(ctx, mapID, token, accounts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d contacts into the pool\n", added)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Chatwork API token (default: stored preference)")
	cmd.Flags().StringSliceVar(&accounts, "account", nil, "Account IDs to import (default: all contacts)")

	return cmd
}
