package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torufuji/orgmap/internal/cli/formatter"
	"github.com/torufuji/orgmap/internal/prefs"
)

// localNickname returns the stored nickname, falling back to "anonymous".
func localNickname(app *App) string {
	p, err := prefs.Load(app.PrefsPath)
	if err != nil || p.Nickname == "" {
		return "anonymous"
	}
	return p.Nickname
}

func newConfigCmd(app *App) *cobra.Command {
	var nickname, token string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update local preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prefs.Load(app.PrefsPath)
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("nickname") {
				p.Nickname = nickname
				changed = true
			}
			if cmd.Flags().Changed("token") {
				p.ChatworkToken = token
				changed = true
			}
			if changed {
				if err := prefs.Save(app.PrefsPath, p); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			name := p.Nickname
			if name == "" {
				name = formatter.Dim("(unset)")
			}
			tok := formatter.Dim("(unset)")
			if p.ChatworkToken != "" {
				tok = formatter.Dim("(set)")
			}
			fmt.Fprintf(out, "nickname: %s\n", name)
			fmt.Fprintf(out, "chatwork token: %s\n", tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "Display name recorded on history entries")
	cmd.Flags().StringVar(&token, "token", "", "Chatwork API token")

	return cmd
}
