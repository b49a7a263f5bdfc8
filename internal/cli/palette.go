package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/whim/internal/palette"
)

func (c *CLI) paletteCommand() *cobra.Command {
	var backendName string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Pick a workspace or command from rofi, fuzzel, wofi or dmenu",
		Long: `Show the daemon's workspaces and commands in an external launcher and run
the selection. In rofi, Alt+Return on a workspace moves the focused window
there instead of activating it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := palette.NewBackend(backendName)
			if err != nil {
				return err
			}
			client := c.client()
			data, err := client.ListWorkspaces()
			if err != nil {
				return err
			}

			menu := palette.NewMenu(backend, appName, palette.BuildMenu(data.Workspaces))
			if backend.Capabilities().MessageBar {
				menu.SetMessage(palette.Hint)
			}
			res, err := menu.Show()
			if errors.Is(err, palette.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}

			text, err := palette.Execute(client, res)
			if err != nil {
				return err
			}
			c.Logger.Debug("palette", "action", res.Action, "result", text)
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", "auto", "launcher: auto, rofi, fuzzel, wofi or dmenu")
	return cmd
}
