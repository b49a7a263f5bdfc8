package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := c.client().GetStatus()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "daemon_running:       %v\n", status.DaemonRunning)
			fmt.Fprintf(w, "active_workspace:     %s\n", status.ActiveWorkspace)
			fmt.Fprintf(w, "active_layout_engine: %s\n", status.ActiveLayoutEngine)
			fmt.Fprintf(w, "workspaces:           %d\n", status.Workspaces)
			fmt.Fprintf(w, "windows:              %d\n", status.Windows)
			fmt.Fprintf(w, "monitors:             %d\n", status.Monitors)
			fmt.Fprintf(w, "uptime_seconds:       %d\n", status.UptimeSeconds)
			return nil
		},
	}
}

func (c *CLI) monitorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List monitors and the workspace each one shows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.client().GetMonitors()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, m := range data.Monitors {
				primary := ""
				if m.Primary {
					primary = " (primary)"
				}
				fmt.Fprintf(w, "- %s%s %dx%d+%d+%d workspace=%s\n", m.Name, primary, m.Width, m.Height, m.X, m.Y, m.Workspace)
			}
			return nil
		},
	}
}

func (c *CLI) reloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to re-read its config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.client().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
			return nil
		},
	}
}

func (c *CLI) saveStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save-state",
		Short: "Write the window assignment so the next daemon start restores it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.client().SaveState(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "state saved")
			return nil
		},
	}
}

// reportChanged prints what a state-changing command did.
func reportChanged(cmd *cobra.Command, changed bool, what string) {
	if changed {
		fmt.Fprintln(cmd.OutOrStdout(), what)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "nothing changed")
}
