package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/whim/internal/config"
	"github.com/1broseidon/whim/internal/daemon"
	"github.com/1broseidon/whim/internal/platform"
)

// daemonCommand creates the "daemon" command.
func (c *CLI) daemonCommand() *cobra.Command {
	var configPath, statePath string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the whim daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.DefaultConfigPath()
			}
			res, err := config.LoadFromPath(configPath)
			if err != nil {
				return err
			}
			c.applyConfigLevel(res.Config.LogLevel)

			native, err := platform.Open()
			if err != nil {
				return fmt.Errorf("failed to connect to display: %w", err)
			}
			defer native.Close()

			return daemon.Run(cmd.Context(), native, daemon.Options{
				ConfigPath: configPath,
				StatePath:  statePath,
				SocketPath: c.socketPath,
				Logger:     c.slogger(),
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/whim/config.yaml)")
	cmd.Flags().StringVar(&statePath, "state", "", "saved state file (default: $XDG_STATE_HOME/whim/saved_state.json)")
	return cmd
}
