package cli

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/whim/internal/tui"
)

func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive dashboard for the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), c.client())
		},
	}
}
