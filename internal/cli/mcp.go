package cli

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/whim/internal/mcp"
)

func (c *CLI) mcpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve whim tools over MCP on stdio",
		Long: `Start the MCP server on stdio. It forwards tool calls to the running
daemon, so start "whim daemon" first.

Example:
  claude mcp add whim -- whim mcp serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := mcp.NewServer(c.client(), c.slogger().With("component", "mcp"))
			return server.Run(cmd.Context())
		},
	})

	return cmd
}
