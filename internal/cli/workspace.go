package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) workspaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "List and manage workspaces",
	}

	cmd.AddCommand(c.workspaceListCommand())
	cmd.AddCommand(c.workspaceActivateCommand())
	cmd.AddCommand(c.workspaceNextCommand())
	cmd.AddCommand(c.workspaceAddCommand())
	cmd.AddCommand(c.workspaceRemoveCommand())
	cmd.AddCommand(c.workspaceRenameCommand())

	return cmd
}

func (c *CLI) workspaceListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.client().ListWorkspaces()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, ws := range data.Workspaces {
				marker := "-"
				if ws.Active {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %s [%s] windows=%d", marker, ws.Name, ws.LayoutEngine, ws.Windows)
				if ws.Monitor != "" {
					fmt.Fprintf(w, " monitor=%s", ws.Monitor)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func (c *CLI) workspaceActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <name>",
		Short: "Show a workspace on the active monitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := c.client().ActivateWorkspace(args[0])
			if err != nil {
				return err
			}
			reportChanged(cmd, changed, "activated "+args[0])
			return nil
		},
	}
}

func (c *CLI) workspaceNextCommand() *cobra.Command {
	var reverse, skipVisible bool

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next workspace on the active monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := c.client().ActivateAdjacent(reverse, skipVisible)
			if err != nil {
				return err
			}
			reportChanged(cmd, changed, "workspace changed")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "go to the previous workspace")
	cmd.Flags().BoolVar(&skipVisible, "skip-visible", false, "skip workspaces shown on other monitors")
	return cmd
}

func (c *CLI) workspaceAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Create a workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = strings.TrimSpace(args[0])
			}
			id, err := c.client().AddWorkspace(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func (c *CLI) workspaceRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a workspace, moving its windows elsewhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := c.client().RemoveWorkspace(args[0])
			if err != nil {
				return err
			}
			reportChanged(cmd, changed, "removed "+args[0])
			return nil
		},
	}
}

func (c *CLI) workspaceRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newName := strings.TrimSpace(args[1])
			if newName == "" {
				return fmt.Errorf("new name must not be empty")
			}
			changed, err := c.client().RenameWorkspace(args[0], newName)
			if err != nil {
				return err
			}
			reportChanged(cmd, changed, fmt.Sprintf("renamed %s to %s", args[0], newName))
			return nil
		},
	}
}
