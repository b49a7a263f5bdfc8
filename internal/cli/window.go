package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/ipc"
)

func (c *CLI) windowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "List and move managed windows",
	}

	cmd.AddCommand(c.windowListCommand())
	cmd.AddCommand(c.windowDirectionCommand("focus", "Focus the neighbour of the focused window"))
	cmd.AddCommand(c.windowDirectionCommand("swap", "Swap the focused window with its neighbour"))
	cmd.AddCommand(c.windowMoveCommand())

	return cmd
}

func (c *CLI) windowListCommand() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.client().ListWindows()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, win := range data.Windows {
				if workspace != "" && win.Workspace != workspace {
					continue
				}
				state := ""
				if win.Minimized {
					state = " (minimized)"
				}
				fmt.Fprintf(w, "- %#x %s %q workspace=%s%s\n", win.Handle, win.Process, win.Title, win.Workspace, state)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "only list windows on this workspace")
	return cmd
}

func (c *CLI) windowDirectionCommand(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:       verb + " <left|right|up|down>",
		Short:     short,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"left", "right", "up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := geometry.ParseDirection(args[0])
			if err != nil {
				return err
			}
			client := c.client()
			var changed bool
			if verb == "focus" {
				changed, err = client.FocusDirection(d.String())
			} else {
				changed, err = client.SwapDirection(d.String())
			}
			if err != nil {
				return err
			}
			reportChanged(cmd, changed, verb+" "+d.String())
			return nil
		},
	}
}

func (c *CLI) windowMoveCommand() *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "move <workspace>",
		Short: "Move a window (the focused one by default) to a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := parseHandle(window)
			if err != nil {
				return err
			}
			changed, err := c.client().MoveWindow(args[0], handle)
			if err != nil {
				return err
			}
			reportChanged(cmd, changed, "moved to "+args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", "", "window handle, decimal or 0x hex (default: focused window)")
	return cmd
}

func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Switch and drive layout engines",
	}
	cmd.AddCommand(c.layoutCycleCommand())
	cmd.AddCommand(c.layoutActionCommand())
	return cmd
}

func (c *CLI) layoutCycleCommand() *cobra.Command {
	var workspace string
	var reverse bool

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Switch a workspace to its next layout engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := c.client().CycleLayoutEngine(workspace, reverse)
			if err != nil {
				return err
			}
			reportChanged(cmd, changed, "layout engine changed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace name (default: active workspace)")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "cycle to the previous engine")
	return cmd
}

func (c *CLI) layoutActionCommand() *cobra.Command {
	var workspace, window, direction string

	cmd := &cobra.Command{
		Use:   "action <name>",
		Short: "Send a named action to a workspace's layout engines",
		Long: `Send a named action to a workspace's layout engines. Built-in actions:

  column.toggle_direction   reverse the column order
  focus.toggle_maximized    toggle maximizing the focused window
  tree.set_add_direction    set where new windows split (needs --direction)
  tree.add_phantom          reserve a slot next to the focused window
  tree.remove_phantom       drop the reserved slot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := parseHandle(window)
			if err != nil {
				return err
			}
			if direction != "" {
				if _, err := geometry.ParseDirection(direction); err != nil {
					return err
				}
			}
			changed, err := c.client().LayoutCustomAction(ipc.CustomActionPayload{
				Workspace: workspace,
				Action:    args[0],
				Window:    handle,
				Direction: direction,
			})
			if err != nil {
				return err
			}
			reportChanged(cmd, changed, "applied "+args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace name (default: active workspace)")
	cmd.Flags().StringVar(&window, "window", "", "window handle (default: focused window)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "direction argument for actions that take one")
	return cmd
}

// parseHandle parses a window handle. Empty means the focused window.
func parseHandle(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	h, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q", s)
	}
	return h, nil
}
