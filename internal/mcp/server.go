package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/whim/internal/ipc"
)

const (
	ServerName    = "whim"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools use. *ipc.Client
// satisfies it.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	ListWorkspaces() (*ipc.WorkspacesData, error)
	ListWindows() (*ipc.WindowsData, error)
	ActivateWorkspace(name string) (bool, error)
	ActivateAdjacent(reverse, skipVisible bool) (bool, error)
	AddWorkspace(name string) (string, error)
	RemoveWorkspace(name string) (bool, error)
	RenameWorkspace(name, newName string) (bool, error)
	CycleLayoutEngine(workspace string, reverse bool) (bool, error)
	FocusDirection(direction string) (bool, error)
	SwapDirection(direction string) (bool, error)
	MoveWindow(workspace string, window uint64) (bool, error)
	LayoutCustomAction(payload ipc.CustomActionPayload) (bool, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server exposing a running whim daemon as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards tool calls to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the active workspace, its active layout engine and how many workspaces, windows and monitors whim is managing.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List every workspace with its layout engines, window count and the monitor showing it, if any.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List managed windows with their process, title and workspace. Optionally restrict to one workspace.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List monitors with their bounds and the workspace each one shows.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_workspace",
		Description: "Show a workspace on the active monitor. If it is visible elsewhere the two monitors swap workspaces. Set adjacent to step to the next or previous workspace instead of naming one.",
	}, s.handleActivateWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_workspace",
		Description: "Create a workspace. Without a name whim picks the next free default name.",
	}, s.handleAddWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "rename_workspace",
		Description: "Rename a workspace. Names must stay unique.",
	}, s.handleRenameWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_workspace",
		Description: "Remove a workspace. Its windows move to another workspace. The last workspace on a monitor can not be removed.",
	}, s.handleRemoveWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window (the focused one by default) to another workspace.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_direction",
		Description: "Focus the window next to the focused window in a direction (left, right, up, down).",
	}, s.handleFocusDirection)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "swap_direction",
		Description: "Swap the focused window with its neighbour in a direction (left, right, up, down).",
	}, s.handleSwapDirection)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cycle_layout_engine",
		Description: "Switch a workspace (the active one by default) to its next or previous layout engine.",
	}, s.handleCycleLayoutEngine)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "layout_action",
		Description: "Send a named action to a workspace's layout engines, for example column.toggle_direction, focus.toggle_maximized or tree.set_add_direction with a direction.",
	}, s.handleLayoutAction)
}
