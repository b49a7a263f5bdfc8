package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		ActiveWorkspace:    status.ActiveWorkspace,
		ActiveLayoutEngine: status.ActiveLayoutEngine,
		Workspaces:         status.Workspaces,
		Windows:            status.Windows,
		Monitors:           status.Monitors,
		UptimeSeconds:      status.UptimeSeconds,
	}, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	data, err := s.daemon.ListWorkspaces()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	out := ListWorkspacesOutput{Workspaces: data.Workspaces}
	if out.Workspaces == nil {
		out.Workspaces = []ipc.WorkspaceInfo{}
	}
	return nil, out, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	workspace := strings.TrimSpace(args.Workspace)

	windows := make([]ipc.WindowInfo, 0, len(data.Windows))
	for _, w := range data.Windows {
		if workspace != "" && w.Workspace != workspace {
			continue
		}
		windows = append(windows, w)
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	out := ListMonitorsOutput{Monitors: data.Monitors}
	if out.Monitors == nil {
		out.Monitors = []ipc.MonitorInfo{}
	}
	return nil, out, nil
}

func (s *Server) handleActivateWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args ActivateWorkspaceInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	name := strings.TrimSpace(args.Workspace)
	adjacent := strings.ToLower(strings.TrimSpace(args.Adjacent))

	var (
		changed bool
		err     error
	)
	switch {
	case adjacent != "" && name != "":
		return nil, ChangedOutput{}, fmt.Errorf("workspace and adjacent are mutually exclusive")
	case adjacent == "next":
		changed, err = s.daemon.ActivateAdjacent(false, args.SkipVisible)
	case adjacent == "previous" || adjacent == "prev":
		changed, err = s.daemon.ActivateAdjacent(true, args.SkipVisible)
	case adjacent != "":
		return nil, ChangedOutput{}, fmt.Errorf("adjacent must be next or previous, got %q", args.Adjacent)
	case name == "":
		return nil, ChangedOutput{}, fmt.Errorf("workspace is required")
	default:
		changed, err = s.daemon.ActivateWorkspace(name)
	}
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	s.logger.Debug("workspace activated", "workspace", name, "adjacent", adjacent, "changed", changed)
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleAddWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args AddWorkspaceInput) (*mcpsdk.CallToolResult, AddWorkspaceOutput, error) {
	id, err := s.daemon.AddWorkspace(strings.TrimSpace(args.Name))
	if err != nil {
		return nil, AddWorkspaceOutput{}, err
	}
	return nil, AddWorkspaceOutput{ID: id}, nil
}

func (s *Server) handleRenameWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args RenameWorkspaceInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	newName := strings.TrimSpace(args.NewName)
	if newName == "" {
		return nil, ChangedOutput{}, fmt.Errorf("new_name is required")
	}
	changed, err := s.daemon.RenameWorkspace(strings.TrimSpace(args.Workspace), newName)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleRemoveWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveWorkspaceInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	name := strings.TrimSpace(args.Workspace)
	if name == "" {
		return nil, ChangedOutput{}, fmt.Errorf("workspace is required")
	}
	changed, err := s.daemon.RemoveWorkspace(name)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	workspace := strings.TrimSpace(args.Workspace)
	if workspace == "" {
		return nil, ChangedOutput{}, fmt.Errorf("workspace is required")
	}
	changed, err := s.daemon.MoveWindow(workspace, args.Window)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleFocusDirection(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	direction, err := cardinal(args.Direction)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	changed, err := s.daemon.FocusDirection(direction)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleSwapDirection(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	direction, err := cardinal(args.Direction)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	changed, err := s.daemon.SwapDirection(direction)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleCycleLayoutEngine(_ context.Context, _ *mcpsdk.CallToolRequest, args CycleLayoutEngineInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	changed, err := s.daemon.CycleLayoutEngine(strings.TrimSpace(args.Workspace), args.Reverse)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleLayoutAction(_ context.Context, _ *mcpsdk.CallToolRequest, args LayoutActionInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	action := strings.TrimSpace(args.Action)
	if action == "" {
		return nil, ChangedOutput{}, fmt.Errorf("action is required")
	}
	direction := strings.TrimSpace(args.Direction)
	if direction != "" {
		if _, err := geometry.ParseDirection(direction); err != nil {
			return nil, ChangedOutput{}, err
		}
	}
	changed, err := s.daemon.LayoutCustomAction(ipc.CustomActionPayload{
		Workspace: strings.TrimSpace(args.Workspace),
		Action:    action,
		Window:    args.Window,
		Direction: direction,
	})
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

// cardinal validates a single-edge direction and returns its canonical name.
func cardinal(s string) (string, error) {
	d, err := geometry.ParseDirection(s)
	if err != nil {
		return "", err
	}
	switch d {
	case geometry.DirectionLeft, geometry.DirectionRight, geometry.DirectionUp, geometry.DirectionDown:
		return d.String(), nil
	}
	return "", fmt.Errorf("direction %q must be one of left, right, up, down", s)
}
