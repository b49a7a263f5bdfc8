package mcp

import "github.com/1broseidon/whim/internal/ipc"

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	ActiveWorkspace    string `json:"active_workspace"`
	ActiveLayoutEngine string `json:"active_layout_engine"`
	Workspaces         int    `json:"workspaces"`
	Windows            int    `json:"windows"`
	Monitors           int    `json:"monitors"`
	UptimeSeconds      int64  `json:"uptime_seconds"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []ipc.WorkspaceInfo `json:"workspaces"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Only list windows on this workspace"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}

// ActivateWorkspaceInput is the input for the activate_workspace tool.
type ActivateWorkspaceInput struct {
	Workspace   string `json:"workspace,omitempty" jsonschema:"Workspace name to show. Required unless adjacent is set"`
	Adjacent    string `json:"adjacent,omitempty" jsonschema:"next or previous: step from the active workspace instead of naming one"`
	SkipVisible bool   `json:"skip_visible,omitempty" jsonschema:"With adjacent, skip workspaces already shown on another monitor"`
}

// ChangedOutput reports whether a tool changed any state.
type ChangedOutput struct {
	Changed bool `json:"changed"`
}

// AddWorkspaceInput is the input for the add_workspace tool.
type AddWorkspaceInput struct {
	Name string `json:"name,omitempty" jsonschema:"Workspace name (default: next free default name)"`
}

// AddWorkspaceOutput is the output for the add_workspace tool.
type AddWorkspaceOutput struct {
	ID string `json:"id"`
}

// RenameWorkspaceInput is the input for the rename_workspace tool.
type RenameWorkspaceInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace to rename (default: active workspace)"`
	NewName   string `json:"new_name" jsonschema:"The new workspace name"`
}

// WorkspaceInput names a workspace. Empty means the active one.
type WorkspaceInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace name (default: active workspace)"`
}

// RemoveWorkspaceInput is the input for the remove_workspace tool.
type RemoveWorkspaceInput struct {
	Workspace string `json:"workspace" jsonschema:"Workspace name to remove"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	Workspace string `json:"workspace" jsonschema:"Target workspace name"`
	Window    uint64 `json:"window,omitempty" jsonschema:"Window handle from list_windows (default: focused window)"`
}

// DirectionInput is the input for the focus_direction and swap_direction tools.
type DirectionInput struct {
	Direction string `json:"direction" jsonschema:"One of left, right, up, down"`
}

// CycleLayoutEngineInput is the input for the cycle_layout_engine tool.
type CycleLayoutEngineInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace name (default: active workspace)"`
	Reverse   bool   `json:"reverse,omitempty" jsonschema:"Cycle to the previous engine instead of the next"`
}

// LayoutActionInput is the input for the layout_action tool.
type LayoutActionInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace name (default: active workspace)"`
	Action    string `json:"action" jsonschema:"Action name such as column.toggle_direction or tree.set_add_direction"`
	Window    uint64 `json:"window,omitempty" jsonschema:"Window the action applies to (default: focused window)"`
	Direction string `json:"direction,omitempty" jsonschema:"Direction argument for actions that take one"`
}
