package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload             CommandType = "RELOAD"
	CommandSaveState          CommandType = "SAVE_STATE"
	CommandGetStatus          CommandType = "GET_STATUS"
	CommandGetMonitors        CommandType = "GET_MONITORS"
	CommandListWorkspaces     CommandType = "LIST_WORKSPACES"
	CommandListWindows        CommandType = "LIST_WINDOWS"
	CommandActivateWorkspace  CommandType = "ACTIVATE_WORKSPACE"
	CommandActivateAdjacent   CommandType = "ACTIVATE_ADJACENT"
	CommandAddWorkspace       CommandType = "ADD_WORKSPACE"
	CommandRemoveWorkspace    CommandType = "REMOVE_WORKSPACE"
	CommandRenameWorkspace    CommandType = "RENAME_WORKSPACE"
	CommandCycleLayoutEngine  CommandType = "CYCLE_LAYOUT_ENGINE"
	CommandFocusDirection     CommandType = "FOCUS_DIRECTION"
	CommandSwapDirection      CommandType = "SWAP_DIRECTION"
	CommandMoveWindow         CommandType = "MOVE_WINDOW"
	CommandLayoutCustomAction CommandType = "LAYOUT_CUSTOM_ACTION"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	// Code is the store error code (NOT_FOUND, INVARIANT_VIOLATION,
	// EXTERNAL) when the failure came from a transform.
	Code string `json:"code,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveWorkspace    string `json:"active_workspace"`
	ActiveLayoutEngine string `json:"active_layout_engine"`
	Workspaces         int    `json:"workspaces"`
	Windows            int    `json:"windows"`
	Monitors           int    `json:"monitors"`
	UptimeSeconds      int64  `json:"uptime_seconds"`
	DaemonRunning      bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	Handle    uint64 `json:"handle"`
	Name      string `json:"name"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Primary   bool   `json:"primary,omitempty"`
	Workspace string `json:"workspace,omitempty"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

type WorkspaceInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LayoutEngine  string   `json:"layout_engine"`
	LayoutEngines []string `json:"layout_engines"`
	Windows       int      `json:"windows"`
	Monitor       string   `json:"monitor,omitempty"`
	Active        bool     `json:"active,omitempty"`
}

type WorkspacesData struct {
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

type WindowInfo struct {
	Handle    uint64 `json:"handle"`
	Process   string `json:"process"`
	Title     string `json:"title"`
	Workspace string `json:"workspace,omitempty"`
	Minimized bool   `json:"minimized,omitempty"`
	// Rect is the last position the workspace's layout gave the window.
	Rect *RectInfo `json:"rect,omitempty"`
}

// RectInfo is a pixel rectangle in screen coordinates.
type RectInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// WorkspacePayload names a workspace. An empty name means the active one.
type WorkspacePayload struct {
	Name string `json:"name,omitempty"`
}

type RenameWorkspacePayload struct {
	Name    string `json:"name,omitempty"`
	NewName string `json:"new_name"`
}

type AdjacentPayload struct {
	Reverse     bool `json:"reverse,omitempty"`
	SkipVisible bool `json:"skip_visible,omitempty"`
}

type CycleLayoutEnginePayload struct {
	Workspace string `json:"workspace,omitempty"`
	Reverse   bool   `json:"reverse,omitempty"`
}

// DirectionPayload targets a window (the focused one when Window is zero).
type DirectionPayload struct {
	Direction string `json:"direction"`
	Window    uint64 `json:"window,omitempty"`
}

type MoveWindowPayload struct {
	Workspace string `json:"workspace"`
	Window    uint64 `json:"window,omitempty"`
}

// CustomActionPayload sends a named action to a workspace's engines.
// Direction is passed as the action payload when set.
type CustomActionPayload struct {
	Workspace string `json:"workspace,omitempty"`
	Action    string `json:"action"`
	Window    uint64 `json:"window,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// ChangedData reports whether a command changed any state.
type ChangedData struct {
	Changed bool `json:"changed"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
