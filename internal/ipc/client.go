package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/whim/internal/runtimepath"
)

// RemoteError is an ERROR response returned by the daemon.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("daemon error: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("daemon error: %s", e.Message)
}

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath)
}

// NewClientForSocket creates a client for socketPath.
func NewClientForSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, &RemoteError{Code: resp.Code, Message: resp.Error}
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

func (c *Client) changed(command CommandType, payload any) (bool, error) {
	var data ChangedData
	if err := c.call(command, payload, &data); err != nil {
		return false, err
	}
	return data.Changed, nil
}

// Reload asks the daemon to re-read its configuration.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// SaveState asks the daemon to write its saved state now.
func (c *Client) SaveState() error {
	return c.call(CommandSaveState, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

func (c *Client) ListWorkspaces() (*WorkspacesData, error) {
	var data WorkspacesData
	if err := c.call(CommandListWorkspaces, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ActivateWorkspace shows the named workspace on the active monitor.
func (c *Client) ActivateWorkspace(name string) (bool, error) {
	return c.changed(CommandActivateWorkspace, WorkspacePayload{Name: name})
}

func (c *Client) ActivateAdjacent(reverse, skipVisible bool) (bool, error) {
	return c.changed(CommandActivateAdjacent, AdjacentPayload{Reverse: reverse, SkipVisible: skipVisible})
}

// AddWorkspace creates a workspace and returns its id. An empty name lets
// the daemon pick one.
func (c *Client) AddWorkspace(name string) (string, error) {
	var data map[string]string
	if err := c.call(CommandAddWorkspace, WorkspacePayload{Name: name}, &data); err != nil {
		return "", err
	}
	return data["id"], nil
}

func (c *Client) RemoveWorkspace(name string) (bool, error) {
	return c.changed(CommandRemoveWorkspace, WorkspacePayload{Name: name})
}

func (c *Client) RenameWorkspace(name, newName string) (bool, error) {
	return c.changed(CommandRenameWorkspace, RenameWorkspacePayload{Name: name, NewName: newName})
}

func (c *Client) CycleLayoutEngine(workspace string, reverse bool) (bool, error) {
	return c.changed(CommandCycleLayoutEngine, CycleLayoutEnginePayload{Workspace: workspace, Reverse: reverse})
}

// FocusDirection focuses the neighbour of the focused window.
func (c *Client) FocusDirection(direction string) (bool, error) {
	return c.changed(CommandFocusDirection, DirectionPayload{Direction: direction})
}

// SwapDirection swaps the focused window with its neighbour.
func (c *Client) SwapDirection(direction string) (bool, error) {
	return c.changed(CommandSwapDirection, DirectionPayload{Direction: direction})
}

// MoveWindow moves window (the focused one when zero) to workspace.
func (c *Client) MoveWindow(workspace string, window uint64) (bool, error) {
	return c.changed(CommandMoveWindow, MoveWindowPayload{Workspace: workspace, Window: window})
}

func (c *Client) LayoutCustomAction(payload CustomActionPayload) (bool, error) {
	return c.changed(CommandLayoutCustomAction, payload)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
