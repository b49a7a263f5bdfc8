package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
	"github.com/1broseidon/whim/internal/store"
)

// Hooks are daemon operations the server cannot perform on the store alone.
// A nil hook makes the matching command fail.
type Hooks struct {
	Reload    func() error
	SaveState func() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	store        *store.Store
	hooks        Hooks
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server listening on socketPath. A stale socket
// left by a previous run is removed.
func NewServer(socketPath string, s *store.Store, hooks Hooks, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		store:      s,
		hooks:      hooks,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection reads a single JSON request line and writes one response
// line.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.runHook("reload", s.hooks.Reload)
	case CommandSaveState:
		return s.runHook("save state", s.hooks.SaveState)
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandListWorkspaces:
		return s.handleListWorkspaces()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandActivateWorkspace:
		return s.handleActivateWorkspace(req.Payload)
	case CommandActivateAdjacent:
		return s.handleActivateAdjacent(req.Payload)
	case CommandAddWorkspace:
		return s.handleAddWorkspace(req.Payload)
	case CommandRemoveWorkspace:
		return s.handleRemoveWorkspace(req.Payload)
	case CommandRenameWorkspace:
		return s.handleRenameWorkspace(req.Payload)
	case CommandCycleLayoutEngine:
		return s.handleCycleLayoutEngine(req.Payload)
	case CommandFocusDirection:
		return s.handleDirection(req.Payload, false)
	case CommandSwapDirection:
		return s.handleDirection(req.Payload, true)
	case CommandMoveWindow:
		return s.handleMoveWindow(req.Payload)
	case CommandLayoutCustomAction:
		return s.handleCustomAction(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) runHook(name string, hook func() error) *Response {
	if hook == nil {
		return NewErrorResponse(fmt.Sprintf("%s is not available", name))
	}
	if err := hook(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s: %v", name, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	snap := s.store.Snapshot()
	status := StatusData{
		Workspaces:    snap.Workspaces.Len(),
		Windows:       len(snap.Windows.All()),
		Monitors:      snap.Monitors.Len(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if ws, err := store.Pick(s.store, store.PickActiveWorkspace()); err == nil {
		status.ActiveWorkspace = ws.Name
		status.ActiveLayoutEngine = ws.ActiveLayoutEngine().Name()
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetMonitors() *Response {
	snap := s.store.Snapshot()
	monitors := snap.Monitors.All()

	infos := make([]MonitorInfo, len(monitors))
	for i, m := range monitors {
		infos[i] = MonitorInfo{
			Handle:  uint64(m.Handle),
			Name:    m.Name,
			X:       m.Bounds.X,
			Y:       m.Bounds.Y,
			Width:   m.Bounds.Width,
			Height:  m.Bounds.Height,
			Primary: m.IsPrimary,
		}
		if id, ok := snap.Maps.WorkspaceForMonitor(m.Handle); ok {
			if ws, ok := snap.Workspaces.Get(id); ok {
				infos[i].Workspace = ws.Name
			}
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: infos})
	return resp
}

func (s *Server) handleListWorkspaces() *Response {
	snap := s.store.Snapshot()
	var activeID store.WorkspaceID
	if ws, err := store.Pick(s.store, store.PickActiveWorkspace()); err == nil {
		activeID = ws.ID
	}

	all := snap.Workspaces.All()
	infos := make([]WorkspaceInfo, 0, len(all))
	for _, ws := range all {
		info := WorkspaceInfo{
			ID:           ws.ID.String(),
			Name:         ws.Name,
			LayoutEngine: ws.ActiveLayoutEngine().Name(),
			Windows:      len(ws.Windows()),
			Active:       ws.ID == activeID,
		}
		for _, e := range ws.LayoutEngines {
			info.LayoutEngines = append(info.LayoutEngines, e.Name())
		}
		if handle, ok := snap.Maps.MonitorForWorkspace(ws.ID); ok {
			if m, ok := snap.Monitors.Get(handle); ok {
				info.Monitor = m.Name
			}
		}
		infos = append(infos, info)
	}

	resp, _ := NewOKResponse(WorkspacesData{Workspaces: infos})
	return resp
}

func (s *Server) handleListWindows() *Response {
	snap := s.store.Snapshot()
	windows := snap.Windows.All()

	infos := make([]WindowInfo, 0, len(windows))
	for _, w := range windows {
		info := WindowInfo{
			Handle:    uint64(w.Handle),
			Process:   w.ProcessName,
			Title:     w.Title,
			Minimized: w.IsMinimized,
		}
		if id, ok := snap.Maps.WorkspaceForWindow(w.Handle); ok {
			if ws, ok := snap.Workspaces.Get(id); ok {
				info.Workspace = ws.Name
				if pos, ok := ws.WindowPositions[w.Handle]; ok {
					info.Rect = &RectInfo{X: pos.Rect.X, Y: pos.Rect.Y, Width: pos.Rect.Width, Height: pos.Rect.Height}
				}
			}
		}
		infos = append(infos, info)
	}

	resp, _ := NewOKResponse(WindowsData{Windows: infos})
	return resp
}

func (s *Server) handleActivateWorkspace(payload json.RawMessage) *Response {
	var req WorkspacePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid activate payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}
	id, err := s.workspaceID(req.Name)
	if err != nil {
		return storeError(err)
	}
	return changed(store.Dispatch(s.store, store.ActivateWorkspaceTransform{WorkspaceID: id}))
}

func (s *Server) handleActivateAdjacent(payload json.RawMessage) *Response {
	var req AdjacentPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid adjacent payload: %v", err))
	}
	return changed(store.Dispatch(s.store, store.ActivateAdjacentWorkspaceTransform{
		Reverse:     req.Reverse,
		SkipVisible: req.SkipVisible,
	}))
}

func (s *Server) handleAddWorkspace(payload json.RawMessage) *Response {
	var req WorkspacePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid add payload: %v", err))
	}
	id, err := store.Dispatch(s.store, store.AddWorkspaceTransform{Name: req.Name})
	if err != nil {
		return storeError(err)
	}
	resp, _ := NewOKResponse(map[string]string{"id": id.String()})
	return resp
}

func (s *Server) handleRemoveWorkspace(payload json.RawMessage) *Response {
	var req WorkspacePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid remove payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}
	return changed(store.Dispatch(s.store, store.RemoveWorkspaceByNameTransform{Name: req.Name}))
}

func (s *Server) handleRenameWorkspace(payload json.RawMessage) *Response {
	var req RenameWorkspacePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid rename payload: %v", err))
	}
	id, err := s.workspaceID(req.Name)
	if err != nil {
		return storeError(err)
	}
	return changed(store.Dispatch(s.store, store.RenameWorkspaceTransform{WorkspaceID: id, Name: req.NewName}))
}

func (s *Server) handleCycleLayoutEngine(payload json.RawMessage) *Response {
	var req CycleLayoutEnginePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid cycle payload: %v", err))
	}
	id, err := s.workspaceID(req.Workspace)
	if err != nil {
		return storeError(err)
	}
	return changed(store.Dispatch(s.store, store.CycleLayoutEngineTransform{WorkspaceID: id, Reverse: req.Reverse}))
}

func (s *Server) handleDirection(payload json.RawMessage, swap bool) *Response {
	var req DirectionPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid direction payload: %v", err))
	}
	dir, err := geometry.ParseDirection(req.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	window := platform.WindowHandle(req.Window)
	if swap {
		return changed(store.Dispatch(s.store, store.SwapWindowInDirectionTransform{Window: window, Direction: dir}))
	}
	return changed(store.Dispatch(s.store, store.FocusWindowInDirectionTransform{Window: window, Direction: dir}))
}

func (s *Server) handleMoveWindow(payload json.RawMessage) *Response {
	var req MoveWindowPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	if req.Workspace == "" {
		return NewErrorResponse("workspace is required")
	}
	id, err := s.workspaceID(req.Workspace)
	if err != nil {
		return storeError(err)
	}
	return changed(store.Dispatch(s.store, store.MoveWindowToWorkspaceTransform{
		TargetWorkspaceID: id,
		Window:            platform.WindowHandle(req.Window),
	}))
}

func (s *Server) handleCustomAction(payload json.RawMessage) *Response {
	var req CustomActionPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
	}
	if req.Action == "" {
		return NewErrorResponse("action is required")
	}
	id, err := s.workspaceID(req.Workspace)
	if err != nil {
		return storeError(err)
	}
	action := layout.CustomAction{Name: req.Action, Window: platform.WindowHandle(req.Window)}
	if req.Direction != "" {
		dir, err := geometry.ParseDirection(req.Direction)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		action.Payload = dir
	}
	return changed(store.Dispatch(s.store, store.LayoutEngineCustomActionTransform{WorkspaceID: id, Action: action}))
}

// workspaceID resolves a workspace name. An empty name yields the zero id,
// which transforms read as the active workspace.
func (s *Server) workspaceID(name string) (store.WorkspaceID, error) {
	if name == "" {
		return store.WorkspaceID{}, nil
	}
	ws, err := store.Pick(s.store, store.PickWorkspaceByName(name))
	if err != nil {
		return store.WorkspaceID{}, err
	}
	return ws.ID, nil
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, out)
}

func changed(ok bool, err error) *Response {
	if err != nil {
		return storeError(err)
	}
	resp, _ := NewOKResponse(ChangedData{Changed: ok})
	return resp
}

func storeError(err error) *Response {
	resp := NewErrorResponse(err.Error())
	resp.Code = string(store.CodeOf(err))
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
