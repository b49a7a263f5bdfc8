package store

import (
	"slices"
	"strings"

	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// AddWorkspaceTransform creates a workspace. Before the store is
// initialized the request is queued and the returned id is the one the
// workspace will get once InitializeTransform runs.
type AddWorkspaceTransform struct {
	Name string
	// CreateLayoutEngines overrides the registered creators.
	CreateLayoutEngines []layout.Creator
}

func (t AddWorkspaceTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (WorkspaceID, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = root.defaultWorkspaceName()
	}
	if root.Workspaces.hasName(name) {
		return WorkspaceID{}, invariantViolation("workspace %q already exists", name)
	}

	id := NewWorkspaceID()
	if !root.Initialized {
		root.Workspaces.pending = append(slices.Clone(root.Workspaces.pending), pendingWorkspace{
			id:       id,
			name:     name,
			creators: slices.Clone(t.CreateLayoutEngines),
		})
		return id, nil
	}

	ws, err := root.createWorkspace(id, name, t.CreateLayoutEngines)
	if err != nil {
		return WorkspaceID{}, err
	}
	return ws.ID, nil
}

// RemoveWorkspaceByIDTransform deletes a workspace. Its windows move to the
// active workspace. It fails when fewer workspaces than monitors would
// remain.
type RemoveWorkspaceByIDTransform struct {
	WorkspaceID WorkspaceID
}

func (t RemoveWorkspaceByIDTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	ws, ok := root.Workspaces.Get(t.WorkspaceID)
	if !ok {
		return false, notFound("workspace %s not found", t.WorkspaceID)
	}
	if err := root.removeWorkspace(ictx, ws); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveWorkspaceByNameTransform is RemoveWorkspaceByIDTransform keyed by
// name.
type RemoveWorkspaceByNameTransform struct {
	Name string
}

func (t RemoveWorkspaceByNameTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	ws, ok := root.Workspaces.ByName(t.Name)
	if !ok {
		return false, notFound("workspace %q not found", t.Name)
	}
	if err := root.removeWorkspace(ictx, ws); err != nil {
		return false, err
	}
	return true, nil
}

func (r *MutableRootSector) removeWorkspace(ictx *InternalContext, ws *Workspace) error {
	remaining := r.Workspaces.Len() - 1
	if remaining < 1 || remaining < r.Monitors.Len() {
		return invariantViolation("removing %q would leave %d workspaces for %d monitors", ws.Name, remaining, r.Monitors.Len())
	}

	if monitorHandle, visible := r.Maps.MonitorForWorkspace(ws.ID); visible {
		replacement, ok := r.firstHiddenWorkspace(ws.ID)
		if !ok {
			return invariantViolation("no hidden workspace can replace %q", ws.Name)
		}
		monitor, _ := r.Monitors.Get(monitorHandle)
		r.Maps.setMonitor(monitorHandle, replacement.ID)
		r.Maps.QueueEvent(MonitorWorkspaceChangedEvent{Monitor: monitor, Previous: ws, Current: replacement})
		r.Workspaces.queueLayout(replacement.ID)
	}

	target, err := r.activeWorkspace()
	if err != nil || target.ID == ws.ID {
		for _, other := range r.Workspaces.All() {
			if other.ID != ws.ID {
				target = other
				break
			}
		}
	}

	for _, handle := range ws.Windows() {
		w, ok := r.Windows.Get(handle)
		if !ok {
			continue
		}
		target = addWindowToWorkspace(target, w)
		r.Maps.setWindow(handle, target.ID)
		r.Maps.QueueEvent(WindowRoutedEvent{Window: w, Previous: ws, Current: target})
	}
	r.Workspaces.put(target)
	r.Workspaces.queueLayout(target.ID)
	if _, visible := r.Maps.MonitorForWorkspace(target.ID); !visible {
		ictx.hideWindows(ws.Windows())
	}

	ictx.closeWindows(ws.phantoms())
	r.Workspaces.remove(ws.ID)
	r.Workspaces.QueueEvent(WorkspaceRemovedEvent{Workspace: ws})
	return nil
}

// RenameWorkspaceTransform renames a workspace. Names must be unique and
// non-empty.
type RenameWorkspaceTransform struct {
	WorkspaceID WorkspaceID
	Name        string
}

func (t RenameWorkspaceTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	name := strings.TrimSpace(t.Name)
	return runWorkspaceOperation(root, t.WorkspaceID, true, func(ws *Workspace) (*Workspace, error) {
		if name == "" {
			return nil, invariantViolation("workspace name is empty")
		}
		if other, ok := root.Workspaces.ByName(name); ok && other.ID != ws.ID {
			return nil, invariantViolation("workspace %q already exists", name)
		}
		next := ws.withName(name)
		if next != ws {
			root.Workspaces.QueueEvent(WorkspaceRenamedEvent{Workspace: next, PreviousName: ws.Name})
		}
		return next, nil
	})
}

// SetCreateLayoutEnginesTransform registers the creators used for new
// workspaces.
type SetCreateLayoutEnginesTransform struct {
	Creators []layout.Creator
}

func (t SetCreateLayoutEnginesTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (struct{}, error) {
	if len(t.Creators) == 0 {
		return struct{}{}, invariantViolation("at least one layout engine creator is required")
	}
	if slices.ContainsFunc(t.Creators, func(c layout.Creator) bool { return c == nil }) {
		return struct{}{}, invariantViolation("layout engine creator is nil")
	}
	root.Workspaces.creators = slices.Clone(t.Creators)
	return struct{}{}, nil
}

// AddProxyLayoutEngineTransform registers a proxy applied to engines of
// workspaces created afterwards.
type AddProxyLayoutEngineTransform struct {
	Proxy layout.ProxyCreator
}

func (t AddProxyLayoutEngineTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (struct{}, error) {
	if t.Proxy == nil {
		return struct{}{}, invariantViolation("proxy layout engine creator is nil")
	}
	root.Workspaces.proxies = append(slices.Clone(root.Workspaces.proxies), t.Proxy)
	return struct{}{}, nil
}

// ActivateWorkspaceTransform shows a workspace on a monitor (the active
// monitor when MonitorHandle is zero). A workspace already visible on
// another monitor swaps places with the one it replaces.
type ActivateWorkspaceTransform struct {
	WorkspaceID   WorkspaceID
	MonitorHandle platform.MonitorHandle
	// SkipFocus leaves focus alone instead of focusing the workspace's last
	// focused window.
	SkipFocus bool
}

func (t ActivateWorkspaceTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	ws, ok := root.Workspaces.Get(t.WorkspaceID)
	if !ok {
		return false, notFound("workspace %s not found", t.WorkspaceID)
	}
	var monitor platform.Monitor
	if t.MonitorHandle != 0 {
		if monitor, ok = root.Monitors.Get(t.MonitorHandle); !ok {
			return false, notFound("monitor %s not found", t.MonitorHandle)
		}
	} else if monitor, ok = root.Monitors.Active(); !ok {
		return false, notFound("no active monitor")
	}

	current, hasCurrent := root.visibleWorkspace(monitor.Handle)
	if hasCurrent && current.ID == ws.ID {
		return false, nil
	}

	if otherHandle, visible := root.Maps.MonitorForWorkspace(ws.ID); visible {
		if !hasCurrent {
			return false, invariantViolation("monitor %s has no workspace to swap", monitor.Handle)
		}
		other, _ := root.Monitors.Get(otherHandle)
		root.Maps.setMonitor(otherHandle, current.ID)
		root.Maps.QueueEvent(MonitorWorkspaceChangedEvent{Monitor: other, Previous: ws, Current: current})
		root.Workspaces.queueLayout(current.ID)
	} else if hasCurrent {
		hideWorkspace(ictx, current)
	}

	root.Maps.setMonitor(monitor.Handle, ws.ID)
	root.Maps.QueueEvent(MonitorWorkspaceChangedEvent{Monitor: monitor, Previous: current, Current: ws})
	root.Workspaces.queueLayout(ws.ID)
	root.Monitors.active = monitor.Handle
	if !t.SkipFocus {
		ictx.focusWindow(ws.LastFocusedWindowHandle)
	}
	return true, nil
}

// ActivateAdjacentWorkspaceTransform activates the next (or previous)
// workspace in creation order on the monitor showing WorkspaceID.
type ActivateAdjacentWorkspaceTransform struct {
	WorkspaceID WorkspaceID
	Reverse     bool
	SkipVisible bool
}

func (t ActivateAdjacentWorkspaceTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	ws, err := root.resolveWorkspace(t.WorkspaceID)
	if err != nil {
		return false, err
	}
	next, err := PickAdjacentWorkspace(ws.ID, t.Reverse, t.SkipVisible).Pick(&root.RootSector)
	if err != nil {
		return false, err
	}
	if next.ID == ws.ID {
		return false, nil
	}
	monitor, _ := root.Maps.MonitorForWorkspace(ws.ID)
	return Exec(ctx, ictx, root, ActivateWorkspaceTransform{WorkspaceID: next.ID, MonitorHandle: monitor})
}

// SetLayoutEngineFromIndexTransform makes LayoutEngines[Index] active.
type SetLayoutEngineFromIndexTransform struct {
	WorkspaceID WorkspaceID
	Index       int
}

func (t SetLayoutEngineFromIndexTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	return runWorkspaceOperation(root, t.WorkspaceID, false, func(ws *Workspace) (*Workspace, error) {
		if t.Index < 0 || t.Index >= len(ws.LayoutEngines) {
			return nil, notFound("layout engine index %d out of range for workspace %q", t.Index, ws.Name)
		}
		previous := ws.ActiveLayoutEngine()
		next := ws.withActiveIndex(t.Index)
		if next != ws {
			ictx.hideWindows(layout.PhantomsOf(previous))
			root.Workspaces.QueueEvent(ActiveLayoutEngineChangedEvent{
				Workspace: next,
				Previous:  previous,
				Current:   next.ActiveLayoutEngine(),
			})
		}
		return next, nil
	})
}

// ActivatePreviouslyActiveLayoutEngineTransform switches back to the engine
// that was active before the last switch.
type ActivatePreviouslyActiveLayoutEngineTransform struct {
	WorkspaceID WorkspaceID
}

func (t ActivatePreviouslyActiveLayoutEngineTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	ws, err := root.resolveWorkspace(t.WorkspaceID)
	if err != nil {
		return false, err
	}
	return Exec(ctx, ictx, root, SetLayoutEngineFromIndexTransform{WorkspaceID: ws.ID, Index: ws.PreviousLayoutEngineIndex})
}

// CycleLayoutEngineTransform activates the next (or previous) engine,
// wrapping around.
type CycleLayoutEngineTransform struct {
	WorkspaceID WorkspaceID
	Reverse     bool
}

func (t CycleLayoutEngineTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	ws, err := root.resolveWorkspace(t.WorkspaceID)
	if err != nil {
		return false, err
	}
	n := len(ws.LayoutEngines)
	delta := 1
	if t.Reverse {
		delta = -1
	}
	index := ((ws.ActiveLayoutEngineIndex+delta)%n + n) % n
	return Exec(ctx, ictx, root, SetLayoutEngineFromIndexTransform{WorkspaceID: ws.ID, Index: index})
}

// LayoutEngineCustomActionTransform sends a named action to every engine of
// the workspace. Engines that do not know the action ignore it. A zero
// Action.Window is filled with the workspace's last focused window.
type LayoutEngineCustomActionTransform struct {
	WorkspaceID WorkspaceID
	Action      layout.CustomAction
}

func (t LayoutEngineCustomActionTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	return runWorkspaceOperation(root, t.WorkspaceID, false, func(ws *Workspace) (*Workspace, error) {
		action := t.Action
		if action.Window == 0 {
			action.Window = ws.LastFocusedWindowHandle
		}
		previous := ws.phantoms()
		next := ws.withEngines(func(e layout.Engine) layout.Engine { return e.PerformCustomAction(action) })
		current := next.phantoms()
		var dropped []platform.WindowHandle
		for _, p := range previous {
			if !slices.Contains(current, p) {
				dropped = append(dropped, p)
			}
		}
		ictx.hideWindows(dropped)
		return next, nil
	})
}

// SetGapsTransform updates the gaps proxy of every workspace.
type SetGapsTransform struct {
	Gaps layout.Gaps
}

func (t SetGapsTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	changed := false
	for _, ws := range root.Workspaces.All() {
		ok, err := Exec(ctx, ictx, root, LayoutEngineCustomActionTransform{
			WorkspaceID: ws.ID,
			Action:      layout.CustomAction{Name: layout.GapsActionSet, Payload: t.Gaps},
		})
		if err != nil {
			return false, err
		}
		changed = changed || ok
	}
	return changed, nil
}

// DoWorkspaceLayoutTransform runs the active engine of a visible workspace
// over its monitor's working area, records the resulting positions and
// queues the native moves. Hidden workspaces are skipped.
type DoWorkspaceLayoutTransform struct {
	WorkspaceID WorkspaceID
}

func (t DoWorkspaceLayoutTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	ws, ok := root.Workspaces.Get(t.WorkspaceID)
	if !ok {
		return false, notFound("workspace %s not found", t.WorkspaceID)
	}
	monitorHandle, visible := root.Maps.MonitorForWorkspace(ws.ID)
	if !visible {
		return false, nil
	}
	monitor, ok := root.Monitors.Get(monitorHandle)
	if !ok {
		return false, notFound("monitor %s not found", monitorHandle)
	}

	root.Workspaces.QueueEvent(WorkspaceLayoutStartedEvent{Workspace: ws})

	positions := map[platform.WindowHandle]WindowPosition{}
	var placements []platform.Placement
	for state := range ws.ActiveLayoutEngine().DoLayout(monitor.WorkingArea, monitor) {
		placements = append(placements, platform.Placement{
			Handle:    state.Window,
			Rect:      state.Rect,
			Minimized: state.Size == layout.SizeMinimized,
			Maximized: state.Size == layout.SizeMaximized,
		})
		if state.Phantom {
			continue
		}
		if _, tracked := root.Windows.Get(state.Window); !tracked {
			continue
		}
		positions[state.Window] = WindowPosition{Size: state.Size, Rect: state.Rect}
	}

	next := ws.withWindowPositions(positions)
	if next != ws {
		root.Workspaces.put(next)
	}
	if len(placements) > 0 {
		ictx.Defer("set window positions", func(b platform.Backend) error {
			return b.SetWindowPositions(placements)
		})
	}
	root.Workspaces.QueueEvent(WorkspaceLayoutCompletedEvent{Workspace: next})
	ctx.Logger.Debug("workspace laid out", "workspace", ws.Name, "windows", len(positions), "monitor", monitor.Name)
	return true, nil
}
