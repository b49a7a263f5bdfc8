package store

import (
	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// WindowAddedTransform starts tracking a native window. Ignored windows
// and windows already tracked return false. The window is routed to the
// workspace named by a matching route, else to the active workspace.
// Engines that keep floating rectangles start from the window's native
// bounds.
type WindowAddedTransform struct {
	Window platform.WindowInfo
}

func (t WindowAddedTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	if !root.Initialized {
		return false, invariantViolation("store is not initialized")
	}
	if t.Window.Handle == 0 {
		return false, invariantViolation("window handle is zero")
	}
	if _, ok := root.Windows.Get(t.Window.Handle); ok {
		return false, nil
	}
	w := windowFromInfo(t.Window)
	if root.Windows.IsIgnored(w) {
		ctx.Logger.Debug("window ignored", "window", w.Handle, "process", w.ProcessName)
		return false, nil
	}

	target, err := root.routeWindow(w)
	if err != nil {
		return false, err
	}
	root.trackWindow(ictx, w, target, func(ws *Workspace) *Workspace {
		return root.withNativeRect(addWindowToWorkspace(ws, w), w.Handle, t.Window.Bounds)
	})
	return true, nil
}

// withNativeRect hands bounds, normalized to the working area of the
// monitor showing ws, to engines that keep native rectangles. Tiling
// engines ignore the action and leave ws unchanged.
func (r *RootSector) withNativeRect(ws *Workspace, window platform.WindowHandle, bounds geometry.Rect) *Workspace {
	if bounds.Empty() {
		return ws
	}
	monitor, ok := r.workspaceMonitor(ws.ID)
	if !ok || monitor.WorkingArea.Empty() {
		return ws
	}
	action := layout.CustomAction{
		Name:    layout.FreeActionSetWindowRect,
		Window:  window,
		Payload: geometry.ToUnitRect(monitor.WorkingArea, bounds),
	}
	return ws.withEngines(func(e layout.Engine) layout.Engine { return e.PerformCustomAction(action) })
}

// WindowMovedTransform records that the user moved or resized a tracked
// window. The window is already where it should be, so no layout pass is
// queued. Windows on hidden workspaces are ignored.
type WindowMovedTransform struct {
	Handle platform.WindowHandle
	Bounds geometry.Rect
}

func (t WindowMovedTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	if _, ok := root.Windows.Get(t.Handle); !ok || t.Handle == 0 {
		return false, nil
	}
	id, ok := root.Maps.WorkspaceForWindow(t.Handle)
	if !ok {
		return false, nil
	}
	if _, visible := root.Maps.MonitorForWorkspace(id); !visible {
		return false, nil
	}
	return runWorkspaceWindowOperation(root, id, t.Handle, false, true, func(ws *Workspace, w Window) (*Workspace, error) {
		return root.withNativeRect(ws, w.Handle, t.Bounds), nil
	})
}

func (r *RootSector) routeWindow(w Window) (*Workspace, error) {
	if name, ok := r.Windows.RouteFor(w); ok {
		if ws, ok := r.Workspaces.ByName(name); ok {
			return ws, nil
		}
	}
	return r.activeWorkspace()
}

// WindowRemovedTransform stops tracking a window that was destroyed.
type WindowRemovedTransform struct {
	Handle platform.WindowHandle
}

func (t WindowRemovedTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	w, ok := root.Windows.Get(t.Handle)
	if !ok {
		return false, nil
	}
	if id, ok := root.Maps.WorkspaceForWindow(t.Handle); ok {
		if ws, ok := root.Workspaces.Get(id); ok {
			next := ws.withoutWindow(t.Handle)
			if next != ws {
				root.Workspaces.put(next)
				root.Workspaces.queueLayout(next.ID)
			}
		}
	}
	root.Maps.deleteWindow(t.Handle)
	root.Windows.remove(t.Handle)
	root.Windows.QueueEvent(WindowRemovedEvent{Window: w})
	return true, nil
}

// WindowFocusedTransform records native focus. A zero or untracked handle
// reports focus leaving the managed windows. Focusing a window on a hidden
// workspace activates that workspace.
type WindowFocusedTransform struct {
	Handle platform.WindowHandle
}

func (t WindowFocusedTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	w, ok := root.Windows.Get(t.Handle)
	if !ok {
		root.Windows.QueueEvent(WindowFocusedEvent{})
		return false, nil
	}
	id, ok := root.Maps.WorkspaceForWindow(t.Handle)
	if !ok {
		return false, invariantViolation("window %s has no workspace", t.Handle)
	}
	if _, err := runWorkspaceOperation(root, id, true, func(ws *Workspace) (*Workspace, error) {
		return ws.withLastFocused(t.Handle), nil
	}); err != nil {
		return false, err
	}

	if monitor, visible := root.Maps.MonitorForWorkspace(id); visible {
		root.Monitors.active = monitor
	} else if _, err := Exec(ctx, ictx, root, ActivateWorkspaceTransform{WorkspaceID: id, SkipFocus: true}); err != nil {
		return false, err
	}
	root.Windows.QueueEvent(WindowFocusedEvent{Window: &w})
	return true, nil
}

// WindowMinimizeStartedTransform handles a window minimized natively.
type WindowMinimizeStartedTransform struct {
	Handle platform.WindowHandle
}

func (t WindowMinimizeStartedTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	w, ok := root.Windows.Get(t.Handle)
	if !ok || w.IsMinimized {
		return false, nil
	}
	w.IsMinimized = true
	root.Windows.put(w)
	if _, err := Exec(ctx, ictx, root, MinimizeWindowStartTransform{Window: t.Handle}); err != nil {
		return false, err
	}
	root.Windows.QueueEvent(WindowMinimizeStartedEvent{Window: w})
	return true, nil
}

// WindowMinimizeEndedTransform handles a window restored natively.
type WindowMinimizeEndedTransform struct {
	Handle platform.WindowHandle
}

func (t WindowMinimizeEndedTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	w, ok := root.Windows.Get(t.Handle)
	if !ok || !w.IsMinimized {
		return false, nil
	}
	w.IsMinimized = false
	root.Windows.put(w)
	if _, err := Exec(ctx, ictx, root, MinimizeWindowEndTransform{Window: t.Handle}); err != nil {
		return false, err
	}
	root.Windows.QueueEvent(WindowMinimizeEndedEvent{Window: w})
	return true, nil
}

// MinimizeWindowStartTransform moves a window into the minimized bucket of
// every engine of its workspace.
type MinimizeWindowStartTransform struct {
	WorkspaceID WorkspaceID
	Window      platform.WindowHandle
}

func (t MinimizeWindowStartTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	return runWorkspaceWindowOperation(root, t.WorkspaceID, t.Window, true, false, func(ws *Workspace, w Window) (*Workspace, error) {
		return ws.withEngines(func(e layout.Engine) layout.Engine { return e.MinimizeWindowStart(w.Handle) }), nil
	})
}

// MinimizeWindowEndTransform restores a window from the minimized bucket.
type MinimizeWindowEndTransform struct {
	WorkspaceID WorkspaceID
	Window      platform.WindowHandle
}

func (t MinimizeWindowEndTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	return runWorkspaceWindowOperation(root, t.WorkspaceID, t.Window, false, false, func(ws *Workspace, w Window) (*Workspace, error) {
		return ws.withEngines(func(e layout.Engine) layout.Engine { return e.MinimizeWindowEnd(w.Handle) }), nil
	})
}

// RemoveWindowFromWorkspaceTransform takes a window out of a workspace's
// engines without untracking it.
type RemoveWindowFromWorkspaceTransform struct {
	WorkspaceID WorkspaceID
	Window      platform.WindowHandle
}

func (t RemoveWindowFromWorkspaceTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	return runWorkspaceWindowOperation(root, t.WorkspaceID, t.Window, false, false, func(ws *Workspace, w Window) (*Workspace, error) {
		return ws.withoutWindow(w.Handle), nil
	})
}

// MoveWindowToWorkspaceTransform moves a window (the active workspace's last
// focused window when Window is zero) to another workspace. Moving to the
// window's current workspace returns false and changes nothing.
type MoveWindowToWorkspaceTransform struct {
	TargetWorkspaceID WorkspaceID
	Window            platform.WindowHandle
}

func (t MoveWindowToWorkspaceTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	w, err := root.resolveWindow(t.Window)
	if err != nil {
		return false, err
	}
	if _, ok := root.Workspaces.Get(t.TargetWorkspaceID); !ok {
		return false, notFound("workspace %s not found", t.TargetWorkspaceID)
	}
	if current, ok := root.Maps.WorkspaceForWindow(w.Handle); ok && current == t.TargetWorkspaceID {
		return false, nil
	}
	root.rehomeWindow(ictx, w, t.TargetWorkspaceID, func(ws *Workspace) *Workspace {
		return addWindowToWorkspace(ws, w)
	})
	return true, nil
}

// MoveWindowToMonitorTransform moves a window to the workspace shown on a
// monitor.
type MoveWindowToMonitorTransform struct {
	MonitorHandle platform.MonitorHandle
	Window        platform.WindowHandle
}

func (t MoveWindowToMonitorTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	if _, ok := root.Monitors.Get(t.MonitorHandle); !ok {
		return false, notFound("monitor %s not found", t.MonitorHandle)
	}
	ws, ok := root.visibleWorkspace(t.MonitorHandle)
	if !ok {
		return false, notFound("no workspace on monitor %s", t.MonitorHandle)
	}
	return Exec(ctx, ictx, root, MoveWindowToWorkspaceTransform{TargetWorkspaceID: ws.ID, Window: t.Window})
}

// MoveWindowToAdjacentWorkspaceTransform moves a window to the next (or
// previous) workspace in creation order.
type MoveWindowToAdjacentWorkspaceTransform struct {
	Window      platform.WindowHandle
	Reverse     bool
	SkipVisible bool
}

func (t MoveWindowToAdjacentWorkspaceTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	w, err := root.resolveWindow(t.Window)
	if err != nil {
		return false, err
	}
	current, ok := root.Maps.WorkspaceForWindow(w.Handle)
	if !ok {
		return false, invariantViolation("window %s has no workspace", w.Handle)
	}
	next, err := PickAdjacentWorkspace(current, t.Reverse, t.SkipVisible).Pick(&root.RootSector)
	if err != nil {
		return false, err
	}
	return Exec(ctx, ictx, root, MoveWindowToWorkspaceTransform{TargetWorkspaceID: next.ID, Window: w.Handle})
}

// MoveWindowToPointTransform drops a window at an absolute screen point:
// into the workspace on the monitor under the point, at the engine slot the
// point maps to.
type MoveWindowToPointTransform struct {
	Window platform.WindowHandle
	Point  geometry.Point
}

func (t MoveWindowToPointTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	w, ok := root.Windows.Get(t.Window)
	if !ok {
		return false, notFound("window %s is not tracked", t.Window)
	}
	monitor, ok := root.Monitors.AtPoint(t.Point)
	if !ok {
		return false, notFound("no monitor at %d,%d", t.Point.X, t.Point.Y)
	}
	target, ok := root.visibleWorkspace(monitor.Handle)
	if !ok {
		return false, notFound("no workspace on monitor %s", monitor.Handle)
	}

	unit := geometry.ToUnitPoint(monitor.WorkingArea, t.Point)
	place := func(ws *Workspace) *Workspace {
		return ws.withEngines(func(e layout.Engine) layout.Engine { return e.MoveWindowToPoint(w.Handle, unit) })
	}

	root.Monitors.active = monitor.Handle
	if current, ok := root.Maps.WorkspaceForWindow(w.Handle); ok && current == target.ID {
		return runWorkspaceOperation(root, target.ID, false, func(ws *Workspace) (*Workspace, error) {
			return place(ws), nil
		})
	}
	root.rehomeWindow(ictx, w, target.ID, place)
	return true, nil
}

// SwapWindowInDirectionTransform swaps a window with its neighbour in the
// active engine.
type SwapWindowInDirectionTransform struct {
	WorkspaceID WorkspaceID
	Window      platform.WindowHandle
	Direction   geometry.Direction
}

func (t SwapWindowInDirectionTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	return runWorkspaceWindowOperation(root, t.WorkspaceID, t.Window, true, false, func(ws *Workspace, w Window) (*Workspace, error) {
		return ws.withActiveEngine(ws.ActiveLayoutEngine().SwapWindowInDirection(t.Direction, w.Handle)), nil
	})
}

// FocusWindowInDirectionTransform focuses the neighbour of a window. It
// returns false when there is no neighbour in that direction.
type FocusWindowInDirectionTransform struct {
	WorkspaceID WorkspaceID
	Window      platform.WindowHandle
	Direction   geometry.Direction
}

func (t FocusWindowInDirectionTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	var (
		target platform.WindowHandle
		found  bool
	)
	_, err := runWorkspaceWindowOperation(root, t.WorkspaceID, t.Window, true, false, func(ws *Workspace, w Window) (*Workspace, error) {
		engine, next, ok := ws.ActiveLayoutEngine().FocusWindowInDirection(t.Direction, w.Handle)
		target, found = next, ok
		return ws.withActiveEngine(engine), nil
	})
	if err != nil {
		return false, err
	}
	if found {
		ictx.focusWindow(target)
	}
	return found, nil
}

// MoveWindowEdgesInDirectionTransform resizes a window by moving its edges.
// PixelDeltas are converted to unit-square fractions of the monitor showing
// the workspace.
type MoveWindowEdgesInDirectionTransform struct {
	WorkspaceID WorkspaceID
	Window      platform.WindowHandle
	Edges       geometry.Direction
	PixelDeltas geometry.Point
}

func (t MoveWindowEdgesInDirectionTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	return runWorkspaceWindowOperation(root, t.WorkspaceID, t.Window, true, false, func(ws *Workspace, w Window) (*Workspace, error) {
		monitor, ok := root.workspaceMonitor(ws.ID)
		if !ok {
			return nil, notFound("no monitor for workspace %q", ws.Name)
		}
		area := monitor.WorkingArea
		if area.Empty() {
			return ws, nil
		}
		deltas := geometry.UnitPoint{
			X: float64(t.PixelDeltas.X) / float64(area.Width),
			Y: float64(t.PixelDeltas.Y) / float64(area.Height),
		}
		return ws.withActiveEngine(ws.ActiveLayoutEngine().MoveWindowEdgesInDirection(t.Edges, deltas, w.Handle)), nil
	})
}

// SetFiltersTransform replaces the window filters.
type SetFiltersTransform struct {
	Filters []Filter
}

func (t SetFiltersTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (struct{}, error) {
	root.Windows.filters = append([]Filter(nil), t.Filters...)
	return struct{}{}, nil
}

// SetRoutesTransform replaces the window routes.
type SetRoutesTransform struct {
	Routes []Route
}

func (t SetRoutesTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (struct{}, error) {
	for _, r := range t.Routes {
		if r.Process == "" || r.Workspace == "" {
			return struct{}{}, invariantViolation("route needs both a process and a workspace")
		}
	}
	root.Windows.routes = append([]Route(nil), t.Routes...)
	return struct{}{}, nil
}
