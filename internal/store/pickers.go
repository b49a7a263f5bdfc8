package store

import (
	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// PickWorkspaces returns every workspace in creation order.
func PickWorkspaces() Picker[[]*Workspace] {
	return PickerFunc[[]*Workspace](func(root *RootSector) ([]*Workspace, error) {
		return root.Workspaces.All(), nil
	})
}

// PickWorkspaceByID returns the workspace with id, or the active workspace
// when id is zero.
func PickWorkspaceByID(id WorkspaceID) Picker[*Workspace] {
	return PickerFunc[*Workspace](func(root *RootSector) (*Workspace, error) {
		return root.resolveWorkspace(id)
	})
}

func PickWorkspaceByName(name string) Picker[*Workspace] {
	return PickerFunc[*Workspace](func(root *RootSector) (*Workspace, error) {
		ws, ok := root.Workspaces.ByName(name)
		if !ok {
			return nil, notFound("workspace %q not found", name)
		}
		return ws, nil
	})
}

// PickActiveWorkspace returns the workspace on the active monitor.
func PickActiveWorkspace() Picker[*Workspace] {
	return PickerFunc[*Workspace](func(root *RootSector) (*Workspace, error) {
		return root.activeWorkspace()
	})
}

func PickWorkspaceByWindow(window platform.WindowHandle) Picker[*Workspace] {
	return PickerFunc[*Workspace](func(root *RootSector) (*Workspace, error) {
		id, ok := root.Maps.WorkspaceForWindow(window)
		if !ok {
			return nil, notFound("window %s has no workspace", window)
		}
		return root.resolveWorkspace(id)
	})
}

func PickWorkspaceByMonitor(monitor platform.MonitorHandle) Picker[*Workspace] {
	return PickerFunc[*Workspace](func(root *RootSector) (*Workspace, error) {
		ws, ok := root.visibleWorkspace(monitor)
		if !ok {
			return nil, notFound("no workspace on monitor %s", monitor)
		}
		return ws, nil
	})
}

// PickAdjacentWorkspace returns the workspace after id in creation order,
// wrapping around, or before it when reverse is set. With skipVisible,
// workspaces shown on a monitor are passed over. If nothing qualifies the
// workspace itself is returned.
func PickAdjacentWorkspace(id WorkspaceID, reverse, skipVisible bool) Picker[*Workspace] {
	return PickerFunc[*Workspace](func(root *RootSector) (*Workspace, error) {
		ws, err := root.resolveWorkspace(id)
		if err != nil {
			return nil, err
		}
		all := root.Workspaces.All()
		start := root.Workspaces.indexOf(ws.ID)
		delta := 1
		if reverse {
			delta = -1
		}
		n := len(all)
		for i := 1; i < n; i++ {
			candidate := all[((start+delta*i)%n+n)%n]
			if skipVisible {
				if _, visible := root.Maps.MonitorForWorkspace(candidate.ID); visible {
					continue
				}
			}
			return candidate, nil
		}
		return ws, nil
	})
}

func PickMonitors() Picker[[]platform.Monitor] {
	return PickerFunc[[]platform.Monitor](func(root *RootSector) ([]platform.Monitor, error) {
		return root.Monitors.All(), nil
	})
}

func PickActiveMonitor() Picker[platform.Monitor] {
	return PickerFunc[platform.Monitor](func(root *RootSector) (platform.Monitor, error) {
		m, ok := root.Monitors.Active()
		if !ok {
			return platform.Monitor{}, notFound("no active monitor")
		}
		return m, nil
	})
}

func PickPrimaryMonitor() Picker[platform.Monitor] {
	return PickerFunc[platform.Monitor](func(root *RootSector) (platform.Monitor, error) {
		m, ok := root.Monitors.Primary()
		if !ok {
			return platform.Monitor{}, notFound("no monitors")
		}
		return m, nil
	})
}

func PickMonitorAtPoint(p geometry.Point) Picker[platform.Monitor] {
	return PickerFunc[platform.Monitor](func(root *RootSector) (platform.Monitor, error) {
		m, ok := root.Monitors.AtPoint(p)
		if !ok {
			return platform.Monitor{}, notFound("no monitor at %d,%d", p.X, p.Y)
		}
		return m, nil
	})
}

// PickMonitorByWorkspace returns the monitor showing id. Hidden workspaces
// are NotFound.
func PickMonitorByWorkspace(id WorkspaceID) Picker[platform.Monitor] {
	return PickerFunc[platform.Monitor](func(root *RootSector) (platform.Monitor, error) {
		handle, ok := root.Maps.MonitorForWorkspace(id)
		if !ok {
			return platform.Monitor{}, notFound("workspace %s is not visible", id)
		}
		m, ok := root.Monitors.Get(handle)
		if !ok {
			return platform.Monitor{}, notFound("monitor %s not found", handle)
		}
		return m, nil
	})
}

func PickMonitorByWindow(window platform.WindowHandle) Picker[platform.Monitor] {
	return PickerFunc[platform.Monitor](func(root *RootSector) (platform.Monitor, error) {
		id, ok := root.Maps.WorkspaceForWindow(window)
		if !ok {
			return platform.Monitor{}, notFound("window %s has no workspace", window)
		}
		return PickMonitorByWorkspace(id).Pick(root)
	})
}

func PickWindows() Picker[[]Window] {
	return PickerFunc[[]Window](func(root *RootSector) ([]Window, error) {
		return root.Windows.All(), nil
	})
}

func PickWindowByHandle(handle platform.WindowHandle) Picker[Window] {
	return PickerFunc[Window](func(root *RootSector) (Window, error) {
		w, ok := root.Windows.Get(handle)
		if !ok {
			return Window{}, notFound("window %s is not tracked", handle)
		}
		return w, nil
	})
}

// PickLastFocusedWindow returns the last focused window of a workspace (the
// active one for a zero id).
func PickLastFocusedWindow(id WorkspaceID) Picker[Window] {
	return PickerFunc[Window](func(root *RootSector) (Window, error) {
		ws, err := root.resolveWorkspace(id)
		if err != nil {
			return Window{}, err
		}
		if ws.LastFocusedWindowHandle == 0 {
			return Window{}, notFound("workspace %q has no focused window", ws.Name)
		}
		return PickWindowByHandle(ws.LastFocusedWindowHandle).Pick(root)
	})
}

func PickActiveLayoutEngine(id WorkspaceID) Picker[layout.Engine] {
	return PickerFunc[layout.Engine](func(root *RootSector) (layout.Engine, error) {
		ws, err := root.resolveWorkspace(id)
		if err != nil {
			return nil, err
		}
		return ws.ActiveLayoutEngine(), nil
	})
}

// PickSavedState captures every workspace's windows with their last laid
// out rectangle relative to the workspace's monitor. Windows never laid out
// get layout.DefaultFreeRect.
func PickSavedState() Picker[*SavedState] {
	return PickerFunc[*SavedState](func(root *RootSector) (*SavedState, error) {
		state := &SavedState{}
		for _, ws := range root.Workspaces.All() {
			saved := SavedWorkspace{Name: ws.Name}
			monitor, hasMonitor := root.workspaceMonitor(ws.ID)
			for _, handle := range ws.Windows() {
				rect := layout.DefaultFreeRect
				if pos, ok := ws.WindowPositions[handle]; ok && hasMonitor && pos.Size != layout.SizeMinimized {
					rect = geometry.ToUnitRect(monitor.WorkingArea, pos.Rect)
				}
				saved.Windows = append(saved.Windows, SavedWindow{Handle: handle, Rect: rect})
			}
			state.Workspaces = append(state.Workspaces, saved)
		}
		return state, nil
	})
}
