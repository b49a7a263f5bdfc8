package store

import (
	"fmt"
	"slices"

	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// runWorkspaceOperation is the template most workspace transforms follow:
// resolve the workspace (zero id means the active one), run op, and write
// the result back only when op returned a different pointer. A layout pass
// is queued for changed workspaces unless skipDoLayout is set.
func runWorkspaceOperation(
	root *MutableRootSector,
	id WorkspaceID,
	skipDoLayout bool,
	op func(ws *Workspace) (*Workspace, error),
) (bool, error) {
	ws, err := root.resolveWorkspace(id)
	if err != nil {
		return false, err
	}
	next, err := op(ws)
	if err != nil {
		return false, err
	}
	if next == ws {
		return false, nil
	}
	root.Workspaces.put(next)
	if !skipDoLayout {
		root.Workspaces.queueLayout(next.ID)
	}
	return true, nil
}

// runWorkspaceWindowOperation extends runWorkspaceOperation with window
// resolution. With a zero id the window's own workspace is used. With a
// zero window the workspace's last focused window is used when
// defaultToLastFocused is set.
func runWorkspaceWindowOperation(
	root *MutableRootSector,
	id WorkspaceID,
	window platform.WindowHandle,
	defaultToLastFocused bool,
	skipDoLayout bool,
	op func(ws *Workspace, w Window) (*Workspace, error),
) (bool, error) {
	var ws *Workspace
	if id.IsZero() && window != 0 {
		if wsID, ok := root.Maps.WorkspaceForWindow(window); ok {
			ws, _ = root.Workspaces.Get(wsID)
		}
	}
	if ws == nil {
		var err error
		if ws, err = root.resolveWorkspace(id); err != nil {
			return false, err
		}
	}

	handle := window
	if handle == 0 {
		if !defaultToLastFocused || ws.LastFocusedWindowHandle == 0 {
			return false, notFound("no window given and workspace %q has no focused window", ws.Name)
		}
		handle = ws.LastFocusedWindowHandle
	}
	w, ok := root.Windows.Get(handle)
	if !ok {
		return false, notFound("window %s is not tracked", handle)
	}
	return runWorkspaceOperation(root, ws.ID, skipDoLayout, func(ws *Workspace) (*Workspace, error) {
		return op(ws, w)
	})
}

// resolveWindow returns window, or the last focused window of the active
// workspace when window is zero.
func (r *RootSector) resolveWindow(window platform.WindowHandle) (Window, error) {
	if window == 0 {
		ws, err := r.activeWorkspace()
		if err != nil {
			return Window{}, err
		}
		window = ws.LastFocusedWindowHandle
		if window == 0 {
			return Window{}, notFound("workspace %q has no focused window", ws.Name)
		}
	}
	w, ok := r.Windows.Get(window)
	if !ok {
		return Window{}, notFound("window %s is not tracked", window)
	}
	return w, nil
}

func (r *RootSector) defaultWorkspaceName() string {
	for n := r.Workspaces.Len() + len(r.Workspaces.pending) + 1; ; n++ {
		name := fmt.Sprintf("Workspace %d", n)
		if !r.Workspaces.hasName(name) {
			return name
		}
	}
}

// createWorkspace builds engines from creators (or the registered defaults),
// wraps them with every registered proxy and stores the workspace.
func (r *MutableRootSector) createWorkspace(id WorkspaceID, name string, creators []layout.Creator) (*Workspace, error) {
	if len(creators) == 0 {
		creators = r.Workspaces.creators
	}
	if len(creators) == 0 {
		return nil, invariantViolation("no layout engine creators registered for workspace %q", name)
	}
	engines := make([]layout.Engine, 0, len(creators))
	for _, create := range creators {
		engines = append(engines, layout.Build(create, r.Workspaces.proxies))
	}
	ws := newWorkspace(id, name, engines)
	r.Workspaces.put(ws)
	r.Workspaces.QueueEvent(WorkspaceAddedEvent{Workspace: ws})
	return ws, nil
}

// firstHiddenWorkspace returns the first workspace not shown on a monitor,
// skipping except.
func (r *RootSector) firstHiddenWorkspace(except WorkspaceID) (*Workspace, bool) {
	for _, ws := range r.Workspaces.All() {
		if ws.ID == except {
			continue
		}
		if _, visible := r.Maps.MonitorForWorkspace(ws.ID); !visible {
			return ws, true
		}
	}
	return nil, false
}

// addWindowToWorkspace inserts w into every engine, minimized if the window
// is minimized natively.
func addWindowToWorkspace(ws *Workspace, w Window) *Workspace {
	if w.IsMinimized {
		return ws.withEngines(func(e layout.Engine) layout.Engine { return e.MinimizeWindowStart(w.Handle) })
	}
	return ws.withEngines(func(e layout.Engine) layout.Engine { return e.AddWindow(w.Handle) })
}

// trackWindow records a new window and places it in target.
func (r *MutableRootSector) trackWindow(ictx *InternalContext, w Window, target *Workspace, place func(*Workspace) *Workspace) *Workspace {
	r.Windows.put(w)
	r.Windows.QueueEvent(WindowAddedEvent{Window: w})

	next := place(target)
	r.Workspaces.put(next)
	r.Workspaces.queueLayout(next.ID)
	r.Maps.setWindow(w.Handle, next.ID)
	r.Maps.QueueEvent(WindowRoutedEvent{Window: w, Current: next})
	if _, visible := r.Maps.MonitorForWorkspace(next.ID); !visible {
		ictx.hideWindows([]platform.WindowHandle{w.Handle})
	}
	return next
}

// rehomeWindow moves a tracked window out of its current workspace and into
// target via place.
func (r *MutableRootSector) rehomeWindow(ictx *InternalContext, w Window, targetID WorkspaceID, place func(*Workspace) *Workspace) *Workspace {
	var previous *Workspace
	if id, ok := r.Maps.WorkspaceForWindow(w.Handle); ok {
		if ws, ok := r.Workspaces.Get(id); ok {
			previous = ws.withoutWindow(w.Handle)
			r.Workspaces.put(previous)
			r.Workspaces.queueLayout(previous.ID)
		}
	}

	target, _ := r.Workspaces.Get(targetID)
	next := place(target)
	r.Workspaces.put(next)
	r.Workspaces.queueLayout(next.ID)
	r.Maps.setWindow(w.Handle, next.ID)
	r.Maps.QueueEvent(WindowRoutedEvent{Window: w, Previous: previous, Current: next})
	if _, visible := r.Maps.MonitorForWorkspace(next.ID); !visible {
		ictx.hideWindows([]platform.WindowHandle{w.Handle})
	}
	return next
}

// hideWorkspace hides every window and phantom of ws.
func hideWorkspace(ictx *InternalContext, ws *Workspace) {
	ictx.hideWindows(slices.Concat(ws.Windows(), ws.phantoms()))
}
