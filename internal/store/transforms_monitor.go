package store

import (
	"slices"

	"github.com/1broseidon/whim/internal/platform"
)

// MonitorsChangedTransform replaces the monitor list. Workspaces on removed
// monitors are hidden, added monitors get the first hidden workspace (or a
// new one) and the remaining monitors are laid out again since their working
// areas may have moved.
type MonitorsChangedTransform struct {
	Monitors []platform.Monitor
}

func (t MonitorsChangedTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (MonitorsChangedEvent, error) {
	if len(t.Monitors) == 0 {
		return MonitorsChangedEvent{}, invariantViolation("monitor list is empty")
	}
	seen := map[platform.MonitorHandle]bool{}
	for _, m := range t.Monitors {
		if m.Handle == 0 {
			return MonitorsChangedEvent{}, invariantViolation("monitor %q has a zero handle", m.Name)
		}
		if seen[m.Handle] {
			return MonitorsChangedEvent{}, invariantViolation("monitor %s listed twice", m.Handle)
		}
		seen[m.Handle] = true
	}

	previous := root.Monitors.All()
	var diff MonitorsChangedEvent
	for _, m := range t.Monitors {
		if slices.ContainsFunc(previous, func(p platform.Monitor) bool { return p.Handle == m.Handle }) {
			diff.Unchanged = append(diff.Unchanged, m)
		} else {
			diff.Added = append(diff.Added, m)
		}
	}
	for _, p := range previous {
		if !seen[p.Handle] {
			diff.Removed = append(diff.Removed, p)
		}
	}

	root.Monitors.setMonitors(t.Monitors)
	if !root.Initialized {
		return diff, nil
	}

	for _, m := range diff.Removed {
		if ws, ok := root.visibleWorkspace(m.Handle); ok {
			hideWorkspace(ictx, ws)
		}
		root.Maps.deleteMonitor(m.Handle)
	}
	for _, m := range diff.Added {
		ws, ok := root.firstHiddenWorkspace(WorkspaceID{})
		if !ok {
			id, err := Exec(ctx, ictx, root, AddWorkspaceTransform{})
			if err != nil {
				return MonitorsChangedEvent{}, err
			}
			ws, _ = root.Workspaces.Get(id)
		}
		root.Maps.setMonitor(m.Handle, ws.ID)
		root.Maps.QueueEvent(MonitorWorkspaceChangedEvent{Monitor: m, Current: ws})
		root.Workspaces.queueLayout(ws.ID)
	}
	for _, m := range diff.Unchanged {
		if ws, ok := root.visibleWorkspace(m.Handle); ok {
			root.Workspaces.queueLayout(ws.ID)
		}
	}

	root.Monitors.QueueEvent(diff)
	ctx.Logger.Info("monitors changed", "added", len(diff.Added), "removed", len(diff.Removed), "unchanged", len(diff.Unchanged))
	return diff, nil
}

// MonitorFocusedTransform marks a monitor active.
type MonitorFocusedTransform struct {
	MonitorHandle platform.MonitorHandle
}

func (t MonitorFocusedTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	if _, ok := root.Monitors.Get(t.MonitorHandle); !ok {
		return false, notFound("monitor %s not found", t.MonitorHandle)
	}
	if root.Monitors.active == t.MonitorHandle {
		return false, nil
	}
	root.Monitors.active = t.MonitorHandle
	return true, nil
}
