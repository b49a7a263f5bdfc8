package store

import (
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// InitializeTransform brings the store up: it records the monitors, creates
// the pending workspaces (plus defaults until every monitor has one), maps
// monitor i to workspace i and adds the existing windows. Windows found in
// SavedState go back to their saved workspace and position.
type InitializeTransform struct {
	Monitors   []platform.Monitor
	Windows    []platform.WindowInfo
	SavedState *SavedState
}

func (t InitializeTransform) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	if root.Initialized {
		return false, invariantViolation("store is already initialized")
	}
	if _, err := Exec(ctx, ictx, root, MonitorsChangedTransform{Monitors: t.Monitors}); err != nil {
		return false, err
	}

	pending := root.Workspaces.pending
	root.Workspaces.pending = nil
	for _, p := range pending {
		if _, err := root.createWorkspace(p.id, p.name, p.creators); err != nil {
			return false, err
		}
	}
	for root.Workspaces.Len() < root.Monitors.Len() {
		if _, err := root.createWorkspace(NewWorkspaceID(), root.defaultWorkspaceName(), nil); err != nil {
			return false, err
		}
	}

	workspaces := root.Workspaces.All()
	for i, m := range root.Monitors.All() {
		root.Maps.setMonitor(m.Handle, workspaces[i].ID)
		root.Maps.QueueEvent(MonitorWorkspaceChangedEvent{Monitor: m, Current: workspaces[i]})
		root.Workspaces.queueLayout(workspaces[i].ID)
	}
	if m, ok := root.Monitors.Primary(); ok {
		root.Monitors.active = m.Handle
	}
	root.Initialized = true

	restored := 0
	for _, info := range t.Windows {
		ok, err := root.restoreWindow(ctx, ictx, info, t.SavedState)
		if err != nil {
			return false, err
		}
		if ok {
			restored++
			continue
		}
		if _, err := Exec(ctx, ictx, root, WindowAddedTransform{Window: info}); err != nil {
			return false, err
		}
	}

	ctx.Logger.Info("store initialized",
		"monitors", root.Monitors.Len(),
		"workspaces", root.Workspaces.Len(),
		"windows", len(root.Windows.windows),
		"restored", restored,
	)
	return true, nil
}

// restoreWindow places info where saved says it was. It reports false when
// the window has no usable saved entry and should be added normally.
func (r *MutableRootSector) restoreWindow(ctx *Context, ictx *InternalContext, info platform.WindowInfo, saved *SavedState) (bool, error) {
	name, rect, ok := saved.lookup(info.Handle)
	if !ok || info.Handle == 0 {
		return false, nil
	}
	target, ok := r.Workspaces.ByName(name)
	if !ok {
		return false, nil
	}
	if _, tracked := r.Windows.Get(info.Handle); tracked {
		return true, nil
	}
	w := windowFromInfo(info)
	if r.Windows.IsIgnored(w) {
		return true, nil
	}

	center := rect.Center()
	r.trackWindow(ictx, w, target, func(ws *Workspace) *Workspace {
		ws = ws.withEngines(func(e layout.Engine) layout.Engine {
			e = e.MoveWindowToPoint(w.Handle, center)
			return e.PerformCustomAction(layout.CustomAction{
				Name:    layout.FreeActionSetWindowRect,
				Window:  w.Handle,
				Payload: rect,
			})
		})
		if w.IsMinimized {
			ws = ws.withEngines(func(e layout.Engine) layout.Engine { return e.MinimizeWindowStart(w.Handle) })
		}
		return ws
	})
	ctx.Logger.Debug("window restored", "window", w.Handle, "workspace", name)
	return true, nil
}
