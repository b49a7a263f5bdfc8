package store

import (
	"cmp"
	"maps"
	"slices"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// Sectors are replaced wholesale: writers clone a map or slice, change the
// clone, and store it back. A snapshot is therefore a plain struct copy.

type pendingWorkspace struct {
	id       WorkspaceID
	name     string
	creators []layout.Creator
}

// WorkspaceSector holds every workspace in creation order.
type WorkspaceSector struct {
	eventQueue
	workspaces  map[WorkspaceID]*Workspace
	order       []WorkspaceID
	creators    []layout.Creator
	proxies     []layout.ProxyCreator
	pending     []pendingWorkspace
	layoutQueue []WorkspaceID
}

func (s *WorkspaceSector) Get(id WorkspaceID) (*Workspace, bool) {
	ws, ok := s.workspaces[id]
	return ws, ok
}

func (s *WorkspaceSector) ByName(name string) (*Workspace, bool) {
	for _, id := range s.order {
		if ws := s.workspaces[id]; ws.Name == name {
			return ws, true
		}
	}
	return nil, false
}

// All returns the workspaces in creation order.
func (s *WorkspaceSector) All() []*Workspace {
	out := make([]*Workspace, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.workspaces[id])
	}
	return out
}

func (s *WorkspaceSector) Len() int { return len(s.order) }

func (s *WorkspaceSector) indexOf(id WorkspaceID) int {
	return slices.Index(s.order, id)
}

func (s *WorkspaceSector) hasName(name string) bool {
	if _, ok := s.ByName(name); ok {
		return true
	}
	return slices.ContainsFunc(s.pending, func(p pendingWorkspace) bool { return p.name == name })
}

func (s *WorkspaceSector) put(ws *Workspace) {
	next := maps.Clone(s.workspaces)
	if next == nil {
		next = map[WorkspaceID]*Workspace{}
	}
	if _, ok := next[ws.ID]; !ok {
		s.order = append(slices.Clone(s.order), ws.ID)
	}
	next[ws.ID] = ws
	s.workspaces = next
}

func (s *WorkspaceSector) remove(id WorkspaceID) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	next := maps.Clone(s.workspaces)
	delete(next, id)
	s.workspaces = next
	s.order = slices.Delete(slices.Clone(s.order), i, i+1)
	s.layoutQueue = slices.DeleteFunc(slices.Clone(s.layoutQueue), func(q WorkspaceID) bool { return q == id })
}

// queueLayout schedules a deferred layout pass for id.
func (s *WorkspaceSector) queueLayout(id WorkspaceID) {
	if slices.Contains(s.layoutQueue, id) {
		return
	}
	s.layoutQueue = append(slices.Clone(s.layoutQueue), id)
}

func (s *WorkspaceSector) popLayout() (WorkspaceID, bool) {
	if len(s.layoutQueue) == 0 {
		return WorkspaceID{}, false
	}
	id := s.layoutQueue[0]
	s.layoutQueue = slices.Clone(s.layoutQueue[1:])
	return id, true
}

// MonitorSector holds the connected monitors sorted left to right.
type MonitorSector struct {
	eventQueue
	monitors []platform.Monitor
	active   platform.MonitorHandle
}

func (s *MonitorSector) Get(handle platform.MonitorHandle) (platform.Monitor, bool) {
	for _, m := range s.monitors {
		if m.Handle == handle {
			return m, true
		}
	}
	return platform.Monitor{}, false
}

func (s *MonitorSector) All() []platform.Monitor {
	return slices.Clone(s.monitors)
}

func (s *MonitorSector) Len() int { return len(s.monitors) }

// Active returns the monitor that last had focus, falling back to the
// primary monitor.
func (s *MonitorSector) Active() (platform.Monitor, bool) {
	if m, ok := s.Get(s.active); ok {
		return m, true
	}
	return s.Primary()
}

// Primary returns the monitor flagged primary, else the first one.
func (s *MonitorSector) Primary() (platform.Monitor, bool) {
	for _, m := range s.monitors {
		if m.IsPrimary {
			return m, true
		}
	}
	if len(s.monitors) > 0 {
		return s.monitors[0], true
	}
	return platform.Monitor{}, false
}

// AtPoint returns the monitor whose bounds contain p.
func (s *MonitorSector) AtPoint(p geometry.Point) (platform.Monitor, bool) {
	for _, m := range s.monitors {
		if m.Bounds.Contains(p) {
			return m, true
		}
	}
	return platform.Monitor{}, false
}

func (s *MonitorSector) setMonitors(monitors []platform.Monitor) {
	sorted := slices.Clone(monitors)
	slices.SortStableFunc(sorted, func(a, b platform.Monitor) int {
		if c := cmp.Compare(a.Bounds.X, b.Bounds.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Bounds.Y, b.Bounds.Y)
	})
	s.monitors = sorted
}

// WindowSector holds tracked windows plus the filter and routing rules.
type WindowSector struct {
	eventQueue
	windows map[platform.WindowHandle]Window
	filters []Filter
	routes  []Route
}

func (s *WindowSector) Get(handle platform.WindowHandle) (Window, bool) {
	w, ok := s.windows[handle]
	return w, ok
}

// All returns tracked windows ordered by handle.
func (s *WindowSector) All() []Window {
	out := slices.Collect(maps.Values(s.windows))
	slices.SortFunc(out, func(a, b Window) int { return cmp.Compare(a.Handle, b.Handle) })
	return out
}

func (s *WindowSector) Filters() []Filter { return slices.Clone(s.filters) }
func (s *WindowSector) Routes() []Route   { return slices.Clone(s.routes) }

// IsIgnored reports whether any filter matches w.
func (s *WindowSector) IsIgnored(w Window) bool {
	return slices.ContainsFunc(s.filters, func(f Filter) bool { return f.Matches(w) })
}

// RouteFor returns the workspace name the first matching route names.
func (s *WindowSector) RouteFor(w Window) (string, bool) {
	for _, r := range s.routes {
		if r.Matches(w) {
			return r.Workspace, true
		}
	}
	return "", false
}

func (s *WindowSector) put(w Window) {
	next := maps.Clone(s.windows)
	if next == nil {
		next = map[platform.WindowHandle]Window{}
	}
	next[w.Handle] = w
	s.windows = next
}

func (s *WindowSector) remove(handle platform.WindowHandle) {
	next := maps.Clone(s.windows)
	delete(next, handle)
	s.windows = next
}

// MapSector links windows and monitors to workspaces.
type MapSector struct {
	eventQueue
	windowWorkspace  map[platform.WindowHandle]WorkspaceID
	monitorWorkspace map[platform.MonitorHandle]WorkspaceID
}

func (s *MapSector) WorkspaceForWindow(handle platform.WindowHandle) (WorkspaceID, bool) {
	id, ok := s.windowWorkspace[handle]
	return id, ok
}

func (s *MapSector) WorkspaceForMonitor(handle platform.MonitorHandle) (WorkspaceID, bool) {
	id, ok := s.monitorWorkspace[handle]
	return id, ok
}

// MonitorForWorkspace returns the monitor showing id, if it is visible.
func (s *MapSector) MonitorForWorkspace(id WorkspaceID) (platform.MonitorHandle, bool) {
	for m, ws := range s.monitorWorkspace {
		if ws == id {
			return m, true
		}
	}
	return 0, false
}

// WindowWorkspaceMap returns a copy of the window to workspace map.
func (s *MapSector) WindowWorkspaceMap() map[platform.WindowHandle]WorkspaceID {
	return maps.Clone(s.windowWorkspace)
}

// MonitorWorkspaceMap returns a copy of the monitor to workspace map.
func (s *MapSector) MonitorWorkspaceMap() map[platform.MonitorHandle]WorkspaceID {
	return maps.Clone(s.monitorWorkspace)
}

func (s *MapSector) setWindow(handle platform.WindowHandle, id WorkspaceID) {
	next := maps.Clone(s.windowWorkspace)
	if next == nil {
		next = map[platform.WindowHandle]WorkspaceID{}
	}
	next[handle] = id
	s.windowWorkspace = next
}

func (s *MapSector) deleteWindow(handle platform.WindowHandle) {
	next := maps.Clone(s.windowWorkspace)
	delete(next, handle)
	s.windowWorkspace = next
}

func (s *MapSector) setMonitor(handle platform.MonitorHandle, id WorkspaceID) {
	next := maps.Clone(s.monitorWorkspace)
	if next == nil {
		next = map[platform.MonitorHandle]WorkspaceID{}
	}
	next[handle] = id
	s.monitorWorkspace = next
}

func (s *MapSector) deleteMonitor(handle platform.MonitorHandle) {
	next := maps.Clone(s.monitorWorkspace)
	delete(next, handle)
	s.monitorWorkspace = next
}

// RootSector is a read-only snapshot of all sectors. Pickers receive one.
type RootSector struct {
	Workspaces  WorkspaceSector
	Monitors    MonitorSector
	Windows     WindowSector
	Maps        MapSector
	Initialized bool
}

// MutableRootSector is the writer's view. Only transforms running on the
// store's writer goroutine may touch it.
type MutableRootSector struct {
	RootSector
	clock uint64
}

func newMutableRootSector() *MutableRootSector {
	r := &MutableRootSector{}
	r.Workspaces.clock = &r.clock
	r.Monitors.clock = &r.clock
	r.Windows.clock = &r.clock
	r.Maps.clock = &r.clock
	r.Workspaces.workspaces = map[WorkspaceID]*Workspace{}
	r.Windows.windows = map[platform.WindowHandle]Window{}
	r.Maps.windowWorkspace = map[platform.WindowHandle]WorkspaceID{}
	r.Maps.monitorWorkspace = map[platform.MonitorHandle]WorkspaceID{}
	return r
}

// drainEvents merges every sector queue in enqueue order and clears them.
func (r *MutableRootSector) drainEvents() []Event {
	var queued []queuedEvent
	for _, q := range []*eventQueue{&r.Workspaces.eventQueue, &r.Monitors.eventQueue, &r.Windows.eventQueue, &r.Maps.eventQueue} {
		queued = append(queued, q.pending...)
		q.pending = nil
	}
	slices.SortFunc(queued, func(a, b queuedEvent) int { return cmp.Compare(a.seq, b.seq) })
	events := make([]Event, len(queued))
	for i, q := range queued {
		events[i] = q.event
	}
	return events
}

// snapshot copies the committed state for readers.
func (r *MutableRootSector) snapshot() *RootSector {
	s := r.RootSector
	s.Workspaces.eventQueue = eventQueue{}
	s.Monitors.eventQueue = eventQueue{}
	s.Windows.eventQueue = eventQueue{}
	s.Maps.eventQueue = eventQueue{}
	return &s
}

// visibleWorkspace resolves the workspace shown on monitor.
func (r *RootSector) visibleWorkspace(monitor platform.MonitorHandle) (*Workspace, bool) {
	id, ok := r.Maps.WorkspaceForMonitor(monitor)
	if !ok {
		return nil, false
	}
	return r.Workspaces.Get(id)
}

// activeWorkspace is the workspace on the active monitor.
func (r *RootSector) activeWorkspace() (*Workspace, error) {
	m, ok := r.Monitors.Active()
	if !ok {
		return nil, notFound("no active monitor")
	}
	ws, ok := r.visibleWorkspace(m.Handle)
	if !ok {
		return nil, notFound("no workspace on monitor %s", m.Handle)
	}
	return ws, nil
}

// resolveWorkspace returns the workspace for id, or the active workspace
// when id is zero.
func (r *RootSector) resolveWorkspace(id WorkspaceID) (*Workspace, error) {
	if id.IsZero() {
		return r.activeWorkspace()
	}
	ws, ok := r.Workspaces.Get(id)
	if !ok {
		return nil, notFound("workspace %s not found", id)
	}
	return ws, nil
}

// workspaceMonitor returns the monitor showing id, or the primary monitor
// for hidden workspaces.
func (r *RootSector) workspaceMonitor(id WorkspaceID) (platform.Monitor, bool) {
	if h, ok := r.Maps.MonitorForWorkspace(id); ok {
		if m, ok := r.Monitors.Get(h); ok {
			return m, true
		}
	}
	return r.Monitors.Primary()
}
