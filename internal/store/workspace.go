package store

import (
	"maps"
	"slices"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// WindowPosition is the last layout result for a window.
type WindowPosition struct {
	Size layout.WindowSize
	Rect geometry.Rect
}

// Workspace is an immutable value. The with* methods return a new
// *Workspace, or the receiver itself when nothing changed, so callers can
// compare pointers to detect no-ops. Fields must not be modified in place.
type Workspace struct {
	ID                        WorkspaceID
	Name                      string
	LayoutEngines             []layout.Engine
	ActiveLayoutEngineIndex   int
	PreviousLayoutEngineIndex int
	WindowPositions           map[platform.WindowHandle]WindowPosition
	LastFocusedWindowHandle   platform.WindowHandle
}

func newWorkspace(id WorkspaceID, name string, engines []layout.Engine) *Workspace {
	return &Workspace{
		ID:              id,
		Name:            name,
		LayoutEngines:   engines,
		WindowPositions: map[platform.WindowHandle]WindowPosition{},
	}
}

// ActiveLayoutEngine returns the engine used for layout.
func (w *Workspace) ActiveLayoutEngine() layout.Engine {
	return w.LayoutEngines[w.ActiveLayoutEngineIndex]
}

// ContainsWindow reports whether the active engine tracks window.
func (w *Workspace) ContainsWindow(window platform.WindowHandle) bool {
	return w.ActiveLayoutEngine().ContainsWindow(window)
}

// Windows lists the windows of the active engine.
func (w *Workspace) Windows() []platform.WindowHandle {
	return w.ActiveLayoutEngine().Windows()
}

func (w *Workspace) clone() *Workspace {
	next := *w
	return &next
}

func (w *Workspace) withName(name string) *Workspace {
	if w.Name == name {
		return w
	}
	next := w.clone()
	next.Name = name
	return next
}

// withEngines applies fn to every layout engine. Window membership is kept
// in sync across engines so switching engines never loses windows.
func (w *Workspace) withEngines(fn func(layout.Engine) layout.Engine) *Workspace {
	var engines []layout.Engine
	for i, engine := range w.LayoutEngines {
		updated := fn(engine)
		if updated == engine {
			continue
		}
		if engines == nil {
			engines = slices.Clone(w.LayoutEngines)
		}
		engines[i] = updated
	}
	if engines == nil {
		return w
	}
	next := w.clone()
	next.LayoutEngines = engines
	return next
}

func (w *Workspace) withActiveEngine(engine layout.Engine) *Workspace {
	if engine == w.ActiveLayoutEngine() {
		return w
	}
	next := w.clone()
	next.LayoutEngines = slices.Clone(w.LayoutEngines)
	next.LayoutEngines[w.ActiveLayoutEngineIndex] = engine
	return next
}

func (w *Workspace) withActiveIndex(index int) *Workspace {
	if index == w.ActiveLayoutEngineIndex {
		return w
	}
	next := w.clone()
	next.PreviousLayoutEngineIndex = w.ActiveLayoutEngineIndex
	next.ActiveLayoutEngineIndex = index
	return next
}

func (w *Workspace) withLastFocused(window platform.WindowHandle) *Workspace {
	if w.LastFocusedWindowHandle == window {
		return w
	}
	next := w.clone()
	next.LastFocusedWindowHandle = window
	return next
}

func (w *Workspace) withWindowPositions(positions map[platform.WindowHandle]WindowPosition) *Workspace {
	if maps.Equal(w.WindowPositions, positions) {
		return w
	}
	next := w.clone()
	next.WindowPositions = positions
	return next
}

// withoutWindow drops every trace of window from the workspace.
func (w *Workspace) withoutWindow(window platform.WindowHandle) *Workspace {
	next := w.withEngines(func(e layout.Engine) layout.Engine { return e.RemoveWindow(window) })
	if _, ok := next.WindowPositions[window]; ok {
		positions := maps.Clone(next.WindowPositions)
		delete(positions, window)
		next = next.withWindowPositions(positions)
	}
	if next.LastFocusedWindowHandle == window {
		next = next.withLastFocused(0)
	}
	return next
}

// phantoms returns the phantom windows of every engine.
func (w *Workspace) phantoms() []platform.WindowHandle {
	var out []platform.WindowHandle
	for _, engine := range w.LayoutEngines {
		out = append(out, layout.PhantomsOf(engine)...)
	}
	return out
}
