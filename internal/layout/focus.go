package layout

import (
	"iter"
	"slices"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

// FocusActionToggleMaximized switches the focused window between normal and
// maximized.
const FocusActionToggleMaximized = "focus.toggle_maximized"

// FocusEngine shows one window at a time and minimizes the rest.
type FocusEngine struct {
	identity     Identity
	name         string
	maximize     bool
	windows      []platform.WindowHandle
	focusedIndex int
	minimized    []platform.WindowHandle
}

var _ Engine = (*FocusEngine)(nil)

func NewFocusEngine(identity Identity, name string, maximize bool) *FocusEngine {
	if name == "" {
		name = "Focus"
	}
	return &FocusEngine{identity: identity, name: name, maximize: maximize}
}

func FocusCreator(name string, maximize bool) Creator {
	return func(identity Identity) Engine {
		return NewFocusEngine(identity, name, maximize)
	}
}

func (f *FocusEngine) Identity() Identity { return f.identity }
func (f *FocusEngine) Name() string       { return f.name }
func (f *FocusEngine) Maximize() bool     { return f.maximize }
func (f *FocusEngine) Count() int         { return len(f.windows) + len(f.minimized) }

// Focused returns the visible window, if any.
func (f *FocusEngine) Focused() (platform.WindowHandle, bool) {
	if len(f.windows) == 0 {
		return 0, false
	}
	return f.windows[f.focusedIndex], true
}

func (f *FocusEngine) ContainsWindow(window platform.WindowHandle) bool {
	return indexOf(f.windows, window) >= 0 || indexOf(f.minimized, window) >= 0
}

func (f *FocusEngine) Windows() []platform.WindowHandle {
	return append(slices.Clone(f.windows), f.minimized...)
}

func (f *FocusEngine) clone() *FocusEngine {
	next := *f
	return &next
}

func (f *FocusEngine) AddWindow(window platform.WindowHandle) Engine {
	if f.ContainsWindow(window) {
		return f
	}
	next := f.clone()
	next.windows = append(slices.Clone(f.windows), window)
	next.focusedIndex = len(next.windows) - 1
	return next
}

func (f *FocusEngine) RemoveWindow(window platform.WindowHandle) Engine {
	if i := indexOf(f.minimized, window); i >= 0 {
		next := f.clone()
		next.minimized = slices.Delete(slices.Clone(f.minimized), i, i+1)
		return next
	}
	i := indexOf(f.windows, window)
	if i < 0 {
		return f
	}
	next := f.clone()
	next.windows = slices.Delete(slices.Clone(f.windows), i, i+1)
	if i < f.focusedIndex {
		next.focusedIndex--
	}
	next.focusedIndex = max(0, min(next.focusedIndex, len(next.windows)-1))
	return next
}

// MoveWindowToPoint brings window to the front; there is only one slot.
func (f *FocusEngine) MoveWindowToPoint(window platform.WindowHandle, point geometry.UnitPoint) Engine {
	i := indexOf(f.windows, window)
	if i < 0 {
		return f.AddWindow(window)
	}
	if i == f.focusedIndex {
		return f
	}
	next := f.clone()
	next.focusedIndex = i
	return next
}

func focusStep(direction geometry.Direction) int {
	switch direction {
	case geometry.DirectionLeft, geometry.DirectionUp:
		return -1
	case geometry.DirectionRight, geometry.DirectionDown:
		return 1
	}
	return 0
}

// SwapWindowInDirection reorders the backing list. The focused index is left
// alone, so the visible window may change.
func (f *FocusEngine) SwapWindowInDirection(direction geometry.Direction, window platform.WindowHandle) Engine {
	delta := focusStep(direction)
	i := indexOf(f.windows, window)
	n := len(f.windows)
	if delta == 0 || i < 0 || n < 2 {
		return f
	}
	j := wrapIndex(i+delta, n)
	next := f.clone()
	next.windows = slices.Clone(f.windows)
	next.windows[i], next.windows[j] = next.windows[j], next.windows[i]
	return next
}

func (f *FocusEngine) FocusWindowInDirection(direction geometry.Direction, window platform.WindowHandle) (Engine, platform.WindowHandle, bool) {
	delta := focusStep(direction)
	i := indexOf(f.windows, window)
	n := len(f.windows)
	if delta == 0 || i < 0 || n < 2 {
		return f, 0, false
	}
	j := wrapIndex(i+delta, n)
	target := f.windows[j]
	if j == f.focusedIndex {
		return f, target, true
	}
	next := f.clone()
	next.focusedIndex = j
	return next, target, true
}

func (f *FocusEngine) MoveWindowEdgesInDirection(edges geometry.Direction, deltas geometry.UnitPoint, window platform.WindowHandle) Engine {
	return f
}

func (f *FocusEngine) MinimizeWindowStart(window platform.WindowHandle) Engine {
	if indexOf(f.minimized, window) >= 0 {
		return f
	}
	var next *FocusEngine
	if f.ContainsWindow(window) {
		next = f.RemoveWindow(window).(*FocusEngine)
	} else {
		next = f.clone()
	}
	next.minimized = append(slices.Clone(next.minimized), window)
	return next
}

func (f *FocusEngine) MinimizeWindowEnd(window platform.WindowHandle) Engine {
	i := indexOf(f.minimized, window)
	if i < 0 {
		return f.AddWindow(window)
	}
	next := f.clone()
	next.minimized = slices.Delete(slices.Clone(f.minimized), i, i+1)
	return next.AddWindow(window)
}

func (f *FocusEngine) PerformCustomAction(action CustomAction) Engine {
	if action.Name != FocusActionToggleMaximized {
		return f
	}
	next := f.clone()
	next.maximize = !f.maximize
	return next
}

func (f *FocusEngine) DoLayout(area geometry.Rect, monitor platform.Monitor) iter.Seq[WindowState] {
	return func(yield func(WindowState) bool) {
		for i, w := range f.windows {
			size := SizeMinimized
			if i == f.focusedIndex {
				size = SizeNormal
				if f.maximize {
					size = SizeMaximized
				}
			}
			if !yield(WindowState{Window: w, Rect: area, Size: size}) {
				return
			}
		}
		minimizedStates(f.minimized, area, yield)
	}
}
