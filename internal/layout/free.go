package layout

import (
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

// FreeActionSetWindowRect stores a window's floating rectangle. The payload
// is a geometry.UnitRect relative to the monitor.
const FreeActionSetWindowRect = "free.set_window_rect"

// DefaultFreeRect is where a floating window lands until its real rectangle
// is reported.
var DefaultFreeRect = geometry.UnitRect{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5}

const minFreeExtent = 0.01

// FreeEngine keeps each window at its own floating rectangle.
type FreeEngine struct {
	identity  Identity
	name      string
	order     []platform.WindowHandle
	rects     map[platform.WindowHandle]geometry.UnitRect
	minimized map[platform.WindowHandle]bool
}

var _ Engine = (*FreeEngine)(nil)

func NewFreeEngine(identity Identity, name string) *FreeEngine {
	if name == "" {
		name = "Free"
	}
	return &FreeEngine{
		identity:  identity,
		name:      name,
		rects:     map[platform.WindowHandle]geometry.UnitRect{},
		minimized: map[platform.WindowHandle]bool{},
	}
}

func FreeCreator(name string) Creator {
	return func(identity Identity) Engine {
		return NewFreeEngine(identity, name)
	}
}

func (f *FreeEngine) Identity() Identity { return f.identity }
func (f *FreeEngine) Name() string       { return f.name }
func (f *FreeEngine) Count() int         { return len(f.order) }

func (f *FreeEngine) ContainsWindow(window platform.WindowHandle) bool {
	_, ok := f.rects[window]
	return ok
}

func (f *FreeEngine) Windows() []platform.WindowHandle {
	out := make([]platform.WindowHandle, 0, len(f.order))
	for _, w := range f.order {
		if !f.minimized[w] {
			out = append(out, w)
		}
	}
	for _, w := range f.order {
		if f.minimized[w] {
			out = append(out, w)
		}
	}
	return out
}

// WindowRect returns the stored unit rectangle for window.
func (f *FreeEngine) WindowRect(window platform.WindowHandle) (geometry.UnitRect, bool) {
	r, ok := f.rects[window]
	return r, ok
}

func (f *FreeEngine) clone() *FreeEngine {
	return &FreeEngine{
		identity:  f.identity,
		name:      f.name,
		order:     slices.Clone(f.order),
		rects:     maps.Clone(f.rects),
		minimized: maps.Clone(f.minimized),
	}
}

func (f *FreeEngine) setRect(window platform.WindowHandle, rect geometry.UnitRect) Engine {
	rect = rect.Clamp()
	if old, ok := f.rects[window]; ok && old == rect {
		return f
	}
	next := f.clone()
	if !f.ContainsWindow(window) {
		next.order = append(next.order, window)
	}
	next.rects[window] = rect
	return next
}

func (f *FreeEngine) AddWindow(window platform.WindowHandle) Engine {
	if f.ContainsWindow(window) {
		return f
	}
	return f.setRect(window, DefaultFreeRect)
}

func (f *FreeEngine) RemoveWindow(window platform.WindowHandle) Engine {
	i := indexOf(f.order, window)
	if i < 0 {
		return f
	}
	next := f.clone()
	next.order = slices.Delete(next.order, i, i+1)
	delete(next.rects, window)
	delete(next.minimized, window)
	return next
}

// MoveWindowToPoint moves the top-left corner of window to point, keeping
// its size.
func (f *FreeEngine) MoveWindowToPoint(window platform.WindowHandle, point geometry.UnitPoint) Engine {
	rect, ok := f.rects[window]
	if !ok {
		rect = DefaultFreeRect
	}
	rect.X = point.X
	rect.Y = point.Y
	return f.setRect(window, rect)
}

func (f *FreeEngine) SwapWindowInDirection(direction geometry.Direction, window platform.WindowHandle) Engine {
	return f
}

// FocusWindowInDirection picks the nearest window whose center lies in
// direction from the center of window.
func (f *FreeEngine) FocusWindowInDirection(direction geometry.Direction, window platform.WindowHandle) (Engine, platform.WindowHandle, bool) {
	origin, ok := f.rects[window]
	if !ok || f.minimized[window] {
		return f, 0, false
	}
	from := origin.Center()

	var (
		best     platform.WindowHandle
		bestDist = math.Inf(1)
		found    bool
	)
	for _, w := range f.order {
		if w == window || f.minimized[w] {
			continue
		}
		to := f.rects[w].Center()
		dx, dy := to.X-from.X, to.Y-from.Y
		var along float64
		switch direction {
		case geometry.DirectionLeft:
			along = -dx
		case geometry.DirectionRight:
			along = dx
		case geometry.DirectionUp:
			along = -dy
		case geometry.DirectionDown:
			along = dy
		default:
			return f, 0, false
		}
		if along <= 0 {
			continue
		}
		if dist := math.Hypot(dx, dy); dist < bestDist {
			best, bestDist, found = w, dist, true
		}
	}
	return f, best, found
}

func (f *FreeEngine) MoveWindowEdgesInDirection(edges geometry.Direction, deltas geometry.UnitPoint, window platform.WindowHandle) Engine {
	rect, ok := f.rects[window]
	if !ok {
		return f
	}
	if edges.Has(geometry.DirectionLeft) {
		dx := math.Min(deltas.X, rect.Width-minFreeExtent)
		rect.X += dx
		rect.Width -= dx
	}
	if edges.Has(geometry.DirectionRight) {
		rect.Width = math.Max(minFreeExtent, rect.Width+deltas.X)
	}
	if edges.Has(geometry.DirectionUp) {
		dy := math.Min(deltas.Y, rect.Height-minFreeExtent)
		rect.Y += dy
		rect.Height -= dy
	}
	if edges.Has(geometry.DirectionDown) {
		rect.Height = math.Max(minFreeExtent, rect.Height+deltas.Y)
	}
	return f.setRect(window, rect)
}

func (f *FreeEngine) MinimizeWindowStart(window platform.WindowHandle) Engine {
	if f.minimized[window] {
		return f
	}
	next := f.AddWindow(window).(*FreeEngine)
	if next == f {
		next = f.clone()
	}
	next.minimized[window] = true
	return next
}

func (f *FreeEngine) MinimizeWindowEnd(window platform.WindowHandle) Engine {
	if !f.minimized[window] {
		return f.AddWindow(window)
	}
	next := f.clone()
	delete(next.minimized, window)
	return next
}

func (f *FreeEngine) PerformCustomAction(action CustomAction) Engine {
	if action.Name != FreeActionSetWindowRect {
		return f
	}
	rect, ok := action.Payload.(geometry.UnitRect)
	if !ok || action.Window == 0 {
		return f
	}
	return f.setRect(action.Window, rect)
}

func (f *FreeEngine) DoLayout(area geometry.Rect, monitor platform.Monitor) iter.Seq[WindowState] {
	return func(yield func(WindowState) bool) {
		for _, w := range f.Windows() {
			state := WindowState{Window: w, Rect: geometry.FromUnitRect(area, f.rects[w]), Size: SizeNormal}
			if f.minimized[w] {
				state.Size = SizeMinimized
			}
			if !yield(state) {
				return
			}
		}
	}
}
