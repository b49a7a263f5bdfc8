package layout

import (
	"iter"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

// GapsActionSet replaces the gap sizes. The payload is a Gaps value.
const GapsActionSet = "gaps.set"

// Gaps are pixel insets applied around the monitor area and each window.
type Gaps struct {
	Outer int
	Inner int
}

// GapsEngine wraps another engine and insets the rectangles it produces.
type GapsEngine struct {
	inner Engine
	gaps  Gaps
}

var (
	_ Engine    = (*GapsEngine)(nil)
	_ Unwrapper = (*GapsEngine)(nil)
)

// GapsProxy returns a ProxyCreator that wraps engines with gaps.
func GapsProxy(gaps Gaps) ProxyCreator {
	return func(inner Engine) Engine {
		return &GapsEngine{inner: inner, gaps: gaps}
	}
}

func (g *GapsEngine) Unwrap() Engine { return g.inner }
func (g *GapsEngine) Gaps() Gaps     { return g.gaps }

// wrap keeps the proxy when inner did not change.
func (g *GapsEngine) wrap(inner Engine) Engine {
	if inner == g.inner {
		return g
	}
	return &GapsEngine{inner: inner, gaps: g.gaps}
}

func (g *GapsEngine) Identity() Identity { return g.inner.Identity() }
func (g *GapsEngine) Name() string       { return g.inner.Name() }
func (g *GapsEngine) Count() int         { return g.inner.Count() }

func (g *GapsEngine) ContainsWindow(window platform.WindowHandle) bool {
	return g.inner.ContainsWindow(window)
}

func (g *GapsEngine) Windows() []platform.WindowHandle {
	return g.inner.Windows()
}

func (g *GapsEngine) AddWindow(window platform.WindowHandle) Engine {
	return g.wrap(g.inner.AddWindow(window))
}

func (g *GapsEngine) RemoveWindow(window platform.WindowHandle) Engine {
	return g.wrap(g.inner.RemoveWindow(window))
}

func (g *GapsEngine) MoveWindowToPoint(window platform.WindowHandle, point geometry.UnitPoint) Engine {
	return g.wrap(g.inner.MoveWindowToPoint(window, point))
}

func (g *GapsEngine) SwapWindowInDirection(direction geometry.Direction, window platform.WindowHandle) Engine {
	return g.wrap(g.inner.SwapWindowInDirection(direction, window))
}

func (g *GapsEngine) FocusWindowInDirection(direction geometry.Direction, window platform.WindowHandle) (Engine, platform.WindowHandle, bool) {
	inner, target, ok := g.inner.FocusWindowInDirection(direction, window)
	return g.wrap(inner), target, ok
}

func (g *GapsEngine) MoveWindowEdgesInDirection(edges geometry.Direction, deltas geometry.UnitPoint, window platform.WindowHandle) Engine {
	return g.wrap(g.inner.MoveWindowEdgesInDirection(edges, deltas, window))
}

func (g *GapsEngine) MinimizeWindowStart(window platform.WindowHandle) Engine {
	return g.wrap(g.inner.MinimizeWindowStart(window))
}

func (g *GapsEngine) MinimizeWindowEnd(window platform.WindowHandle) Engine {
	return g.wrap(g.inner.MinimizeWindowEnd(window))
}

func (g *GapsEngine) PerformCustomAction(action CustomAction) Engine {
	if action.Name == GapsActionSet {
		gaps, ok := action.Payload.(Gaps)
		if !ok || gaps == g.gaps {
			return g
		}
		return &GapsEngine{inner: g.inner, gaps: gaps}
	}
	return g.wrap(g.inner.PerformCustomAction(action))
}

func (g *GapsEngine) DoLayout(area geometry.Rect, monitor platform.Monitor) iter.Seq[WindowState] {
	return func(yield func(WindowState) bool) {
		inset := area
		if g.gaps.Outer > 0 {
			inset = area.Shrink(g.gaps.Outer)
		}
		for state := range g.inner.DoLayout(inset, monitor) {
			if state.Size == SizeNormal && g.gaps.Inner > 0 {
				state.Rect = state.Rect.Shrink(g.gaps.Inner)
			}
			if !yield(state) {
				return
			}
		}
	}
}
