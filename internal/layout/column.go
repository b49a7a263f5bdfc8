package layout

import (
	"iter"
	"math"
	"slices"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

// ColumnActionToggleDirection flips the column order.
const ColumnActionToggleDirection = "column.toggle_direction"

type minimizedSlot struct {
	window platform.WindowHandle
	index  int
}

// ColumnEngine lays windows out as equal-width columns.
type ColumnEngine struct {
	identity    Identity
	name        string
	leftToRight bool
	windows     []platform.WindowHandle
	minimized   []minimizedSlot
}

var _ Engine = (*ColumnEngine)(nil)

// NewColumnEngine returns an empty column engine.
func NewColumnEngine(identity Identity, name string, leftToRight bool) *ColumnEngine {
	if name == "" {
		name = "Column"
	}
	return &ColumnEngine{identity: identity, name: name, leftToRight: leftToRight}
}

// ColumnCreator adapts NewColumnEngine to a Creator.
func ColumnCreator(name string, leftToRight bool) Creator {
	return func(identity Identity) Engine {
		return NewColumnEngine(identity, name, leftToRight)
	}
}

func (c *ColumnEngine) Identity() Identity { return c.identity }
func (c *ColumnEngine) Name() string       { return c.name }
func (c *ColumnEngine) LeftToRight() bool  { return c.leftToRight }
func (c *ColumnEngine) Count() int         { return len(c.windows) + len(c.minimized) }

func (c *ColumnEngine) ContainsWindow(window platform.WindowHandle) bool {
	return indexOf(c.windows, window) >= 0 || c.minimizedIndex(window) >= 0
}

func (c *ColumnEngine) Windows() []platform.WindowHandle {
	out := slices.Clone(c.windows)
	for _, m := range c.minimized {
		out = append(out, m.window)
	}
	return out
}

func (c *ColumnEngine) minimizedIndex(window platform.WindowHandle) int {
	for i, m := range c.minimized {
		if m.window == window {
			return i
		}
	}
	return -1
}

func (c *ColumnEngine) with(windows []platform.WindowHandle, minimized []minimizedSlot) *ColumnEngine {
	next := *c
	next.windows = windows
	next.minimized = minimized
	return &next
}

func (c *ColumnEngine) AddWindow(window platform.WindowHandle) Engine {
	if c.ContainsWindow(window) {
		return c
	}
	return c.with(append(slices.Clone(c.windows), window), c.minimized)
}

func (c *ColumnEngine) RemoveWindow(window platform.WindowHandle) Engine {
	if i := indexOf(c.windows, window); i >= 0 {
		return c.with(slices.Delete(slices.Clone(c.windows), i, i+1), c.minimized)
	}
	if i := c.minimizedIndex(window); i >= 0 {
		return c.with(c.windows, slices.Delete(slices.Clone(c.minimized), i, i+1))
	}
	return c
}

// MoveWindowToPoint inserts window at the column whose boundary is closest
// to point.X.
func (c *ColumnEngine) MoveWindowToPoint(window platform.WindowHandle, point geometry.UnitPoint) Engine {
	rest := slices.Clone(c.windows)
	current := indexOf(rest, window)
	if current >= 0 {
		rest = slices.Delete(rest, current, current+1)
	}
	minimized := c.minimized
	if i := c.minimizedIndex(window); i >= 0 {
		minimized = slices.Delete(slices.Clone(c.minimized), i, i+1)
	}

	n := len(rest)
	x := math.Max(0, math.Min(1, point.X))
	idx := int(math.Round(x * float64(n)))
	if !c.leftToRight {
		idx = n - idx
	}
	idx = max(0, min(idx, n))

	if idx == current && len(minimized) == len(c.minimized) {
		return c
	}
	return c.with(slices.Insert(rest, idx, window), minimized)
}

func (c *ColumnEngine) SwapWindowInDirection(direction geometry.Direction, window platform.WindowHandle) Engine {
	delta := step(direction, c.leftToRight)
	i := indexOf(c.windows, window)
	n := len(c.windows)
	if delta == 0 || i < 0 || n < 2 {
		return c
	}
	j := wrapIndex(i+delta, n)
	windows := slices.Clone(c.windows)
	windows[i], windows[j] = windows[j], windows[i]
	return c.with(windows, c.minimized)
}

func (c *ColumnEngine) FocusWindowInDirection(direction geometry.Direction, window platform.WindowHandle) (Engine, platform.WindowHandle, bool) {
	delta := step(direction, c.leftToRight)
	i := indexOf(c.windows, window)
	n := len(c.windows)
	if delta == 0 || i < 0 || n < 2 {
		return c, 0, false
	}
	return c, c.windows[wrapIndex(i+delta, n)], true
}

// MoveWindowEdgesInDirection is a no-op: columns always share the width
// equally.
func (c *ColumnEngine) MoveWindowEdgesInDirection(edges geometry.Direction, deltas geometry.UnitPoint, window platform.WindowHandle) Engine {
	return c
}

func (c *ColumnEngine) MinimizeWindowStart(window platform.WindowHandle) Engine {
	if c.minimizedIndex(window) >= 0 {
		return c
	}
	i := indexOf(c.windows, window)
	windows := c.windows
	index := len(c.windows)
	if i >= 0 {
		windows = slices.Delete(slices.Clone(c.windows), i, i+1)
		index = i
	}
	return c.with(windows, append(slices.Clone(c.minimized), minimizedSlot{window: window, index: index}))
}

func (c *ColumnEngine) MinimizeWindowEnd(window platform.WindowHandle) Engine {
	i := c.minimizedIndex(window)
	if i < 0 {
		return c.AddWindow(window)
	}
	slot := c.minimized[i]
	idx := min(slot.index, len(c.windows))
	return c.with(
		slices.Insert(slices.Clone(c.windows), idx, window),
		slices.Delete(slices.Clone(c.minimized), i, i+1),
	)
}

func (c *ColumnEngine) PerformCustomAction(action CustomAction) Engine {
	if action.Name != ColumnActionToggleDirection {
		return c
	}
	next := *c
	next.leftToRight = !c.leftToRight
	return &next
}

func (c *ColumnEngine) DoLayout(area geometry.Rect, monitor platform.Monitor) iter.Seq[WindowState] {
	return func(yield func(WindowState) bool) {
		n := len(c.windows)
		if n > 0 {
			width := area.Width / n
			for i, w := range c.windows {
				col := i
				if !c.leftToRight {
					col = n - 1 - i
				}
				rect := geometry.Rect{X: area.X + col*width, Y: area.Y, Width: width, Height: area.Height}
				if !yield(WindowState{Window: w, Rect: rect, Size: SizeNormal}) {
					return
				}
			}
		}
		minimized := make([]platform.WindowHandle, 0, len(c.minimized))
		for _, m := range c.minimized {
			minimized = append(minimized, m.window)
		}
		minimizedStates(minimized, area, yield)
	}
}
