package layout

import (
	"iter"
	"math"
	"slices"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

// Tree custom actions.
const (
	// TreeActionSetAddDirection takes a geometry.Direction payload.
	TreeActionSetAddDirection = "tree.set_add_direction"
	// TreeActionAddPhantom inserts action.Window as a phantom leaf.
	TreeActionAddPhantom = "tree.add_phantom"
	// TreeActionRemovePhantom removes the phantom leaf for action.Window.
	TreeActionRemovePhantom = "tree.remove_phantom"
)

// adjacencyProbe is how far beyond an edge the neighbour probe lands, in
// unit-square terms. It corresponds to one pixel on a 10000px monitor.
const adjacencyProbe = 1e-4

// maxWeightDelta bounds how much weight one resize call can move.
const maxWeightDelta = 0.5

type treeMinimized struct {
	window    platform.WindowHandle
	anchor    platform.WindowHandle
	direction geometry.Direction
}

// TreeEngine is a weighted space-partition layout.
type TreeEngine struct {
	identity     Identity
	name         string
	root         node
	addDirection geometry.Direction
	focused      platform.WindowHandle
	minimized    []treeMinimized
}

var _ Engine = (*TreeEngine)(nil)
var _ PhantomOwner = (*TreeEngine)(nil)

func NewTreeEngine(identity Identity, name string, addDirection geometry.Direction) *TreeEngine {
	if name == "" {
		name = "Tree"
	}
	if !addDirection.IsHorizontal() && !addDirection.IsVertical() {
		addDirection = geometry.DirectionRight
	}
	return &TreeEngine{identity: identity, name: name, addDirection: addDirection}
}

func TreeCreator(name string, addDirection geometry.Direction) Creator {
	return func(identity Identity) Engine {
		return NewTreeEngine(identity, name, addDirection)
	}
}

func (t *TreeEngine) Identity() Identity               { return t.identity }
func (t *TreeEngine) Name() string                     { return t.name }
func (t *TreeEngine) AddDirection() geometry.Direction { return t.addDirection }
func (t *TreeEngine) Focused() platform.WindowHandle   { return t.focused }
func (t *TreeEngine) Count() int                       { return len(t.Windows()) }

func (t *TreeEngine) ContainsWindow(window platform.WindowHandle) bool {
	p, ok := findLeaf(t.root, window)
	if ok {
		return !nodeAt(t.root, p).(*leafNode).phantom
	}
	return t.minimizedIndex(window) >= 0
}

func (t *TreeEngine) Windows() []platform.WindowHandle {
	var out []platform.WindowHandle
	leaves(t.root, func(_ path, leaf *leafNode, _ geometry.UnitRect) bool {
		if !leaf.phantom {
			out = append(out, leaf.window)
		}
		return true
	})
	for _, m := range t.minimized {
		out = append(out, m.window)
	}
	return out
}

func (t *TreeEngine) Phantoms() []platform.WindowHandle {
	var out []platform.WindowHandle
	leaves(t.root, func(_ path, leaf *leafNode, _ geometry.UnitRect) bool {
		if leaf.phantom {
			out = append(out, leaf.window)
		}
		return true
	})
	return out
}

// Weights returns the effective weights of the split at p, for inspection.
func (t *TreeEngine) Weights(p ...int) []float64 {
	s, ok := nodeAt(t.root, p).(*splitNode)
	if !ok {
		return nil
	}
	return s.explicitWeights()
}

// WindowRect returns the unit rectangle of window's leaf.
func (t *TreeEngine) WindowRect(window platform.WindowHandle) (geometry.UnitRect, bool) {
	p, ok := findLeaf(t.root, window)
	if !ok {
		return geometry.UnitRect{}, false
	}
	return rectAt(t.root, p), true
}

func (t *TreeEngine) minimizedIndex(window platform.WindowHandle) int {
	for i, m := range t.minimized {
		if m.window == window {
			return i
		}
	}
	return -1
}

func (t *TreeEngine) clone() *TreeEngine {
	next := *t
	return &next
}

// anchorPath is the leaf new windows are inserted next to: the focused
// window, else the last leaf.
func (t *TreeEngine) anchorPath() path {
	if t.focused != 0 {
		if p, ok := findLeaf(t.root, t.focused); ok {
			return p
		}
	}
	var last path
	leaves(t.root, func(p path, _ *leafNode, _ geometry.UnitRect) bool {
		last = p
		return true
	})
	return last
}

func (t *TreeEngine) insert(leaf *leafNode, anchor path, direction geometry.Direction) *TreeEngine {
	next := t.clone()
	next.root = insertLeaf(t.root, anchor, leaf, direction)
	if !leaf.phantom {
		next.focused = leaf.window
	}
	return next
}

func (t *TreeEngine) AddWindow(window platform.WindowHandle) Engine {
	if _, ok := findLeaf(t.root, window); ok || t.minimizedIndex(window) >= 0 {
		return t
	}
	return t.insert(&leafNode{window: window}, t.anchorPath(), t.addDirection)
}

func (t *TreeEngine) remove(window platform.WindowHandle, phantom bool) Engine {
	if i := t.minimizedIndex(window); i >= 0 && !phantom {
		next := t.clone()
		next.minimized = slices.Delete(slices.Clone(t.minimized), i, i+1)
		return next
	}
	p, ok := findLeaf(t.root, window)
	if !ok || nodeAt(t.root, p).(*leafNode).phantom != phantom {
		return t
	}
	next := t.clone()
	next.root = removeAt(t.root, p)
	if t.focused == window {
		next.focused = 0
		if next.root != nil {
			if leaf, ok := nodeAt(next.root, next.anchorPath()).(*leafNode); ok && !leaf.phantom {
				next.focused = leaf.window
			}
		}
	}
	return next
}

func (t *TreeEngine) RemoveWindow(window platform.WindowHandle) Engine {
	return t.remove(window, false)
}

// MoveWindowToPoint removes window and reinserts it beside the leaf under
// point, on the side of that leaf nearest to point. Phantoms stay put.
func (t *TreeEngine) MoveWindowToPoint(window platform.WindowHandle, point geometry.UnitPoint) Engine {
	if p, ok := findLeaf(t.root, window); ok {
		if nodeAt(t.root, p).(*leafNode).phantom || rectAt(t.root, p).Contains(point) {
			return t
		}
	}
	base := t
	if t.ContainsWindow(window) {
		base = t.RemoveWindow(window).(*TreeEngine)
	}
	target, ok := leafAtPoint(base.root, point)
	if !ok {
		return base.insert(&leafNode{window: window}, base.anchorPath(), base.addDirection)
	}
	rect := rectAt(base.root, target)
	return base.insert(&leafNode{window: window}, target, nearestEdge(rect, point))
}

func nearestEdge(rect geometry.UnitRect, point geometry.UnitPoint) geometry.Direction {
	distances := []struct {
		dir  geometry.Direction
		dist float64
	}{
		{geometry.DirectionLeft, point.X - rect.X},
		{geometry.DirectionRight, rect.X + rect.Width - point.X},
		{geometry.DirectionUp, point.Y - rect.Y},
		{geometry.DirectionDown, rect.Y + rect.Height - point.Y},
	}
	best := distances[0]
	for _, d := range distances[1:] {
		if d.dist < best.dist {
			best = d
		}
	}
	return best.dir
}

// adjacent finds the leaf one probe beyond the direction edge of the leaf at
// origin. It returns false at the tree boundary.
func (t *TreeEngine) adjacent(origin path, direction geometry.Direction) (path, bool) {
	rect := rectAt(t.root, origin)
	center := rect.Center()
	var probe geometry.UnitPoint
	switch direction {
	case geometry.DirectionLeft:
		probe = geometry.UnitPoint{X: rect.X - adjacencyProbe, Y: center.Y}
	case geometry.DirectionRight:
		probe = geometry.UnitPoint{X: rect.X + rect.Width + adjacencyProbe, Y: center.Y}
	case geometry.DirectionUp:
		probe = geometry.UnitPoint{X: center.X, Y: rect.Y - adjacencyProbe}
	case geometry.DirectionDown:
		probe = geometry.UnitPoint{X: center.X, Y: rect.Y + rect.Height + adjacencyProbe}
	default:
		return nil, false
	}
	p, ok := leafAtPoint(t.root, probe)
	if !ok || slices.Equal(p, origin) {
		return nil, false
	}
	return p, true
}

// AdjacentWindow returns the window next to window in direction.
func (t *TreeEngine) AdjacentWindow(window platform.WindowHandle, direction geometry.Direction) (platform.WindowHandle, bool) {
	p, ok := findLeaf(t.root, window)
	if !ok {
		return 0, false
	}
	adj, ok := t.adjacent(p, direction)
	if !ok {
		return 0, false
	}
	return nodeAt(t.root, adj).(*leafNode).window, true
}

func (t *TreeEngine) SwapWindowInDirection(direction geometry.Direction, window platform.WindowHandle) Engine {
	p, ok := findLeaf(t.root, window)
	if !ok {
		return t
	}
	adj, ok := t.adjacent(p, direction)
	if !ok {
		return t
	}
	a := nodeAt(t.root, p).(*leafNode)
	b := nodeAt(t.root, adj).(*leafNode)
	next := t.clone()
	next.root = replaceAt(replaceAt(t.root, p, b), adj, a)
	next.focused = window
	return next
}

func (t *TreeEngine) FocusWindowInDirection(direction geometry.Direction, window platform.WindowHandle) (Engine, platform.WindowHandle, bool) {
	target, ok := t.AdjacentWindow(window, direction)
	if !ok {
		return t, 0, false
	}
	if t.focused == target {
		return t, target, true
	}
	next := t.clone()
	next.focused = target
	return next, target, true
}

// MoveWindowEdgesInDirection applies the horizontal edge with deltas.X and
// the vertical edge with deltas.Y.
func (t *TreeEngine) MoveWindowEdgesInDirection(edges geometry.Direction, deltas geometry.UnitPoint, window platform.WindowHandle) Engine {
	next := t
	for _, edge := range []geometry.Direction{geometry.DirectionLeft, geometry.DirectionRight} {
		if edges.Has(edge) {
			next = next.moveEdge(edge, deltas.X, window)
		}
	}
	for _, edge := range []geometry.Direction{geometry.DirectionUp, geometry.DirectionDown} {
		if edges.Has(edge) {
			next = next.moveEdge(edge, deltas.Y, window)
		}
	}
	return next
}

// moveEdge shifts weight between the branches of the lowest common ancestor
// of window and its neighbour. A positive delta moves the edge right or
// down.
func (t *TreeEngine) moveEdge(edge geometry.Direction, delta float64, window platform.WindowHandle) *TreeEngine {
	if delta == 0 {
		return t
	}
	p, ok := findLeaf(t.root, window)
	if !ok {
		return t
	}
	adj, ok := t.adjacent(p, edge)
	if !ok {
		return t
	}

	k := commonPrefix(p, adj)
	ancestorPath := p[:k]
	ancestor, ok := nodeAt(t.root, ancestorPath).(*splitNode)
	if !ok || ancestor.direction.IsHorizontal() != edge.IsHorizontal() {
		return t
	}
	rect := rectAt(t.root, ancestorPath)
	extent := rect.Width
	if ancestor.direction == geometry.DirectionDown {
		extent = rect.Height
	}
	if extent <= 0 {
		return t
	}

	growth := delta
	if edge == geometry.DirectionLeft || edge == geometry.DirectionUp {
		growth = -delta
	}
	weights := ancestor.explicitWeights()
	fi, ai := p[k], adj[k]
	d := growth / extent
	d = math.Max(-maxWeightDelta, math.Min(maxWeightDelta, d))
	d = math.Max(d, -weights[fi])
	d = math.Min(d, weights[ai])
	if d == 0 {
		return t
	}
	weights[fi] += d
	weights[ai] -= d

	updated := *ancestor
	updated.equalWeight = false
	updated.weights = weights
	next := t.clone()
	next.root = replaceAt(t.root, ancestorPath, &updated)
	return next
}

// MinimizeWindowStart detaches window and remembers a neighbour so it can
// return to roughly the same place.
func (t *TreeEngine) MinimizeWindowStart(window platform.WindowHandle) Engine {
	if t.minimizedIndex(window) >= 0 {
		return t
	}
	slot := treeMinimized{window: window, direction: t.addDirection}
	base := t
	if p, ok := findLeaf(t.root, window); ok && len(p) > 0 {
		parent := nodeAt(t.root, p[:len(p)-1]).(*splitNode)
		idx := p[len(p)-1]
		sibling := idx - 1
		slot.direction = parent.direction
		if sibling < 0 {
			sibling = 1
			slot.direction = parent.direction.Opposite()
		}
		siblingPath := append(slices.Clone(p[:len(p)-1]), sibling)
		if w, ok := firstWindow(nodeAt(t.root, siblingPath)); ok {
			slot.anchor = w
		}
	}
	if _, ok := findLeaf(t.root, window); ok {
		base = t.RemoveWindow(window).(*TreeEngine)
	}
	next := base.clone()
	next.minimized = append(slices.Clone(base.minimized), slot)
	return next
}

func firstWindow(n node) (platform.WindowHandle, bool) {
	var out platform.WindowHandle
	found := false
	leaves(n, func(_ path, leaf *leafNode, _ geometry.UnitRect) bool {
		if !leaf.phantom {
			out, found = leaf.window, true
			return false
		}
		return true
	})
	return out, found
}

func (t *TreeEngine) MinimizeWindowEnd(window platform.WindowHandle) Engine {
	i := t.minimizedIndex(window)
	if i < 0 {
		return t.AddWindow(window)
	}
	slot := t.minimized[i]
	base := t.clone()
	base.minimized = slices.Delete(slices.Clone(t.minimized), i, i+1)
	if slot.anchor != 0 {
		if p, ok := findLeaf(base.root, slot.anchor); ok {
			return base.insert(&leafNode{window: window}, p, slot.direction)
		}
	}
	return base.insert(&leafNode{window: window}, base.anchorPath(), base.addDirection)
}

func (t *TreeEngine) PerformCustomAction(action CustomAction) Engine {
	switch action.Name {
	case TreeActionSetAddDirection:
		dir, ok := action.Payload.(geometry.Direction)
		if !ok || (!dir.IsHorizontal() && !dir.IsVertical()) || dir == t.addDirection {
			return t
		}
		next := t.clone()
		next.addDirection = dir
		return next
	case TreeActionAddPhantom:
		if action.Window == 0 {
			return t
		}
		if _, ok := findLeaf(t.root, action.Window); ok {
			return t
		}
		return t.insert(&leafNode{window: action.Window, phantom: true}, t.anchorPath(), t.addDirection)
	case TreeActionRemovePhantom:
		return t.remove(action.Window, true)
	}
	return t
}

func (t *TreeEngine) DoLayout(area geometry.Rect, monitor platform.Monitor) iter.Seq[WindowState] {
	return func(yield func(WindowState) bool) {
		stopped := false
		leaves(t.root, func(_ path, leaf *leafNode, rect geometry.UnitRect) bool {
			if !yield(WindowState{
				Window:  leaf.window,
				Rect:    geometry.FromUnitRect(area, rect),
				Size:    SizeNormal,
				Phantom: leaf.phantom,
			}) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
		for _, m := range t.minimized {
			if !yield(WindowState{Window: m.window, Rect: area, Size: SizeMinimized}) {
				return
			}
		}
	}
}
