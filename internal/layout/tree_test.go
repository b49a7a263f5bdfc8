package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

func newTree(windows ...platform.WindowHandle) *TreeEngine {
	return addAll(NewTreeEngine(NewIdentity(), "", geometry.DirectionRight), windows...).(*TreeEngine)
}

// checkTree asserts the structural invariants on every split.
func checkTree(t *testing.T, n node) {
	t.Helper()
	s, ok := n.(*splitNode)
	if !ok {
		return
	}
	if len(s.children) < 2 {
		t.Fatalf("split with %d children", len(s.children))
	}
	if !s.equalWeight && len(s.weights) != len(s.children) {
		t.Fatalf("weights/children length mismatch: %d vs %d", len(s.weights), len(s.children))
	}
	sum := 0.0
	for i := range s.children {
		w := s.weight(i)
		if w < 0 {
			t.Fatalf("negative weight %v", w)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("weights sum to %v", sum)
	}
	for _, child := range s.children {
		checkTree(t, child)
	}
}

func approxRect(a, b geometry.UnitRect) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Width-b.Width) < eps && math.Abs(a.Height-b.Height) < eps
}

func TestTreeEngine_AdjacencySymmetry(t *testing.T) {
	tree := newTree(1, 2)

	if got, ok := tree.AdjacentWindow(1, geometry.DirectionRight); !ok || got != 2 {
		t.Fatalf("adjacent(1, right) = %v ok=%v, want 2", got, ok)
	}
	if got, ok := tree.AdjacentWindow(2, geometry.DirectionLeft); !ok || got != 1 {
		t.Fatalf("adjacent(2, left) = %v ok=%v, want 1", got, ok)
	}
	if _, ok := tree.AdjacentWindow(1, geometry.DirectionLeft); ok {
		t.Fatalf("expected no neighbour left of 1")
	}
	if _, ok := tree.AdjacentWindow(1, geometry.DirectionUp); ok {
		t.Fatalf("expected no neighbour above 1")
	}
}

func TestTreeEngine_InsertAppendsOrWraps(t *testing.T) {
	tree := newTree(1, 2, 3)
	checkTree(t, tree.root)

	states := layoutOf(tree, geometry.Rect{Width: 1200, Height: 800})
	for i, state := range states {
		want := geometry.Rect{X: i * 400, Y: 0, Width: 400, Height: 800}
		if state.Rect != want {
			t.Fatalf("window %v rect = %+v, want %+v", state.Window, state.Rect, want)
		}
	}

	down := tree.PerformCustomAction(CustomAction{Name: TreeActionSetAddDirection, Payload: geometry.DirectionDown})
	wrapped := down.AddWindow(4).(*TreeEngine)
	checkTree(t, wrapped.root)

	rect, ok := wrapped.WindowRect(4)
	want := geometry.UnitRect{X: 2.0 / 3, Y: 0.5, Width: 1.0 / 3, Height: 0.5}
	if !ok || !approxRect(rect, want) {
		t.Fatalf("rect(4) = %+v, want %+v", rect, want)
	}
	if len(wrapped.Weights()) != 3 {
		t.Fatalf("expected root to keep 3 children, got %v", wrapped.Weights())
	}
}

func TestTreeEngine_RemoveSplicesUnarySplit(t *testing.T) {
	tree := newTree(1, 2, 3)
	down := tree.PerformCustomAction(CustomAction{Name: TreeActionSetAddDirection, Payload: geometry.DirectionDown})
	wrapped := down.AddWindow(4)

	removed := wrapped.RemoveWindow(4).(*TreeEngine)
	checkTree(t, removed.root)
	rect, _ := removed.WindowRect(3)
	if !approxRect(rect, geometry.UnitRect{X: 2.0 / 3, Y: 0, Width: 1.0 / 3, Height: 1}) {
		t.Fatalf("expected 3 to fill its column again, got %+v", rect)
	}

	single := newTree(1, 2).RemoveWindow(2).(*TreeEngine)
	if _, ok := single.root.(*leafNode); !ok {
		t.Fatalf("expected a lone leaf at the root, got %T", single.root)
	}
	if single.RemoveWindow(2) != single {
		t.Fatalf("removing an absent window should be a no-op")
	}
}

func TestTreeEngine_EdgeResizeConservesWeight(t *testing.T) {
	tree := newTree(1, 2)

	resized := tree.MoveWindowEdgesInDirection(geometry.DirectionRight, geometry.UnitPoint{X: 0.1}, 1).(*TreeEngine)
	if diff := cmp.Diff([]float64{0.6, 0.4}, resized.Weights(), cmpApprox); diff != "" {
		t.Fatalf("weights mismatch (-want +got):\n%s", diff)
	}
	checkTree(t, resized.root)

	clamped := tree.MoveWindowEdgesInDirection(geometry.DirectionRight, geometry.UnitPoint{X: 0.9}, 1).(*TreeEngine)
	if diff := cmp.Diff([]float64{1, 0}, clamped.Weights(), cmpApprox); diff != "" {
		t.Fatalf("clamped weights mismatch (-want +got):\n%s", diff)
	}
	checkTree(t, clamped.root)

	if tree.MoveWindowEdgesInDirection(geometry.DirectionLeft, geometry.UnitPoint{X: 0.1}, 1) != tree {
		t.Fatalf("moving the outer edge should be a no-op")
	}

	shrunk := tree.MoveWindowEdgesInDirection(geometry.DirectionLeft, geometry.UnitPoint{X: 0.1}, 2).(*TreeEngine)
	if diff := cmp.Diff([]float64{0.6, 0.4}, shrunk.Weights(), cmpApprox); diff != "" {
		t.Fatalf("left edge of 2 moved right should shrink it (-want +got):\n%s", diff)
	}
}

var cmpApprox = cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })

func TestTreeEngine_ExplicitWeightsOnAddAndRemove(t *testing.T) {
	tree := newTree(1, 2).
		MoveWindowEdgesInDirection(geometry.DirectionRight, geometry.UnitPoint{X: 0.1}, 1).
		AddWindow(3).(*TreeEngine)
	if diff := cmp.Diff([]float64{0.6, 0.2, 0.2}, tree.Weights(), cmpApprox); diff != "" {
		t.Fatalf("add weights mismatch (-want +got):\n%s", diff)
	}

	removed := tree.RemoveWindow(1).(*TreeEngine)
	if diff := cmp.Diff([]float64{0.2, 0.8}, removed.Weights(), cmpApprox); diff != "" {
		t.Fatalf("remove weights mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeEngine_WeightConservationOverSequence(t *testing.T) {
	var engine Engine = newTree(1, 2, 3)
	steps := []func(Engine) Engine{
		func(e Engine) Engine {
			return e.MoveWindowEdgesInDirection(geometry.DirectionRight, geometry.UnitPoint{X: 0.05}, 1)
		},
		func(e Engine) Engine {
			return e.PerformCustomAction(CustomAction{Name: TreeActionSetAddDirection, Payload: geometry.DirectionDown})
		},
		func(e Engine) Engine { return e.AddWindow(4) },
		func(e Engine) Engine {
			return e.MoveWindowEdgesInDirection(geometry.DirectionUp, geometry.UnitPoint{Y: 0.2}, 4)
		},
		func(e Engine) Engine { return e.AddWindow(5) },
		func(e Engine) Engine {
			return e.MoveWindowEdgesInDirection(geometry.DirectionLeftDown, geometry.UnitPoint{X: -0.3, Y: 0.1}, 2)
		},
		func(e Engine) Engine { return e.RemoveWindow(3) },
		func(e Engine) Engine { return e.RemoveWindow(1) },
		func(e Engine) Engine { return e.AddWindow(6) },
		func(e Engine) Engine {
			return e.MoveWindowEdgesInDirection(geometry.DirectionRight, geometry.UnitPoint{X: 0.7}, 6)
		},
	}
	for i, step := range steps {
		engine = step(engine)
		checkTree(t, engine.(*TreeEngine).root)
		if engine.Count() == 0 {
			t.Fatalf("step %d emptied the tree", i)
		}
	}
}

func TestTreeEngine_SwapAndFocus(t *testing.T) {
	tree := newTree(1, 2)

	swapped := tree.SwapWindowInDirection(geometry.DirectionRight, 1)
	if diff := cmp.Diff([]platform.WindowHandle{2, 1}, swapped.Windows()); diff != "" {
		t.Fatalf("swap mismatch (-want +got):\n%s", diff)
	}
	if tree.SwapWindowInDirection(geometry.DirectionLeft, 1) != tree {
		t.Fatalf("swap at the boundary should be a no-op")
	}

	focused, target, ok := tree.FocusWindowInDirection(geometry.DirectionLeft, 2)
	if !ok || target != 1 {
		t.Fatalf("expected focus on 1, got %v ok=%v", target, ok)
	}
	if focused.(*TreeEngine).Focused() != 1 {
		t.Fatalf("focus pointer not updated")
	}
	if diff := cmp.Diff(tree.Windows(), focused.Windows()); diff != "" {
		t.Fatalf("focus changed structure (-want +got):\n%s", diff)
	}
}

func TestTreeEngine_MoveWindowToPoint(t *testing.T) {
	tree := newTree(1, 2)

	moved := tree.MoveWindowToPoint(1, geometry.UnitPoint{X: 0.9, Y: 0.5})
	if diff := cmp.Diff([]platform.WindowHandle{2, 1}, moved.Windows()); diff != "" {
		t.Fatalf("move mismatch (-want +got):\n%s", diff)
	}
	if tree.MoveWindowToPoint(1, geometry.UnitPoint{X: 0.1, Y: 0.5}) != tree {
		t.Fatalf("moving into its own slot should be a no-op")
	}
}

func TestTreeEngine_MinimizeRoundTrip(t *testing.T) {
	tree := newTree(1, 2, 3)

	minimized := tree.MinimizeWindowStart(2)
	states := layoutOf(minimized, geometry.Rect{Width: 100, Height: 100})
	if last := states[len(states)-1]; last.Window != 2 || last.Size != SizeMinimized {
		t.Fatalf("expected 2 minimized, got %+v", last)
	}
	if !minimized.ContainsWindow(2) {
		t.Fatalf("minimized window must still be tracked")
	}

	restored := minimized.MinimizeWindowEnd(2)
	if diff := cmp.Diff([]platform.WindowHandle{1, 2, 3}, restored.Windows()); diff != "" {
		t.Fatalf("restore mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeEngine_Phantoms(t *testing.T) {
	tree := newTree(1)
	withPhantom := tree.PerformCustomAction(CustomAction{Name: TreeActionAddPhantom, Window: 99})

	if diff := cmp.Diff([]platform.WindowHandle{99}, PhantomsOf(withPhantom)); diff != "" {
		t.Fatalf("phantoms mismatch (-want +got):\n%s", diff)
	}
	if withPhantom.ContainsWindow(99) || withPhantom.Count() != 1 {
		t.Fatalf("phantom must not count as a window")
	}
	states := layoutOf(withPhantom, geometry.Rect{Width: 100, Height: 100})
	if len(states) != 2 || !states[1].Phantom || states[1].Rect.Width != 50 {
		t.Fatalf("unexpected phantom layout %+v", states)
	}
	if withPhantom.RemoveWindow(99) != withPhantom {
		t.Fatalf("RemoveWindow must not drop phantoms")
	}
	for _, point := range []geometry.UnitPoint{{X: 0.1, Y: 0.5}, {X: 0.9, Y: 0.5}} {
		if moved := withPhantom.MoveWindowToPoint(99, point); moved != withPhantom {
			t.Fatalf("moving phantom to %+v changed the tree; phantoms %v, windows %v",
				point, PhantomsOf(moved), moved.Windows())
		}
	}
	cleared := withPhantom.PerformCustomAction(CustomAction{Name: TreeActionRemovePhantom, Window: 99})
	if len(PhantomsOf(cleared)) != 0 {
		t.Fatalf("phantom not removed")
	}
}

func TestTreeEngine_LayoutIsDeterministic(t *testing.T) {
	tree := newTree(1, 2, 3).MoveWindowEdgesInDirection(geometry.DirectionRight, geometry.UnitPoint{X: 0.13}, 2)
	area := geometry.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}
	if diff := cmp.Diff(layoutOf(tree, area), layoutOf(tree, area)); diff != "" {
		t.Fatalf("layout not deterministic:\n%s", diff)
	}
}
