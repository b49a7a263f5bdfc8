package layout

import (
	"testing"

	"github.com/1broseidon/whim/internal/geometry"
)

func TestFocusEngine_OnlyFocusedWindowVisible(t *testing.T) {
	engine := addAll(NewFocusEngine(NewIdentity(), "", false), 1, 2, 3)
	area := geometry.Rect{Width: 800, Height: 600}

	for _, state := range layoutOf(engine, area) {
		want := SizeMinimized
		if state.Window == 3 {
			want = SizeNormal
		}
		if state.Size != want {
			t.Errorf("window %v size = %v, want %v", state.Window, state.Size, want)
		}
		if state.Rect != area {
			t.Errorf("window %v rect = %+v, want full area", state.Window, state.Rect)
		}
	}
}

func TestFocusEngine_FocusChangesIndexOnly(t *testing.T) {
	engine := addAll(NewFocusEngine(NewIdentity(), "", false), 1, 2, 3)

	next, target, ok := engine.FocusWindowInDirection(geometry.DirectionLeft, 3)
	if !ok || target != 2 {
		t.Fatalf("expected focus on 2, got %v ok=%v", target, ok)
	}
	focused, _ := next.(*FocusEngine).Focused()
	if focused != 2 {
		t.Fatalf("expected focused window 2, got %v", focused)
	}
	if got := next.Windows(); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("focus must not reorder, got %v", got)
	}
}

func TestFocusEngine_SwapKeepsFocusedIndex(t *testing.T) {
	engine := addAll(NewFocusEngine(NewIdentity(), "", false), 1, 2, 3)

	swapped := engine.SwapWindowInDirection(geometry.DirectionLeft, 3).(*FocusEngine)
	if got := swapped.Windows(); got[1] != 3 || got[2] != 2 {
		t.Fatalf("expected [1 3 2], got %v", got)
	}
	if focused, _ := swapped.Focused(); focused != 2 {
		t.Fatalf("expected index 2 to stay focused (now window 2), got %v", focused)
	}
}

func TestFocusEngine_ToggleMaximized(t *testing.T) {
	engine := addAll(NewFocusEngine(NewIdentity(), "", false), 1)
	maximized := engine.PerformCustomAction(CustomAction{Name: FocusActionToggleMaximized})
	states := layoutOf(maximized, geometry.Rect{Width: 10, Height: 10})
	if states[0].Size != SizeMaximized {
		t.Fatalf("expected maximized, got %v", states[0].Size)
	}
}

func TestFocusEngine_RemoveClampsFocus(t *testing.T) {
	engine := addAll(NewFocusEngine(NewIdentity(), "", false), 1, 2, 3)
	next := engine.RemoveWindow(3).(*FocusEngine)
	if focused, ok := next.Focused(); !ok || focused != 2 {
		t.Fatalf("expected focus to fall back to 2, got %v ok=%v", focused, ok)
	}
}

func TestFreeEngine_DefaultRectAndEdges(t *testing.T) {
	engine := addAll(NewFreeEngine(NewIdentity(), ""), 1)
	area := geometry.Rect{Width: 1000, Height: 1000}

	states := layoutOf(engine, area)
	want := geometry.Rect{X: 250, Y: 250, Width: 500, Height: 500}
	if states[0].Rect != want {
		t.Fatalf("rect = %+v, want %+v", states[0].Rect, want)
	}

	grown := engine.MoveWindowEdgesInDirection(geometry.DirectionRight, geometry.UnitPoint{X: 0.1}, 1)
	rect, _ := grown.(*FreeEngine).WindowRect(1)
	if rect.Width < 0.599 || rect.Width > 0.601 {
		t.Fatalf("expected width 0.6, got %v", rect.Width)
	}
}

func TestFreeEngine_SetRectAndDirectionalFocus(t *testing.T) {
	engine := addAll(NewFreeEngine(NewIdentity(), ""), 1, 2)
	engine = engine.PerformCustomAction(CustomAction{
		Name:    FreeActionSetWindowRect,
		Window:  1,
		Payload: geometry.UnitRect{X: 0, Y: 0, Width: 0.4, Height: 1},
	})
	engine = engine.PerformCustomAction(CustomAction{
		Name:    FreeActionSetWindowRect,
		Window:  2,
		Payload: geometry.UnitRect{X: 0.5, Y: 0, Width: 0.5, Height: 1},
	})

	same := engine.PerformCustomAction(CustomAction{
		Name:    FreeActionSetWindowRect,
		Window:  2,
		Payload: geometry.UnitRect{X: 0.5, Y: 0, Width: 0.5, Height: 1},
	})
	if same != engine {
		t.Fatalf("setting the same rect should be a no-op")
	}

	_, target, ok := engine.FocusWindowInDirection(geometry.DirectionRight, 1)
	if !ok || target != 2 {
		t.Fatalf("expected focus right to reach 2, got %v ok=%v", target, ok)
	}
	if _, _, ok := engine.FocusWindowInDirection(geometry.DirectionLeft, 1); ok {
		t.Fatalf("expected nothing to the left of 1")
	}
}
