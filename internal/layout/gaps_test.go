package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/whim/internal/geometry"
)

func TestGapsEngine_InsetsAreaAndWindows(t *testing.T) {
	engine := Build(ColumnCreator("", true), []ProxyCreator{GapsProxy(Gaps{Outer: 10, Inner: 5})})
	engine = addAll(engine, 1, 2)

	got := layoutOf(engine, geometry.Rect{Width: 1000, Height: 500})
	want := []WindowState{
		{Window: 1, Rect: geometry.Rect{X: 15, Y: 15, Width: 480, Height: 470}},
		{Window: 2, Rect: geometry.Rect{X: 505, Y: 15, Width: 480, Height: 470}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestGapsEngine_PreservesNoOpsAndIdentity(t *testing.T) {
	engine := addAll(Build(TreeCreator("", geometry.DirectionRight), []ProxyCreator{GapsProxy(Gaps{Inner: 4})}), 1)

	if engine.AddWindow(1) != engine {
		t.Fatalf("proxy must return itself when the inner engine did not change")
	}
	if engine.Identity() != Innermost(engine).Identity() {
		t.Fatalf("proxy identity should be the inner identity")
	}
	if _, ok := Innermost(engine).(*TreeEngine); !ok {
		t.Fatalf("expected innermost tree engine, got %T", Innermost(engine))
	}

	phantom := engine.PerformCustomAction(CustomAction{Name: TreeActionAddPhantom, Window: 7})
	if got := PhantomsOf(phantom); len(got) != 1 || got[0] != 7 {
		t.Fatalf("expected phantom 7 through the proxy, got %v", got)
	}

	regapped := engine.PerformCustomAction(CustomAction{Name: GapsActionSet, Payload: Gaps{Inner: 8}})
	if regapped.(*GapsEngine).Gaps().Inner != 8 {
		t.Fatalf("gaps not updated")
	}
	if regapped.PerformCustomAction(CustomAction{Name: GapsActionSet, Payload: Gaps{Inner: 8}}) != regapped {
		t.Fatalf("setting identical gaps should be a no-op")
	}
}
