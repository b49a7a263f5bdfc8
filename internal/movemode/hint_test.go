package movemode

import (
	"strings"
	"testing"

	"github.com/1broseidon/whim/internal/geometry"
)

func TestHintLinesForGrabbedIncludesSwap(t *testing.T) {
	text := strings.Join(hintLines(PhaseGrabbed), "\n")
	for _, want := range []string{"swap with neighbour", "grow edge", "shrink edge"} {
		if !strings.Contains(text, want) {
			t.Fatalf("grabbed hint missing %q; got:\n%s", want, text)
		}
	}
	if hintLines(PhaseInactive) != nil {
		t.Fatalf("inactive phase should have no hint")
	}
}

func TestChooseHintPositionAvoidsOverlapWhenPossible(t *testing.T) {
	bounds := geometry.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	width, height := 220, 80

	// Occupy top-right so placement should choose another corner.
	avoid := []geometry.Rect{{X: 568, Y: 12, Width: 220, Height: 80}}
	x, y := chooseHintPosition(bounds, avoid, width, height)
	got := geometry.Rect{X: x, Y: y, Width: width, Height: height}

	if rectsIntersect(got, avoid[0]) {
		t.Fatalf("hint overlaps avoid rect: got=%+v avoid=%+v", got, avoid[0])
	}
	if got.X < bounds.X || got.Y < bounds.Y {
		t.Fatalf("hint escaped upper bounds: got=%+v bounds=%+v", got, bounds)
	}
	if got.X+got.Width > bounds.X+bounds.Width || got.Y+got.Height > bounds.Y+bounds.Height {
		t.Fatalf("hint escaped lower bounds: got=%+v bounds=%+v", got, bounds)
	}
}

func TestChooseHintPositionClampsOversizedHintToBoundsOrigin(t *testing.T) {
	bounds := geometry.Rect{X: 100, Y: 200, Width: 140, Height: 90}
	x, y := chooseHintPosition(bounds, nil, 260, 160)

	if x != bounds.X || y != bounds.Y {
		t.Fatalf("expected oversized hint to clamp to bounds origin (%d,%d), got (%d,%d)", bounds.X, bounds.Y, x, y)
	}
}

func TestPlaceHintFitsInsideBounds(t *testing.T) {
	bounds := geometry.Rect{X: 1920, Y: 0, Width: 200, Height: 100}
	got := placeHint(bounds, geometry.Rect{}, hintLines(PhaseSelecting))

	if got.Width > bounds.Width || got.Height > bounds.Height {
		t.Fatalf("hint %+v larger than bounds %+v", got, bounds)
	}
	if got.X < bounds.X || got.Y < bounds.Y {
		t.Fatalf("hint %+v outside bounds %+v", got, bounds)
	}
	if !placeHint(bounds, geometry.Rect{}, nil).Empty() {
		t.Fatalf("no lines should give an empty hint")
	}
}
