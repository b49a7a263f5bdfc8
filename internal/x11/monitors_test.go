package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/whim/internal/geometry"
)

func TestStrutSetApply(t *testing.T) {
	const rootW, rootH = 3840, 1080
	left := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	// A 30px top panel spanning only the left monitor and a 40px bottom
	// panel spanning both.
	struts := strutSet(append(
		partialAreas(&ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}, rootW, rootH),
		partialAreas(&ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 0, BottomEndX: rootW - 1}, rootW, rootH)...,
	))

	tests := []struct {
		name   string
		bounds geometry.Rect
		want   geometry.Rect
	}{
		{"left", left, geometry.Rect{X: 0, Y: 30, Width: 1920, Height: 1010}},
		{"right", right, geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1040}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := struts.apply(tt.bounds); got != tt.want {
				t.Fatalf("apply(%+v) = %+v, want %+v", tt.bounds, got, tt.want)
			}
		})
	}
}

func TestPartialAreas_SideStruts(t *testing.T) {
	areas := partialAreas(&ewmh.WmStrutPartial{
		Left:        50,
		LeftEndY:    99,
		Right:       20,
		RightStartY: 10,
		RightEndY:   19,
	}, 1000, 100)
	if len(areas) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(areas))
	}
	if want := (geometry.Rect{X: 0, Y: 0, Width: 50, Height: 100}); areas[0].rect != want {
		t.Errorf("left strut = %+v, want %+v", areas[0].rect, want)
	}
	if want := (geometry.Rect{X: 980, Y: 10, Width: 20, Height: 10}); areas[1].rect != want {
		t.Errorf("right strut = %+v, want %+v", areas[1].rect, want)
	}
}

func TestIntersect_Disjoint(t *testing.T) {
	a := geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := geometry.Rect{X: 10, Y: 0, Width: 10, Height: 10}
	if got := intersect(a, b); !got.Empty() {
		t.Fatalf("expected empty intersection, got %+v", got)
	}
}
