package geometry

import (
	"math"
	"testing"
)

func TestUnitRectRoundTrip(t *testing.T) {
	area := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	r := Rect{X: 2400, Y: 270, Width: 960, Height: 540}

	unit := ToUnitRect(area, r)
	if math.Abs(unit.X-0.25) > 1e-9 || math.Abs(unit.Width-0.5) > 1e-9 {
		t.Fatalf("unexpected unit rect %+v", unit)
	}

	back := FromUnitRect(area, unit)
	if back != r {
		t.Fatalf("round trip = %+v, want %+v", back, r)
	}
}

func TestFromUnitRectAdjacentRectsShareEdges(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 1000, Height: 100}
	third := 1.0 / 3
	a := FromUnitRect(area, UnitRect{X: 0, Y: 0, Width: third, Height: 1})
	b := FromUnitRect(area, UnitRect{X: third, Y: 0, Width: third, Height: 1})
	c := FromUnitRect(area, UnitRect{X: 2 * third, Y: 0, Width: third, Height: 1})

	if a.X+a.Width != b.X || b.X+b.Width != c.X {
		t.Fatalf("rects do not tile: %+v %+v %+v", a, b, c)
	}
	if c.X+c.Width != 1000 {
		t.Fatalf("last rect ends at %d, want 1000", c.X+c.Width)
	}
}

func TestToUnitPointEmptyArea(t *testing.T) {
	if got := ToUnitPoint(Rect{}, Point{X: 5, Y: 5}); got != (UnitPoint{}) {
		t.Fatalf("expected zero point, got %+v", got)
	}
}

func TestUnitRectClamp(t *testing.T) {
	got := UnitRect{X: 0.9, Y: -0.2, Width: 0.5, Height: 0.5}.Clamp()
	want := UnitRect{X: 0.5, Y: 0, Width: 0.5, Height: 0.5}
	if got != want {
		t.Fatalf("Clamp() = %+v, want %+v", got, want)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"left", DirectionLeft, false},
		{"Down", DirectionDown, false},
		{"right-up", DirectionRightUp, false},
		{"left-right", DirectionNone, true},
		{"sideways", DirectionNone, true},
		{"", DirectionNone, true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	if got := DirectionLeftUp.Opposite(); got != DirectionRightDown {
		t.Fatalf("Opposite() = %v, want %v", got, DirectionRightDown)
	}
	if DirectionRight.String() != "right" {
		t.Fatalf("String() = %q", DirectionRight.String())
	}
}
