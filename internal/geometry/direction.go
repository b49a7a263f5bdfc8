package geometry

import (
	"fmt"
	"strings"
)

// Direction is a set of edges. Single values name a navigation direction;
// combinations (LeftUp, RightDown, ...) name corners for edge resizing.
type Direction uint8

const (
	DirectionNone  Direction = 0
	DirectionLeft  Direction = 1 << 0
	DirectionRight Direction = 1 << 1
	DirectionUp    Direction = 1 << 2
	DirectionDown  Direction = 1 << 3

	DirectionLeftUp    = DirectionLeft | DirectionUp
	DirectionLeftDown  = DirectionLeft | DirectionDown
	DirectionRightUp   = DirectionRight | DirectionUp
	DirectionRightDown = DirectionRight | DirectionDown
)

var directionNames = []struct {
	dir  Direction
	name string
}{
	{DirectionLeft, "left"},
	{DirectionRight, "right"},
	{DirectionUp, "up"},
	{DirectionDown, "down"},
}

// Has reports whether every edge in other is set on d.
func (d Direction) Has(other Direction) bool {
	return other != DirectionNone && d&other == other
}

// IsHorizontal reports whether d is exactly Left or Right.
func (d Direction) IsHorizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}

// IsVertical reports whether d is exactly Up or Down.
func (d Direction) IsVertical() bool {
	return d == DirectionUp || d == DirectionDown
}

// Opposite flips every edge in d.
func (d Direction) Opposite() Direction {
	var out Direction
	if d.Has(DirectionLeft) {
		out |= DirectionRight
	}
	if d.Has(DirectionRight) {
		out |= DirectionLeft
	}
	if d.Has(DirectionUp) {
		out |= DirectionDown
	}
	if d.Has(DirectionDown) {
		out |= DirectionUp
	}
	return out
}

func (d Direction) String() string {
	if d == DirectionNone {
		return "none"
	}
	var parts []string
	for _, dn := range directionNames {
		if d.Has(dn.dir) {
			parts = append(parts, dn.name)
		}
	}
	return strings.Join(parts, "-")
}

// ParseDirection parses names such as "left", "down" or "right-up".
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DirectionNone, fmt.Errorf("direction is empty")
	}
	var out Direction
	for _, part := range strings.Split(s, "-") {
		found := false
		for _, dn := range directionNames {
			if dn.name == part {
				out |= dn.dir
				found = true
				break
			}
		}
		if !found {
			return DirectionNone, fmt.Errorf("unknown direction %q", part)
		}
	}
	if out.Has(DirectionLeft|DirectionRight) || out.Has(DirectionUp|DirectionDown) {
		return DirectionNone, fmt.Errorf("direction %q names opposite edges", s)
	}
	return out, nil
}
