package movemode

import "github.com/1broseidon/whim/internal/geometry"

// Border colors
const (
	ColorSelection = 0x3498db // blue, focused window while selecting
	ColorGrabbed   = 0x27ae60 // green, grabbed window
)

const (
	hintMargin     = 12
	hintPaddingX   = 10
	hintPaddingY   = 8
	hintLineHeight = 16
	hintCharWidth  = 7
	hintMinWidth   = 220
)

func hintLines(phase Phase) []string {
	switch phase {
	case PhaseSelecting:
		return []string{
			"Move Mode: select window",
			"Arrows        focus neighbour",
			"Shift+Arrows  grow edge",
			"Ctrl+Arrows   shrink edge",
			"Enter         grab focused",
			"Esc           exit",
		}
	case PhaseGrabbed:
		return []string{
			"Move Mode: window grabbed",
			"Arrows        swap with neighbour",
			"Shift+Arrows  grow edge",
			"Ctrl+Arrows   shrink edge",
			"Enter/Esc     done",
		}
	default:
		return nil
	}
}

func hintDimensions(lines []string) (width, height int) {
	maxChars := 0
	for _, line := range lines {
		maxChars = max(maxChars, len(line))
	}
	width = max(maxChars*hintCharWidth+2*hintPaddingX, hintMinWidth)
	height = len(lines)*hintLineHeight + 2*hintPaddingY
	return width, height
}

// placeHint sizes the hint panel for lines and puts it in a corner of bounds,
// preferring one that does not cover avoid.
func placeHint(bounds, avoid geometry.Rect, lines []string) geometry.Rect {
	if len(lines) == 0 || bounds.Empty() {
		return geometry.Rect{}
	}
	width, height := hintDimensions(lines)

	maxWidth := bounds.Width - 2*hintMargin
	if maxWidth < 1 {
		maxWidth = bounds.Width
	}
	maxHeight := bounds.Height - 2*hintMargin
	if maxHeight < 1 {
		maxHeight = bounds.Height
	}
	width = max(min(width, maxWidth), 1)
	height = max(min(height, maxHeight), 1)

	x, y := chooseHintPosition(bounds, []geometry.Rect{avoid}, width, height)
	return geometry.Rect{X: x, Y: y, Width: width, Height: height}
}

func chooseHintPosition(bounds geometry.Rect, avoidRects []geometry.Rect, width, height int) (int, int) {
	width = max(width, 1)
	height = max(height, 1)

	left := bounds.X + hintMargin
	right := max(bounds.X+bounds.Width-hintMargin-width, left)
	top := bounds.Y + hintMargin
	bottom := max(bounds.Y+bounds.Height-hintMargin-height, top)

	candidates := []geometry.Rect{
		{X: right, Y: top, Width: width, Height: height},
		{X: left, Y: top, Width: width, Height: height},
		{X: right, Y: bottom, Width: width, Height: height},
		{X: left, Y: bottom, Width: width, Height: height},
	}

	for _, candidate := range candidates {
		covers := false
		for _, avoid := range avoidRects {
			if rectsIntersect(candidate, avoid) {
				covers = true
				break
			}
		}
		if !covers {
			return clampHintOrigin(candidate.X, candidate.Y, bounds, width, height)
		}
	}

	// Every corner overlaps the highlighted window.
	return clampHintOrigin(candidates[0].X, candidates[0].Y, bounds, width, height)
}

func clampHintOrigin(x, y int, bounds geometry.Rect, width, height int) (int, int) {
	left := bounds.X + hintMargin
	right := bounds.X + bounds.Width - hintMargin - width
	if right < left {
		left = bounds.X
		right = bounds.X + bounds.Width - width
	}
	right = max(right, left)

	top := bounds.Y + hintMargin
	bottom := bounds.Y + bounds.Height - hintMargin - height
	if bottom < top {
		top = bounds.Y
		bottom = bounds.Y + bounds.Height - height
	}
	bottom = max(bottom, top)

	return min(max(x, left), right), min(max(y, top), bottom)
}

func rectsIntersect(a, b geometry.Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}
