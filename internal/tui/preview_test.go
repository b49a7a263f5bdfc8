package tui

import (
	"strings"
	"testing"

	"github.com/1broseidon/whim/internal/ipc"
)

func TestRenderPreview(t *testing.T) {
	area := ipc.RectInfo{X: 1920, Y: 0, Width: 100, Height: 50}
	windows := []ipc.WindowInfo{
		{Handle: 1, Rect: &ipc.RectInfo{X: 1920, Y: 0, Width: 50, Height: 50}},
		{Handle: 2, Rect: &ipc.RectInfo{X: 1970, Y: 0, Width: 50, Height: 50}},
		{Handle: 3, Rect: &ipc.RectInfo{X: 1920, Y: 0, Width: 100, Height: 50}, Minimized: true},
		{Handle: 4},
	}

	lines := renderPreview(area, windows, 21, 7)
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}

	rows := make([][]rune, len(lines))
	for i, l := range lines {
		rows[i] = []rune(l)
		if len(rows[i]) != 21 {
			t.Fatalf("line %d has width %d", i, len(rows[i]))
		}
	}
	if rows[0][0] != '╔' || rows[6][20] != '╝' {
		t.Fatalf("expected an outer border:\n%s", strings.Join(lines, "\n"))
	}
	if rows[1][1] != '┌' || rows[5][1] != '└' {
		t.Fatalf("expected the first tile at the left edge:\n%s", strings.Join(lines, "\n"))
	}
	if rows[3][5] != '1' || rows[3][14] != '2' {
		t.Fatalf("expected tiles labelled 1 and 2:\n%s", strings.Join(lines, "\n"))
	}
	if strings.Contains(strings.Join(lines, ""), "3") {
		t.Fatalf("expected the minimized window to be left out:\n%s", strings.Join(lines, "\n"))
	}
}

func TestRenderPreview_TooSmall(t *testing.T) {
	lines := renderPreview(ipc.RectInfo{Width: 100, Height: 50}, nil, 4, 2)
	if len(lines) != 2 || lines[0] != "    " {
		t.Fatalf("expected a blank canvas, got %q", lines)
	}
	if got := renderPreview(ipc.RectInfo{}, nil, 10, 0); got != nil {
		t.Fatalf("expected no lines for zero height, got %q", got)
	}
}
