package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/whim/internal/geometry"
)

// Monitor is an enabled RandR output.
type Monitor struct {
	Output   randr.Output
	Name     string
	Bounds   geometry.Rect
	WorkArea geometry.Rect
	Primary  bool
}

// Monitors lists every enabled output with its work area. When no output is
// flagged primary the first one is.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		output := info.Outputs[0]
		name := fmt.Sprintf("output-%d", output)
		if outInfo, err := randr.GetOutputInfo(conn, output, resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outInfo.Name)
		}
		bounds := geometry.Rect{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		monitors = append(monitors, Monitor{
			Output:   output,
			Name:     name,
			Bounds:   bounds,
			WorkArea: bounds,
			Primary:  output == primary,
		})
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no enabled outputs")
	}

	if !slices.ContainsFunc(monitors, func(m Monitor) bool { return m.Primary }) {
		monitors[0].Primary = true
	}

	c.applyWorkAreas(monitors)
	return monitors, nil
}

// applyWorkAreas shrinks each monitor by the dock struts that overlap it.
// Without docks it falls back to intersecting with _NET_WORKAREA, which only
// describes the whole screen and so is less precise on multi-head setups.
func (c *Connection) applyWorkAreas(monitors []Monitor) {
	struts, ok := c.dockStruts()
	if ok {
		for i := range monitors {
			monitors[i].WorkArea = struts.apply(monitors[i].Bounds)
		}
		return
	}

	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return
	}
	desktop := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(areas) {
		desktop = int(current)
	}
	wa := areas[desktop]
	workArea := geometry.Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}
	for i := range monitors {
		if isect := intersect(monitors[i].Bounds, workArea); !isect.Empty() {
			monitors[i].WorkArea = isect
		}
	}
}

// strutArea is a reserved screen region in root coordinates.
type strutArea struct {
	rect geometry.Rect
	side geometry.Direction
}

type strutSet []strutArea

func (s strutSet) apply(bounds geometry.Rect) geometry.Rect {
	var left, right, top, bottom int
	for _, area := range s {
		isect := intersect(bounds, area.rect)
		if isect.Empty() {
			continue
		}
		switch area.side {
		case geometry.DirectionLeft:
			left = max(left, isect.Width)
		case geometry.DirectionRight:
			right = max(right, isect.Width)
		case geometry.DirectionUp:
			top = max(top, isect.Height)
		case geometry.DirectionDown:
			bottom = max(bottom, isect.Height)
		}
	}
	return geometry.Rect{
		X:      bounds.X + left,
		Y:      bounds.Y + top,
		Width:  max(bounds.Width-left-right, 1),
		Height: max(bounds.Height-top-bottom, 1),
	}
}

// dockStruts collects the reserved areas of every dock window. It reports
// false when there are none.
func (c *Connection) dockStruts() (strutSet, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, false
	}
	rootW, rootH := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, false
	}

	var set strutSet
	for _, win := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			// Some docks only set _NET_WM_STRUT.
			s, err := ewmh.WmStrutGet(c.XUtil, win)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootH - 1),
				RightEndY:  uint(rootH - 1),
				TopEndX:    uint(rootW - 1),
				BottomEndX: uint(rootW - 1),
			}
		}
		set = append(set, partialAreas(sp, rootW, rootH)...)
	}
	return set, len(set) > 0
}

func partialAreas(sp *ewmh.WmStrutPartial, rootW, rootH int) []strutArea {
	var out []strutArea
	if sp.Top > 0 {
		out = append(out, strutArea{side: geometry.DirectionUp, rect: geometry.Rect{
			X:      int(sp.TopStartX),
			Width:  int(sp.TopEndX) - int(sp.TopStartX) + 1,
			Height: int(sp.Top),
		}})
	}
	if sp.Bottom > 0 {
		out = append(out, strutArea{side: geometry.DirectionDown, rect: geometry.Rect{
			X:      int(sp.BottomStartX),
			Y:      rootH - int(sp.Bottom),
			Width:  int(sp.BottomEndX) - int(sp.BottomStartX) + 1,
			Height: int(sp.Bottom),
		}})
	}
	if sp.Left > 0 {
		out = append(out, strutArea{side: geometry.DirectionLeft, rect: geometry.Rect{
			Y:      int(sp.LeftStartY),
			Width:  int(sp.Left),
			Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1,
		}})
	}
	if sp.Right > 0 {
		out = append(out, strutArea{side: geometry.DirectionRight, rect: geometry.Rect{
			X:      rootW - int(sp.Right),
			Y:      int(sp.RightStartY),
			Width:  int(sp.Right),
			Height: int(sp.RightEndY) - int(sp.RightStartY) + 1,
		}})
	}
	return out
}

func intersect(a, b geometry.Rect) geometry.Rect {
	x1, y1 := max(a.X, b.X), max(a.Y, b.Y)
	x2, y2 := min(a.X+a.Width, b.X+b.Width), min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return geometry.Rect{}
	}
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
