package x11

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/whim/internal/geometry"
)

// Window is a managed top-level client as seen through EWMH.
type Window struct {
	ID     xproto.Window
	PID    int
	Class  string
	Title  string
	Bounds geometry.Rect
	Hidden bool
}

// ClientWindows returns the normal windows in _NET_CLIENT_LIST, in mapping
// order.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to read client list: %w", err)
	}
	out := clients[:0:0]
	for _, win := range clients {
		if c.IsNormalWindow(win) {
			out = append(out, win)
		}
	}
	return out, nil
}

// Describe reads the properties and geometry of a client window.
func (c *Connection) Describe(win xproto.Window) (Window, error) {
	bounds, err := c.windowRect(win)
	if err != nil {
		return Window{}, err
	}
	w := Window{
		ID:     win,
		Class:  c.windowClass(win),
		Title:  c.windowTitle(win),
		Bounds: bounds,
		Hidden: c.IsHidden(win),
	}
	if pid, err := ewmh.WmPidGet(c.XUtil, win); err == nil {
		w.PID = int(pid)
	}
	return w, nil
}

// MoveResizeWindow drops any maximized state and moves the window, preferring
// the window manager's _NET_MOVERESIZE_WINDOW.
func (c *Connection) MoveResizeWindow(win xproto.Window, r geometry.Rect) {
	c.unmaximizeWindow(win)
	if err := ewmh.MoveresizeWindow(c.XUtil, win, r.X, r.Y, r.Width, r.Height); err != nil {
		xwindow.New(c.XUtil, win).MoveResize(r.X, r.Y, r.Width, r.Height)
	}
}

// MaximizeWindow sets both maximized states.
func (c *Connection) MaximizeWindow(win xproto.Window) error {
	return ewmh.WmStateReqExtra(c.XUtil, win, ewmh.StateAdd,
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 2)
}

func (c *Connection) unmaximizeWindow(win xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return
	}
	for _, state := range []string{"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT"} {
		if slices.Contains(states, state) {
			ewmh.WmStateReq(c.XUtil, win, ewmh.StateRemove, state)
		}
	}
}

// Iconify asks the window manager to minimize win via WM_CHANGE_STATE.
func (c *Connection) Iconify(win xproto.Window) error {
	return c.sendClientMessage(win, "WM_CHANGE_STATE", icccm.StateIconic)
}

// Restore maps an iconified window again.
func (c *Connection) Restore(win xproto.Window) {
	if c.IsHidden(win) {
		xwindow.New(c.XUtil, win).Map()
	}
}

// ActivateWindow raises and focuses win using _NET_ACTIVE_WINDOW.
func (c *Connection) ActivateWindow(win xproto.Window) error {
	const sourceIndication = 2 // pager/direct action
	return c.sendClientMessage(win, "_NET_ACTIVE_WINDOW", sourceIndication)
}

// CloseWindow requests a graceful close via WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(win xproto.Window) error {
	deleteAtom, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocols, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		win,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// ActiveWindow returns _NET_ACTIVE_WINDOW, zero when nothing is focused.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// IsHidden reports whether the window carries _NET_WM_STATE_HIDDEN.
func (c *Connection) IsHidden(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return false
	}
	return slices.Contains(states, "_NET_WM_STATE_HIDDEN")
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

func (c *Connection) windowRect(win xproto.Window) (geometry.Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("get geometry of 0x%x: %w", win, err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("translate coordinates of 0x%x: %w", win, err)
	}
	return geometry.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// windowClass returns the WM_CLASS instance, which is usually the executable
// name, falling back to the class.
func (c *Connection) windowClass(win xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return ""
	}
	if instance := strings.TrimSpace(wmClass.Instance); instance != "" {
		return instance
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
