package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// KeyPress is a key delivered while the keyboard is grabbed. Name is the
// keysym name ("Left", "Return", "a"); unknown keysyms have an empty name.
type KeyPress struct {
	Name    string
	Shift   bool
	Control bool
}

var keysymNames = map[xproto.Keysym]string{
	0xff51: "Left",
	0xff52: "Up",
	0xff53: "Right",
	0xff54: "Down",
	0xff0d: "Return",
	0xff8d: "KP_Enter",
	0xff1b: "Escape",
	0x0068: "h",
	0x006a: "j",
	0x006b: "k",
	0x006c: "l",
}

type keyboardGrab struct {
	mu       sync.Mutex
	window   xproto.Window
	attached bool
	onKey    func(KeyPress)
}

// GrabKeyboard takes the whole keyboard and calls onKey for every press
// until UngrabKeyboard.
func (c *Connection) GrabKeyboard(onKey func(KeyPress)) error {
	c.grab.mu.Lock()
	defer c.grab.mu.Unlock()

	xu := c.XUtil
	if err := c.ensureGrabWindow(); err != nil {
		return err
	}

	grab := func() (*xproto.GrabKeyboardReply, error) {
		return xproto.GrabKeyboard(
			xu.Conn(),
			false,
			c.Root,
			xproto.TimeCurrentTime,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
		).Reply()
	}

	reply, err := grab()
	if err != nil {
		return err
	}

	// Entered from a grabbed hotkey, the keyboard may still be held by us.
	if reply.Status == xproto.GrabStatusAlreadyGrabbed {
		xproto.UngrabKeyboard(xu.Conn(), xproto.TimeCurrentTime)
		if reply, err = grab(); err != nil {
			return err
		}
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("keyboard grab failed with status %d", reply.Status)
	}

	c.grab.onKey = onKey
	xevent.RedirectKeyEvents(xu, c.grab.window)
	if !c.grab.attached {
		xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			c.grab.mu.Lock()
			handler := c.grab.onKey
			c.grab.mu.Unlock()
			if handler == nil {
				return
			}
			handler(KeyPress{
				Name:    keysymNames[keybind.KeysymGet(xu, ev.Detail, 0)],
				Shift:   ev.State&xproto.ModMaskShift != 0,
				Control: ev.State&xproto.ModMaskControl != 0,
			})
		}).Connect(xu, c.grab.window)
		c.grab.attached = true
	}
	return nil
}

// UngrabKeyboard releases a grab taken by GrabKeyboard.
func (c *Connection) UngrabKeyboard() {
	c.grab.mu.Lock()
	defer c.grab.mu.Unlock()

	xu := c.XUtil
	xproto.UngrabKeyboard(xu.Conn(), xproto.TimeCurrentTime)
	xevent.RedirectKeyEvents(xu, 0)
	if c.grab.attached && c.grab.window != 0 {
		xevent.Detach(xu, c.grab.window)
		c.grab.attached = false
	}
	c.grab.onKey = nil
}

// ensureGrabWindow creates the InputOnly window that receives key events
// while the keyboard is grabbed.
func (c *Connection) ensureGrabWindow() error {
	if c.grab.window != 0 {
		return nil
	}
	conn := c.XUtil.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return err
	}
	err = xproto.CreateWindowChecked(
		conn,
		0,
		wid,
		c.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOnly,
		xproto.Visualid(0),
		xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskKeyPress)},
	).Check()
	if err != nil {
		return err
	}
	xproto.MapWindow(conn, wid)
	c.grab.window = wid
	return nil
}
