package x11

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/whim/internal/geometry"
)

// Overlay colors and sizes.
const (
	borderThickness = 4
	hintTextColor   = 0xf5f7fa
	hintBackground  = 0x1f2933
	hintPaddingX    = 10
	hintPaddingY    = 8
	hintLineHeight  = 16
)

// border is a rectangle outline made of four thin windows.
type border struct {
	top, bottom, left, right xproto.Window
	created                  bool
	mapped                   bool
}

func (b *border) windows() []xproto.Window {
	return []xproto.Window{b.top, b.bottom, b.left, b.right}
}

// hintPanel is a single window that draws lines of text with a core font.
type hintPanel struct {
	window   xproto.Window
	gc       xproto.Gcontext
	font     xproto.Font
	created  bool
	mapped   bool
	disabled bool
}

type overlay struct {
	mu     sync.Mutex
	border border
	hint   hintPanel
}

// ShowOverlay outlines rect in color and, when hint is not empty, draws the
// hint lines inside hintRect. Both stay above every other window.
func (c *Connection) ShowOverlay(rect geometry.Rect, color uint32, hint []string, hintRect geometry.Rect) error {
	c.overlay.mu.Lock()
	defer c.overlay.mu.Unlock()

	if err := c.showBorder(rect, color); err != nil {
		return err
	}
	c.showHint(hint, hintRect)
	return nil
}

// HideOverlay unmaps the overlay windows without destroying them.
func (c *Connection) HideOverlay() {
	c.overlay.mu.Lock()
	defer c.overlay.mu.Unlock()

	conn := c.XUtil.Conn()
	if b := &c.overlay.border; b.mapped {
		for _, w := range b.windows() {
			xproto.UnmapWindow(conn, w)
		}
		b.mapped = false
	}
	if h := &c.overlay.hint; h.mapped {
		xproto.UnmapWindow(conn, h.window)
		h.mapped = false
	}
}

func (c *Connection) showBorder(rect geometry.Rect, color uint32) error {
	b := &c.overlay.border
	if !b.created {
		for _, w := range []*xproto.Window{&b.top, &b.bottom, &b.left, &b.right} {
			wid, err := c.createOverrideRedirectWindow()
			if err != nil {
				return err
			}
			*w = wid
		}
		b.created = true
	}

	x, y, w, h := rect.X, rect.Y, rect.Width, rect.Height
	t := borderThickness
	c.updateWindow(b.top, x, y, w, t, color)
	c.updateWindow(b.bottom, x, y+h-t, w, t, color)
	c.updateWindow(b.left, x, y+t, t, h-2*t, color)
	c.updateWindow(b.right, x+w-t, y+t, t, h-2*t, color)

	for _, win := range b.windows() {
		xproto.MapWindow(c.XUtil.Conn(), win)
	}
	b.mapped = true
	return nil
}

func (c *Connection) showHint(lines []string, rect geometry.Rect) {
	h := &c.overlay.hint
	conn := c.XUtil.Conn()
	if len(lines) == 0 || rect.Empty() || !c.ensureHintPanel() {
		if h.mapped {
			xproto.UnmapWindow(conn, h.window)
			h.mapped = false
		}
		return
	}

	c.updateWindow(h.window, rect.X, rect.Y, rect.Width, rect.Height, hintBackground)

	baseline := hintPaddingY + hintLineHeight - 4
	for i, line := range lines {
		if line == "" {
			continue
		}
		if len(line) > 255 {
			line = line[:255]
		}
		xproto.ImageText8(conn, byte(len(line)), xproto.Drawable(h.window), h.gc,
			int16(hintPaddingX), int16(baseline+i*hintLineHeight), line)
	}
	xproto.MapWindow(conn, h.window)
	h.mapped = true
}

// ensureHintPanel creates the hint window, font and graphics context once.
// If any step fails the hint is disabled for the life of the connection.
func (c *Connection) ensureHintPanel() bool {
	h := &c.overlay.hint
	if h.disabled {
		return false
	}
	if h.created {
		return true
	}

	conn := c.XUtil.Conn()
	fail := func() bool {
		if h.gc != 0 {
			xproto.FreeGC(conn, h.gc)
		}
		if h.font != 0 {
			xproto.CloseFont(conn, h.font)
		}
		if h.window != 0 {
			xproto.DestroyWindow(conn, h.window)
		}
		*h = hintPanel{disabled: true}
		return false
	}

	var err error
	if h.window, err = c.createOverrideRedirectWindow(); err != nil {
		return fail()
	}
	if h.font, err = xproto.NewFontId(conn); err != nil {
		return fail()
	}
	opened := false
	for _, name := range []string{"fixed", "9x15", "8x13", "6x13"} {
		if xproto.OpenFontChecked(conn, h.font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		h.font = 0
		return fail()
	}
	if h.gc, err = xproto.NewGcontextId(conn); err != nil {
		return fail()
	}
	err = xproto.CreateGCChecked(
		conn,
		h.gc,
		xproto.Drawable(h.window),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{hintTextColor, hintBackground, uint32(h.font), 0},
	).Check()
	if err != nil {
		return fail()
	}
	h.created = true
	return true
}

// createOverrideRedirectWindow creates a window the window manager ignores.
func (c *Connection) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	// Value order follows the mask bits: CwBackPixel before CwOverrideRedirect.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

// updateWindow moves, resizes, raises and recolors wid.
func (c *Connection) updateWindow(wid xproto.Window, x, y, width, height int, color uint32) {
	conn := c.XUtil.Conn()
	width = max(width, 1)
	height = max(height, 1)

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(x), uint32(y), uint32(width), uint32(height), xproto.StackModeAbove},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}
