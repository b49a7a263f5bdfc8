//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/x11"
)

// LinuxBackend drives an X11 window manager through EWMH.
type LinuxBackend struct {
	conn *x11.Connection
}

var (
	_ Native    = (*LinuxBackend)(nil)
	_ KeyBinder = (*LinuxBackend)(nil)
	_ Modal     = (*LinuxBackend)(nil)
)

// Open connects to the X server named by $DISPLAY.
func Open() (Native, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Monitors returns every enabled output ordered by position.
func (b *LinuxBackend) Monitors() ([]Monitor, error) {
	monitors, err := b.conn.Monitors()
	if err != nil {
		return nil, err
	}
	out := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, Monitor{
			Handle:      MonitorHandle(m.Output),
			Name:        m.Name,
			Bounds:      m.Bounds,
			WorkingArea: m.WorkArea,
			IsPrimary:   m.Primary,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bounds.X != out[j].Bounds.X {
			return out[i].Bounds.X < out[j].Bounds.X
		}
		return out[i].Bounds.Y < out[j].Bounds.Y
	})
	return out, nil
}

// Windows lists normal client windows. Windows that vanish while being
// described are skipped.
func (b *LinuxBackend) Windows() ([]WindowInfo, error) {
	clients, err := b.conn.ClientWindows()
	if err != nil {
		return nil, err
	}
	out := make([]WindowInfo, 0, len(clients))
	for _, win := range clients {
		info, err := b.describe(win)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

// Describe reads a single window.
func (b *LinuxBackend) Describe(handle WindowHandle) (WindowInfo, error) {
	return b.describe(xproto.Window(handle))
}

func (b *LinuxBackend) describe(win xproto.Window) (WindowInfo, error) {
	w, err := b.conn.Describe(win)
	if err != nil {
		return WindowInfo{}, err
	}
	return WindowInfo{
		Handle:      WindowHandle(w.ID),
		PID:         w.PID,
		ProcessName: w.Class,
		Title:       w.Title,
		Bounds:      w.Bounds,
		Minimized:   w.Hidden,
	}, nil
}

// SetWindowPositions applies every placement and joins the failures.
func (b *LinuxBackend) SetWindowPositions(placements []Placement) error {
	var errs []error
	for _, p := range placements {
		win := xproto.Window(p.Handle)
		if p.Minimized {
			if err := b.conn.Iconify(win); err != nil {
				errs = append(errs, fmt.Errorf("minimize %s: %w", p.Handle, err))
			}
			continue
		}
		b.conn.Restore(win)
		b.conn.MoveResizeWindow(win, p.Rect)
		if p.Maximized {
			if err := b.conn.MaximizeWindow(win); err != nil {
				errs = append(errs, fmt.Errorf("maximize %s: %w", p.Handle, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (b *LinuxBackend) FocusWindow(handle WindowHandle) error {
	win := xproto.Window(handle)
	b.conn.Restore(win)
	return b.conn.ActivateWindow(win)
}

func (b *LinuxBackend) HideWindow(handle WindowHandle) error {
	return b.conn.Iconify(xproto.Window(handle))
}

func (b *LinuxBackend) CloseWindow(handle WindowHandle) error {
	return b.conn.CloseWindow(xproto.Window(handle))
}

// Watch forwards X11 changes to sink.
func (b *LinuxBackend) Watch(sink EventSink) error {
	_, err := b.conn.Watch(listener{sink: sink})
	return err
}

// BindKeys grabs the given chords on the root window.
func (b *LinuxBackend) BindKeys(bindings map[string]func()) error {
	return b.conn.BindKeys(bindings)
}

// GrabKeyboard takes the keyboard until UngrabKeyboard.
func (b *LinuxBackend) GrabKeyboard(onKey func(Key)) error {
	return b.conn.GrabKeyboard(func(k x11.KeyPress) {
		onKey(Key{Name: k.Name, Shift: k.Shift, Control: k.Control})
	})
}

func (b *LinuxBackend) UngrabKeyboard() {
	b.conn.UngrabKeyboard()
}

func (b *LinuxBackend) ShowOverlay(rect geometry.Rect, color uint32, hint []string, hintRect geometry.Rect) error {
	return b.conn.ShowOverlay(rect, color, hint, hintRect)
}

func (b *LinuxBackend) HideOverlay() {
	b.conn.HideOverlay()
}

// Run blocks processing X events until Quit.
func (b *LinuxBackend) Run() {
	b.conn.EventLoop()
}

func (b *LinuxBackend) Quit() {
	b.conn.Quit()
}

func (b *LinuxBackend) Close() {
	b.conn.Close()
}

type listener struct {
	sink EventSink
}

func (l listener) ClientsChanged() { l.sink.WindowsChanged() }
func (l listener) ScreenChanged()  { l.sink.MonitorsChanged() }

func (l listener) ActiveWindowChanged(win xproto.Window) {
	l.sink.WindowFocused(WindowHandle(win))
}

func (l listener) WindowStateChanged(win xproto.Window) {
	l.sink.WindowStateChanged(WindowHandle(win))
}

func (l listener) WindowConfigured(win xproto.Window) {
	l.sink.WindowMoved(WindowHandle(win))
}
