package platform

import "github.com/1broseidon/whim/internal/geometry"

// EventSink receives native window-system notifications. Implementations are
// called from the backend's event goroutine.
type EventSink interface {
	// WindowsChanged reports that top-level windows appeared or went away.
	WindowsChanged()
	WindowFocused(handle WindowHandle)
	// WindowStateChanged reports a change in a window's state, such as
	// minimizing or restoring.
	WindowStateChanged(handle WindowHandle)
	// WindowMoved reports that a window changed position or size.
	WindowMoved(handle WindowHandle)
	MonitorsChanged()
}

// Native is a Backend bound to a live window system.
type Native interface {
	Backend
	Describe(handle WindowHandle) (WindowInfo, error)
	Watch(sink EventSink) error
	Run()
	Quit()
	Close()
}

// KeyBinder is implemented by natives that can grab global key chords.
type KeyBinder interface {
	BindKeys(bindings map[string]func()) error
}

// Key is a key pressed while the keyboard is grabbed.
type Key struct {
	Name    string
	Shift   bool
	Control bool
}

// Modal is implemented by natives that can take the whole keyboard and draw
// a highlight over the screen, as move mode needs.
type Modal interface {
	GrabKeyboard(onKey func(Key)) error
	UngrabKeyboard()
	// ShowOverlay outlines rect in color and draws hint inside hintRect.
	ShowOverlay(rect geometry.Rect, color uint32, hint []string, hintRect geometry.Rect) error
	HideOverlay()
}
