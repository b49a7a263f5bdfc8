package platform

import (
	"fmt"

	"github.com/1broseidon/whim/internal/geometry"
)

// WindowHandle is a platform-neutral window identifier.
type WindowHandle uint64

func (h WindowHandle) String() string {
	return fmt.Sprintf("0x%x", uint64(h))
}

// MonitorHandle is a platform-neutral monitor identifier.
type MonitorHandle uint64

func (h MonitorHandle) String() string {
	return fmt.Sprintf("monitor-%d", uint64(h))
}

// Monitor describes a physical display and its usable work area.
type Monitor struct {
	Handle      MonitorHandle
	Name        string
	Bounds      geometry.Rect
	WorkingArea geometry.Rect
	IsPrimary   bool
}

// WindowInfo contains metadata and geometry for a top-level window.
type WindowInfo struct {
	Handle      WindowHandle
	PID         int
	ProcessName string
	Title       string
	Bounds      geometry.Rect
	Minimized   bool
}

// Placement is a single window move produced by a layout pass.
type Placement struct {
	Handle    WindowHandle
	Rect      geometry.Rect
	Minimized bool
	Maximized bool
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Monitors() ([]Monitor, error)
	Windows() ([]WindowInfo, error)
	SetWindowPositions(placements []Placement) error
	FocusWindow(handle WindowHandle) error
	HideWindow(handle WindowHandle) error
	CloseWindow(handle WindowHandle) error
}

// NopBackend satisfies Backend without touching a window system. It is used
// by headless runs (for example the MCP server with --dry-run) and tests.
type NopBackend struct {
	MonitorList []Monitor
}

var _ Backend = (*NopBackend)(nil)

func (b *NopBackend) Monitors() ([]Monitor, error) {
	out := make([]Monitor, len(b.MonitorList))
	copy(out, b.MonitorList)
	return out, nil
}

func (b *NopBackend) Windows() ([]WindowInfo, error)                  { return nil, nil }
func (b *NopBackend) SetWindowPositions(placements []Placement) error { return nil }
func (b *NopBackend) FocusWindow(handle WindowHandle) error           { return nil }
func (b *NopBackend) HideWindow(handle WindowHandle) error            { return nil }
func (b *NopBackend) CloseWindow(handle WindowHandle) error           { return nil }
