// Package layout computes window geometry from a logical arrangement.
//
// Every Engine is persistent: mutating methods return a new Engine, or the
// receiver itself when the operation did not change anything. Callers detect
// no-ops with ==, which is what lets the store skip sector writes and layout
// passes cheaply.
package layout

import (
	"iter"

	"github.com/google/uuid"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

// WindowSize is the display state a layout assigns to a window.
type WindowSize int

const (
	SizeNormal WindowSize = iota
	SizeMinimized
	SizeMaximized
)

func (s WindowSize) String() string {
	switch s {
	case SizeMinimized:
		return "minimized"
	case SizeMaximized:
		return "maximized"
	default:
		return "normal"
	}
}

// WindowState is one entry produced by DoLayout.
type WindowState struct {
	Window  platform.WindowHandle
	Rect    geometry.Rect
	Size    WindowSize
	Phantom bool
}

// Identity names an engine lineage. Every version produced by a mutation
// keeps the identity of the engine it came from.
type Identity uuid.UUID

// NewIdentity returns a fresh random identity.
func NewIdentity() Identity {
	return Identity(uuid.New())
}

func (id Identity) String() string {
	return uuid.UUID(id).String()
}

// CustomAction is an engine-specific operation addressed by name. Engines
// that do not recognise Name return themselves unchanged.
type CustomAction struct {
	Name    string
	Window  platform.WindowHandle
	Payload any
}

// Engine is the persistent layout strategy contract.
type Engine interface {
	Identity() Identity
	Name() string
	Count() int
	ContainsWindow(window platform.WindowHandle) bool
	// Windows lists every window the engine tracks, minimized ones last.
	Windows() []platform.WindowHandle

	AddWindow(window platform.WindowHandle) Engine
	RemoveWindow(window platform.WindowHandle) Engine
	// MoveWindowToPoint relocates (or inserts) window at the slot point maps
	// to. point is in the unit square of the monitor.
	MoveWindowToPoint(window platform.WindowHandle, point geometry.UnitPoint) Engine
	SwapWindowInDirection(direction geometry.Direction, window platform.WindowHandle) Engine
	// FocusWindowInDirection returns the engine (changed only in its focus
	// pointer) and the window that should receive focus, if any.
	FocusWindowInDirection(direction geometry.Direction, window platform.WindowHandle) (Engine, platform.WindowHandle, bool)
	// MoveWindowEdgesInDirection moves the given edges of window by deltas,
	// expressed as unit-square fractions of the monitor.
	MoveWindowEdgesInDirection(edges geometry.Direction, deltas geometry.UnitPoint, window platform.WindowHandle) Engine
	MinimizeWindowStart(window platform.WindowHandle) Engine
	MinimizeWindowEnd(window platform.WindowHandle) Engine
	PerformCustomAction(action CustomAction) Engine

	// DoLayout yields the geometry for every tracked window. Identical
	// engine state and area always yield identical output.
	DoLayout(area geometry.Rect, monitor platform.Monitor) iter.Seq[WindowState]
}

// Creator builds a fresh engine for a workspace.
type Creator func(identity Identity) Engine

// ProxyCreator wraps an engine with cross-cutting behaviour.
type ProxyCreator func(inner Engine) Engine

// Unwrapper is implemented by proxy engines.
type Unwrapper interface {
	Unwrap() Engine
}

// PhantomOwner is implemented by engines that place synthetic windows.
// Phantoms must be hidden or closed when the engine is replaced or removed.
type PhantomOwner interface {
	Phantoms() []platform.WindowHandle
}

// Build creates an engine from creator and wraps it with every proxy in
// order, so the last proxy is the outermost.
func Build(creator Creator, proxies []ProxyCreator) Engine {
	engine := creator(NewIdentity())
	for _, proxy := range proxies {
		engine = proxy(engine)
	}
	return engine
}

// Innermost follows Unwrap until it reaches a non-proxy engine.
func Innermost(engine Engine) Engine {
	for {
		u, ok := engine.(Unwrapper)
		if !ok {
			return engine
		}
		engine = u.Unwrap()
	}
}

// PhantomsOf returns the phantom windows owned by engine or any engine it
// wraps.
func PhantomsOf(engine Engine) []platform.WindowHandle {
	for engine != nil {
		if owner, ok := engine.(PhantomOwner); ok {
			return owner.Phantoms()
		}
		u, ok := engine.(Unwrapper)
		if !ok {
			return nil
		}
		engine = u.Unwrap()
	}
	return nil
}

// minimizedStates yields the minimized bucket with the full area rectangle.
func minimizedStates(windows []platform.WindowHandle, area geometry.Rect, yield func(WindowState) bool) bool {
	for _, w := range windows {
		if !yield(WindowState{Window: w, Rect: area, Size: SizeMinimized}) {
			return false
		}
	}
	return true
}

func indexOf(windows []platform.WindowHandle, window platform.WindowHandle) int {
	for i, w := range windows {
		if w == window {
			return i
		}
	}
	return -1
}

// step converts a horizontal direction into an index delta.
func step(direction geometry.Direction, leftToRight bool) int {
	delta := 0
	switch direction {
	case geometry.DirectionLeft:
		delta = -1
	case geometry.DirectionRight:
		delta = 1
	}
	if !leftToRight {
		delta = -delta
	}
	return delta
}

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
