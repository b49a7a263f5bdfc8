package store

import (
	"log/slog"

	"github.com/1broseidon/whim/internal/platform"
)

// Context carries the collaborators a transform may read. It replaces any
// package-level state: the store builds one and threads it through every
// Execute call.
type Context struct {
	Backend platform.Backend
	Logger  *slog.Logger
}

// sideEffect is a native call deferred until the outer transform commits.
type sideEffect struct {
	name string
	run  func(platform.Backend) error
}

// InternalContext is private to a single outer dispatch. Transforms use it
// to queue native calls, which only run if the whole dispatch succeeds.
type InternalContext struct {
	effects []sideEffect
	depth   int
}

// Defer queues fn to run against the backend after commit.
func (i *InternalContext) Defer(name string, fn func(platform.Backend) error) {
	i.effects = append(i.effects, sideEffect{name: name, run: fn})
}

// Depth is 0 for the outer transform and grows with each nested Exec.
func (i *InternalContext) Depth() int {
	return i.depth
}

func (i *InternalContext) hideWindows(windows []platform.WindowHandle) {
	for _, w := range windows {
		i.Defer("hide window", func(b platform.Backend) error { return b.HideWindow(w) })
	}
}

func (i *InternalContext) closeWindows(windows []platform.WindowHandle) {
	for _, w := range windows {
		i.Defer("close window", func(b platform.Backend) error { return b.CloseWindow(w) })
	}
}

func (i *InternalContext) focusWindow(w platform.WindowHandle) {
	if w == 0 {
		return
	}
	i.Defer("focus window", func(b platform.Backend) error { return b.FocusWindow(w) })
}
