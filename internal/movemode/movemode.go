// Package movemode implements a modal keyboard mode for rearranging the
// windows of the active workspace.
//
// While selecting, the arrow keys move focus between windows. Enter grabs the
// focused window, after which the arrow keys swap it with its neighbours.
// Shift and Control with an arrow grow or shrink the window on that side.
// Escape, or Enter on a grabbed window, leaves the mode, and so does an idle
// timeout.
package movemode

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
	"github.com/1broseidon/whim/internal/store"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultResizeStep = 40
)

// Options configures a Mode.
type Options struct {
	// Timeout ends the mode after this long without a key press.
	Timeout time.Duration
	// ResizeStep is the number of pixels an edge moves per key press.
	ResizeStep int
	Logger     *slog.Logger
}

// Mode is the move mode controller
type Mode struct {
	store   *store.Store
	native  platform.Modal
	logger  *slog.Logger
	timeout time.Duration
	step    int

	mu          sync.Mutex
	state       State
	timer       *time.Timer
	timerGen    int
	unsubscribe func()
}

// New creates an inactive move mode over s, drawing with native.
func New(s *store.Store, native platform.Modal, opts Options) *Mode {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ResizeStep <= 0 {
		opts.ResizeStep = DefaultResizeStep
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Mode{
		store:   s,
		native:  native,
		logger:  opts.Logger,
		timeout: opts.Timeout,
		step:    opts.ResizeStep,
	}
}

// Configure changes the idle timeout and resize step. Zero values select the
// defaults. A running session picks them up on its next key press.
func (m *Mode) Configure(timeout time.Duration, resizeStep int) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if resizeStep <= 0 {
		resizeStep = DefaultResizeStep
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	m.step = resizeStep
}

// State returns a copy of the current state.
func (m *Mode) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Active reports whether move mode is running.
func (m *Mode) Active() bool {
	return m.State().Phase != PhaseInactive
}

// Enter starts move mode on the active workspace. Entering while already
// active is a no-op.
func (m *Mode) Enter() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseInactive {
		return nil
	}

	ws, err := store.Pick(m.store, store.PickActiveWorkspace())
	if err != nil {
		return err
	}
	if ws.LastFocusedWindowHandle == 0 {
		return fmt.Errorf("workspace %q has no focused window", ws.Name)
	}
	if err := m.native.GrabKeyboard(m.handleKey); err != nil {
		return fmt.Errorf("grab keyboard: %w", err)
	}

	m.state = State{Phase: PhaseSelecting, Workspace: ws.ID}
	m.unsubscribe = m.store.Subscribe(m.handleEvent)
	m.renderLocked()
	m.startTimeoutLocked()
	m.logger.Info("move mode entered", "workspace", ws.Name)
	return nil
}

// Exit leaves move mode if it is active.
func (m *Mode) Exit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseInactive {
		m.exitLocked("exit requested")
	}
}

// handleKey processes key events while the keyboard is grabbed. Transforms
// are dispatched without holding the lock because the store delivers its
// events, and so handleEvent, on the dispatching goroutine.
func (m *Mode) handleKey(k platform.Key) {
	cmd := commandForKey(k)

	m.mu.Lock()
	if m.state.Phase == PhaseInactive || cmd.kind == cmdNone {
		m.mu.Unlock()
		return
	}
	m.startTimeoutLocked()

	switch cmd.kind {
	case cmdCancel:
		m.exitLocked("cancelled")
		m.mu.Unlock()
		return
	case cmdConfirm:
		m.confirmLocked()
		m.mu.Unlock()
		return
	}

	t, ok := transformFor(m.state, cmd, m.step)
	m.mu.Unlock()
	if !ok {
		return
	}

	if _, err := store.Dispatch(m.store, t); err != nil {
		m.logger.Warn("move mode command failed", "key", k.Name, "error", err)
	}
	m.refresh()
}

// confirmLocked grabs the focused window, or finishes when one is grabbed.
func (m *Mode) confirmLocked() {
	if m.state.Phase == PhaseGrabbed {
		m.exitLocked("done")
		return
	}
	ws, err := store.Pick(m.store, store.PickWorkspaceByID(m.state.Workspace))
	if err != nil || ws.LastFocusedWindowHandle == 0 {
		return
	}
	m.state.Phase = PhaseGrabbed
	m.state.Grabbed = ws.LastFocusedWindowHandle
	m.renderLocked()
	m.logger.Info("move mode grabbed window", "window", m.state.Grabbed)
}

func (m *Mode) handleEvent(e store.Event) {
	switch e.(type) {
	case store.WindowFocusedEvent, store.WorkspaceLayoutCompletedEvent, store.WindowRemovedEvent, store.WorkspaceRemovedEvent:
		m.refresh()
	}
}

func (m *Mode) refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseInactive {
		m.renderLocked()
	}
}

// renderLocked outlines the target window. A grabbed window that disappears
// ends the mode.
func (m *Mode) renderLocked() {
	rect, ok := m.targetRectLocked()
	if !ok {
		if m.state.Phase == PhaseGrabbed {
			m.exitLocked("grabbed window is gone")
			return
		}
		m.native.HideOverlay()
		return
	}

	color := uint32(ColorSelection)
	if m.state.Phase == PhaseGrabbed {
		color = ColorGrabbed
	}
	lines := hintLines(m.state.Phase)
	var hintRect geometry.Rect
	if monitor, err := store.Pick(m.store, store.PickMonitorByWorkspace(m.state.Workspace)); err == nil {
		hintRect = placeHint(monitor.WorkingArea, rect, lines)
	}
	if err := m.native.ShowOverlay(rect, color, lines, hintRect); err != nil {
		m.logger.Warn("move mode overlay failed", "error", err)
	}
}

func (m *Mode) targetRectLocked() (geometry.Rect, bool) {
	ws, err := store.Pick(m.store, store.PickWorkspaceByID(m.state.Workspace))
	if err != nil {
		return geometry.Rect{}, false
	}
	handle := ws.LastFocusedWindowHandle
	if m.state.Phase == PhaseGrabbed {
		handle = m.state.Grabbed
	}
	pos, ok := ws.WindowPositions[handle]
	if !ok || pos.Rect.Empty() {
		return geometry.Rect{}, false
	}
	return pos.Rect, true
}

// startTimeoutLocked restarts the idle timer. Each timer carries a
// generation so a stale one that already fired does nothing.
func (m *Mode) startTimeoutLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timerGen++
	gen := m.timerGen
	m.timer = time.AfterFunc(m.timeout, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if gen == m.timerGen && m.state.Phase != PhaseInactive {
			m.exitLocked("timed out")
		}
	})
}

func (m *Mode) exitLocked(reason string) {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.timerGen++
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.native.HideOverlay()
	m.native.UngrabKeyboard()
	m.state = State{}
	m.logger.Info("move mode exited", "reason", reason)
}
