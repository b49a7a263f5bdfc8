package daemon

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/whim/internal/platform"
	"github.com/1broseidon/whim/internal/store"
)

// WindowSource is the read side of the native backend.
type WindowSource interface {
	Monitors() ([]platform.Monitor, error)
	Windows() ([]platform.WindowInfo, error)
	Describe(handle platform.WindowHandle) (platform.WindowInfo, error)
}

// Synchronizer turns native notifications into store transforms. It
// implements platform.EventSink.
type Synchronizer struct {
	store  *store.Store
	source WindowSource
	logger *slog.Logger

	mu sync.Mutex
	// skipped holds windows the store declined (filtered or otherwise
	// ignored) so they are not offered again on every pass.
	skipped map[platform.WindowHandle]struct{}
}

var _ platform.EventSink = (*Synchronizer)(nil)

// NewSynchronizer creates a synchronizer feeding s from source.
func NewSynchronizer(s *store.Store, source WindowSource, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{
		store:   s,
		source:  source,
		logger:  logger,
		skipped: map[platform.WindowHandle]struct{}{},
	}
}

// SyncResult counts the transforms a sync pass dispatched.
type SyncResult struct {
	Added     int
	Removed   int
	Minimized int
	Restored  int
}

func (r SyncResult) Changed() bool {
	return r.Added+r.Removed+r.Minimized+r.Restored > 0
}

// SyncWindows diffs the native window list against the store and dispatches
// the transforms that bring the store in line.
func (s *Synchronizer) SyncWindows() (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SyncResult
	native, err := s.source.Windows()
	if err != nil {
		return res, fmt.Errorf("list windows: %w", err)
	}
	tracked, err := store.Pick(s.store, store.PickWindows())
	if err != nil {
		return res, err
	}

	present := make(map[platform.WindowHandle]platform.WindowInfo, len(native))
	for _, info := range native {
		present[info.Handle] = info
	}
	known := make(map[platform.WindowHandle]store.Window, len(tracked))
	for _, w := range tracked {
		known[w.Handle] = w
	}

	for handle := range s.skipped {
		if _, ok := present[handle]; !ok {
			delete(s.skipped, handle)
		}
	}

	for _, w := range tracked {
		if _, ok := present[w.Handle]; ok {
			continue
		}
		removed, err := store.Dispatch(s.store, store.WindowRemovedTransform{Handle: w.Handle})
		if err != nil {
			s.logger.Warn("failed to remove window", "window", w.Handle, "error", err)
			continue
		}
		if removed {
			res.Removed++
		}
	}

	for _, info := range native {
		if w, ok := known[info.Handle]; ok {
			switch s.minimizeChange(w, info) {
			case 1:
				res.Minimized++
			case -1:
				res.Restored++
			}
			continue
		}
		if _, ok := s.skipped[info.Handle]; ok {
			continue
		}
		added, err := store.Dispatch(s.store, store.WindowAddedTransform{Window: info})
		if err != nil {
			s.logger.Warn("failed to add window", "window", info.Handle, "process", info.ProcessName, "error", err)
			continue
		}
		if added {
			res.Added++
		} else {
			s.skipped[info.Handle] = struct{}{}
		}
	}

	if res.Changed() {
		s.logger.Debug("windows synchronized",
			"added", res.Added,
			"removed", res.Removed,
			"minimized", res.Minimized,
			"restored", res.Restored)
	}
	return res, nil
}

// minimizeChange dispatches a minimize transition when the native state of w
// differs from the store. It returns 1 for minimized, -1 for restored and 0
// otherwise. Windows on hidden workspaces are iconified by the backend
// itself, so their state is ignored.
func (s *Synchronizer) minimizeChange(w store.Window, info platform.WindowInfo) int {
	if w.IsMinimized == info.Minimized || !s.onVisibleWorkspace(w.Handle) {
		return 0
	}
	if info.Minimized {
		ok, err := store.Dispatch(s.store, store.WindowMinimizeStartedTransform{Handle: w.Handle})
		if err != nil {
			s.logger.Warn("failed to minimize window", "window", w.Handle, "error", err)
			return 0
		}
		if ok {
			return 1
		}
		return 0
	}
	ok, err := store.Dispatch(s.store, store.WindowMinimizeEndedTransform{Handle: w.Handle})
	if err != nil {
		s.logger.Warn("failed to restore window", "window", w.Handle, "error", err)
		return 0
	}
	if ok {
		return -1
	}
	return 0
}

func (s *Synchronizer) onVisibleWorkspace(handle platform.WindowHandle) bool {
	snap := s.store.Snapshot()
	id, ok := snap.Maps.WorkspaceForWindow(handle)
	if !ok {
		return false
	}
	_, visible := snap.Maps.MonitorForWorkspace(id)
	return visible
}

// Forget clears the set of declined windows so the next pass offers them
// again. Call it after the filters change.
func (s *Synchronizer) Forget() {
	s.mu.Lock()
	clear(s.skipped)
	s.mu.Unlock()
}

func (s *Synchronizer) WindowsChanged() {
	if _, err := s.SyncWindows(); err != nil {
		s.logger.Warn("window sync failed", "error", err)
	}
}

func (s *Synchronizer) WindowFocused(handle platform.WindowHandle) {
	if handle != 0 {
		if _, err := store.Pick(s.store, store.PickWindowByHandle(handle)); store.IsNotFound(err) {
			// Focus can arrive before the client list update.
			s.WindowsChanged()
		}
	}
	if _, err := store.Dispatch(s.store, store.WindowFocusedTransform{Handle: handle}); err != nil {
		s.logger.Warn("failed to record focus", "window", handle, "error", err)
	}
}

func (s *Synchronizer) WindowStateChanged(handle platform.WindowHandle) {
	w, err := store.Pick(s.store, store.PickWindowByHandle(handle))
	if err != nil {
		return
	}
	info, err := s.source.Describe(handle)
	if err != nil {
		s.logger.Debug("failed to describe window", "window", handle, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minimizeChange(w, info)
}

// WindowMoved records a window's new native bounds so floating layouts keep
// it where the user put it.
func (s *Synchronizer) WindowMoved(handle platform.WindowHandle) {
	if _, err := store.Pick(s.store, store.PickWindowByHandle(handle)); err != nil {
		return
	}
	info, err := s.source.Describe(handle)
	if err != nil {
		s.logger.Debug("failed to describe window", "window", handle, "error", err)
		return
	}
	if _, err := store.Dispatch(s.store, store.WindowMovedTransform{Handle: handle, Bounds: info.Bounds}); err != nil {
		s.logger.Warn("failed to record window move", "window", handle, "error", err)
	}
}

func (s *Synchronizer) MonitorsChanged() {
	if err := s.SyncMonitors(); err != nil {
		s.logger.Warn("monitor sync failed", "error", err)
	}
}

// SyncMonitors dispatches the current native monitor list.
func (s *Synchronizer) SyncMonitors() error {
	monitors, err := s.source.Monitors()
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	ev, err := store.Dispatch(s.store, store.MonitorsChangedTransform{Monitors: monitors})
	if err != nil {
		return err
	}
	if len(ev.Added)+len(ev.Removed) > 0 {
		s.logger.Info("monitors changed", "added", len(ev.Added), "removed", len(ev.Removed), "unchanged", len(ev.Unchanged))
	}
	return nil
}
