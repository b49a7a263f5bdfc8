package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// recordingBackend is a platform.Backend that remembers every native call.
type recordingBackend struct {
	mu         sync.Mutex
	monitors   []platform.Monitor
	windows    []platform.WindowInfo
	placements [][]platform.Placement
	hidden     []platform.WindowHandle
	focused    []platform.WindowHandle
	closed     []platform.WindowHandle
}

func (b *recordingBackend) Monitors() ([]platform.Monitor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.monitors), nil
}

func (b *recordingBackend) Windows() ([]platform.WindowInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.windows), nil
}

func (b *recordingBackend) SetWindowPositions(placements []platform.Placement) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.placements = append(b.placements, slices.Clone(placements))
	return nil
}

func (b *recordingBackend) FocusWindow(w platform.WindowHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = append(b.focused, w)
	return nil
}

func (b *recordingBackend) HideWindow(w platform.WindowHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hidden = append(b.hidden, w)
	return nil
}

func (b *recordingBackend) CloseWindow(w platform.WindowHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = append(b.closed, w)
	return nil
}

func (b *recordingBackend) calls() (placements int, hidden, focused []platform.WindowHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.placements), slices.Clone(b.hidden), slices.Clone(b.focused)
}

func (b *recordingBackend) lastPlacements() []platform.Placement {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.placements) == 0 {
		return nil
	}
	return b.placements[len(b.placements)-1]
}

var (
	leftMonitor = platform.Monitor{
		Handle:      1,
		Name:        "left",
		Bounds:      geometry.Rect{X: 0, Y: 0, Width: 1200, Height: 800},
		WorkingArea: geometry.Rect{X: 0, Y: 0, Width: 1200, Height: 800},
		IsPrimary:   true,
	}
	rightMonitor = platform.Monitor{
		Handle:      2,
		Name:        "right",
		Bounds:      geometry.Rect{X: 1200, Y: 0, Width: 1200, Height: 800},
		WorkingArea: geometry.Rect{X: 1200, Y: 0, Width: 1200, Height: 800},
	}
)

func windowInfo(handle platform.WindowHandle, process string) platform.WindowInfo {
	return platform.WindowInfo{Handle: handle, PID: int(handle) + 100, ProcessName: process, Title: fmt.Sprintf("%s %d", process, handle)}
}

// newStore returns an uninitialized store with column engines registered.
func newStore(t *testing.T, backend *recordingBackend) *Store {
	t.Helper()
	s := New(backend)
	t.Cleanup(s.Close)
	if _, err := Dispatch(s, SetCreateLayoutEnginesTransform{Creators: []layout.Creator{layout.ColumnCreator("", true)}}); err != nil {
		t.Fatalf("register creators: %v", err)
	}
	return s
}

// newInitializedStore returns a store initialized over backend.
func newInitializedStore(t *testing.T, backend *recordingBackend) *Store {
	t.Helper()
	s := newStore(t, backend)
	if err := s.Initialize(nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

// recordEvents collects event type names delivered after the call.
func recordEvents(s *Store) *[]string {
	var names []string
	s.Subscribe(func(e Event) {
		names = append(names, fmt.Sprintf("%T", e))
	})
	return &names
}

func mustPick[T any](t *testing.T, s *Store, p Picker[T]) T {
	t.Helper()
	v, err := Pick(s, p)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	return v
}

// checkMaps verifies that every monitor shows exactly one workspace, no
// workspace is on two monitors and every tracked window maps to a workspace
// containing it.
func checkMaps(t *testing.T, s *Store) {
	t.Helper()
	root := s.Snapshot()
	seen := map[WorkspaceID]platform.MonitorHandle{}
	for _, m := range root.Monitors.All() {
		id, ok := root.Maps.WorkspaceForMonitor(m.Handle)
		if !ok {
			t.Fatalf("monitor %s shows no workspace", m.Handle)
		}
		if other, dup := seen[id]; dup {
			t.Fatalf("workspace %s shown on monitors %s and %s", id, other, m.Handle)
		}
		seen[id] = m.Handle
	}
	for _, w := range root.Windows.All() {
		id, ok := root.Maps.WorkspaceForWindow(w.Handle)
		if !ok {
			t.Fatalf("window %s has no workspace", w.Handle)
		}
		ws, ok := root.Workspaces.Get(id)
		if !ok || !ws.ContainsWindow(w.Handle) {
			t.Fatalf("workspace %s does not contain window %s", id, w.Handle)
		}
	}
}

func TestStore_InitializeLaysOutExistingWindows(t *testing.T) {
	backend := &recordingBackend{
		monitors: []platform.Monitor{leftMonitor},
		windows:  []platform.WindowInfo{windowInfo(1, "a"), windowInfo(2, "b"), windowInfo(3, "c")},
	}
	s := newInitializedStore(t, backend)

	want := []platform.Placement{
		{Handle: 1, Rect: geometry.Rect{X: 0, Y: 0, Width: 400, Height: 800}},
		{Handle: 2, Rect: geometry.Rect{X: 400, Y: 0, Width: 400, Height: 800}},
		{Handle: 3, Rect: geometry.Rect{X: 800, Y: 0, Width: 400, Height: 800}},
	}
	if diff := cmp.Diff(want, backend.lastPlacements()); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}

	ws := mustPick(t, s, PickActiveWorkspace())
	if got := ws.WindowPositions[2]; got != (WindowPosition{Size: layout.SizeNormal, Rect: want[1].Rect}) {
		t.Fatalf("unexpected stored position for window 2: %+v", got)
	}
	checkMaps(t, s)
}

func TestStore_InitializeTwice(t *testing.T) {
	s := newInitializedStore(t, &recordingBackend{monitors: []platform.Monitor{leftMonitor}})
	_, err := Dispatch(s, InitializeTransform{Monitors: []platform.Monitor{leftMonitor}})
	if !IsInvariantViolation(err) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestStore_FailedTransformRollsBack(t *testing.T) {
	s := newInitializedStore(t, &recordingBackend{monitors: []platform.Monitor{leftMonitor}})
	before := mustPick(t, s, PickActiveWorkspace())
	events := recordEvents(s)

	_, err := Dispatch(s, renameThenFail{WorkspaceID: before.ID})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	after := mustPick(t, s, PickActiveWorkspace())
	if after != before {
		t.Fatalf("workspace changed after a failed transform: %q -> %q", before.Name, after.Name)
	}
	if len(*events) != 0 {
		t.Fatalf("failed transform delivered events: %v", *events)
	}
}

// renameThenFail mutates state through a nested transform and then fails.
type renameThenFail struct {
	WorkspaceID WorkspaceID
}

func (t renameThenFail) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	if _, err := Exec(ctx, ictx, root, RenameWorkspaceTransform{WorkspaceID: t.WorkspaceID, Name: "Renamed"}); err != nil {
		return false, err
	}
	return false, notFound("something missing")
}

func TestStore_NestedFailureKeepsOuterChanges(t *testing.T) {
	s := newInitializedStore(t, &recordingBackend{monitors: []platform.Monitor{leftMonitor}})
	ws := mustPick(t, s, PickActiveWorkspace())

	ok, err := Dispatch(s, renameThenTryMissing{WorkspaceID: ws.ID})
	if err != nil || !ok {
		t.Fatalf("Dispatch = %v, %v", ok, err)
	}
	got := mustPick(t, s, PickWorkspaceByID(ws.ID))
	if got.Name != "Renamed" {
		t.Fatalf("expected outer rename to survive, got %q", got.Name)
	}
}

// renameThenTryMissing renames a workspace, then ignores a failed nested
// transform.
type renameThenTryMissing struct {
	WorkspaceID WorkspaceID
}

func (t renameThenTryMissing) Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (bool, error) {
	if _, err := Exec(ctx, ictx, root, RenameWorkspaceTransform{WorkspaceID: t.WorkspaceID, Name: "Renamed"}); err != nil {
		return false, err
	}
	if _, err := Exec(ctx, ictx, root, ActivateWorkspaceTransform{WorkspaceID: NewWorkspaceID()}); err == nil {
		return false, errors.New("activating an unknown workspace succeeded")
	}
	return true, nil
}

func TestStore_EventsInEnqueueOrder(t *testing.T) {
	s := newInitializedStore(t, &recordingBackend{monitors: []platform.Monitor{leftMonitor}})
	events := recordEvents(s)

	if ok, err := Dispatch(s, WindowAddedTransform{Window: windowInfo(7, "term")}); err != nil || !ok {
		t.Fatalf("WindowAddedTransform = %v, %v", ok, err)
	}

	want := []string{
		"store.WindowAddedEvent",
		"store.WindowRoutedEvent",
		"store.WorkspaceLayoutStartedEvent",
		"store.WorkspaceLayoutCompletedEvent",
	}
	if diff := cmp.Diff(want, *events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SubscriberMayDispatch(t *testing.T) {
	s := newInitializedStore(t, &recordingBackend{monitors: []platform.Monitor{leftMonitor}})
	var focused bool
	s.Subscribe(func(e Event) {
		if added, ok := e.(WindowAddedEvent); ok {
			if _, err := Dispatch(s, WindowFocusedTransform{Handle: added.Window.Handle}); err != nil {
				t.Errorf("nested dispatch: %v", err)
			}
			focused = true
		}
	})
	events := recordEvents(s)

	if _, err := Dispatch(s, WindowAddedTransform{Window: windowInfo(3, "term")}); err != nil {
		t.Fatalf("WindowAddedTransform: %v", err)
	}
	if !focused {
		t.Fatalf("subscriber did not run")
	}
	// The focus transform's event waits for the rest of the add's events.
	want := []string{
		"store.WindowAddedEvent",
		"store.WindowRoutedEvent",
		"store.WorkspaceLayoutStartedEvent",
		"store.WorkspaceLayoutCompletedEvent",
		"store.WindowFocusedEvent",
	}
	if diff := cmp.Diff(want, *events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if got := mustPick(t, s, PickLastFocusedWindow(WorkspaceID{})); got.Handle != 3 {
		t.Fatalf("expected window 3 focused, got %s", got.Handle)
	}
}

func TestStore_ConcurrentDispatchDeliversInCommitOrder(t *testing.T) {
	s := newInitializedStore(t, &recordingBackend{monitors: []platform.Monitor{leftMonitor}})
	var (
		mu    sync.Mutex
		added []platform.WindowHandle
	)
	s.Subscribe(func(e Event) {
		if ev, ok := e.(WindowAddedEvent); ok {
			mu.Lock()
			added = append(added, ev.Window.Handle)
			mu.Unlock()
		}
	})

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(h platform.WindowHandle) {
			defer wg.Done()
			if _, err := Dispatch(s, WindowAddedTransform{Window: windowInfo(h, "term")}); err != nil {
				t.Errorf("WindowAddedTransform(%s): %v", h, err)
			}
		}(platform.WindowHandle(i))
	}
	wg.Wait()

	// Commit order is the order the windows were appended to the engine.
	ws := mustPick(t, s, PickActiveWorkspace())
	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff(ws.ActiveLayoutEngine().Windows(), added); diff != "" {
		t.Fatalf("delivery order differs from commit order (-commit +delivered):\n%s", diff)
	}
}

func TestStore_UnsubscribeStopsDelivery(t *testing.T) {
	s := newInitializedStore(t, &recordingBackend{monitors: []platform.Monitor{leftMonitor}})
	count := 0
	unsubscribe := s.Subscribe(func(Event) { count++ })
	unsubscribe()

	if _, err := Dispatch(s, WindowAddedTransform{Window: windowInfo(3, "term")}); err != nil {
		t.Fatalf("WindowAddedTransform: %v", err)
	}
	if count != 0 {
		t.Fatalf("unsubscribed handler received %d events", count)
	}
}

func TestStore_DispatchAfterClose(t *testing.T) {
	s := New(nil)
	s.Close()
	s.Close()
	if _, err := Dispatch(s, SetFiltersTransform{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestStore_NoOpKeepsWorkspacePointer(t *testing.T) {
	backend := &recordingBackend{
		monitors: []platform.Monitor{leftMonitor},
		windows:  []platform.WindowInfo{windowInfo(1, "a")},
	}
	s := newInitializedStore(t, backend)
	before := mustPick(t, s, PickActiveWorkspace())
	placements, _, _ := backend.calls()

	tests := []struct {
		name string
		run  func() (bool, error)
	}{
		{"same engine index", func() (bool, error) {
			return Dispatch(s, SetLayoutEngineFromIndexTransform{Index: 0})
		}},
		{"same name", func() (bool, error) {
			return Dispatch(s, RenameWorkspaceTransform{WorkspaceID: before.ID, Name: before.Name})
		}},
		{"vertical swap in columns", func() (bool, error) {
			return Dispatch(s, SwapWindowInDirectionTransform{Window: 1, Direction: geometry.DirectionUp})
		}},
		{"activate visible workspace", func() (bool, error) {
			return Dispatch(s, ActivateWorkspaceTransform{WorkspaceID: before.ID})
		}},
		{"unknown custom action", func() (bool, error) {
			return Dispatch(s, LayoutEngineCustomActionTransform{Action: layout.CustomAction{Name: "nothing"}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := tt.run()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if changed {
				t.Fatalf("expected no change")
			}
			if after := mustPick(t, s, PickActiveWorkspace()); after != before {
				t.Fatalf("workspace pointer changed")
			}
		})
	}
	if got, _, _ := backend.calls(); got != placements {
		t.Fatalf("no-ops triggered %d layout passes", got-placements)
	}
}
