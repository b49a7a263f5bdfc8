package movemode

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
	"github.com/1broseidon/whim/internal/store"
)

type frame struct {
	rect     geometry.Rect
	color    uint32
	hint     []string
	hintRect geometry.Rect
}

// fakeModal records grabs and overlay frames.
type fakeModal struct {
	mu      sync.Mutex
	onKey   func(platform.Key)
	grabbed bool
	grabErr error
	frames  []frame
	hidden  int
}

func (f *fakeModal) GrabKeyboard(onKey func(platform.Key)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.grabErr != nil {
		return f.grabErr
	}
	f.onKey = onKey
	f.grabbed = true
	return nil
}

func (f *fakeModal) UngrabKeyboard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onKey = nil
	f.grabbed = false
}

func (f *fakeModal) ShowOverlay(rect geometry.Rect, color uint32, hint []string, hintRect geometry.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame{rect: rect, color: color, hint: hint, hintRect: hintRect})
	return nil
}

func (f *fakeModal) HideOverlay() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden++
}

func (f *fakeModal) press(k platform.Key) {
	f.mu.Lock()
	onKey := f.onKey
	f.mu.Unlock()
	if onKey != nil {
		onKey(k)
	}
}

func (f *fakeModal) isGrabbed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grabbed
}

func (f *fakeModal) lastFrame(t *testing.T) frame {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		t.Fatalf("no overlay frame drawn")
	}
	return f.frames[len(f.frames)-1]
}

// focusBackend records native focus requests.
type focusBackend struct {
	platform.NopBackend
	mu      sync.Mutex
	focused []platform.WindowHandle
}

func (b *focusBackend) FocusWindow(handle platform.WindowHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = append(b.focused, handle)
	return nil
}

func (b *focusBackend) lastFocused() platform.WindowHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.focused) == 0 {
		return 0
	}
	return b.focused[len(b.focused)-1]
}

// newStore returns a store with three windows side by side in columns on
// a single 1920x1080 monitor.
func newStore(t *testing.T) (*store.Store, *focusBackend) {
	t.Helper()
	backend := &focusBackend{NopBackend: platform.NopBackend{MonitorList: []platform.Monitor{{
		Handle:      1,
		Name:        "DP-1",
		Bounds:      geometry.Rect{Width: 1920, Height: 1080},
		WorkingArea: geometry.Rect{Width: 1920, Height: 1080},
		IsPrimary:   true,
	}}}}
	s := store.New(backend)
	t.Cleanup(s.Close)

	creators := []layout.Creator{layout.ColumnCreator("Column", true)}
	if _, err := store.Dispatch(s, store.SetCreateLayoutEnginesTransform{Creators: creators}); err != nil {
		t.Fatalf("register creators: %v", err)
	}
	if _, err := store.Dispatch(s, store.AddWorkspaceTransform{Name: "Main"}); err != nil {
		t.Fatalf("add workspace: %v", err)
	}
	if err := s.Initialize(nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	for _, h := range []platform.WindowHandle{1, 2, 3} {
		info := platform.WindowInfo{Handle: h, PID: int(h) + 100, ProcessName: "term", Title: fmt.Sprintf("term %d", h)}
		if _, err := store.Dispatch(s, store.WindowAddedTransform{Window: info}); err != nil {
			t.Fatalf("add window %s: %v", h, err)
		}
	}
	return s, backend
}

func focus(t *testing.T, s *store.Store, h platform.WindowHandle) {
	t.Helper()
	if _, err := store.Dispatch(s, store.WindowFocusedTransform{Handle: h}); err != nil {
		t.Fatalf("focus %s: %v", h, err)
	}
}

func positions(t *testing.T, s *store.Store) map[platform.WindowHandle]geometry.Rect {
	t.Helper()
	ws, err := store.Pick(s, store.PickActiveWorkspace())
	if err != nil {
		t.Fatalf("pick active workspace: %v", err)
	}
	out := make(map[platform.WindowHandle]geometry.Rect, len(ws.WindowPositions))
	for h, pos := range ws.WindowPositions {
		out[h] = pos.Rect
	}
	return out
}

// leftToRight returns the window handles ordered by their left edge.
func leftToRight(t *testing.T, s *store.Store) []platform.WindowHandle {
	t.Helper()
	rects := positions(t, s)
	handles := make([]platform.WindowHandle, 0, len(rects))
	for h := range rects {
		handles = append(handles, h)
	}
	slices.SortFunc(handles, func(a, b platform.WindowHandle) int { return rects[a].X - rects[b].X })
	if len(handles) != 3 {
		t.Fatalf("expected 3 placed windows, got %d", len(handles))
	}
	return handles
}

func enteredMode(t *testing.T, opts Options) (*Mode, *fakeModal, *store.Store, *focusBackend, []platform.WindowHandle) {
	t.Helper()
	s, backend := newStore(t)
	order := leftToRight(t, s)
	focus(t, s, order[0])

	modal := &fakeModal{}
	m := New(s, modal, opts)
	if err := m.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	t.Cleanup(m.Exit)
	return m, modal, s, backend, order
}

func TestEnter_RequiresFocusedWindow(t *testing.T) {
	s, _ := newStore(t)
	modal := &fakeModal{}
	m := New(s, modal, Options{})

	if err := m.Enter(); err == nil {
		t.Fatalf("expected an error without a focused window")
	}
	if modal.isGrabbed() || m.Active() {
		t.Fatalf("mode should stay inactive")
	}
}

func TestEnter_ReportsGrabFailure(t *testing.T) {
	s, _ := newStore(t)
	focus(t, s, 1)
	grabErr := errors.New("already grabbed")
	m := New(s, &fakeModal{grabErr: grabErr}, Options{})

	if err := m.Enter(); !errors.Is(err, grabErr) {
		t.Fatalf("expected grab error, got %v", err)
	}
	if m.Active() {
		t.Fatalf("mode should stay inactive")
	}
}

func TestEnter_OutlinesFocusedWindow(t *testing.T) {
	m, modal, s, _, order := enteredMode(t, Options{})

	if got := m.State().Phase; got != PhaseSelecting {
		t.Fatalf("expected selecting phase, got %s", got)
	}
	if !modal.isGrabbed() {
		t.Fatalf("keyboard not grabbed")
	}
	f := modal.lastFrame(t)
	if want := positions(t, s)[order[0]]; f.rect != want {
		t.Fatalf("overlay rect = %+v, want %+v", f.rect, want)
	}
	if f.color != ColorSelection {
		t.Fatalf("overlay color = %#x, want %#x", f.color, ColorSelection)
	}
	if !strings.Contains(strings.Join(f.hint, "\n"), "select window") {
		t.Fatalf("unexpected hint: %q", f.hint)
	}
	if f.hintRect.Empty() || rectsIntersect(f.hintRect, f.rect) {
		t.Fatalf("hint %+v should sit clear of %+v", f.hintRect, f.rect)
	}
}

func TestEnter_TwiceIsNoOp(t *testing.T) {
	m, modal, _, _, _ := enteredMode(t, Options{})
	before := len(modal.frames)
	if err := m.Enter(); err != nil {
		t.Fatalf("second Enter: %v", err)
	}
	if len(modal.frames) != before {
		t.Fatalf("second Enter redrew the overlay")
	}
}

func TestSelecting_ArrowMovesFocus(t *testing.T) {
	_, modal, s, backend, order := enteredMode(t, Options{})

	modal.press(platform.Key{Name: "Right"})
	if got := backend.lastFocused(); got != order[1] {
		t.Fatalf("focus requested for %s, want %s", got, order[1])
	}

	// The native focus event moves the outline.
	focus(t, s, order[1])
	if got, want := modal.lastFrame(t).rect, positions(t, s)[order[1]]; got != want {
		t.Fatalf("overlay rect = %+v, want %+v", got, want)
	}
}

func TestGrabbed_ArrowSwapsWindow(t *testing.T) {
	m, modal, s, _, order := enteredMode(t, Options{})
	before := positions(t, s)

	modal.press(platform.Key{Name: "Return"})
	st := m.State()
	if st.Phase != PhaseGrabbed || st.Grabbed != order[0] {
		t.Fatalf("expected %s grabbed, got %+v", order[0], st)
	}
	if got := modal.lastFrame(t).color; got != ColorGrabbed {
		t.Fatalf("overlay color = %#x, want %#x", got, ColorGrabbed)
	}

	modal.press(platform.Key{Name: "l"})
	after := positions(t, s)
	if after[order[0]] != before[order[1]] || after[order[1]] != before[order[0]] {
		t.Fatalf("windows not swapped: before %v after %v", before, after)
	}
	if got := modal.lastFrame(t).rect; got != after[order[0]] {
		t.Fatalf("overlay should follow the grabbed window, got %+v", got)
	}

	modal.press(platform.Key{Name: "Return"})
	if m.Active() || modal.isGrabbed() {
		t.Fatalf("Enter on a grabbed window should leave move mode")
	}
}

func TestGrabbed_WindowRemovedExits(t *testing.T) {
	m, modal, s, _, order := enteredMode(t, Options{})
	modal.press(platform.Key{Name: "Return"})

	if _, err := store.Dispatch(s, store.WindowRemovedTransform{Handle: order[0]}); err != nil {
		t.Fatalf("remove window: %v", err)
	}
	if m.Active() || modal.isGrabbed() {
		t.Fatalf("mode should exit when the grabbed window goes away")
	}
}

func TestEscapeExits(t *testing.T) {
	m, modal, _, backend, _ := enteredMode(t, Options{})

	modal.press(platform.Key{Name: "Escape"})
	if m.Active() || modal.isGrabbed() {
		t.Fatalf("Escape should leave move mode")
	}
	if modal.hidden == 0 {
		t.Fatalf("overlay not hidden")
	}

	before := backend.lastFocused()
	modal.press(platform.Key{Name: "Right"})
	if backend.lastFocused() != before {
		t.Fatalf("keys after exit should be ignored")
	}
}

func TestTimeoutExits(t *testing.T) {
	m, modal, _, _, _ := enteredMode(t, Options{Timeout: 20 * time.Millisecond})

	deadline := time.Now().Add(2 * time.Second)
	for m.Active() {
		if time.Now().After(deadline) {
			t.Fatalf("move mode did not time out")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if modal.isGrabbed() {
		t.Fatalf("keyboard still grabbed after timeout")
	}
}
