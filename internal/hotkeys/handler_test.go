package hotkeys

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeGrabber struct {
	calls int
	binds map[string]func()
	err   error
}

func (g *fakeGrabber) BindKeys(bindings map[string]func()) error {
	g.calls++
	g.binds = bindings
	return g.err
}

func (g *fakeGrabber) keys() []string {
	out := make([]string, 0, len(g.binds))
	for k := range g.binds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestHandler_ApplyInstallsValidBindings(t *testing.T) {
	s := newStore(t)
	grabber := &fakeGrabber{}
	h := NewHandler(s, grabber, nil)

	err := h.Apply([]Binding{
		{Keys: "Mod4-n", Command: "next_workspace"},
		{Keys: "Mod4-x", Command: "explode"},
		{Keys: "Mod4-n", Command: "previous_workspace"},
		{Keys: "Mod4-Tab", Command: "next_layout_engine"},
	})
	if err == nil {
		t.Fatalf("expected invalid and duplicate bindings to be reported")
	}
	if diff := cmp.Diff([]string{"Mod4-Tab", "Mod4-n"}, grabber.keys()); diff != "" {
		t.Fatalf("grabbed keys mismatch (-want +got):\n%s", diff)
	}

	grabber.binds["Mod4-n"]()
	if got := activeWorkspace(t, s); got != "Chat" {
		t.Fatalf("expected Mod4-n to run next_workspace, got active %q", got)
	}
}

func TestHandler_ApplyReplacesBindings(t *testing.T) {
	grabber := &fakeGrabber{}
	h := NewHandler(newStore(t), grabber, nil)

	if err := h.Apply([]Binding{{Keys: "Mod4-n", Command: "next_workspace"}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := h.Apply(nil); err != nil {
		t.Fatalf("apply empty: %v", err)
	}
	if grabber.calls != 2 || len(grabber.binds) != 0 {
		t.Fatalf("expected the second apply to clear grabs, calls=%d binds=%v", grabber.calls, grabber.keys())
	}
}

func TestHandler_ApplyReportsGrabErrors(t *testing.T) {
	grabErr := errors.New("grab failed")
	h := NewHandler(newStore(t), &fakeGrabber{err: grabErr}, nil)

	err := h.Apply([]Binding{{Keys: "Mod4-n", Command: "next_workspace"}})
	if !errors.Is(err, grabErr) {
		t.Fatalf("expected grab error, got %v", err)
	}
}

func TestHandler_FailedCommandDoesNotPanic(t *testing.T) {
	grabber := &fakeGrabber{}
	h := NewHandler(newStore(t), grabber, nil)
	if err := h.Apply([]Binding{{Keys: "Mod4-9", Command: "activate_workspace", Args: []string{"Nope"}}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	grabber.binds["Mod4-9"]()
}

func TestHandler_MoveModeBinding(t *testing.T) {
	s := newStore(t)
	grabber := &fakeGrabber{}
	h := NewHandler(s, grabber, nil)

	if err := h.Apply([]Binding{{Keys: "Mod4-m", Command: "move_mode"}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	action, err := Parse(Binding{Keys: "Mod4-m", Command: "move_mode"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := action(s); !errors.Is(err, ErrMoveModeUnavailable) {
		t.Fatalf("expected ErrMoveModeUnavailable, got %v", err)
	}

	entered := 0
	h.SetMoveMode(func() error {
		entered++
		return nil
	})
	if err := h.Apply([]Binding{{Keys: "Mod4-m", Command: "Move_Mode"}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	grabber.binds["Mod4-m"]()
	if entered != 1 {
		t.Fatalf("expected move mode entered once, got %d", entered)
	}
}
