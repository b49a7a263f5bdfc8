package palette

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/whim/internal/ipc"
)

type fakeDaemon struct {
	calls   []string
	changed bool
	err     error
}

func (f *fakeDaemon) record(format string, args ...any) (bool, error) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.changed, f.err
}

func (f *fakeDaemon) ListWorkspaces() (*ipc.WorkspacesData, error) {
	return &ipc.WorkspacesData{}, nil
}

func (f *fakeDaemon) ActivateWorkspace(name string) (bool, error) {
	return f.record("activate %s", name)
}

func (f *fakeDaemon) MoveWindow(workspace string, window uint64) (bool, error) {
	return f.record("move %s %d", workspace, window)
}

func (f *fakeDaemon) CycleLayoutEngine(workspace string, reverse bool) (bool, error) {
	return f.record("cycle %q %v", workspace, reverse)
}

func (f *fakeDaemon) LayoutCustomAction(p ipc.CustomActionPayload) (bool, error) {
	return f.record("action %s %s", p.Action, p.Direction)
}

func (f *fakeDaemon) Reload() error {
	_, err := f.record("reload")
	return err
}

func (f *fakeDaemon) SaveState() error {
	_, err := f.record("save-state")
	return err
}

var testWorkspaces = []ipc.WorkspaceInfo{
	{Name: "Main", LayoutEngine: "Column", Windows: 2, Active: true},
	{Name: "Chat", LayoutEngine: "Focus", Windows: 1},
}

func TestBuildMenu(t *testing.T) {
	items := BuildMenu(testWorkspaces)

	var actions []string
	var walk func([]MenuItem)
	walk = func(items []MenuItem) {
		for _, item := range items {
			if item.Action != "" {
				actions = append(actions, item.Action)
			}
			walk(item.Submenu)
		}
	}
	walk(items)

	want := []string{
		"workspace:Main",
		"workspace:Chat",
		"move:Chat",
		"engine:next",
		"engine:previous",
		"layout:column.toggle_direction",
		"layout:focus.toggle_maximized",
		"layout:tree.add_phantom",
		"layout:tree.remove_phantom",
		"layout:tree.set_add_direction:left",
		"layout:tree.set_add_direction:right",
		"layout:tree.set_add_direction:up",
		"layout:tree.set_add_direction:down",
		"reload",
		"save-state",
	}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if !items[1].IsActive || items[2].IsActive {
		t.Fatalf("expected only Main to be marked active")
	}
	if items[1].Label != "Main  [Column]  2 windows" {
		t.Fatalf("unexpected workspace label %q", items[1].Label)
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		res      MenuResult
		wantCall string
		wantText string
	}{
		{MenuResult{Action: "workspace:Chat"}, "activate Chat", "activated Chat"},
		{MenuResult{Action: "workspace:Chat", ExitCode: ExitCustom1}, "move Chat 0", "moved window to Chat"},
		{MenuResult{Action: "move:Chat"}, "move Chat 0", "moved window to Chat"},
		{MenuResult{Action: "engine:next"}, `cycle "" false`, "next layout engine"},
		{MenuResult{Action: "engine:previous"}, `cycle "" true`, "previous layout engine"},
		{MenuResult{Action: "layout:tree.set_add_direction:up"}, "action tree.set_add_direction up", "tree.set_add_direction:up"},
		{MenuResult{Action: "layout:focus.toggle_maximized"}, "action focus.toggle_maximized ", "focus.toggle_maximized"},
		{MenuResult{Action: "reload"}, "reload", "config reloaded"},
		{MenuResult{Action: "save-state"}, "save-state", "state saved"},
	}
	for _, tt := range tests {
		t.Run(tt.res.Action, func(t *testing.T) {
			d := &fakeDaemon{changed: true}
			text, err := Execute(d, tt.res)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if text != tt.wantText {
				t.Fatalf("expected %q, got %q", tt.wantText, text)
			}
			if diff := cmp.Diff([]string{tt.wantCall}, d.calls); diff != "" {
				t.Fatalf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecute_Unchanged(t *testing.T) {
	text, err := Execute(&fakeDaemon{}, MenuResult{Action: "workspace:Main"})
	if err != nil || text != "nothing changed" {
		t.Fatalf("expected nothing changed, got %q (%v)", text, err)
	}
}

func TestExecute_Errors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Execute(&fakeDaemon{err: boom}, MenuResult{Action: "move:Chat"}); !errors.Is(err, boom) {
		t.Fatalf("expected daemon error, got %v", err)
	}
	for _, action := range []string{"engine:sideways", "explode"} {
		if _, err := Execute(&fakeDaemon{}, MenuResult{Action: action}); err == nil {
			t.Fatalf("expected %q to fail", action)
		}
	}
}
