package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/hotkeys"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
	"github.com/1broseidon/whim/internal/store"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(data)+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.LayoutEngines[0].Type != EngineTree {
		t.Fatalf("expected tree to be the first engine, got %q", cfg.LayoutEngines[0].Type)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), res.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_EngineDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
layout_engines:
  - type: column
    left_to_right: false
  - type: tree
    name: Splits
    add_direction: down
  - type: focus
reconcile_interval: 30s
move_mode_timeout: 5s
`)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []EngineConfig{
		{Type: EngineColumn, Name: "Column", LeftToRight: false},
		{Type: EngineTree, Name: "Splits", AddDirection: "down"},
		{Type: EngineFocus, Name: "Focus"},
	}
	if diff := cmp.Diff(want, res.Config.LayoutEngines); diff != "" {
		t.Fatalf("engines mismatch (-want +got):\n%s", diff)
	}
	if res.Config.ReconcileInterval != 30*time.Second {
		t.Fatalf("expected reconcile_interval 30s, got %s", res.Config.ReconcileInterval)
	}
	if res.Config.MoveModeTimeout != 5*time.Second || res.Config.ResizeStep != 40 {
		t.Fatalf("expected move mode 5s/40px, got %s/%d", res.Config.MoveModeTimeout, res.Config.ResizeStep)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", `
gaps:
  outer: 5
  inner: 3
filters:
  - process: polybar
`)
	writeConfig(t, configD, "20-override.yaml", "gaps:\n  outer: 6")

	path := writeConfig(t, dir, "config.yaml", `
include:
  - config.d
gaps:
  outer: 7
filters:
  - title: Picture-in-Picture
`)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := (Gaps{Outer: 7, Inner: 3}); res.Config.Gaps != want {
		t.Fatalf("expected gaps %+v, got %+v", want, res.Config.Gaps)
	}
	wantFilters := []store.Filter{{Process: "polybar"}, {Title: "Picture-in-Picture"}}
	if diff := cmp.Diff(wantFilters, res.Config.Filters); diff != "" {
		t.Fatalf("filters mismatch (-want +got):\n%s", diff)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_SharedIncludeReadOnce(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "common.yaml", "filters:\n  - process: polybar")
	writeConfig(t, dir, "a.yaml", "include: common.yaml")
	writeConfig(t, dir, "b.yaml", "include: common.yaml\ngaps:\n  inner: 4")
	path := writeConfig(t, dir, "config.yaml", "include: [a.yaml, b.yaml]")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]store.Filter{{Process: "polybar"}}, res.Config.Filters); diff != "" {
		t.Fatalf("filters mismatch (-want +got):\n%s", diff)
	}
	var names []string
	for _, f := range res.Files {
		names = append(names, filepath.Base(f))
	}
	if diff := cmp.Diff([]string{"common.yaml", "a.yaml", "b.yaml", "config.yaml"}, names); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if src := res.Sources["gaps.inner"]; filepath.Base(src.File) != "b.yaml" || src.Line != 3 {
		t.Fatalf("unexpected source for gaps.inner: %+v", src)
	}
}

func TestLoadFromPath_ScalarIncludeErrorPosition(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "gaps:\n  outer: 1\ninclude: gone.yaml")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), ":3:10: include \"gone.yaml\"") {
		t.Fatalf("expected include error at 3:10, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml")
	writeConfig(t, dir, "b.yaml", "include: a.yaml")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
workspaces:
  - name: Main
routes:
  - process: firefox
    workspace: Web
`)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Path != "routes[0].workspace" {
		t.Fatalf("expected path routes[0].workspace, got %q", verr.Path)
	}
	if verr.Source.Line != 5 || verr.Source.Column != 16 {
		t.Fatalf("expected source 5:16, got %d:%d", verr.Source.Line, verr.Source.Column)
	}
	if !strings.HasSuffix(verr.Source.File, "config.yaml") {
		t.Fatalf("expected source file config.yaml, got %q", verr.Source.File)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		path string
	}{
		{"log level", "log_level: loud", "log_level"},
		{"engine without type", "layout_engines:\n  - name: x", "layout_engines[0].type"},
		{"unknown engine", "layout_engines:\n  - type: spiral", "layout_engines[0].type"},
		{"diagonal tree direction", "layout_engines:\n  - type: tree\n    add_direction: left-up", "layout_engines[0].add_direction"},
		{"direction on column", "layout_engines:\n  - type: column\n    add_direction: left", "layout_engines[0].add_direction"},
		{"duplicate engine names", "layout_engines:\n  - type: column\n  - type: column", "layout_engines[1].name"},
		{"empty engine list", "layout_engines: []", "layout_engines"},
		{"duplicate workspace", "workspaces:\n  - name: Main\n  - name: main", "workspaces[1].name"},
		{"unnamed workspace", "workspaces:\n  - layout_engines:\n      - type: free", "workspaces[0].name"},
		{"negative gaps", "gaps:\n  inner: -1", "gaps"},
		{"empty filter", "filters:\n  - {}", "filters[0]"},
		{"route without process", "routes:\n  - workspace: Main", "routes[0].process"},
		{"unknown key command", "keybindings:\n  - keys: Mod4-x\n    command: explode", "keybindings[0]"},
		{"key command arity", "keybindings:\n  - keys: Mod4-h\n    command: focus", "keybindings[0]"},
		{"diagonal focus", "keybindings:\n  - keys: Mod4-h\n    command: focus\n    args: [up-left]", "keybindings[0]"},
		{"negative move mode timeout", "move_mode_timeout: -1s", "move_mode_timeout"},
		{"negative resize step", "resize_step: -5", "resize_step"},
		{"duplicate keys", "keybindings:\n  - keys: Mod4-h\n    command: next_workspace\n  - keys: Mod4-h\n    command: previous_workspace", "keybindings[1].keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", tt.yaml)
			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
gaps:
  outer: 12
layout_engines:
  - type: tree
    add_direction: up
`)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		path string
		want any
		kind SourceKind
		line int
	}{
		{"gaps.outer", 12, SourceFile, 2},
		{"gaps.inner", 0, SourceDefault, 0},
		{"layout_engines[0].add_direction", "up", SourceFile, 5},
		{"layout_engines[0].name", "Tree", SourceDefault, 0},
		{"log_level", "info", SourceDefault, 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			val, src, err := Explain(res, tt.path)
			if err != nil {
				t.Fatalf("explain: %v", err)
			}
			if val != tt.want {
				t.Fatalf("expected value %#v, got %#v", tt.want, val)
			}
			if src.Kind != tt.kind || src.Line != tt.line {
				t.Fatalf("expected source %s line %d, got %#v", tt.kind, tt.line, src)
			}
		})
	}

	if _, _, err := Explain(res, "layout_engines[3].name"); err == nil {
		t.Fatalf("expected error for out of range index")
	}
}

func TestWriteDefault_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whim", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("write default: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), res.Config, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if err := WriteDefault(path); err == nil {
		t.Fatalf("expected error when the file already exists")
	}
}

func TestApply(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
layout_engines:
  - type: column
  - type: tree
workspaces:
  - name: Main
  - name: Chat
    layout_engines:
      - type: focus
gaps:
  outer: 10
routes:
  - process: slack
    workspace: Chat
`)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	monitor := platform.Monitor{
		Handle:      1,
		Bounds:      geometry.Rect{Width: 1000, Height: 800},
		WorkingArea: geometry.Rect{Width: 1000, Height: 800},
		IsPrimary:   true,
	}
	s := store.New(&platform.NopBackend{MonitorList: []platform.Monitor{monitor}})
	t.Cleanup(s.Close)

	if err := Apply(s, res.Config); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := s.Initialize(nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	engineName := func(name string) string {
		t.Helper()
		ws, err := store.Pick(s, store.PickWorkspaceByName(name))
		if err != nil {
			t.Fatalf("pick %q: %v", name, err)
		}
		return ws.ActiveLayoutEngine().Name()
	}
	if got := engineName("Main"); got != "Column" {
		t.Fatalf("expected Main to start with Column, got %q", got)
	}
	if got := engineName("Chat"); got != "Focus" {
		t.Fatalf("expected Chat to start with Focus, got %q", got)
	}

	res.Config.Gaps = Gaps{Outer: 4, Inner: 2}
	if err := Reload(s, res.Config); err != nil {
		t.Fatalf("reload: %v", err)
	}
	engine, err := store.Pick(s, store.PickActiveLayoutEngine(store.WorkspaceID{}))
	if err != nil {
		t.Fatalf("pick engine: %v", err)
	}
	gaps, ok := engine.(*layout.GapsEngine)
	if !ok {
		t.Fatalf("expected the active engine to be wrapped in gaps, got %T", engine)
	}
	if want := (layout.Gaps{Outer: 4, Inner: 2}); gaps.Gaps() != want {
		t.Fatalf("expected gaps %+v, got %+v", want, gaps.Gaps())
	}
}

func TestLoadFromPath_KeybindingsReplaceIncluded(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "keys.yaml", `
keybindings:
  - keys: Mod4-l
    command: focus
    args: [right]
`)
	path := writeConfig(t, dir, "config.yaml", `
include: keys.yaml
keybindings:
  - keys: Mod4-Tab
    command: next_layout_engine
`)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []hotkeys.Binding{{Keys: "Mod4-Tab", Command: "next_layout_engine"}}
	if diff := cmp.Diff(want, res.Config.Keybindings); diff != "" {
		t.Fatalf("keybindings mismatch (-want +got):\n%s", diff)
	}
}
