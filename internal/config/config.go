package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/hotkeys"
	"github.com/1broseidon/whim/internal/store"
)

// EngineType selects a layout engine implementation.
type EngineType string

const (
	EngineColumn EngineType = "column" // Side-by-side columns of equal width.
	EngineFocus  EngineType = "focus"  // One window at a time.
	EngineFree   EngineType = "free"   // Floating, user-sized windows.
	EngineTree   EngineType = "tree"   // Nested splits with weights.
)

// EngineConfig describes one layout engine offered by a workspace.
type EngineConfig struct {
	Type EngineType `yaml:"type"`
	Name string     `yaml:"name"`
	// LeftToRight orders column engines.
	LeftToRight bool `yaml:"left_to_right,omitempty"`
	// Maximize asks the window manager to maximize the focused window of a
	// focus engine.
	Maximize bool `yaml:"maximize,omitempty"`
	// AddDirection is where a tree engine inserts new windows relative to
	// the focused one: left, right, up or down.
	AddDirection string `yaml:"add_direction,omitempty"`
}

// WorkspaceConfig is a workspace created at startup.
type WorkspaceConfig struct {
	Name string `yaml:"name"`
	// LayoutEngines overrides the global engine list when set.
	LayoutEngines []EngineConfig `yaml:"layout_engines,omitempty"`
}

// Gaps are pixel insets between windows and around the monitor edge.
type Gaps struct {
	Outer int `yaml:"outer"`
	Inner int `yaml:"inner"`
}

// Config is the effective whim configuration.
type Config struct {
	LogLevel          string            `yaml:"log_level"`
	LayoutEngines     []EngineConfig    `yaml:"layout_engines"`
	Workspaces        []WorkspaceConfig `yaml:"workspaces"`
	Gaps              Gaps              `yaml:"gaps"`
	Filters           []store.Filter    `yaml:"filters"`
	Routes            []store.Route     `yaml:"routes"`
	SaveState         bool              `yaml:"save_state"`
	ReconcileInterval time.Duration     `yaml:"reconcile_interval"`
	Keybindings       []hotkeys.Binding `yaml:"keybindings"`
	MoveModeTimeout   time.Duration     `yaml:"move_mode_timeout"`
	ResizeStep        int               `yaml:"resize_step"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:          "info",
		LayoutEngines:     DefaultEngines(),
		SaveState:         true,
		ReconcileInterval: 10 * time.Second,
		MoveModeTimeout:   10 * time.Second,
		ResizeStep:        40,
	}
}

// Validate checks the effective config. Errors are *ValidationError values
// carrying the offending YAML path.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if len(c.LayoutEngines) == 0 {
		return &ValidationError{Path: "layout_engines", Err: fmt.Errorf("layout_engines must not be empty")}
	}
	if err := validateEngines("layout_engines", c.LayoutEngines); err != nil {
		return err
	}
	if c.Gaps.Outer < 0 || c.Gaps.Inner < 0 {
		return &ValidationError{Path: "gaps", Err: fmt.Errorf("gaps must be >= 0")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}
	if c.MoveModeTimeout < 0 {
		return &ValidationError{Path: "move_mode_timeout", Err: fmt.Errorf("move_mode_timeout must be >= 0")}
	}
	if c.ResizeStep < 0 {
		return &ValidationError{Path: "resize_step", Err: fmt.Errorf("resize_step must be >= 0")}
	}

	seen := make(map[string]int, len(c.Workspaces))
	for i, ws := range c.Workspaces {
		path := fmt.Sprintf("workspaces[%d]", i)
		name := strings.TrimSpace(ws.Name)
		if name == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("workspace name is required")}
		}
		if prev, ok := seen[strings.ToLower(name)]; ok {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("workspace %q duplicates workspaces[%d]", name, prev)}
		}
		seen[strings.ToLower(name)] = i
		if err := validateEngines(path+".layout_engines", ws.LayoutEngines); err != nil {
			return err
		}
	}

	for i, f := range c.Filters {
		if strings.TrimSpace(f.Process) == "" && strings.TrimSpace(f.Title) == "" {
			return &ValidationError{Path: fmt.Sprintf("filters[%d]", i), Err: fmt.Errorf("filter needs a process or a title")}
		}
	}
	for i, r := range c.Routes {
		path := fmt.Sprintf("routes[%d]", i)
		if strings.TrimSpace(r.Process) == "" {
			return &ValidationError{Path: path + ".process", Err: fmt.Errorf("route process is required")}
		}
		if strings.TrimSpace(r.Workspace) == "" {
			return &ValidationError{Path: path + ".workspace", Err: fmt.Errorf("route workspace is required")}
		}
		if len(c.Workspaces) > 0 {
			if _, ok := seen[strings.ToLower(strings.TrimSpace(r.Workspace))]; !ok {
				return &ValidationError{Path: path + ".workspace", Err: fmt.Errorf("workspace %q is not configured", r.Workspace)}
			}
		}
	}

	keys := make(map[string]int, len(c.Keybindings))
	for i, b := range c.Keybindings {
		path := fmt.Sprintf("keybindings[%d]", i)
		if _, err := hotkeys.Parse(b); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
		if prev, ok := keys[b.Keys]; ok {
			return &ValidationError{Path: path + ".keys", Err: fmt.Errorf("%s is already bound by keybindings[%d]", b.Keys, prev)}
		}
		keys[b.Keys] = i
	}
	return nil
}

func validateEngines(prefix string, engines []EngineConfig) error {
	names := make(map[string]struct{}, len(engines))
	for i, e := range engines {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		switch e.Type {
		case EngineColumn, EngineFocus, EngineFree:
			if e.AddDirection != "" {
				return &ValidationError{Path: path + ".add_direction", Err: fmt.Errorf("add_direction only applies to tree engines")}
			}
		case EngineTree:
			dir, err := geometry.ParseDirection(e.AddDirection)
			if err != nil {
				return &ValidationError{Path: path + ".add_direction", Err: err}
			}
			if !dir.IsHorizontal() && !dir.IsVertical() {
				return &ValidationError{Path: path + ".add_direction", Err: fmt.Errorf("add_direction must be one of: left, right, up, down")}
			}
		default:
			return &ValidationError{Path: path + ".type", Err: fmt.Errorf("type must be one of: column, focus, free, tree")}
		}
		if e.Name == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("name must not be empty")}
		}
		if _, ok := names[e.Name]; ok {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("engine name %q is used twice", e.Name)}
		}
		names[e.Name] = struct{}{}
	}
	return nil
}

// WriteDefault writes the default config to path unless a file exists.
func WriteDefault(path string) error {
	if exists, err := pathExists(path); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
