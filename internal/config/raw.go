package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/whim/internal/hotkeys"
	"github.com/1broseidon/whim/internal/store"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawEngine struct {
	Type         *EngineType `yaml:"type"`
	Name         *string     `yaml:"name"`
	LeftToRight  *bool       `yaml:"left_to_right"`
	Maximize     *bool       `yaml:"maximize"`
	AddDirection *string     `yaml:"add_direction"`
}

type RawWorkspace struct {
	Name          *string     `yaml:"name"`
	LayoutEngines []RawEngine `yaml:"layout_engines"`
}

type RawGaps struct {
	Outer *int `yaml:"outer"`
	Inner *int `yaml:"inner"`
}

// RawConfig mirrors the YAML file. Pointer and nil-slice fields distinguish
// unset keys from zero values so includes merge predictably.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	LogLevel          *string        `yaml:"log_level"`
	LayoutEngines     []RawEngine    `yaml:"layout_engines"`
	Workspaces        []RawWorkspace `yaml:"workspaces"`
	Gaps              *RawGaps       `yaml:"gaps"`
	Filters           []store.Filter `yaml:"filters"`
	Routes            []store.Route  `yaml:"routes"`
	SaveState         *bool          `yaml:"save_state"`
	ReconcileInterval *time.Duration `yaml:"reconcile_interval"`
	// Keybindings replace the inherited list when set.
	Keybindings     []hotkeys.Binding `yaml:"keybindings"`
	MoveModeTimeout *time.Duration    `yaml:"move_mode_timeout"`
	ResizeStep      *int              `yaml:"resize_step"`
}

// merge overlays o on r. Scalars and engine or workspace lists are replaced
// when set in o; filters and routes accumulate.
func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r
	out.Include = nil

	if o.LogLevel != nil {
		out.LogLevel = o.LogLevel
	}
	if o.LayoutEngines != nil {
		out.LayoutEngines = o.LayoutEngines
	}
	if o.Workspaces != nil {
		out.Workspaces = o.Workspaces
	}
	if o.Gaps != nil {
		gaps := RawGaps{}
		if out.Gaps != nil {
			gaps = *out.Gaps
		}
		if o.Gaps.Outer != nil {
			gaps.Outer = o.Gaps.Outer
		}
		if o.Gaps.Inner != nil {
			gaps.Inner = o.Gaps.Inner
		}
		out.Gaps = &gaps
	}
	if o.Filters != nil {
		out.Filters = append(append([]store.Filter(nil), out.Filters...), o.Filters...)
	}
	if o.Routes != nil {
		out.Routes = append(append([]store.Route(nil), out.Routes...), o.Routes...)
	}
	if o.SaveState != nil {
		out.SaveState = o.SaveState
	}
	if o.ReconcileInterval != nil {
		out.ReconcileInterval = o.ReconcileInterval
	}
	if o.Keybindings != nil {
		out.Keybindings = o.Keybindings
	}
	if o.MoveModeTimeout != nil {
		out.MoveModeTimeout = o.MoveModeTimeout
	}
	if o.ResizeStep != nil {
		out.ResizeStep = o.ResizeStep
	}
	return out
}
