package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.LayoutEngines != nil {
		engines, err := buildEngines("layout_engines", raw.LayoutEngines)
		if err != nil {
			return nil, err
		}
		cfg.LayoutEngines = engines
	}
	for i, rw := range raw.Workspaces {
		path := fmt.Sprintf("workspaces[%d]", i)
		ws := WorkspaceConfig{}
		if rw.Name != nil {
			ws.Name = strings.TrimSpace(*rw.Name)
		}
		if rw.LayoutEngines != nil {
			engines, err := buildEngines(path+".layout_engines", rw.LayoutEngines)
			if err != nil {
				return nil, err
			}
			if len(engines) == 0 {
				return nil, &ValidationError{Path: path + ".layout_engines", Err: fmt.Errorf("layout_engines must not be empty when set")}
			}
			ws.LayoutEngines = engines
		}
		cfg.Workspaces = append(cfg.Workspaces, ws)
	}
	if raw.Gaps != nil {
		cfg.Gaps.Outer = derefInt(raw.Gaps.Outer, cfg.Gaps.Outer)
		cfg.Gaps.Inner = derefInt(raw.Gaps.Inner, cfg.Gaps.Inner)
	}
	if raw.Filters != nil {
		cfg.Filters = raw.Filters
	}
	if raw.Routes != nil {
		cfg.Routes = raw.Routes
	}
	if raw.SaveState != nil {
		cfg.SaveState = *raw.SaveState
	}
	if raw.ReconcileInterval != nil {
		cfg.ReconcileInterval = *raw.ReconcileInterval
	}
	if raw.Keybindings != nil {
		cfg.Keybindings = raw.Keybindings
	}
	if raw.MoveModeTimeout != nil {
		cfg.MoveModeTimeout = *raw.MoveModeTimeout
	}
	if raw.ResizeStep != nil {
		cfg.ResizeStep = *raw.ResizeStep
	}
	return cfg, nil
}

// buildEngines fills each engine from its type's builtin defaults.
func buildEngines(prefix string, raws []RawEngine) ([]EngineConfig, error) {
	out := make([]EngineConfig, 0, len(raws))
	for i, r := range raws {
		if r.Type == nil {
			return nil, &ValidationError{Path: fmt.Sprintf("%s[%d].type", prefix, i), Err: fmt.Errorf("type is required")}
		}
		e := builtinEngine(EngineType(strings.ToLower(string(*r.Type))))
		if r.Name != nil {
			e.Name = strings.TrimSpace(*r.Name)
		}
		if r.LeftToRight != nil {
			e.LeftToRight = *r.LeftToRight
		}
		if r.Maximize != nil {
			e.Maximize = *r.Maximize
		}
		if r.AddDirection != nil {
			e.AddDirection = *r.AddDirection
		}
		out = append(out, e)
	}
	return out, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
