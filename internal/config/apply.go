package config

import (
	"fmt"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/store"
)

// Creator returns the layout engine creator for e. The config must have
// passed Validate.
func (e EngineConfig) Creator() layout.Creator {
	switch e.Type {
	case EngineColumn:
		return layout.ColumnCreator(e.Name, e.LeftToRight)
	case EngineFocus:
		return layout.FocusCreator(e.Name, e.Maximize)
	case EngineTree:
		dir, err := geometry.ParseDirection(e.AddDirection)
		if err != nil {
			dir = geometry.DirectionRight
		}
		return layout.TreeCreator(e.Name, dir)
	default:
		return layout.FreeCreator(e.Name)
	}
}

func creators(engines []EngineConfig) []layout.Creator {
	if len(engines) == 0 {
		return nil
	}
	out := make([]layout.Creator, 0, len(engines))
	for _, e := range engines {
		out = append(out, e.Creator())
	}
	return out
}

func (g Gaps) layout() layout.Gaps {
	return layout.Gaps{Outer: g.Outer, Inner: g.Inner}
}

// Apply registers engines, workspaces, filters and routes with s. It must run
// before the store is initialized so the workspaces are created with the
// monitors.
func Apply(s *store.Store, cfg *Config) error {
	if _, err := store.Dispatch(s, store.SetCreateLayoutEnginesTransform{Creators: creators(cfg.LayoutEngines)}); err != nil {
		return fmt.Errorf("register layout engines: %w", err)
	}
	// The gaps proxy is always installed so a reload can change the gaps.
	if _, err := store.Dispatch(s, store.AddProxyLayoutEngineTransform{Proxy: layout.GapsProxy(cfg.Gaps.layout())}); err != nil {
		return fmt.Errorf("register gaps: %w", err)
	}
	for _, ws := range cfg.Workspaces {
		if _, err := store.Dispatch(s, store.AddWorkspaceTransform{
			Name:                ws.Name,
			CreateLayoutEngines: creators(ws.LayoutEngines),
		}); err != nil {
			return fmt.Errorf("add workspace %q: %w", ws.Name, err)
		}
	}
	return applyWindowRules(s, cfg)
}

// Reload applies the settings that can change while running: filters,
// routes and gaps.
func Reload(s *store.Store, cfg *Config) error {
	if err := applyWindowRules(s, cfg); err != nil {
		return err
	}
	if _, err := store.Dispatch(s, store.SetGapsTransform{Gaps: cfg.Gaps.layout()}); err != nil {
		return fmt.Errorf("set gaps: %w", err)
	}
	return nil
}

func applyWindowRules(s *store.Store, cfg *Config) error {
	if _, err := store.Dispatch(s, store.SetFiltersTransform{Filters: cfg.Filters}); err != nil {
		return fmt.Errorf("set filters: %w", err)
	}
	if _, err := store.Dispatch(s, store.SetRoutesTransform{Routes: cfg.Routes}); err != nil {
		return fmt.Errorf("set routes: %w", err)
	}
	return nil
}
