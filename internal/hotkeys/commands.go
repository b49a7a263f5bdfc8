// Package hotkeys binds global key chords to store transforms.
package hotkeys

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/store"
)

// Binding maps a key chord such as "Mod4-Shift-Left" to a command.
type Binding struct {
	Keys    string   `yaml:"keys"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// Action runs a parsed command against the store.
type Action func(s *store.Store) error

// MoveModeCommand enters the modal move mode. It only works on a Handler
// given a mode with SetMoveMode.
const MoveModeCommand = "move_mode"

// ErrMoveModeUnavailable is returned by move_mode without a mode attached.
var ErrMoveModeUnavailable = errors.New("move mode is not available")

type command struct {
	minArgs, maxArgs int
	build            func(args []string) (Action, error)
}

var commands = map[string]command{
	"focus": {1, 1, func(args []string) (Action, error) {
		dir, err := cardinal(args[0])
		if err != nil {
			return nil, err
		}
		return func(s *store.Store) error {
			_, err := store.Dispatch(s, store.FocusWindowInDirectionTransform{Direction: dir})
			return err
		}, nil
	}},
	"swap": {1, 1, func(args []string) (Action, error) {
		dir, err := cardinal(args[0])
		if err != nil {
			return nil, err
		}
		return func(s *store.Store) error {
			_, err := store.Dispatch(s, store.SwapWindowInDirectionTransform{Direction: dir})
			return err
		}, nil
	}},
	"activate_workspace": {1, 1, func(args []string) (Action, error) {
		name := args[0]
		return func(s *store.Store) error {
			ws, err := store.Pick(s, store.PickWorkspaceByName(name))
			if err != nil {
				return err
			}
			_, err = store.Dispatch(s, store.ActivateWorkspaceTransform{WorkspaceID: ws.ID})
			return err
		}, nil
	}},
	"next_workspace":     {0, 0, adjacentWorkspace(false)},
	"previous_workspace": {0, 0, adjacentWorkspace(true)},
	"move_to_workspace": {1, 1, func(args []string) (Action, error) {
		name := args[0]
		return func(s *store.Store) error {
			ws, err := store.Pick(s, store.PickWorkspaceByName(name))
			if err != nil {
				return err
			}
			_, err = store.Dispatch(s, store.MoveWindowToWorkspaceTransform{TargetWorkspaceID: ws.ID})
			return err
		}, nil
	}},
	MoveModeCommand: {0, 0, func([]string) (Action, error) {
		return func(*store.Store) error { return ErrMoveModeUnavailable }, nil
	}},
	"move_to_next_workspace":     {0, 0, moveToAdjacent(false)},
	"move_to_previous_workspace": {0, 0, moveToAdjacent(true)},
	"next_layout_engine":         {0, 0, cycleEngine(false)},
	"previous_layout_engine":     {0, 0, cycleEngine(true)},
	"last_layout_engine": {0, 0, func([]string) (Action, error) {
		return func(s *store.Store) error {
			_, err := store.Dispatch(s, store.ActivatePreviouslyActiveLayoutEngineTransform{})
			return err
		}, nil
	}},
	"layout_action": {1, 2, func(args []string) (Action, error) {
		action := layout.CustomAction{Name: args[0]}
		if len(args) == 2 {
			dir, err := geometry.ParseDirection(args[1])
			if err != nil {
				return nil, err
			}
			action.Payload = dir
		}
		return func(s *store.Store) error {
			_, err := store.Dispatch(s, store.LayoutEngineCustomActionTransform{Action: action})
			return err
		}, nil
	}},
}

func adjacentWorkspace(reverse bool) func([]string) (Action, error) {
	return func([]string) (Action, error) {
		return func(s *store.Store) error {
			_, err := store.Dispatch(s, store.ActivateAdjacentWorkspaceTransform{Reverse: reverse})
			return err
		}, nil
	}
}

func moveToAdjacent(reverse bool) func([]string) (Action, error) {
	return func([]string) (Action, error) {
		return func(s *store.Store) error {
			_, err := store.Dispatch(s, store.MoveWindowToAdjacentWorkspaceTransform{Reverse: reverse})
			return err
		}, nil
	}
}

func cycleEngine(reverse bool) func([]string) (Action, error) {
	return func([]string) (Action, error) {
		return func(s *store.Store) error {
			_, err := store.Dispatch(s, store.CycleLayoutEngineTransform{Reverse: reverse})
			return err
		}, nil
	}
}

func cardinal(s string) (geometry.Direction, error) {
	dir, err := geometry.ParseDirection(s)
	if err != nil {
		return geometry.DirectionNone, err
	}
	switch dir {
	case geometry.DirectionLeft, geometry.DirectionRight, geometry.DirectionUp, geometry.DirectionDown:
		return dir, nil
	}
	return geometry.DirectionNone, fmt.Errorf("direction %q must be one of: left, right, up, down", s)
}

// Commands returns the supported command names, sorted.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse validates b and returns the action it runs.
func Parse(b Binding) (Action, error) {
	if strings.TrimSpace(b.Keys) == "" {
		return nil, fmt.Errorf("keys are required")
	}
	name := strings.ToLower(strings.TrimSpace(b.Command))
	cmd, ok := commands[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", b.Command)
	}
	if len(b.Args) < cmd.minArgs || len(b.Args) > cmd.maxArgs {
		if cmd.minArgs == cmd.maxArgs {
			return nil, fmt.Errorf("%s takes %d argument(s), got %d", name, cmd.minArgs, len(b.Args))
		}
		return nil, fmt.Errorf("%s takes %d to %d arguments, got %d", name, cmd.minArgs, cmd.maxArgs, len(b.Args))
	}
	return cmd.build(b.Args)
}
