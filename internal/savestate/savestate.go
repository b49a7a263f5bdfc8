// Package savestate persists the window to workspace snapshot taken when the
// daemon exits, so a restart puts windows back where they were.
package savestate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/1broseidon/whim/internal/store"
)

const stateRelPath = "whim/saved_state.json"

// DefaultPath returns $XDG_STATE_HOME/whim/saved_state.json.
func DefaultPath() string {
	return filepath.Join(xdg.StateHome, stateRelPath)
}

// Read loads the snapshot at path. A missing file is not an error and yields
// nil.
func Read(path string) (*store.SavedState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read saved state: %w", err)
	}
	var state store.SavedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse saved state %s: %w", path, err)
	}
	return &state, nil
}

// Write stores state at path, replacing any previous snapshot atomically.
func Write(path string, state *store.SavedState) error {
	if state == nil {
		return fmt.Errorf("saved state is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode saved state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".saved_state-*.json")
	if err != nil {
		return fmt.Errorf("failed to write saved state: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write saved state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write saved state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write saved state: %w", err)
	}
	return nil
}

// Remove deletes the snapshot so it is applied at most once.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove saved state: %w", err)
	}
	return nil
}
