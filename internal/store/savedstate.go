package store

import (
	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

// SavedState is the window to workspace assignment written at exit and
// read back by InitializeTransform.
type SavedState struct {
	Workspaces []SavedWorkspace `json:"workspaces"`
}

type SavedWorkspace struct {
	Name    string        `json:"name"`
	Windows []SavedWindow `json:"windows"`
}

// SavedWindow records where a window last sat, relative to its monitor's
// working area.
type SavedWindow struct {
	Handle platform.WindowHandle `json:"handle"`
	Rect   geometry.UnitRect     `json:"rect"`
}

// lookup returns the saved workspace name and rect of handle.
func (s *SavedState) lookup(handle platform.WindowHandle) (string, geometry.UnitRect, bool) {
	if s == nil {
		return "", geometry.UnitRect{}, false
	}
	for _, ws := range s.Workspaces {
		for _, w := range ws.Windows {
			if w.Handle == handle {
				return ws.Name, w.Rect, true
			}
		}
	}
	return "", geometry.UnitRect{}, false
}
