package movemode

import (
	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
	"github.com/1broseidon/whim/internal/store"
)

// Phase represents the current phase of move mode
type Phase int

const (
	// PhaseInactive means move mode is not active
	PhaseInactive Phase = iota
	// PhaseSelecting moves focus between the workspace's windows
	PhaseSelecting
	// PhaseGrabbed moves the grabbed window with the arrow keys
	PhaseGrabbed
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseSelecting:
		return "selecting"
	case PhaseGrabbed:
		return "grabbed"
	default:
		return "unknown"
	}
}

// State holds the current move mode state
type State struct {
	Phase     Phase
	Workspace store.WorkspaceID
	Grabbed   platform.WindowHandle // zero unless Phase is PhaseGrabbed
}

type commandKind int

const (
	cmdNone commandKind = iota
	cmdMove
	cmdGrow
	cmdShrink
	cmdConfirm
	cmdCancel
)

// command is what a single key press asks for.
type command struct {
	kind commandKind
	dir  geometry.Direction
}

var keyDirections = map[string]geometry.Direction{
	"Left":  geometry.DirectionLeft,
	"h":     geometry.DirectionLeft,
	"Right": geometry.DirectionRight,
	"l":     geometry.DirectionRight,
	"Up":    geometry.DirectionUp,
	"k":     geometry.DirectionUp,
	"Down":  geometry.DirectionDown,
	"j":     geometry.DirectionDown,
}

func commandForKey(k platform.Key) command {
	switch k.Name {
	case "Return", "KP_Enter":
		return command{kind: cmdConfirm}
	case "Escape":
		return command{kind: cmdCancel}
	}
	dir, ok := keyDirections[k.Name]
	if !ok {
		return command{}
	}
	switch {
	case k.Control:
		return command{kind: cmdShrink, dir: dir}
	case k.Shift:
		return command{kind: cmdGrow, dir: dir}
	default:
		return command{kind: cmdMove, dir: dir}
	}
}

// transformFor maps a directional command to the store transform it runs.
// Selecting moves focus; a grabbed window is swapped with its neighbour.
// Resizing applies to the grabbed window, or the focused one while selecting.
func transformFor(st State, cmd command, step int) (store.Transform[bool], bool) {
	switch cmd.kind {
	case cmdMove:
		if st.Phase == PhaseGrabbed {
			return store.SwapWindowInDirectionTransform{WorkspaceID: st.Workspace, Window: st.Grabbed, Direction: cmd.dir}, true
		}
		return store.FocusWindowInDirectionTransform{WorkspaceID: st.Workspace, Direction: cmd.dir}, true
	case cmdGrow, cmdShrink:
		if cmd.kind == cmdShrink {
			step = -step
		}
		return store.MoveWindowEdgesInDirectionTransform{
			WorkspaceID: st.Workspace,
			Window:      st.Grabbed,
			Edges:       cmd.dir,
			PixelDeltas: edgeDelta(cmd.dir, step),
		}, true
	}
	return nil, false
}

// edgeDelta moves an edge outward by step pixels; a negative step pulls it
// back in.
func edgeDelta(dir geometry.Direction, step int) geometry.Point {
	switch dir {
	case geometry.DirectionLeft:
		return geometry.Point{X: -step}
	case geometry.DirectionRight:
		return geometry.Point{X: step}
	case geometry.DirectionUp:
		return geometry.Point{Y: -step}
	case geometry.DirectionDown:
		return geometry.Point{Y: step}
	}
	return geometry.Point{}
}
