package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/ipc"
	"github.com/1broseidon/whim/internal/layout"
)

// Daemon is the part of the IPC client the palette drives.
type Daemon interface {
	ListWorkspaces() (*ipc.WorkspacesData, error)
	ActivateWorkspace(name string) (bool, error)
	MoveWindow(workspace string, window uint64) (bool, error)
	CycleLayoutEngine(workspace string, reverse bool) (bool, error)
	LayoutCustomAction(payload ipc.CustomActionPayload) (bool, error)
	Reload() error
	SaveState() error
}

var _ Daemon = (*ipc.Client)(nil)

// Action prefixes carried by menu items.
const (
	actionWorkspace = "workspace:"
	actionMove      = "move:"
	actionEngine    = "engine:"
	actionLayout    = "layout:"
	actionReload    = "reload"
	actionSaveState = "save-state"
)

// Hint is the message shown by launchers with a message bar.
const Hint = "Enter: activate workspace  Alt+Return: move the focused window there"

// BuildMenu returns the palette for the given workspaces.
func BuildMenu(workspaces []ipc.WorkspaceInfo) []MenuItem {
	items := []MenuItem{{Label: "Workspaces", IsHeader: true}}
	moves := make([]MenuItem, 0, len(workspaces))
	for _, ws := range workspaces {
		label := fmt.Sprintf("%s  [%s]  %d windows", ws.Name, ws.LayoutEngine, ws.Windows)
		items = append(items, MenuItem{
			Label:    label,
			Action:   actionWorkspace + ws.Name,
			Icon:     "preferences-system-windows",
			Meta:     ws.LayoutEngine,
			IsActive: ws.Active,
		})
		if !ws.Active {
			moves = append(moves, MenuItem{Label: ws.Name, Action: actionMove + ws.Name})
		}
	}

	items = append(items, MenuItem{Label: "────────", IsDivider: true})
	if len(moves) > 0 {
		items = append(items, MenuItem{Label: "Move window to", Icon: "go-next", Submenu: moves})
	}
	items = append(items,
		MenuItem{Label: "Next layout engine", Action: actionEngine + "next", Icon: "view-grid"},
		MenuItem{Label: "Previous layout engine", Action: actionEngine + "previous", Icon: "view-grid"},
		MenuItem{Label: "Layout actions", Icon: "view-dual", Submenu: layoutActions()},
		MenuItem{Label: "────────", IsDivider: true},
		MenuItem{Label: "Reload config", Action: actionReload, Icon: "view-refresh"},
		MenuItem{Label: "Save state", Action: actionSaveState, Icon: "document-save"},
	)
	return items
}

func layoutActions() []MenuItem {
	addDirection := make([]MenuItem, 0, 4)
	for _, dir := range []geometry.Direction{geometry.DirectionLeft, geometry.DirectionRight, geometry.DirectionUp, geometry.DirectionDown} {
		addDirection = append(addDirection, MenuItem{
			Label:  dir.String(),
			Action: actionLayout + layout.TreeActionSetAddDirection + ":" + dir.String(),
		})
	}
	return []MenuItem{
		{Label: "Toggle column direction", Action: actionLayout + layout.ColumnActionToggleDirection},
		{Label: "Toggle maximized", Action: actionLayout + layout.FocusActionToggleMaximized},
		{Label: "Add phantom window", Action: actionLayout + layout.TreeActionAddPhantom},
		{Label: "Remove phantom window", Action: actionLayout + layout.TreeActionRemovePhantom},
		{Label: "Tree add direction", Submenu: addDirection},
	}
}

// Execute runs the command behind a menu selection and describes what it
// did. Choosing a workspace with Alt+Return moves the focused window there
// instead of activating it.
func Execute(d Daemon, res MenuResult) (string, error) {
	action := res.Action
	if name, ok := strings.CutPrefix(action, actionWorkspace); ok {
		if res.ExitCode != ExitCustom1 {
			return report(d.ActivateWorkspace(name))("activated " + name)
		}
		action = actionMove + name
	}

	if name, ok := strings.CutPrefix(action, actionMove); ok {
		return report(d.MoveWindow(name, 0))("moved window to " + name)
	}
	if which, ok := strings.CutPrefix(action, actionEngine); ok {
		switch which {
		case "next":
			return report(d.CycleLayoutEngine("", false))("next layout engine")
		case "previous":
			return report(d.CycleLayoutEngine("", true))("previous layout engine")
		}
		return "", fmt.Errorf("unknown layout engine command %q", which)
	}
	if spec, ok := strings.CutPrefix(action, actionLayout); ok {
		name, dir, _ := strings.Cut(spec, ":")
		return report(d.LayoutCustomAction(ipc.CustomActionPayload{Action: name, Direction: dir}))(spec)
	}

	switch action {
	case actionReload:
		if err := d.Reload(); err != nil {
			return "", err
		}
		return "config reloaded", nil
	case actionSaveState:
		if err := d.SaveState(); err != nil {
			return "", err
		}
		return "state saved", nil
	}
	return "", fmt.Errorf("unknown palette action %q", res.Action)
}

// report turns a (changed, error) result into Execute's return values.
func report(changed bool, err error) func(string) (string, error) {
	return func(done string) (string, error) {
		if err != nil {
			return "", err
		}
		if !changed {
			return "nothing changed", nil
		}
		return done, nil
	}
}
