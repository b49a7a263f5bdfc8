package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/whim/internal/ipc"
)

// workspaceItem implements list.Item for the workspace sidebar.
type workspaceItem struct {
	info ipc.WorkspaceInfo
}

func (i workspaceItem) Title() string {
	prefix := "  "
	if i.info.Active {
		prefix = "* "
	}
	return prefix + i.info.Name
}

func (i workspaceItem) Description() string {
	desc := fmt.Sprintf("  %s  windows=%d", i.info.LayoutEngine, i.info.Windows)
	if i.info.Monitor != "" {
		desc += "  on " + i.info.Monitor
	}
	return desc
}

func (i workspaceItem) FilterValue() string { return i.info.Name }

// WorkspacesTab lists workspaces next to a preview of the selected one.
type WorkspacesTab struct {
	daemon Daemon
	list   list.Model
	snap   snapshot
	prompt *prompt

	width  int
	height int
}

// NewWorkspacesTab creates a WorkspacesTab sub-model.
func NewWorkspacesTab(d Daemon) WorkspacesTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Workspaces"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return WorkspacesTab{daemon: d, list: l}
}

func (wt WorkspacesTab) capturing() bool {
	return wt.prompt != nil
}

func (wt WorkspacesTab) setSnapshot(snap snapshot) (WorkspacesTab, tea.Cmd) {
	wt.snap = snap
	items := make([]list.Item, 0, len(snap.workspaces))
	for _, ws := range snap.workspaces {
		items = append(items, workspaceItem{info: ws})
	}
	cmd := wt.list.SetItems(items)
	return wt, cmd
}

func (wt WorkspacesTab) selectedName() string {
	item, ok := wt.list.SelectedItem().(workspaceItem)
	if !ok {
		return ""
	}
	return item.info.Name
}

// Update implements tea.Model.
func (wt WorkspacesTab) Update(msg tea.Msg) (WorkspacesTab, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		wt.width = size.Width
		wt.height = size.Height
		wt.list.SetSize(wt.sidebarWidth(), max(wt.height, 1))
		return wt, nil
	}

	if wt.prompt != nil {
		cmd, done := wt.prompt.update(msg)
		if done {
			wt.prompt = nil
		}
		return wt, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		d := wt.daemon
		name := wt.selectedName()
		switch km.String() {
		case "enter":
			if name == "" {
				return wt, nil
			}
			return wt, action("activated "+name, func() error {
				_, err := d.ActivateWorkspace(name)
				return err
			})
		case "l", "L":
			if name == "" {
				return wt, nil
			}
			reverse := km.String() == "L"
			return wt, action("cycled layout engine of "+name, func() error {
				_, err := d.CycleLayoutEngine(name, reverse)
				return err
			})
		case "x":
			if name == "" {
				return wt, nil
			}
			return wt, action("removed "+name, func() error {
				_, err := d.RemoveWorkspace(name)
				return err
			})
		case "a":
			wt.prompt = newInputPrompt("New workspace name", "", func(v string) tea.Cmd {
				return action("added "+v, func() error {
					_, err := d.AddWorkspace(v)
					return err
				})
			})
			return wt, wt.prompt.form.Init()
		case "r":
			if name == "" {
				return wt, nil
			}
			wt.prompt = newInputPrompt("Rename "+name+" to", name, func(v string) tea.Cmd {
				return action(fmt.Sprintf("renamed %s to %s", name, v), func() error {
					_, err := d.RenameWorkspace(name, v)
					return err
				})
			})
			return wt, wt.prompt.form.Init()
		}
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, cmd
}

func (wt WorkspacesTab) sidebarWidth() int {
	// ~35% of the width, between 20 and 40 columns.
	return min(max(wt.width*35/100, 20), 40)
}

// View implements tea.Model.
func (wt WorkspacesTab) View() string {
	if wt.prompt != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(wt.prompt.view())
	}
	detail := wt.detailView(wt.width-wt.sidebarWidth()-2, wt.height)
	return lipgloss.JoinHorizontal(lipgloss.Top, wt.list.View(), "  ", detail)
}

func (wt WorkspacesTab) detailView(width, height int) string {
	ws, ok := wt.snap.workspace(wt.selectedName())
	if !ok || width < 5 || height < 3 {
		return ""
	}

	header := fmt.Sprintf("%s • %s • engines: %s", ws.Name, ws.LayoutEngine, strings.Join(ws.LayoutEngines, ", "))
	windows := wt.snap.windowsOn(ws.Name)

	mon, visible := wt.snap.monitor(ws.Monitor)
	if !visible {
		lines := []string{header, dimStyle.Render("not shown on any monitor")}
		for _, w := range windows {
			lines = append(lines, windowLabel(w))
		}
		return strings.Join(lines, "\n")
	}

	area := ipc.RectInfo{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}
	canvas := renderPreview(area, windows, width, height-1)
	return header + "\n" + strings.Join(canvas, "\n")
}
