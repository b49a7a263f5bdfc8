package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/whim/internal/ipc"
)

func windowLabel(w ipc.WindowInfo) string {
	label := fmt.Sprintf("%#x %s %q", w.Handle, w.Process, w.Title)
	if w.Minimized {
		label += " (minimized)"
	}
	return label
}

type windowItem struct {
	info ipc.WindowInfo
}

func (i windowItem) Title() string {
	return fmt.Sprintf("%s: %s", i.info.Process, i.info.Title)
}

func (i windowItem) Description() string {
	desc := fmt.Sprintf("  %#x  workspace=%s", i.info.Handle, i.info.Workspace)
	if i.info.Minimized {
		desc += "  minimized"
	}
	return desc
}

func (i windowItem) FilterValue() string { return i.info.Process + " " + i.info.Title }

// WindowsTab lists every managed window.
type WindowsTab struct {
	daemon Daemon
	list   list.Model
	snap   snapshot
	prompt *prompt

	width  int
	height int
}

// NewWindowsTab creates a WindowsTab sub-model.
func NewWindowsTab(d Daemon) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return WindowsTab{daemon: d, list: l}
}

// capturing reports whether keys belong to the prompt or the list filter.
func (wt WindowsTab) capturing() bool {
	return wt.prompt != nil || wt.list.SettingFilter()
}

func (wt WindowsTab) setSnapshot(snap snapshot) (WindowsTab, tea.Cmd) {
	wt.snap = snap
	items := make([]list.Item, 0, len(snap.windows))
	for _, w := range snap.windows {
		items = append(items, windowItem{info: w})
	}
	cmd := wt.list.SetItems(items)
	return wt, cmd
}

func (wt WindowsTab) selected() (ipc.WindowInfo, bool) {
	item, ok := wt.list.SelectedItem().(windowItem)
	if !ok {
		return ipc.WindowInfo{}, false
	}
	return item.info, true
}

// moveTargets returns the workspaces a window can be moved to.
func (wt WindowsTab) moveTargets(w ipc.WindowInfo) []string {
	var out []string
	for _, ws := range wt.snap.workspaces {
		if ws.Name != w.Workspace {
			out = append(out, ws.Name)
		}
	}
	return out
}

// Update implements tea.Model.
func (wt WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		wt.width = size.Width
		wt.height = size.Height
		wt.list.SetSize(wt.width, max(wt.height, 1))
		return wt, nil
	}

	if wt.prompt != nil {
		cmd, done := wt.prompt.update(msg)
		if done {
			wt.prompt = nil
		}
		return wt, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "m" && !wt.list.SettingFilter() {
		w, ok := wt.selected()
		if !ok {
			return wt, nil
		}
		targets := wt.moveTargets(w)
		if len(targets) == 0 {
			return wt, nil
		}
		d := wt.daemon
		wt.prompt = newSelectPrompt(fmt.Sprintf("Move %s to", w.Process), targets, func(v string) tea.Cmd {
			return action(fmt.Sprintf("moved %#x to %s", w.Handle, v), func() error {
				_, err := d.MoveWindow(v, w.Handle)
				return err
			})
		})
		return wt, wt.prompt.form.Init()
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, cmd
}

// View implements tea.Model.
func (wt WindowsTab) View() string {
	if wt.prompt != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(wt.prompt.view())
	}
	return wt.list.View()
}
