// Package tui is an interactive dashboard for a running whim daemon.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/whim/internal/ipc"
)

// Daemon is the part of the IPC client the dashboard uses.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	ListWorkspaces() (*ipc.WorkspacesData, error)
	ListWindows() (*ipc.WindowsData, error)
	ActivateWorkspace(name string) (bool, error)
	AddWorkspace(name string) (string, error)
	RemoveWorkspace(name string) (bool, error)
	RenameWorkspace(name, newName string) (bool, error)
	CycleLayoutEngine(workspace string, reverse bool) (bool, error)
	MoveWindow(workspace string, window uint64) (bool, error)
}

var _ Daemon = (*ipc.Client)(nil)

const (
	refreshInterval = 2 * time.Second
	statusTimeout   = 3 * time.Second
)

// Run shows the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, d Daemon) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(d), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// snapshot is one poll of the daemon's state.
type snapshot struct {
	status     *ipc.StatusData
	monitors   []ipc.MonitorInfo
	workspaces []ipc.WorkspaceInfo
	windows    []ipc.WindowInfo
}

func (s snapshot) workspace(name string) (ipc.WorkspaceInfo, bool) {
	for _, ws := range s.workspaces {
		if ws.Name == name {
			return ws, true
		}
	}
	return ipc.WorkspaceInfo{}, false
}

func (s snapshot) monitor(name string) (ipc.MonitorInfo, bool) {
	for _, m := range s.monitors {
		if m.Name == name {
			return m, true
		}
	}
	return ipc.MonitorInfo{}, false
}

func (s snapshot) windowsOn(workspace string) []ipc.WindowInfo {
	var out []ipc.WindowInfo
	for _, w := range s.windows {
		if w.Workspace == workspace {
			out = append(out, w)
		}
	}
	return out
}

type snapshotMsg struct {
	snap snapshot
	err  error
}

// tickMsg triggers a periodic refresh.
type tickMsg struct{}

// actionMsg is sent after an IPC action completes.
type actionMsg struct {
	text string
	err  error
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

func fetch(d Daemon) tea.Cmd {
	return func() tea.Msg {
		var snap snapshot
		var err error
		if snap.status, err = d.GetStatus(); err != nil {
			return snapshotMsg{err: err}
		}
		monitors, err := d.GetMonitors()
		if err != nil {
			return snapshotMsg{err: err}
		}
		workspaces, err := d.ListWorkspaces()
		if err != nil {
			return snapshotMsg{err: err}
		}
		windows, err := d.ListWindows()
		if err != nil {
			return snapshotMsg{err: err}
		}
		snap.monitors = monitors.Monitors
		snap.workspaces = workspaces.Workspaces
		snap.windows = windows.Windows
		return snapshotMsg{snap: snap}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// action runs fn off the UI goroutine and reports text when it succeeds.
func action(text string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{text: text, err: fn()}
	}
}
