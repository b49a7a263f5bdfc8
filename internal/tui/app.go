package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// model is the root bubbletea model for the TUI.
type model struct {
	daemon Daemon

	activeTab     Tab
	workspacesTab WorkspacesTab
	windowsTab    WindowsTab

	snap    snapshot
	connErr string
	message string

	width  int
	height int
}

func newModel(d Daemon) model {
	return model{
		daemon:        d,
		activeTab:     TabWorkspaces,
		workspacesTab: NewWorkspacesTab(d),
		windowsTab:    NewWindowsTab(d),
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// capturing reports whether the active tab wants every key, so q and the
// tab shortcuts are typed instead of acted on.
func (m model) capturing() bool {
	switch m.activeTab {
	case TabWorkspaces:
		return m.workspacesTab.capturing()
	case TabWindows:
		return m.windowsTab.capturing()
	}
	return false
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetch(m.daemon), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.err != nil {
			m.connErr = msg.err.Error()
			m.snap.status = nil
			return m, nil
		}
		m.connErr = ""
		m.snap = msg.snap
		var wsCmd, winCmd tea.Cmd
		m.workspacesTab, wsCmd = m.workspacesTab.setSnapshot(msg.snap)
		m.windowsTab, winCmd = m.windowsTab.setSnapshot(msg.snap)
		return m, tea.Batch(wsCmd, winCmd)

	case tickMsg:
		return m, tea.Batch(fetch(m.daemon), tick())

	case actionMsg:
		if msg.err != nil {
			m.message = "error: " + msg.err.Error()
		} else {
			m.message = msg.text
		}
		return m, tea.Batch(fetch(m.daemon), tea.Tick(statusTimeout, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case clearStatusMsg:
		m.message = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.workspacesTab, _ = m.workspacesTab.Update(sub)
		m.windowsTab, _ = m.windowsTab.Update(sub)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			case "shift+tab":
				m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
				return m, nil
			case "1":
				m.activeTab = TabWorkspaces
				return m, nil
			case "2":
				m.activeTab = TabWindows
				return m, nil
			case "3":
				m.activeTab = TabMonitors
				return m, nil
			}
		}
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabWorkspaces:
		m.workspacesTab, cmd = m.workspacesTab.Update(msg)
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.snap.status, m.connErr, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.message, m.width)

	var content string
	switch m.activeTab {
	case TabWorkspaces:
		content = m.workspacesTab.View()
	case TabWindows:
		content = m.windowsTab.View()
	case TabMonitors:
		content = m.snap.monitorsView(m.width)
	}
	content = lipgloss.NewStyle().Height(m.contentHeight()).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
