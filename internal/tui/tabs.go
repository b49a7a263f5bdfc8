package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/whim/internal/ipc"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabWorkspaces Tab = iota
	TabWindows
	TabMonitors
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabWorkspaces:
		return "Workspaces"
	case TabWindows:
		return "Windows"
	case TabMonitors:
		return "Monitors"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", i+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// statusLine summarizes the daemon for the top bar.
func statusLine(status *ipc.StatusData, connErr string) string {
	if status == nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		if connErr != "" {
			return dot + " daemon not running: " + connErr
		}
		return dot + " connecting"
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	parts := []string{
		dot + " daemon connected",
		"workspace:" + status.ActiveWorkspace,
		"engine:" + status.ActiveLayoutEngine,
		fmt.Sprintf("windows:%d", status.Windows),
	}
	return strings.Join(parts, "  ")
}

func renderStatusBar(status *ipc.StatusData, connErr string, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(statusLine(status, connErr))
}

// helpText lists the keys of the active tab.
func helpText(tab Tab) string {
	common := "tab: switch  1-3: jump  q: quit"
	switch tab {
	case TabWorkspaces:
		return "enter: activate  l/L: cycle engine  a: add  r: rename  x: remove  " + common
	case TabWindows:
		return "m: move to workspace  " + common
	default:
		return common
	}
}

// renderHelpBar renders the bottom help bar, or the latest status message.
func renderHelpBar(tab Tab, message string, width int) string {
	text := helpText(tab)
	if message != "" {
		text = message
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(text)
}
