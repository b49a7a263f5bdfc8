package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// monitorsView renders the monitors and the workspace each one shows.
func (s snapshot) monitorsView(width int) string {
	if len(s.monitors) == 0 {
		return dimStyle.Render("no monitors")
	}
	lines := []string{headerStyle.Render(fmt.Sprintf("%-12s %-22s %s", "MONITOR", "GEOMETRY", "WORKSPACE"))}
	for _, m := range s.monitors {
		name := m.Name
		if m.Primary {
			name += "*"
		}
		geom := fmt.Sprintf("%dx%d+%d+%d", m.Width, m.Height, m.X, m.Y)
		lines = append(lines, fmt.Sprintf("%-12s %-22s %s", name, geom, m.Workspace))
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(strings.Join(lines, "\n"))
}
