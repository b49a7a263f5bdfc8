package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Exit codes of a launcher run.
const (
	ExitNormal  = 0
	ExitCustom1 = 10 // kb-custom-1, bound to Alt+Return
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// launcher drives a dmenu-compatible program over stdin/stdout.
type launcher struct {
	command string
	kind    launcherKind
	caps    Capabilities
}

func newLauncher(name string) (*launcher, bool) {
	switch name {
	case "rofi":
		return &launcher{command: "rofi", kind: kindRofi, caps: Capabilities{
			Icons:         true,
			Markup:        true,
			NonSelectable: true,
			CustomKeys:    true,
			IndexOutput:   true,
			MessageBar:    true,
			RowStates:     true,
		}}, true
	case "fuzzel":
		return &launcher{command: "fuzzel", kind: kindFuzzel, caps: Capabilities{Icons: true, IndexOutput: true}}, true
	case "wofi":
		return &launcher{command: "wofi", kind: kindWofi, caps: Capabilities{Icons: true, Markup: true}}, true
	case "dmenu":
		return &launcher{command: "dmenu", kind: kindDmenu}, true
	}
	return nil, false
}

func (l *launcher) Capabilities() Capabilities {
	return l.caps
}

func (l *launcher) Show(prompt string, items []Item, message string) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, fmt.Errorf("palette: no items to show")
	}

	rows := l.labels(items)
	input, active, selected := l.formatInput(items, rows)

	cmd := exec.Command(l.command, l.args(prompt, message, active, selected)...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))

	exitCode := ExitNormal
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return SelectResult{}, fmt.Errorf("%s failed: %w", l.command, err)
		}
		exitCode = exitErr.ExitCode()
		switch {
		case exitCode == ExitCustom1:
		case selection == "" && (exitCode == 1 || exitCode == 130):
			return SelectResult{}, ErrCancelled
		default:
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return SelectResult{}, fmt.Errorf("%s failed: %s", l.command, msg)
			}
			return SelectResult{}, fmt.Errorf("%s failed: %w", l.command, err)
		}
	}
	if selection == "" {
		return SelectResult{}, ErrCancelled
	}

	item, err := l.parseSelection(selection, items, rows)
	if err != nil {
		return SelectResult{}, err
	}
	return SelectResult{Item: item, ExitCode: exitCode}, nil
}

func (l *launcher) args(prompt, message string, active []int, selected int) []string {
	var args []string
	switch l.kind {
	case kindRofi:
		// Index output keeps selection parsing independent of labels.
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		if len(active) > 0 {
			args = append(args, "-a", joinInts(active))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
		args = append(args, "-kb-custom-1", "Alt+Return")
		if message != "" {
			args = append(args, "-mesg", message)
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindWofi:
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

// labels returns the visible text of each row. Launchers that print the
// chosen text rather than its index get duplicate labels numbered.
func (l *launcher) labels(items []Item) []string {
	out := make([]string, len(items))
	seen := make(map[string]int)
	for i, item := range items {
		out[i] = sanitize(item.Label)
		if l.caps.IndexOutput || !item.selectable() || out[i] == "" {
			continue
		}
		if n := seen[out[i]]; n > 0 {
			seen[out[i]]++
			out[i] = fmt.Sprintf("%s (%d)", out[i], n+1)
			continue
		}
		seen[out[i]] = 1
	}
	return out
}

// formatInput renders the rows and returns the active row indices and the
// row to preselect (the first active one, else the first selectable one).
func (l *launcher) formatInput(items []Item, rows []string) (string, []int, int) {
	lines := make([]string, len(items))
	var active []int
	firstSelectable, firstActive := -1, -1
	for i, item := range items {
		lines[i] = l.formatRow(item, rows[i])
		if !item.selectable() {
			continue
		}
		if firstSelectable < 0 {
			firstSelectable = i
		}
		if item.IsActive {
			active = append(active, i)
			if firstActive < 0 {
				firstActive = i
			}
		}
	}
	selected := firstSelectable
	if firstActive >= 0 {
		selected = firstActive
	}
	if !l.caps.RowStates {
		active = nil
	}
	return strings.Join(lines, "\n"), active, selected
}

func (l *launcher) formatRow(item Item, label string) string {
	display := label
	if l.caps.Markup {
		display = html.EscapeString(display)
		switch {
		case item.IsHeader:
			display = "<b>" + display + "</b>"
		case item.IsDivider:
			display = "<span foreground='#666666'>" + display + "</span>"
		}
	}
	if l.kind != kindRofi {
		return display
	}

	// Rofi row properties: one NUL, then key/value pairs split by \x1f.
	var attrs []string
	if !item.selectable() {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeField(item.Icon))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeField(item.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, items []Item, rows []string) (Item, error) {
	if l.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for i, row := range rows {
		if row == selection {
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitize(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitize(value)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
