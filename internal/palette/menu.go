package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	backAction    = "__back__"
	submenuPrefix = "__submenu__:"
)

// MenuItem represents an item in the menu hierarchy.
type MenuItem struct {
	Label     string
	Action    string // Empty for parent items
	Icon      string
	Meta      string
	IsHeader  bool
	IsDivider bool
	IsActive  bool
	Submenu   []MenuItem
}

// IsParent returns true if this item has a submenu.
func (m MenuItem) IsParent() bool {
	return len(m.Submenu) > 0
}

// MenuResult contains the result of a menu selection.
type MenuResult struct {
	Action   string
	ExitCode int
}

// Menu handles hierarchical menu navigation using a palette backend.
type Menu struct {
	backend Backend
	prompt  string
	root    []MenuItem
	message string
}

// NewMenu creates a menu whose top level is shown under prompt.
func NewMenu(backend Backend, prompt string, items []MenuItem) *Menu {
	return &Menu{backend: backend, prompt: prompt, root: items}
}

// SetMessage sets a context message shown by backends with a message bar.
func (m *Menu) SetMessage(msg string) {
	m.message = msg
}

// Show displays the menu and returns the chosen leaf action, or
// ErrCancelled when the user closes the top level.
func (m *Menu) Show() (MenuResult, error) {
	return m.showLevel(m.root, nil)
}

func (m *Menu) showLevel(items []MenuItem, breadcrumb []string) (MenuResult, error) {
	if len(items) == 0 {
		return MenuResult{}, fmt.Errorf("menu: no items to show")
	}

	prompt := m.prompt
	if len(breadcrumb) > 0 {
		prompt = breadcrumb[len(breadcrumb)-1]
	}

	for {
		rows := make([]Item, 0, len(items)+1)
		if len(breadcrumb) > 0 {
			rows = append(rows, Item{Label: "← Back", Action: backAction, Icon: "go-previous"})
		}
		for i, item := range items {
			row := Item{
				Label:     item.Label,
				Action:    item.Action,
				Icon:      item.Icon,
				Meta:      item.Meta,
				IsHeader:  item.IsHeader,
				IsDivider: item.IsDivider,
				IsActive:  item.IsActive,
			}
			if item.IsParent() {
				row.Label += " →"
				if row.Icon == "" {
					row.Icon = "folder"
				}
				row.Action = submenuPrefix + strconv.Itoa(i)
			}
			rows = append(rows, row)
		}

		result, err := m.backend.Show(prompt, rows, m.message)
		if err != nil {
			return MenuResult{}, err
		}

		// Not every backend can make headers unselectable.
		if !result.Item.selectable() || result.Item.Action == "" {
			continue
		}
		if result.Item.Action == backAction {
			return MenuResult{}, ErrCancelled
		}

		if idxStr, ok := strings.CutPrefix(result.Item.Action, submenuPrefix); ok {
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 || idx >= len(items) || !items[idx].IsParent() {
				continue
			}
			sub, err := m.showLevel(items[idx].Submenu, append(breadcrumb, items[idx].Label))
			if errors.Is(err, ErrCancelled) {
				continue
			}
			return sub, err
		}

		return MenuResult{Action: result.Item.Action, ExitCode: result.ExitCode}, nil
	}
}
