package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// prompt is a one-field form that hands its value to submit on completion.
// The value lives on the heap so copies of the owning model share it.
type prompt struct {
	form   *huh.Form
	value  *string
	submit func(string) tea.Cmd
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func newInputPrompt(title, initial string, submit func(string) tea.Cmd) *prompt {
	p := &prompt{value: &initial, submit: submit}
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(p.value).
				Validate(notEmpty),
		),
	).WithShowHelp(false)
	return p
}

func newSelectPrompt(title string, options []string, submit func(string) tea.Cmd) *prompt {
	var value string
	if len(options) > 0 {
		value = options[0]
	}
	p := &prompt{value: &value, submit: submit}
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(options...)...).
				Value(p.value),
		),
	).WithShowHelp(false)
	return p
}

// update feeds msg to the form. done reports that the prompt closed, either
// submitted or cancelled with esc.
func (p *prompt) update(msg tea.Msg) (cmd tea.Cmd, done bool) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		return nil, true
	}
	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}
	switch p.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, p.submit(strings.TrimSpace(*p.value))), true
	case huh.StateAborted:
		return nil, true
	}
	return cmd, false
}

func (p *prompt) view() string {
	return p.form.View()
}
