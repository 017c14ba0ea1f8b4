package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Menu contains the bindings shared by the selection menu and the text prompt.
// Prioritizes vim-style navigation, with emacs-style ctrl+n/ctrl+p as aliases.
type Menu struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// NewMenu creates the default menu keymap.
func NewMenu() Menu {
	return Menu{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "ctrl+p"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "ctrl+n"),
			key.WithHelp("↓/j", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (m Menu) ShortHelp() []key.Binding {
	return []key.Binding{m.Up, m.Down, m.Confirm, m.Cancel}
}

// FullHelp implements help.KeyMap.
func (m Menu) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

// Prompt contains the bindings of the single-line text prompt.
type Prompt struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewPrompt creates the default prompt keymap.
func NewPrompt() Prompt {
	m := NewMenu()
	return Prompt{Confirm: m.Confirm, Cancel: m.Cancel}
}

// ShortHelp implements help.KeyMap.
func (p Prompt) ShortHelp() []key.Binding {
	return []key.Binding{p.Confirm, p.Cancel}
}

// FullHelp implements help.KeyMap.
func (p Prompt) FullHelp() [][]key.Binding {
	return [][]key.Binding{p.ShortHelp()}
}
