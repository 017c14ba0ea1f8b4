// Package menu implements the interactive selection menu and the one-line
// prompt used when restoring sessions.
package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/grovetools/tmuxession/tui/keymap"
	"github.com/grovetools/tmuxession/tui/theme"
)

// QuitKey is returned when the menu is escaped.
const QuitKey rune = 'q'

// Model is a vertical list of options picked by arrow navigation or by the
// option's own key.
type Model struct {
	title     string
	options   []session.UserOption
	cursor    int
	chosen    rune
	done      bool
	cancelled bool
	keys      keymap.Menu
	help      help.Model
}

// New creates a menu with the cursor on the first option.
func New(title string, options []session.UserOption) Model {
	return Model{
		title:   title,
		options: options,
		keys:    keymap.NewMenu(),
		help:    help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Navigation bindings win over an option key
// that uses the same character.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Confirm):
		return m.choose(m.options[m.cursor].Key)
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m.choose(QuitKey)
	case keyMsg.Type == tea.KeyRunes && len(keyMsg.Runes) == 1:
		for _, o := range m.options {
			if o.Key == keyMsg.Runes[0] {
				return m.choose(o.Key)
			}
		}
	}
	return m, nil
}

func (m Model) choose(r rune) (tea.Model, tea.Cmd) {
	m.chosen = r
	m.done = true
	return m, tea.Quit
}

// View implements tea.Model. A finished menu renders nothing so it is
// cleared from the terminal.
func (m Model) View() string {
	if m.done {
		return ""
	}

	t := theme.DefaultTheme
	var b strings.Builder
	b.WriteString(t.Bold.Render(m.title))
	b.WriteString("\n")
	for i, o := range m.options {
		if i == m.cursor {
			b.WriteString(t.Selected.Render("> " + o.Label))
		} else {
			b.WriteString("  " + o.Label)
		}
		b.WriteString("\n")
	}
	b.WriteString(t.Muted.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

// Chosen returns the picked key and whether the menu was escaped.
func (m Model) Chosen() (rune, bool) {
	return m.chosen, m.cancelled
}

// Done reports whether a choice was made.
func (m Model) Done() bool {
	return m.done
}

// Cursor returns the highlighted option index.
func (m Model) Cursor() int {
	return m.cursor
}
