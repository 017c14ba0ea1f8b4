package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tmuxession/tui/keymap"
	"github.com/grovetools/tmuxession/tui/theme"
)

// PromptModel reads a single line. Enter submits only when validate accepts
// the trimmed value; otherwise the reason is shown and editing continues.
type PromptModel struct {
	label     string
	input     textinput.Model
	validate  func(string) error
	warning   string
	value     string
	done      bool
	cancelled bool
	keys      keymap.Prompt
	help      help.Model
}

// NewPrompt creates a focused prompt. validate may be nil.
func NewPrompt(label string, validate func(string) error) PromptModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "session name"
	ti.CharLimit = 128
	ti.Focus()

	t := theme.DefaultTheme
	ti.TextStyle = t.Input
	ti.PlaceholderStyle = t.Placeholder
	ti.Cursor.Style = t.Cursor

	return PromptModel{
		label:    label,
		input:    ti,
		validate: validate,
		keys:     keymap.NewPrompt(),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Confirm):
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				m.warning = "A name is required"
				return m, nil
			}
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.warning = err.Error()
					return m, nil
				}
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PromptModel) View() string {
	if m.done {
		return ""
	}

	t := theme.DefaultTheme
	var b strings.Builder
	b.WriteString(t.Bold.Render(m.label))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.warning != "" {
		b.WriteString(t.Warning.Render(m.warning))
		b.WriteString("\n")
	}
	b.WriteString(t.Muted.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

// Value returns the accepted input and whether the prompt was cancelled.
func (m PromptModel) Value() (string, bool) {
	return m.value, m.cancelled
}

// Warning returns the last validation message.
func (m PromptModel) Warning() string {
	return m.warning
}
