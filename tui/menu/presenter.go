package menu

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/mattn/go-isatty"
)

// Presenter runs menus and prompts as inline bubbletea programs. The
// program owns the terminal's raw mode and restores it on every exit path.
type Presenter struct {
	In  io.Reader
	Out io.Writer
	// Interactive overrides terminal detection when non-nil.
	Interactive func() bool
}

// NewPresenter creates a presenter on the process's stdin and stdout.
func NewPresenter() *Presenter {
	return &Presenter{In: os.Stdin, Out: os.Stdout}
}

// Present shows options under title and returns the chosen key. Escape
// returns QuitKey when it is one of the options, and CANCELLED otherwise.
func (p *Presenter) Present(title string, options []session.UserOption) (rune, error) {
	if err := session.ValidateOptions(options); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "invalid menu")
	}
	if !p.interactive() {
		return 0, errors.New(errors.ErrCodeInvalidInput, "an interactive terminal is required to choose an option")
	}

	final, err := p.run(New(title, options))
	if err != nil {
		return 0, err
	}

	chosen, cancelled := final.(Model).Chosen()
	if cancelled && !hasKey(options, QuitKey) {
		return 0, errors.Cancelled("menu closed")
	}
	return chosen, nil
}

// Prompt reads one line, re-prompting until validate accepts it. Escape
// fails with CANCELLED.
func (p *Presenter) Prompt(label string, validate func(string) error) (string, error) {
	if !p.interactive() {
		return "", errors.New(errors.ErrCodeInvalidInput, "an interactive terminal is required to enter a name")
	}

	final, err := p.run(NewPrompt(label, validate))
	if err != nil {
		return "", err
	}

	value, cancelled := final.(PromptModel).Value()
	if cancelled {
		return "", errors.Cancelled("prompt closed")
	}
	return value, nil
}

func (p *Presenter) run(model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithInput(p.In), tea.WithOutput(p.Out))
	final, err := program.Run()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "terminal UI failed")
	}
	return final, nil
}

func (p *Presenter) interactive() bool {
	if p.Interactive != nil {
		return p.Interactive()
	}
	f, ok := p.In.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func hasKey(options []session.UserOption, r rune) bool {
	for _, o := range options {
		if o.Key == r {
			return true
		}
	}
	return false
}
