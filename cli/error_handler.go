package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints err for the user and returns the process exit code.
// A cancellation is a clean exit.
func (h *ErrorHandler) Handle(err error) int {
	if err == nil {
		return 0
	}

	t := theme.DefaultTheme
	red := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Red)
	fail := func(format string, args ...interface{}) {
		fmt.Fprintf(h.Out, "%s %s\n", red.Render("Error:"), fmt.Sprintf(format, args...))
	}
	hint := func(format string, args ...interface{}) {
		fmt.Fprintln(h.Out, t.Muted.Render(fmt.Sprintf(format, args...)))
	}

	sessErr, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeCancelled:
		if msg := strings.TrimSpace(sessErr.Message); msg != "" {
			fmt.Fprintln(h.Out, msg)
		}
		return 0

	case errors.ErrCodeTmuxNotFound:
		fail("%s was not found.", sessErr.Detail("binary"))
		hint("Install tmux or point tmux.binary in tmuxession.yml at it.")

	case errors.ErrCodeNotInsideTmux:
		fail("%s", sessErr.Message)
		hint("Start or attach to a tmux session and try again.")

	case errors.ErrCodeCommandFailed:
		fail("%s", describe(sessErr))
		if output := sessErr.Detail("output"); output != "" {
			fmt.Fprint(h.Out, output)
			if !strings.HasSuffix(output, "\n") {
				fmt.Fprintln(h.Out)
			}
		}

	case errors.ErrCodeScriptNotFound:
		fail("No saved session script at %s", sessErr.Detail("path"))
		hint("Run 'tmuxession save' inside tmux first.")

	case errors.ErrCodeScriptMalformed:
		fail("%s: %s", sessErr.Detail("path"), sessErr.Message)

	case errors.ErrCodeNoSavedSessions:
		fail("%s", sessErr.Message)
		hint("Run 'tmuxession save' inside tmux to save one.")

	case errors.ErrCodeConfigNotFound, errors.ErrCodeConfigInvalid:
		fail("%s", describe(sessErr))
		if path := sessErr.Detail("path"); path != "" {
			hint("Check %s, or run 'tmuxession config schema' for the accepted keys.", path)
		}

	default:
		if sessErr != nil {
			fail("%s", describe(sessErr))
		} else {
			fail("%v", err)
		}
	}

	if h.Verbose && sessErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", sessErr.ToJSON())
	}
	return 1
}

// describe renders a SessionError without its code prefix.
func describe(e *errors.SessionError) string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}
