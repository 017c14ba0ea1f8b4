package session

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// DefaultTmuxCommand is the command prefix written into generated scripts.
const DefaultTmuxCommand = "tmux"

// sessionVar is the shell variable every generated instruction targets.
const sessionVar = `"$session_name"`

// Generator renders a Session as a shell script that recreates it.
type Generator struct {
	// TmuxCommand prefixes every instruction, e.g. "tmux -L work".
	TmuxCommand string
}

// NewGenerator returns a generator that invokes plain "tmux".
func NewGenerator() *Generator {
	return &Generator{TmuxCommand: DefaultTmuxCommand}
}

// Generate renders s with the default generator.
func Generate(s *Session) string {
	return NewGenerator().Generate(s)
}

// Generate renders s as a replayable script. The output depends only on s.
// Focus changes are deferred: per-window pane selections follow each window,
// the zoom of the active window comes after every window, and the active
// window and pane are selected last. Zoom on other windows is not restored.
func (g *Generator) Generate(s *Session) string {
	tmux := g.TmuxCommand
	if tmux == "" {
		tmux = DefaultTmuxCommand
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n\n")
	b.WriteString("###############################################\n")
	b.WriteString("# Script generated by tmuxession              #\n")
	b.WriteString("###############################################\n\n")
	b.WriteString("# Exit on error or unset variable\n")
	b.WriteString("set -e\nset -u\n\n\n")
	b.WriteString("# Session name\n")
	fmt.Fprintf(&b, "%s%s\n\n\n", identityPrefix, s.Name)
	b.WriteString("### Create a new detached tmux session\n")
	fmt.Fprintf(&b, "%s new-session -d -s %s\n\n\n", tmux, sessionVar)

	var (
		activeWindow string
		activePane   string
		zoomedPanes  []string
	)

	for _, w := range s.Windows {
		windowTarget := sessionVar + ":" + w.Index
		label := commentSafe(w.Name)
		fmt.Fprintf(&b, "## Window %s:%s\n", w.Index, label)

		first := w.Panes[0]
		fmt.Fprintf(&b, "%s new-window -t %s -k -n %s -c %s %s\n\n",
			tmux, windowTarget, shellQuote(w.Name), shellQuote(first.WorkingDir), shellQuote(first.Commands[0]))

		var windowPane string
		for i, p := range w.Panes {
			if i > 0 {
				fmt.Fprintf(&b, "# Create pane %s\n", p.Index)
				fmt.Fprintf(&b, "%s split-window -t %s -c %s %s\n",
					tmux, windowTarget, shellQuote(p.WorkingDir), shellQuote(p.Commands[0]))
			}

			paneTarget := windowTarget + "." + p.Index
			if p.Active {
				selection := fmt.Sprintf("%s select-pane -t %s\n\n", tmux, paneTarget)
				if w.Active {
					activePane = selection
				} else {
					windowPane = selection
				}
				if w.Active && w.Zoomed {
					zoomedPanes = append(zoomedPanes, fmt.Sprintf("%s resize-pane -t %s -Z\n", tmux, paneTarget))
				}
			}

			for _, command := range p.Commands[1:] {
				fmt.Fprintf(&b, "# Run command in pane %s\n", p.Index)
				fmt.Fprintf(&b, "%s send-keys -t %s %s C-m\n\n", tmux, paneTarget, shellQuote(command))
			}
		}

		fmt.Fprintf(&b, "# Select the active pane in window %s\n", label)
		b.WriteString(windowPane)

		if w.Active {
			activeWindow = fmt.Sprintf("%s select-window -t %s\n\n", tmux, windowTarget)
		}

		fmt.Fprintf(&b, "# Set layout for window %s\n", label)
		if w.Layout != "" {
			fmt.Fprintf(&b, "%s select-layout -t %s %s\n\n", tmux, windowTarget, shellQuote(w.Layout))
		}
		fmt.Fprintf(&b, "## End of window %s:%s\n\n", w.Index, label)
	}

	if len(zoomedPanes) > 0 {
		b.WriteString("### Zoom the zoomed panes\n")
		for _, z := range zoomedPanes {
			b.WriteString(z)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Select the active window\n")
	b.WriteString(activeWindow)
	b.WriteString("### Select the active pane\n")
	b.WriteString(activePane)

	return b.String()
}

// commentSafe escapes control characters so text cannot end a comment line.
func commentSafe(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}
	quoted := strconv.Quote(s)
	return quoted[1 : len(quoted)-1]
}

// shellQuote quotes s for sh when it contains anything the shell would
// interpret. Plain words are left bare to keep scripts readable.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$`&|;<>()*?!~#{}[]=%^,") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
