// Package session holds the captured layout of a tmux session and the
// conversion of that layout to and from a replayable shell script.
package session

import (
	"fmt"
	"strings"
)

// Pane is a single terminal surface inside a window.
type Pane struct {
	// Index is the pane index reported by tmux, reused verbatim as a target.
	Index      string `json:"index"`
	WorkingDir string `json:"cwd"`
	Active     bool   `json:"active"`
	// Commands holds the command the pane's shell was launched with, followed
	// by the commands issued into that shell after launch, in issuance order.
	Commands []string `json:"commands"`
}

// Window is an ordered group of panes sharing one layout.
type Window struct {
	Index  string `json:"index"`
	Name   string `json:"name"`
	Layout string `json:"layout"`
	Active bool   `json:"active"`
	Zoomed bool   `json:"zoomed"`
	// Panes are in creation order: Panes[0] is created with the window,
	// the rest by splitting it.
	Panes []Pane `json:"panes"`
}

// Session is a named, ordered collection of windows.
type Session struct {
	Name    string   `json:"name"`
	Windows []Window `json:"windows"`
}

// ActiveWindow returns the active window, or nil when none is marked active.
func (s *Session) ActiveWindow() *Window {
	for i := range s.Windows {
		if s.Windows[i].Active {
			return &s.Windows[i]
		}
	}
	return nil
}

// ActivePane returns the active pane of the window, or nil.
func (w *Window) ActivePane() *Pane {
	for i := range w.Panes {
		if w.Panes[i].Active {
			return &w.Panes[i]
		}
	}
	return nil
}

// Validate checks the structural invariants the script generator relies on.
func (s *Session) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}

	seenWindows := make(map[string]bool, len(s.Windows))
	activeWindows := 0
	for _, w := range s.Windows {
		if w.Index == "" {
			return fmt.Errorf("window %q has no index", w.Name)
		}
		if strings.ContainsAny(w.Name, "\n\r") {
			return fmt.Errorf("window %s name %q contains a line break", w.Index, w.Name)
		}
		if seenWindows[w.Index] {
			return fmt.Errorf("duplicate window index %s", w.Index)
		}
		seenWindows[w.Index] = true
		if w.Active {
			activeWindows++
		}

		if len(w.Panes) == 0 {
			return fmt.Errorf("window %s has no panes", w.Index)
		}

		seenPanes := make(map[string]bool, len(w.Panes))
		activePanes := 0
		for _, p := range w.Panes {
			if p.Index == "" {
				return fmt.Errorf("window %s has a pane without an index", w.Index)
			}
			if seenPanes[p.Index] {
				return fmt.Errorf("duplicate pane index %s in window %s", p.Index, w.Index)
			}
			seenPanes[p.Index] = true
			if p.Active {
				activePanes++
			}
			if len(p.Commands) == 0 {
				return fmt.Errorf("pane %s.%s has no command", w.Index, p.Index)
			}
		}
		if activePanes > 1 {
			return fmt.Errorf("window %s has %d active panes", w.Index, activePanes)
		}
	}
	if activeWindows > 1 {
		return fmt.Errorf("session %s has %d active windows", s.Name, activeWindows)
	}
	return nil
}

// forbiddenNameChars cannot appear on the unquoted identity line without
// changing how the shell reads it.
const forbiddenNameChars = " \t\n\r'\"`$\\;|&<>(){}*?[]#!~=:."

// ValidateName reports whether name can be stored on the identity line and
// used as an exact tmux target.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("session name cannot be empty")
	}
	if i := strings.IndexAny(name, forbiddenNameChars); i >= 0 {
		return fmt.Errorf("session name %q contains %q", name, name[i])
	}
	return nil
}

// UserOption is one entry of an interactive menu. Key is both the accelerator
// shown to the user and the value returned when the option is chosen.
type UserOption struct {
	Label string
	Key   rune
}

// ValidateOptions checks that a menu can be presented unambiguously.
func ValidateOptions(options []UserOption) error {
	if len(options) == 0 {
		return fmt.Errorf("menu has no options")
	}
	seen := make(map[rune]string, len(options))
	for _, o := range options {
		if prev, ok := seen[o.Key]; ok {
			return fmt.Errorf("options %q and %q share key %q", prev, o.Label, o.Key)
		}
		seen[o.Key] = o.Label
	}
	return nil
}
