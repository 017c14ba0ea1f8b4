// Package restore replays a saved session script, resolving a clash with a
// live session of the same name through an interactive loop.
package restore

import (
	"fmt"

	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/session"
)

// State is a step of the restore flow.
type State int

const (
	// CheckConflict asks whether a live session already uses the name.
	CheckConflict State = iota
	// Resolving waits for the user to pick a resolution.
	Resolving
	// Execute runs the script.
	Execute
	// Attached is the successful terminal state.
	Attached
	// Aborted is the terminal state after the user quit.
	Aborted
)

func (s State) String() string {
	switch s {
	case CheckConflict:
		return "CheckConflict"
	case Resolving:
		return "Resolving"
	case Execute:
		return "Execute"
	case Attached:
		return "Attached"
	case Aborted:
		return "Aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transitions leave s.
func (s State) Terminal() bool {
	return s == Attached || s == Aborted
}

// EventKind says what happened in the current state.
type EventKind int

const (
	NoConflict EventKind = iota
	Conflict
	ChoseAttach
	ChoseKill
	ChoseRename
	ChoseQuit
	Executed
)

func (k EventKind) String() string {
	return [...]string{"NoConflict", "Conflict", "ChoseAttach", "ChoseKill", "ChoseRename", "ChoseQuit", "Executed"}[k]
}

// Event is the input of a transition.
type Event struct {
	Kind EventKind
	// SelfAttached is set with ChoseKill when the caller is inside the
	// session that would be killed.
	SelfAttached bool
	// NewName carries the replacement name with ChoseRename.
	NewName string
}

// Effect is the side effect the driver performs after a transition.
type Effect int

const (
	// EffectNone performs nothing.
	EffectNone Effect = iota
	// EffectPresent shows the resolution menu.
	EffectPresent
	// EffectKill kills the conflicting session.
	EffectKill
	// EffectRename rewrites the identity line to Event.NewName.
	EffectRename
	// EffectExecute runs the script.
	EffectExecute
	// EffectSwitchOrAttach brings the user to the session.
	EffectSwitchOrAttach
)

func (e Effect) String() string {
	return [...]string{"None", "Present", "Kill", "Rename", "Execute", "SwitchOrAttach"}[e]
}

// Menu keys for the conflict resolutions.
const (
	KeyAttach rune = 'A'
	KeyKill   rune = 'K'
	KeyRename rune = 'R'
	KeyQuit   rune = 'q'
)

// ConflictOptions is the menu shown in Resolving.
var ConflictOptions = []session.UserOption{
	{Key: KeyAttach, Label: "[A]ttach or switch to existing session"},
	{Key: KeyKill, Label: "[K]ill existing session and replace"},
	{Key: KeyRename, Label: "[R]estore with a different session name"},
	{Key: KeyQuit, Label: "[q]uit"},
}

// EventForKey maps a menu key to its choice event.
func EventForKey(key rune) (Event, error) {
	switch key {
	case KeyAttach:
		return Event{Kind: ChoseAttach}, nil
	case KeyKill:
		return Event{Kind: ChoseKill}, nil
	case KeyRename:
		return Event{Kind: ChoseRename}, nil
	case KeyQuit:
		return Event{Kind: ChoseQuit}, nil
	default:
		return Event{}, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown menu choice %q", key))
	}
}

// Transition computes the next state and the effect to perform. It has no
// side effects. Killing the caller's own session fails with SELF_KILL and
// leaves the state unchanged.
func Transition(from State, ev Event, name string) (State, Effect, error) {
	switch from {
	case CheckConflict:
		switch ev.Kind {
		case NoConflict:
			return Execute, EffectExecute, nil
		case Conflict:
			return Resolving, EffectPresent, nil
		}
	case Resolving:
		switch ev.Kind {
		case ChoseAttach:
			return Attached, EffectSwitchOrAttach, nil
		case ChoseKill:
			if ev.SelfAttached {
				return from, EffectNone, errors.SelfKill(name)
			}
			return CheckConflict, EffectKill, nil
		case ChoseRename:
			if ev.NewName == "" {
				return from, EffectNone, errors.InvalidSessionName(ev.NewName, "name cannot be empty")
			}
			return CheckConflict, EffectRename, nil
		case ChoseQuit:
			return Aborted, EffectNone, nil
		}
	case Execute:
		if ev.Kind == Executed {
			return Attached, EffectSwitchOrAttach, nil
		}
	}
	return from, EffectNone, errors.New(errors.ErrCodeInternal,
		fmt.Sprintf("invalid restore transition: %s on %s", ev.Kind, from))
}
