package restore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/logging"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/sirupsen/logrus"
)

// Inspector answers questions about live sessions and kills them.
type Inspector interface {
	ListSessions(ctx context.Context) ([]string, error)
	IsCurrentSession(ctx context.Context, name string) (bool, error)
	KillSession(ctx context.Context, name string) error
}

// Presenter shows a menu and blocks until one option is chosen. Escape
// returns the quit key or a CANCELLED error.
type Presenter interface {
	Present(title string, options []session.UserOption) (rune, error)
}

// Prompter reads one line. validate is consulted before a value is accepted.
type Prompter interface {
	Prompt(label string, validate func(string) error) (string, error)
}

// ScriptRunner executes script text to completion.
type ScriptRunner interface {
	RunScript(ctx context.Context, text string) error
}

// Attacher switches the current client to a session, or attaches a new one.
type Attacher interface {
	SwitchOrAttach(ctx context.Context, name string) error
}

// Reporter prints progress for the user.
type Reporter interface {
	InfoPretty(message string)
	WarnPretty(message string)
}

// Result describes how a restore ended.
type Result struct {
	State State
	// Name is the session the user ended up in, after any rename.
	Name string
	// Script is the text that was, or would have been, executed.
	Script   string
	Executed bool
}

// Restorer drives the restore state machine against real collaborators.
type Restorer struct {
	Inspector Inspector
	Presenter Presenter
	Prompter  Prompter
	Runner    ScriptRunner
	Attacher  Attacher
	Out       Reporter
	logger    *logrus.Entry
}

// NewRestorer wires a restorer.
func NewRestorer(inspector Inspector, presenter Presenter, prompter Prompter, runner ScriptRunner, attacher Attacher, out Reporter) *Restorer {
	return &Restorer{
		Inspector: inspector,
		Presenter: presenter,
		Prompter:  prompter,
		Runner:    runner,
		Attacher:  attacher,
		Out:       out,
		logger:    logging.NewLogger("restore"),
	}
}

// Restore replays text, read from source, until the user is attached to
// the restored session or quits. Quitting is not an error.
func (r *Restorer) Restore(ctx context.Context, text, source string) (*Result, error) {
	name := session.ExtractIdentity(text)
	if name == "" {
		return nil, errors.ScriptMalformed(source)
	}

	result := &Result{State: CheckConflict, Name: name, Script: text}
	ev, conflictKey, err := r.check(ctx, name)
	if err != nil {
		return nil, err
	}

	for !result.State.Terminal() {
		next, effect, err := Transition(result.State, ev, result.Name)
		if err != nil {
			if errors.Is(err, errors.ErrCodeSelfKill) {
				r.Out.WarnPretty("Try doing this from a different session or from outside tmux.")
			}
			return nil, err
		}
		r.logger.WithFields(logrus.Fields{
			"from":   result.State.String(),
			"event":  ev.Kind.String(),
			"to":     next.String(),
			"effect": effect.String(),
		}).Debug("Restore transition")
		result.State = next

		switch effect {
		case EffectPresent:
			ev, err = r.resolve(ctx, result.Name)

		case EffectKill:
			if err = r.Inspector.KillSession(ctx, result.Name); err != nil {
				return nil, err
			}
			previous := conflictKey
			ev, conflictKey, err = r.check(ctx, result.Name)
			if err == nil && ev.Kind == Conflict && conflictKey == previous {
				err = errors.New(errors.ErrCodeCommandFailed,
					fmt.Sprintf("session %q still exists after it was killed", result.Name)).
					WithDetail("session", result.Name)
			}

		case EffectRename:
			result.Script = session.RewriteIdentity(result.Script, ev.NewName)
			result.Name = ev.NewName
			ev, conflictKey, err = r.check(ctx, result.Name)

		case EffectExecute:
			r.Out.InfoPretty(fmt.Sprintf("Restoring tmux session %q...", result.Name))
			if err = r.Runner.RunScript(ctx, result.Script); err != nil {
				return nil, err
			}
			result.Executed = true
			ev = Event{Kind: Executed}

		case EffectSwitchOrAttach:
			err = r.Attacher.SwitchOrAttach(ctx, result.Name)

		case EffectNone:
			if result.State == Aborted {
				r.Out.InfoPretty("Exiting without restoring the session.")
			}
		}

		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// check queries live sessions and returns the conflict event together with
// a key identifying the (name, live sessions) pair.
func (r *Restorer) check(ctx context.Context, name string) (Event, string, error) {
	sessions, err := r.Inspector.ListSessions(ctx)
	if err != nil {
		return Event{}, "", err
	}

	sorted := append([]string(nil), sessions...)
	sort.Strings(sorted)
	key := name + "\x00" + strings.Join(sorted, "\x00")

	for _, s := range sessions {
		if s == name {
			return Event{Kind: Conflict}, key, nil
		}
	}
	return Event{Kind: NoConflict}, key, nil
}

// resolve presents the conflict menu and gathers what the chosen
// resolution needs. Cancelling the menu or the rename prompt quits.
func (r *Restorer) resolve(ctx context.Context, name string) (Event, error) {
	title := fmt.Sprintf("A session with the name %q already exists in the tmux server.", name)
	key, err := r.Presenter.Present(title, ConflictOptions)
	if err != nil {
		if errors.Is(err, errors.ErrCodeCancelled) {
			return Event{Kind: ChoseQuit}, nil
		}
		return Event{}, err
	}

	ev, err := EventForKey(key)
	if err != nil {
		return Event{}, err
	}

	switch ev.Kind {
	case ChoseKill:
		ev.SelfAttached, err = r.Inspector.IsCurrentSession(ctx, name)
		if err != nil {
			return Event{}, err
		}
	case ChoseRename:
		newName, err := r.promptName(name)
		if err != nil {
			if errors.Is(err, errors.ErrCodeCancelled) {
				return Event{Kind: ChoseQuit}, nil
			}
			return Event{}, err
		}
		ev.NewName = newName
	}
	return ev, nil
}

func (r *Restorer) promptName(current string) (string, error) {
	validate := func(candidate string) error {
		if err := session.ValidateName(candidate); err != nil {
			return errors.InvalidSessionName(candidate, err.Error())
		}
		if candidate == current {
			return errors.InvalidSessionName(candidate, "a session with this name already exists")
		}
		return nil
	}

	newName, err := r.Prompter.Prompt("Enter new session name: ", validate)
	if err != nil {
		return "", err
	}
	newName = strings.TrimSpace(newName)
	if err := validate(newName); err != nil {
		return "", err
	}
	return newName, nil
}
