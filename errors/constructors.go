package errors

import (
	"fmt"
	"os/exec"
	"strings"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SessionError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SessionError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// TmuxNotFound reports that the tmux binary could not be located.
func TmuxNotFound(binary string, err error) *SessionError {
	return Wrap(err, ErrCodeTmuxNotFound, fmt.Sprintf("%s command not found in PATH", binary)).
		WithDetail("binary", binary)
}

// NotInsideTmux reports a subcommand that needs a tmux client.
func NotInsideTmux(subcommand string) *SessionError {
	return New(ErrCodeNotInsideTmux, fmt.Sprintf("`tmuxession %s` must be run inside a tmux session", subcommand)).
		WithDetail("subcommand", subcommand)
}

// CommandFailed creates a command execution failure error. The subordinate's
// diagnostic output is kept verbatim in the "output" detail.
func CommandFailed(cmd string, output string, err error) *SessionError {
	sessErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	if strings.TrimSpace(output) != "" {
		sessErr = sessErr.WithDetail("output", output)
	}

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		sessErr = sessErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return sessErr
}

// ScriptNotFound reports a missing restore script.
func ScriptNotFound(path string, err error) *SessionError {
	return Wrap(err, ErrCodeScriptNotFound, fmt.Sprintf("could not read session script: %s", path)).
		WithDetail("path", path)
}

// ScriptMalformed reports a script without an identity line.
func ScriptMalformed(path string) *SessionError {
	return New(ErrCodeScriptMalformed, "could not find session_name variable in the script").
		WithDetail("path", path)
}

// InvalidSessionName reports a session name that cannot be stored or used.
func InvalidSessionName(name string, reason string) *SessionError {
	return New(ErrCodeInvalidSessionName, fmt.Sprintf("invalid session name %q: %s", name, reason)).
		WithDetail("name", name)
}

// SelfKill reports an attempt to kill the session the caller is attached to.
func SelfKill(name string) *SessionError {
	return New(ErrCodeSelfKill, fmt.Sprintf("you are currently inside the session %q you are trying to kill", name)).
		WithDetail("session", name)
}

// Cancelled reports a user-initiated cancellation.
func Cancelled(reason string) *SessionError {
	return New(ErrCodeCancelled, reason)
}
