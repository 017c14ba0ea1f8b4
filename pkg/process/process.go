// Package process discovers the foreground command running in a tmux pane
// by reading the OS process table through ps.
package process

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/grovetools/tmuxession/command"
	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/logging"
	"github.com/sirupsen/logrus"
)

// DefaultIgnore skips our own invocation when it is the pane's foreground job.
var DefaultIgnore = []string{"tmuxession"}

// IsProcessAlive checks if a process with the given PID is still running.
// It uses a signal-sending method that is cross-platform for Unix-like systems (macOS, Linux).
func IsProcessAlive(pid int) bool {
	// PID 0 or less is invalid.
	if pid <= 0 {
		return false
	}

	// Find the process. This doesn't fail on Unix if the process doesn't exist.
	process, err := os.FindProcess(pid)
	if err != nil {
		return false // Should not happen on Unix-like systems.
	}

	// Signal 0 checks for existence without delivering anything.
	// EPERM still means the process exists.
	err = process.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}

// Inspector reads command lines from the process table.
type Inspector struct {
	builder *command.SafeBuilder
	ignore  []string
	alive   func(pid int) bool
	logger  *logrus.Entry
}

// NewInspector creates an inspector that runs ps through builder. Child
// commands containing any of the ignore substrings are skipped.
func NewInspector(builder *command.SafeBuilder, ignore []string) *Inspector {
	if builder == nil {
		builder = command.NewSafeBuilder()
	}
	return &Inspector{
		builder: builder,
		ignore:  ignore,
		alive:   IsProcessAlive,
		logger:  logging.NewLogger("process"),
	}
}

// WithLivenessCheck replaces the process liveness probe.
func (i *Inspector) WithLivenessCheck(alive func(pid int) bool) *Inspector {
	i.alive = alive
	return i
}

// PaneCommands returns the command line of pid followed by the command line
// of its first child that is not ignored. The result has one or two entries.
// A pane whose shell has already exited yields an empty first command.
func (i *Inspector) PaneCommands(ctx context.Context, pid int) ([]string, error) {
	if !i.alive(pid) {
		i.logger.WithField("pid", pid).Debug("Pane process is gone")
		return []string{""}, nil
	}

	children, err := i.Children(ctx, pid)
	if err != nil {
		return nil, err
	}

	shell, err := i.Args(ctx, pid)
	if err != nil {
		return nil, err
	}
	commands := []string{shell}

	for _, child := range children {
		args, err := i.Args(ctx, child)
		if err != nil {
			return nil, err
		}
		if args == "" || i.ignored(args) {
			continue
		}
		commands = append(commands, args)
		break
	}

	i.logger.WithFields(logrus.Fields{"pid": pid, "commands": commands}).Debug("Captured pane commands")
	return commands, nil
}

// Children returns the PIDs whose parent is pid, in ps order.
func (i *Inspector) Children(ctx context.Context, pid int) ([]int, error) {
	output, err := i.ps(ctx, "--ppid", strconv.Itoa(pid), "-o", "pid=")
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, field := range strings.Fields(output) {
		child, err := strconv.Atoi(field)
		if err != nil {
			continue // Skip anything that is not a pid
		}
		pids = append(pids, child)
	}
	return pids, nil
}

// Args returns the sanitized command line of pid.
func (i *Inspector) Args(ctx context.Context, pid int) (string, error) {
	output, err := i.ps(ctx, "-p", strconv.Itoa(pid), "-o", "args=")
	if err != nil {
		return "", err
	}
	return SanitizeArgs(output), nil
}

// ps runs ps and returns stdout. ps exits 1 when no process matched, which
// is reported as empty output rather than an error.
func (i *Inspector) ps(ctx context.Context, args ...string) (string, error) {
	cmd, err := i.builder.Build(ctx, "ps", args...)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to build ps command")
	}

	execCmd := cmd.Exec()
	var stderr strings.Builder
	execCmd.Stderr = &stderr
	output, err := execCmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 && strings.TrimSpace(stderr.String()) == "" {
			return "", nil
		}
		if _, ok := err.(*exec.Error); ok {
			return "", errors.Wrap(err, errors.ErrCodeCommandMissing, "ps command not found in PATH")
		}
		return "", errors.CommandFailed(cmd.String(), stderr.String(), err)
	}
	return string(output), nil
}

func (i *Inspector) ignored(args string) bool {
	for _, pattern := range i.ignore {
		if pattern != "" && strings.Contains(args, pattern) {
			return true
		}
	}
	return false
}

// SanitizeArgs trims ps output and drops the leading '-' that marks a login shell.
func SanitizeArgs(raw string) string {
	args := strings.TrimSpace(raw)
	return strings.TrimPrefix(args, "-")
}
